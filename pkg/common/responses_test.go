package common

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondJSON_PrettyPrints(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, RespondJSON(rec, http.StatusCreated, map[string]any{"message": "ok", "n": 1}))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "{\n  \"message\": \"ok\",\n  \"n\": 1\n}\n", rec.Body.String())
}

func TestRespondJSON_DoesNotEscapeHTML(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, RespondMessage(rec, http.StatusOK, "<b>&</b>"))
	assert.Contains(t, rec.Body.String(), `"<b>&</b>"`)
}

func TestRespondError(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, RespondError(rec, http.StatusNotFound, "Not Found"))
	assert.JSONEq(t, `{"error":"Not Found"}`, rec.Body.String())
}
