package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SanjayNarukulla/swift-backend/application/ports"
	"github.com/SanjayNarukulla/swift-backend/infrastructure/persistence/memory"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestCollector_Records(t *testing.T) {
	c := NewCollector("test")

	c.RecordHTTPRequest("GET", "/users/*", 200, 5*time.Millisecond)
	c.RecordDBOperation("Find", "posts", nil, time.Millisecond)
	c.RecordDBOperation("Find", "posts", errors.New("boom"), time.Millisecond)
	c.RecordSeeded("users", 10)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.HTTPRequests.WithLabelValues("GET", "/users/*", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.DBOperations.WithLabelValues("Find", "posts", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.DBOperations.WithLabelValues("Find", "posts", "error")))
	assert.Equal(t, 10.0, testutil.ToFloat64(c.SeededRecords.WithLabelValues("users")))
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector("test")
	c.RecordSeeded("posts", 3)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `test_seeded_records_total{collection="posts"} 3`)
}

func TestInstrumentStore_PassesThrough(t *testing.T) {
	c := NewCollector("test")
	store := InstrumentStore(memory.NewStore(), NoopTracing("test").Tracer(), c)
	ctx := context.Background()

	users := store.Collection("users")
	assert.Equal(t, "users", users.Name())

	require.NoError(t, users.InsertMany(ctx, []any{map[string]any{"id": 1}, map[string]any{"id": 2}}))

	var one map[string]any
	require.NoError(t, users.FindOne(ctx, ports.Eq("id", 2), &one))
	assert.EqualValues(t, 2, one["id"])

	err := users.FindOne(ctx, ports.Eq("id", 3), &one)
	assert.ErrorIs(t, err, ports.ErrNoDocuments)

	n, err := users.DeleteMany(ctx, ports.All())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.DBOperations.WithLabelValues("InsertMany", "users", "success")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.DBOperations.WithLabelValues("FindOne", "users", "success")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.DBOperations.WithLabelValues("FindOne", "users", "error")))
	assert.NoError(t, store.Close(ctx))
}

// brokenStore fails every collection call
type brokenStore struct {
	ports.Store
}

func (s brokenStore) Collection(name string) ports.Collection {
	return brokenCollection{Collection: s.Store.Collection(name)}
}

type brokenCollection struct {
	ports.Collection
}

func (brokenCollection) FindOne(ctx context.Context, filter ports.Filter, out any) error {
	return errors.New("connection reset")
}

func TestInstrumentStore_MissIsNotAnError(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := provider.Tracer("test")
	c := NewCollector("test")
	ctx := context.Background()

	var out map[string]any
	missing := InstrumentStore(memory.NewStore(), tracer, c).Collection("users")
	assert.ErrorIs(t, missing.FindOne(ctx, ports.Eq("email", "nobody@example.com"), &out), ports.ErrNoDocuments)

	broken := InstrumentStore(brokenStore{Store: memory.NewStore()}, tracer, c).Collection("users")
	assert.Error(t, broken.FindOne(ctx, ports.Eq("id", 1), &out))

	assert.Equal(t, 1.0, testutil.ToFloat64(c.DBOperations.WithLabelValues("FindOne", "users", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.DBOperations.WithLabelValues("FindOne", "users", "error")))

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
	assert.Contains(t, spans[0].Attributes(), attribute.Bool("db.found", false))
	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Equal(t, "connection reset", spans[1].Status().Description)
}

func TestNoopTracing_Shutdown(t *testing.T) {
	assert.NoError(t, NoopTracing("test").Shutdown(context.Background()))
}
