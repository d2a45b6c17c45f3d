package acl

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SanjayNarukulla/swift-backend/domain/core/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const remoteUsers = `[
  {
    "id": 1,
    "name": "Leanne Graham",
    "username": "Bret",
    "email": "Sincere@april.biz",
    "address": {
      "street": "Kulas Light",
      "suite": "Apt. 556",
      "city": "Gwenborough",
      "zipcode": "92998-3874",
      "geo": {"lat": "-37.3159", "lng": "81.1496"}
    },
    "phone": "1-770-736-8031 x56442",
    "website": "hildegard.org",
    "company": {"name": "Romaguera-Crona", "catchPhrase": "Multi-layered", "bs": "harness"},
    "extra": "dropped"
  }
]`

func newRemote(t *testing.T, handler http.HandlerFunc) *SeedClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewSeedClient(srv.URL+"/", srv.Client(), zap.NewNop())
}

func TestFetchUsers_ProjectsRemoteRecord(t *testing.T) {
	client := newRemote(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(remoteUsers))
	})

	users, err := client.FetchUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)

	u := users[0]
	assert.Equal(t, 1, u.ID)
	assert.Equal(t, "Bret", u.Username)
	assert.Equal(t, entities.Coordinate(-37.3159), u.Address.Geo.Lat)
	assert.Equal(t, entities.Coordinate(81.1496), u.Address.Geo.Lng)
	assert.Equal(t, "Multi-layered", u.Company.CatchPhrase)
}

func TestFetchPostsAndComments(t *testing.T) {
	client := newRemote(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/posts":
			_, _ = w.Write([]byte(`[{"userId":1,"id":1,"title":"t","body":"b"}]`))
		case "/comments":
			_, _ = w.Write([]byte(`[{"postId":1,"id":1,"name":"n","email":"e@x.io","body":"b"}]`))
		default:
			http.NotFound(w, r)
		}
	})

	posts, err := client.FetchPosts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []entities.Post{{ID: 1, UserID: 1, Title: "t", Body: "b"}}, posts)

	comments, err := client.FetchComments(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []entities.Comment{{ID: 1, PostID: 1, Name: "n", Email: "e@x.io", Body: "b"}}, comments)
}

func TestFetch_NonSuccessStatus(t *testing.T) {
	client := newRemote(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.FetchPosts(context.Background())
	assert.ErrorContains(t, err, "unexpected status 502")
}

func TestFetch_InvalidJSON(t *testing.T) {
	client := newRemote(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	})

	_, err := client.FetchComments(context.Background())
	assert.ErrorContains(t, err, "decode comments")
}

func TestFetch_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewSeedClient(url, nil, zap.NewNop()).FetchUsers(context.Background())
	assert.Error(t, err)
}
