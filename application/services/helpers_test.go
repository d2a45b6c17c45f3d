package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/SanjayNarukulla/swift-backend/application/ports"
	"github.com/SanjayNarukulla/swift-backend/domain/core/entities"
	"github.com/SanjayNarukulla/swift-backend/domain/events"
	"github.com/SanjayNarukulla/swift-backend/infrastructure/persistence/memory"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func countDocs(t *testing.T, store ports.Store, name string) int {
	t.Helper()
	var docs []map[string]any
	require.NoError(t, store.Collection(name).Find(context.Background(), ports.All(), &docs))
	return len(docs)
}

// staticProvider always hands out the same store, or fails
type staticProvider struct {
	store ports.Store
	err   error
}

func (p *staticProvider) Connect(ctx context.Context) (ports.Store, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.store, nil
}

func newMemoryProvider() (*staticProvider, *memory.Store) {
	store := memory.NewStore()
	return &staticProvider{store: store}, store
}

// MockSeedSource is a mock implementation of ports.SeedSource
type MockSeedSource struct {
	mock.Mock
}

func (m *MockSeedSource) FetchUsers(ctx context.Context) ([]entities.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.User), args.Error(1)
}

func (m *MockSeedSource) FetchPosts(ctx context.Context) ([]entities.Post, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Post), args.Error(1)
}

func (m *MockSeedSource) FetchComments(ctx context.Context) ([]entities.Comment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Comment), args.Error(1)
}

// MockPublisher is a mock implementation of ports.EventPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, domainEvents ...events.DomainEvent) error {
	args := m.Called(ctx, domainEvents)
	return args.Error(0)
}

// fixture builds a small jsonplaceholder-shaped data set: two users, three
// posts per user, two comments per post
func fixture() ([]entities.User, []entities.Post, []entities.Comment) {
	var (
		users    []entities.User
		posts    []entities.Post
		comments []entities.Comment
	)
	postID, commentID := 1, 1
	for u := 1; u <= 2; u++ {
		users = append(users, entities.User{
			ID:       u,
			Name:     fmt.Sprintf("User %d", u),
			Username: fmt.Sprintf("user%d", u),
			Email:    fmt.Sprintf("user%d@example.com", u),
			Address: &entities.Address{
				City: "Gwenborough",
				Geo:  entities.Geo{Lat: -37.3159, Lng: 81.1496},
			},
			Company: &entities.Company{Name: "Romaguera-Crona"},
		})
		for p := 0; p < 3; p++ {
			posts = append(posts, entities.Post{ID: postID, UserID: u, Title: fmt.Sprintf("post %d", postID)})
			for c := 0; c < 2; c++ {
				comments = append(comments, entities.Comment{ID: commentID, PostID: postID, Email: "c@example.com"})
				commentID++
			}
			postID++
		}
	}
	return users, posts, comments
}
