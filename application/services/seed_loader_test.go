package services

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/SanjayNarukulla/swift-backend/domain/core/entities"
	"github.com/SanjayNarukulla/swift-backend/domain/events"
	appErrors "github.com/SanjayNarukulla/swift-backend/pkg/errors"
	"github.com/SanjayNarukulla/swift-backend/pkg/observability"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newSeedSource() *MockSeedSource {
	users, posts, comments := fixture()
	source := new(MockSeedSource)
	source.On("FetchUsers", mock.Anything).Return(users, nil)
	source.On("FetchPosts", mock.Anything).Return(posts, nil)
	source.On("FetchComments", mock.Anything).Return(comments, nil)
	return source
}

func newLoader(provider *staticProvider, source *MockSeedSource, recorder SeedRecorder) *SeedLoader {
	tracer := observability.NoopTracing("test").Tracer()
	return NewSeedLoader(provider, source, tracer, recorder, nil, zap.NewNop())
}

func TestSeedLoader_Load(t *testing.T) {
	provider, store := newMemoryProvider()
	source := newSeedSource()
	collector := observability.NewCollector("test")

	result, err := newLoader(provider, source, collector).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, MsgDataLoaded, result.Message)
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, 2, countDocs(t, store, entities.UsersCollection))
	assert.Equal(t, 6, countDocs(t, store, entities.PostsCollection))
	assert.Equal(t, 12, countDocs(t, store, entities.CommentsCollection))
	assert.Equal(t, 12.0, testutil.ToFloat64(collector.SeededRecords.WithLabelValues(entities.CommentsCollection)))
	source.AssertExpectations(t)
}

func TestSeedLoader_IsIdempotent(t *testing.T) {
	provider, store := newMemoryProvider()
	loader := newLoader(provider, newSeedSource(), nil)
	ctx := context.Background()

	_, err := loader.Load(ctx)
	require.NoError(t, err)
	_, err = loader.Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, countDocs(t, store, entities.UsersCollection))
	assert.Equal(t, 6, countDocs(t, store, entities.PostsCollection))
	assert.Equal(t, 12, countDocs(t, store, entities.CommentsCollection))
}

func TestSeedLoader_ReplacesExistingData(t *testing.T) {
	provider, store := newMemoryProvider()
	ctx := context.Background()
	require.NoError(t, store.Collection(entities.UsersCollection).InsertOne(ctx, entities.User{ID: 500}))

	_, err := newLoader(provider, newSeedSource(), nil).Load(ctx)
	require.NoError(t, err)

	svc := NewUserService(provider, zap.NewNop())
	_, err = svc.GetUserWithPosts(ctx, 500)
	assert.Equal(t, http.StatusNotFound, appErrors.StatusOf(err))
}

func TestSeedLoader_FetchFailureAbortsBeforeClear(t *testing.T) {
	provider, store := newMemoryProvider()
	ctx := context.Background()
	require.NoError(t, store.Collection(entities.UsersCollection).InsertOne(ctx, entities.User{ID: 500}))

	users, posts, _ := fixture()
	source := new(MockSeedSource)
	source.On("FetchUsers", mock.Anything).Return(users, nil).Maybe()
	source.On("FetchPosts", mock.Anything).Return(posts, nil).Maybe()
	source.On("FetchComments", mock.Anything).Return(nil, errors.New("upstream returned 502"))

	_, err := newLoader(provider, source, nil).Load(ctx)
	require.Error(t, err)

	appErr := appErrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, appErrors.ErrorTypeExternal, appErr.Type)
	assert.Equal(t, "external service 'seed api' error", appErr.Message)
	assert.ErrorContains(t, appErr.Cause, "upstream returned 502")
	assert.Equal(t, 500, appErr.HTTPStatus)

	// nothing was cleared
	assert.Equal(t, 1, countDocs(t, store, entities.UsersCollection))
}

func TestSeedLoader_StoreUnavailable(t *testing.T) {
	provider := &staticProvider{err: errors.New("no route to host")}
	source := new(MockSeedSource)

	_, err := newLoader(provider, source, nil).Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, "failed to connect to data store", appErrors.GetAppError(err).Message)
	source.AssertNotCalled(t, "FetchUsers", mock.Anything)
}

func TestSeedLoader_EmptyUpstreamSkipsInsert(t *testing.T) {
	provider, store := newMemoryProvider()
	users, posts, _ := fixture()

	source := new(MockSeedSource)
	source.On("FetchUsers", mock.Anything).Return(users, nil)
	source.On("FetchPosts", mock.Anything).Return(posts, nil)
	source.On("FetchComments", mock.Anything).Return([]entities.Comment{}, nil)

	_, err := newLoader(provider, source, nil).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, countDocs(t, store, entities.CommentsCollection))
}

func TestSeedLoader_PublishesSeedCompleted(t *testing.T) {
	provider, _ := newMemoryProvider()
	publisher := new(MockPublisher)
	publisher.On("Publish", mock.Anything, mock.MatchedBy(func(evs []events.DomainEvent) bool {
		if len(evs) != 1 {
			return false
		}
		seeded, ok := evs[0].(events.SeedCompleted)
		return ok && seeded.Users == 2 && seeded.Posts == 6 && seeded.Comments == 12
	})).Return(nil)

	tracer := observability.NoopTracing("test").Tracer()
	loader := NewSeedLoader(provider, newSeedSource(), tracer, nil, publisher, zap.NewNop())

	result, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, MsgDataLoaded, result.Message)
	publisher.AssertExpectations(t)
}

func TestSeedLoader_PublishFailureDoesNotFailLoad(t *testing.T) {
	provider, store := newMemoryProvider()
	publisher := new(MockPublisher)
	publisher.On("Publish", mock.Anything, mock.Anything).Return(errors.New("bus unavailable"))

	tracer := observability.NoopTracing("test").Tracer()
	loader := NewSeedLoader(provider, newSeedSource(), tracer, nil, publisher, zap.NewNop())

	_, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, countDocs(t, store, entities.UsersCollection))
}

func TestSeedLoader_FailedRunPublishesNothing(t *testing.T) {
	provider := &staticProvider{err: errors.New("no route to host")}
	publisher := new(MockPublisher)

	tracer := observability.NoopTracing("test").Tracer()
	loader := NewSeedLoader(provider, new(MockSeedSource), tracer, nil, publisher, zap.NewNop())

	_, err := loader.Load(context.Background())
	require.Error(t, err)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}
