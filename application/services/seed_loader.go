package services

import (
	"context"
	"time"

	"github.com/SanjayNarukulla/swift-backend/application/ports"
	"github.com/SanjayNarukulla/swift-backend/domain/core/entities"
	"github.com/SanjayNarukulla/swift-backend/domain/events"
	appErrors "github.com/SanjayNarukulla/swift-backend/pkg/errors"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// MsgDataLoaded is reported after a successful seed
const MsgDataLoaded = "Data loaded successfully"

// seedAPIService names the remote seed API in external-service errors
const seedAPIService = "seed api"

// SeedRecorder receives per-collection insert counts
type SeedRecorder interface {
	RecordSeeded(collection string, n int)
}

// SeedResult summarises a completed seed run
type SeedResult struct {
	Message  string `json:"message"`
	RunID    string `json:"-"`
	Users    int    `json:"-"`
	Posts    int    `json:"-"`
	Comments int    `json:"-"`
}

// SeedLoader replaces the contents of the users, posts and comments
// collections with a fresh copy from the seed source
type SeedLoader struct {
	stores    ports.StoreProvider
	source    ports.SeedSource
	tracer    trace.Tracer
	recorder  SeedRecorder
	publisher ports.EventPublisher
	logger    *zap.Logger
}

// NewSeedLoader creates a new seed loader. recorder and publisher may be nil.
func NewSeedLoader(
	stores ports.StoreProvider,
	source ports.SeedSource,
	tracer trace.Tracer,
	recorder SeedRecorder,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *SeedLoader {
	if publisher == nil {
		publisher = ports.NoopPublisher{}
	}
	return &SeedLoader{
		stores:    stores,
		source:    source,
		tracer:    tracer,
		recorder:  recorder,
		publisher: publisher,
		logger:    logger,
	}
}

// Load runs one seed. The three fetches run concurrently and so do the three
// clears; the first failure in either group aborts the run. Inserts then run
// in order: users, posts, comments. A failure part way leaves whatever was
// already written.
func (l *SeedLoader) Load(ctx context.Context) (*SeedResult, error) {
	runID := uuid.NewString()
	logger := l.logger.With(zap.String("run_id", runID))
	start := time.Now()

	ctx, span := l.tracer.Start(ctx, "seed.Load", trace.WithAttributes(attribute.String("seed.run_id", runID)))
	defer span.End()

	logger.Info("Starting seed run")

	store, err := l.stores.Connect(ctx)
	if err != nil {
		return nil, l.fail(span, logger, "failed to connect to data store", err)
	}

	users, posts, comments, err := l.fetch(ctx)
	if err != nil {
		l.logFailure(span, logger, "failed to fetch seed data", err)
		return nil, appErrors.NewExternalError(seedAPIService, err)
	}
	logger.Info("Fetched seed data",
		zap.Int("users", len(users)),
		zap.Int("posts", len(posts)),
		zap.Int("comments", len(comments)))

	if err := l.clear(ctx, store); err != nil {
		return nil, l.fail(span, logger, "failed to clear collections", err)
	}
	logger.Info("Cleared old data")

	if err := l.insert(ctx, logger, store, entities.UsersCollection, toDocs(users)); err != nil {
		return nil, l.fail(span, logger, "failed to insert users", err)
	}
	if err := l.insert(ctx, logger, store, entities.PostsCollection, toDocs(posts)); err != nil {
		return nil, l.fail(span, logger, "failed to insert posts", err)
	}
	if err := l.insert(ctx, logger, store, entities.CommentsCollection, toDocs(comments)); err != nil {
		return nil, l.fail(span, logger, "failed to insert comments", err)
	}

	logger.Info("Seed run completed", zap.Duration("duration", time.Since(start)))

	// The data is already written; a lost notification does not fail the load.
	event := events.NewSeedCompleted(runID, len(users), len(posts), len(comments))
	if err := l.publisher.Publish(ctx, event); err != nil {
		logger.Warn("Failed to publish seed event", zap.Error(err))
	}

	return &SeedResult{
		Message:  MsgDataLoaded,
		RunID:    runID,
		Users:    len(users),
		Posts:    len(posts),
		Comments: len(comments),
	}, nil
}

func (l *SeedLoader) fetch(ctx context.Context) ([]entities.User, []entities.Post, []entities.Comment, error) {
	ctx, span := l.tracer.Start(ctx, "seed.fetch")
	defer span.End()

	var (
		users    []entities.User
		posts    []entities.Post
		comments []entities.Comment
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		users, err = l.source.FetchUsers(gctx)
		return err
	})
	g.Go(func() (err error) {
		posts, err = l.source.FetchPosts(gctx)
		return err
	})
	g.Go(func() (err error) {
		comments, err = l.source.FetchComments(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, nil, nil, err
	}
	return users, posts, comments, nil
}

func (l *SeedLoader) clear(ctx context.Context, store ports.Store) error {
	ctx, span := l.tracer.Start(ctx, "seed.clear")
	defer span.End()

	g, gctx := errgroup.WithContext(ctx)
	for _, name := range []string{entities.UsersCollection, entities.PostsCollection, entities.CommentsCollection} {
		coll := store.Collection(name)
		g.Go(func() error {
			_, err := coll.DeleteMany(gctx, ports.All())
			return err
		})
	}
	return g.Wait()
}

func (l *SeedLoader) insert(ctx context.Context, logger *zap.Logger, store ports.Store, name string, docs []any) error {
	if len(docs) == 0 {
		logger.Info("Nothing to insert", zap.String("collection", name))
		return nil
	}

	ctx, span := l.tracer.Start(ctx, "seed.insert", trace.WithAttributes(
		attribute.String("db.collection", name),
		attribute.Int("db.documents", len(docs)),
	))
	defer span.End()

	if err := store.Collection(name).InsertMany(ctx, docs); err != nil {
		return err
	}

	if l.recorder != nil {
		l.recorder.RecordSeeded(name, len(docs))
	}
	logger.Info("Inserted records", zap.String("collection", name), zap.Int("count", len(docs)))
	return nil
}

// fail logs the cause and returns an error that only names the phase
func (l *SeedLoader) fail(span trace.Span, logger *zap.Logger, phase string, cause error) error {
	l.logFailure(span, logger, phase, cause)
	return appErrors.NewInternalError(phase).WithCause(cause)
}

func (l *SeedLoader) logFailure(span trace.Span, logger *zap.Logger, phase string, cause error) {
	span.RecordError(cause)
	logger.Error("Seed run failed", zap.String("phase", phase), zap.Error(cause))
}

func toDocs[T any](records []T) []any {
	docs := make([]any, 0, len(records))
	for _, r := range records {
		docs = append(docs, r)
	}
	return docs
}
