// Package persistence owns the process-wide connection to the document store.
package persistence

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/SanjayNarukulla/swift-backend/application/ports"
	"github.com/SanjayNarukulla/swift-backend/infrastructure/persistence/dynamodb"
	"github.com/SanjayNarukulla/swift-backend/infrastructure/persistence/memory"
	"github.com/SanjayNarukulla/swift-backend/infrastructure/persistence/mongodb"
	"github.com/SanjayNarukulla/swift-backend/pkg/observability"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ErrMissingURI is returned by Connect when no connection string is set
var ErrMissingURI = errors.New("database connection string is empty")

// Opener opens a store for a connection string
type Opener func(ctx context.Context, uri, database string, logger *zap.Logger) (ports.Store, error)

// Gateway connects to the store on first use and hands the same handle to
// every caller until Close.
type Gateway struct {
	uri      string
	database string
	logger   *zap.Logger
	openers  map[string]Opener

	tracer    trace.Tracer
	collector *observability.Collector

	mu    sync.Mutex
	store ports.Store
}

// Option configures a Gateway
type Option func(*Gateway)

// WithOpener registers an opener for a URI scheme, replacing any default
func WithOpener(scheme string, open Opener) Option {
	return func(g *Gateway) {
		g.openers[scheme] = open
	}
}

// WithInstrumentation wraps every collection with spans and store metrics
func WithInstrumentation(tracer trace.Tracer, collector *observability.Collector) Option {
	return func(g *Gateway) {
		g.tracer = tracer
		g.collector = collector
	}
}

// NewGateway creates a gateway for uri. database is the fallback database
// (or table prefix) when the URI does not name one.
func NewGateway(uri, database string, logger *zap.Logger, opts ...Option) *Gateway {
	g := &Gateway{
		uri:      uri,
		database: database,
		logger:   logger,
		openers:  make(map[string]Opener),
	}
	for _, opt := range append(defaultOpeners(), opts...) {
		opt(g)
	}
	return g
}

// defaultOpeners registers the built-in backends
func defaultOpeners() []Option {
	openMongo := func(ctx context.Context, uri, database string, logger *zap.Logger) (ports.Store, error) {
		return mongodb.Open(ctx, uri, database, logger)
	}
	openDynamo := func(ctx context.Context, uri, database string, logger *zap.Logger) (ports.Store, error) {
		return dynamodb.Open(ctx, uri, database, logger)
	}
	openMemory := func(ctx context.Context, uri, database string, logger *zap.Logger) (ports.Store, error) {
		return memory.NewStore(), nil
	}
	return []Option{
		WithOpener("mongodb", openMongo),
		WithOpener("mongodb+srv", openMongo),
		WithOpener("dynamodb", openDynamo),
		WithOpener("memory", openMemory),
	}
}

// Connect returns the open store, opening it if needed. Safe for concurrent
// use; only one caller ever performs the open.
func (g *Gateway) Connect(ctx context.Context) (ports.Store, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.store != nil {
		return g.store, nil
	}

	if g.uri == "" {
		return nil, ErrMissingURI
	}

	u, err := url.Parse(g.uri)
	if err != nil {
		return nil, fmt.Errorf("invalid connection string: %w", err)
	}
	open, ok := g.openers[u.Scheme]
	if !ok {
		return nil, fmt.Errorf("unsupported connection string scheme %q", u.Scheme)
	}

	store, err := open(ctx, g.uri, g.database, g.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s store: %w", u.Scheme, err)
	}

	if g.tracer != nil {
		store = observability.InstrumentStore(store, g.tracer, g.collector)
	}

	g.logger.Info("Data store connected", zap.String("backend", u.Scheme))
	g.store = store
	return store, nil
}

// Close releases the open store. Closing a gateway that is not connected is
// a no-op; a later Connect opens a fresh handle.
func (g *Gateway) Close(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.store == nil {
		return nil
	}

	err := g.store.Close(ctx)
	g.store = nil
	if err != nil {
		return fmt.Errorf("failed to close store: %w", err)
	}
	g.logger.Info("Data store connection closed")
	return nil
}
