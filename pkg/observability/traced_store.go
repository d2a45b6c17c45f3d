package observability

import (
	"context"
	"errors"
	"time"

	"github.com/SanjayNarukulla/swift-backend/application/ports"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentStore wraps every collection handed out by store with a span and
// store metrics per operation. A nil collector disables metrics.
func InstrumentStore(store ports.Store, tracer trace.Tracer, collector *Collector) ports.Store {
	return &instrumentedStore{inner: store, tracer: tracer, collector: collector}
}

type instrumentedStore struct {
	inner     ports.Store
	tracer    trace.Tracer
	collector *Collector
}

func (s *instrumentedStore) Collection(name string) ports.Collection {
	return &tracedCollection{
		inner:     s.inner.Collection(name),
		tracer:    s.tracer,
		collector: s.collector,
	}
}

func (s *instrumentedStore) Close(ctx context.Context) error {
	return s.inner.Close(ctx)
}

type tracedCollection struct {
	inner     ports.Collection
	tracer    trace.Tracer
	collector *Collector
}

func (c *tracedCollection) observe(ctx context.Context, op string, filter *ports.Filter, fn func(context.Context) error) error {
	attrs := []attribute.KeyValue{attribute.String("db.collection", c.inner.Name())}
	if filter != nil && filter.Field != "" {
		attrs = append(attrs, attribute.String("db.filter.field", filter.Field))
	}

	ctx, span := c.tracer.Start(ctx, "store."+op, trace.WithAttributes(attrs...))
	defer span.End()

	start := time.Now()
	err := fn(ctx)

	// a lookup that matches nothing is an answer, not a failure
	failed := err
	if errors.Is(err, ports.ErrNoDocuments) {
		failed = nil
		span.SetAttributes(attribute.Bool("db.found", false))
	}

	if c.collector != nil {
		c.collector.RecordDBOperation(op, c.inner.Name(), failed, time.Since(start))
	}
	if failed != nil {
		span.RecordError(failed)
		span.SetStatus(codes.Error, failed.Error())
	}
	return err
}

func (c *tracedCollection) Name() string {
	return c.inner.Name()
}

func (c *tracedCollection) FindOne(ctx context.Context, filter ports.Filter, out any) error {
	return c.observe(ctx, "FindOne", &filter, func(ctx context.Context) error {
		return c.inner.FindOne(ctx, filter, out)
	})
}

func (c *tracedCollection) Find(ctx context.Context, filter ports.Filter, out any) error {
	return c.observe(ctx, "Find", &filter, func(ctx context.Context) error {
		return c.inner.Find(ctx, filter, out)
	})
}

func (c *tracedCollection) InsertOne(ctx context.Context, doc any) error {
	return c.observe(ctx, "InsertOne", nil, func(ctx context.Context) error {
		return c.inner.InsertOne(ctx, doc)
	})
}

func (c *tracedCollection) InsertMany(ctx context.Context, docs []any) error {
	return c.observe(ctx, "InsertMany", nil, func(ctx context.Context) error {
		trace.SpanFromContext(ctx).SetAttributes(attribute.Int("db.documents", len(docs)))
		return c.inner.InsertMany(ctx, docs)
	})
}

func (c *tracedCollection) DeleteOne(ctx context.Context, filter ports.Filter) (int64, error) {
	var n int64
	err := c.observe(ctx, "DeleteOne", &filter, func(ctx context.Context) error {
		var err error
		n, err = c.inner.DeleteOne(ctx, filter)
		return err
	})
	return n, err
}

func (c *tracedCollection) DeleteMany(ctx context.Context, filter ports.Filter) (int64, error) {
	var n int64
	err := c.observe(ctx, "DeleteMany", &filter, func(ctx context.Context) error {
		var err error
		n, err = c.inner.DeleteMany(ctx, filter)
		return err
	})
	return n, err
}
