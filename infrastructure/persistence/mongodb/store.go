package mongodb

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/SanjayNarukulla/swift-backend/application/ports"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.uber.org/zap"
)

// Store is a MongoDB-backed ports.Store
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	logger *zap.Logger
}

// Open connects to MongoDB and verifies the primary is reachable.
// The database name in the URI path wins over defaultDatabase.
func Open(ctx context.Context, uri, defaultDatabase string, logger *zap.Logger) (*Store, error) {
	name, err := DatabaseName(uri, defaultDatabase)
	if err != nil {
		return nil, err
	}

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to reach mongo primary: %w", err)
	}

	logger.Info("Connected to MongoDB", zap.String("database", name))

	return &Store{
		client: client,
		db:     client.Database(name),
		logger: logger,
	}, nil
}

// DatabaseName picks the database from the URI path, falling back to def
func DatabaseName(uri, def string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("invalid mongo uri: %w", err)
	}
	if name := strings.Trim(u.Path, "/"); name != "" {
		return name, nil
	}
	if def == "" {
		return "", errors.New("no database name in uri and no default configured")
	}
	return def, nil
}

// Collection returns a handle on the named collection
func (s *Store) Collection(name string) ports.Collection {
	return NewCollection(s.db.Collection(name))
}

// Close disconnects the client
func (s *Store) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect mongo client: %w", err)
	}
	s.logger.Info("MongoDB connection closed")
	return nil
}

// Driver is the subset of *mongo.Collection that Collection calls
type Driver interface {
	Name() string
	FindOne(ctx context.Context, filter any, opts ...options.Lister[options.FindOneOptions]) *mongo.SingleResult
	Find(ctx context.Context, filter any, opts ...options.Lister[options.FindOptions]) (*mongo.Cursor, error)
	InsertOne(ctx context.Context, document any, opts ...options.Lister[options.InsertOneOptions]) (*mongo.InsertOneResult, error)
	InsertMany(ctx context.Context, documents any, opts ...options.Lister[options.InsertManyOptions]) (*mongo.InsertManyResult, error)
	DeleteOne(ctx context.Context, filter any, opts ...options.Lister[options.DeleteOneOptions]) (*mongo.DeleteResult, error)
	DeleteMany(ctx context.Context, filter any, opts ...options.Lister[options.DeleteManyOptions]) (*mongo.DeleteResult, error)
}

var _ Driver = (*mongo.Collection)(nil)

// Collection adapts a mongo collection to ports.Collection
type Collection struct {
	coll Driver
}

// NewCollection wraps coll
func NewCollection(coll Driver) *Collection {
	return &Collection{coll: coll}
}

// Name returns the collection name
func (c *Collection) Name() string {
	return c.coll.Name()
}

// FindOne decodes the first matching document into out
func (c *Collection) FindOne(ctx context.Context, filter ports.Filter, out any) error {
	err := c.coll.FindOne(ctx, toBSON(filter)).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ports.ErrNoDocuments
	}
	return err
}

// Find decodes every matching document into out
func (c *Collection) Find(ctx context.Context, filter ports.Filter, out any) error {
	cursor, err := c.coll.Find(ctx, toBSON(filter))
	if err != nil {
		return err
	}
	return cursor.All(ctx, out)
}

// InsertOne inserts a single document
func (c *Collection) InsertOne(ctx context.Context, doc any) error {
	_, err := c.coll.InsertOne(ctx, doc)
	return err
}

// InsertMany inserts docs in one call. An empty slice is a no-op.
func (c *Collection) InsertMany(ctx context.Context, docs []any) error {
	if len(docs) == 0 {
		return nil
	}
	_, err := c.coll.InsertMany(ctx, docs)
	return err
}

// DeleteOne deletes the first matching document
func (c *Collection) DeleteOne(ctx context.Context, filter ports.Filter) (int64, error) {
	res, err := c.coll.DeleteOne(ctx, toBSON(filter))
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteMany deletes every matching document
func (c *Collection) DeleteMany(ctx context.Context, filter ports.Filter) (int64, error) {
	res, err := c.coll.DeleteMany(ctx, toBSON(filter))
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// toBSON translates a filter to its mongo query document
func toBSON(f ports.Filter) bson.D {
	switch f.Op {
	case ports.OpEq:
		return bson.D{{Key: f.Field, Value: f.Value}}
	case ports.OpIn:
		values := f.Values
		if values == nil {
			values = []any{}
		}
		return bson.D{{Key: f.Field, Value: bson.D{{Key: "$in", Value: values}}}}
	default:
		return bson.D{}
	}
}
