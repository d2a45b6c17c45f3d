package ports

import (
	"context"
	"errors"

	"github.com/SanjayNarukulla/swift-backend/domain/core/entities"
)

// ErrNoDocuments is returned by FindOne when nothing matches the filter
var ErrNoDocuments = errors.New("no documents in result")

// ErrDuplicateKey is returned by InsertOne when the backend keys documents by
// id and a document with that id already exists
var ErrDuplicateKey = errors.New("document with this key already exists")

// FilterOp is the kind of predicate a Filter applies
type FilterOp int

const (
	// OpAll matches every document
	OpAll FilterOp = iota
	// OpEq matches documents whose field equals a value
	OpEq
	// OpIn matches documents whose field is one of a set of values
	OpIn
)

// Filter is a single-field document predicate
type Filter struct {
	Op     FilterOp
	Field  string
	Value  any
	Values []any
}

// All matches every document in a collection
func All() Filter {
	return Filter{Op: OpAll}
}

// Eq matches documents where field == value
func Eq(field string, value any) Filter {
	return Filter{Op: OpEq, Field: field, Value: value}
}

// In matches documents where field is any of values
func In[T any](field string, values ...T) Filter {
	vs := make([]any, 0, len(values))
	for _, v := range values {
		vs = append(vs, v)
	}
	return Filter{Op: OpIn, Field: field, Values: vs}
}

// Collection is a handle on one document collection.
// Find and FindOne decode into out, which must be a pointer to a slice
// (Find) or a pointer to a struct (FindOne).
type Collection interface {
	Name() string
	FindOne(ctx context.Context, filter Filter, out any) error
	Find(ctx context.Context, filter Filter, out any) error
	InsertOne(ctx context.Context, doc any) error
	InsertMany(ctx context.Context, docs []any) error
	DeleteOne(ctx context.Context, filter Filter) (int64, error)
	DeleteMany(ctx context.Context, filter Filter) (int64, error)
}

// Store is a live connection to the document database
type Store interface {
	Collection(name string) Collection
	Close(ctx context.Context) error
}

// StoreProvider hands out the process-wide store handle
type StoreProvider interface {
	Connect(ctx context.Context) (Store, error)
}

// SeedSource serves the remote collections used to seed the store
type SeedSource interface {
	FetchUsers(ctx context.Context) ([]entities.User, error)
	FetchPosts(ctx context.Context) ([]entities.Post, error)
	FetchComments(ctx context.Context) ([]entities.Comment, error)
}
