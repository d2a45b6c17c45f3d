// Package memory is an in-process document store. Documents are kept in
// their JSON form, so anything that round-trips through encoding/json can be
// stored and queried.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sync"

	"github.com/SanjayNarukulla/swift-backend/application/ports"
)

// Store is an in-memory implementation of ports.Store
type Store struct {
	mu          sync.Mutex
	collections map[string]*Collection
}

// NewStore creates an empty in-memory store
func NewStore() *Store {
	return &Store{collections: make(map[string]*Collection)}
}

// Collection returns the named collection, creating it on first use
func (s *Store) Collection(name string) ports.Collection {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[name]
	if !ok {
		c = &Collection{name: name}
		s.collections[name] = c
	}
	return c
}

// Close is a no-op; the data lives as long as the Store value
func (s *Store) Close(ctx context.Context) error {
	return nil
}

// Collection is one named set of documents
type Collection struct {
	name string
	mu   sync.RWMutex
	docs []map[string]any
}

// Name returns the collection name
func (c *Collection) Name() string {
	return c.name
}

// FindOne decodes the first matching document into out
func (c *Collection) FindOne(ctx context.Context, filter ports.Filter, out any) error {
	m, err := newMatcher(filter)
	if err != nil {
		return err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, doc := range c.docs {
		if m.match(doc) {
			return convert(doc, out)
		}
	}
	return ports.ErrNoDocuments
}

// Find decodes every matching document into out, a pointer to a slice
func (c *Collection) Find(ctx context.Context, filter ports.Filter, out any) error {
	m, err := newMatcher(filter)
	if err != nil {
		return err
	}

	c.mu.RLock()
	matched := make([]map[string]any, 0)
	for _, doc := range c.docs {
		if m.match(doc) {
			matched = append(matched, doc)
		}
	}
	c.mu.RUnlock()

	return convert(matched, out)
}

// InsertOne stores a single document
func (c *Collection) InsertOne(ctx context.Context, doc any) error {
	return c.InsertMany(ctx, []any{doc})
}

// InsertMany stores all documents or none of them
func (c *Collection) InsertMany(ctx context.Context, docs []any) error {
	normalized := make([]map[string]any, 0, len(docs))
	for i, doc := range docs {
		var m map[string]any
		if err := convert(doc, &m); err != nil {
			return fmt.Errorf("document %d: %w", i, err)
		}
		if m == nil {
			return fmt.Errorf("document %d is not an object", i)
		}
		normalized = append(normalized, m)
	}

	c.mu.Lock()
	c.docs = append(c.docs, normalized...)
	c.mu.Unlock()
	return nil
}

// DeleteOne removes the first matching document
func (c *Collection) DeleteOne(ctx context.Context, filter ports.Filter) (int64, error) {
	return c.delete(filter, 1)
}

// DeleteMany removes every matching document
func (c *Collection) DeleteMany(ctx context.Context, filter ports.Filter) (int64, error) {
	return c.delete(filter, -1)
}

func (c *Collection) delete(filter ports.Filter, limit int) (int64, error) {
	m, err := newMatcher(filter)
	if err != nil {
		return 0, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var deleted int64
	kept := c.docs[:0]
	for _, doc := range c.docs {
		if (limit < 0 || deleted < int64(limit)) && m.match(doc) {
			deleted++
			continue
		}
		kept = append(kept, doc)
	}
	for i := len(kept); i < len(c.docs); i++ {
		c.docs[i] = nil
	}
	c.docs = kept
	return deleted, nil
}

// matcher evaluates a filter against documents in JSON form
type matcher struct {
	op     ports.FilterOp
	field  string
	values []any
}

func newMatcher(f ports.Filter) (*matcher, error) {
	m := &matcher{op: f.Op, field: f.Field}
	switch f.Op {
	case ports.OpAll:
		return m, nil
	case ports.OpEq:
		v, err := normalize(f.Value)
		if err != nil {
			return nil, err
		}
		m.values = []any{v}
	case ports.OpIn:
		for _, raw := range f.Values {
			v, err := normalize(raw)
			if err != nil {
				return nil, err
			}
			m.values = append(m.values, v)
		}
	default:
		return nil, fmt.Errorf("unsupported filter op %d", f.Op)
	}
	return m, nil
}

func (m *matcher) match(doc map[string]any) bool {
	if m.op == ports.OpAll {
		return true
	}
	got, ok := doc[m.field]
	if !ok {
		return false
	}
	for _, want := range m.values {
		if reflect.DeepEqual(got, want) {
			return true
		}
	}
	return false
}

// normalize converts a Go value to the form encoding/json decodes it to
func normalize(v any) (any, error) {
	var out any
	if err := convert(v, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func convert(in, out any) error {
	data, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}
