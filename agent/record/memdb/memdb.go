// Package memdb is the in-memory record store for the tests and the dry runs.
package memdb

import (
	"context"
	"maps"
	"sync"

	"github.com/findy-network/findy-agent-core/agent/record"
)

type bucket struct {
	order   []string
	entries map[string]record.Entry
}

// Store is an in-memory record.Store.
type Store struct {
	sync.RWMutex
	buckets map[string]*bucket
}

func New() *Store {
	return &Store{buckets: make(map[string]*bucket)}
}

func clone(e record.Entry) record.Entry {
	e.Data = append([]byte(nil), e.Data...)
	e.Tags = maps.Clone(e.Tags)
	return e
}

func (s *Store) Add(_ context.Context, e record.Entry) error {
	s.Lock()
	defer s.Unlock()

	b, ok := s.buckets[e.Type]
	if !ok {
		b = &bucket{entries: make(map[string]record.Entry)}
		s.buckets[e.Type] = b
	}
	if _, exists := b.entries[e.ID]; exists {
		return record.ErrExists
	}
	b.entries[e.ID] = clone(e)
	b.order = append(b.order, e.ID)
	return nil
}

func (s *Store) Update(_ context.Context, e record.Entry) error {
	s.Lock()
	defer s.Unlock()

	b, ok := s.buckets[e.Type]
	if !ok {
		return record.NotFound(e.Type, e.ID)
	}
	if _, exists := b.entries[e.ID]; !exists {
		return record.NotFound(e.Type, e.ID)
	}
	b.entries[e.ID] = clone(e)
	return nil
}

func (s *Store) Get(_ context.Context, typ, id string) (record.Entry, error) {
	s.RLock()
	defer s.RUnlock()

	if b, ok := s.buckets[typ]; ok {
		if e, exists := b.entries[id]; exists {
			return clone(e), nil
		}
	}
	return record.Entry{}, record.NotFound(typ, id)
}

func (s *Store) Search(_ context.Context, typ string, q record.Query, limit int) ([]record.Entry, error) {
	s.RLock()
	defer s.RUnlock()

	b, ok := s.buckets[typ]
	if !ok {
		return nil, nil
	}
	var es []record.Entry
	for _, id := range b.order {
		if limit > 0 && len(es) >= limit {
			break
		}
		e := b.entries[id]
		if record.Matches(q, e.Tags) {
			es = append(es, clone(e))
		}
	}
	return es, nil
}

func (s *Store) Delete(_ context.Context, typ, id string) error {
	s.Lock()
	defer s.Unlock()

	b, ok := s.buckets[typ]
	if !ok {
		return record.NotFound(typ, id)
	}
	if _, exists := b.entries[id]; !exists {
		return record.NotFound(typ, id)
	}
	delete(b.entries, id)
	for i, oid := range b.order {
		if oid == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *Store) Close() error {
	return nil
}
