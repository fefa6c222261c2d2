package record

import (
	"context"
)

// Store is the record persistence and search contract. Search returns the
// entries in their insertion order. The limit <= 0 means no limit.
// Implementations must be safe for concurrent use.
type Store interface {
	Add(ctx context.Context, e Entry) error
	Update(ctx context.Context, e Entry) error
	Get(ctx context.Context, typ, id string) (Entry, error)
	Search(ctx context.Context, typ string, q Query, limit int) ([]Entry, error)
	Delete(ctx context.Context, typ, id string) error
	Close() error
}

// defaultNamespace is the namespace of the single tenant agent.
const defaultNamespace = "default"

type scoped struct {
	Store
	prefix string
}

// Scoped returns a Store which namespaces the record types by the tenant so
// that tenants sharing the same backend cannot see each other's records.
// Closing the scoped store doesn't close the backend.
func Scoped(s Store, tenant string) Store {
	if tenant == "" {
		return Internal(s, defaultNamespace)
	}
	return &scoped{Store: s, prefix: tenant + "/"}
}

// Internal returns a Store for the agent's own records, like the single
// tenant records or the relay mailboxes. The NUL byte of the prefix keeps
// the internal namespaces apart from every tenant ID.
func Internal(s Store, name string) Store {
	return &scoped{Store: s, prefix: "\x00" + name + "/"}
}

func (s *scoped) in(e Entry) Entry {
	e.Type = s.prefix + e.Type
	return e
}

func (s *scoped) out(e Entry) Entry {
	e.Type = e.Type[len(s.prefix):]
	return e
}

func (s *scoped) Add(ctx context.Context, e Entry) error {
	return s.Store.Add(ctx, s.in(e))
}

func (s *scoped) Update(ctx context.Context, e Entry) error {
	return s.Store.Update(ctx, s.in(e))
}

func (s *scoped) Get(ctx context.Context, typ, id string) (Entry, error) {
	e, err := s.Store.Get(ctx, s.prefix+typ, id)
	if err != nil {
		return e, err
	}
	return s.out(e), nil
}

func (s *scoped) Search(ctx context.Context, typ string, q Query, limit int) ([]Entry, error) {
	es, err := s.Store.Search(ctx, s.prefix+typ, q, limit)
	if err != nil {
		return nil, err
	}
	for i := range es {
		es[i] = s.out(es[i])
	}
	return es, nil
}

func (s *scoped) Delete(ctx context.Context, typ, id string) error {
	return s.Store.Delete(ctx, s.prefix+typ, id)
}

func (s *scoped) Close() error {
	return nil
}
