// Package storetest has the conformance tests which every record.Store
// backend must pass.
package storetest

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/findy-network/findy-agent-core/agent/record"
	"github.com/stretchr/testify/require"
)

const typ = "test"

func entry(id, state string) record.Entry {
	return record.Entry{
		Type: typ,
		ID:   id,
		Data: []byte(`{"id":"` + id + `"}`),
		Tags: map[string]string{record.TagState: state, "ID": id},
	}
}

// Run runs the conformance tests. The newStore is called once per sub test.
func Run(t *testing.T, newStore func(t *testing.T) record.Store) {
	t.Run("add get", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.Add(ctx, entry("1", "Invited")))
		require.ErrorIs(t, s.Add(ctx, entry("1", "Invited")), record.ErrExists)

		got, err := s.Get(ctx, typ, "1")
		require.NoError(t, err)
		require.Equal(t, entry("1", "Invited"), got)

		_, err = s.Get(ctx, typ, "2")
		require.ErrorIs(t, err, record.ErrNotFound)
		_, err = s.Get(ctx, "other", "1")
		require.ErrorIs(t, err, record.ErrNotFound)
	})

	t.Run("update delete", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.ErrorIs(t, s.Update(ctx, entry("1", "Invited")), record.ErrNotFound)
		require.NoError(t, s.Add(ctx, entry("1", "Invited")))
		require.NoError(t, s.Update(ctx, entry("1", "Connected")))

		got, err := s.Get(ctx, typ, "1")
		require.NoError(t, err)
		require.Equal(t, "Connected", got.Tags[record.TagState])

		require.NoError(t, s.Delete(ctx, typ, "1"))
		_, err = s.Get(ctx, typ, "1")
		require.ErrorIs(t, err, record.ErrNotFound)
		require.ErrorIs(t, s.Delete(ctx, typ, "1"), record.ErrNotFound)

		es, err := s.Search(ctx, typ, nil, 0)
		require.NoError(t, err)
		require.Empty(t, es)
	})

	t.Run("search", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		states := []string{"Connected", "Invited", "Connected", "Error", "Connected"}
		for i, state := range states {
			require.NoError(t, s.Add(ctx, entry(fmt.Sprint(i), state)))
		}
		require.NoError(t, s.Add(ctx, record.Entry{Type: "other", ID: "x"}))

		tests := []struct {
			name  string
			q     record.Query
			limit int
			want  []string
		}{
			{"all", nil, 0, []string{"0", "1", "2", "3", "4"}},
			{"limit", nil, 2, []string{"0", "1"}},
			{"eq", record.Eq(record.TagState, "Connected"), 0, []string{"0", "2", "4"}},
			{"eq limit", record.Eq(record.TagState, "Connected"), 2, []string{"0", "2"}},
			{"and", record.And(record.Eq(record.TagState, "Connected"), record.Eq("ID", "2")), 0, []string{"2"}},
			{"or", record.Or(record.Eq(record.TagState, "Error"), record.Eq("ID", "1")), 0, []string{"1", "3"}},
			{"not", record.Not(record.Eq(record.TagState, "Connected")), 0, []string{"1", "3"}},
			{"none", record.Eq(record.TagState, "Negotiating"), 0, nil},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				es, err := s.Search(ctx, typ, tt.q, tt.limit)
				require.NoError(t, err)
				var ids []string
				for _, e := range es {
					ids = append(ids, e.ID)
				}
				require.Equal(t, tt.want, ids)
			})
		}
	})

	t.Run("scoped", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		t1, t2 := record.Scoped(s, "tenant1"), record.Scoped(s, "tenant2")

		require.NoError(t, t1.Add(ctx, entry("1", "Invited")))
		require.NoError(t, t2.Add(ctx, entry("1", "Connected")))

		got, err := t1.Get(ctx, typ, "1")
		require.NoError(t, err)
		require.Equal(t, typ, got.Type)
		require.Equal(t, "Invited", got.Tags[record.TagState])

		es, err := t2.Search(ctx, typ, nil, 0)
		require.NoError(t, err)
		require.Len(t, es, 1)
		require.Equal(t, "Connected", es[0].Tags[record.TagState])

		require.NoError(t, t1.Delete(ctx, typ, "1"))
		_, err = t2.Get(ctx, typ, "1")
		require.NoError(t, err)
		require.NoError(t, t1.Close())
	})

	t.Run("concurrent", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		const n = 20
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				id := fmt.Sprint(i)
				if err := s.Add(ctx, entry(id, "Invited")); err != nil {
					t.Error(err)
					return
				}
				if err := s.Update(ctx, entry(id, "Connected")); err != nil {
					t.Error(err)
				}
			}(i)
		}
		wg.Wait()

		es, err := s.Search(ctx, typ, record.Eq(record.TagState, "Connected"), 0)
		require.NoError(t, err)
		require.Len(t, es, n)
	})
}
