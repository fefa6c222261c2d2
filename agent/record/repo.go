package record

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/findy-network/findy-common-go/dto"
	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

// Repo is the typed repository of one record type. T is the pointer type of
// the record, e.g. *ConnectionRecord.
type Repo[T Record] struct {
	store Store
	typ   string
	alloc func() T
	now   func() time.Time
}

// NewRepo returns the repository. The alloc function allocates an empty
// record for decoding.
func NewRepo[T Record](store Store, alloc func() T) *Repo[T] {
	return &Repo[T]{
		store: store,
		typ:   alloc().Type(),
		alloc: alloc,
		now:   time.Now,
	}
}

func Connections(s Store) *Repo[*ConnectionRecord] {
	return NewRepo(s, func() *ConnectionRecord { return new(ConnectionRecord) })
}

func Credentials(s Store) *Repo[*CredentialRecord] {
	return NewRepo(s, func() *CredentialRecord { return new(CredentialRecord) })
}

func Provisionings(s Store) *Repo[*ProvisioningRecord] {
	return NewRepo(s, func() *ProvisioningRecord { return new(ProvisioningRecord) })
}

func Outbox(s Store) *Repo[*OutboxRecord] {
	return NewRepo(s, func() *OutboxRecord { return new(OutboxRecord) })
}

func (r *Repo[T]) entry(rec T) Entry {
	return Entry{
		Type: r.typ,
		ID:   rec.Key(),
		Data: dto.ToJSONBytes(rec),
		Tags: rec.Tags(),
	}
}

func (r *Repo[T]) decode(e Entry) (rec T, err error) {
	rec = r.alloc()
	if err = json.Unmarshal(e.Data, rec); err != nil {
		return rec, fmt.Errorf("decode %s %s: %w", r.typ, e.ID, err)
	}
	return rec, nil
}

// Add stores the new record and sets its timestamps.
func (r *Repo[T]) Add(ctx context.Context, rec T) (err error) {
	defer err2.Handle(&err, "add "+r.typ)

	rec.Stamps().touch(r.now(), true)
	try.To(r.store.Add(ctx, r.entry(rec)))
	glog.V(4).Infof("%s %s added", r.typ, rec.Key())
	return nil
}

// Update stores the existing record.
func (r *Repo[T]) Update(ctx context.Context, rec T) (err error) {
	defer err2.Handle(&err, "update "+r.typ)

	rec.Stamps().touch(r.now(), false)
	try.To(r.store.Update(ctx, r.entry(rec)))
	glog.V(4).Infof("%s %s updated", r.typ, rec.Key())
	return nil
}

// Save adds the record or updates it if it exists.
func (r *Repo[T]) Save(ctx context.Context, rec T) (err error) {
	defer err2.Handle(&err, "save "+r.typ)

	_, err = r.store.Get(ctx, r.typ, rec.Key())
	switch {
	case err == nil:
		return r.Update(ctx, rec)
	case isNotFound(err):
		return r.Add(ctx, rec)
	}
	return err
}

// Get returns the record or error wrapping ErrNotFound.
func (r *Repo[T]) Get(ctx context.Context, id string) (rec T, err error) {
	defer err2.Handle(&err, "get "+r.typ)

	e := try.To1(r.store.Get(ctx, r.typ, id))
	return r.decode(e)
}

// List returns the records matching the query, at most limit records.
func (r *Repo[T]) List(ctx context.Context, q Query, limit int) (recs []T, err error) {
	defer err2.Handle(&err, "list "+r.typ)

	es := try.To1(r.store.Search(ctx, r.typ, q, limit))
	recs = make([]T, 0, len(es))
	for _, e := range es {
		recs = append(recs, try.To1(r.decode(e)))
	}
	glog.V(5).Infof("%s list [%s] found %d", r.typ, str(q), len(recs))
	return recs, nil
}

func (r *Repo[T]) Delete(ctx context.Context, id string) (err error) {
	defer err2.Handle(&err, "delete "+r.typ)

	return r.store.Delete(ctx, r.typ, id)
}
