// Package boltdb is the bbolt based record store which is the default
// persistent backend of the agent.
package boltdb

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"time"

	"github.com/findy-network/findy-agent-core/agent/record"
	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	bolt "go.etcd.io/bbolt"
)

var (
	bucketData  = []byte("data")
	bucketOrder = []byte("order")
)

type stored struct {
	Seq   uint64       `json:"seq"`
	Entry record.Entry `json:"entry"`
}

// Store is a record.Store on a bbolt file. Every record type has its own
// bucket which has the data bucket (ID -> entry) and the order bucket
// (sequence -> ID) for the insertion order.
type Store struct {
	db *bolt.DB
}

// Open opens or creates the database file.
func Open(filename string) (s *Store, err error) {
	defer err2.Handle(&err, "open bolt store")

	db := try.To1(bolt.Open(filename, 0600, &bolt.Options{Timeout: 2 * time.Second}))
	glog.V(2).Infoln("record store opened:", filename)
	return &Store{db: db}, nil
}

func seqKey(seq uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, seq)
	return k
}

func buckets(tx *bolt.Tx, typ string) (data, order *bolt.Bucket) {
	b := tx.Bucket([]byte(typ))
	if b == nil {
		return nil, nil
	}
	return b.Bucket(bucketData), b.Bucket(bucketOrder)
}

func (s *Store) Add(_ context.Context, e record.Entry) (err error) {
	defer err2.Handle(&err)

	return s.db.Update(func(tx *bolt.Tx) (err error) {
		defer err2.Handle(&err)

		b := try.To1(tx.CreateBucketIfNotExists([]byte(e.Type)))
		data := try.To1(b.CreateBucketIfNotExists(bucketData))
		order := try.To1(b.CreateBucketIfNotExists(bucketOrder))
		if data.Get([]byte(e.ID)) != nil {
			return record.ErrExists
		}
		seq := try.To1(b.NextSequence())
		value := try.To1(json.Marshal(stored{Seq: seq, Entry: e}))
		try.To(data.Put([]byte(e.ID), value))
		return order.Put(seqKey(seq), []byte(e.ID))
	})
}

func (s *Store) Update(_ context.Context, e record.Entry) (err error) {
	defer err2.Handle(&err)

	return s.db.Update(func(tx *bolt.Tx) (err error) {
		defer err2.Handle(&err)

		data, _ := buckets(tx, e.Type)
		if data == nil {
			return record.NotFound(e.Type, e.ID)
		}
		old := data.Get([]byte(e.ID))
		if old == nil {
			return record.NotFound(e.Type, e.ID)
		}
		var st stored
		try.To(json.Unmarshal(old, &st))
		st.Entry = e
		return data.Put([]byte(e.ID), try.To1(json.Marshal(st)))
	})
}

func (s *Store) Get(_ context.Context, typ, id string) (e record.Entry, err error) {
	defer err2.Handle(&err)

	try.To(s.db.View(func(tx *bolt.Tx) error {
		data, _ := buckets(tx, typ)
		if data == nil {
			return record.NotFound(typ, id)
		}
		value := data.Get([]byte(id))
		if value == nil {
			return record.NotFound(typ, id)
		}
		var st stored
		if err := json.Unmarshal(value, &st); err != nil {
			return err
		}
		e = st.Entry
		return nil
	}))
	return e, nil
}

func (s *Store) Search(_ context.Context, typ string, q record.Query, limit int) (es []record.Entry, err error) {
	defer err2.Handle(&err)

	try.To(s.db.View(func(tx *bolt.Tx) (err error) {
		defer err2.Handle(&err)

		data, order := buckets(tx, typ)
		if data == nil {
			return nil
		}
		c := order.Cursor()
		for k, id := c.First(); k != nil; k, id = c.Next() {
			if limit > 0 && len(es) >= limit {
				break
			}
			var st stored
			try.To(json.Unmarshal(data.Get(id), &st))
			if record.Matches(q, st.Entry.Tags) {
				es = append(es, st.Entry)
			}
		}
		return nil
	}))
	return es, nil
}

func (s *Store) Delete(_ context.Context, typ, id string) (err error) {
	defer err2.Handle(&err)

	return s.db.Update(func(tx *bolt.Tx) (err error) {
		defer err2.Handle(&err)

		data, order := buckets(tx, typ)
		if data == nil {
			return record.NotFound(typ, id)
		}
		value := data.Get([]byte(id))
		if value == nil {
			return record.NotFound(typ, id)
		}
		var st stored
		try.To(json.Unmarshal(value, &st))
		try.To(order.Delete(seqKey(st.Seq)))
		return data.Delete([]byte(id))
	})
}

func (s *Store) Close() error {
	return s.db.Close()
}
