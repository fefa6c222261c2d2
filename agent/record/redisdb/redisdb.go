// Package redisdb is the Redis record store. It lets several agent processes
// share the same records.
package redisdb

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/findy-network/findy-agent-core/agent/record"
	"github.com/golang/glog"
	backend "github.com/redis/go-redis/v9"
)

const defaultPrefix = "findy:record:"

// Store is a record.Store on Redis. An entry is a JSON string key and every
// record type has a ZSET index scored by the insertion sequence.
type Store struct {
	client *backend.Client
	prefix string
	owned  bool
}

type Option func(*Store)

// WithPrefix sets the key prefix of the records.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	s := NewFromClient(rdb, opts...)
	s.owned = true
	return s
}

// NewFromClient creates a new Redis store from an existing client. The
// client isn't closed by the store.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	s := &Store{
		client: client,
		prefix: defaultPrefix,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) key(typ, id string) string {
	return s.prefix + typ + ":" + id
}

func (s *Store) indexKey(typ string) string {
	return s.prefix + typ + ":index"
}

func (s *Store) seqKey() string {
	return s.prefix + "seq"
}

// Ping checks the connection to the server.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) Add(ctx context.Context, e record.Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal entry: %w", err)
	}
	ok, err := s.client.SetNX(ctx, s.key(e.Type, e.ID), data, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to add to redis: %w", err)
	}
	if !ok {
		return record.ErrExists
	}
	seq, err := s.client.Incr(ctx, s.seqKey()).Result()
	if err != nil {
		return fmt.Errorf("failed to get sequence: %w", err)
	}
	err = s.client.ZAdd(ctx, s.indexKey(e.Type), backend.Z{
		Score:  float64(seq),
		Member: e.ID,
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to index entry: %w", err)
	}
	return nil
}

func (s *Store) Update(ctx context.Context, e record.Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal entry: %w", err)
	}
	ok, err := s.client.SetXX(ctx, s.key(e.Type, e.ID), data, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to update redis: %w", err)
	}
	if !ok {
		return record.NotFound(e.Type, e.ID)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, typ, id string) (e record.Entry, err error) {
	val, err := s.client.Get(ctx, s.key(typ, id)).Result()
	if err != nil {
		if err == backend.Nil {
			return e, record.NotFound(typ, id)
		}
		return e, fmt.Errorf("failed to get from redis: %w", err)
	}
	if err := json.Unmarshal([]byte(val), &e); err != nil {
		return e, fmt.Errorf("failed to unmarshal entry: %w", err)
	}
	return e, nil
}

func (s *Store) Search(ctx context.Context, typ string, q record.Query, limit int) ([]record.Entry, error) {
	ids, err := s.client.ZRange(ctx, s.indexKey(typ), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read index: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.key(typ, id)
	}
	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get entries: %w", err)
	}

	var es []record.Entry
	for i, v := range vals {
		if limit > 0 && len(es) >= limit {
			break
		}
		str, ok := v.(string)
		if !ok {
			glog.Warningln("index has a missing entry:", keys[i])
			continue
		}
		var e record.Entry
		if err := json.Unmarshal([]byte(str), &e); err != nil {
			return nil, fmt.Errorf("failed to unmarshal entry: %w", err)
		}
		if record.Matches(q, e.Tags) {
			es = append(es, e)
		}
	}
	return es, nil
}

func (s *Store) Delete(ctx context.Context, typ, id string) error {
	pipe := s.client.Pipeline()
	del := pipe.Del(ctx, s.key(typ, id))
	pipe.ZRem(ctx, s.indexKey(typ), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete from redis: %w", err)
	}
	if del.Val() == 0 {
		return record.NotFound(typ, id)
	}
	return nil
}

func (s *Store) Close() error {
	if s.owned {
		return s.client.Close()
	}
	return nil
}
