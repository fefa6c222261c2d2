package redisdb_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/findy-network/findy-agent-core/agent/record"
	"github.com/findy-network/findy-agent-core/agent/record/redisdb"
	"github.com/findy-network/findy-agent-core/agent/record/storetest"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestStore_Contract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) record.Store {
		mr := miniredis.RunT(t)
		client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
		t.Cleanup(func() { client.Close() })
		return redisdb.NewFromClient(client)
	})
}

func TestStore_Prefix(t *testing.T) {
	mr := miniredis.RunT(t)
	s := redisdb.New(mr.Addr(), "", 0, redisdb.WithPrefix("agent1:"))
	defer s.Close()
	ctx := context.Background()

	require.NoError(t, s.Ping(ctx))
	require.NoError(t, s.Add(ctx, record.Entry{Type: "connection", ID: "1", Data: []byte("{}")}))
	require.True(t, mr.Exists("agent1:connection:1"))
	require.True(t, mr.Exists("agent1:connection:index"))
}
