package audit

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisSinkAppendsStreamEntry(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	sink := NewRedisSink(client, "authz:decisions")
	ctx := context.Background()

	err := sink.Record(ctx, Decision{
		Repo: "repoA", Path: "/trunk", User: "alice",
		Required: "r", Recursive: false, Allowed: true,
	})
	require.NoError(t, err)

	length, err := client.XLen(ctx, "authz:decisions").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), length)

	entries, err := client.XRange(ctx, "authz:decisions", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "alice", entries[0].Values["user"])
	assert.Equal(t, "true", entries[0].Values["allowed"])
}

func TestRedisSinkMultipleRecordsAppendInOrder(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	sink := NewRedisSink(client, "authz:decisions")
	ctx := context.Background()

	require.NoError(t, sink.Record(ctx, Decision{User: "alice", Allowed: true}))
	require.NoError(t, sink.Record(ctx, Decision{User: "bob", Allowed: false}))

	entries, err := client.XRange(ctx, "authz:decisions", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "alice", entries[0].Values["user"])
	assert.Equal(t, "bob", entries[1].Values["user"])
}
