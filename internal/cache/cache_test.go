package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedThing struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func withMiniRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	SetClient(rdb)
	t.Cleanup(func() {
		SetClient(nil)
		_ = rdb.Close()
	})
	return mr
}

func TestAside_LoadsOnceThenServesFromCache(t *testing.T) {
	mr := withMiniRedis(t)
	ctx := context.Background()

	loads := 0
	load := func(dest *cachedThing) func() error {
		return func() error {
			loads++
			*dest = cachedThing{ID: 9, Name: "alice"}
			return nil
		}
	}

	var first cachedThing
	require.NoError(t, Aside(ctx, ActorKey(9), &first, ActorTTL, load(&first)))
	var second cachedThing
	require.NoError(t, Aside(ctx, ActorKey(9), &second, ActorTTL, load(&second)))

	assert.Equal(t, 1, loads)
	assert.Equal(t, "alice", second.Name)
	assert.True(t, mr.Exists("actor:9"))
	assert.Greater(t, mr.TTL("actor:9").Seconds(), 0.0)

	InvalidateActor(ctx, 9)
	assert.False(t, mr.Exists("actor:9"))
}

func TestAside_LoadErrorIsNotCached(t *testing.T) {
	mr := withMiniRedis(t)
	boom := errors.New("boom")

	var dest cachedThing
	err := Aside(context.Background(), StatsKey, &dest, StatsTTL, func() error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists(StatsKey))
}

func TestAside_WithoutClient(t *testing.T) {
	SetClient(nil)
	called := false
	var dest cachedThing
	require.NoError(t, Aside(context.Background(), "k", &dest, StatsTTL, func() error {
		called = true
		return nil
	}))
	assert.True(t, called)
	// Invalidation without a client is a no-op.
	InvalidateStats(context.Background())
}

func TestInitRedis_Unreachable(t *testing.T) {
	InitRedis("redis://127.0.0.1:1/0")
	assert.Nil(t, GetClient())
}

func TestInitRedis_Miniredis(t *testing.T) {
	mr := miniredis.RunT(t)
	InitRedis(mr.Addr())
	t.Cleanup(func() { SetClient(nil) })
	require.NotNil(t, GetClient())
	assert.NoError(t, GetClient().Ping(context.Background()).Err())
}
