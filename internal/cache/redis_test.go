package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedThing struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// useTestRedis points the package at a miniredis instance and restores the
// previous client afterwards. Tests using it must not run in parallel.
func useTestRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	prev := GetClient()
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(prev) })
	return mr
}

func TestAside_FillsAndCaches(t *testing.T) {
	mr := useTestRedis(t)
	ctx := context.Background()

	fills := 0
	load := func(dest *cachedThing) error {
		return Aside(ctx, "thing:1", dest, time.Minute, func() error {
			fills++
			dest.Name = "fresh"
			dest.Count = 42
			return nil
		})
	}

	var first cachedThing
	require.NoError(t, load(&first))
	assert.Equal(t, 1, fills)
	assert.Equal(t, "fresh", first.Name)

	// Second read is served from the cache.
	var second cachedThing
	require.NoError(t, load(&second))
	assert.Equal(t, 1, fills)
	assert.Equal(t, 42, second.Count)

	// After the entry expires, the source is hit again.
	mr.FastForward(2 * time.Minute)
	var third cachedThing
	require.NoError(t, load(&third))
	assert.Equal(t, 2, fills)
}

func TestAside_CorruptEntryDropped(t *testing.T) {
	mr := useTestRedis(t)
	ctx := context.Background()

	require.NoError(t, mr.Set("thing:2", "not json"))

	fills := 0
	var got cachedThing
	err := Aside(ctx, "thing:2", &got, time.Minute, func() error {
		fills++
		got.Name = "recovered"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, fills)
	assert.Equal(t, "recovered", got.Name)
}

func TestAside_WithoutRedis(t *testing.T) {
	prev := GetClient()
	SetClient(nil)
	t.Cleanup(func() { SetClient(prev) })

	fills := 0
	var got cachedThing
	for i := 0; i < 2; i++ {
		err := Aside(context.Background(), "thing:3", &got, time.Minute, func() error {
			fills++
			got.Name = "direct"
			return nil
		})
		require.NoError(t, err)
	}
	assert.Equal(t, 2, fills, "without Redis every read goes to the source")
}

func TestAside_FillErrorPropagates(t *testing.T) {
	useTestRedis(t)

	var got cachedThing
	err := Aside(context.Background(), "thing:4", &got, time.Minute, func() error {
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)
}
