package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*CacheHelper, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewCacheHelper(client, "test:"), mr
}

type cachedValue struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestCacheHelperSetGet(t *testing.T) {
	helper, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, helper.Set(ctx, "k", cachedValue{Name: "a", Count: 2}, time.Minute))

	var got cachedValue
	require.NoError(t, helper.Get(ctx, "k", &got))
	assert.Equal(t, "a", got.Name)
	assert.Equal(t, 2, got.Count)
}

func TestCacheHelperGetMiss(t *testing.T) {
	helper, _ := newTestCache(t)

	var got cachedValue
	err := helper.Get(context.Background(), "missing", &got)
	assert.True(t, errors.Is(err, ErrCacheNotFound), "err = %v", err)
}

func TestCacheHelperDelete(t *testing.T) {
	helper, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, helper.Set(ctx, "k", cachedValue{Name: "a"}, time.Minute))
	require.NoError(t, helper.Delete(ctx, "k"))

	var got cachedValue
	err := helper.Get(ctx, "k", &got)
	assert.True(t, errors.Is(err, ErrCacheNotFound))
}

func TestCacheHelperExists(t *testing.T) {
	helper, _ := newTestCache(t)
	ctx := context.Background()

	ok, err := helper.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, helper.Set(ctx, "k", cachedValue{}, time.Minute))

	ok, err = helper.Exists(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCacheHelperInvalidatePattern(t *testing.T) {
	helper, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, helper.Set(ctx, "session:1", cachedValue{}, time.Minute))
	require.NoError(t, helper.Set(ctx, "session:2", cachedValue{}, time.Minute))
	require.NoError(t, helper.Set(ctx, "user:1", cachedValue{}, time.Minute))

	require.NoError(t, helper.InvalidatePattern(ctx, "session:*"))

	var got cachedValue
	assert.True(t, errors.Is(helper.Get(ctx, "session:1", &got), ErrCacheNotFound))
	assert.True(t, errors.Is(helper.Get(ctx, "session:2", &got), ErrCacheNotFound))
	assert.NoError(t, helper.Get(ctx, "user:1", &got))
}

func TestCacheOrExecute(t *testing.T) {
	helper, _ := newTestCache(t)
	ctx := context.Background()

	calls := 0
	fetch := func() (interface{}, error) {
		calls++
		return &cachedValue{Name: "fetched", Count: calls}, nil
	}

	var got cachedValue
	require.NoError(t, helper.CacheOrExecute(ctx, "k", &got, time.Minute, fetch))
	assert.Equal(t, "fetched", got.Name)
	assert.Equal(t, 1, calls)

	// The write-back happens asynchronously.
	require.Eventually(t, func() bool {
		ok, err := helper.Exists(ctx, "k")
		return err == nil && ok
	}, time.Second, 10*time.Millisecond)

	var cached cachedValue
	require.NoError(t, helper.CacheOrExecute(ctx, "k", &cached, time.Minute, fetch))
	assert.Equal(t, "fetched", cached.Name)
	assert.Equal(t, 1, calls, "second read should come from cache")
}

func TestCacheOrExecuteDropsJSONExcludedFields(t *testing.T) {
	helper, _ := newTestCache(t)
	ctx := context.Background()

	type credentialed struct {
		Name   string `json:"name"`
		Secret string `json:"-"`
	}

	// Fields tagged json:"-" are dropped by the codec on miss and hit alike,
	// so callers can never read credentials through the cache path.
	var got credentialed
	require.NoError(t, helper.CacheOrExecute(ctx, "k", &got, time.Minute, func() (interface{}, error) {
		return &credentialed{Name: "dana", Secret: "hash"}, nil
	}))
	assert.Equal(t, "dana", got.Name)
	assert.Empty(t, got.Secret)

	require.Eventually(t, func() bool {
		ok, err := helper.Exists(ctx, "k")
		return err == nil && ok
	}, time.Second, 10*time.Millisecond)

	var cached credentialed
	require.NoError(t, helper.CacheOrExecute(ctx, "k", &cached, time.Minute, func() (interface{}, error) {
		t.Fatal("fetch should not run on a cache hit")
		return nil, nil
	}))
	assert.Equal(t, "dana", cached.Name)
	assert.Empty(t, cached.Secret)
}

func TestCacheOrExecutePropagatesFetchError(t *testing.T) {
	helper, _ := newTestCache(t)

	wantErr := errors.New("db down")
	var got cachedValue
	err := helper.CacheOrExecute(context.Background(), "k", &got, time.Minute, func() (interface{}, error) {
		return nil, wantErr
	})
	assert.True(t, errors.Is(err, wantErr))
}

func TestCacheHelperNilClient(t *testing.T) {
	helper := NewCacheHelper(nil, "test:")
	ctx := context.Background()

	assert.NoError(t, helper.Set(ctx, "k", cachedValue{}, time.Minute))
	assert.Error(t, helper.Get(ctx, "k", &cachedValue{}))
	assert.NoError(t, helper.Delete(ctx, "k"))

	// The fetch path still works without Redis.
	var got cachedValue
	err := helper.CacheOrExecute(ctx, "k", &got, time.Minute, func() (interface{}, error) {
		return &cachedValue{Name: "direct"}, nil
	})
	assert.NoError(t, err)
	assert.Equal(t, "direct", got.Name)
}
