package querycache_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/bazario/pkg/querycache"
)

func fresh(t *testing.T) {
	t.Helper()
	querycache.Use(querycache.NewMemoryDriver())
}

func TestRemember_MissThenHit(t *testing.T) {
	fresh(t)

	calls := 0
	fetch := func(dest interface{}) error {
		calls++
		*dest.(*string) = "from-backend"
		return nil
	}

	var got string
	require.NoError(t, querycache.Remember("k", time.Minute, &got, fetch))
	assert.Equal(t, "from-backend", got)
	assert.Equal(t, 1, calls)

	got = ""
	require.NoError(t, querycache.Remember("k", time.Minute, &got, fetch))
	assert.Equal(t, "from-backend", got)
	assert.Equal(t, 1, calls, "second read must be served from cache")
}

func TestRemember_FetchErrorNotCached(t *testing.T) {
	fresh(t)

	boom := errors.New("backend down")
	var got string
	err := querycache.Remember("k", time.Minute, &got, func(interface{}) error { return boom })
	assert.ErrorIs(t, err, boom)

	// The failed fetch must not have poisoned the cache.
	assert.False(t, querycache.Get("k", &got))
}

func TestForget_InvalidatesKey(t *testing.T) {
	fresh(t)

	require.NoError(t, querycache.Set("cart", []string{"a"}, time.Minute))

	var items []string
	require.True(t, querycache.Get("cart", &items))

	require.NoError(t, querycache.Forget("cart"))
	assert.False(t, querycache.Get("cart", &items))
}

func TestMemoryDriver_TTLExpiry(t *testing.T) {
	d := querycache.NewMemoryDriver()

	require.NoError(t, d.Set("k", "v", 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)

	var got string
	assert.False(t, d.Get("k", &got), "expired entry must read as a miss")
}
