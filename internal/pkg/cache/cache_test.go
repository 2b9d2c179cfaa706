package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInMemoryCache(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewInMemory()
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "resource:1", []byte("a"), time.Minute))
	require.NoError(t, c.Set(ctx, "resource:2", []byte("b"), time.Minute))
	require.NoError(t, c.Set(ctx, "other", []byte("c"), time.Minute))

	got, err := c.Get(ctx, "resource:1")
	require.NoError(t, err)
	assert.Equal(t, []byte("a"), got)

	t.Run("expired entries miss", func(t *testing.T) {
		now = now.Add(2 * time.Minute)
		_, err := c.Get(ctx, "resource:1")
		assert.ErrorIs(t, err, ErrCacheMiss)
		now = now.Add(-2 * time.Minute)
	})

	t.Run("delete keeps unrelated keys", func(t *testing.T) {
		require.NoError(t, c.Delete(ctx, "resource:2"))
		_, err := c.Get(ctx, "resource:2")
		assert.ErrorIs(t, err, ErrCacheMiss)

		got, err := c.Get(ctx, "other")
		require.NoError(t, err)
		assert.Equal(t, []byte("c"), got)
	})
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	c := NewInMemory()

	type payload struct {
		Name string `json:"name"`
	}
	require.NoError(t, SetJSON(ctx, c, "k", payload{Name: "Billboard"}, time.Minute))

	var out payload
	require.NoError(t, GetJSON(ctx, c, "k", &out))
	assert.Equal(t, "Billboard", out.Name)

	assert.ErrorIs(t, GetJSON(ctx, c, "missing", &out), ErrCacheMiss)
}

func TestNewWithoutAddrFallsBack(t *testing.T) {
	c := New(Options{}, zap.NewNop())
	_, ok := c.(*InMemoryCache)
	assert.True(t, ok)
}
