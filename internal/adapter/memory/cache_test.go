package memory

import (
	"context"
	"testing"
	"time"

	"github.com/sm8ta/webike_review_microservice/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	c := NewCache()

	_, err := c.Get(ctx, "bike:1")
	assert.ErrorIs(t, err, ports.ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "bike:1", []byte("data"), time.Minute))
	got, err := c.Get(ctx, "bike:1")
	require.NoError(t, err)
	assert.Equal(t, []byte("data"), got)

	require.NoError(t, c.Delete(ctx, "bike:1"))
	_, err = c.Get(ctx, "bike:1")
	assert.ErrorIs(t, err, ports.ErrCacheMiss)
}

func TestCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c := NewCache()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	now = now.Add(2 * time.Minute)

	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, ports.ErrCacheMiss)
}

func TestCache_DeletePrefix(t *testing.T) {
	ctx := context.Background()
	c := NewCache()

	require.NoError(t, c.Set(ctx, "a:bike:1", []byte("1"), time.Minute))
	require.NoError(t, c.Set(ctx, "a:bike:2", []byte("2"), time.Minute))
	require.NoError(t, c.Set(ctx, "b:bike:1", []byte("3"), time.Minute))

	require.NoError(t, c.DeletePrefix(ctx, "a:"))

	_, err := c.Get(ctx, "a:bike:1")
	assert.ErrorIs(t, err, ports.ErrCacheMiss)
	_, err = c.Get(ctx, "a:bike:2")
	assert.ErrorIs(t, err, ports.ErrCacheMiss)

	got, err := c.Get(ctx, "b:bike:1")
	require.NoError(t, err)
	assert.Equal(t, []byte("3"), got)
}
