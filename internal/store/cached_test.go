package store

import (
	"context"
	"testing"
	"time"

	"github.com/Harshita-Rupani29/MultiModal-Code-Debug-Assistant/internal/domain"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingStore counts owner lookups that reach the backing store.
type countingStore struct {
	*Memory
	ownerCalls int
}

func (c *countingStore) FindSessionOwner(ctx context.Context, sid domain.SessionID) (domain.UserID, error) {
	c.ownerCalls++
	return c.Memory.FindSessionOwner(ctx, sid)
}

func newCached(t *testing.T) (*Cached, *countingStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	inner := &countingStore{Memory: NewMemory()}
	inner.PutSession(Session{ID: "S1", UserID: "U1"})
	inner.PutUser("U1", "Ada", "ada@example.com")
	return NewCached(inner, rdb, time.Minute), inner, mr
}

func TestCachedOwnerLookup(t *testing.T) {
	ctx := context.Background()
	c, inner, mr := newCached(t)

	for i := 0; i < 3; i++ {
		owner, err := c.FindSessionOwner(ctx, "S1")
		require.NoError(t, err)
		assert.Equal(t, domain.UserID("U1"), owner)
	}
	assert.Equal(t, 1, inner.ownerCalls)
	assert.True(t, mr.Exists(ownerKeyPrefix+"S1"))

	mr.FastForward(2 * time.Minute)
	_, err := c.FindSessionOwner(ctx, "S1")
	require.NoError(t, err)
	assert.Equal(t, 2, inner.ownerCalls, "expired entries are reloaded")
}

func TestCachedNotFoundIsNotCached(t *testing.T) {
	ctx := context.Background()
	c, inner, mr := newCached(t)

	_, err := c.FindSessionOwner(ctx, "S9")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = c.FindSessionOwner(ctx, "S9")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 2, inner.ownerCalls)
	assert.False(t, mr.Exists(ownerKeyPrefix+"S9"))
}

func TestCachedFallsThroughWhenRedisIsDown(t *testing.T) {
	ctx := context.Background()
	c, _, mr := newCached(t)
	mr.Close()

	name, err := c.DisplayName(ctx, "U1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", name)
}
