package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySessionStore(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemorySessionStore()
	store.now = func() time.Time { return now }

	revoked, err := store.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "abc", time.Hour))
	revoked, err = store.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, revoked)

	now = now.Add(2 * time.Hour)
	revoked, err = store.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestMemorySessionStoreIgnoresExpiredTTL(t *testing.T) {
	store := NewMemorySessionStore()
	require.NoError(t, store.Revoke(context.Background(), "abc", 0))

	revoked, err := store.IsRevoked(context.Background(), "abc")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestMemorySessionStorePrunesOnRevoke(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemorySessionStore()
	store.now = func() time.Time { return now }

	require.NoError(t, store.Revoke(ctx, "old", time.Minute))
	now = now.Add(time.Hour)
	require.NoError(t, store.Revoke(ctx, "new", time.Minute))

	assert.Len(t, store.revoked, 1)
	assert.Contains(t, store.revoked, "new")
}
