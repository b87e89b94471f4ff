package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-session-feed/internal/config"
)

func newTestMemoryStorage(t *testing.T) *MemoryStorage {
	t.Helper()
	st, err := NewMemoryStorage(&config.MemoryConfig{SizeMB: 8}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st.(*MemoryStorage)
}

func TestMemoryStorage_Roundtrip(t *testing.T) {
	st := newTestMemoryStorage(t)
	ctx := context.Background()

	require.NoError(t, st.SetItem(ctx, "sessions_cache_all", `{"data":[],"expiry":1}`))

	value, found, err := st.GetItem(ctx, "sessions_cache_all")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"data":[],"expiry":1}`, value)
}

func TestMemoryStorage_AbsentKey(t *testing.T) {
	st := newTestMemoryStorage(t)

	_, found, err := st.GetItem(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryStorage_Overwrite(t *testing.T) {
	st := newTestMemoryStorage(t)
	ctx := context.Background()

	require.NoError(t, st.SetItem(ctx, "k", "first"))
	require.NoError(t, st.SetItem(ctx, "k", "second"))

	value, found, err := st.GetItem(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "second", value)
}

func TestMemoryStorage_Remove(t *testing.T) {
	st := newTestMemoryStorage(t)
	ctx := context.Background()

	require.NoError(t, st.SetItem(ctx, "k", "v"))
	require.NoError(t, st.RemoveItem(ctx, "k"))

	_, found, err := st.GetItem(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)

	// Removing an absent key is not an error
	assert.NoError(t, st.RemoveItem(ctx, "k"))
}

func TestNoOpStorage(t *testing.T) {
	st := NewNoOpStorage()
	ctx := context.Background()

	assert.NoError(t, st.SetItem(ctx, "k", "v"))

	_, found, err := st.GetItem(ctx, "k")
	assert.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, st.RemoveItem(ctx, "k"))
	assert.NoError(t, st.Close())
}
