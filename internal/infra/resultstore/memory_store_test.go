package resultstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/destiny/internal/domain/analysis"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	result := analysis.Result{Fingerprint: "abc", Tier: analysis.TierBasic}

	_, ok, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, store.Set(ctx, "abc", result, time.Minute))
	got, ok, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, result, got)

	require.NoError(t, store.Delete(ctx, "abc"))
	_, ok, err = store.Get(ctx, "abc")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "short", analysis.Result{Fingerprint: "short"}, time.Minute))
	require.NoError(t, store.Set(ctx, "forever", analysis.Result{Fingerprint: "forever"}, 0))

	now = now.Add(2 * time.Minute)
	_, ok, err := store.Get(ctx, "short")
	require.NoError(t, err)
	require.False(t, ok)
	_, ok, err = store.Get(ctx, "forever")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1, store.Len())
}

func TestValkeyKeyLayout(t *testing.T) {
	require.Equal(t, "destiny:result:abc", NewValkeyStore(nil, "").resultKey("abc"))
	require.Equal(t, "dev:result:abc", NewValkeyStore(nil, "dev").resultKey("abc"))
}
