package tierrepo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/destiny/internal/domain/analysis"
)

func TestMemoryRepository(t *testing.T) {
	repo := NewMemoryRepository(map[string]analysis.Tier{" alice ": analysis.TierPremium})
	ctx := context.Background()

	tier, err := repo.LookupTier(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, analysis.TierPremium, tier)

	tier, err = repo.LookupTier(ctx, "bob")
	require.NoError(t, err)
	require.Empty(t, tier)

	require.NoError(t, repo.SetTier(ctx, "bob", analysis.TierBasic))
	tier, err = repo.LookupTier(ctx, "bob")
	require.NoError(t, err)
	require.Equal(t, analysis.TierBasic, tier)
}
