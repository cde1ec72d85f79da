package tierrepo

import (
	"context"
	"strings"
	"sync"

	"github.com/yanqian/destiny/internal/domain/analysis"
)

// MemoryRepository keeps subject tiers in process memory for tests/dev.
type MemoryRepository struct {
	mu    sync.RWMutex
	tiers map[string]analysis.Tier
}

// NewMemoryRepository constructs a repository seeded with tiers.
func NewMemoryRepository(seed map[string]analysis.Tier) *MemoryRepository {
	tiers := make(map[string]analysis.Tier, len(seed))
	for subject, tier := range seed {
		tiers[strings.TrimSpace(subject)] = tier
	}
	return &MemoryRepository{tiers: tiers}
}

// LookupTier implements analysis.TierLookup.
func (r *MemoryRepository) LookupTier(_ context.Context, subject string) (analysis.Tier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tiers[strings.TrimSpace(subject)], nil
}

// SetTier records or replaces the tier of a subject.
func (r *MemoryRepository) SetTier(_ context.Context, subject string, tier analysis.Tier) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tiers[strings.TrimSpace(subject)] = tier
	return nil
}

var _ analysis.TierLookup = (*MemoryRepository)(nil)
