package analysis

import "time"

// Config holds orchestrator knobs.
type Config struct {
	CacheTTL    time.Duration
	DefaultTier Tier
	Plans       map[Tier]Plan
}
