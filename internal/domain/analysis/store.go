package analysis

import (
	"context"
	"time"
)

// Store caches finished results by fingerprint.
type Store interface {
	Get(ctx context.Context, fingerprint string) (Result, bool, error)
	Set(ctx context.Context, fingerprint string, result Result, ttl time.Duration) error
	Delete(ctx context.Context, fingerprint string) error
}

// TierLookup resolves a caller subject to its subscription tier. An unknown
// subject yields "" without error.
type TierLookup interface {
	LookupTier(ctx context.Context, subject string) (Tier, error)
}
