package tierrepo

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/destiny/internal/domain/analysis"
)

// PostgresRepository reads tiers from the subscriptions table:
//
//	subject    TEXT PRIMARY KEY
//	tier       TEXT NOT NULL
//	expires_at TIMESTAMPTZ NULL
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// LookupTier returns the active tier of subject, or "" when it has none.
func (r *PostgresRepository) LookupTier(ctx context.Context, subject string) (analysis.Tier, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT tier
		FROM subscriptions
		WHERE subject = $1 AND (expires_at IS NULL OR expires_at > now())
		LIMIT 1
	`, subject)
	if err != nil {
		return "", err
	}
	defer rows.Close()
	if !rows.Next() {
		return "", rows.Err()
	}
	var tier string
	if err := rows.Scan(&tier); err != nil {
		return "", err
	}
	return analysis.Tier(tier), rows.Err()
}

// SetTier upserts the subscription of subject. A zero expiresAt never expires.
func (r *PostgresRepository) SetTier(ctx context.Context, subject string, tier analysis.Tier, expiresAt time.Time) error {
	var expires *time.Time
	if !expiresAt.IsZero() {
		expires = &expiresAt
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO subscriptions (subject, tier, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (subject) DO UPDATE SET tier = EXCLUDED.tier, expires_at = EXCLUDED.expires_at
	`, subject, string(tier), expires)
	return err
}

var _ analysis.TierLookup = (*PostgresRepository)(nil)
