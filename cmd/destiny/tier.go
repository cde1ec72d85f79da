package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/yanqian/destiny/internal/bootstrap"
	"github.com/yanqian/destiny/internal/domain/analysis"
	"github.com/yanqian/destiny/internal/infra/config"
	"github.com/yanqian/destiny/internal/infra/tierrepo"
)

func newTierCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tier",
		Short: "Manage subscription tiers in the configured Postgres database",
	}
	cmd.AddCommand(newTierSetCmd(root))
	return cmd
}

func newTierSetCmd(root *rootOptions) *cobra.Command {
	var subject, tier, expires string
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Grant a tier to a token subject",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := root.load(cmd)
			if err != nil {
				return err
			}
			subject = strings.TrimSpace(subject)
			if subject == "" {
				return errors.New("--subject is required")
			}
			if _, ok := bootstrap.NewAnalysisConfig(cfg).Plans[analysis.Tier(tier)]; !ok {
				return fmt.Errorf("tier %q has no plan", tier)
			}
			var expiresAt time.Time
			if expires != "" {
				if expiresAt, err = time.Parse(time.RFC3339, expires); err != nil {
					return fmt.Errorf("--expires must be RFC3339: %w", err)
				}
			}

			pool, err := openTierPool(cmd.Context(), cfg.Tiers.Postgres)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := tierrepo.NewPostgresRepository(pool).SetTier(cmd.Context(), subject, analysis.Tier(tier), expiresAt); err != nil {
				return fmt.Errorf("set tier: %w", err)
			}
			logger.Info("subscription tier stored", "subject", subject, "tier", tier)
			until := "never"
			if !expiresAt.IsZero() {
				until = expiresAt.Format(time.RFC3339)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (expires %s)\n", subject, tier, until)
			return err
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "token subject to grant the tier to")
	cmd.Flags().StringVar(&tier, "tier", "", "tier name: free, basic or premium")
	cmd.Flags().StringVar(&expires, "expires", "", "RFC3339 expiry (default never expires)")
	_ = cmd.MarkFlagRequired("subject")
	_ = cmd.MarkFlagRequired("tier")
	return cmd
}

func openTierPool(ctx context.Context, pg config.PostgresConfig) (*pgxpool.Pool, error) {
	dsn := strings.TrimSpace(pg.DSN)
	if dsn == "" {
		return nil, errors.New("tiers postgres dsn is not configured")
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if pg.MaxConns > 0 {
		poolConfig.MaxConns = pg.MaxConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}
