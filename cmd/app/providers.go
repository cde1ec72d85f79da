package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/destiny/internal/bootstrap"
	"github.com/yanqian/destiny/internal/domain/analysis"
	"github.com/yanqian/destiny/internal/domain/calendar"
	"github.com/yanqian/destiny/internal/infra/config"
	"github.com/yanqian/destiny/internal/infra/resultstore"
	"github.com/yanqian/destiny/internal/infra/tables"
	"github.com/yanqian/destiny/internal/infra/tierrepo"
	"github.com/yanqian/destiny/pkg/metrics"
)

func provideCalendarTable(src tables.Source, logger *slog.Logger) (*calendar.Table, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return bootstrap.LoadTable(ctx, src, logger)
}

func provideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func provideAnalysisMetrics(reg *prometheus.Registry) *metrics.Analysis {
	return metrics.NewAnalysis(reg)
}

func provideTierLookup(cfg *config.Config, resources *bootstrap.Resources, logger *slog.Logger) analysis.TierLookup {
	fallback := tierrepo.NewMemoryRepository(nil)
	dsn := strings.TrimSpace(cfg.Tiers.Postgres.DSN)
	if dsn == "" {
		logger.Info("tiers postgres dsn not set, using memory repository")
		return fallback
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory repository", "error", err)
		return fallback
	}
	if cfg.Tiers.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Tiers.Postgres.MaxConns
	}
	if cfg.Tiers.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Tiers.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory repository", "error", err)
		return fallback
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory repository", "error", err)
		pool.Close()
		return fallback
	}
	resources.OnClose(pool.Close)
	logger.Info("tiers postgres repository enabled")
	return tierrepo.NewPostgresRepository(pool)
}

func provideResultStore(cfg *config.Config, resources *bootstrap.Resources, logger *slog.Logger) analysis.Store {
	if cfg.Cache.Valkey.Enabled {
		opt, err := buildValkeyOptions(cfg.Cache.Valkey.Addr)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory store", "error", err)
			return resultstore.NewMemoryStore()
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory store", "error", err)
			return resultstore.NewMemoryStore()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory store", "error", err)
			client.Close()
		} else {
			resources.OnClose(client.Close)
			logger.Info("result valkey store enabled", "addr", cfg.Cache.Valkey.Addr)
			return resultstore.NewValkeyStore(client, cfg.Analysis.CachePrefix)
		}
	}
	return resultstore.NewMemoryStore()
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}
