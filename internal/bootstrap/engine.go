package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/yanqian/destiny/internal/domain/analysis"
	"github.com/yanqian/destiny/internal/domain/bazi"
	"github.com/yanqian/destiny/internal/domain/calendar"
	"github.com/yanqian/destiny/internal/domain/fortune"
	"github.com/yanqian/destiny/internal/domain/ziwei"
	"github.com/yanqian/destiny/internal/infra/config"
	"github.com/yanqian/destiny/internal/infra/tables"
)

// NewTableSource selects where the calendar table is read from.
func NewTableSource(cfg *config.Config, logger *slog.Logger) (tables.Source, error) {
	src := cfg.Calendar.TableSource
	switch src.Kind {
	case "", config.TableSourceEmbedded:
		return tables.EmbeddedSource{}, nil
	case config.TableSourceFile:
		return tables.FileSource{Path: src.Path}, nil
	case config.TableSourceR2:
		return tables.NewR2Source(tables.R2Options{
			Endpoint:  src.R2.Endpoint,
			AccessKey: src.R2.AccessKey,
			SecretKey: src.R2.SecretKey,
			Bucket:    src.R2.Bucket,
			Region:    src.R2.Region,
			Key:       src.R2.Key,
		}, logger)
	default:
		return nil, fmt.Errorf("unknown calendar table source %q", src.Kind)
	}
}

// LoadTable reads and validates the table once at startup.
func LoadTable(ctx context.Context, src tables.Source, logger *slog.Logger) (*calendar.Table, error) {
	table, err := tables.Load(ctx, src)
	if err != nil {
		return nil, err
	}
	first, last := table.Bounds()
	logger.Info("calendar table loaded", "source", src.Name(), "first", first.Format("2006-01-02"), "last", last.Format("2006-01-02"))
	return table, nil
}

// NewEngine assembles the computation stages over a loaded table.
func NewEngine(cfg *config.Config, table *calendar.Table) (analysis.Engine, error) {
	elements := bazi.DefaultTables()
	pipeline, err := ziwei.DefaultPipeline()
	if err != nil {
		return analysis.Engine{}, fmt.Errorf("star pipeline: %w", err)
	}
	weights, err := fortune.ParseConfig(cfg.Fortune.Weights, cfg.Fortune.Overall, fortune.Bands{
		Caution:   cfg.Fortune.Bands.Caution,
		Favorable: cfg.Fortune.Bands.Favorable,
	})
	if err != nil {
		return analysis.Engine{}, fmt.Errorf("fortune weights: %w", err)
	}
	synthesizer, err := fortune.NewSynthesizer(weights, fortune.DefaultScoring(), elements)
	if err != nil {
		return analysis.Engine{}, fmt.Errorf("fortune synthesizer: %w", err)
	}
	return analysis.Engine{
		Calendar: calendar.NewConverter(table, calendar.Config{
			MinYear:         cfg.Calendar.MinYear,
			MaxYear:         cfg.Calendar.MaxYear,
			LateRatRollover: cfg.Calendar.LateRatRollover,
		}),
		Pillars: bazi.NewCalculator(elements, bazi.Config{HiddenStems: cfg.Bazi.HiddenStems}),
		Chart:   ziwei.NewCalculator(pipeline, elements),
		Fortune: synthesizer,
	}, nil
}

// NewAnalysisConfig maps the orchestrator section of the config.
func NewAnalysisConfig(cfg *config.Config) analysis.Config {
	return analysis.Config{
		CacheTTL:    cfg.Analysis.CacheTTL,
		DefaultTier: analysis.Tier(cfg.Tiers.DefaultTier),
		Plans:       analysis.DefaultPlans(),
	}
}
