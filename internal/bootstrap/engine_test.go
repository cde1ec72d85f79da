package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/destiny/internal/domain/analysis"
	"github.com/yanqian/destiny/internal/domain/calendar"
	"github.com/yanqian/destiny/internal/infra/config"
	"github.com/yanqian/destiny/internal/infra/tables"
)

func loadDefaults(t *testing.T) *config.Config {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("CONFIG_PATH", "")
	cfg, err := config.Load()
	require.NoError(t, err)
	return cfg
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewTableSource(t *testing.T) {
	cfg := loadDefaults(t)

	src, err := NewTableSource(cfg, discardLogger())
	require.NoError(t, err)
	require.IsType(t, tables.EmbeddedSource{}, src)

	path := filepath.Join(t.TempDir(), "lunar.yaml")
	require.NoError(t, os.WriteFile(path, calendar.EmbeddedTableData(), 0o600))
	cfg.Calendar.TableSource = config.TableSourceConfig{Kind: config.TableSourceFile, Path: path}
	src, err = NewTableSource(cfg, discardLogger())
	require.NoError(t, err)
	table, err := LoadTable(context.Background(), src, discardLogger())
	require.NoError(t, err)
	first, _ := table.Bounds()
	require.Equal(t, 1900, first.Year())

	cfg.Calendar.TableSource.Kind = "ftp"
	_, err = NewTableSource(cfg, discardLogger())
	require.Error(t, err)
}

func TestNewEngineRunsAnalysis(t *testing.T) {
	cfg := loadDefaults(t)
	table, err := calendar.DefaultTable()
	require.NoError(t, err)

	engine, err := NewEngine(cfg, table)
	require.NoError(t, err)
	svc, err := analysis.NewService(NewAnalysisConfig(cfg), engine, stubStore{}, nil, nil, discardLogger())
	require.NoError(t, err)

	result, err := svc.Analyze(context.Background(), analysis.Request{
		Record: analysis.BirthRecord{
			Name:      "Ada",
			Gender:    analysis.GenderFemale,
			BirthTime: time.Date(1990, time.May, 15, 10, 30, 0, 0, time.FixedZone("", 8*3600)),
		},
		Tier: analysis.TierPremium,
	})
	require.NoError(t, err)
	require.Equal(t, "geng-chen", result.Lunar.Pillars.Day.String())
	require.NotNil(t, result.Chart)
	require.Len(t, result.Fortune.Domains, 4)
}

func TestNewEngineRejectsWeights(t *testing.T) {
	cfg := loadDefaults(t)
	cfg.Fortune.Overall = map[string]string{"career": "0.5", "wealth": "0.5", "love": "0.5", "health": "0.5"}
	table, err := calendar.DefaultTable()
	require.NoError(t, err)

	_, err = NewEngine(cfg, table)
	require.ErrorContains(t, err, "fortune")
}

func TestResourcesCloseOnShutdown(t *testing.T) {
	resources := NewResources()
	closed := 0
	resources.OnClose(func() { closed++ })
	resources.OnClose(func() { closed++ })

	app := NewApp(&config.Config{HTTP: config.HTTPConfig{Address: "127.0.0.1:0"}}, discardLogger(), newIdleServer(), resources)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, app.Run(ctx))
	require.Equal(t, 2, closed)
}

type stubStore struct{}

func (stubStore) Get(context.Context, string) (analysis.Result, bool, error) {
	return analysis.Result{}, false, nil
}

func (stubStore) Set(context.Context, string, analysis.Result, time.Duration) error { return nil }

func (stubStore) Delete(context.Context, string) error { return nil }

func newIdleServer() *http.Server {
	return &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler(), ReadHeaderTimeout: time.Second}
}
