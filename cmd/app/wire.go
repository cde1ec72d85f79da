//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/yanqian/destiny/internal/bootstrap"
	"github.com/yanqian/destiny/internal/domain/analysis"
	"github.com/yanqian/destiny/internal/infra/config"
	httpiface "github.com/yanqian/destiny/internal/interface/http"
	"github.com/yanqian/destiny/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		bootstrap.NewResources,
		bootstrap.NewTableSource,
		provideCalendarTable,
		bootstrap.NewEngine,
		bootstrap.NewAnalysisConfig,
		provideRegistry,
		provideAnalysisMetrics,
		provideTierLookup,
		provideResultStore,
		analysis.NewService,
		wire.Bind(new(prometheus.Gatherer), new(*prometheus.Registry)),
		httpiface.NewAnalysisHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
