package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/yanqian/destiny/internal/infra/config"
)

// App encapsulates the HTTP server lifecycle.
type App struct {
	cfg       *config.Config
	logger    *slog.Logger
	server    *http.Server
	resources *Resources
}

// NewApp is used by Wire to build the runnable app.
func NewApp(cfg *config.Config, logger *slog.Logger, server *http.Server, resources *Resources) *App {
	return &App{cfg: cfg, logger: logger.With("component", "bootstrap"), server: server, resources: resources}
}

// Run starts the HTTP server and blocks until shutdown.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("http server starting", "address", a.cfg.HTTP.Address, "table_source", a.cfg.Calendar.TableSource.Kind)
		if err := a.server.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		a.logger.Info("shutdown signal received")
		err := a.server.Shutdown(shutdownCtx)
		a.resources.close()
		return err
	case err := <-errCh:
		a.resources.close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Resources collects cleanup hooks for connections opened while wiring.
type Resources struct {
	closers []func()
}

// NewResources returns an empty registry.
func NewResources() *Resources {
	return &Resources{}
}

// OnClose registers fn to run after the server stops.
func (r *Resources) OnClose(fn func()) {
	r.closers = append(r.closers, fn)
}

func (r *Resources) close() {
	if r == nil {
		return
	}
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
}
