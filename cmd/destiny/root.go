package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/yanqian/destiny/internal/infra/config"
	"github.com/yanqian/destiny/pkg/logger"
)

type rootOptions struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "destiny",
		Short: "Compute lunisolar dates, charts and fortune scores",
		Long: `destiny runs the analysis engine in-process against the configured
calendar table, with an in-memory result cache.

Examples:
  destiny calendar --birth 1990-05-15T10:30:00+08:00
  destiny analyze --name Ada --gender female --birth 1990-05-15T10:30:00+08:00 --tier premium
  destiny analyze --name Bo --gender male --birth 1985-11-02T06:00:00-05:00 --type daily --as-of 2024-02-10
  destiny tier set --subject user-42 --tier premium --expires 2027-01-01T00:00:00Z`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default is $CONFIG_PATH or configs/config.yaml)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log at debug level to stderr")

	root.AddCommand(newAnalyzeCmd(opts), newCalendarCmd(opts), newTableCmd(opts), newTierCmd(opts))
	return root
}

// load reads the configuration and builds a stderr logger.
func (o *rootOptions) load(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	if o.configPath != "" {
		if err := os.Setenv("CONFIG_PATH", o.configPath); err != nil {
			return nil, nil, err
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	level := cfg.Log.Level
	if o.verbose {
		level = "debug"
	} else if level == "" || level == "info" {
		level = "warn"
	}
	return cfg, logger.NewWithWriter(cmd.ErrOrStderr(), level), nil
}

func parseBirth(raw string) (time.Time, error) {
	birth, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("--birth must be RFC3339 with an explicit offset: %w", err)
	}
	return birth, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
