package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/yanqian/destiny/internal/bootstrap"
	"github.com/yanqian/destiny/internal/domain/analysis"
	"github.com/yanqian/destiny/internal/infra/resultstore"
)

type analyzeOptions struct {
	name   string
	gender string
	birth  string
	place  string
	tier   string
	typ    string
	asOf   string
}

func newAnalyzeCmd(root *rootOptions) *cobra.Command {
	opts := &analyzeOptions{}
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run a full analysis and print the result document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := opts.request()
			if err != nil {
				return err
			}
			cfg, logger, err := root.load(cmd)
			if err != nil {
				return err
			}
			src, err := bootstrap.NewTableSource(cfg, logger)
			if err != nil {
				return err
			}
			table, err := bootstrap.LoadTable(cmd.Context(), src, logger)
			if err != nil {
				return err
			}
			engine, err := bootstrap.NewEngine(cfg, table)
			if err != nil {
				return err
			}
			svc, err := analysis.NewService(bootstrap.NewAnalysisConfig(cfg), engine, resultstore.NewMemoryStore(), nil, nil, logger)
			if err != nil {
				return err
			}
			result, err := svc.Analyze(cmd.Context(), req)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&opts.name, "name", "", "name of the person")
	flags.StringVar(&opts.gender, "gender", "", "male or female")
	flags.StringVar(&opts.birth, "birth", "", "birth instant, RFC3339 with offset")
	flags.StringVar(&opts.place, "place", "", "birth place, informational only")
	flags.StringVar(&opts.tier, "tier", "", "free, basic or premium (default from config)")
	flags.StringVar(&opts.typ, "type", string(analysis.TypeNatal), "natal or daily")
	flags.StringVar(&opts.asOf, "as-of", "", "date for daily analyses, YYYY-MM-DD in the birth offset")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("gender")
	_ = cmd.MarkFlagRequired("birth")
	return cmd
}

func (o *analyzeOptions) request() (analysis.Request, error) {
	birth, err := parseBirth(o.birth)
	if err != nil {
		return analysis.Request{}, err
	}
	req := analysis.Request{
		Record: analysis.BirthRecord{
			Name:       o.name,
			Gender:     analysis.Gender(strings.ToLower(o.gender)),
			BirthTime:  birth,
			BirthPlace: analysis.BirthPlace{Name: o.place},
		},
		Type: analysis.Type(strings.ToLower(o.typ)),
		Tier: analysis.Tier(strings.ToLower(o.tier)),
	}
	if o.asOf != "" {
		day, err := time.ParseInLocation(time.DateOnly, o.asOf, birth.Location())
		if err != nil {
			return analysis.Request{}, fmt.Errorf("--as-of must be YYYY-MM-DD: %w", err)
		}
		req.AsOf = day
	}
	return req, nil
}

func secondsToDuration(seconds int) time.Duration {
	return time.Duration(seconds) * time.Second
}
