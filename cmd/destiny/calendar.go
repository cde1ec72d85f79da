package main

import (
	"github.com/spf13/cobra"

	"github.com/yanqian/destiny/internal/bootstrap"
)

func newCalendarCmd(root *rootOptions) *cobra.Command {
	var birth string
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Convert a birth instant to its lunisolar date and pillars",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			instant, err := parseBirth(birth)
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
			_, offset := instant.Zone()
			date, err := engine.Calendar.Convert(instant, secondsToDuration(offset))
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), date)
		},
	}
	cmd.Flags().StringVar(&birth, "birth", "", "birth instant, RFC3339 with offset")
	_ = cmd.MarkFlagRequired("birth")
	return cmd
}
