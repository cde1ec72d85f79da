package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yanqian/destiny/internal/bootstrap"
	"github.com/yanqian/destiny/internal/domain/calendar"
	"github.com/yanqian/destiny/internal/infra/tables"
)

func newTableCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Validate or publish calendar table documents",
	}
	cmd.AddCommand(newTableCheckCmd(root), newTablePublishCmd(root))
	return cmd
}

func newTableCheckCmd(root *rootOptions) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Parse a table document and print its coverage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var src tables.Source = tables.FileSource{Path: file}
			if file == "" {
				cfg, logger, err := root.load(cmd)
				if err != nil {
					return err
				}
				if src, err = bootstrap.NewTableSource(cfg, logger); err != nil {
					return err
				}
			}
			table, err := tables.Load(cmd.Context(), src)
			if err != nil {
				return err
			}
			first, last := table.Bounds()
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s..%s\n", src.Name(), first.Format("2006-01-02"), last.Format("2006-01-02"))
			return err
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "table document (default is the configured table source)")
	return cmd
}

func newTablePublishCmd(root *rootOptions) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Upload a validated table document to the configured R2 bucket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := root.load(cmd)
			if err != nil {
				return err
			}
			data := calendar.EmbeddedTableData()
			if file != "" {
				if data, err = (tables.FileSource{Path: file}).Load(cmd.Context()); err != nil {
					return err
				}
			}
			r2 := cfg.Calendar.TableSource.R2
			dst, err := tables.NewR2Source(tables.R2Options{
				Endpoint:  r2.Endpoint,
				AccessKey: r2.AccessKey,
				SecretKey: r2.SecretKey,
				Bucket:    r2.Bucket,
				Region:    r2.Region,
				Key:       r2.Key,
			}, logger)
			if err != nil {
				return err
			}
			if err := dst.Publish(cmd.Context(), data); err != nil {
				return fmt.Errorf("publish to %s: %w", dst.Name(), err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "published %d bytes to %s\n", len(data), dst.Name())
			return err
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "table document (default is the embedded table)")
	return cmd
}
