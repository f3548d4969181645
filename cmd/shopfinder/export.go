package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/shanehull/shopfinder/internal/report"
	"github.com/shanehull/shopfinder/internal/storage"
	"github.com/spf13/cobra"
)

type exportOptions struct {
	runID    string
	category string
	format   string
	out      string
}

func newExportCmd(g *globalFlags) *cobra.Command {
	o := &exportOptions{}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Re-export stored leads without searching",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, closer, err := g.setup(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closer.Close()

			repo, err := storage.NewDuckDBRepo(cfg.Storage.DBPath, logger)
			if err != nil {
				return fmt.Errorf("db connection failed: %w", err)
			}
			defer repo.Close()

			ctx := cmd.Context()
			if err := repo.Init(ctx); err != nil {
				return err
			}

			filter := storage.Filter{RunID: o.runID, Category: o.category}
			if filter.RunID == "" {
				latest, err := repo.LatestRunID(ctx)
				if err != nil {
					return err
				}
				filter.RunID = latest
			}
			if filter.RunID == "" {
				report.New(cmd.OutOrStdout()).Empty()
				return nil
			}

			path := o.out
			if path == "" {
				path = filepath.Join(cfg.Export.OutDir, cfg.Export.FileName)
				if o.format == "csv" {
					path = path[:len(path)-len(filepath.Ext(path))] + ".csv"
				}
			}
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return err
			}

			switch o.format {
			case "csv":
				if err := repo.ExportCSV(ctx, path, filter); err != nil {
					return fmt.Errorf("export failed: %w", err)
				}
			case "xlsx":
				leads, err := repo.ListLeads(ctx, filter)
				if err != nil {
					return err
				}
				if err := writeXLSXFile(path, leads); err != nil {
					return fmt.Errorf("export failed: %w", err)
				}
			default:
				return fmt.Errorf("unknown format %q (want xlsx or csv)", o.format)
			}

			logger.Info("Export successful", "path", path, "run", filter.RunID)
			report.New(cmd.OutOrStdout()).Info("📥 Exported run %s to %s", filter.RunID, path)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.runID, "run", "", "Run id to export (default latest run)")
	f.StringVar(&o.category, "category", "", "Only export this category")
	f.StringVar(&o.format, "format", "xlsx", "Output format: xlsx or csv")
	f.StringVarP(&o.out, "out", "o", "", "Output path")
	return cmd
}
