package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/shanehull/shopfinder/internal/collect"
	"github.com/shanehull/shopfinder/internal/config"
	"github.com/shanehull/shopfinder/internal/enrich"
	"github.com/shanehull/shopfinder/internal/export"
	"github.com/shanehull/shopfinder/internal/model"
	"github.com/shanehull/shopfinder/internal/report"
	"github.com/shanehull/shopfinder/internal/search"
	"github.com/shanehull/shopfinder/internal/source"
	"github.com/shanehull/shopfinder/internal/storage"
	"github.com/spf13/cobra"
)

type findOptions struct {
	categories     string
	categoriesFile string
	location       string
	city           string
	country        string
	keywords       string
	maxResults     int
	out            string
	enrich         bool
	noSave         bool
	anyLocation    bool
}

func newFindCmd(g *globalFlags) *cobra.Command {
	o := &findOptions{}
	cmd := &cobra.Command{
		Use:   "find",
		Short: "Search for leads and export them to a spreadsheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, closer, err := g.setup(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closer.Close()

			provider, err := search.NewDuckDuckGo(logger.With("component", "search"), cfg.SearchOptions())
			if err != nil {
				return err
			}

			if err := os.MkdirAll(filepath.Dir(cfg.Storage.DBPath), 0o755); err != nil {
				return fmt.Errorf("create db directory: %w", err)
			}
			repo, err := storage.NewDuckDBRepo(cfg.Storage.DBPath, logger)
			if err != nil {
				return fmt.Errorf("db connection failed: %w", err)
			}
			defer repo.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := repo.Init(ctx); err != nil {
				return fmt.Errorf("init db: %w", err)
			}

			return o.run(ctx, cfg, logger, provider, repo, cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.StringVarP(&o.categories, "categories", "c", "", "Product categories, comma or newline separated")
	f.StringVar(&o.categoriesFile, "categories-file", "", "File with categories (.csv with a category column, or one per line)")
	f.StringVarP(&o.location, "location", "l", "", "Location, e.g. \"Cape Town\"")
	f.StringVar(&o.city, "city", "", "City (used with --country when --location is empty)")
	f.StringVar(&o.country, "country", "", "Country (used with --city when --location is empty)")
	f.StringVarP(&o.keywords, "keywords", "k", "", "Extra keyword variants, comma separated")
	f.IntVarP(&o.maxResults, "max", "n", 0, fmt.Sprintf("Results per query (%d-%d, default from config)", model.MinResults, model.MaxResults))
	f.StringVarP(&o.out, "out", "o", "", "Spreadsheet path (default <out_dir>/<file_name> from config)")
	f.BoolVar(&o.enrich, "enrich", false, "Visit each lead to look for an email address and phone number")
	f.BoolVar(&o.noSave, "no-save", false, "Do not store the run in the database")
	f.BoolVar(&o.anyLocation, "any-location", false, "Allow searching without a location")
	return cmd
}

func (o *findOptions) criteria(cfg config.Config) (model.SearchCriteria, error) {
	categories := model.ParseCategories(o.categories)
	if o.categoriesFile != "" {
		fromFile, err := source.ReadCategories(o.categoriesFile)
		if err != nil {
			return model.SearchCriteria{}, err
		}
		categories = append(categories, fromFile...)
	}

	location := o.location
	if location == "" {
		location = model.ComposeLocation(o.city, o.country)
	}

	limit := cfg.Collect.MaxResults
	if o.maxResults != 0 {
		limit = o.maxResults
	}

	return model.SearchCriteria{
		Categories:      categories,
		Location:        location,
		Variants:        model.ExpandVariants(cfg.Collect.Variants, o.keywords),
		MaxResults:      limit,
		RequireLocation: cfg.Collect.RequireLocation && !o.anyLocation,
	}, nil
}

func (o *findOptions) run(ctx context.Context, cfg config.Config, logger *slog.Logger, provider search.Provider, repo storage.Repository, stdout io.Writer) error {
	rep := report.New(stdout)

	criteria, err := o.criteria(cfg)
	if err != nil {
		return err
	}
	if err := criteria.Validate(); err != nil {
		if errors.Is(err, model.ErrMissingInput) {
			rep.Warning("Please enter both categories and a location.")
		} else {
			rep.Warning(err.Error())
		}
		return errReported
	}

	collector := collect.NewCollector(logger.With("component", "collector"))
	run, err := collector.Collect(ctx, criteria, provider)
	if err != nil && run == nil {
		return err
	}
	if err != nil {
		logger.Warn("Run interrupted, keeping partial results", "err", err)
	}
	for _, f := range run.Failures {
		rep.QueryError(f.Query, f.Err)
	}

	if o.enrich && !run.Empty() && ctx.Err() == nil {
		pool := enrich.NewPool(logger.With("component", "enrich"),
			enrich.NewContactEnricher(logger, cfg.Search.UserAgent, cfg.EnrichTimeout()),
			repo, cfg.Enrich.Workers)
		pool.Run(ctx, run.Leads)
	}

	if !o.noSave {
		if err := repo.SaveRun(context.WithoutCancel(ctx), run); err != nil {
			logger.Error("Save failed", "run", run.ID, "err", err)
		}
	}

	if run.Empty() {
		rep.Empty()
		return nil
	}

	rep.Success(len(run.Leads))
	export.RenderTable(stdout, run.Leads)

	path := o.out
	if path == "" {
		path = filepath.Join(cfg.Export.OutDir, cfg.Export.FileName)
	}
	if err := writeXLSXFile(path, run.Leads); err != nil {
		return err
	}
	rep.Info("📥 Saved %d leads to %s (run %s)", len(run.Leads), path, run.ID)
	return nil
}

func writeXLSXFile(path string, leads []model.Lead) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := export.WriteXLSX(f, leads); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
