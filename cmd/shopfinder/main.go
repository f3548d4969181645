package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/shanehull/shopfinder/internal/config"
	"github.com/shanehull/shopfinder/internal/logging"
	"github.com/spf13/cobra"
)

// errReported marks failures already shown to the user by the reporter.
var errReported = errors.New("reported")

type globalFlags struct {
	configPath string
	dbPath     string
	debug      bool
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:   "shopfinder",
		Short: "Find shop and supplier leads by product category and location",
		Long: `shopfinder expands each product category with business-role keywords
(supplier, wholesaler, distributor, store, shop, plus your own), searches the
web for every combination, removes duplicate URLs and exports the leads to a
spreadsheet.

  shopfinder find --categories "beads,toys" --location "Cape Town"
  shopfinder export --format csv`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&g.configPath, "config", "", "YAML config file")
	root.PersistentFlags().StringVar(&g.dbPath, "db", "", "Path to DuckDB file (overrides config)")
	root.PersistentFlags().BoolVar(&g.debug, "debug", false, "Enable debug logs")

	root.AddCommand(newFindCmd(g))
	root.AddCommand(newExportCmd(g))
	return root
}

// setup loads config and builds the logger shared by every subcommand.
func (g *globalFlags) setup(stderr io.Writer) (config.Config, *slog.Logger, io.Closer, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return cfg, nil, nil, fmt.Errorf("load config: %w", err)
	}
	if g.dbPath != "" {
		cfg.Storage.DBPath = g.dbPath
	}
	logger, closer, err := logging.New(stderr, logging.Options{
		Level:      cfg.Log.Level,
		Debug:      g.debug,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
	})
	if err != nil {
		return cfg, nil, nil, err
	}
	return cfg, logger, closer, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
