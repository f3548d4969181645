package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shanehull/shopfinder/internal/storage"
)

func main() {
	dbPath := flag.String("db", "out/shopfinder.duckdb", "Path to DuckDB file")
	name := flag.String("name", "", "Search by name (case-insensitive contains)")
	category := flag.String("category", "", "Filter by category")
	location := flag.String("location", "", "Filter by location (case-insensitive contains)")
	runID := flag.String("run", "", "Filter by run id")
	outPath := flag.String("out", "out/search_results.csv", "Output CSV path")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	repo, err := storage.NewDuckDBRepo(*dbPath, logger)
	if err != nil {
		logger.Error("Failed to connect to DB", "error", err)
		os.Exit(1)
	}
	defer repo.Close()

	ctx := context.Background()
	if err := repo.Init(ctx); err != nil {
		logger.Error("Failed to init DB", "error", err)
		os.Exit(1)
	}

	filter := storage.Filter{
		Name:     *name,
		Category: *category,
		Location: *location,
		RunID:    *runID,
	}

	leads, err := repo.ListLeads(ctx, filter)
	if err != nil {
		logger.Error("Search failed", "error", err)
		os.Exit(1)
	}
	if len(leads) == 0 {
		logger.Warn("No leads matched", "filters", filter)
		return
	}

	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		logger.Error("Failed to create output directory", "error", err)
		os.Exit(1)
	}
	if err := repo.ExportCSV(ctx, *outPath, filter); err != nil {
		logger.Error("Export failed", "error", err)
		os.Exit(1)
	}

	logger.Info("Search complete", "matches", len(leads), "output", *outPath)
}
