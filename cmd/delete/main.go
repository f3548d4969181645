package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/shanehull/shopfinder/internal/storage"
)

func main() {
	name := flag.String("name", "", "Lead name to delete (case-insensitive contains)")
	url := flag.String("url", "", "Lead URL to delete")
	category := flag.String("category", "", "Lead category (for matching)")
	location := flag.String("location", "", "Lead location (for matching)")
	runID := flag.String("run", "", "Run id (for matching)")
	yes := flag.Bool("yes", false, "Skip the confirmation prompt")
	dbPath := flag.String("db", "out/shopfinder.duckdb", "Path to DuckDB file")
	flag.Parse()

	filter := storage.Filter{
		Name:     *name,
		URL:      *url,
		Category: *category,
		Location: *location,
		RunID:    *runID,
	}
	if filter.IsZero() {
		fmt.Fprintf(os.Stderr, "Error: at least one filter is required (-name, -url, -category, -location or -run)\n")
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	repo, err := storage.NewDuckDBRepo(*dbPath, logger)
	if err != nil {
		logger.Error("DB connection failed", "err", err)
		os.Exit(1)
	}
	defer repo.Close()

	ctx := context.Background()
	if err := repo.Init(ctx); err != nil {
		logger.Error("DB init failed", "err", err)
		os.Exit(1)
	}

	matches, err := repo.ListLeads(ctx, filter)
	if err != nil {
		logger.Error("Lookup failed", "err", err)
		os.Exit(1)
	}
	if len(matches) == 0 {
		logger.Warn("No records matched the filters", "filters", filter)
		return
	}

	if !*yes {
		fmt.Printf("\nDelete %d leads matching:\n", len(matches))
		flag.Visit(func(f *flag.Flag) {
			if f.Name != "db" && f.Name != "yes" {
				fmt.Printf("  %s: %v\n", f.Name, f.Value)
			}
		})
		fmt.Print("\nAre you sure? (yes/no): ")

		reader := bufio.NewReader(os.Stdin)
		response, _ := reader.ReadString('\n')
		response = strings.ToLower(strings.TrimSpace(response))
		if response != "yes" && response != "y" {
			fmt.Println("Cancelled.")
			return
		}
	}

	rowsDeleted, err := repo.DeleteLeads(ctx, filter)
	if err != nil {
		logger.Error("Delete failed", "filters", filter, "err", err)
		os.Exit(1)
	}
	logger.Info("Deleted successfully", "filters", filter, "rows_deleted", rowsDeleted)
}
