package collect

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shanehull/shopfinder/internal/model"
	"github.com/shanehull/shopfinder/internal/search"
)

// QueryFailure records one search call that failed. It never aborts a run.
type QueryFailure struct {
	Category string
	Variant  string
	Query    string
	Err      error
}

func (f QueryFailure) Error() string {
	return fmt.Sprintf("query %q failed: %v", f.Query, f.Err)
}

func (f QueryFailure) Unwrap() error { return f.Err }

type Run struct {
	ID       string
	Criteria model.SearchCriteria
	Provider string
	Leads    []model.Lead
	Failures []QueryFailure

	Queries    int
	Found      int // Raw results returned by the provider
	Skipped    int // Results without a URL
	Duplicates int

	Started  time.Time
	Finished time.Time
}

// Empty reports a completed run that retained no leads. This is not a failure.
func (r *Run) Empty() bool { return len(r.Leads) == 0 }

type Collector struct {
	logger *slog.Logger
}

func NewCollector(logger *slog.Logger) *Collector {
	return &Collector{logger: logger}
}

// Collect issues one query per (category, variant) pair, categories outer and
// variants inner, and keeps the first lead seen for every URL.
//
// Validation errors are returned before any search is made. A failed query is
// recorded on the run and the loop moves on. If ctx is cancelled between
// queries the partial run is returned together with ctx.Err().
func (c *Collector) Collect(ctx context.Context, criteria model.SearchCriteria, provider search.Provider) (*Run, error) {
	if err := criteria.Validate(); err != nil {
		return nil, err
	}

	run := &Run{
		ID:       uuid.NewString(),
		Criteria: criteria,
		Provider: provider.Name(),
		Started:  time.Now(),
	}
	logger := c.logger.With("run", run.ID, "provider", run.Provider)
	seen := make(map[string]struct{})

	for _, category := range criteria.Categories {
		for _, variant := range criteria.Variants {
			if err := ctx.Err(); err != nil {
				run.Finished = time.Now()
				return run, err
			}

			query := criteria.Query(category, variant)
			run.Queries++

			results, err := provider.Search(ctx, query, criteria.MaxResults)
			if err != nil {
				logger.Error("Search failed", "query", query, "err", err)
				run.Failures = append(run.Failures, QueryFailure{
					Category: category,
					Variant:  variant,
					Query:    query,
					Err:      err,
				})
				continue
			}

			kept := 0
			for _, r := range results {
				run.Found++
				if r.URL == "" {
					run.Skipped++
					continue
				}
				if _, dup := seen[r.URL]; dup {
					run.Duplicates++
					continue
				}
				seen[r.URL] = struct{}{}
				run.Leads = append(run.Leads, model.Lead{
					Name:     r.Title,
					URL:      r.URL,
					Snippet:  r.Snippet,
					Category: category,
					Location: criteria.Location,
					Query:    query,
				})
				kept++
			}
			logger.Debug("Query complete", "query", query, "results", len(results), "kept", kept)
		}
	}

	run.Finished = time.Now()
	logger.Info("Collection complete",
		"queries", run.Queries,
		"found", run.Found,
		"kept", len(run.Leads),
		"duplicates", run.Duplicates,
		"skipped", run.Skipped,
		"failures", len(run.Failures))
	return run, nil
}
