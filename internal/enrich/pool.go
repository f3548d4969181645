package enrich

import (
	"context"
	"log/slog"

	"github.com/shanehull/shopfinder/internal/model"
	"golang.org/x/sync/errgroup"
)

type Stats struct {
	Cached, Enriched, Failed int
}

// Pool runs an Enricher over many leads with bounded parallelism.
type Pool struct {
	enricher Enricher
	cache    Cache
	workers  int
	logger   *slog.Logger
}

func NewPool(logger *slog.Logger, enricher Enricher, cache Cache, workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{enricher: enricher, cache: cache, workers: workers, logger: logger}
}

// Run enriches leads in place. Order is untouched and a failure on one lead is
// stored on that lead's EnrichmentError rather than returned.
func (p *Pool) Run(ctx context.Context, leads []model.Lead) Stats {
	cached := make([]bool, len(leads))

	var g errgroup.Group
	g.SetLimit(p.workers)
	for i := range leads {
		g.Go(func() error {
			l := &leads[i]
			if p.fromCache(ctx, l) {
				cached[i] = true
				return nil
			}
			if err := p.enricher.Enrich(ctx, l); err != nil {
				l.EnrichmentError = err
				p.logger.Debug("Enrichment failed", "url", l.URL, "err", err)
			}
			return nil
		})
	}
	_ = g.Wait()

	var s Stats
	for i, l := range leads {
		switch {
		case cached[i]:
			s.Cached++
		case l.EnrichmentError != nil:
			s.Failed++
		default:
			s.Enriched++
		}
	}
	p.logger.Info("Enrichment complete", "cached", s.Cached, "enriched", s.Enriched, "failed", s.Failed)
	return s
}

func (p *Pool) fromCache(ctx context.Context, l *model.Lead) bool {
	if p.cache == nil {
		return false
	}
	existing, err := p.cache.GetLeadByURL(ctx, l.URL)
	if err != nil {
		p.logger.Warn("Cache lookup failed", "url", l.URL, "err", err)
		return false
	}
	if existing == nil || !existing.HasContact() {
		return false
	}
	l.Email = existing.Email
	l.Phone = existing.Phone
	return true
}
