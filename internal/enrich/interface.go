package enrich

import (
	"context"

	"github.com/shanehull/shopfinder/internal/model"
)

type Enricher interface {
	Enrich(ctx context.Context, lead *model.Lead) error
}

// Cache returns previously stored contact details for a URL, or nil.
type Cache interface {
	GetLeadByURL(ctx context.Context, url string) (*model.Lead, error)
}
