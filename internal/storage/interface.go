package storage

import (
	"context"

	"github.com/shanehull/shopfinder/internal/collect"
	"github.com/shanehull/shopfinder/internal/model"
)

// Filter narrows reads, exports and deletes. Zero fields match everything.
type Filter struct {
	RunID    string
	Category string
	Location string
	Name     string // Case-insensitive substring
	URL      string
}

func (f Filter) IsZero() bool {
	return f == Filter{}
}

type Repository interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run *collect.Run) error
	ListLeads(ctx context.Context, f Filter) ([]model.Lead, error)
	GetLeadByURL(ctx context.Context, url string) (*model.Lead, error)
	LatestRunID(ctx context.Context) (string, error)
	ExportCSV(ctx context.Context, path string, f Filter) error
	DeleteLeads(ctx context.Context, f Filter) (int64, error)
	Close() error
}
