package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingInput means a required field was absent; no search is performed.
	ErrMissingInput = errors.New("missing input")
	// ErrInvalidInput means a field was present but out of bounds.
	ErrInvalidInput = errors.New("invalid input")
)

const (
	MinResults     = 1
	MaxResults     = 20
	DefaultResults = 5
)

// BaseVariants are the business-role qualifiers every category is expanded with.
var BaseVariants = []string{"supplier", "wholesaler", "distributor", "store", "shop"}

type SearchCriteria struct {
	Categories []string
	Location   string
	Variants   []string
	MaxResults int

	// RequireLocation rejects an empty location during Validate.
	RequireLocation bool
}

func (c SearchCriteria) Validate() error {
	if len(c.Categories) == 0 {
		return fmt.Errorf("%w: at least one category is required", ErrMissingInput)
	}
	if c.RequireLocation && strings.TrimSpace(c.Location) == "" {
		return fmt.Errorf("%w: location is required", ErrMissingInput)
	}
	if len(c.Variants) == 0 {
		return fmt.Errorf("%w: at least one keyword variant is required", ErrInvalidInput)
	}
	if c.MaxResults < MinResults || c.MaxResults > MaxResults {
		return fmt.Errorf("%w: max results must be between %d and %d, got %d", ErrInvalidInput, MinResults, MaxResults, c.MaxResults)
	}
	return nil
}

// Query builds "{category} {variant} in {location}". The " in {location}"
// suffix is omitted entirely when location is empty.
func (c SearchCriteria) Query(category, variant string) string {
	q := category + " " + variant
	if loc := strings.TrimSpace(c.Location); loc != "" {
		q += " in " + loc
	}
	return q
}

// ParseCategories splits free text on newlines and commas, keeping order.
func ParseCategories(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == '\n' || r == '\r' || r == ','
	})
	var out []string
	for _, f := range fields {
		if trimmed := strings.TrimSpace(f); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// ExpandVariants returns base followed by the comma-separated extras. A nil
// base means BaseVariants. Extras already present (case-insensitive) are dropped.
func ExpandVariants(base []string, extra string) []string {
	if base == nil {
		base = BaseVariants
	}
	out := append([]string(nil), base...)
	seen := make(map[string]bool, len(out))
	for _, v := range out {
		seen[strings.ToLower(v)] = true
	}
	for _, v := range strings.Split(extra, ",") {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" || seen[strings.ToLower(trimmed)] {
			continue
		}
		seen[strings.ToLower(trimmed)] = true
		out = append(out, trimmed)
	}
	return out
}

// ComposeLocation joins city and country as "City, Country", skipping blanks.
func ComposeLocation(city, country string) string {
	var parts []string
	for _, p := range []string{city, country} {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, ", ")
}
