package model

import "strings"

// Lead is a candidate business contact derived from one search result.
// Name and Snippet are nullable: an empty string means the provider sent nothing.
type Lead struct {
	Name     string `json:"name,omitempty"`
	URL      string `json:"url"` // Dedup key within a run
	Snippet  string `json:"snippet,omitempty"`
	Category string `json:"category"`
	Location string `json:"location"`
	Query    string `json:"query"` // Exact query string that produced the lead

	Email           string `json:"email,omitempty"`
	Phone           string `json:"phone,omitempty"`
	EnrichmentError error  `json:"-"`
}

func (l *Lead) HasContact() bool {
	return l.Email != "" || l.Phone != ""
}

// Host returns the lower-cased host of the lead URL without a leading "www.".
func (l *Lead) Host() string {
	u := l.URL
	if i := strings.Index(u, "://"); i >= 0 {
		u = u[i+3:]
	}
	if i := strings.IndexAny(u, "/?#"); i >= 0 {
		u = u[:i]
	}
	return strings.TrimPrefix(strings.ToLower(u), "www.")
}

// MockLead is the fixed record shape served by the demo API.
type MockLead struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Location string `json:"location"`
	Category string `json:"category"`
}

// MockLeads returns the three demo records annotated with category.
func MockLeads(category string) []MockLead {
	leads := []MockLead{
		{Name: "Fashion World", Email: "contact@fashionworld.co.za", Location: "Cape Town"},
		{Name: "Style Hub", Email: "info@stylehub.co.za", Location: "Johannesburg"},
		{Name: "Bead Bazaar", Email: "beads@bazaar.co.za", Location: "Durban"},
	}
	for i := range leads {
		leads[i].Category = category
	}
	return leads
}
