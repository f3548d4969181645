package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/shanehull/shopfinder/internal/collect"
	"github.com/shanehull/shopfinder/internal/search"
)

type Deps struct {
	Logger   *slog.Logger
	Provider search.Provider

	Variants        []string
	MaxResults      int
	RequireLocation bool
}

func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	hh := HomeHandler{}
	mux.HandleFunc("/", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: hh.Home,
	}))
	mux.HandleFunc("/healthz", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: hh.Health,
	}))

	mh := MockHandler{}
	mux.HandleFunc("/search", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: mh.Search,
	}))

	lh := LeadsHandler{
		Logger:          d.Logger,
		Collector:       collect.NewCollector(d.Logger.With("component", "collector")),
		Provider:        d.Provider,
		Variants:        d.Variants,
		MaxResults:      d.MaxResults,
		RequireLocation: d.RequireLocation,
	}
	mux.HandleFunc("/leads", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: lh.List,
	}))
	mux.HandleFunc("/leads.xlsx", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: lh.XLSX,
	}))

	return mux
}

// NewHandler wraps the mux with request ids, panic recovery and access logs.
func NewHandler(d Deps) http.Handler {
	return Chain(NewMux(d), RequestID, Recover(d.Logger), AccessLog(d.Logger))
}
