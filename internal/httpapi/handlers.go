package httpapi

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/shanehull/shopfinder/internal/collect"
	"github.com/shanehull/shopfinder/internal/export"
	"github.com/shanehull/shopfinder/internal/model"
	"github.com/shanehull/shopfinder/internal/report"
	"github.com/shanehull/shopfinder/internal/search"
)

const liveMessage = "✅ Shop Finder API is live. Try /search?category=beads"

type HomeHandler struct{}

func (h HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		WriteError(w, r, http.StatusNotFound, "not found")
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, liveMessage)
}

func (h HomeHandler) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// MockHandler serves fixed demo records; it never touches a search provider.
type MockHandler struct{}

func (h MockHandler) Search(w http.ResponseWriter, r *http.Request) {
	category := strings.TrimSpace(r.URL.Query().Get("category"))
	if category == "" {
		WriteError(w, r, http.StatusBadRequest, "Missing category parameter")
		return
	}
	WriteJSON(w, http.StatusOK, model.MockLeads(category))
}

// LeadsHandler runs a real collection per request.
type LeadsHandler struct {
	Logger          *slog.Logger
	Collector       *collect.Collector
	Provider        search.Provider
	Variants        []string
	MaxResults      int
	RequireLocation bool
}

type failureBody struct {
	Query string `json:"query"`
	Error string `json:"error"`
}

type leadsResponse struct {
	RunID    string        `json:"run_id"`
	Count    int           `json:"count"`
	Leads    []model.Lead  `json:"leads"`
	Failures []failureBody `json:"failures"`
	Message  string        `json:"message,omitempty"`
}

func (h LeadsHandler) List(w http.ResponseWriter, r *http.Request) {
	run, ok := h.collect(w, r)
	if !ok {
		return
	}

	resp := leadsResponse{
		RunID:    run.ID,
		Count:    len(run.Leads),
		Leads:    run.Leads,
		Failures: []failureBody{},
	}
	if resp.Leads == nil {
		resp.Leads = []model.Lead{}
	}
	for _, f := range run.Failures {
		resp.Failures = append(resp.Failures, failureBody{Query: f.Query, Error: f.Err.Error()})
	}
	if run.Empty() {
		resp.Message = report.EmptyMessage
	}
	WriteJSON(w, http.StatusOK, resp)
}

func (h LeadsHandler) XLSX(w http.ResponseWriter, r *http.Request) {
	run, ok := h.collect(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", export.XLSXContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.DefaultFileName))
	if err := export.WriteXLSX(w, run.Leads); err != nil {
		h.Logger.Error("Export failed", "run", run.ID, "err", err)
	}
}

func (h LeadsHandler) collect(w http.ResponseWriter, r *http.Request) (*collect.Run, bool) {
	criteria, err := h.criteria(r)
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, err.Error())
		return nil, false
	}

	run, err := h.Collector.Collect(r.Context(), criteria, h.Provider)
	switch {
	case errors.Is(err, model.ErrMissingInput), errors.Is(err, model.ErrInvalidInput):
		WriteError(w, r, http.StatusBadRequest, err.Error())
		return nil, false
	case err != nil:
		h.Logger.Warn("Collection aborted", "request_id", RequestIDFrom(r.Context()), "err", err)
		WriteError(w, r, http.StatusServiceUnavailable, "collection aborted")
		return nil, false
	}
	return run, true
}

func (h LeadsHandler) criteria(r *http.Request) (model.SearchCriteria, error) {
	q := r.URL.Query()

	var categories []string
	for _, c := range q["category"] {
		categories = append(categories, model.ParseCategories(c)...)
	}

	location := strings.TrimSpace(q.Get("location"))
	if location == "" {
		location = model.ComposeLocation(q.Get("city"), q.Get("country"))
	}

	limit := h.MaxResults
	if raw := q.Get("max"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return model.SearchCriteria{}, fmt.Errorf("max must be an integer: %q", raw)
		}
		limit = n
	}

	return model.SearchCriteria{
		Categories:      categories,
		Location:        location,
		Variants:        model.ExpandVariants(h.Variants, q.Get("keywords")),
		MaxResults:      limit,
		RequireLocation: h.RequireLocation,
	}, nil
}
