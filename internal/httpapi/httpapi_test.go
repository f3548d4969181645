package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/shanehull/shopfinder/internal/export"
	"github.com/shanehull/shopfinder/internal/model"
	"github.com/shanehull/shopfinder/internal/report"
	"github.com/shanehull/shopfinder/internal/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newTestServer(t *testing.T, p search.Provider) *httptest.Server {
	t.Helper()
	if p == nil {
		p = search.ProviderFunc(func(ctx context.Context, query string, limit int) ([]search.Result, error) {
			return nil, nil
		})
	}
	srv := httptest.NewServer(NewHandler(Deps{
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		Provider:   p,
		Variants:   []string{"supplier", "shop"},
		MaxResults: 5,
	}))
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestHome(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, body := get(t, srv.URL+"/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, liveMessage, string(body))
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	resp, _ = get(t, srv.URL+"/nowhere")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = get(t, srv.URL+"/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"ok":true}`, string(body))
}

func TestMockSearchMissingCategory(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, body := get(t, srv.URL+"/search")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var e errorBody
	require.NoError(t, json.Unmarshal(body, &e))
	assert.Equal(t, "Missing category parameter", e.Error)
}

func TestMockSearch(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, body := get(t, srv.URL+"/search?category=beads")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var leads []model.MockLead
	require.NoError(t, json.Unmarshal(body, &leads))
	require.Len(t, leads, 3)
	for _, l := range leads {
		assert.Equal(t, "beads", l.Category)
	}
}

func TestMockSearchRejectsPost(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, err := http.Post(srv.URL+"/search?category=beads", "text/plain", strings.NewReader(""))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestLeads(t *testing.T) {
	var mu sync.Mutex
	var queries []string
	p := search.ProviderFunc(func(ctx context.Context, query string, limit int) ([]search.Result, error) {
		mu.Lock()
		queries = append(queries, query)
		mu.Unlock()
		if strings.HasPrefix(query, "toys") {
			return nil, errors.New("provider down")
		}
		return []search.Result{
			{Title: "Bead Bazaar", URL: "https://beads.test", Snippet: "beads"},
			{Title: "Other", URL: "https://" + strings.ReplaceAll(query, " ", "-") + ".test"},
		}, nil
	})
	srv := newTestServer(t, p)

	resp, body := get(t, srv.URL+"/leads?category=beads&category=toys&city=Cape+Town&country=South+Africa&keywords=importer&max=3")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var got leadsResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.NotEmpty(t, got.RunID)
	assert.Equal(t, 4, got.Count)
	assert.Equal(t, "https://beads.test", got.Leads[0].URL)
	assert.Equal(t, "beads supplier in Cape Town, South Africa", got.Leads[0].Query)
	assert.Len(t, got.Failures, 3)
	assert.Equal(t, "toys supplier in Cape Town, South Africa", got.Failures[0].Query)
	mu.Lock()
	assert.Len(t, queries, 6)
	mu.Unlock()
}

func TestLeadsValidation(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, body := get(t, srv.URL+"/leads?location=Durban")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "category")

	resp, _ = get(t, srv.URL+"/leads?category=beads&max=lots")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = get(t, srv.URL+"/leads?category=beads&max=99")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLeadsEmpty(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, body := get(t, srv.URL+"/leads?category=beads")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(mustField(t, body, "leads")))
	assert.Equal(t, `"`+report.EmptyMessage+`"`, string(mustField(t, body, "message")))
}

func mustField(t *testing.T, body []byte, key string) json.RawMessage {
	t.Helper()
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &m))
	return m[key]
}

func TestLeadsXLSX(t *testing.T) {
	p := search.ProviderFunc(func(ctx context.Context, query string, limit int) ([]search.Result, error) {
		return []search.Result{{Title: "Bead Bazaar", URL: "https://beads.test"}}, nil
	})
	srv := newTestServer(t, p)

	resp, body := get(t, srv.URL+"/leads.xlsx?category=beads&location=Durban")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, export.XLSXContentType, resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), export.DefaultFileName)

	f, err := excelize.OpenReader(strings.NewReader(string(body)))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(export.SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "https://beads.test", rows[1][1])
}

func TestRecover(t *testing.T) {
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}), RequestID, Recover(slog.New(slog.NewTextHandler(io.Discard, nil))))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-1")
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error","request_id":"req-1"}`, rec.Body.String())
}
