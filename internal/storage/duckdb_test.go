package storage

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shanehull/shopfinder/internal/collect"
	"github.com/shanehull/shopfinder/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ Repository = (*DuckDBRepo)(nil)

func newRepo(t *testing.T) *DuckDBRepo {
	t.Helper()
	repo, err := NewDuckDBRepo(filepath.Join(t.TempDir(), "test.duckdb"), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	require.NoError(t, repo.Init(context.Background()))
	return repo
}

func sampleRun(id string, started time.Time) *collect.Run {
	return &collect.Run{
		ID:       id,
		Provider: "fake",
		Criteria: model.SearchCriteria{
			Categories: []string{"beads", "toys"},
			Location:   "Durban",
			Variants:   []string{"supplier", "shop"},
			MaxResults: 5,
		},
		Leads: []model.Lead{
			{Name: "Bead Bazaar", URL: "https://beads.test", Snippet: "Beads", Category: "beads", Location: "Durban", Query: "beads supplier in Durban", Email: "beads@bazaar.test"},
			{URL: "https://anon.test", Category: "beads", Location: "Durban", Query: "beads shop in Durban"},
			{Name: "Toy Town", URL: "https://toys.test", Category: "toys", Location: "Durban", Query: "toys supplier in Durban"},
		},
		Queries:  4,
		Started:  started,
		Finished: started.Add(time.Second),
	}
}

func TestSaveRunAndList(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	run := sampleRun("run-1", time.Now())
	require.NoError(t, repo.SaveRun(ctx, run))

	leads, err := repo.ListLeads(ctx, Filter{})
	require.NoError(t, err)
	assert.Equal(t, run.Leads, leads)

	leads, err = repo.ListLeads(ctx, Filter{Category: "TOYS"})
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "Toy Town", leads[0].Name)

	leads, err = repo.ListLeads(ctx, Filter{Name: "bazaar"})
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "beads@bazaar.test", leads[0].Email)
}

func TestLatestRunID(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	id, err := repo.LatestRunID(ctx)
	require.NoError(t, err)
	assert.Empty(t, id)

	now := time.Now()
	require.NoError(t, repo.SaveRun(ctx, sampleRun("old", now.Add(-time.Hour))))
	require.NoError(t, repo.SaveRun(ctx, sampleRun("new", now)))

	id, err = repo.LatestRunID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "new", id)
}

func TestGetLeadByURLPrefersContact(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	require.NoError(t, repo.SaveRun(ctx, sampleRun("run-1", time.Now())))

	plain := sampleRun("run-2", time.Now())
	plain.Leads[0].Email = ""
	require.NoError(t, repo.SaveRun(ctx, plain))

	l, err := repo.GetLeadByURL(ctx, "https://beads.test")
	require.NoError(t, err)
	require.NotNil(t, l)
	assert.Equal(t, "beads@bazaar.test", l.Email)

	l, err = repo.GetLeadByURL(ctx, "https://missing.test")
	require.NoError(t, err)
	assert.Nil(t, l)
}

func TestExportCSV(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	require.NoError(t, repo.SaveRun(ctx, sampleRun("run-1", time.Now())))

	path := filepath.Join(t.TempDir(), "it's.csv")
	require.NoError(t, repo.ExportCSV(ctx, path, Filter{RunID: "run-1", Category: "beads"}))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "name,url,snippet,category,location,query,email,phone", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "Bead Bazaar,https://beads.test,"))
	assert.Contains(t, lines[2], "https://anon.test")
}

func TestDeleteLeads(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	require.NoError(t, repo.SaveRun(ctx, sampleRun("run-1", time.Now())))

	_, err := repo.DeleteLeads(ctx, Filter{})
	assert.Error(t, err)

	n, err := repo.DeleteLeads(ctx, Filter{Category: "beads"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	leads, err := repo.ListLeads(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "https://toys.test", leads[0].URL)
}

func TestFilterWhere(t *testing.T) {
	where, args := Filter{RunID: "r", Name: "Bead"}.where()
	assert.Equal(t, " WHERE run_id = ? AND lower(coalesce(name, '')) LIKE ?", where)
	assert.Equal(t, []any{"r", "%bead%"}, args)

	assert.Equal(t, " WHERE url = 'https://x.test/?q=''a'''", Filter{URL: "https://x.test/?q='a'"}.whereLiteral())
	assert.Equal(t, "", Filter{}.whereLiteral())
}
