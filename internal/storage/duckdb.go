package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/marcboeker/go-duckdb"
	"github.com/shanehull/shopfinder/internal/collect"
	"github.com/shanehull/shopfinder/internal/model"
)

type DuckDBRepo struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewDuckDBRepo(path string, logger *slog.Logger) (*DuckDBRepo, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, err
	}
	return &DuckDBRepo{db: db, logger: logger}, nil
}

func (r *DuckDBRepo) Init(ctx context.Context) error {
	for _, query := range schema {
		if _, err := r.db.ExecContext(ctx, query); err != nil {
			return err
		}
	}
	return nil
}

var schema = []string{`
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		provider TEXT,
		categories TEXT,
		location TEXT,
		variants TEXT,
		max_results INTEGER,
		queries INTEGER,
		lead_count INTEGER,
		failure_count INTEGER,
		started_at TIMESTAMP,
		finished_at TIMESTAMP
	);`, `
	CREATE TABLE IF NOT EXISTS leads (
		run_id TEXT,
		position INTEGER,
		name TEXT,
		url TEXT,
		snippet TEXT,
		category TEXT,
		location TEXT,
		query TEXT,
		email TEXT,
		phone TEXT,
		created_at TIMESTAMP,
		PRIMARY KEY (run_id, url)
	);`,
}

// SaveRun stores the run header and its leads in one transaction.
func (r *DuckDBRepo) SaveRun(ctx context.Context, run *collect.Run) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	c := run.Criteria
	_, err = tx.ExecContext(ctx, `
	INSERT INTO runs (id, provider, categories, location, variants, max_results, queries, lead_count, failure_count, started_at, finished_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Provider, strings.Join(c.Categories, ","), c.Location, strings.Join(c.Variants, ","),
		c.MaxResults, run.Queries, len(run.Leads), len(run.Failures), run.Started, run.Finished)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	now := time.Now()
	for i, l := range run.Leads {
		_, err := tx.ExecContext(ctx, `
		INSERT INTO leads (run_id, position, name, url, snippet, category, location, query, email, phone, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (run_id, url) DO NOTHING`,
			run.ID, i, nullable(l.Name), l.URL, nullable(l.Snippet), l.Category, l.Location, l.Query,
			nullable(l.Email), nullable(l.Phone), now)
		if err != nil {
			return fmt.Errorf("insert lead %s: %w", l.URL, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	r.logger.Debug("Run saved", "run", run.ID, "leads", len(run.Leads))
	return nil
}

func (r *DuckDBRepo) ListLeads(ctx context.Context, f Filter) ([]model.Lead, error) {
	where, args := f.where()
	query := `SELECT name, url, snippet, category, location, query, email, phone
	          FROM leads` + where + ` ORDER BY created_at, run_id, position`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []model.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, *l)
	}
	return leads, rows.Err()
}

// GetLeadByURL returns the most recently stored lead for url, preferring one
// with contact details. It returns nil when nothing is stored.
func (r *DuckDBRepo) GetLeadByURL(ctx context.Context, url string) (*model.Lead, error) {
	query := `SELECT name, url, snippet, category, location, query, email, phone
	          FROM leads WHERE url = ?
	          ORDER BY (email IS NOT NULL OR phone IS NOT NULL) DESC, created_at DESC LIMIT 1`
	l, err := scanLead(r.db.QueryRowContext(ctx, query, url))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (r *DuckDBRepo) LatestRunID(ctx context.Context) (string, error) {
	var id string
	err := r.db.QueryRowContext(ctx, `SELECT id FROM runs ORDER BY started_at DESC LIMIT 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return id, err
}

// ExportCSV writes matching leads with a header row using DuckDB's COPY.
func (r *DuckDBRepo) ExportCSV(ctx context.Context, path string, f Filter) error {
	query := fmt.Sprintf(`
		COPY (
			SELECT name, url, snippet, category, location, query, email, phone
			FROM leads%s
			ORDER BY created_at, run_id, position
		) TO %s (HEADER, DELIMITER ',');`, f.whereLiteral(), quote(path))

	_, err := r.db.ExecContext(ctx, query)
	return err
}

// DeleteLeads refuses an empty filter so a typo cannot wipe the table.
func (r *DuckDBRepo) DeleteLeads(ctx context.Context, f Filter) (int64, error) {
	if f.IsZero() {
		return 0, fmt.Errorf("no filters provided")
	}
	where, args := f.where()
	res, err := r.db.ExecContext(ctx, "DELETE FROM leads"+where, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *DuckDBRepo) Close() error {
	return r.db.Close()
}

func (r *DuckDBRepo) GetDB() *sql.DB {
	return r.db
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLead(s scanner) (*model.Lead, error) {
	var l model.Lead
	var name, snippet, email, phone sql.NullString
	if err := s.Scan(&name, &l.URL, &snippet, &l.Category, &l.Location, &l.Query, &email, &phone); err != nil {
		return nil, err
	}
	l.Name = name.String
	l.Snippet = snippet.String
	l.Email = email.String
	l.Phone = phone.String
	return &l, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// where builds a parameterised WHERE clause.
func (f Filter) where() (string, []any) {
	var conds []string
	var args []any
	for _, c := range f.conditions() {
		conds = append(conds, c.expr+" ?")
		args = append(args, c.value)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// whereLiteral inlines values for statements that cannot take parameters (COPY).
func (f Filter) whereLiteral() string {
	var conds []string
	for _, c := range f.conditions() {
		conds = append(conds, c.expr+" "+quote(c.value))
	}
	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}

type condition struct {
	expr  string
	value string
}

func (f Filter) conditions() []condition {
	var cs []condition
	if f.RunID != "" {
		cs = append(cs, condition{"run_id =", f.RunID})
	}
	if f.Category != "" {
		cs = append(cs, condition{"lower(category) =", strings.ToLower(f.Category)})
	}
	if f.Location != "" {
		cs = append(cs, condition{"lower(location) LIKE", "%" + strings.ToLower(f.Location) + "%"})
	}
	if f.Name != "" {
		cs = append(cs, condition{"lower(coalesce(name, '')) LIKE", "%" + strings.ToLower(f.Name) + "%"})
	}
	if f.URL != "" {
		cs = append(cs, condition{"url =", f.URL})
	}
	return cs
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
