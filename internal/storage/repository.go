package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	_ "modernc.org/sqlite"
)

// Visit records one resolved country selection.
type Visit struct {
	Country   string
	Code      string
	VisitedAt time.Time
}

// Preferences are the display settings kept between sessions.
// An empty Charset means none was stored and the configured one applies.
type Preferences struct {
	Charset    string
	AutoRotate bool
}

func DefaultPreferences() Preferences {
	return Preferences{AutoRotate: true}
}

type Repository struct {
	db *sql.DB
}

func NewRepository(path string) (*Repository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *Repository) Init(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS visits (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  country TEXT NOT NULL,
  code TEXT NOT NULL,
  visited_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_visits_visited_at ON visits(visited_at);
CREATE TABLE IF NOT EXISTS preferences (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL
);
`
	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (r *Repository) RecordVisit(ctx context.Context, visit Visit) error {
	at := visit.VisitedAt
	if at.IsZero() {
		at = time.Now()
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO visits (country, code, visited_at)
VALUES (?, ?, ?)
`, visit.Country, visit.Code, at.UnixNano())
	if err != nil {
		return fmt.Errorf("save visit %q: %w", visit.Country, err)
	}
	return nil
}

// RecentVisits lists the latest visit per country, newest first.
func (r *Repository) RecentVisits(ctx context.Context, limit int) ([]Visit, error) {
	if limit < 1 {
		limit = 5
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT country, code, MAX(visited_at) AS last_visit
FROM visits
GROUP BY country, code
ORDER BY last_visit DESC
LIMIT ?
`, limit)
	if err != nil {
		return nil, fmt.Errorf("query visits: %w", err)
	}
	defer rows.Close()

	visits := make([]Visit, 0, limit)
	for rows.Next() {
		var visit Visit
		var visitedAt int64
		if err := rows.Scan(&visit.Country, &visit.Code, &visitedAt); err != nil {
			return nil, fmt.Errorf("scan visit: %w", err)
		}
		visit.VisitedAt = time.Unix(0, visitedAt).UTC()
		visits = append(visits, visit)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return visits, nil
}

func (r *Repository) LoadPreferences(ctx context.Context) (Preferences, error) {
	prefs := DefaultPreferences()

	var charset string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM preferences WHERE key = 'charset'`).Scan(&charset)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return prefs, fmt.Errorf("load charset preference: %w", err)
	default:
		prefs.Charset = charset
	}

	var autoRotate string
	err = r.db.QueryRowContext(ctx, `SELECT value FROM preferences WHERE key = 'auto_rotate'`).Scan(&autoRotate)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return prefs, fmt.Errorf("load auto_rotate preference: %w", err)
	default:
		v, perr := strconv.ParseBool(autoRotate)
		if perr != nil {
			return prefs, fmt.Errorf("parse auto_rotate preference %q: %w", autoRotate, perr)
		}
		prefs.AutoRotate = v
	}
	return prefs, nil
}

func (r *Repository) SavePreferences(ctx context.Context, prefs Preferences) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO preferences (key, value)
VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value=excluded.value
`)
	if err != nil {
		return fmt.Errorf("prepare preference statement: %w", err)
	}
	defer stmt.Close()

	values := [][2]string{
		{"charset", prefs.Charset},
		{"auto_rotate", strconv.FormatBool(prefs.AutoRotate)},
	}
	for _, kv := range values {
		if _, err := stmt.ExecContext(ctx, kv[0], kv[1]); err != nil {
			return fmt.Errorf("save preference %s: %w", kv[0], err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
