// Package state persists completed site builds to a SQLite database under
// the build root, giving a queryable build history across runs.
package state

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"git.home.luguber.info/inful/docsmith/internal/manifest"
)

// BuildRecord is one persisted site build.
type BuildRecord struct {
	ID         string
	Timestamp  time.Time
	Status     string
	Projects   int
	Pages      int
	Touched    int
	DurationMS int64
}

// History is a SQLite-backed build history. Use ":memory:" for an in-memory
// database.
type History struct {
	db *sql.DB
	mu sync.Mutex
}

// OpenHistory opens (and initializes) the history database.
func OpenHistory(dbPath string) (*History, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}

	h := &History{db: db}
	if err := h.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize history schema: %w", err)
	}
	return h, nil
}

func (h *History) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS builds (
		id TEXT PRIMARY KEY,
		timestamp INTEGER NOT NULL,
		status TEXT NOT NULL,
		projects INTEGER NOT NULL,
		pages INTEGER NOT NULL,
		touched INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_builds_timestamp ON builds(timestamp);
	`
	_, err := h.db.Exec(schema)
	return err
}

// Record stores a completed build from its manifest.
func (h *History) Record(ctx context.Context, m *manifest.SiteManifest) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	pages, touched := 0, 0
	for _, pm := range m.Projects {
		pages += pm.Total
		touched += pm.Touched
	}

	_, err := h.db.ExecContext(ctx,
		"INSERT INTO builds (id, timestamp, status, projects, pages, touched, duration_ms) VALUES (?, ?, ?, ?, ?, ?, ?)",
		m.ID, m.Timestamp.Unix(), m.Status, len(m.Projects), pages, touched, m.DurationMS,
	)
	if err != nil {
		return fmt.Errorf("insert build record: %w", err)
	}
	return nil
}

// Recent returns the latest n builds, newest first.
func (h *History) Recent(ctx context.Context, n int) ([]BuildRecord, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	rows, err := h.db.QueryContext(ctx,
		"SELECT id, timestamp, status, projects, pages, touched, duration_ms FROM builds ORDER BY timestamp DESC, id DESC LIMIT ?", n)
	if err != nil {
		return nil, fmt.Errorf("query build records: %w", err)
	}
	defer rows.Close()

	var records []BuildRecord
	for rows.Next() {
		var r BuildRecord
		var ts int64
		if err := rows.Scan(&r.ID, &ts, &r.Status, &r.Projects, &r.Pages, &r.Touched, &r.DurationMS); err != nil {
			return nil, fmt.Errorf("scan build record: %w", err)
		}
		r.Timestamp = time.Unix(ts, 0).UTC()
		records = append(records, r)
	}
	return records, rows.Err()
}

// Close releases the database handle.
func (h *History) Close() error {
	return h.db.Close()
}
