// Package storage provides SQLite-based persistence for run history prefs,
// simulation sessions and finished runs.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-runner/internal/history"
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// Store is the persistent backend of the run history.
var _ history.Prefs = (*Store)(nil)

// Session is one invocation of the simulator.
type Session struct {
	ID        string
	Seed      int64
	StartedAt time.Time
}

// RunEntry is the outcome of one simulated run.
type RunEntry struct {
	ID        int64
	SessionID string
	Distance  float64
	Ticks     int
	PeakTier  string
	EndReason string // "collision", "max_ticks", "cancelled"
	CreatedAt time.Time
}

// RunStats contains aggregated statistics over all runs.
type RunStats struct {
	Runs         int
	BestDistance float64
	AvgDistance  float64
	LastPlayed   time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS prefs (
			key TEXT PRIMARY KEY,
			int_value INTEGER,
			float_value REAL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			seed INTEGER NOT NULL,
			started_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			distance REAL NOT NULL,
			ticks INTEGER NOT NULL DEFAULT 0,
			peak_tier TEXT NOT NULL,
			end_reason TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_session ON runs(session_id);
		CREATE INDEX IF NOT EXISTS idx_runs_top ON runs(distance DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// parseTime converts a DATETIME column into time.Time.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// SetFloat stores a float pref.
func (s *Store) SetFloat(key string, v float64) error {
	_, err := s.db.Exec(
		`INSERT INTO prefs (key, int_value, float_value) VALUES (?, NULL, ?)
		 ON CONFLICT(key) DO UPDATE SET
		   int_value = NULL,
		   float_value = excluded.float_value,
		   updated_at = CURRENT_TIMESTAMP`,
		key, v,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save pref %s: %w", key, err)
	}
	return nil
}

// SetInt stores an int pref.
func (s *Store) SetInt(key string, v int) error {
	_, err := s.db.Exec(
		`INSERT INTO prefs (key, int_value, float_value) VALUES (?, ?, NULL)
		 ON CONFLICT(key) DO UPDATE SET
		   int_value = excluded.int_value,
		   float_value = NULL,
		   updated_at = CURRENT_TIMESTAMP`,
		key, v,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save pref %s: %w", key, err)
	}
	return nil
}

// GetFloat returns a float pref or history.ErrKeyNotFound.
func (s *Store) GetFloat(key string) (float64, error) {
	var v sql.NullFloat64
	err := s.db.QueryRow("SELECT float_value FROM prefs WHERE key = ?", key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !v.Valid) {
		return 0, fmt.Errorf("storage: pref %s: %w", key, history.ErrKeyNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query pref %s: %w", key, err)
	}
	return v.Float64, nil
}

// GetInt returns an int pref or history.ErrKeyNotFound.
func (s *Store) GetInt(key string) (int, error) {
	var v sql.NullInt64
	err := s.db.QueryRow("SELECT int_value FROM prefs WHERE key = ?", key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !v.Valid) {
		return 0, fmt.Errorf("storage: pref %s: %w", key, history.ErrKeyNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query pref %s: %w", key, err)
	}
	return int(v.Int64), nil
}

// HasKey reports whether a pref exists.
func (s *Store) HasKey(key string) (bool, error) {
	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM prefs WHERE key = ?", key).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("storage: cannot query pref %s: %w", key, err)
	}
	return n > 0, nil
}

// DeleteAll removes every pref. Sessions and runs are kept.
func (s *Store) DeleteAll() error {
	if _, err := s.db.Exec("DELETE FROM prefs"); err != nil {
		return fmt.Errorf("storage: cannot clear prefs: %w", err)
	}
	return nil
}

// StartSession records a new simulator session and returns its ID.
func (s *Store) StartSession(seed int64) (string, error) {
	id := uuid.NewString()
	if _, err := s.db.Exec("INSERT INTO sessions (id, seed) VALUES (?, ?)", id, seed); err != nil {
		return "", fmt.Errorf("storage: cannot start session: %w", err)
	}
	return id, nil
}

// SessionByID retrieves a session. Returns nil if it does not exist.
func (s *Store) SessionByID(id string) (*Session, error) {
	var sess Session
	var startedAt any
	err := s.db.QueryRow(
		"SELECT id, seed, started_at FROM sessions WHERE id = ?", id,
	).Scan(&sess.ID, &sess.Seed, &startedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query session: %w", err)
	}
	sess.StartedAt = parseTime(startedAt)
	return &sess, nil
}

// SessionCount returns the number of recorded sessions.
func (s *Store) SessionCount() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM sessions").Scan(&n); err != nil {
		return 0, fmt.Errorf("storage: cannot count sessions: %w", err)
	}
	return n, nil
}

// SaveRun records a finished run. Returns the ID of the inserted record.
func (s *Store) SaveRun(e RunEntry) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO runs (session_id, distance, ticks, peak_tier, end_reason)
		 VALUES (?, ?, ?, ?, ?)`,
		e.SessionID, e.Distance, e.Ticks, e.PeakTier, e.EndReason,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// TopRuns retrieves the longest runs, ordered by distance descending.
func (s *Store) TopRuns(limit int) ([]RunEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, session_id, distance, ticks, peak_tier, end_reason, created_at
		 FROM runs
		 ORDER BY distance DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var entries []RunEntry
	for rows.Next() {
		var e RunEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Distance, &e.Ticks, &e.PeakTier, &e.EndReason, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// GetRunStats retrieves aggregated statistics over all runs.
func (s *Store) GetRunStats() (*RunStats, error) {
	stats := &RunStats{}
	var lastPlayed any

	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(distance), 0), COALESCE(AVG(distance), 0), MAX(created_at)
		 FROM runs`,
	).Scan(&stats.Runs, &stats.BestDistance, &stats.AvgDistance, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get run stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)

	return stats, nil
}

// ClearRuns deletes all runs and sessions.
func (s *Store) ClearRuns() error {
	if _, err := s.db.Exec("DELETE FROM runs; DELETE FROM sessions;"); err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}
