// Package history keeps a SQLite record of past detection runs.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/harrison/unusedres/internal/models"
)

// DefaultListLimit is used when ListRuns is given a non-positive limit.
const DefaultListLimit = 20

// Run is one stored detection run.
type Run struct {
	ID              string
	ProjectPath     string
	StartedAt       time.Time
	Duration        time.Duration
	ResourceCount   int
	UsageCount      int
	UnusedCount     int
	UnusedBytes     uint64
	DiagnosticCount int
	Incomplete      bool
}

// Store manages the SQLite database of scan runs
type Store struct {
	db     *sql.DB
	dbPath string
	now    func() time.Time
}

// NewStore creates a new Store instance and initializes the database
func NewStore(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Every pooled connection would otherwise see its own empty database.
		db.SetMaxOpenConns(1)
	}

	// busy_timeout must be first so later statements wait on locks.
	pragmas := []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if err := execWithRetry(db, pragma, 5, 10*time.Millisecond); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	store := &Store{db: db, dbPath: dbPath, now: time.Now}
	if err := store.ApplyMigrations(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return store, nil
}

// execWithRetry executes a SQL statement with exponential backoff retry on lock errors.
func execWithRetry(db *sql.DB, stmt string, maxRetries int, baseDelay time.Duration) error {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		_, err := db.Exec(stmt)
		if err == nil {
			return nil
		}
		if !strings.Contains(err.Error(), "database is locked") {
			return err
		}
		lastErr = err
		time.Sleep(baseDelay * time.Duration(1<<attempt))
	}
	return lastErr
}

// Path returns the database location.
func (s *Store) Path() string {
	return s.dbPath
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// RecordRun stores report under a fresh run ID and returns that ID.
func (s *Store) RecordRun(ctx context.Context, projectPath string, report *models.DetectionReport) (string, error) {
	if report == nil {
		return "", fmt.Errorf("record run: nil report")
	}

	id := uuid.NewString()
	started := s.now().Add(-report.Duration).UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `INSERT INTO scan_runs
		(id, project_path, started_at, duration_ms, resource_count, usage_count, unused_count, unused_bytes, diagnostic_count, incomplete)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, projectPath, started.Format(time.RFC3339Nano), report.Duration.Milliseconds(),
		report.ResourceCount, report.UsageCount, len(report.Unused), int64(report.UnusedBytes),
		len(report.Diagnostics), report.Incomplete)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO unused_resources
		(run_id, name, path, is_container, size_bytes, position) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("prepare unused insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range report.Unused {
		if _, err := stmt.ExecContext(ctx, id, r.Name, r.Path, r.IsContainer, int64(r.SizeBytes), i); err != nil {
			return "", fmt.Errorf("insert unused resource %s: %w", r.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit run: %w", err)
	}
	return id, nil
}

// ListRuns returns the most recent runs recorded for projectPath, newest
// first. A database shared between projects only yields that project's runs.
func (s *Store) ListRuns(ctx context.Context, projectPath string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, project_path, started_at, duration_ms, resource_count,
		usage_count, unused_count, unused_bytes, diagnostic_count, incomplete
		FROM scan_runs WHERE project_path = ? ORDER BY started_at DESC, rowid DESC LIMIT ?`, projectPath, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r          Run
			started    string
			durationMS int64
			bytes      int64
		)
		if err := rows.Scan(&r.ID, &r.ProjectPath, &started, &durationMS, &r.ResourceCount,
			&r.UsageCount, &r.UnusedCount, &bytes, &r.DiagnosticCount, &r.Incomplete); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.StartedAt, err = time.Parse(time.RFC3339Nano, started)
		if err != nil {
			return nil, fmt.Errorf("parse started_at %q: %w", started, err)
		}
		r.Duration = time.Duration(durationMS) * time.Millisecond
		r.UnusedBytes = uint64(bytes)
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// UnusedForRun returns the unused resources stored for runID in report order.
func (s *Store) UnusedForRun(ctx context.Context, runID string) ([]models.ResourceInfo, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, path, is_container, size_bytes
		FROM unused_resources WHERE run_id = ? ORDER BY position ASC`, runID)
	if err != nil {
		return nil, fmt.Errorf("query unused resources: %w", err)
	}
	defer rows.Close()

	var out []models.ResourceInfo
	for rows.Next() {
		var (
			r    models.ResourceInfo
			size int64
		)
		if err := rows.Scan(&r.Name, &r.Path, &r.IsContainer, &size); err != nil {
			return nil, fmt.Errorf("scan unused resource: %w", err)
		}
		r.SizeBytes = uint64(size)
		out = append(out, r)
	}
	return out, rows.Err()
}
