// Package history persists completed ranking runs to a local SQLite
// database so past results can be listed and re-examined. Each run stores
// its parameters plus the full per-node score vector.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

// ErrRunNotFound is returned when a run ID has no record in the store.
var ErrRunNotFound = errors.New("run not found")

// Method names recorded with each run.
const (
	MethodSurf = "surf"
	MethodMix  = "mix"
)

// schema contains the DDL executed on open. Using IF NOT EXISTS makes it
// safe to run on every startup.
const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id         TEXT PRIMARY KEY,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    method     TEXT NOT NULL,
    graph_path TEXT NOT NULL,
    nodes      INTEGER NOT NULL,
    steps      INTEGER NOT NULL,
    damping    REAL NOT NULL,
    seed       INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS scores (
    run_id TEXT NOT NULL REFERENCES runs(id),
    node   INTEGER NOT NULL,
    score  REAL NOT NULL,
    PRIMARY KEY (run_id, node)
);
`

// Run describes one recorded ranking run. Scores is indexed by node and
// is populated by Record and Scores but left nil by List.
type Run struct {
	ID        string
	CreatedAt time.Time
	Method    string
	GraphPath string
	Nodes     int
	Steps     int
	Damping   float64
	Seed      int64
	Scores    []float64
}

// Store is a SQLite-backed run history in WAL mode.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) a SQLite database at dbPath, enables WAL mode
// and busy timeout, and creates the schema tables if they do not exist.
// Parent directories are created as needed.
func Open(ctx context.Context, dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("history: create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("history: open database: %w", err)
	}

	// Limit to one connection. SQLite only supports a single writer; using
	// one connection avoids SQLITE_BUSY contention between pooled
	// connections that each need their own PRAGMA setup.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: enable WAL mode: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: set busy timeout: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Record inserts a run and its score vector in a single transaction and
// returns the run ID. If run.ID is empty a new UUID is assigned.
func (s *Store) Record(ctx context.Context, run Run) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("history: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	const insertRun = `
		INSERT INTO runs (id, method, graph_path, nodes, steps, damping, seed)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, insertRun,
		run.ID, run.Method, run.GraphPath, run.Nodes, run.Steps, run.Damping, run.Seed); err != nil {
		return "", fmt.Errorf("history: insert run %s: %w", run.ID, err)
	}

	const insertScore = `INSERT INTO scores (run_id, node, score) VALUES (?, ?, ?)`
	stmt, err := tx.PrepareContext(ctx, insertScore)
	if err != nil {
		return "", fmt.Errorf("history: prepare score insert: %w", err)
	}
	defer stmt.Close()

	for node, score := range run.Scores {
		if _, err := stmt.ExecContext(ctx, run.ID, node, score); err != nil {
			return "", fmt.Errorf("history: insert score %s/%d: %w", run.ID, node, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("history: commit run %s: %w", run.ID, err)
	}
	return run.ID, nil
}

// List returns the most recent runs, newest first, up to limit. Scores
// are not loaded; use Scores for the full vector of a single run.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	const q = `
		SELECT id, created_at, method, graph_path, nodes, steps, damping, seed
		FROM runs ORDER BY created_at DESC, id LIMIT ?`
	rows, err := s.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("history: list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.CreatedAt, &r.Method, &r.GraphPath,
			&r.Nodes, &r.Steps, &r.Damping, &r.Seed); err != nil {
			return nil, fmt.Errorf("history: scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: iterate runs: %w", err)
	}
	return runs, nil
}

// Get returns a single run including its score vector. Returns
// ErrRunNotFound if no run has the given ID.
func (s *Store) Get(ctx context.Context, runID string) (Run, error) {
	const q = `
		SELECT id, created_at, method, graph_path, nodes, steps, damping, seed
		FROM runs WHERE id = ?`
	var r Run
	err := s.db.QueryRowContext(ctx, q, runID).Scan(&r.ID, &r.CreatedAt,
		&r.Method, &r.GraphPath, &r.Nodes, &r.Steps, &r.Damping, &r.Seed)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return Run{}, fmt.Errorf("history: get run %s: %w", runID, err)
	}

	scores, err := s.scores(ctx, runID, r.Nodes)
	if err != nil {
		return Run{}, err
	}
	r.Scores = scores
	return r, nil
}

// scores loads the score vector for a run, indexed by node.
func (s *Store) scores(ctx context.Context, runID string, nodes int) ([]float64, error) {
	const q = `SELECT node, score FROM scores WHERE run_id = ? ORDER BY node`
	rows, err := s.db.QueryContext(ctx, q, runID)
	if err != nil {
		return nil, fmt.Errorf("history: load scores %s: %w", runID, err)
	}
	defer rows.Close()

	scores := make([]float64, nodes)
	for rows.Next() {
		var node int
		var score float64
		if err := rows.Scan(&node, &score); err != nil {
			return nil, fmt.Errorf("history: scan score: %w", err)
		}
		if node >= 0 && node < nodes {
			scores[node] = score
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: iterate scores: %w", err)
	}
	return scores, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("history: close: %w", err)
	}
	return nil
}
