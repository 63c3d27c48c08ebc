// Package archive keeps a local sqlite history of past runs so solved
// puzzles stay queryable after the per-run JSON artifacts pile up.
package archive

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"linkedgames/internal/solve"
)

const schema = `
CREATE TABLE IF NOT EXISTS results (
	run_id   TEXT NOT NULL,
	run_at   TEXT NOT NULL,
	game     TEXT NOT NULL,
	solved   INTEGER NOT NULL,
	kind     TEXT,
	detail   TEXT,
	solution TEXT,
	PRIMARY KEY (run_id, game)
);
CREATE INDEX IF NOT EXISTS idx_results_run_at ON results(run_at);
`

// Store is the run-history database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the archive at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create archive dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate archive: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// RecordBundle appends every result of a run. The whole bundle is inserted
// in one transaction so a run is either fully archived or not at all.
func (s *Store) RecordBundle(bundle solve.Bundle) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO results
		(run_id, run_at, game, solved, kind, detail, solution)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	runAt := bundle.RunAt.UTC().Format(time.RFC3339)
	for _, r := range bundle.Results {
		var kind, detail, solution any
		if r.Failure != nil {
			kind = string(r.Failure.Kind)
			detail = r.Failure.Detail
		}
		if r.Solution != nil {
			data, err := json.Marshal(r.Solution)
			if err != nil {
				return fmt.Errorf("marshal %s solution: %w", r.Game, err)
			}
			solution = string(data)
		}
		if _, err := stmt.Exec(bundle.RunID, runAt, r.Game.String(), boolToInt(r.Solved()), kind, detail, solution); err != nil {
			return fmt.Errorf("insert %s result: %w", r.Game, err)
		}
	}
	return tx.Commit()
}

// RunSummary aggregates one archived run.
type RunSummary struct {
	RunID  string
	RunAt  time.Time
	Solved int
	Failed int
}

// Runs lists the most recent runs, newest first.
func (s *Store) Runs(limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`SELECT run_id, run_at,
			SUM(solved), SUM(1 - solved)
		FROM results GROUP BY run_id, run_at
		ORDER BY run_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var sum RunSummary
		var runAt string
		if err := rows.Scan(&sum.RunID, &runAt, &sum.Solved, &sum.Failed); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339, runAt); err == nil {
			sum.RunAt = t
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
