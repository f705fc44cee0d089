// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package journal persists launcher run records in a SQLite database.
// Implements: prd004-journal (R1-R4);
//
//	docs/ARCHITECTURE § Run Journal.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/pdf2docx-mcp/pkg/types"
)

// Journal stores launch and setup run histories.
type Journal struct {
	db *sql.DB
}

// Open opens or creates the journal database at path. It creates the
// parent directory and the schema if they do not exist (R1.1, R1.2).
func Open(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating journal directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}

	j := &Journal{db: db}
	if err := j.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return j, nil
}

// Close releases the database connection.
func (j *Journal) Close() error {
	return j.db.Close()
}

func (j *Journal) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			mode TEXT NOT NULL,
			started_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS steps (
			run_id INTEGER NOT NULL REFERENCES runs(id),
			seq INTEGER NOT NULL,
			step TEXT NOT NULL,
			status TEXT NOT NULL,
			detail TEXT,
			duration_ms INTEGER,
			PRIMARY KEY (run_id, seq)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_steps_run_id ON steps(run_id)`,
	}

	for _, stmt := range statements {
		if _, err := j.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// AppendRun inserts a run and its steps in one transaction and returns
// the assigned run ID (R2.1, R2.2).
func (j *Journal) AppendRun(ctx context.Context, rec types.RunRecord) (int64, error) {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (mode, started_at) VALUES (?, ?)`,
		string(rec.Mode), rec.StartedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	for seq, step := range rec.Steps {
		if err := insertStep(ctx, tx, runID, seq, step); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// AppendStep adds one step to an existing run, after any steps already
// recorded (R2.3). Used for the spawn outcome, which is only known after
// the worker exits.
func (j *Journal) AppendStep(ctx context.Context, runID int64, step types.StepRecord) error {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var next int
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(seq), -1) + 1 FROM steps WHERE run_id = ?`, runID,
	).Scan(&next)
	if err != nil {
		return fmt.Errorf("finding next step sequence: %w", err)
	}

	if err := insertStep(ctx, tx, runID, next, step); err != nil {
		return err
	}
	return tx.Commit()
}

func insertStep(ctx context.Context, tx *sql.Tx, runID int64, seq int, step types.StepRecord) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO steps (run_id, seq, step, status, detail, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		runID, seq, string(step.Step), string(step.Status),
		step.Detail, step.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("inserting step %s: %w", step.Step, err)
	}
	return nil
}

// Recent returns the most recent runs, newest first, each with its steps
// in execution order (R3.1, R3.2).
func (j *Journal) Recent(ctx context.Context, limit int) ([]types.RunRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := j.db.QueryContext(ctx,
		`SELECT id, mode, started_at FROM runs ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []types.RunRecord
	for rows.Next() {
		var rec types.RunRecord
		var mode, started string
		if err := rows.Scan(&rec.ID, &mode, &started); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		rec.Mode = types.RunMode(mode)
		rec.StartedAt, err = time.Parse(time.RFC3339Nano, started)
		if err != nil {
			return nil, fmt.Errorf("parsing run %d start time: %w", rec.ID, err)
		}
		runs = append(runs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}

	for i := range runs {
		steps, err := j.runSteps(ctx, runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Steps = steps
	}
	return runs, nil
}

func (j *Journal) runSteps(ctx context.Context, runID int64) ([]types.StepRecord, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT step, status, detail, duration_ms FROM steps WHERE run_id = ? ORDER BY seq`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying steps for run %d: %w", runID, err)
	}
	defer rows.Close()

	var steps []types.StepRecord
	for rows.Next() {
		var rec types.StepRecord
		var step, status string
		var durationMS int64
		if err := rows.Scan(&step, &status, &rec.Detail, &durationMS); err != nil {
			return nil, fmt.Errorf("scanning step: %w", err)
		}
		rec.Step = types.Step(step)
		rec.Status = types.StepStatus(status)
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		steps = append(steps, rec)
	}
	return steps, rows.Err()
}
