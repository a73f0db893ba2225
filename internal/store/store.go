// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store archives enrichment runs in a SQLite database so results
// and manual-review queues stay queryable after the output files are gone.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/affiliation-engine/internal/enrich"
	"github.com/pdiddy/affiliation-engine/pkg/types"
)

// Store manages the run-archive SQLite database.
type Store struct {
	db *sql.DB
}

// Run summarizes one archived enrichment run.
type Run struct {
	ID        string
	CreatedAt time.Time
	InputFile string
	Total     int
	Yes       int
	No        int
	Manual    int
}

// Open opens or creates the archive database at path and ensures the
// schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			input_file TEXT,
			total INTEGER NOT NULL,
			yes INTEGER NOT NULL,
			no INTEGER NOT NULL,
			manual INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS results (
			run_id TEXT NOT NULL REFERENCES runs(id),
			row_index INTEGER NOT NULL,
			doi TEXT,
			title TEXT,
			resolved_title TEXT,
			authors TEXT,
			institutions TEXT,
			countries TEXT,
			verdict TEXT NOT NULL,
			url TEXT,
			processed INTEGER NOT NULL DEFAULT 1,
			PRIMARY KEY (run_id, row_index)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_results_verdict ON results(run_id, verdict)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// SaveRun archives one enrichment run: a summary row plus every flattened
// result row, in a single transaction. Returns the stored run summary with
// its generated identifier.
func (s *Store) SaveRun(ctx context.Context, inputFile string, inputs []types.InputRecord, results []types.ResultRecord) (Run, error) {
	if len(inputs) != len(results) {
		return Run{}, fmt.Errorf("inputs and results misaligned: %d vs %d rows", len(inputs), len(results))
	}

	rows, _ := enrich.Report(inputs, results)
	summary := enrich.Summarize(results)

	run := Run{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		InputFile: inputFile,
		Total:     summary.Total,
		Yes:       summary.Yes,
		No:        summary.No,
		Manual:    summary.Manual,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, input_file, total, yes, no, manual)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.CreatedAt.Format(time.RFC3339), run.InputFile,
		run.Total, run.Yes, run.No, run.Manual)
	if err != nil {
		return Run{}, fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO results (run_id, row_index, doi, title, resolved_title,
		                      authors, institutions, countries, verdict, url, processed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return Run{}, fmt.Errorf("preparing result insert: %w", err)
	}
	defer stmt.Close()

	for i, row := range rows {
		_, err := stmt.ExecContext(ctx,
			run.ID, row.RowIndex, row.DOI, row.Title, row.ResolvedTitle,
			row.Authors, row.Institutions, row.Countries, string(row.Verdict), row.URL,
			results[i].Processed)
		if err != nil {
			return Run{}, fmt.Errorf("inserting result row %d: %w", row.RowIndex, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("committing run: %w", err)
	}
	return run, nil
}

// ListRuns returns archived runs, most recent first.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, input_file, total, yes, no, manual
		 FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var created string
		if err := rows.Scan(&r.ID, &created, &r.InputFile, &r.Total, &r.Yes, &r.No, &r.Manual); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if t, parseErr := time.Parse(time.RFC3339, created); parseErr == nil {
			r.CreatedAt = t
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// ManualReview returns the manual-review queue of a run, in row order.
func (s *Store) ManualReview(ctx context.Context, runID string) ([]types.ManualReviewEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT row_index, doi, title, processed FROM results
		 WHERE run_id = ? AND verdict = ?
		 ORDER BY row_index`,
		runID, string(types.VerdictManualReview))
	if err != nil {
		return nil, fmt.Errorf("querying manual review rows: %w", err)
	}
	defer rows.Close()

	var entries []types.ManualReviewEntry
	for rows.Next() {
		var rowIndex int
		var processed bool
		var e types.ManualReviewEntry
		if err := rows.Scan(&rowIndex, &e.DOI, &e.Title, &processed); err != nil {
			return nil, fmt.Errorf("scanning manual review row: %w", err)
		}
		e.RowNumber = rowIndex + 1
		e.Reason = enrich.ManualReviewReason
		if !processed {
			e.Reason = enrich.InterruptedReason
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
