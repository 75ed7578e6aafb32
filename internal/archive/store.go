// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive keeps a write-only history of digest runs in SQLite. The
// pipeline never reads it back: it exists for the history command and for
// auditing what was delivered, and does not influence paper selection.
package archive

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/paper-digest/pkg/types"
)

const defaultLimit = 20

// Store manages the run history database.
type Store struct {
	db *sql.DB
}

// Run is one recorded invocation.
type Run struct {
	ID          string    `json:"id"`
	TargetDate  string    `json:"target_date"`
	StartedAt   time.Time `json:"started_at"`
	Fetched     int       `json:"fetched"`
	Dropped     int       `json:"dropped"`
	Duplicates  int       `json:"duplicates"`
	OutOfWindow int       `json:"out_of_window"`
	Total       int       `json:"total"`
	Shown       int       `json:"shown"`
	Delivered   bool      `json:"delivered"`
	StatusCode  int       `json:"status_code"`
	Summary     string    `json:"summary"`
}

// Paper is one paper shown in a recorded run.
type Paper struct {
	RunID   string `json:"run_id"`
	Rank    int    `json:"rank"`
	ArxivID string `json:"arxiv_id,omitempty"`
	Title   string `json:"title"`
	Score   int    `json:"score"`
	Link    string `json:"link"`
}

// Open opens or creates the archive database at path and creates the schema
// if it does not exist.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating archive directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
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
			target_date TEXT NOT NULL,
			started_at TEXT NOT NULL,
			fetched INTEGER,
			dropped INTEGER,
			duplicates INTEGER,
			out_of_window INTEGER,
			total INTEGER,
			shown INTEGER,
			delivered INTEGER,
			status_code INTEGER,
			summary TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS run_papers (
			run_id TEXT NOT NULL REFERENCES runs(id),
			rank INTEGER NOT NULL,
			arxiv_id TEXT,
			title TEXT,
			score INTEGER,
			link TEXT,
			PRIMARY KEY (run_id, rank)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores a run and the papers it showed in one transaction.
func (s *Store) Record(ctx context.Context, run Run, papers []types.ScoredRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	query, args, err := sq.Insert("runs").
		Columns("id", "target_date", "started_at", "fetched", "dropped", "duplicates",
			"out_of_window", "total", "shown", "delivered", "status_code", "summary").
		Values(run.ID, run.TargetDate, run.StartedAt.UTC().Format(time.RFC3339Nano), run.Fetched, run.Dropped,
			run.Duplicates, run.OutOfWindow, run.Total, run.Shown, run.Delivered, run.StatusCode, run.Summary).
		ToSql()
	if err != nil {
		return fmt.Errorf("building run insert: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	if len(papers) > 0 {
		ins := sq.Insert("run_papers").Columns("run_id", "rank", "arxiv_id", "title", "score", "link")
		for i, p := range papers {
			ins = ins.Values(run.ID, i+1, p.ArxivID, p.Title, p.Score, p.Link)
		}
		query, args, err := ins.ToSql()
		if err != nil {
			return fmt.Errorf("building paper insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("inserting papers: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing run: %w", err)
	}
	return nil
}

// Recent returns up to limit runs, newest first. A limit of zero or less
// uses the default of 20.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	query, args, err := sq.Select("id", "target_date", "started_at", "fetched", "dropped", "duplicates",
		"out_of_window", "total", "shown", "delivered", "status_code", "summary").
		From("runs").
		OrderBy("started_at DESC", "id").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r         Run
			startedAt string
		)
		if err := rows.Scan(&r.ID, &r.TargetDate, &startedAt, &r.Fetched, &r.Dropped, &r.Duplicates,
			&r.OutOfWindow, &r.Total, &r.Shown, &r.Delivered, &r.StatusCode, &r.Summary); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if t, err := time.Parse(time.RFC3339Nano, startedAt); err == nil {
			r.StartedAt = t
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Papers returns the papers recorded for a run in rank order.
func (s *Store) Papers(ctx context.Context, runID string) ([]Paper, error) {
	query, args, err := sq.Select("run_id", "rank", "arxiv_id", "title", "score", "link").
		From("run_papers").
		Where(sq.Eq{"run_id": runID}).
		OrderBy("rank").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying papers: %w", err)
	}
	defer rows.Close()

	var papers []Paper
	for rows.Next() {
		var p Paper
		if err := rows.Scan(&p.RunID, &p.Rank, &p.ArxivID, &p.Title, &p.Score, &p.Link); err != nil {
			return nil, fmt.Errorf("scanning paper: %w", err)
		}
		papers = append(papers, p)
	}
	return papers, rows.Err()
}
