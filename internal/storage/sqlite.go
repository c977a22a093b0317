package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"help2postman/internal/parser"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteStore struct {
	db *sql.DB
}

var _ SnapshotStore = (*SQLiteStore)(nil)

// NewSQLiteStore creates or opens a SQLite database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			help_url TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			section_count INTEGER,
			endpoint_count INTEGER
		);`,
		`CREATE TABLE IF NOT EXISTS endpoints (
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			section_pos INTEGER,
			section TEXT,
			pos INTEGER,
			method TEXT,
			endpoint TEXT,
			description TEXT,
			href TEXT,
			PRIMARY KEY (run_id, section_pos, pos)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_url ON runs(help_url, id);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) SaveSnapshot(ctx context.Context, helpURL string, sections []parser.Section) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (help_url, created_at, section_count, endpoint_count) VALUES (?, ?, ?, ?)`,
		helpURL, time.Now().UTC().UnixMilli(), len(sections), parser.CountEndpoints(sections))
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO endpoints (run_id, section_pos, section, pos, method, endpoint, description, href)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for si, sec := range sections {
		for ei, ep := range sec.Endpoints {
			if _, err := stmt.ExecContext(ctx, runID, si, sec.Name, ei, ep.Method, ep.Path, ep.Description, ep.Href); err != nil {
				return 0, fmt.Errorf("failed to insert endpoint: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return runID, nil
}

func (s *SQLiteStore) LatestSnapshot(ctx context.Context, helpURL string) (*Snapshot, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, help_url, created_at, section_count, endpoint_count
		FROM runs WHERE help_url = ? ORDER BY id DESC LIMIT 1
	`, helpURL)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT section_pos, section, method, endpoint, description, href
		FROM endpoints WHERE run_id = ? ORDER BY section_pos, pos
	`, run.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to query endpoints: %w", err)
	}
	defer rows.Close()

	snap := &Snapshot{Run: run}
	lastPos := -1
	for rows.Next() {
		var pos int
		var name string
		var ep parser.Endpoint
		if err := rows.Scan(&pos, &name, &ep.Method, &ep.Path, &ep.Description, &ep.Href); err != nil {
			return nil, fmt.Errorf("failed to scan endpoint: %w", err)
		}
		if pos != lastPos {
			snap.Sections = append(snap.Sections, parser.Section{Name: name})
			lastPos = pos
		}
		last := &snap.Sections[len(snap.Sections)-1]
		last.Endpoints = append(last.Endpoints, ep)
	}
	return snap, rows.Err()
}

func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, help_url, created_at, section_count, endpoint_count
		FROM runs ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(r rowScanner) (Run, error) {
	var run Run
	var created int64
	if err := r.Scan(&run.ID, &run.HelpURL, &created, &run.SectionCount, &run.EndpointCount); err != nil {
		return Run{}, err
	}
	run.CreatedAt = time.UnixMilli(created).UTC()
	return run, nil
}
