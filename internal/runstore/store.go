// Package runstore persists evaluation run summaries to SQLite so that
// extraction quality can be compared across runs.
package runstore

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id     TEXT PRIMARY KEY,
	scorer     TEXT NOT NULL,
	flags      TEXT NOT NULL DEFAULT '',
	started_at TEXT NOT NULL,
	files      INTEGER NOT NULL DEFAULT 0,
	tp         INTEGER NOT NULL DEFAULT 0,
	fp         INTEGER NOT NULL DEFAULT 0,
	fn         INTEGER NOT NULL DEFAULT 0,
	precision  REAL NOT NULL DEFAULT 0,
	recall     REAL NOT NULL DEFAULT 0,
	f1         REAL NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS run_files (
	run_id TEXT NOT NULL,
	file   TEXT NOT NULL,
	tp     INTEGER NOT NULL DEFAULT 0,
	fp     INTEGER NOT NULL DEFAULT 0,
	fn     INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (run_id, file)
);
`

// Run is one recorded evaluation run.
type Run struct {
	RunID     string    `db:"run_id"`
	Scorer    string    `db:"scorer"`
	Flags     string    `db:"flags"`
	StartedAt time.Time `db:"-"`
	Files     int       `db:"files"`
	TP        int       `db:"tp"`
	FP        int       `db:"fp"`
	FN        int       `db:"fn"`
	Precision float64   `db:"precision"`
	Recall    float64   `db:"recall"`
	F1        float64   `db:"f1"`
}

// FileRow is the per-file breakdown of one run.
type FileRow struct {
	RunID string
	File  string
	TP    int
	FP    int
	FN    int
}

type Store struct {
	db *sqlx.DB
}

func Open(path string) (*Store, error) {
	db, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// RecordRun saves a run summary and its per-file rows. Re-recording the
// same run ID replaces the previous rows.
func (s *Store) RecordRun(run Run, files []FileRow) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO runs (run_id, scorer, flags, started_at, files, tp, fp, fn, precision, recall, f1)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.Scorer, run.Flags, run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.Files, run.TP, run.FP, run.FN, run.Precision, run.Recall, run.F1,
	)
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	for _, f := range files {
		_, err := s.db.Exec(`INSERT OR REPLACE INTO run_files (run_id, file, tp, fp, fn) VALUES (?, ?, ?, ?, ?)`,
			run.RunID, f.File, f.TP, f.FP, f.FN)
		if err != nil {
			return fmt.Errorf("save run file %s: %w", f.File, err)
		}
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(limit int) ([]Run, error) {
	rows, err := s.db.Query(`SELECT run_id, scorer, flags, started_at, files, tp, fp, fn, precision, recall, f1
		FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Run
	for rows.Next() {
		var r Run
		var startedAt string
		if err := rows.Scan(&r.RunID, &r.Scorer, &r.Flags, &startedAt, &r.Files, &r.TP, &r.FP, &r.FN, &r.Precision, &r.Recall, &r.F1); err != nil {
			return nil, err
		}
		r.StartedAt, _ = time.Parse(time.RFC3339Nano, startedAt)
		out = append(out, r)
	}
	return out, rows.Err()
}

// ListRunFiles returns the per-file breakdown of one run.
func (s *Store) ListRunFiles(runID string) ([]FileRow, error) {
	rows, err := s.db.Query(`SELECT run_id, file, tp, fp, fn FROM run_files WHERE run_id = ? ORDER BY file`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []FileRow
	for rows.Next() {
		var f FileRow
		if err := rows.Scan(&f.RunID, &f.File, &f.TP, &f.FP, &f.FN); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
