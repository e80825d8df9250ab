// Package store handles SQLite persistence of input runs.
package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/verte-zerg/scoretally/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ErrRunNotFound is returned when a run id has no stored run.
var ErrRunNotFound = errors.New("run not found")

// Store wraps SQLite access for parsed input runs.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY,
			source_path TEXT NOT NULL,
			loaded_at TEXT NOT NULL,
			record_count INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS run_records (
			run_id INTEGER NOT NULL,
			seq INTEGER NOT NULL,
			name TEXT NOT NULL,
			score INTEGER,
			PRIMARY KEY (run_id, seq)
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertRun stores a parsed run and its records. A NULL score marks a missed test.
func (s *Store) InsertRun(ctx context.Context, run model.Run, records []model.Record) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (source_path, loaded_at, record_count) VALUES (?, ?, ?)`,
		run.SourcePath,
		run.LoadedAt.Format(time.RFC3339Nano),
		len(records),
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if len(records) > 0 {
		var stmt *sql.Stmt
		stmt, err = tx.PrepareContext(ctx,
			`INSERT INTO run_records (run_id, seq, name, score) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return 0, err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for i, rec := range records {
			var score sql.NullInt64
			if r, ok := rec.(model.NamedScore); ok {
				score = sql.NullInt64{Int64: r.Score, Valid: true}
			}
			if _, err = stmt.ExecContext(ctx, id, i, rec.PersonName(), score); err != nil {
				return 0, err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// ListRuns returns stored runs, newest first. A limit <= 0 returns all runs.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]model.Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source_path, loaded_at, record_count
		FROM runs
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var runs []model.Run
	for rows.Next() {
		var run model.Run
		var loadedAt string
		if err := rows.Scan(&run.ID, &run.SourcePath, &loadedAt, &run.RecordCount); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, loadedAt)
		if err != nil {
			return nil, err
		}
		run.LoadedAt = parsed
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}

// ListRecords returns the records of a run in their original order.
func (s *Store) ListRecords(ctx context.Context, runID int64) ([]model.Record, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM runs WHERE id = ?`, runID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT name, score FROM run_records WHERE run_id = ? ORDER BY seq ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	records := []model.Record{}
	for rows.Next() {
		var name string
		var score sql.NullInt64
		if err := rows.Scan(&name, &score); err != nil {
			return nil, err
		}
		if score.Valid {
			records = append(records, model.NamedScore{Name: name, Score: score.Int64})
		} else {
			records = append(records, model.NameOnly{Name: name})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
