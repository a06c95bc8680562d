package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/san-kum/relsim/internal/relativity"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
  id         TEXT PRIMARY KEY,
  name       TEXT NOT NULL,
  mode       TEXT NOT NULL,
  created_at INTEGER NOT NULL,
  outcome    TEXT NOT NULL
)`

// SQLiteStore keeps runs in a single SQLite file.
type SQLiteStore struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// OpenSQLite opens (creating if needed) the run database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	s := &SQLiteStore{sqlDB: sqlDB}
	if err := s.Init(); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) Init() error {
	if _, err := s.sqlDB.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *SQLiteStore) Save(ctx context.Context, name string, out *relativity.Outcome) (string, error) {
	if out == nil {
		return "", fmt.Errorf("outcome is required")
	}
	payload, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	id := newRunID(out.Mode)
	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO runs (id, name, mode, created_at, outcome) VALUES (?, ?, ?, ?, ?)`,
		id, name, string(out.Mode), toMillis(time.Now()), string(payload),
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return id, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]Run, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, name, created_at, outcome FROM runs ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	runs := make([]Run, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

func (s *SQLiteStore) Load(ctx context.Context, id string) (*Run, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, name, created_at, outcome FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return run, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (*Run, error) {
	var (
		run     Run
		created int64
		payload string
	)
	if err := sc.Scan(&run.ID, &run.Name, &created, &payload); err != nil {
		return nil, err
	}
	run.Timestamp = fromMillis(created)
	run.Outcome = &relativity.Outcome{}
	if err := json.Unmarshal([]byte(payload), run.Outcome); err != nil {
		return nil, fmt.Errorf("decode run %s: %w", run.ID, err)
	}
	return &run, nil
}
