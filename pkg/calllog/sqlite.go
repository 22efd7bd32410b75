package calllog

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS api_calls (
	id          TEXT PRIMARY KEY,
	called_at   TIMESTAMP NOT NULL,
	api         TEXT NOT NULL,
	endpoint    TEXT NOT NULL,
	status      INTEGER NOT NULL,
	duration_ms INTEGER NOT NULL,
	error       TEXT
);
CREATE INDEX IF NOT EXISTS idx_api_calls_called_at ON api_calls(called_at);
CREATE INDEX IF NOT EXISTS idx_api_calls_api ON api_calls(api);
`

// SQLiteStore persists call records in a SQLite database. WAL mode keeps the
// async writer from blocking readers.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore opens (creating if needed) the database at path and applies
// the schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create call log directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open call log database: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA busy_timeout=5000;",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to configure call log database: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create call log schema: %w", err)
	}

	logger := slog.Default().With("component", "calllog.sqlite")
	logger.Info("call log opened", "path", path)

	return &SQLiteStore{db: db, logger: logger}, nil
}

func (s *SQLiteStore) Insert(ctx context.Context, record *Record) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO api_calls (id, called_at, api, endpoint, status, duration_ms, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.CalledAt, record.API, record.Endpoint,
		record.Status, record.DurationMS, nullable(record.Error),
	)
	if err != nil {
		return fmt.Errorf("failed to insert call record: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]*Record, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, called_at, api, endpoint, status, duration_ms, error
		 FROM api_calls ORDER BY called_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query call records: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		var r Record
		var errVal sql.NullString
		if err := rows.Scan(&r.ID, &r.CalledAt, &r.API, &r.Endpoint, &r.Status, &r.DurationMS, &errVal); err != nil {
			return nil, fmt.Errorf("failed to scan call record: %w", err)
		}
		r.Error = errVal.String
		records = append(records, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read call records: %w", err)
	}
	return records, nil
}

func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM api_calls`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count call records: %w", err)
	}
	return count, nil
}

func (s *SQLiteStore) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM api_calls WHERE called_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune call records: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to prune call records: %w", err)
	}
	return deleted, nil
}

func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close call log database: %w", err)
	}
	return nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
