package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/nikolayk812/storefront-demo/internal/domain"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS cart_slots
(
    slot_key   TEXT PRIMARY KEY,
    payload    BLOB    NOT NULL,
    updated_at INTEGER NOT NULL
);`

// SQLiteCartSlot persists slots in a local SQLite file.
type SQLiteCartSlot struct {
	sqlDB *sql.DB
}

func OpenSQLiteCartSlot(ctx context.Context, path string) (*SQLiteCartSlot, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is empty")
	}

	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("sqlDB.PingContext: %w", err)
	}
	if _, err := sqlDB.ExecContext(ctx, sqliteSchema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("sqlDB.ExecContext[schema]: %w", err)
	}

	return &SQLiteCartSlot{sqlDB: sqlDB}, nil
}

func (s *SQLiteCartSlot) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *SQLiteCartSlot) Ping(ctx context.Context) error {
	return s.sqlDB.PingContext(ctx)
}

func (s *SQLiteCartSlot) GetSlot(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, fmt.Errorf("key is empty")
	}

	var payload []byte
	err := s.sqlDB.QueryRowContext(ctx, `SELECT payload FROM cart_slots WHERE slot_key = ?`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlDB.QueryRowContext: %w", err)
	}

	return payload, nil
}

func (s *SQLiteCartSlot) PutSlot(ctx context.Context, key string, payload []byte) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO cart_slots (slot_key, payload, updated_at)
VALUES (?, ?, ?)
ON CONFLICT (slot_key) DO UPDATE
    SET payload    = excluded.payload,
        updated_at = excluded.updated_at`,
		key, payload, time.Now().UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("sqlDB.ExecContext: %w", err)
	}

	return nil
}

func (s *SQLiteCartSlot) DeleteSlot(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, fmt.Errorf("key is empty")
	}

	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM cart_slots WHERE slot_key = ?`, key)
	if err != nil {
		return false, fmt.Errorf("sqlDB.ExecContext: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("result.RowsAffected: %w", err)
	}

	return rowsAffected > 0, nil
}
