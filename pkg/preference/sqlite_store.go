package preference

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLiteFactory keeps preferences in a single SQLite file, the way the
// mobile client keeps them on the device.
type SQLiteFactory struct {
	conn *sql.DB
}

type sqliteStore struct {
	conn   *sql.DB
	userID string
}

func NewSQLiteFactory(path string) (*SQLiteFactory, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create preference dir: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := conn.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("set wal mode: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS preferences (
		user_id TEXT NOT NULL,
		key TEXT NOT NULL,
		value TEXT NOT NULL,
		PRIMARY KEY (user_id, key)
	);`
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &SQLiteFactory{conn: conn}, nil
}

func (f *SQLiteFactory) Close() error {
	return f.conn.Close()
}

func (f *SQLiteFactory) ForUser(userID string) Store {
	return &sqliteStore{conn: f.conn, userID: userID}
}

func (s *sqliteStore) Get(ctx context.Context, key string) (string, bool, error) {
	var val string
	err := s.conn.QueryRowContext(ctx,
		"SELECT value FROM preferences WHERE user_id = ? AND key = ?", s.userID, key,
	).Scan(&val)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (s *sqliteStore) Set(ctx context.Context, key, value string) error {
	_, err := s.conn.ExecContext(ctx,
		"INSERT INTO preferences (user_id, key, value) VALUES (?, ?, ?) ON CONFLICT(user_id, key) DO UPDATE SET value = excluded.value",
		s.userID, key, value,
	)
	return err
}
