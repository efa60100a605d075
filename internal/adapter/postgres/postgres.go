// Package postgres implements the domain repositories using PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// DB wraps a *sql.DB and implements the domain repository interfaces.
type DB struct {
	sql *sql.DB
}

// Open connects to PostgreSQL, pings, and runs migrations.
func Open(connStr string) (*DB, error) {
	s, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	s.SetMaxOpenConns(10)
	s.SetMaxIdleConns(5)
	s.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.PingContext(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}

	d := &DB{sql: s}
	if err := d.migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return d, nil
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

func (d *DB) migrate(ctx context.Context) error {
	stmts := []string{
		"CREATE TABLE IF NOT EXISTS users (uuid TEXT PRIMARY KEY, username VARCHAR(64) UNIQUE NOT NULL, password_hash TEXT NOT NULL);",
		"CREATE TABLE IF NOT EXISTS sessions (uuid TEXT PRIMARY KEY, user_uuid TEXT NOT NULL REFERENCES users(uuid) ON DELETE CASCADE, expiry TIMESTAMPTZ NOT NULL, token TEXT UNIQUE NOT NULL);",
		"CREATE INDEX IF NOT EXISTS idx_sessions_user_uuid ON sessions(user_uuid);",
		"CREATE TABLE IF NOT EXISTS entries (uuid TEXT PRIMARY KEY, user_uuid TEXT NOT NULL REFERENCES users(uuid) ON DELETE CASCADE, created TIMESTAMPTZ NOT NULL, timezone_offset INT NOT NULL, title VARCHAR(128) NOT NULL, body VARCHAR(2048) NOT NULL);",
		"CREATE INDEX IF NOT EXISTS idx_entries_user_uuid_created ON entries(user_uuid, created DESC);",
	}

	for _, stmt := range stmts {
		if _, err := d.sql.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
