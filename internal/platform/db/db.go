// internal/platform/db/db.go
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Open connects using the configured driver. Supported drivers are
// "postgres" (lib/pq) and "sqlite" (modernc, CGO-free).
func Open(driver, dsn string) (*sql.DB, error) {
	switch driver {
	case "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("db: unsupported driver %q", driver)
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(30 * time.Minute)
	if driver == "sqlite" {
		// sqlite serializes writers; a single connection avoids
		// SQLITE_BUSY under the HTTP surface.
		conn.SetMaxOpenConns(1)
	}

	return conn, nil
}

// Migrate creates the schema when it does not exist yet. The DDL is
// kept portable between postgres and sqlite.
func Migrate(ctx context.Context, conn *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS items (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			creator TEXT NOT NULL,
			category TEXT NOT NULL,
			borrowed BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS members (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			fine_balance DOUBLE PRECISION NOT NULL DEFAULT 0,
			password_hash TEXT NOT NULL,
			salt TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS loans (
			id TEXT PRIMARY KEY,
			item_id TEXT NOT NULL,
			member_id TEXT NOT NULL,
			borrowed_on TIMESTAMP NOT NULL,
			due_on TIMESTAMP NOT NULL,
			active BOOLEAN NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS loans_member_active ON loans (member_id, active)`,
	}

	for _, stmt := range stmts {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate schema: %w", err)
		}
	}
	return nil
}
