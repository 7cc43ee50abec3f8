// Package store opens the SQLite database holding the contact inbox,
// visitor metrics and demo launch counts.
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS visitors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		hashed_ip TEXT NOT NULL,
		user_agent TEXT,
		path TEXT,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS visitors_timestamp ON visitors (timestamp)`,
	`CREATE TABLE IF NOT EXISTS contact_messages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		subject TEXT,
		message TEXT NOT NULL,
		hashed_ip TEXT,
		delivered INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS demo_launches (
		kind TEXT PRIMARY KEY,
		launches INTEGER NOT NULL DEFAULT 0,
		last_launched DATETIME
	)`,
}

// Open opens (creating if needed) the database at path and applies the
// schema. Use ":memory:" for a throwaway database.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// SQLite allows a single writer
	db.SetMaxOpenConns(1)

	if err := Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate creates any missing tables.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
