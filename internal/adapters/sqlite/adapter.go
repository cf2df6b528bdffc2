// Package sqlite provides a SQLite-backed implementation of the OAuth state store port.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // Import the driver anonymously

	"github.com/ewilliams-labs/stalify/internal/core/ports"
)

// Adapter implements ports.StateStore for SQLite
type Adapter struct {
	db *sql.DB
}

var _ ports.StateStore = (*Adapter)(nil)

// NewAdapter creates a connection and runs the schema migration
func NewAdapter(storagePath string) (*Adapter, error) {
	db, err := sql.Open("sqlite3", storagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}
	// One connection: SQLite serialises writers and ":memory:" is per connection.
	db.SetMaxOpenConns(1)

	// Verify connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}

	adapter := &Adapter{db: db}

	if err := adapter.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return adapter, nil
}

// Close ensures the DB connection is closed gracefully
func (a *Adapter) Close() error {
	return a.db.Close()
}

// Put records state until expiresAt. Rows already expired at now are purged
// on the way.
func (a *Adapter) Put(ctx context.Context, state string, expiresAt, now time.Time) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM oauth_states WHERE expires_at <= ?", now.UnixMilli()); err != nil {
		return fmt.Errorf("failed to purge expired states: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO oauth_states (state, expires_at) VALUES (?, ?)
		ON CONFLICT(state) DO UPDATE SET expires_at=excluded.expires_at;
	`, state, expiresAt.UnixMilli()); err != nil {
		return fmt.Errorf("failed to save oauth state: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("transaction commit failed: %w", err)
	}
	return nil
}

// Consume deletes state, failing with ports.ErrInvalidState when it is
// unknown or expired at now. A state can be consumed once.
func (a *Adapter) Consume(ctx context.Context, state string, now time.Time) error {
	res, err := a.db.ExecContext(ctx,
		"DELETE FROM oauth_states WHERE state = ? AND expires_at > ?",
		state, now.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to consume oauth state: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to consume oauth state: %w", err)
	}
	if n == 0 {
		return ports.ErrInvalidState
	}
	return nil
}

// Pending reports how many unexpired states are outstanding at now.
func (a *Adapter) Pending(ctx context.Context, now time.Time) (int, error) {
	var n int
	row := a.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM oauth_states WHERE expires_at > ?", now.UnixMilli())
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count oauth states: %w", err)
	}
	return n, nil
}

func (a *Adapter) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS oauth_states (
		state TEXT PRIMARY KEY,
		expires_at INTEGER NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_oauth_states_expires_at ON oauth_states (expires_at);
	`
	if _, err := a.db.Exec(query); err != nil {
		return err
	}
	return nil
}
