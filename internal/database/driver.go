package database

import (
	"context"
	"errors"
)

var (
	// ErrNotConnected is returned when a driver is used before Connect.
	ErrNotConnected = errors.New("not connected")

	// ErrClosed is returned when a driver is used after Close.
	ErrClosed = errors.New("session closed")
)

// Driver defines the interface for database operations.
// A Driver holds at most one session and is not safe for concurrent use.
type Driver interface {
	// Connect establishes a session with the database.
	Connect(ctx context.Context, dsn string) error

	// Close releases the session. Calling Close more than once is a no-op.
	Close() error

	// Ping checks if the session is alive.
	Ping(ctx context.Context) error

	// GetColumns returns all columns for a table or view, resolved the way
	// the name would be in a query. An unknown relation yields no columns.
	GetColumns(ctx context.Context, relation string) ([]Column, error)

	// CountRows returns the exact row count of a table or view.
	CountRows(ctx context.Context, relation string) (int64, error)

	// ExecuteQuery runs a SQL query and materializes every row.
	ExecuteQuery(ctx context.Context, query string) (*QueryResult, error)

	// DatabaseName returns the name of the connected database.
	DatabaseName() string
}
