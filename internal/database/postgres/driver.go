package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/joacominatel/rentalviz/internal/database"
)

const closeTimeout = 5 * time.Second

// Driver implements the database.Driver interface for PostgreSQL.
// It holds a single session; there is no pooling.
type Driver struct {
	conn   *pgx.Conn
	dbName string
	closed bool
}

// New creates a new PostgreSQL driver.
func New() *Driver {
	return &Driver{}
}

// Connect opens one session to PostgreSQL and verifies it with a ping.
func (d *Driver) Connect(ctx context.Context, dsn string) error {
	if d.closed {
		return database.ErrClosed
	}
	if d.conn != nil {
		return fmt.Errorf("already connected to %s", d.dbName)
	}

	cfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return fmt.Errorf("parse dsn: %w", err)
	}

	conn, err := pgx.ConnectConfig(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}

	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close(context.Background())
		return fmt.Errorf("ping: %w", err)
	}

	d.conn = conn
	d.dbName = cfg.Database
	return nil
}

// Close releases the session. Subsequent calls return nil.
func (d *Driver) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	if d.conn == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	err := d.conn.Close(ctx)
	d.conn = nil
	if err != nil {
		return fmt.Errorf("close: %w", err)
	}
	return nil
}

// Ping checks if the session is alive.
func (d *Driver) Ping(ctx context.Context) error {
	if err := d.ready(); err != nil {
		return err
	}
	return d.conn.Ping(ctx)
}

// GetColumns returns column metadata for a table or view. The name may be
// schema-qualified; an unqualified name is looked up on the search_path.
func (d *Driver) GetColumns(ctx context.Context, relation string) ([]database.Column, error) {
	if err := d.ready(); err != nil {
		return nil, err
	}

	rows, err := d.conn.Query(ctx, queryGetColumns, relation)
	if err != nil {
		return nil, fmt.Errorf("get columns: %w", err)
	}
	defer rows.Close()

	var columns []database.Column
	for rows.Next() {
		var col database.Column
		var pos int16
		if err := rows.Scan(&col.Name, &col.DataType, &col.IsNullable, &pos); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		col.OrdinalPos = int(pos)
		columns = append(columns, col)
	}
	return columns, rows.Err()
}

// CountRows returns the exact number of rows in a relation.
func (d *Driver) CountRows(ctx context.Context, relation string) (int64, error) {
	if err := d.ready(); err != nil {
		return 0, err
	}

	query := fmt.Sprintf(queryCountRows, pgx.Identifier{relation}.Sanitize())
	var count int64
	if err := d.conn.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("row count: %w", err)
	}
	return count, nil
}

// ExecuteQuery runs a SQL query and returns the results.
func (d *Driver) ExecuteQuery(ctx context.Context, query string) (*database.QueryResult, error) {
	if err := d.ready(); err != nil {
		return nil, err
	}
	start := time.Now()

	rows, err := d.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("execute: %w", err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	columns := make([]string, len(fields))
	for i, f := range fields {
		columns[i] = f.Name
	}

	var resultRows [][]any
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		row := make([]any, len(values))
		for i, v := range values {
			row[i] = normalize(v)
		}
		resultRows = append(resultRows, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return &database.QueryResult{
		Columns:  columns,
		Rows:     resultRows,
		RowCount: len(resultRows),
		Duration: time.Since(start),
	}, nil
}

// DatabaseName returns the name of the connected database.
func (d *Driver) DatabaseName() string {
	return d.dbName
}

func (d *Driver) ready() error {
	if d.closed {
		return database.ErrClosed
	}
	if d.conn == nil {
		return database.ErrNotConnected
	}
	return nil
}
