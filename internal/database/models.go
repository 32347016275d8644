package database

import (
	"fmt"
	"strconv"
	"time"
)

// Column represents a table column with its metadata.
type Column struct {
	Name       string
	DataType   string
	IsNullable bool
	OrdinalPos int
}

// QueryResult holds the materialized result of a SQL query.
// Values are one of int64, float64, string, bool, time.Time or nil.
type QueryResult struct {
	Columns  []string
	Rows     [][]any
	RowCount int
	Duration time.Duration
}

// Empty reports whether the result has no rows.
func (r *QueryResult) Empty() bool {
	return r == nil || len(r.Rows) == 0
}

// ColumnIndex returns the position of the named column, or -1.
func (r *QueryResult) ColumnIndex(name string) int {
	for i, c := range r.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Value returns the cell at row, col or nil when out of range.
func (r *QueryResult) Value(row, col int) any {
	if row < 0 || row >= len(r.Rows) {
		return nil
	}
	if col < 0 || col >= len(r.Rows[row]) {
		return nil
	}
	return r.Rows[row][col]
}

// Text returns the printable form of a cell.
func (r *QueryResult) Text(row, col int) string {
	return FormatValue(r.Value(row, col))
}

// Float returns a numeric cell as float64.
func (r *QueryResult) Float(row, col int) (float64, error) {
	switch v := r.Value(row, col).(type) {
	case int64:
		return float64(v), nil
	case float64:
		return v, nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("row %d column %q: %w", row, r.columnName(col), err)
		}
		return f, nil
	case nil:
		return 0, fmt.Errorf("row %d column %q: null value", row, r.columnName(col))
	default:
		return 0, fmt.Errorf("row %d column %q: %T is not numeric", row, r.columnName(col), v)
	}
}

// Int returns a numeric cell truncated to int64.
func (r *QueryResult) Int(row, col int) (int64, error) {
	if v, ok := r.Value(row, col).(int64); ok {
		return v, nil
	}
	f, err := r.Float(row, col)
	if err != nil {
		return 0, err
	}
	return int64(f), nil
}

func (r *QueryResult) columnName(col int) string {
	if col < 0 || col >= len(r.Columns) {
		return strconv.Itoa(col)
	}
	return r.Columns[col]
}

// FormatValue renders a normalized value for display.
// Floats use the shortest representation that round-trips.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 && x.Nanosecond() == 0 {
			return x.Format("2006-01-02")
		}
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", x)
	}
}

// IsNumeric reports whether v prints as a number.
func IsNumeric(v any) bool {
	switch v.(type) {
	case int64, float64:
		return true
	}
	return false
}
