// Package export writes materialized report tables to CSV, JSON and Parquet.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joacominatel/rentalviz/internal/database"
)

// Supported formats.
const (
	FormatCSV     = "csv"
	FormatJSON    = "json"
	FormatParquet = "parquet"
)

// Exporter writes one file per format into a directory.
type Exporter struct {
	dir     string
	formats []string
}

// New creates an exporter. No formats means Export writes nothing.
func New(dir string, formats []string) *Exporter {
	return &Exporter{dir: dir, formats: formats}
}

// Enabled reports whether any format is configured.
func (e *Exporter) Enabled() bool {
	return e != nil && len(e.formats) > 0
}

// Export writes <dir>/<name>.<format> for every configured format and
// returns the paths written.
func (e *Exporter) Export(name string, res *database.QueryResult) ([]string, error) {
	if !e.Enabled() {
		return nil, nil
	}
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}

	var paths []string
	for _, format := range e.formats {
		path := filepath.Join(e.dir, name+"."+format)
		var err error
		switch format {
		case FormatCSV:
			err = WriteCSV(path, res)
		case FormatJSON:
			err = WriteJSON(path, res)
		case FormatParquet:
			err = WriteParquet(path, res)
		default:
			err = fmt.Errorf("unknown export format %q", format)
		}
		if err != nil {
			return paths, fmt.Errorf("export %s as %s: %w", name, format, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// WriteCSV writes the header and every row.
func WriteCSV(path string, res *database.QueryResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(res.Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	row := make([]string, len(res.Columns))
	for i := range res.Rows {
		for j := range res.Columns {
			row[j] = csvValue(res.Value(i, j))
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

// WriteJSON writes an array of objects, keys in column order.
func WriteJSON(path string, res *database.QueryResult) error {
	var b strings.Builder
	b.WriteString("[\n")
	for i := range res.Rows {
		if i > 0 {
			b.WriteString(",\n")
		}
		b.WriteString("  ")
		line, err := rowToJSON(res.Columns, res.Rows[i])
		if err != nil {
			return err
		}
		b.WriteString(line)
	}
	if len(res.Rows) > 0 {
		b.WriteString("\n")
	}
	b.WriteString("]\n")

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}

// rowToJSON preserves column order unlike map marshaling.
func rowToJSON(columns []string, row []any) (string, error) {
	var b strings.Builder
	b.WriteString("{")
	for i, col := range columns {
		if i > 0 {
			b.WriteString(", ")
		}
		key, _ := json.Marshal(col)
		b.Write(key)
		b.WriteString(": ")

		var v any
		if i < len(row) {
			v = row[i]
		}
		val, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("encode %s: %w", col, err)
		}
		b.Write(val)
	}
	b.WriteString("}")
	return b.String(), nil
}

func csvValue(v any) string {
	if v == nil {
		return ""
	}
	return database.FormatValue(v)
}
