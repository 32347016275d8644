// Package table prints materialized query results as aligned plain text.
package table

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/joacominatel/rentalviz/internal/database"
)

const (
	maxColWidth = 40
	colGap      = "  "
)

// Printer writes headings, notices and tables to a writer. Styling is
// resolved against the writer, so plain files and pipes get no escape codes.
type Printer struct {
	w      io.Writer
	header lipgloss.Style
	notice lipgloss.Style
}

// New creates a printer for w.
func New(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:      w,
		header: r.NewStyle().Bold(true),
		notice: r.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

// Line prints one line of text.
func (p *Printer) Line(format string, args ...any) {
	fmt.Fprintf(p.w, format+"\n", args...)
}

// Heading prints a section heading surrounded by blank lines.
func (p *Printer) Heading(text string) {
	fmt.Fprintf(p.w, "\n%s:\n\n", text)
}

// Notice prints an informational line, e.g. for an empty result.
func (p *Printer) Notice(text string) {
	fmt.Fprintln(p.w, p.notice.Render(text))
}

// Table prints the header row and every data row. Numeric columns are
// right-aligned, text columns left-aligned.
func (p *Printer) Table(res *database.QueryResult) {
	if res == nil || len(res.Columns) == 0 {
		return
	}

	cells := make([][]string, len(res.Rows))
	for i := range res.Rows {
		cells[i] = make([]string, len(res.Columns))
		for j := range res.Columns {
			cells[i][j] = res.Text(i, j)
		}
	}

	widths := columnWidths(res.Columns, cells)
	numeric := numericColumns(res)

	fmt.Fprintln(p.w, p.renderRow(res.Columns, widths, numeric, true))
	for _, row := range cells {
		fmt.Fprintln(p.w, p.renderRow(row, widths, numeric, false))
	}
}

func (p *Printer) renderRow(cells []string, widths []int, numeric []bool, isHeader bool) string {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		display := truncate(cell, widths[i])
		pad := widths[i] - lipgloss.Width(display)
		if pad > 0 {
			if numeric[i] {
				display = strings.Repeat(" ", pad) + display
			} else {
				display += strings.Repeat(" ", pad)
			}
		}
		if isHeader {
			display = p.header.Render(display)
		}
		parts[i] = display
	}
	return strings.TrimRight(strings.Join(parts, colGap), " ")
}

// columnWidths measures display width, not bytes, capped at maxColWidth.
func columnWidths(columns []string, rows [][]string) []int {
	widths := make([]int, len(columns))
	for i, col := range columns {
		widths[i] = lipgloss.Width(col)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	for i := range widths {
		if widths[i] < 1 {
			widths[i] = 1
		}
		if widths[i] > maxColWidth {
			widths[i] = maxColWidth
		}
	}
	return widths
}

// numericColumns marks columns whose non-null values are all numbers.
func numericColumns(res *database.QueryResult) []bool {
	numeric := make([]bool, len(res.Columns))
	for j := range res.Columns {
		seen := false
		numeric[j] = true
		for i := range res.Rows {
			v := res.Value(i, j)
			if v == nil {
				continue
			}
			seen = true
			if !database.IsNumeric(v) {
				numeric[j] = false
				break
			}
		}
		if !seen {
			numeric[j] = false
		}
	}
	return numeric
}

// truncate shortens s to width display cells, ending in an ellipsis.
func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	if width <= 1 {
		return "…"
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes)) >= width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}
