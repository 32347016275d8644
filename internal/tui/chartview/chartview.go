package chartview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joacominatel/rentalviz/internal/database"
	"github.com/joacominatel/rentalviz/internal/render/chart"
	"github.com/joacominatel/rentalviz/internal/tui/theme"
)

const (
	maxLabelWidth = 24
	maxColWidth   = 40
	minBarWidth   = 10
)

// Model shows one chart as horizontal bars above its data table.
type Model struct {
	chart  *chart.Chart
	table  table.Model
	width  int
	height int
}

// New creates a chart view.
func New(c *chart.Chart) Model {
	t := table.New(
		table.WithColumns(columns(c.Table)),
		table.WithRows(rows(c.Table)),
		table.WithFocused(true),
	)
	return Model{chart: c, table: t}
}

// Chart returns the chart shown.
func (m Model) Chart() *chart.Chart {
	return m.chart
}

// SetSize updates the component dimensions. The table gets whatever the
// bars leave over.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.table.SetWidth(w)
	tableHeight := h - m.chart.Series.Len() - 4
	if tableHeight < 3 {
		tableHeight = 3
	}
	m.table.SetHeight(tableHeight)
}

// Update forwards navigation keys to the table.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the chart title, bars and table.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(theme.StyleTitle.Render(m.chart.Title))
	b.WriteString("  ")
	b.WriteString(theme.StyleMuted.Render(m.chart.Path))
	b.WriteString("\n\n")

	if m.chart.Series.Len() == 0 {
		b.WriteString(theme.StyleMuted.Render("  No data"))
		b.WriteString("\n")
	} else {
		bar := theme.BarStyle(m.chart.Color)
		for _, line := range Bars(m.chart.Series, m.width) {
			b.WriteString("  ")
			b.WriteString(line.Label)
			b.WriteString(" ")
			b.WriteString(bar.Render(line.Bar))
			b.WriteString(" ")
			b.WriteString(line.Value)
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.table.View())
	return b.String()
}

// BarLine is one rendered bar.
type BarLine struct {
	Label string
	Bar   string
	Value string
}

// Bars scales the series to fit width. Labels are padded to a common
// display width; the largest value gets the full bar.
func Bars(s chart.Series, width int) []BarLine {
	if s.Len() == 0 {
		return nil
	}

	labelWidth := 1
	peak := 0.0
	valueWidth := 1
	values := make([]string, s.Len())
	for i, v := range s.Values {
		if w := lipgloss.Width(s.Labels[i]); w > labelWidth {
			labelWidth = w
		}
		if v > peak {
			peak = v
		}
		values[i] = database.FormatValue(v)
		if w := len(values[i]); w > valueWidth {
			valueWidth = w
		}
	}
	if labelWidth > maxLabelWidth {
		labelWidth = maxLabelWidth
	}

	barWidth := width - labelWidth - valueWidth - 6
	if barWidth < minBarWidth {
		barWidth = minBarWidth
	}

	lines := make([]BarLine, s.Len())
	for i, v := range s.Values {
		n := 0
		if peak > 0 && v > 0 {
			n = int(v / peak * float64(barWidth))
			if n == 0 {
				n = 1
			}
		}
		label := truncate(s.Labels[i], labelWidth)
		if pad := labelWidth - lipgloss.Width(label); pad > 0 {
			label += strings.Repeat(" ", pad)
		}
		lines[i] = BarLine{
			Label: label,
			Bar:   strings.Repeat("█", n),
			Value: fmt.Sprintf("%*s", valueWidth, values[i]),
		}
	}
	return lines
}

func columns(res *database.QueryResult) []table.Column {
	if res == nil {
		return nil
	}
	cols := make([]table.Column, len(res.Columns))
	for i, name := range res.Columns {
		w := lipgloss.Width(name)
		for r := range res.Rows {
			if cw := lipgloss.Width(res.Text(r, i)); cw > w {
				w = cw
			}
		}
		if w > maxColWidth {
			w = maxColWidth
		}
		cols[i] = table.Column{Title: name, Width: w}
	}
	return cols
}

func rows(res *database.QueryResult) []table.Row {
	if res == nil {
		return nil
	}
	out := make([]table.Row, len(res.Rows))
	for i := range res.Rows {
		row := make(table.Row, len(res.Columns))
		for j := range res.Columns {
			row[j] = res.Text(i, j)
		}
		out[i] = row
	}
	return out
}

func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes)) >= width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}
