package tui

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joacominatel/rentalviz/internal/database"
	"github.com/joacominatel/rentalviz/internal/render/chart"
	"github.com/joacominatel/rentalviz/internal/tui/chartview"
	"github.com/joacominatel/rentalviz/internal/tui/statusbar"
	"github.com/joacominatel/rentalviz/internal/tui/theme"
)

// copyFunc writes text to the system clipboard.
type copyFunc func(string) error

// Model is the top-level bubbletea model: one tab per chart.
type Model struct {
	views     []chartview.Model
	statusbar statusbar.Model
	active    int
	width     int
	height    int
	showHelp  bool
	copy      copyFunc
}

// NewModel creates the top-level model for the given charts.
func NewModel(charts []*chart.Chart) Model {
	views := make([]chartview.Model, len(charts))
	for i, c := range charts {
		views[i] = chartview.New(c)
	}
	m := Model{
		views:     views,
		statusbar: statusbar.New(),
		copy:      clipboard.WriteAll,
	}
	m.syncStatus()
	return m
}

// Run shows the charts full-screen and blocks until the user quits or ctx
// is cancelled.
func Run(ctx context.Context, charts []*chart.Chart) error {
	if len(charts) == 0 {
		return nil
	}
	p := tea.NewProgram(NewModel(charts),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("terminal viewer: %w", err)
	}
	return nil
}

// Active returns the index of the chart on screen.
func (m Model) Active() int {
	return m.active
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles all messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "?":
			m.showHelp = true
			return m, nil
		case "right", "l", "tab":
			m.switchTo(m.active + 1)
			return m, nil
		case "left", "h", "shift+tab":
			m.switchTo(m.active - 1)
			return m, nil
		case "c":
			m.copyActive()
			return m, nil
		}
	}

	if len(m.views) == 0 {
		return m, nil
	}
	var cmd tea.Cmd
	m.views[m.active], cmd = m.views[m.active].Update(msg)
	return m, cmd
}

// View renders the tabs, the active chart and the status bar.
func (m Model) View() string {
	if len(m.views) == 0 {
		return theme.StyleMuted.Render("No charts to show")
	}
	if m.showHelp {
		return m.viewHelp()
	}

	tabs := make([]string, len(m.views))
	for i, v := range m.views {
		style := theme.StyleTab
		if i == m.active {
			style = theme.StyleActiveTab
		}
		tabs[i] = style.Render(v.Chart().Report)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...),
		m.views[m.active].View(),
		m.statusbar.View(),
	)
}

func (m Model) viewHelp() string {
	help := strings.Join([]string{
		theme.StyleTitle.Render("Keys"),
		"",
		"  ←/h, →/l, tab   switch chart",
		"  ↑/k, ↓/j        scroll table rows",
		"  c               copy chart data as CSV",
		"  ?               this help",
		"  q, esc          close the viewer",
	}, "\n")
	return theme.StyleBorder.Padding(1, 2).Render(help)
}

func (m *Model) switchTo(i int) {
	if len(m.views) == 0 {
		return
	}
	m.active = (i + len(m.views)) % len(m.views)
	m.statusbar.SetMessage("")
	m.syncStatus()
}

func (m *Model) copyActive() {
	if len(m.views) == 0 {
		return
	}
	c := m.views[m.active].Chart()
	if c.Table.Empty() {
		m.statusbar.SetMessage("Nothing to copy")
		return
	}
	if err := m.copy(TableCSV(c.Table)); err != nil {
		m.statusbar.SetError("Copy failed: " + err.Error())
		return
	}
	m.statusbar.SetMessage(fmt.Sprintf("Copied %d rows as CSV", c.Table.RowCount))
}

func (m *Model) layout() {
	m.statusbar.SetWidth(m.width)
	bodyHeight := m.height - 2 // tabs + status bar
	for i := range m.views {
		m.views[i].SetSize(m.width, bodyHeight)
	}
}

func (m *Model) syncStatus() {
	if len(m.views) == 0 {
		return
	}
	m.statusbar.SetReport(m.views[m.active].Chart().Report, m.active, len(m.views))
}

// TableCSV renders a result as CSV text.
func TableCSV(res *database.QueryResult) string {
	var b strings.Builder
	w := csv.NewWriter(&b)
	_ = w.Write(res.Columns)
	row := make([]string, len(res.Columns))
	for i := range res.Rows {
		for j := range res.Columns {
			row[j] = res.Text(i, j)
		}
		_ = w.Write(row)
	}
	w.Flush()
	return b.String()
}
