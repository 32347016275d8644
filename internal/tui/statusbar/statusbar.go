package statusbar

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/joacominatel/rentalviz/internal/tui/theme"
)

const hints = "←/→: Switch chart │ ↑/↓: Scroll rows │ c: Copy CSV │ q: Quit"

// Model is the status bar component.
type Model struct {
	width   int
	report  string
	index   int
	total   int
	message string
	failed  bool
}

// New creates a new status bar model.
func New() Model {
	return Model{}
}

// SetWidth updates the component width.
func (m *Model) SetWidth(w int) {
	m.width = w
}

// SetReport updates which chart is shown and its position.
func (m *Model) SetReport(name string, index, total int) {
	m.report = name
	m.index = index
	m.total = total
}

// SetMessage sets a temporary status message.
func (m *Model) SetMessage(msg string) {
	m.message = msg
	m.failed = false
}

// SetError sets a temporary status message reporting a failure.
func (m *Model) SetError(msg string) {
	m.message = msg
	m.failed = true
}

// Message returns the current status message.
func (m Model) Message() string {
	return m.message
}

// Failed reports whether the current message is an error.
func (m Model) Failed() bool {
	return m.failed
}

// View renders the status bar.
func (m Model) View() string {
	style := theme.StyleStatusBar.Width(m.width)

	indicator := lipgloss.NewStyle().
		Foreground(theme.ColorSuccess).
		Render("●") + " " + m.report
	if m.total > 0 {
		indicator += fmt.Sprintf(" (%d/%d)", m.index+1, m.total)
	}

	right := hints
	if m.message != "" {
		msgStyle := theme.StyleSuccess
		if m.failed {
			msgStyle = theme.StyleError
		}
		right = msgStyle.Render(m.message)
	}

	leftLen := lipgloss.Width(indicator)
	rightLen := lipgloss.Width(right)
	padding := m.width - leftLen - rightLen - 4 // borders + spacing
	if padding < 1 {
		padding = 1
	}

	return style.Render(indicator + strings.Repeat(" ", padding) + right)
}
