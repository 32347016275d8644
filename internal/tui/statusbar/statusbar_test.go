package statusbar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessages(t *testing.T) {
	m := New()
	m.SetWidth(120)
	m.SetReport("trends", 1, 2)

	view := m.View()
	assert.Contains(t, view, "trends (2/2)")
	assert.Contains(t, view, "c: Copy CSV")

	m.SetError("Copy failed: no clipboard")
	assert.True(t, m.Failed())
	assert.Contains(t, m.View(), "Copy failed: no clipboard")
	assert.NotContains(t, m.View(), "c: Copy CSV")

	m.SetMessage("Copied 3 rows as CSV")
	assert.False(t, m.Failed())
	assert.Equal(t, "Copied 3 rows as CSV", m.Message())
}
