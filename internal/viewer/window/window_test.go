package window

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayWithoutCharts(t *testing.T) {
	w := New(nil)
	assert.NoError(t, w.Display(context.Background(), nil))
}
