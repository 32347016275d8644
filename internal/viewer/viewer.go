// Package viewer displays rendered charts and blocks until the user is done.
package viewer

import (
	"context"
	"fmt"
	"io"

	"github.com/joacominatel/rentalviz/internal/config"
	"github.com/joacominatel/rentalviz/internal/render/chart"
	"github.com/joacominatel/rentalviz/internal/tui"
)

// Viewer shows charts. Display blocks until the user dismisses the display.
type Viewer interface {
	Display(ctx context.Context, charts []*chart.Chart) error
}

// New returns the viewer for config.ViewerTerminal or config.ViewerNone.
// Plain output goes to out. The native window viewer lives in package window
// so that this package builds without cgo.
func New(kind string, out io.Writer) (Viewer, error) {
	switch kind {
	case config.ViewerTerminal:
		return Terminal{}, nil
	case config.ViewerNone:
		return NewPaths(out), nil
	default:
		return nil, fmt.Errorf("unknown viewer %q", kind)
	}
}

// Terminal shows charts in a full-screen terminal UI.
type Terminal struct{}

// Display runs the terminal UI until the user quits.
func (Terminal) Display(ctx context.Context, charts []*chart.Chart) error {
	return tui.Run(ctx, charts)
}

// Paths prints where each chart was written and returns immediately.
type Paths struct {
	out io.Writer
}

// NewPaths creates a viewer printing chart paths to out.
func NewPaths(out io.Writer) *Paths {
	return &Paths{out: out}
}

// Display prints one line per chart.
func (p *Paths) Display(_ context.Context, charts []*chart.Chart) error {
	for _, c := range charts {
		if _, err := fmt.Fprintf(p.out, "Chart %s: %s\n", c.Report, c.Path); err != nil {
			return err
		}
	}
	return nil
}
