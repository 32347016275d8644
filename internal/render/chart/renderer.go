package chart

import (
	"fmt"
	"path/filepath"

	"github.com/joacominatel/rentalviz/internal/database"
)

// Renderer writes chart images into a directory.
type Renderer struct {
	dir    string
	format string
}

// NewRenderer creates a renderer writing format ("png" or "svg") files to dir.
func NewRenderer(dir, format string) *Renderer {
	if format == "" {
		format = "png"
	}
	return &Renderer{dir: dir, format: format}
}

// Render extracts the series for spec, writes <dir>/<report>.<format> and
// returns the chart.
func (r *Renderer) Render(report string, spec Spec, res *database.QueryResult) (*Chart, error) {
	s, err := Extract(spec, res)
	if err != nil {
		return nil, fmt.Errorf("extract %s series: %w", report, err)
	}

	path := filepath.Join(r.dir, report+"."+r.format)
	if err := Save(path, spec, s); err != nil {
		return nil, err
	}

	return &Chart{
		Report: report,
		Title:  spec.Title,
		Kind:   spec.Kind,
		Color:  spec.Color,
		Series: s,
		Path:   path,
		Table:  res,
	}, nil
}
