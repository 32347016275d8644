package chart

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const (
	defaultWidth  = 10.0
	defaultHeight = 6.0
	defaultColor  = "#1f77b4"
)

var gridColor = color.Gray{Y: 190}

// Build lays out a plot for the series. An empty bar series yields an empty
// but valid plot.
func Build(spec Spec, s Series) (*plot.Plot, error) {
	fill, err := parseColor(spec.Color)
	if err != nil {
		return nil, err
	}

	p := plot.New()
	p.Title.Text = spec.Title
	p.X.Label.Text = spec.XLabel
	p.Y.Label.Text = spec.YLabel

	if spec.Grid {
		grid := plotter.NewGrid()
		dashes := []vg.Length{vg.Points(4), vg.Points(4)}
		grid.Vertical.Dashes = dashes
		grid.Vertical.Color = gridColor
		grid.Horizontal.Dashes = dashes
		grid.Horizontal.Color = gridColor
		p.Add(grid)
	}

	switch spec.Kind {
	case Bar:
		if s.Len() > 0 {
			bars, err := plotter.NewBarChart(plotter.Values(s.Values), barWidth(spec, s.Len()))
			if err != nil {
				return nil, fmt.Errorf("bar chart: %w", err)
			}
			bars.Color = fill
			bars.LineStyle.Width = 0
			p.Add(bars)
			p.NominalX(s.Labels...)
		}
		p.Y.Min = 0

	case Line:
		if s.Len() > 0 {
			xys := make(plotter.XYs, s.Len())
			for i, v := range s.Values {
				xys[i].X = float64(s.Periods[i].Unix())
				xys[i].Y = v
			}
			line, points, err := plotter.NewLinePoints(xys)
			if err != nil {
				return nil, fmt.Errorf("line chart: %w", err)
			}
			line.Color = fill
			line.Width = vg.Points(1.5)
			p.Add(line)
			if spec.Markers {
				points.Shape = draw.CircleGlyph{}
				points.Color = fill
				points.Radius = vg.Points(3)
				p.Add(points)
			}
		}
		format := spec.TimeFormat
		if format == "" {
			format = "2006-01"
		}
		p.X.Tick.Marker = plot.TimeTicks{Format: format}

	default:
		return nil, fmt.Errorf("unknown chart kind %q", spec.Kind)
	}

	if spec.RotateLabels != 0 {
		p.X.Tick.Label.Rotation = spec.RotateLabels * math.Pi / 180
		p.X.Tick.Label.XAlign = draw.XRight
		p.X.Tick.Label.YAlign = draw.YCenter
	}

	return p, nil
}

// Save renders the series to path; the extension selects the format.
func Save(path string, spec Spec, s Series) error {
	p, err := Build(spec, s)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create chart dir: %w", err)
	}
	width, height := size(spec)
	if err := p.Save(width, height, path); err != nil {
		return fmt.Errorf("save chart: %w", err)
	}
	return nil
}

func size(spec Spec) (vg.Length, vg.Length) {
	w, h := spec.Width, spec.Height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	return vg.Length(w) * vg.Inch, vg.Length(h) * vg.Inch
}

// barWidth spreads the bars over roughly 70% of the plot width.
func barWidth(spec Spec, n int) vg.Length {
	width, _ := size(spec)
	bw := width * 0.7 / vg.Length(n)
	if limit := vg.Points(40); bw > limit {
		bw = limit
	}
	return bw
}

func parseColor(hex string) (color.Color, error) {
	if hex == "" {
		hex = defaultColor
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return nil, fmt.Errorf("chart color: %w", err)
	}
	return c, nil
}
