// Package chart turns materialized query results into bar and line charts.
package chart

import (
	"fmt"
	"time"

	"github.com/joacominatel/rentalviz/internal/database"
)

// Kind selects the chart type.
type Kind string

const (
	Bar  Kind = "bar"
	Line Kind = "line"
)

// Spec maps result columns onto a chart and fixes its cosmetics.
// Bar charts read LabelColumn; line charts derive a monthly period from
// YearColumn and MonthColumn.
type Spec struct {
	Kind   Kind
	Title  string
	XLabel string
	YLabel string

	LabelColumn string
	ValueColumn string
	YearColumn  string
	MonthColumn string

	Color        string  // hex, e.g. "#1f77b4"
	Width        float64 // inches
	Height       float64 // inches
	RotateLabels float64 // degrees
	Grid         bool
	Markers      bool
	TimeFormat   string
}

// Series is the data a chart draws, in result row order.
type Series struct {
	Labels  []string
	Periods []time.Time
	Values  []float64
}

// Len returns the number of points.
func (s Series) Len() int {
	return len(s.Values)
}

// Chart is a rendered chart and the data behind it.
type Chart struct {
	Report string
	Title  string
	Kind   Kind
	Color  string
	Series Series
	Path   string
	Table  *database.QueryResult
}

// Extract pulls the series described by spec out of a result.
func Extract(spec Spec, res *database.QueryResult) (Series, error) {
	value, err := columnIndex(res, spec.ValueColumn)
	if err != nil {
		return Series{}, err
	}

	var s Series
	switch spec.Kind {
	case Bar:
		label, err := columnIndex(res, spec.LabelColumn)
		if err != nil {
			return Series{}, err
		}
		for i := range res.Rows {
			v, err := res.Float(i, value)
			if err != nil {
				return Series{}, err
			}
			s.Labels = append(s.Labels, res.Text(i, label))
			s.Values = append(s.Values, v)
		}

	case Line:
		year, err := columnIndex(res, spec.YearColumn)
		if err != nil {
			return Series{}, err
		}
		month, err := columnIndex(res, spec.MonthColumn)
		if err != nil {
			return Series{}, err
		}
		layout := spec.TimeFormat
		if layout == "" {
			layout = "2006-01"
		}
		for i := range res.Rows {
			y, err := res.Int(i, year)
			if err != nil {
				return Series{}, err
			}
			m, err := res.Int(i, month)
			if err != nil {
				return Series{}, err
			}
			p, err := Period(y, m)
			if err != nil {
				return Series{}, fmt.Errorf("row %d: %w", i, err)
			}
			v, err := res.Float(i, value)
			if err != nil {
				return Series{}, err
			}
			s.Periods = append(s.Periods, p)
			s.Labels = append(s.Labels, p.Format(layout))
			s.Values = append(s.Values, v)
		}

	default:
		return Series{}, fmt.Errorf("unknown chart kind %q", spec.Kind)
	}

	return s, nil
}

// Period returns the first day of the given month in UTC.
func Period(year, month int64) (time.Time, error) {
	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("month %d out of range", month)
	}
	return time.Date(int(year), time.Month(month), 1, 0, 0, 0, 0, time.UTC), nil
}

func columnIndex(res *database.QueryResult, name string) (int, error) {
	if name == "" {
		return -1, fmt.Errorf("chart column not set")
	}
	i := res.ColumnIndex(name)
	if i < 0 {
		return -1, fmt.Errorf("column %q not in result", name)
	}
	return i, nil
}
