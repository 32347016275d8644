// Package report holds the fixed report definitions run against
// vw_rental_analysis.
package report

import (
	"fmt"
	"strings"

	"github.com/joacominatel/rentalviz/internal/database"
	"github.com/joacominatel/rentalviz/internal/render/chart"
)

// SourceView is the relation every report reads from. It is unqualified and
// resolves through the session's search_path.
const SourceView = "vw_rental_analysis"

// OrderKey is one column of a report's declared row order.
type OrderKey struct {
	Column string
	Desc   bool
}

// Definition is everything one report needs: the query, the view columns it
// reads, its declared ordering, how to treat an empty result, and its chart.
type Definition struct {
	Name     string
	Heading  string
	Query    string
	Requires []string
	Order    []OrderKey

	// SkipEmpty prints EmptyNotice and skips the table and chart when the
	// query returns no rows. Otherwise an empty chart is still rendered.
	SkipEmpty   bool
	EmptyNotice string

	Chart chart.Spec
}

// CheckOrder verifies the rows follow the definition's declared order and
// returns an error naming the first pair that does not.
func (d Definition) CheckOrder(res *database.QueryResult) error {
	if len(d.Order) == 0 || res.Empty() {
		return nil
	}

	idx := make([]int, len(d.Order))
	for i, k := range d.Order {
		idx[i] = res.ColumnIndex(k.Column)
		if idx[i] < 0 {
			return fmt.Errorf("order column %q not in result", k.Column)
		}
	}

	for row := 1; row < len(res.Rows); row++ {
		for i, k := range d.Order {
			c := compare(res.Value(row-1, idx[i]), res.Value(row, idx[i]))
			if k.Desc {
				c = -c
			}
			if c < 0 {
				break
			}
			if c > 0 {
				return fmt.Errorf("row %d out of order on %s: %s before %s", row,
					k.Column, res.Text(row-1, idx[i]), res.Text(row, idx[i]))
			}
		}
	}
	return nil
}

// compare orders numbers numerically and everything else by display text.
// NULLs sort last.
func compare(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}

	if database.IsNumeric(a) && database.IsNumeric(b) {
		fa, fb := toFloat(a), toFloat(b)
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	}
	return strings.Compare(database.FormatValue(a), database.FormatValue(b))
}

func toFloat(v any) float64 {
	switch x := v.(type) {
	case int64:
		return float64(x)
	case float64:
		return x
	}
	return 0
}
