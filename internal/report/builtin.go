package report

import (
	"fmt"
	"slices"
	"strings"

	"github.com/joacominatel/rentalviz/internal/render/chart"
)

// Categories aggregates rentals and revenue per film category.
var Categories = Definition{
	Name:    "categories",
	Heading: "Rentals by Film Category",
	Query: `
		SELECT film_category,
		       COUNT(*) AS total_rentals,
		       SUM(rental_amount) AS total_revenue
		FROM vw_rental_analysis
		GROUP BY film_category
		ORDER BY total_rentals DESC`,
	Requires: []string{"film_category", "rental_amount"},
	Order:    []OrderKey{{Column: "total_rentals", Desc: true}},
	Chart: chart.Spec{
		Kind:         chart.Bar,
		Title:        "Rentals by Film Category",
		XLabel:       "Film Category",
		YLabel:       "Total Rentals",
		LabelColumn:  "film_category",
		ValueColumn:  "total_rentals",
		Color:        "#1f77b4",
		Width:        10,
		Height:       6,
		RotateLabels: 45,
	},
}

// Trends aggregates rentals and revenue per calendar month.
var Trends = Definition{
	Name:    "trends",
	Heading: "Rental trends (monthly)",
	Query: `
		SELECT year, month, month_name,
		       COUNT(*) AS total_rentals,
		       SUM(rental_amount) AS total_revenue
		FROM vw_rental_analysis
		GROUP BY year, month, month_name
		ORDER BY year, month`,
	Requires:    []string{"year", "month", "month_name", "rental_amount"},
	Order:       []OrderKey{{Column: "year"}, {Column: "month"}},
	SkipEmpty:   true,
	EmptyNotice: "No time-series data found in vw_rental_analysis.",
	Chart: chart.Spec{
		Kind:         chart.Line,
		Title:        "Rental Trends Over Time (Total Rentals)",
		XLabel:       "Time",
		YLabel:       "Total Rentals",
		YearColumn:   "year",
		MonthColumn:  "month",
		ValueColumn:  "total_rentals",
		Color:        "#2ca02c",
		Width:        12,
		Height:       6,
		RotateLabels: 30,
		Grid:         true,
		Markers:      true,
		TimeFormat:   "2006-01",
	},
}

// Builtin returns every report in run order.
func Builtin() []Definition {
	return []Definition{Categories, Trends}
}

// Lookup resolves report names. No names selects every builtin report.
func Lookup(names []string) ([]Definition, error) {
	all := Builtin()
	if len(names) == 0 {
		return all, nil
	}

	defs := make([]Definition, 0, len(names))
	for _, name := range names {
		i := slices.IndexFunc(all, func(d Definition) bool { return d.Name == name })
		if i < 0 {
			return nil, fmt.Errorf("unknown report %q (available: %s)", name, strings.Join(Names(), ", "))
		}
		if slices.ContainsFunc(defs, func(d Definition) bool { return d.Name == name }) {
			continue
		}
		defs = append(defs, all[i])
	}
	return defs, nil
}

// Names lists the builtin report names.
func Names() []string {
	all := Builtin()
	names := make([]string, len(all))
	for i, d := range all {
		names[i] = d.Name
	}
	return names
}

// RequiredColumns returns the view columns the given reports read, sorted.
func RequiredColumns(defs []Definition) []string {
	var cols []string
	for _, d := range defs {
		for _, c := range d.Requires {
			if !slices.Contains(cols, c) {
				cols = append(cols, c)
			}
		}
	}
	slices.Sort(cols)
	return cols
}
