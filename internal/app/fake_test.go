package app

import (
	"context"
	"errors"

	"github.com/joacominatel/rentalviz/internal/database"
	"github.com/joacominatel/rentalviz/internal/render/chart"
	"github.com/joacominatel/rentalviz/internal/report"
)

// fakeDriver serves canned results and tracks the session lifecycle.
type fakeDriver struct {
	results    map[string]*database.QueryResult
	queryErrs  map[string]error
	columns    []database.Column
	count      int64
	connectErr error

	connects  int
	closes    int
	open      bool
	queries   []string
	relations []string
}

func newFakeDriver() *fakeDriver {
	cols := []string{"rental_id", "film_category", "rental_amount", "year", "month", "month_name"}
	columns := make([]database.Column, len(cols))
	for i, c := range cols {
		columns[i] = database.Column{Name: c, OrdinalPos: i + 1}
	}
	return &fakeDriver{
		results:   map[string]*database.QueryResult{},
		queryErrs: map[string]error{},
		columns:   columns,
	}
}

func (d *fakeDriver) Connect(_ context.Context, _ string) error {
	d.connects++
	if d.connectErr != nil {
		return d.connectErr
	}
	d.open = true
	return nil
}

func (d *fakeDriver) Close() error {
	d.closes++
	d.open = false
	return nil
}

func (d *fakeDriver) Ping(context.Context) error {
	return d.ready()
}

func (d *fakeDriver) GetColumns(_ context.Context, relation string) ([]database.Column, error) {
	if err := d.ready(); err != nil {
		return nil, err
	}
	d.relations = append(d.relations, relation)
	return d.columns, nil
}

func (d *fakeDriver) CountRows(_ context.Context, relation string) (int64, error) {
	if err := d.ready(); err != nil {
		return 0, err
	}
	d.relations = append(d.relations, relation)
	return d.count, nil
}

func (d *fakeDriver) ExecuteQuery(_ context.Context, query string) (*database.QueryResult, error) {
	if err := d.ready(); err != nil {
		return nil, err
	}
	d.queries = append(d.queries, query)
	if err := d.queryErrs[query]; err != nil {
		return nil, err
	}
	if res, ok := d.results[query]; ok {
		return res, nil
	}
	return nil, errors.New(`relation "unknown" does not exist`)
}

func (d *fakeDriver) DatabaseName() string {
	return "pagila_dwh"
}

func (d *fakeDriver) ready() error {
	if !d.open {
		if d.closes > 0 {
			return database.ErrClosed
		}
		return database.ErrNotConnected
	}
	return nil
}

func (d *fakeDriver) withCategories(rows ...[]any) *fakeDriver {
	d.results[report.Categories.Query] = &database.QueryResult{
		Columns:  []string{"film_category", "total_rentals", "total_revenue"},
		Rows:     rows,
		RowCount: len(rows),
	}
	return d
}

func (d *fakeDriver) withTrends(rows ...[]any) *fakeDriver {
	d.results[report.Trends.Query] = &database.QueryResult{
		Columns:  []string{"year", "month", "month_name", "total_rentals", "total_revenue"},
		Rows:     rows,
		RowCount: len(rows),
	}
	return d
}

// fakeViewer records what it was asked to show.
type fakeViewer struct {
	calls  int
	charts []*chart.Chart
	err    error
}

func (v *fakeViewer) Display(_ context.Context, charts []*chart.Chart) error {
	v.calls++
	v.charts = append(v.charts, charts...)
	return v.err
}
