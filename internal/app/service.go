package app

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/joacominatel/rentalviz/internal/config"
	"github.com/joacominatel/rentalviz/internal/database"
	"github.com/joacominatel/rentalviz/internal/export"
	"github.com/joacominatel/rentalviz/internal/history"
	"github.com/joacominatel/rentalviz/internal/output"
	"github.com/joacominatel/rentalviz/internal/render/chart"
	"github.com/joacominatel/rentalviz/internal/render/table"
	"github.com/joacominatel/rentalviz/internal/report"
	"go.uber.org/zap"
)

// Recorder stores run history. *history.Store implements it.
type Recorder interface {
	Begin(ctx context.Context, id, target string) error
	RecordReport(ctx context.Context, runID string, e history.ReportEntry) error
	Finish(ctx context.Context, id string, totalRecords int64, runErr error) error
}

// Viewer shows rendered charts. Display blocks until the user dismisses the
// display.
type Viewer interface {
	Display(ctx context.Context, charts []*chart.Chart) error
}

// Options wires the collaborators a Service needs. Only Printer, Viewer and
// ChartDir are required.
type Options struct {
	Printer       *table.Printer
	Viewer        Viewer
	ChartDir      string
	ChartFormat   string
	ExportDir     string
	ExportFormats []string
	History       Recorder
	Logger        *zap.Logger
}

// Summary describes a finished run.
type Summary struct {
	RunID        string
	TotalRecords int64
	Reports      []ReportSummary
	Charts       []*chart.Chart
}

// ReportSummary describes one report of a run. Err is ErrEmptyResult when
// the report was skipped for having no rows.
type ReportSummary struct {
	Name      string
	Rows      int
	ChartPath string
	Exports   []string
	Err       error
}

// Service runs the report pipeline against one database session.
type Service struct {
	driver        database.Driver
	printer       *table.Printer
	viewer        Viewer
	charts        *output.Manager
	chartFormat   string
	exports       *output.Manager
	exportFormats []string
	history       Recorder
	logger        *zap.Logger
	newID         func() string
}

// NewService creates a new application service.
func NewService(driver database.Driver, opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		driver:        driver,
		printer:       opts.Printer,
		viewer:        opts.Viewer,
		charts:        output.NewManager(opts.ChartDir),
		chartFormat:   opts.ChartFormat,
		exports:       output.NewManager(opts.ExportDir),
		exportFormats: opts.ExportFormats,
		history:       opts.History,
		logger:        logger,
		newID:         uuid.NewString,
	}
}

// Connect establishes the database session.
func (s *Service) Connect(ctx context.Context, conn config.Connection) error {
	if err := s.driver.Connect(ctx, conn.DSN()); err != nil {
		return &ErrConnection{Target: conn.DisplayString(), Cause: err}
	}
	return nil
}

// Disconnect closes the database session.
func (s *Service) Disconnect() error {
	return s.driver.Close()
}

// DatabaseName returns the current database name.
func (s *Service) DatabaseName() string {
	return s.driver.DatabaseName()
}

// ExecuteQuery runs a report's query and returns the materialized rows.
func (s *Service) ExecuteQuery(ctx context.Context, def report.Definition) (*database.QueryResult, error) {
	result, err := s.driver.ExecuteQuery(ctx, def.Query)
	if err != nil {
		return nil, &ErrQuery{Report: def.Name, Query: def.Query, Cause: err}
	}
	return result, nil
}

// Run executes the named reports (all when names is empty) in one session,
// closes the session, then hands every rendered chart to the viewer.
func (s *Service) Run(ctx context.Context, conn config.Connection, names []string) (*Summary, error) {
	defs, err := report.Lookup(names)
	if err != nil {
		return nil, &ErrConfig{Cause: err}
	}

	sum := &Summary{RunID: s.newID()}
	logger := s.logger.With(zap.String("run_id", sum.RunID))
	logger.Info("starting run",
		zap.String("target", conn.DisplayString()),
		zap.Strings("reports", reportNames(defs)))

	s.recordBegin(ctx, logger, sum.RunID, conn.DisplayString())

	err = s.withSession(ctx, logger, conn, func(ctx context.Context) error {
		if err := s.preflight(ctx, defs); err != nil {
			return err
		}

		total, err := s.driver.CountRows(ctx, report.SourceView)
		if err != nil {
			return &ErrQuery{Query: "SELECT COUNT(*) FROM " + report.SourceView, Cause: err}
		}
		sum.TotalRecords = total
		s.printer.Line("Total records: %d", total)

		for _, def := range defs {
			rs, c, err := s.generate(ctx, logger, sum.RunID, def)
			if err != nil {
				return err
			}
			sum.Reports = append(sum.Reports, rs)
			if c != nil {
				sum.Charts = append(sum.Charts, c)
			}
		}
		return nil
	})

	s.recordFinish(ctx, logger, sum, err)
	if err != nil {
		return sum, err
	}

	if len(sum.Charts) == 0 {
		logger.Info("no charts to display")
		return sum, nil
	}
	if err := s.viewer.Display(ctx, sum.Charts); err != nil {
		return sum, fmt.Errorf("display charts: %w", err)
	}
	return sum, nil
}

// withSession opens the session, runs fn and closes the session on every
// exit path, including when fn fails.
func (s *Service) withSession(ctx context.Context, logger *zap.Logger, conn config.Connection, fn func(context.Context) error) (err error) {
	if err := s.Connect(ctx, conn); err != nil {
		return err
	}
	logger.Debug("session opened", zap.String("database", s.DatabaseName()))

	defer func() {
		if cerr := s.Disconnect(); cerr != nil {
			logger.Warn("closing session failed", zap.Error(cerr))
			if err == nil {
				err = &ErrConnection{Target: conn.DisplayString(), Cause: cerr}
			}
			return
		}
		logger.Debug("session closed")
	}()

	return fn(ctx)
}

// preflight checks the source view exists and exposes every column the
// reports read.
func (s *Service) preflight(ctx context.Context, defs []report.Definition) error {
	relation := report.SourceView

	cols, err := s.driver.GetColumns(ctx, relation)
	if err != nil {
		return &ErrQuery{Query: "columns of " + relation, Cause: err}
	}
	if len(cols) == 0 {
		return &ErrQuery{Cause: fmt.Errorf("relation %s does not exist", relation)}
	}

	have := make([]string, len(cols))
	for i, c := range cols {
		have[i] = c.Name
	}
	var missing []string
	for _, need := range report.RequiredColumns(defs) {
		if !slices.Contains(have, need) {
			missing = append(missing, need)
		}
	}
	if len(missing) > 0 {
		return &ErrQuery{Cause: fmt.Errorf("relation %s is missing columns: %s",
			relation, strings.Join(missing, ", "))}
	}
	return nil
}

// generate runs one report: query, order check, print, chart, export.
func (s *Service) generate(ctx context.Context, logger *zap.Logger, runID string, def report.Definition) (ReportSummary, *chart.Chart, error) {
	logger = logger.With(zap.String("report", def.Name))

	res, err := s.ExecuteQuery(ctx, def)
	if err != nil {
		return ReportSummary{}, nil, err
	}
	logger.Debug("query executed", zap.Int("rows", res.RowCount), zap.Duration("duration", res.Duration))

	if err := def.CheckOrder(res); err != nil {
		logger.Warn("result not in declared order", zap.Error(err))
	}

	rs := ReportSummary{Name: def.Name, Rows: res.RowCount}

	if res.Empty() && def.SkipEmpty {
		s.printer.Notice(def.EmptyNotice)
		rs.Err = ErrEmptyResult
		logger.Info("empty result, chart skipped")
		s.recordReport(ctx, logger, runID, rs)
		return rs, nil, nil
	}

	s.printer.Heading(def.Heading)
	s.printer.Table(res)

	if res.Empty() {
		logger.Warn("empty result, rendering empty chart")
	}

	if len(s.exportFormats) > 0 {
		dir, err := s.exports.RunDir(runID)
		if err != nil {
			return rs, nil, err
		}
		paths, err := export.New(dir, s.exportFormats).Export(def.Name, res)
		if err != nil {
			return rs, nil, err
		}
		rs.Exports = paths
		for _, p := range paths {
			logger.Info("export written", zap.String("type", output.FileType(p)), zap.String("path", p))
		}
	}

	dir, err := s.charts.RunDir(runID)
	if err != nil {
		return rs, nil, err
	}
	c, err := chart.NewRenderer(dir, s.chartFormat).Render(def.Name, def.Chart, res)
	if err != nil {
		return rs, nil, fmt.Errorf("render %s chart: %w", def.Name, err)
	}
	rs.ChartPath = c.Path
	logger.Info("chart written", zap.String("type", output.FileType(c.Path)), zap.String("path", c.Path))

	s.recordReport(ctx, logger, runID, rs)
	return rs, c, nil
}

// History failures are logged and never fail the run.

func (s *Service) recordBegin(ctx context.Context, logger *zap.Logger, id, target string) {
	if s.history == nil {
		return
	}
	if err := s.history.Begin(ctx, id, target); err != nil {
		logger.Warn("history begin failed", zap.Error(err))
	}
}

func (s *Service) recordReport(ctx context.Context, logger *zap.Logger, runID string, rs ReportSummary) {
	if s.history == nil {
		return
	}
	entry := history.ReportEntry{Report: rs.Name, Rows: rs.Rows, ChartPath: rs.ChartPath}
	if err := s.history.RecordReport(ctx, runID, entry); err != nil {
		logger.Warn("history record failed", zap.Error(err))
	}
}

func (s *Service) recordFinish(ctx context.Context, logger *zap.Logger, sum *Summary, runErr error) {
	if s.history == nil {
		return
	}
	if err := s.history.Finish(context.WithoutCancel(ctx), sum.RunID, sum.TotalRecords, runErr); err != nil {
		logger.Warn("history finish failed", zap.Error(err))
	}
}

func reportNames(defs []report.Definition) []string {
	names := make([]string, len(defs))
	for i, d := range defs {
		names[i] = d.Name
	}
	return names
}
