package main

import (
	"fmt"
	"os"

	"github.com/joacominatel/rentalviz/internal/app"
	"github.com/joacominatel/rentalviz/internal/config"
	"github.com/joacominatel/rentalviz/internal/database/postgres"
	"github.com/joacominatel/rentalviz/internal/history"
	"github.com/joacominatel/rentalviz/internal/render/table"
	"github.com/joacominatel/rentalviz/internal/viewer"
	"github.com/joacominatel/rentalviz/internal/viewer/window"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var runCmd = &cobra.Command{
	Use:   "run [report...]",
	Short: "Run reports (default: all)",
	Long: `Runs the named reports in one database session. Without arguments the
reports listed in the config file run, or every report when none are listed.

Example:
  rentalviz run trends --viewer terminal`,
	RunE: runReports,
}

func runReports(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if err := config.ResolvePassword(&cfg.Database); err != nil {
		logger.Warn("password lookup failed", zap.Error(err))
	}

	v, err := newViewer(cfg.Output.Viewer)
	if err != nil {
		return &app.ErrConfig{Cause: err}
	}

	opts := app.Options{
		Printer:       table.New(os.Stdout),
		Viewer:        v,
		ChartDir:      cfg.Output.ChartDir,
		ChartFormat:   cfg.Output.ChartFormat,
		ExportDir:     cfg.Output.ExportDir,
		ExportFormats: cfg.Output.ExportFormats,
		Logger:        logger,
	}
	if cfg.Output.HistoryPath != "" {
		store, err := history.Open(cfg.Output.HistoryPath)
		if err != nil {
			logger.Warn("run history disabled", zap.Error(err))
		} else {
			defer store.Close()
			opts.History = store
		}
	}

	names := args
	if len(names) == 0 {
		names = cfg.Reports
	}

	service := app.NewService(postgres.New(), opts)
	sum, err := service.Run(cmd.Context(), cfg.Database, names)
	if err != nil {
		return err
	}
	logger.Info("run finished",
		zap.String("run_id", sum.RunID),
		zap.Int64("total_records", sum.TotalRecords),
		zap.Int("charts", len(sum.Charts)))
	return nil
}

// newViewer picks the chart viewer. Only the window viewer needs fyne.
func newViewer(kind string) (app.Viewer, error) {
	if kind == config.ViewerWindow {
		return window.New(logger), nil
	}
	return viewer.New(kind, os.Stdout)
}

// loadConfig reads the config file and applies command-line overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, &app.ErrConfig{Cause: err}
	}

	if dsn != "" {
		conn, err := config.ParseDSN(dsn)
		if err != nil {
			return nil, &app.ErrConfig{Cause: fmt.Errorf("--dsn: %w", err)}
		}
		cfg.Database = conn
	}
	if viewerKind != "" {
		cfg.Output.Viewer = viewerKind
	}
	if chartDir != "" {
		cfg.Output.ChartDir = chartDir
	}
	if exportDir != "" {
		cfg.Output.ExportDir = exportDir
	}
	if len(exportFormats) > 0 {
		cfg.Output.ExportFormats = exportFormats
	}

	if err := cfg.Validate(); err != nil {
		return nil, &app.ErrConfig{Cause: err}
	}
	return cfg, nil
}
