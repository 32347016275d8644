package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	configPath    string
	dsn           string
	viewerKind    string
	chartDir      string
	exportDir     string
	exportFormats []string
	verbose       bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "rentalviz",
	Short: "Rental analysis reports from the pagila data warehouse",
	Long: `rentalviz queries vw_rental_analysis, prints each report as a table
and renders it as a chart.

Run without arguments to produce every report.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runReports,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: ~/.rentalviz/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dsn, "dsn", "", "PostgreSQL connection string (overrides the config file)")
	rootCmd.PersistentFlags().StringVar(&viewerKind, "viewer", "", "Chart viewer: window, terminal or none")
	rootCmd.PersistentFlags().StringVar(&chartDir, "chart-dir", "", "Directory charts are written to")
	rootCmd.PersistentFlags().StringVar(&exportDir, "export-dir", "", "Directory report data is exported to")
	rootCmd.PersistentFlags().StringSliceVar(&exportFormats, "export-format", nil, "Export format: csv, json or parquet (repeatable)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "Number of runs to show")
	initCmd.Flags().StringVar(&initPath, "path", "", "Where to write the config file")
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")

	rootCmd.AddCommand(runCmd, listCmd, historyCmd, initCmd, setPasswordCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		if logger != nil {
			logger.Error("rentalviz failed", zap.Error(err))
			_ = logger.Sync()
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
