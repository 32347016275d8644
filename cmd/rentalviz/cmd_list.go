package main

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/joacominatel/rentalviz/internal/database"
	"github.com/joacominatel/rentalviz/internal/history"
	"github.com/joacominatel/rentalviz/internal/render/table"
	"github.com/joacominatel/rentalviz/internal/report"
	"github.com/spf13/cobra"
)

var historyLimit int

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available reports",
	Args:  cobra.NoArgs,
	RunE:  listReports,
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent runs",
	Args:  cobra.NoArgs,
	RunE:  showHistory,
}

func listReports(cmd *cobra.Command, args []string) error {
	res := &database.QueryResult{Columns: []string{"report", "heading", "chart"}}
	for _, def := range report.Builtin() {
		res.Rows = append(res.Rows, []any{def.Name, def.Heading, string(def.Chart.Kind)})
	}
	res.RowCount = len(res.Rows)

	table.New(os.Stdout).Table(res)
	return nil
}

func showHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := history.Open(cfg.Output.HistoryPath)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	runs, err := store.List(ctx, historyLimit)
	if err != nil {
		return err
	}

	p := table.New(os.Stdout)
	if len(runs) == 0 {
		p.Notice("No runs recorded.")
		return nil
	}
	p.Table(historyTable(runs))
	return nil
}

func historyTable(runs []history.Run) *database.QueryResult {
	res := &database.QueryResult{
		Columns: []string{"run", "started", "status", "target", "total_records", "reports"},
	}
	for _, r := range runs {
		reports := make([]string, len(r.Reports))
		for i, e := range r.Reports {
			reports[i] = e.Report
		}
		res.Rows = append(res.Rows, []any{
			r.ID,
			r.StartedAt.Local().Format(time.DateTime),
			r.Status,
			r.Target,
			r.TotalRecords,
			strings.Join(reports, ","),
		})
	}
	res.RowCount = len(res.Rows)
	return res
}
