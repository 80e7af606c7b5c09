package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/telhawk-systems/telhawk-assist/internal/models"
	"github.com/telhawk-systems/telhawk-assist/internal/output"
	"github.com/telhawk-systems/telhawk-assist/internal/stats"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Compute dashboard statistics",
	Long:  "Compute the dashboard statistics from the alert store and print them",
	RunE: func(cmd *cobra.Command, args []string) error {
		printer, err := printerFor(cmd)
		if err != nil {
			return err
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger(cfg, os.Stderr)

		store, err := openStore(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer store.Close()

		result := stats.NewPipeline(store, logger).Compute(cmd.Context())
		return printStats(cmd.OutOrStdout(), printer, result)
	},
}

func printStats(w io.Writer, printer *output.Printer, s models.DashboardStats) error {
	if wrote, err := printer.Structured(s); wrote || err != nil {
		return err
	}

	summary := output.NewTable("METRIC", "VALUE")
	summary.AddRow("Alerts today", strconv.FormatInt(s.AlertsToday, 10))
	summary.AddRow("Critical alerts", strconv.FormatInt(s.CriticalAlerts, 10))
	summary.AddRow("High alerts", strconv.FormatInt(s.HighAlerts, 10))
	summary.AddRow("Total alerts", strconv.FormatInt(s.TotalAlerts, 10))
	summary.AddRow("AI processed", strconv.FormatInt(s.AIProcessed, 10))
	summary.AddRow("AI analyzed", strconv.FormatInt(s.AIAnalyzed, 10))
	summary.AddRow("System health", s.SystemHealth)
	summary.AddRow("Change vs yesterday", fmt.Sprintf("%.1f%%", s.AlertsChange))
	summary.Render(w)

	if len(s.AlertTrends) > 0 {
		fmt.Fprintln(w)
		trend := output.NewTable("MONTH", "ALERTS")
		for _, p := range s.AlertTrends {
			trend.AddRow(p.Date, strconv.FormatInt(p.Count, 10))
		}
		trend.Render(w)
	}

	if len(s.SeverityDist) > 0 {
		fmt.Fprintln(w)
		dist := output.NewTable("SEVERITY", "ALERTS")
		for _, b := range s.SeverityDist {
			dist.AddRow(b.Severity, strconv.FormatInt(b.Count, 10))
		}
		dist.Render(w)
	}

	if len(s.TopThreats) > 0 {
		fmt.Fprintln(w)
		threats := output.NewTable("THREAT", "ALERTS")
		for _, b := range s.TopThreats {
			threats.AddRow(b.Category, strconv.FormatInt(b.Count, 10))
		}
		threats.Render(w)
	}
	return nil
}
