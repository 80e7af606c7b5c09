package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/telhawk-systems/telhawk-assist/internal/seeder"
)

var (
	seedCount      int
	seedTimeSpread string
	seedBatchSize  int
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load generated demo alerts into the alert store",
	Long: `Generate realistic alerts and bulk load them into PostgreSQL.

Examples:
  # 500 alerts spread across the last 30 days
  assist seed --count 500 --time-spread 720h

  # Only the last day
  assist seed --count 50 --time-spread 24h`,
	RunE: func(cmd *cobra.Command, args []string) error {
		spread, err := time.ParseDuration(seedTimeSpread)
		if err != nil {
			return fmt.Errorf("invalid time spread: %w", err)
		}
		if seedCount <= 0 {
			return fmt.Errorf("count must be positive")
		}
		if seedBatchSize <= 0 {
			return fmt.Errorf("batch size must be positive")
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

		alerts := seeder.Generate(seedCount, spread)
		var inserted int64
		for start := 0; start < len(alerts); start += seedBatchSize {
			end := min(start+seedBatchSize, len(alerts))
			n, err := store.InsertAlerts(cmd.Context(), alerts[start:end])
			if err != nil {
				return fmt.Errorf("failed to insert alerts: %w", err)
			}
			inserted += n
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Inserted %d alerts spread over %s\n", inserted, spread)
		return nil
	},
}

func init() {
	seedCmd.Flags().IntVarP(&seedCount, "count", "c", 100, "number of alerts to generate")
	seedCmd.Flags().StringVarP(&seedTimeSpread, "time-spread", "t", "720h", "time period to spread alerts over")
	seedCmd.Flags().IntVar(&seedBatchSize, "batch-size", 500, "alerts per COPY batch")
}
