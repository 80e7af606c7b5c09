package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/telhawk-systems/telhawk-assist/common/logging"
	"github.com/telhawk-systems/telhawk-assist/internal/config"
	"github.com/telhawk-systems/telhawk-assist/internal/output"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "assist",
	Short: "TelHawk security assistant",
	Long: `assist answers natural-language questions about security alerts.

It runs the chat and dashboard API, and offers one-shot commands for
asking questions, computing dashboard statistics and seeding demo alerts.`,
	Version:      "0.1.0",
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml or /etc/telhawk/assist/config.yaml)")
	rootCmd.PersistentFlags().StringP("output", "o", output.FormatTable, "output format: table, json, yaml")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(toolsCmd)
	rootCmd.AddCommand(seedCmd)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// newLogger builds the process logger. One-shot commands log to stderr so
// stdout carries only command output.
func newLogger(cfg *config.Config, w io.Writer) *logging.Logger {
	logger := logging.NewWithWriter(w, logging.ParseLevel(cfg.Logging.Level), cfg.Logging.Format)
	logging.SetDefault(logger)
	return logger
}

func printerFor(cmd *cobra.Command) (*output.Printer, error) {
	format, _ := cmd.Flags().GetString("output")
	return output.NewPrinter(cmd.OutOrStdout(), format)
}
