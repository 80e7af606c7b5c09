package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/telhawk-systems/telhawk-assist/internal/models"
	"github.com/telhawk-systems/telhawk-assist/internal/output"
)

var askUser string

var askCmd = &cobra.Command{
	Use:   "ask [message]",
	Short: "Ask the assistant a single question",
	Long: `Send one message through the assistant and print the reply.

Examples:
  assist ask "show me critical alerts from today"
  assist ask --user analyst1 "give me a security summary"`,
	Args: cobra.MinimumNArgs(1),
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

		a, err := newApp(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()

		reply, err := a.service.HandleMessage(cmd.Context(), askUser, strings.Join(args, " "), nil)
		if err != nil {
			return err
		}
		return printReply(cmd.OutOrStdout(), printer, reply)
	},
}

func init() {
	askCmd.Flags().StringVar(&askUser, "user", "cli", "user id the turn is recorded under")
}

func printReply(w io.Writer, printer *output.Printer, reply *models.ChatReply) error {
	if wrote, err := printer.Structured(reply); wrote || err != nil {
		return err
	}
	if reply.ToolUsed {
		fmt.Fprintf(w, "[tool: %s]\n", reply.ToolName)
	}
	_, err := fmt.Fprintln(w, reply.Response)
	return err
}
