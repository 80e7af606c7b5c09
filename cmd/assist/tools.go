package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/telhawk-systems/telhawk-assist/internal/catalog"
	"github.com/telhawk-systems/telhawk-assist/internal/output"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tools the assistant can call",
	RunE: func(cmd *cobra.Command, args []string) error {
		printer, err := printerFor(cmd)
		if err != nil {
			return err
		}
		return printTools(cmd.OutOrStdout(), printer)
	},
}

// printTools writes the function definitions as sent to the engine, or a
// summary table.
func printTools(w io.Writer, printer *output.Printer) error {
	if wrote, err := printer.Structured(catalog.Definitions()); wrote || err != nil {
		return err
	}

	table := output.NewTable("TOOL", "PARAMETERS", "DESCRIPTION")
	for _, spec := range catalog.List() {
		params := make([]string, 0, len(spec.Params))
		for name, p := range spec.Params {
			if p.Required {
				name += "*"
			}
			params = append(params, name)
		}
		sort.Strings(params)
		table.AddRow(string(spec.Name), strings.Join(params, ","), spec.Description)
	}
	table.Render(w)
	fmt.Fprintln(w, "\n* required")
	return nil
}
