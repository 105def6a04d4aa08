// Package statscmder provides the `spool stats` CLI command.
package statscmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spoolworks/spool/pkg/stats"
)

const statsLongDesc string = `Report statistics over a bulk ChatGPT export.

Reads conversations.json and prints model, role, content-type, and payload
shape distributions. The export is read-only; no documents are generated.

Examples:
  spool stats conversations.json`

const statsShortDesc string = "Report statistics over a bulk export"

type statsCommander struct{}

// NewStatsCmd creates the stats cobra command.
func NewStatsCmd() *cobra.Command {
	cmder := &statsCommander{}

	cmd := &cobra.Command{
		Use:   "stats <conversations.json>",
		Short: statsShortDesc,
		Long:  statsLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd, args[0])
		},
	}

	return cmd
}

func (c *statsCommander) run(cmd *cobra.Command, input string) error {
	report, err := stats.AnalyzeFile(input)
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), report.Summary())
	return nil
}
