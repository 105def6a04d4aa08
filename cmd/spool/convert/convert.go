// Package convertcmder provides the `spool convert` CLI command.
package convertcmder

import (
	"github.com/spf13/cobra"

	"github.com/spoolworks/spool/pkg/logger"
	"github.com/spoolworks/spool/pkg/markdown"
)

const convertLongDesc string = `Convert one conversation JSON file to a markdown document.

The output path defaults to the input path with a .md extension.

Examples:
  spool convert raw/2024/01/2024-01-15-some-thread.json
  spool convert raw/2024/01/2024-01-15-some-thread.json notes/thread.md`

const convertShortDesc string = "Convert a single conversation file to markdown"

type convertCommander struct{}

// NewConvertCmd creates the convert cobra command.
func NewConvertCmd() *cobra.Command {
	cmder := &convertCommander{}

	cmd := &cobra.Command{
		Use:   "convert <input.json> [output.md]",
		Short: convertShortDesc,
		Long:  convertLongDesc,
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := ""
			if len(args) > 1 {
				output = args[1]
			}
			return cmder.run(cmd, args[0], output)
		},
	}

	return cmd
}

func (c *convertCommander) run(cmd *cobra.Command, input, output string) error {
	debug, _ := cmd.Flags().GetBool("debug")
	log := logger.New(
		logger.WithPretty(true),
		logger.WithDebug(debug),
		logger.WithSource(debug),
		logger.WithWriter(cmd.OutOrStdout()),
	)

	converter := &markdown.Converter{}
	result, err := converter.ConvertFile(input, output)
	if err != nil {
		return err
	}

	for _, diag := range result.Diagnostics {
		log.Info("skipped unrecognized content type",
			"content_type", diag.ContentType,
			"node", diag.NodeID,
		)
	}

	if result.Skipped {
		log.Warn("no messages found, nothing written", "input", input)
		return nil
	}

	log.Info("converted", "output", result.OutputPath, "turns", result.Turns)
	return nil
}
