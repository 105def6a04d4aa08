// Package splitcmder provides the `spool split` CLI command.
package splitcmder

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spoolworks/spool/pkg/cliui"
	"github.com/spoolworks/spool/pkg/config"
	"github.com/spoolworks/spool/pkg/splitter"
)

const splitLongDesc string = `Split a bulk ChatGPT export into one JSON file per conversation.

Conversations are written under <output>/YYYY/MM/YYYY-MM-DD-<title>.json and
an index.json describing every conversation is generated alongside them.
Conversations without a create_time are counted as errors and skipped;
a bad record never stops the run.

With --index-db, the index is additionally written to a SQLite database so
large archives can be queried directly.

Examples:
  spool split conversations.json
  spool split conversations.json --output raw/
  spool split conversations.json --index-db spool.db`

const splitShortDesc string = "Split a bulk export into per-conversation files"

type splitCommander struct {
	output  string
	indexDB string
	v       *viper.Viper
}

// NewSplitCmd creates the split cobra command.
func NewSplitCmd() *cobra.Command {
	cmder := &splitCommander{}

	cmd := &cobra.Command{
		Use:   "split <conversations.json>",
		Short: splitShortDesc,
		Long:  splitLongDesc,
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			v, err := config.InitViper(configDir)
			if err != nil {
				return err
			}
			_ = v.BindPFlag("split.output_dir", cmd.Flags().Lookup("output"))
			_ = v.BindPFlag("split.index_db", cmd.Flags().Lookup("index-db"))
			cmder.v = v
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd, args[0])
		},
	}

	cmd.Flags().StringVarP(&cmder.output, "output", "o", "", "Output directory for per-conversation files")
	cmd.Flags().StringVar(&cmder.indexDB, "index-db", "", "Also write the index to a SQLite database at this path")

	return cmd
}

func (c *splitCommander) run(cmd *cobra.Command, input string) error {
	opts := splitter.Options{
		OutputBase: c.v.GetString("split.output_dir"),
		IndexDB:    c.v.GetString("split.index_db"),
	}

	var result *splitter.Result
	err := cliui.Step(cmd.OutOrStdout(), fmt.Sprintf("Splitting %s", input), func() error {
		var err error
		result, err = splitter.Split(cmd.Context(), input, opts)
		return err
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), result.Summary())
	return nil
}
