// Package batchcmder provides the `spool batch` CLI command.
package batchcmder

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spoolworks/spool/pkg/batch"
	"github.com/spoolworks/spool/pkg/config"
	"github.com/spoolworks/spool/pkg/logger"
)

const batchLongDesc string = `Convert every conversation JSON file under a directory to markdown.

The input tree layout is preserved in the output directory with .md
extensions; index.json files are skipped. Conversions run in parallel and
per-file problems never stop the run. Diagnostics, empty conversations, and
errors are collected into a run log.

With --watch, spool keeps running after the initial pass and converts files
as they are created or modified (e.g. while a split is in progress).

Examples:
  spool batch raw/
  spool batch raw/ markdown/
  spool batch raw/ ~/vault/GPT_LOG --workers 8
  spool batch raw/ markdown/ --watch`

const batchShortDesc string = "Convert a directory of conversation files to markdown"

type batchCommander struct {
	workers uint
	logFile string
	watch   bool
	v       *viper.Viper
}

// NewBatchCmd creates the batch cobra command.
func NewBatchCmd() *cobra.Command {
	cmder := &batchCommander{}

	cmd := &cobra.Command{
		Use:   "batch <input-dir> [output-dir]",
		Short: batchShortDesc,
		Long:  batchLongDesc,
		Args:  cobra.RangeArgs(1, 2),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			v, err := config.InitViper(configDir)
			if err != nil {
				return err
			}
			_ = v.BindPFlag("batch.workers", cmd.Flags().Lookup("workers"))
			_ = v.BindPFlag("batch.log_file", cmd.Flags().Lookup("log-file"))
			cmder.v = v
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			output := ""
			if len(args) > 1 {
				output = args[1]
			}
			return cmder.run(cmd, args[0], output)
		},
	}

	cmd.Flags().UintVarP(&cmder.workers, "workers", "w", 0, "Number of conversion workers")
	cmd.Flags().StringVar(&cmder.logFile, "log-file", "", "Run log path")
	cmd.Flags().BoolVar(&cmder.watch, "watch", false, "Keep watching the input directory after the initial pass")

	return cmd
}

func (c *batchCommander) run(cmd *cobra.Command, inputDir, outputDir string) error {
	debug, _ := cmd.Flags().GetBool("debug")
	log := logger.New(
		logger.WithPretty(true),
		logger.WithDebug(debug),
		logger.WithSource(debug),
		logger.WithWriter(cmd.OutOrStdout()),
	)

	if outputDir == "" {
		outputDir = c.v.GetString("convert.output_dir")
	}

	runner := batch.NewRunner(batch.Options{
		Workers: c.v.GetUint("batch.workers"),
		LogFile: c.v.GetString("batch.log_file"),
		Logger:  log,
	})

	result, err := runner.Run(cmd.Context(), inputDir, outputDir)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), result.Summary())

	if c.watch {
		return runner.Watch(cmd.Context(), inputDir, outputDir)
	}

	return nil
}
