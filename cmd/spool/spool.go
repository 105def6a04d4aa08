// Package spoolcmder
package spoolcmder

import (
	"github.com/spf13/cobra"

	batchcmder "github.com/spoolworks/spool/cmd/spool/batch"
	configcmder "github.com/spoolworks/spool/cmd/spool/config"
	convertcmder "github.com/spoolworks/spool/cmd/spool/convert"
	previewcmder "github.com/spoolworks/spool/cmd/spool/preview"
	splitcmder "github.com/spoolworks/spool/cmd/spool/split"
	statscmder "github.com/spoolworks/spool/cmd/spool/stats"
	versioncmder "github.com/spoolworks/spool/cmd/version"
)

const spoolLongDesc string = `Spool turns ChatGPT conversation exports into a markdown archive.

Work an export using:
  spool split      Split conversations.json into per-conversation files
  spool batch      Convert a directory of conversation files to markdown
  spool convert    Convert a single conversation file
  spool stats      Report statistics over a bulk export
  spool preview    Render a conversation in the terminal`

const spoolShortDesc string = "Spool - Conversation Export Archiver"

func NewSpoolCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spool",
		Short: spoolShortDesc,
		Long:  spoolLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override the .spool/ config directory")

	// Add subcommands
	cmd.AddCommand(convertcmder.NewConvertCmd())
	cmd.AddCommand(batchcmder.NewBatchCmd())
	cmd.AddCommand(splitcmder.NewSplitCmd())
	cmd.AddCommand(statscmder.NewStatsCmd())
	cmd.AddCommand(previewcmder.NewPreviewCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
