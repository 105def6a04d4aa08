// Package previewcmder provides the `spool preview` CLI command.
package previewcmder

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/spoolworks/spool/pkg/cliui"
	"github.com/spoolworks/spool/pkg/conversation"
	"github.com/spoolworks/spool/pkg/markdown"
)

const previewLongDesc string = `Render a conversation in the terminal.

Accepts either a generated .md document or a conversation .json file; JSON
input is converted in memory without writing anything. Output is styled when
stdout is a terminal and raw markdown otherwise.

Examples:
  spool preview markdown/2024/01/2024-01-15-some-thread.md
  spool preview raw/2024/01/2024-01-15-some-thread.json`

const previewShortDesc string = "Render a conversation in the terminal"

type previewCommander struct{}

// NewPreviewCmd creates the preview cobra command.
func NewPreviewCmd() *cobra.Command {
	cmder := &previewCommander{}

	cmd := &cobra.Command{
		Use:   "preview <file>",
		Short: previewShortDesc,
		Long:  previewLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd, args[0])
		},
	}

	return cmd
}

func (c *previewCommander) run(cmd *cobra.Command, path string) error {
	content, err := c.load(path)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if cliui.IsTerminal(out) {
		rendered, err := cliui.RenderMarkdown(content)
		if err == nil {
			content = rendered
		}
	}

	fmt.Fprint(out, content)
	return nil
}

func (c *previewCommander) load(path string) (string, error) {
	if filepath.Ext(path) != ".json" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	rec, err := conversation.Load(path)
	if err != nil {
		return "", err
	}

	doc, err := markdown.Generate(rec, nil)
	if err != nil {
		if errors.Is(err, markdown.ErrNoTurns) {
			return "", fmt.Errorf("%s: conversation has no renderable messages", path)
		}
		return "", err
	}

	return doc.Content, nil
}
