package markdown

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spoolworks/spool/pkg/conversation"
)

// Converter converts single-conversation JSON files into markdown documents.
// The zero value converts in the process's local time zone. Conversions are
// independent and idempotent; a Converter holds no mutable state, so one
// instance may be shared across goroutines.
type Converter struct {
	// Location controls timestamp rendering. Nil means time.Local.
	Location *time.Location
}

// Result describes one file conversion.
type Result struct {
	InputPath  string
	OutputPath string
	Turns      int
	// Skipped reports a structurally empty conversation: no document was
	// written. The caller decides whether to treat it as an error.
	Skipped     bool
	Diagnostics []Diagnostic
}

// ConvertFile reads a conversation JSON file and writes the rendered
// document to outputPath, or to the input path with a .md extension when
// outputPath is empty. A missing input file is a hard error; a structurally
// empty conversation returns a Result with Skipped set and no error.
func (c *Converter) ConvertFile(inputPath, outputPath string) (*Result, error) {
	if outputPath == "" {
		outputPath = replaceExt(inputPath, ".md")
	}

	rec, err := conversation.Load(inputPath)
	if err != nil {
		return nil, err
	}

	result := &Result{InputPath: inputPath, OutputPath: outputPath}

	doc, err := Generate(rec, c.Location)
	result.Diagnostics = doc.Diagnostics
	result.Turns = doc.Turns
	if err != nil {
		if errors.Is(err, ErrNoTurns) {
			result.Skipped = true
			return result, nil
		}
		return result, fmt.Errorf("converting %s: %w", inputPath, err)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return result, fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(outputPath, []byte(doc.Content), 0o644); err != nil {
		return result, fmt.Errorf("writing document: %w", err)
	}

	return result, nil
}

func replaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
