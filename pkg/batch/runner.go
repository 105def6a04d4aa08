// Package batch drives bulk conversion: it discovers per-conversation JSON
// files under a directory tree, converts each through pkg/markdown while
// preserving the tree layout, and aggregates successes, skips, errors, and
// diagnostics into a run report.
package batch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spoolworks/spool/pkg/logger"
	"github.com/spoolworks/spool/pkg/markdown"
	"github.com/spoolworks/spool/pkg/utils"
)

const (
	progressEvery = 10

	// maxSummaryPathLen bounds failing-file paths in the terminal summary.
	maxSummaryPathLen = 80
)

// Options configures a Runner.
type Options struct {
	// Workers is the conversion pool size (defaults to 4).
	Workers uint

	// LogFile is where the run log (diagnostics, skips, errors) is written.
	// Empty disables the run log.
	LogFile string

	// Location controls timestamp rendering in generated documents.
	Location *time.Location

	// Logger receives progress output. Defaults to a nop logger.
	Logger *slog.Logger
}

// FileError pairs a failed input file with its error.
type FileError struct {
	Path string
	Err  error
}

// Result contains statistics from one batch run.
type Result struct {
	RunID       string
	Total       int
	Converted   int
	Skipped     int
	Errored     int
	Diagnostics []markdown.Diagnostic
	Errors      []FileError
	LogPath     string
}

// Summary returns a human-readable summary of the batch result.
func (r *Result) Summary() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Batch complete: %d converted, %d skipped (empty), %d errored of %d files",
		r.Converted, r.Skipped, r.Errored, r.Total)
	if len(r.Diagnostics) > 0 {
		fmt.Fprintf(&b, "\nUnrecognized content types: %d occurrence(s)", len(r.Diagnostics))
	}
	if r.LogPath != "" {
		fmt.Fprintf(&b, "\nRun log: %s", r.LogPath)
	}

	// Show at most ten failing files; a run over a thousand threads can
	// bury the terminal otherwise.
	for i, fe := range r.Errors {
		if i == 10 {
			fmt.Fprintf(&b, "\n  ... and %d more", len(r.Errors)-10)
			break
		}
		fmt.Fprintf(&b, "\n  %s: %v", utils.Truncate(fe.Path, maxSummaryPathLen), fe.Err)
	}

	return b.String()
}

// Runner converts every conversation file under an input directory.
type Runner struct {
	opts      Options
	converter *markdown.Converter
	logger    *slog.Logger
}

// NewRunner creates a Runner.
func NewRunner(opts Options) *Runner {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Runner{
		opts:      opts,
		converter: &markdown.Converter{Location: opts.Location},
		logger:    log,
	}
}

// Run discovers and converts all files. When a run-log path is configured,
// per-file warnings and errors are fanned out to both the progress logger
// and a JSON log file.
func (r *Runner) Run(ctx context.Context, inputDir, outputDir string) (*Result, error) {
	files, err := Discover(inputDir)
	if err != nil {
		return nil, err
	}

	result := &Result{RunID: uuid.NewString(), Total: len(files)}

	runLog := r.logger
	if r.opts.LogFile != "" {
		f, err := os.Create(r.opts.LogFile)
		if err != nil {
			return nil, fmt.Errorf("creating run log: %w", err)
		}
		defer f.Close()

		fileLog := logger.New(logger.WithJSON(true), logger.WithWriter(f))
		runLog = logger.Multi(r.logger, fileLog)
		result.LogPath = r.opts.LogFile
	}

	runLog.Info("batch run starting", "run_id", result.RunID, "files", len(files))

	if len(files) == 0 {
		return result, nil
	}

	pool := NewPool(PoolConfig{
		Converter:  r.converter,
		NumWorkers: r.opts.Workers,
		Logger:     r.logger,
	})

	go func() {
		defer pool.Close()
		for _, f := range files {
			select {
			case <-ctx.Done():
				return
			default:
			}
			pool.Enqueue(Job{
				InputPath:  f,
				OutputPath: r.outputPath(inputDir, outputDir, f),
			})
		}
	}()

	done := 0
	for outcome := range pool.Results() {
		done++
		r.record(result, outcome, runLog)

		if done%progressEvery == 0 || done == len(files) {
			r.logger.Info("progress",
				"done", done,
				"total", len(files),
				"converted", result.Converted,
				"skipped", result.Skipped,
				"errored", result.Errored,
			)
		}
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	return result, nil
}

// record folds one outcome into the result and logs its warnings and errors.
func (r *Runner) record(result *Result, outcome Outcome, runLog *slog.Logger) {
	name := filepath.Base(outcome.Job.InputPath)

	if outcome.Err != nil {
		result.Errored++
		result.Errors = append(result.Errors, FileError{Path: outcome.Job.InputPath, Err: outcome.Err})
		runLog.Error("convert failed", "file", name, "err", outcome.Err)
		return
	}

	for _, d := range outcome.Result.Diagnostics {
		result.Diagnostics = append(result.Diagnostics, d)
		runLog.Info("skipped content type", "file", name, "content_type", d.ContentType, "node", d.NodeID)
	}

	if outcome.Result.Skipped {
		result.Skipped++
		runLog.Warn("no messages, nothing written", "file", name)
		return
	}

	result.Converted++
}

// outputPath maps an input file to its output location, preserving the
// directory tree and replacing the extension with .md.
func (r *Runner) outputPath(inputDir, outputDir, file string) string {
	rel, err := filepath.Rel(inputDir, file)
	if err != nil {
		rel = filepath.Base(file)
	}
	return strings.TrimSuffix(filepath.Join(outputDir, rel), filepath.Ext(rel)) + ".md"
}

// Discover returns all conversation JSON files under dir, recursively,
// excluding index.json (metadata, not a conversation). WalkDir order makes
// the listing deterministic.
func Discover(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("input directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("input is not a directory: %s", dir)
	}

	var files []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if filepath.Ext(path) == ".json" && d.Name() != "index.json" {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning input directory: %w", err)
	}

	return files, nil
}
