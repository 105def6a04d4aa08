package batch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch converts conversation files as they appear or change under
// inputDir, until ctx is cancelled. Run an initial pass first; Watch only
// handles what happens afterwards.
//
// Conversions are idempotent, so the duplicate Write events editors and
// sync tools produce just rewrite an identical document.
func (r *Runner) Watch(ctx context.Context, inputDir, outputDir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := addTree(watcher, inputDir); err != nil {
		return err
	}

	r.logger.Info("watching", "dir", inputDir)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			r.handleEvent(watcher, event, inputDir, outputDir)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.logger.Warn("watch error", "err", err)
		}
	}
}

func (r *Runner) handleEvent(watcher *fsnotify.Watcher, event fsnotify.Event, inputDir, outputDir string) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}

	// The splitter creates year/month directories on the fly, nested in one
	// MkdirAll call. Only the topmost directory produces a Create event, so
	// walk the whole new subtree: watch every directory in it and convert
	// any files that landed before the watches were in place.
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := addTree(watcher, event.Name); err != nil {
				r.logger.Warn("watching new directory", "dir", event.Name, "err", err)
			}
			files, err := Discover(event.Name)
			if err != nil {
				r.logger.Warn("scanning new directory", "dir", event.Name, "err", err)
				return
			}
			for _, f := range files {
				r.convertOne(f, inputDir, outputDir)
			}
			return
		}
	}

	if filepath.Ext(event.Name) != ".json" || filepath.Base(event.Name) == "index.json" {
		return
	}

	r.convertOne(event.Name, inputDir, outputDir)
}

func (r *Runner) convertOne(input, inputDir, outputDir string) {
	outcome, err := r.converter.ConvertFile(input, r.outputPath(inputDir, outputDir, input))
	switch {
	case err != nil:
		r.logger.Error("convert failed", "input", input, "err", err)
	case outcome.Skipped:
		r.logger.Warn("no messages, nothing written", "input", input)
	default:
		r.logger.Info("converted", "input", input, "output", outcome.OutputPath)
	}
}

func addTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if err := watcher.Add(path); err != nil {
				return fmt.Errorf("watching %s: %w", path, err)
			}
		}
		return nil
	})
}
