// Package splitter partitions a bulk ChatGPT export (conversations.json, a
// JSON array of conversation objects) into one JSON file per conversation
// under a date-based directory tree, plus an index of all conversations.
package splitter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const maxTitleLen = 50

var invalidFilenameChars = regexp.MustCompile(`[/\\:*?"<>|]`)

// Options configures a split run.
type Options struct {
	// OutputBase is the directory the per-conversation tree is written
	// under. Defaults to "raw" next to the input file.
	OutputBase string

	// IndexDB, when set, additionally writes the index into a SQLite
	// database at this path.
	IndexDB string
}

// Result contains statistics from a split run.
type Result struct {
	Total     int
	Split     int
	Errors    int
	OutputDir string
	IndexPath string
}

// Summary returns a human-readable summary of the split result.
func (r *Result) Summary() string {
	return fmt.Sprintf(
		"Split complete: %d of %d conversations written (%d errors)\n"+
			"Output: %s\nIndex: %s",
		r.Split, r.Total, r.Errors, r.OutputDir, r.IndexPath,
	)
}

// convMeta is the subset of a conversation object the splitter needs for
// naming and indexing. The full raw object is what gets written out, so
// unknown fields survive the round trip untouched.
type convMeta struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	CreateTime *float64 `json:"create_time"`
	UpdateTime *float64 `json:"update_time"`
	ModelSlug  *string  `json:"default_model_slug"`
	Mapping    map[string]struct {
		Message json.RawMessage `json:"message"`
	} `json:"mapping"`
}

// Split reads the bulk export at inputPath and writes one file per
// conversation. Per-conversation failures are counted, never fatal; a run
// over 1200 threads should not die on one bad record.
func Split(ctx context.Context, inputPath string, opts Options) (*Result, error) {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return nil, fmt.Errorf("reading export: %w", err)
	}

	var convs []json.RawMessage
	if err := json.Unmarshal(data, &convs); err != nil {
		return nil, fmt.Errorf("parsing export: %w", err)
	}

	base := opts.OutputBase
	if base == "" {
		base = filepath.Join(filepath.Dir(inputPath), "raw")
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	result := &Result{Total: len(convs), OutputDir: base}
	var entries []IndexEntry

	for _, raw := range convs {
		entry, err := splitOne(raw, base)
		if err != nil {
			result.Errors++
			continue
		}
		entries = append(entries, *entry)
		result.Split++
	}

	indexPath, err := WriteIndex(base, entries)
	if err != nil {
		return result, err
	}
	result.IndexPath = indexPath

	if opts.IndexDB != "" {
		if err := WriteIndexDB(ctx, opts.IndexDB, entries); err != nil {
			return result, err
		}
	}

	return result, nil
}

// splitOne writes a single conversation and returns its index entry.
func splitOne(raw json.RawMessage, base string) (*IndexEntry, error) {
	var meta convMeta
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, fmt.Errorf("decoding conversation: %w", err)
	}

	// create_time names the file; without it there is nowhere to put the
	// conversation in the date tree.
	if meta.CreateTime == nil {
		return nil, fmt.Errorf("conversation %q has no create_time", meta.ID)
	}

	created := time.Unix(int64(*meta.CreateTime), 0)
	dir := filepath.Join(base, created.Format("2006"), created.Format("01"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating date directory: %w", err)
	}

	name := fmt.Sprintf("%s-%s.json", created.Format("2006-01-02"), SanitizeTitle(meta.Title))
	outPath := dedupePath(filepath.Join(dir, name))

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		return nil, fmt.Errorf("formatting conversation: %w", err)
	}
	if err := os.WriteFile(outPath, pretty.Bytes(), 0o644); err != nil {
		return nil, fmt.Errorf("writing conversation: %w", err)
	}

	rel, err := filepath.Rel(base, outPath)
	if err != nil {
		rel = outPath
	}

	id := meta.ID
	if id == "" {
		id = "unknown"
	}

	messageCount := 0
	for _, node := range meta.Mapping {
		if len(node.Message) > 0 && string(node.Message) != "null" {
			messageCount++
		}
	}

	return &IndexEntry{
		Path:         filepath.ToSlash(rel),
		ID:           id,
		Title:        meta.Title,
		CreateTime:   meta.CreateTime,
		UpdateTime:   meta.UpdateTime,
		MessageCount: messageCount,
		Model:        meta.ModelSlug,
	}, nil
}

// SanitizeTitle strips filesystem-hostile characters from a conversation
// title and bounds its length. An empty result becomes "untitled".
func SanitizeTitle(title string) string {
	s := invalidFilenameChars.ReplaceAllString(title, "")
	s = strings.TrimSpace(s)
	if s == "" {
		return "untitled"
	}

	runes := []rune(s)
	if len(runes) > maxTitleLen {
		s = strings.TrimRight(string(runes[:maxTitleLen]), " ")
	}
	return s
}

// dedupePath appends _1, _2, ... when a file with the same name already
// exists (same day, same title).
func dedupePath(path string) string {
	if _, err := os.Stat(path); err != nil {
		return path
	}

	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s_%d%s", stem, i, ext)
		if _, err := os.Stat(candidate); err != nil {
			return candidate
		}
	}
}
