package splitter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// IndexEntry is one conversation in index.json. The update_time field is
// what later runs compare against to detect changed conversations across
// exports.
type IndexEntry struct {
	Path         string   `json:"path"`
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	CreateTime   *float64 `json:"create_time"`
	UpdateTime   *float64 `json:"update_time"`
	MessageCount int      `json:"message_count"`
	Model        *string  `json:"model"`
}

// WriteIndex sorts entries by create_time (oldest first) and writes
// index.json into dir. Returns the index path.
func WriteIndex(dir string, entries []IndexEntry) (string, error) {
	sort.SliceStable(entries, func(i, j int) bool {
		return createTimeOrZero(entries[i]) < createTimeOrZero(entries[j])
	})

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding index: %w", err)
	}

	path := filepath.Join(dir, "index.json")
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("writing index: %w", err)
	}

	return path, nil
}

func createTimeOrZero(e IndexEntry) float64 {
	if e.CreateTime == nil {
		return 0
	}
	return *e.CreateTime
}
