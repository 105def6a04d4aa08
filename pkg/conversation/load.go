package conversation

import (
	"encoding/json"
	"fmt"
	"os"
)

// Parse decodes a single exported conversation.
func Parse(data []byte) (*Record, error) {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parsing conversation: %w", err)
	}
	return &rec, nil
}

// Load reads and decodes a single-conversation JSON file. A missing file is
// a hard error propagated to the caller.
func Load(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading conversation file: %w", err)
	}
	return Parse(data)
}
