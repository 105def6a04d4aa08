// Package stats produces read-only statistics over a bulk conversation
// export: model distribution, role and content-type counts, and payload
// field shapes. It never touches converter output.
package stats

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spoolworks/spool/pkg/conversation"
)

// ExportReport aggregates counters over every conversation in an export.
type ExportReport struct {
	Conversations int
	Nodes         int
	Messages      int

	// Models counts conversations by default_model_slug; ModelUnset counts
	// conversations without one.
	Models     map[string]int
	ModelUnset int

	Roles        map[string]int
	ContentTypes map[string]int

	// MissingCreateTime counts messages without a create_time, by role.
	// Assistant messages usually have one; hidden context rarely does.
	MissingCreateTime map[string]int

	// Payload shape: which of parts/text each message content carried.
	PartsOnly int
	TextOnly  int
	Both      int
	Neither   int
}

// AnalyzeFile reads a bulk export (a JSON array of conversations) and
// analyzes it.
func AnalyzeFile(path string) (*ExportReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading export: %w", err)
	}

	var recs []*conversation.Record
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("parsing export: %w", err)
	}

	return Analyze(recs), nil
}

// Analyze walks every node of every conversation and counts.
func Analyze(recs []*conversation.Record) *ExportReport {
	r := &ExportReport{
		Models:            make(map[string]int),
		Roles:             make(map[string]int),
		ContentTypes:      make(map[string]int),
		MissingCreateTime: make(map[string]int),
	}

	for _, rec := range recs {
		if rec == nil {
			continue
		}
		r.Conversations++

		if rec.DefaultModelSlug == "" {
			r.ModelUnset++
		} else {
			r.Models[rec.DefaultModelSlug]++
		}

		r.Nodes += len(rec.Mapping)
		for _, node := range rec.Mapping {
			if node == nil || node.Message == nil {
				continue
			}
			r.Messages++

			msg := node.Message
			role := msg.Author.Role
			if role == "" {
				role = "unknown"
			}
			r.Roles[role]++

			ct := msg.Content.ContentType
			if ct == "" {
				ct = "unknown"
			}
			r.ContentTypes[ct]++

			if msg.CreateTime == nil {
				r.MissingCreateTime[role]++
			}

			hasParts := msg.Content.HasParts()
			hasText := msg.Content.Text != ""
			switch {
			case hasParts && hasText:
				r.Both++
			case hasParts:
				r.PartsOnly++
			case hasText:
				r.TextOnly++
			default:
				r.Neither++
			}
		}
	}

	return r
}

// Summary renders the report as plain text, counters sorted by frequency.
func (r *ExportReport) Summary() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Conversations: %d\n", r.Conversations)
	fmt.Fprintf(&b, "Nodes: %d (messages: %d)\n", r.Nodes, r.Messages)

	fmt.Fprintf(&b, "\nModels:\n")
	if r.ModelUnset > 0 {
		fmt.Fprintf(&b, "  (unset): %d\n", r.ModelUnset)
	}
	writeSorted(&b, r.Models)

	fmt.Fprintf(&b, "\nRoles:\n")
	writeSorted(&b, r.Roles)

	fmt.Fprintf(&b, "\nContent types:\n")
	writeSorted(&b, r.ContentTypes)

	fmt.Fprintf(&b, "\nMessages without create_time:\n")
	writeSorted(&b, r.MissingCreateTime)

	fmt.Fprintf(&b, "\nPayload shape: parts=%d text=%d both=%d neither=%d\n",
		r.PartsOnly, r.TextOnly, r.Both, r.Neither)

	return b.String()
}

func writeSorted(b *strings.Builder, counts map[string]int) {
	type kv struct {
		key   string
		count int
	}

	sorted := make([]kv, 0, len(counts))
	for k, v := range counts {
		sorted = append(sorted, kv{k, v})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].count != sorted[j].count {
			return sorted[i].count > sorted[j].count
		}
		return sorted[i].key < sorted[j].key
	})

	for _, e := range sorted {
		fmt.Fprintf(b, "  %s: %d\n", e.key, e.count)
	}
}
