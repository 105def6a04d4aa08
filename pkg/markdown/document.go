package markdown

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/spoolworks/spool/pkg/conversation"
)

const secondsPerDay = 86400

// Document is one rendered conversation.
type Document struct {
	Content     string
	Turns       int
	Diagnostics []Diagnostic
}

// Generate builds the Turn sequence for rec and assembles the full document.
// Returns ErrNoTurns when the conversation is structurally empty and
// ErrMalformedGraph when the mapping contains a cycle. The returned Document
// carries diagnostics even on failure so callers can still report them.
func Generate(rec *conversation.Record, loc *time.Location) (*Document, error) {
	turns, diags, err := BuildTurns(rec.Mapping)
	doc := &Document{Turns: len(turns), Diagnostics: diags}
	if err != nil {
		return doc, err
	}
	if len(turns) == 0 {
		return doc, ErrNoTurns
	}
	doc.Content = assemble(rec, turns, loc)
	return doc, nil
}

// assemble renders front matter, header, and one body section per
// qualifying Turn.
func assemble(rec *conversation.Record, turns []Turn, loc *time.Location) string {
	title := strings.TrimSpace(rec.Title)
	if title == "" {
		title = "Untitled"
	}

	// The root user message's own create_time is unreliable in the export,
	// so the conversation create_time stands in for the first message.
	first := rec.CreateTime
	last := lastMessageTime(turns)

	durationDays := 0
	if first != nil && last != nil {
		durationDays = int(math.Floor((*last - *first) / secondsPerDay))
	}

	// Turn 0 is reserved bookkeeping and excluded from the count.
	turnCount := 0
	for _, t := range turns {
		if t.Number > 0 {
			turnCount++
		}
	}

	var b strings.Builder

	fmt.Fprintf(&b, "---\n")
	fmt.Fprintf(&b, "title: %s\n", title)
	fmt.Fprintf(&b, "date: %s\n", FormatTimestamp(rec.CreateTime, loc))
	fmt.Fprintf(&b, "date-update: %s\n", FormatTimestamp(rec.UpdateTime, loc))
	fmt.Fprintf(&b, "first-message-date: %s\n", FormatTimestamp(first, loc))
	fmt.Fprintf(&b, "last-message-date: %s\n", FormatTimestamp(last, loc))
	fmt.Fprintf(&b, "duration-days: %d\n", durationDays)
	fmt.Fprintf(&b, "turn-count: %d\n", turnCount)
	fmt.Fprintf(&b, "---\n")

	fmt.Fprintf(&b, "\n# %s\n\n", title)
	fmt.Fprintf(&b, "**Message span**: %s — %s (%d days)\n",
		FormatTimestamp(first, loc), FormatTimestamp(last, loc), durationDays)
	fmt.Fprintf(&b, "**Turns**: %d\n", turnCount)

	var sections []string
	for _, turn := range turns {
		// Turn 0 renders only when its user message carries real content.
		if turn.Number == 0 {
			if _, _, keep := ExtractContent(turn.User.Message); !keep {
				continue
			}
		}
		sections = append(sections, renderTurn(turn, loc))
	}

	b.WriteString(strings.Join(sections, "\n"))
	return b.String()
}

// lastMessageTime is the create_time of the final assistant branch of the
// final Turn, or the final Turn's user message when no branches exist.
func lastMessageTime(turns []Turn) *float64 {
	if len(turns) == 0 {
		return nil
	}
	final := turns[len(turns)-1]
	if n := len(final.Assistants); n > 0 {
		return final.Assistants[n-1].Message.CreateTime
	}
	return final.User.Message.CreateTime
}

func renderTurn(turn Turn, loc *time.Location) string {
	var s strings.Builder

	fmt.Fprintf(&s, "\n# Turn %02d\n", turn.Number)

	userContent, _, _ := ExtractContent(turn.User.Message)
	fmt.Fprintf(&s, "\n## User\n\n%s\n\n---\n\n**Sent:** %s\n\n---\n",
		DemoteHeadings(userContent),
		FormatTimestamp(turn.User.Message.CreateTime, loc))

	if len(turn.Assistants) == 0 {
		// No reply exists for this exchange; consecutive rules mark the
		// empty placeholder.
		s.WriteString("\n## Assistant\n\n---\n\n---\n")
		return s.String()
	}

	for _, branch := range turn.Assistants {
		content, _, _ := ExtractContent(branch.Message)
		content = DemoteHeadings(content)

		fmt.Fprintf(&s, "\n## Assistant\n\n%s\n\n---\n", content)
		if content != "" {
			fmt.Fprintf(&s, "\n**Model:** %s\n**Sent:** %s\n",
				branch.Message.ModelSlug(),
				FormatTimestamp(branch.Message.CreateTime, loc))
		}
		s.WriteString("\n---\n")
	}

	return s.String()
}
