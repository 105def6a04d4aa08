package markdown

import (
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/spoolworks/spool/pkg/conversation"
)

func fptr(f float64) *float64 { return &f }

func timedMsg(role, text string, epoch float64) *conversation.Message {
	msg := textMsg(role, text)
	msg.CreateTime = fptr(epoch)
	return msg
}

var _ = Describe("Generate", func() {
	const createTime = 1740795968 // 2025-03-01T02:26 UTC

	var rec *conversation.Record

	BeforeEach(func() {
		a2 := timedMsg("assistant", "Take the coastal train.", createTime+216000)
		a2.Metadata = map[string]any{"model_slug": "gpt-4o"}

		rec = &conversation.Record{
			Title:      "Trip Planning",
			CreateTime: fptr(createTime),
			UpdateTime: fptr(createTime + 216000),
			Mapping: map[string]*conversation.Node{
				"root": node("", []string{"u1"}, nil),
				"u1":   node("root", []string{"a1"}, timedMsg("user", "Where should I go in March?", createTime)),
				"a1":   node("u1", []string{"u2"}, timedMsg("assistant", "Somewhere warm.", createTime+60)),
				"u2":   node("a1", []string{"a2"}, timedMsg("user", "How do I get there?", createTime+172800)),
				"a2":   node("u2", nil, a2),
			},
		}
	})

	It("renders front matter with the conversation metadata", func() {
		doc, err := Generate(rec, time.UTC)
		Expect(err).NotTo(HaveOccurred())

		Expect(doc.Content).To(HavePrefix(strings.Join([]string{
			"---",
			"title: Trip Planning",
			"date: 2025-03-01T02:26",
			"date-update: 2025-03-03T14:26",
			"first-message-date: 2025-03-01T02:26",
			"last-message-date: 2025-03-03T14:26",
			"duration-days: 2",
			"turn-count: 1",
			"---",
			"",
		}, "\n")))
	})

	It("counts a single user/assistant pair as zero full turns", func() {
		rec.Mapping["a1"].Children = nil
		delete(rec.Mapping, "u2")
		delete(rec.Mapping, "a2")

		doc, err := Generate(rec, time.UTC)
		Expect(err).NotTo(HaveOccurred())

		// The opening exchange is Turn 00 bookkeeping: rendered, not counted.
		Expect(doc.Content).To(ContainSubstring("turn-count: 0\n"))
		Expect(doc.Content).To(ContainSubstring("**Turns**: 0\n"))
		Expect(doc.Content).To(ContainSubstring("\n# Turn 00\n"))
		Expect(doc.Content).NotTo(ContainSubstring("# Turn 01"))
		Expect(doc.Turns).To(Equal(1))
	})

	It("renders the header with message span and turn count", func() {
		doc, err := Generate(rec, time.UTC)
		Expect(err).NotTo(HaveOccurred())

		Expect(doc.Content).To(ContainSubstring("\n# Trip Planning\n\n"))
		Expect(doc.Content).To(ContainSubstring("**Message span**: 2025-03-01T02:26 — 2025-03-03T14:26 (2 days)\n"))
		Expect(doc.Content).To(ContainSubstring("**Turns**: 1\n"))
	})

	It("renders each turn with user and assistant sections", func() {
		doc, err := Generate(rec, time.UTC)
		Expect(err).NotTo(HaveOccurred())

		Expect(doc.Content).To(ContainSubstring("\n# Turn 00\n"))
		Expect(doc.Content).To(ContainSubstring("\n# Turn 01\n"))
		Expect(doc.Content).To(ContainSubstring("\n## User\n\nWhere should I go in March?\n\n---\n\n**Sent:** 2025-03-01T02:26\n"))
		Expect(doc.Content).To(ContainSubstring("\n## Assistant\n\nTake the coastal train.\n\n---\n"))
		Expect(doc.Content).To(ContainSubstring("**Model:** gpt-4o\n**Sent:** 2025-03-03T14:26\n"))
		Expect(doc.Turns).To(Equal(2))
	})

	It("is deterministic for the same input", func() {
		first, err := Generate(rec, time.UTC)
		Expect(err).NotTo(HaveOccurred())
		second, err := Generate(rec, time.UTC)
		Expect(err).NotTo(HaveOccurred())
		Expect(second.Content).To(Equal(first.Content))
	})

	It("demotes headings inside message content below the section headings", func() {
		rec.Mapping["u2"].Message = timedMsg("user", "# Itinerary\n\n## Day one", createTime+172800)

		doc, err := Generate(rec, time.UTC)
		Expect(err).NotTo(HaveOccurred())
		Expect(doc.Content).To(ContainSubstring("\n## User\n\n## Itinerary\n\n### Day one\n"))
		Expect(doc.Content).NotTo(ContainSubstring("\n# Itinerary"))
	})

	It("renders an empty placeholder when a turn has no assistant reply", func() {
		rec.Mapping["u2"].Children = nil
		delete(rec.Mapping, "a2")

		doc, err := Generate(rec, time.UTC)
		Expect(err).NotTo(HaveOccurred())
		Expect(doc.Content).To(ContainSubstring("\n# Turn 01\n\n## User\n\nHow do I get there?"))
		Expect(doc.Content).To(HaveSuffix("\n## Assistant\n\n---\n\n---\n"))
	})

	It("omits the model and sent lines for an empty assistant message", func() {
		rec.Mapping["a2"].Message = &conversation.Message{
			Author:  conversation.Author{Role: "assistant"},
			Content: conversation.ContentBlock{ContentType: "text"},
		}

		doc, err := Generate(rec, time.UTC)
		Expect(err).NotTo(HaveOccurred())

		turn1 := doc.Content[strings.Index(doc.Content, "# Turn 01"):]
		Expect(turn1).NotTo(ContainSubstring("**Model:**"))
	})

	It("takes the last message date from the final branch of the final turn", func() {
		rec.Mapping["u2"].Children = []string{"a2", "a3"}
		rec.Mapping["a3"] = node("u2", nil, timedMsg("assistant", "Or fly.", createTime+220000))

		doc, err := Generate(rec, time.UTC)
		Expect(err).NotTo(HaveOccurred())
		Expect(doc.Content).To(ContainSubstring("last-message-date: 2025-03-03T15:32\n"))
	})

	It("falls back to Untitled when the title is blank", func() {
		rec.Title = "  "

		doc, err := Generate(rec, time.UTC)
		Expect(err).NotTo(HaveOccurred())
		Expect(doc.Content).To(ContainSubstring("title: Untitled\n"))
		Expect(doc.Content).To(ContainSubstring("\n# Untitled\n"))
	})

	It("returns ErrNoTurns for a conversation with no user messages", func() {
		rec.Mapping = map[string]*conversation.Node{
			"root": node("", []string{"sys"}, nil),
			"sys":  node("root", nil, textMsg("system", "boot prompt")),
		}

		doc, err := Generate(rec, time.UTC)
		Expect(err).To(MatchError(ErrNoTurns))
		Expect(doc.Turns).To(BeZero())
		Expect(doc.Content).To(BeEmpty())
	})

	It("propagates ErrMalformedGraph and still carries diagnostics", func() {
		odd := textMsg("user", "payload")
		odd.Content.ContentType = "mystery_widget"

		rec.Mapping = map[string]*conversation.Node{
			"root": node("", []string{"a"}, nil),
			"a":    node("root", []string{"b"}, odd),
			"b":    node("a", []string{"a"}, textMsg("assistant", "loop")),
		}

		doc, err := Generate(rec, time.UTC)
		Expect(err).To(MatchError(ErrMalformedGraph))
		Expect(doc.Diagnostics).To(HaveLen(1))
		Expect(doc.Diagnostics[0].ContentType).To(Equal("mystery_widget"))
	})
})
