// Package markdown converts one exported conversation tree into a single
// linear markdown document: front matter, a prose header, and one section per
// Turn with every assistant branch preserved in document order.
package markdown

import (
	"encoding/json"
	"strings"

	"github.com/spoolworks/spool/pkg/conversation"
)

// silentSkipTypes are bookkeeping payloads the UI never shows. They are
// excluded without a diagnostic.
var silentSkipTypes = map[string]struct{}{
	"user_editable_context": {},
	"app_pairing_content":   {},
}

// allowedTypes are the content types eligible for text extraction. Anything
// outside this set and outside silentSkipTypes is skipped with a diagnostic,
// so new export payload types surface instead of vanishing quietly.
var allowedTypes = map[string]struct{}{
	"text":            {},
	"code":            {},
	"multimodal_text": {},
	"reasoning_recap": {},
	"thoughts":        {},
}

// Diagnostic records one unrecognized content-type occurrence. Diagnostics
// are returned as values rather than written to a shared stream so a batch
// caller can aggregate them per conversion.
type Diagnostic struct {
	NodeID      string
	ContentType string
}

// ExtractContent classifies a message payload and returns its displayable
// text. ok is false when the message must be skipped entirely; an empty
// string with ok true means the message exists but carries no content.
// Malformed shapes degrade to a skip, never an error.
func ExtractContent(msg *conversation.Message) (text string, diag *Diagnostic, ok bool) {
	if msg == nil {
		return "", nil, false
	}

	content := &msg.Content
	if ct := content.ContentType; ct != "" {
		if _, silent := silentSkipTypes[ct]; silent {
			return "", nil, false
		}
		if _, allowed := allowedTypes[ct]; !allowed {
			return "", &Diagnostic{ContentType: ct}, false
		}
	}

	// parts is preferred when present. A non-array or empty parts value is a
	// placeholder message (e.g. personalization loads) and skips.
	if content.HasParts() {
		var parts []any
		if err := json.Unmarshal(content.Parts, &parts); err != nil {
			return "", nil, false
		}
		if len(parts) == 0 {
			return "", nil, false
		}

		// Multimodal messages may lead with an image object; the first
		// non-whitespace string element wins.
		for _, part := range parts {
			if s, isStr := part.(string); isStr && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s), nil, true
			}
		}
		return "", nil, false
	}

	if t := strings.TrimSpace(content.Text); t != "" {
		return t, nil, true
	}

	// Neither parts nor text: the message exists with genuinely empty
	// content, which is distinct from a skip.
	return "", nil, true
}
