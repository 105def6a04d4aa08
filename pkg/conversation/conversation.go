// Package conversation defines the ChatGPT export data model: one exported
// conversation is a branching tree of message nodes keyed by node id, plus
// conversation-level metadata. All types are read-only inputs for a single
// conversion pass.
package conversation

import "encoding/json"

// Record is one exported conversation.
type Record struct {
	ID               string           `json:"id"`
	Title            string           `json:"title"`
	CreateTime       *float64         `json:"create_time"`
	UpdateTime       *float64         `json:"update_time"`
	DefaultModelSlug string           `json:"default_model_slug"`
	Mapping          map[string]*Node `json:"mapping"`
}

// Node is one entry in the mapping. Parent is a back-reference, never an
// ownership relation; Children order is authoritative for document order.
type Node struct {
	Parent   *string  `json:"parent"`
	Children []string `json:"children"`
	Message  *Message `json:"message"`
}

// Message is the payload a node may carry.
type Message struct {
	Author     Author         `json:"author"`
	Content    ContentBlock   `json:"content"`
	CreateTime *float64       `json:"create_time"`
	Metadata   map[string]any `json:"metadata"`
}

// Author identifies the message sender. Role is one of "system", "user",
// "assistant", "tool", or something newer the export invented since.
type Author struct {
	Role string `json:"role"`
}

// ContentBlock is a tagged message payload. Parts is kept raw because the
// export puts anything in there (strings, image pointers, nested objects)
// and a present-but-malformed parts array must degrade to a skip, not an
// unmarshal error.
type ContentBlock struct {
	ContentType string          `json:"content_type"`
	Parts       json.RawMessage `json:"parts,omitempty"`
	Text        string          `json:"text,omitempty"`
}

// ModelSlug returns the model identifier from message metadata, or "".
func (m *Message) ModelSlug() string {
	if m == nil || m.Metadata == nil {
		return ""
	}
	slug, _ := m.Metadata["model_slug"].(string)
	return slug
}

// HasParts reports whether the parts field was present (and non-null) in the
// source JSON.
func (c *ContentBlock) HasParts() bool {
	return len(c.Parts) > 0 && string(c.Parts) != "null"
}
