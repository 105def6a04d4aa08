package markdown

import "errors"

var (
	// ErrNoTurns reports a structurally empty conversation: the tree walk
	// produced zero Turns (no root, or every message filtered out). Soft
	// failure; no document is written.
	ErrNoTurns = errors.New("conversation has no turns")

	// ErrMalformedGraph reports a cycle or duplicate reference in the node
	// mapping. The traversal fails fast instead of looping.
	ErrMalformedGraph = errors.New("malformed conversation graph")
)
