package markdown

import (
	"fmt"

	"github.com/spoolworks/spool/pkg/conversation"
)

// MessageEntry is one user or assistant message that survived content filtering,
// in flattened document order.
type MessageEntry struct {
	NodeID  string
	Role    string
	Message *conversation.Message
}

// Turn is one logical exchange: a single user message and the zero-or-more
// assistant branches that follow it before the next user message. Numbers
// are dense and 0-based; Turn 0 is reserved for UI-hidden lead-in messages.
type Turn struct {
	Number     int
	User       MessageEntry
	Assistants []MessageEntry
}

// BuildTurns traverses the node mapping depth-first in declared child order
// and partitions the surviving messages into Turns. A mapping without
// exactly one parentless node yields an empty sequence (soft). A revisited
// node id means a cycle or duplicate reference and fails with
// ErrMalformedGraph.
//
// Turn grouping reflects flattened document order: when a user node has
// multiple deep-branching children, branches below one level of nesting are
// grouped by the order they appear in the flattened walk, not by strict
// branch membership. This matches the documents users already have.
func BuildTurns(mapping map[string]*conversation.Node) ([]Turn, []Diagnostic, error) {
	rootID, ok := findRoot(mapping)
	if !ok {
		return nil, nil, nil
	}

	entries, diags, err := flatten(mapping, rootID)
	if err != nil {
		return nil, diags, err
	}

	return partition(entries), diags, nil
}

// findRoot returns the unique parentless node id. Zero or multiple roots is
// a degenerate mapping and reports ok false.
func findRoot(mapping map[string]*conversation.Node) (string, bool) {
	var rootID string
	roots := 0
	for id, node := range mapping {
		if node != nil && node.Parent == nil {
			rootID = id
			roots++
		}
	}
	return rootID, roots == 1
}

// flatten performs an iterative pre-order walk from rootID. Children are
// pushed in reverse so they pop in declared order. The visited set guards
// against cycles; conversation length bounds the stack, not call depth.
func flatten(mapping map[string]*conversation.Node, rootID string) ([]MessageEntry, []Diagnostic, error) {
	var (
		entries []MessageEntry
		diags   []Diagnostic
	)

	stack := []string{rootID}
	visited := make(map[string]struct{}, len(mapping))

	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if _, seen := visited[id]; seen {
			return entries, diags, fmt.Errorf("%w: node %q revisited", ErrMalformedGraph, id)
		}
		visited[id] = struct{}{}

		node := mapping[id]
		if node == nil {
			// Dangling child reference; tolerated.
			continue
		}

		if msg := node.Message; msg != nil {
			role := msg.Author.Role
			// system/tool nodes are never recorded but their subtrees are
			// still walked.
			if role == "user" || role == "assistant" {
				_, diag, keep := ExtractContent(msg)
				if diag != nil {
					diag.NodeID = id
					diags = append(diags, *diag)
				}
				if keep {
					entries = append(entries, MessageEntry{NodeID: id, Role: role, Message: msg})
				}
			}
		}

		for i := len(node.Children) - 1; i >= 0; i-- {
			stack = append(stack, node.Children[i])
		}
	}

	return entries, diags, nil
}

// partition groups the flat entry list left to right: a user entry opens a
// new Turn, every immediately following assistant entry becomes a branch of
// it. Assistant entries before any Turn is open are dropped.
func partition(entries []MessageEntry) []Turn {
	var turns []Turn

	i := 0
	for i < len(entries) {
		if entries[i].Role != "user" {
			i++
			continue
		}

		turn := Turn{Number: len(turns), User: entries[i]}
		j := i + 1
		for j < len(entries) && entries[j].Role == "assistant" {
			turn.Assistants = append(turn.Assistants, entries[j])
			j++
		}
		turns = append(turns, turn)
		i = j
	}

	return turns
}
