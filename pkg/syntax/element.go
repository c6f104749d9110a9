// Package syntax provides the immutable, lossless tree that refactorings operate on.
//
// Every byte of a document belongs to exactly one token or trivia, so the full
// text of a tree always reproduces the source it was built from. Elements are
// identified by pointer; a value appears at most once in any tree.
package syntax

import "fmt"

// Kind names the grammar category of a node or token.
type Kind string

// KindEOF is the kind of the zero-width token that terminates every tree.
// It carries the document's final leading trivia.
const KindEOF Kind = "eof"

// Element is a node, a token, or a trivia.
type Element interface {
	// FullWidth is the byte length of the element including all trivia.
	FullWidth() int

	// FullText is the source text of the element including all trivia.
	FullText() string

	element()
}

// Child is an element that can appear in a node's child list.
type Child interface {
	Element

	// ElementKind returns the grammar kind of the node or token.
	ElementKind() Kind

	// FirstToken returns the first token in the element, or nil for an empty node.
	FirstToken() *Token

	// LastToken returns the last token in the element, or nil for an empty node.
	LastToken() *Token

	child()
}

// Span is a half-open byte range [Start, End).
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes in the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// IsEmpty reports whether the span covers no bytes.
func (s Span) IsEmpty() bool {
	return s.End <= s.Start
}

// Contains reports whether offset lies inside the span.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start && offset < s.End
}

// Covers reports whether other lies entirely inside the span.
func (s Span) Covers(other Span) bool {
	return other.Start >= s.Start && other.End <= s.End
}

// Overlaps reports whether the two spans share at least one byte.
func (s Span) Overlaps(other Span) bool {
	return s.Start < other.End && other.Start < s.End
}

func (s Span) String() string {
	return fmt.Sprintf("[%d,%d)", s.Start, s.End)
}

// Describe returns a short human-readable label for an element, for error messages.
func Describe(e Element) string {
	switch v := e.(type) {
	case *Node:
		return "node " + string(v.kind)
	case *Token:
		return fmt.Sprintf("token %s %q", v.kind, v.text)
	case *Trivia:
		return fmt.Sprintf("trivia %s %q", v.kind, v.text)
	case nil:
		return "<nil>"
	default:
		return fmt.Sprintf("%T", e)
	}
}
