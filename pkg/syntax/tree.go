package syntax

import (
	"slices"
	"sort"
	"strings"
)

// Tree is an immutable snapshot: a root node plus a layout index that
// resolves element positions and parents.
type Tree struct {
	root    *Node
	text    string
	starts  map[Element]int
	parents map[Child]*Node
	owners  map[*Trivia]*Token
	tokens  []*Token
	lines   *LineIndex
}

// NewTree indexes root. Elements must not repeat within root.
func NewTree(root *Node) *Tree {
	t := &Tree{
		root:    root,
		starts:  make(map[Element]int),
		parents: make(map[Child]*Node),
		owners:  make(map[*Trivia]*Token),
	}

	var text strings.Builder
	text.Grow(root.FullWidth())
	t.index(root, nil, &text)
	t.text = text.String()
	t.lines = NewLineIndex(t.text)

	return t
}

func (t *Tree) index(c Child, parent *Node, text *strings.Builder) {
	t.starts[c] = text.Len()
	t.parents[c] = parent

	switch v := c.(type) {
	case *Node:
		for _, ch := range v.children {
			t.index(ch, v, text)
		}
	case *Token:
		t.tokens = append(t.tokens, v)
		for _, tr := range v.leading {
			t.starts[tr] = text.Len()
			t.owners[tr] = v
			text.WriteString(tr.text)
		}
		text.WriteString(v.text)
		for _, tr := range v.trailing {
			t.starts[tr] = text.Len()
			t.owners[tr] = v
			text.WriteString(tr.text)
		}
	}
}

// Root returns the root node.
func (t *Tree) Root() *Node { return t.root }

// Text returns the full document text.
func (t *Tree) Text() string { return t.text }

// Len returns the document length in bytes.
func (t *Tree) Len() int { return len(t.text) }

// Lines returns the line index of the document.
func (t *Tree) Lines() *LineIndex { return t.lines }

// Contains reports whether e belongs to this tree.
func (t *Tree) Contains(e Element) bool {
	if e == nil {
		return false
	}
	_, ok := t.starts[e]
	return ok
}

// FullSpan returns the span of e including all trivia.
// The zero Span is returned when e is not in the tree.
func (t *Tree) FullSpan(e Element) Span {
	start, ok := t.starts[e]
	if !ok {
		return Span{}
	}
	return Span{Start: start, End: start + e.FullWidth()}
}

// Span returns the span of e without the outer trivia of its boundary tokens.
// For trivia it equals the full span.
func (t *Tree) Span(e Element) Span {
	full := t.FullSpan(e)
	c, ok := e.(Child)
	if !ok || !t.Contains(e) {
		return full
	}
	first, last := c.FirstToken(), c.LastToken()
	if first == nil {
		return Span{Start: full.Start, End: full.Start}
	}
	return Span{Start: full.Start + first.LeadingWidth(), End: full.End - last.TrailingWidth()}
}

// Parent returns the parent of c, or nil for the root and foreign elements.
func (t *Tree) Parent(c Child) *Node {
	return t.parents[c]
}

// Owner returns the token that carries the trivia tr.
func (t *Tree) Owner(tr *Trivia) *Token {
	return t.owners[tr]
}

// Ancestors returns the ancestors of c, nearest first.
func (t *Tree) Ancestors(c Child) []*Node {
	var out []*Node
	for p := t.parents[c]; p != nil; p = t.parents[p] {
		out = append(out, p)
	}
	return out
}

// IsAncestor reports whether anc is a proper ancestor of c.
func (t *Tree) IsAncestor(anc *Node, c Child) bool {
	for p := t.parents[c]; p != nil; p = t.parents[p] {
		if p == anc {
			return true
		}
	}
	return false
}

// Tokens returns every token of the tree in document order.
func (t *Tree) Tokens() []*Token {
	return slices.Clone(t.tokens)
}

// TokenAt returns the token nearest to offset. Offsets inside a token's span
// resolve to it. An offset in trailing trivia resolves to the next token,
// except directly after the token text. An offset in leading trivia resolves
// to the token that owns it.
func (t *Tree) TokenAt(offset int) *Token {
	if len(t.tokens) == 0 {
		return nil
	}
	i := sort.Search(len(t.tokens), func(i int) bool {
		tok := t.tokens[i]
		return t.starts[tok]+tok.FullWidth() > offset
	})
	if i >= len(t.tokens) {
		return t.tokens[len(t.tokens)-1]
	}
	tok := t.tokens[i]
	span := t.Span(tok)
	if offset <= span.End || i+1 >= len(t.tokens) {
		return tok
	}
	return t.tokens[i+1]
}

// Enclosing returns the innermost node whose span contains span, starting the
// search from the token at span.Start.
func (t *Tree) Enclosing(span Span) *Node {
	tok := t.TokenAt(span.Start)
	if tok == nil {
		return t.root
	}
	for _, anc := range t.Ancestors(tok) {
		if t.Span(anc).Covers(span) {
			return anc
		}
	}
	return t.root
}

// AtLineStart reports whether offset is the first byte of a line.
func (t *Tree) AtLineStart(offset int) bool {
	return offset <= 0 || (offset <= len(t.text) && t.text[offset-1] == '\n')
}

// AtLineEnd reports whether offset directly follows a line terminator or is
// the end of the document.
func (t *Tree) AtLineEnd(offset int) bool {
	return offset >= len(t.text) || (offset > 0 && t.text[offset-1] == '\n')
}

// LineIndent returns the leading whitespace of the line containing offset.
func (t *Tree) LineIndent(offset int) string {
	line := t.lines.Content(t.lines.LineOf(offset))
	end := 0
	for end < len(line) && isBlank(line[end]) {
		end++
	}
	return line[:end]
}

// LinePrefix returns the text between the start of offset's line and offset.
func (t *Tree) LinePrefix(offset int) string {
	l := t.lines.Line(t.lines.LineOf(offset))
	if offset > l.NewlineStart {
		offset = l.NewlineStart
	}
	return t.text[l.Start:offset]
}

// EOL returns the line terminator used by the document, "\n" by default.
func (t *Tree) EOL() string {
	i := strings.IndexByte(t.text, '\n')
	if i > 0 && t.text[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
