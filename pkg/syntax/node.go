package syntax

import (
	"iter"
	"slices"
	"strings"
)

// Node is an interior tree element. Its children are nodes or tokens.
// Nodes are immutable; widths and boundary tokens are computed once.
type Node struct {
	kind      Kind
	children  []Child
	fullWidth int
	first     *Token
	last      *Token
}

// NewNode creates a node. Nil children are dropped.
func NewNode(kind Kind, children ...Child) *Node {
	n := &Node{kind: kind, children: make([]Child, 0, len(children))}
	for _, c := range children {
		if c == nil {
			continue
		}
		n.children = append(n.children, c)
		n.fullWidth += c.FullWidth()
		if n.first == nil {
			n.first = c.FirstToken()
		}
		if last := c.LastToken(); last != nil {
			n.last = last
		}
	}
	return n
}

// Kind returns the node kind.
func (n *Node) Kind() Kind { return n.kind }

// ElementKind implements Child.
func (n *Node) ElementKind() Kind { return n.kind }

// Children returns a copy of the child list.
func (n *Node) Children() []Child { return slices.Clone(n.children) }

// ChildCount returns the number of children.
func (n *Node) ChildCount() int { return len(n.children) }

// Child returns the i-th child.
func (n *Node) Child(i int) Child { return n.children[i] }

// IndexOf returns the position of c among the children, or -1.
func (n *Node) IndexOf(c Child) int {
	for i, ch := range n.children {
		if ch == c {
			return i
		}
	}
	return -1
}

// WithChildren returns a node of the same kind with a different child list.
func (n *Node) WithChildren(children ...Child) *Node {
	return NewNode(n.kind, children...)
}

// FirstToken implements Child.
func (n *Node) FirstToken() *Token { return n.first }

// LastToken implements Child.
func (n *Node) LastToken() *Token { return n.last }

// FullWidth implements Element.
func (n *Node) FullWidth() int { return n.fullWidth }

// Width returns the byte length of the node without its outer trivia.
func (n *Node) Width() int {
	if n.first == nil {
		return 0
	}
	return n.fullWidth - n.first.LeadingWidth() - n.last.TrailingWidth()
}

// FullText implements Element.
func (n *Node) FullText() string {
	var b strings.Builder
	b.Grow(n.fullWidth)
	for tok := range n.Tokens() {
		tok.writeTo(&b)
	}
	return b.String()
}

// Text returns the node text without the first token's leading and the last
// token's trailing trivia.
func (n *Node) Text() string {
	full := n.FullText()
	if n.first == nil {
		return full
	}
	return full[n.first.LeadingWidth() : len(full)-n.last.TrailingWidth()]
}

// Tokens yields every token below n in document order.
func (n *Node) Tokens() iter.Seq[*Token] {
	return func(yield func(*Token) bool) {
		n.yieldTokens(yield)
	}
}

func (n *Node) yieldTokens(yield func(*Token) bool) bool {
	for _, c := range n.children {
		switch v := c.(type) {
		case *Token:
			if !yield(v) {
				return false
			}
		case *Node:
			if !v.yieldTokens(yield) {
				return false
			}
		}
	}
	return true
}

func (n *Node) element() {}
func (n *Node) child()   {}

// TokensOf yields the tokens of any child in document order.
func TokensOf(c Child) iter.Seq[*Token] {
	switch v := c.(type) {
	case *Node:
		return v.Tokens()
	case *Token:
		return func(yield func(*Token) bool) { yield(v) }
	default:
		return func(func(*Token) bool) {}
	}
}

// TextOf returns a child's text without its outer trivia.
func TextOf(c Child) string {
	switch v := c.(type) {
	case *Node:
		return v.Text()
	case *Token:
		return v.text
	default:
		return ""
	}
}
