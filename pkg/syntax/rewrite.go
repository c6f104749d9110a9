package syntax

import (
	"errors"
	"fmt"
)

var (
	// ErrNotInTree is returned when an edit references an element that does
	// not belong to the tree being rewritten.
	ErrNotInTree = errors.New("element not in tree")

	// ErrRootEdit is returned when an edit targets the root node.
	ErrRootEdit = errors.New("root cannot be edited")
)

// Splice describes the structural changes recorded around one existing child.
type Splice struct {
	// Before is inserted immediately before the child.
	Before []Child

	// After is inserted immediately after the child.
	After []Child

	// Remove drops the child.
	Remove bool

	// With replaces the child; only used when Remove is set.
	With []Child
}

// Rewriter accumulates edits keyed by element identity in one snapshot and
// materializes them in a single path-copying pass. Nothing is mutated in
// place, so every recorded reference stays valid until Apply.
type Rewriter struct {
	splices map[Child]*Splice
	tokens  map[*Token]*Token
	order   []Child
}

// NewRewriter creates an empty rewriter.
func NewRewriter() *Rewriter {
	return &Rewriter{
		splices: make(map[Child]*Splice),
		tokens:  make(map[*Token]*Token),
	}
}

func (r *Rewriter) splice(c Child) *Splice {
	s, ok := r.splices[c]
	if !ok {
		s = &Splice{}
		r.splices[c] = s
		r.order = append(r.order, c)
	}
	return s
}

// InsertBefore records nodes to insert immediately before anchor.
func (r *Rewriter) InsertBefore(anchor Child, nodes ...Child) {
	s := r.splice(anchor)
	s.Before = append(s.Before, nodes...)
}

// InsertAfter records nodes to insert immediately after anchor.
func (r *Rewriter) InsertAfter(anchor Child, nodes ...Child) {
	s := r.splice(anchor)
	s.After = append(s.After, nodes...)
}

// Replace records that old is substituted by with. An empty with removes old.
func (r *Rewriter) Replace(old Child, with ...Child) {
	s := r.splice(old)
	s.Remove = true
	s.With = append(s.With, with...)
}

// Remove records that c is dropped together with its trivia.
func (r *Rewriter) Remove(c Child) {
	r.splice(c).Remove = true
}

// ReplaceToken records a token substitution that keeps the tree shape.
func (r *Rewriter) ReplaceToken(old, replacement *Token) {
	r.tokens[old] = replacement
}

// Empty reports whether no edit has been recorded.
func (r *Rewriter) Empty() bool {
	return len(r.splices) == 0 && len(r.tokens) == 0
}

// Apply materializes the rewriter against t and returns the new tree.
// Only the ancestors of edited elements are rebuilt; markers attached to a
// rebuilt node or a substituted token are carried to its replacement.
func (t *Tree) Apply(r *Rewriter, markers *Markers) (*Tree, error) {
	dirty := make(map[*Node]bool)

	mark := func(c Child) error {
		if !t.Contains(c) {
			return fmt.Errorf("%w: %s", ErrNotInTree, Describe(c))
		}
		parent := t.parents[c]
		if parent == nil {
			return ErrRootEdit
		}
		for n := parent; n != nil && !dirty[n]; n = t.parents[n] {
			dirty[n] = true
		}
		return nil
	}

	for _, c := range r.order {
		if err := mark(c); err != nil {
			return nil, err
		}
	}
	for tok := range r.tokens {
		if err := mark(tok); err != nil {
			return nil, err
		}
	}

	if len(dirty) == 0 {
		return t, nil
	}

	return NewTree(t.rebuild(t.root, r, dirty, markers)), nil
}

func (t *Tree) rebuild(n *Node, r *Rewriter, dirty map[*Node]bool, markers *Markers) *Node {
	children := make([]Child, 0, len(n.children))

	for _, c := range n.children {
		s := r.splices[c]
		if s != nil {
			children = append(children, s.Before...)
		}

		switch {
		case s != nil && s.Remove:
			children = append(children, s.With...)
		default:
			children = append(children, t.rebuildChild(c, r, dirty, markers))
		}

		if s != nil {
			children = append(children, s.After...)
		}
	}

	rebuilt := NewNode(n.kind, children...)
	markers.Carry(n, rebuilt)
	return rebuilt
}

func (t *Tree) rebuildChild(c Child, r *Rewriter, dirty map[*Node]bool, markers *Markers) Child {
	switch v := c.(type) {
	case *Node:
		if dirty[v] {
			return t.rebuild(v, r, dirty, markers)
		}
	case *Token:
		if replacement, ok := r.tokens[v]; ok && replacement != nil {
			markers.Carry(v, replacement)
			return replacement
		}
	}
	return c
}
