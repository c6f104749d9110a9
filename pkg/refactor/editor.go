package refactor

import (
	"fmt"

	"github.com/yaklabco/refit/pkg/syntax"
)

// Editor composes several structural edits against one snapshot. Every
// reference is resolved against that snapshot when recorded, and nothing
// is materialized until GetChangedTree, so no edit can invalidate the
// references of another.
type Editor struct {
	tree    *syntax.Tree
	markers *syntax.Markers
	rw      *syntax.Rewriter
	err     error
}

// NewEditor creates an editor bound to tree. Markers of rebuilt elements
// are carried in markers.
func NewEditor(tree *syntax.Tree, markers *syntax.Markers) *Editor {
	return &Editor{tree: tree, markers: markers, rw: syntax.NewRewriter()}
}

func (e *Editor) resolve(c syntax.Child) bool {
	if e.err != nil {
		return false
	}
	if !e.tree.Contains(c) {
		e.err = fmt.Errorf("%w: %s", ErrInconsistentReference, syntax.Describe(c))
		return false
	}
	return true
}

// ReplaceNode substitutes old with the given children.
func (e *Editor) ReplaceNode(old syntax.Child, with ...syntax.Child) {
	if e.resolve(old) {
		e.rw.Replace(old, with...)
	}
}

// InsertBefore splices nodes in before anchor.
func (e *Editor) InsertBefore(anchor syntax.Child, nodes ...syntax.Child) {
	if e.resolve(anchor) {
		e.rw.InsertBefore(anchor, nodes...)
	}
}

// InsertAfter splices nodes in after anchor.
func (e *Editor) InsertAfter(anchor syntax.Child, nodes ...syntax.Child) {
	if e.resolve(anchor) {
		e.rw.InsertAfter(anchor, nodes...)
	}
}

// RemoveNode drops c with its trivia.
func (e *Editor) RemoveNode(c syntax.Child) {
	if e.resolve(c) {
		e.rw.Remove(c)
	}
}

// GetChangedTree materializes every recorded edit in one pass.
func (e *Editor) GetChangedTree() (*syntax.Tree, error) {
	if e.err != nil {
		return nil, e.err
	}
	return e.tree.Apply(e.rw, e.markers)
}
