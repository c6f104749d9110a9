// Package refactor applies structured edit actions to a parsed document as
// one transaction: it compiles the actions into a new tree, formats the
// inserted material, projects the result onto minimal text edits, commits
// them, and places the caret inside the new material.
package refactor

import (
	"slices"

	"github.com/yaklabco/refit/pkg/syntax"
)

// Kind is the kind of tree mutation an EditAction describes.
type Kind int

const (
	// KindRemove deletes the originals.
	KindRemove Kind = iota

	// KindReplace substitutes the originals with the inserts.
	KindReplace

	// KindInsertBefore splices the inserts before the anchor.
	KindInsertBefore

	// KindInsertAfter splices the inserts after the anchor.
	KindInsertAfter
)

var kindNames = map[Kind]string{
	KindRemove:       "remove",
	KindReplace:      "replace",
	KindInsertBefore: "insert-before",
	KindInsertAfter:  "insert-after",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// EditAction describes one tree mutation. Originals reference elements of
// one snapshot; Inserts are new material and are cloned when compiled, so
// providers may reuse elements of the snapshot as inserts.
type EditAction struct {
	// Kind selects the mutation.
	Kind Kind

	// Originals are the targeted children, in document order. Insert kinds
	// hold exactly one anchor.
	Originals []syntax.Child

	// Inserts are the children spliced in. Empty only for removals.
	Inserts []syntax.Child

	// Marker tags the inserted roots once compiled.
	Marker syntax.Marker
}

// Replace substitutes old with one or more inserts.
func Replace(old syntax.Child, inserts ...syntax.Child) EditAction {
	return EditAction{
		Kind:      KindReplace,
		Originals: []syntax.Child{old},
		Inserts:   slices.Clone(inserts),
		Marker:    syntax.NewMarker(),
	}
}

// ReplaceMany collapses consecutive siblings into the inserts.
func ReplaceMany(olds []syntax.Child, inserts ...syntax.Child) EditAction {
	return EditAction{
		Kind:      KindReplace,
		Originals: slices.Clone(olds),
		Inserts:   slices.Clone(inserts),
		Marker:    syntax.NewMarker(),
	}
}

// Remove deletes the given children together with their trivia.
func Remove(olds ...syntax.Child) EditAction {
	return EditAction{
		Kind:      KindRemove,
		Originals: slices.Clone(olds),
		Marker:    syntax.NewMarker(),
	}
}

// InsertBefore splices inserts immediately before anchor.
func InsertBefore(anchor syntax.Child, inserts ...syntax.Child) EditAction {
	return EditAction{
		Kind:      KindInsertBefore,
		Originals: []syntax.Child{anchor},
		Inserts:   slices.Clone(inserts),
		Marker:    syntax.NewMarker(),
	}
}

// InsertAfter splices inserts immediately after anchor.
func InsertAfter(anchor syntax.Child, inserts ...syntax.Child) EditAction {
	return EditAction{
		Kind:      KindInsertAfter,
		Originals: []syntax.Child{anchor},
		Inserts:   slices.Clone(inserts),
		Marker:    syntax.NewMarker(),
	}
}

// IsInsert reports whether the action only adds material.
func (a EditAction) IsInsert() bool {
	return a.Kind == KindInsertBefore || a.Kind == KindInsertAfter
}

// Anchor returns the first original.
func (a EditAction) Anchor() syntax.Child {
	if len(a.Originals) == 0 {
		return nil
	}
	return a.Originals[0]
}
