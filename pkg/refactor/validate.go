package refactor

import (
	"github.com/yaklabco/refit/pkg/syntax"
)

func invalid(i int, a EditAction, reason string, e syntax.Element) *ActionError {
	err := &ActionError{Index: i, Kind: a.Kind, Err: ErrInvalidAction, Reason: reason}
	if e != nil {
		err.Element = syntax.Describe(e)
	}
	return err
}

// validateAction checks one action against the snapshot it references.
func validateAction(tree *syntax.Tree, i int, a EditAction) error {
	if _, ok := kindNames[a.Kind]; !ok {
		return invalid(i, a, "unknown kind", nil)
	}
	if len(a.Originals) == 0 {
		return invalid(i, a, "no original", nil)
	}

	switch a.Kind {
	case KindRemove:
		if len(a.Inserts) > 0 {
			return invalid(i, a, "remove carries inserts", nil)
		}
	case KindInsertBefore, KindInsertAfter:
		if len(a.Originals) != 1 {
			return invalid(i, a, "insert needs exactly one anchor", nil)
		}
		if len(a.Inserts) == 0 {
			return invalid(i, a, "insert without material", nil)
		}
	case KindReplace:
	}

	for _, ins := range a.Inserts {
		if ins == nil {
			return invalid(i, a, "nil insert", nil)
		}
		if tok, ok := ins.(*syntax.Token); ok && tok.IsEOF() {
			return invalid(i, a, "eof token cannot be inserted", ins)
		}
	}

	for j, orig := range a.Originals {
		if orig == nil {
			return invalid(i, a, "nil original", nil)
		}
		if !tree.Contains(orig) {
			return &ActionError{
				Index: i, Kind: a.Kind, Err: ErrInconsistentReference,
				Reason: "element not in snapshot", Element: syntax.Describe(orig),
			}
		}
		if orig == syntax.Child(tree.Root()) {
			return invalid(i, a, "root cannot be targeted", orig)
		}
		if tok, ok := orig.(*syntax.Token); ok && tok.IsEOF() {
			return invalid(i, a, "eof token cannot be targeted", orig)
		}
		if j == 0 {
			continue
		}

		prev := a.Originals[j-1]
		if prev == orig || related(tree, prev, orig) {
			return invalid(i, a, "originals are nested or repeated", orig)
		}
		if tree.FullSpan(prev).End > tree.FullSpan(orig).Start {
			return invalid(i, a, "originals out of order", orig)
		}
	}

	if a.Kind == KindReplace && len(a.Originals) > 1 {
		parent := tree.Parent(a.Originals[0])
		first := parent.IndexOf(a.Originals[0])
		for j, orig := range a.Originals[1:] {
			if tree.Parent(orig) != parent || parent.IndexOf(orig) != first+j+1 {
				return invalid(i, a, "replaced originals are not consecutive siblings", orig)
			}
		}
	}

	return nil
}

// related reports whether one child is an ancestor of the other.
func related(tree *syntax.Tree, a, b syntax.Child) bool {
	if n, ok := a.(*syntax.Node); ok && tree.IsAncestor(n, b) {
		return true
	}
	if n, ok := b.(*syntax.Node); ok && tree.IsAncestor(n, a) {
		return true
	}
	return false
}

// checkOverlap rejects batches in which two actions claim the same
// element or nested elements. Anchors count as claims.
func checkOverlap(tree *syntax.Tree, actions []EditAction) error {
	for i := range actions {
		for j := i + 1; j < len(actions); j++ {
			for _, a := range actions[i].Originals {
				for _, b := range actions[j].Originals {
					if a == b || related(tree, a, b) {
						return &OverlapError{First: i, Second: j, Element: syntax.Describe(b)}
					}
				}
			}
		}
	}
	return nil
}
