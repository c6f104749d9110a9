package refactor

import (
	"github.com/yaklabco/refit/pkg/syntax"
)

// Selection is a range in post-commit buffer coordinates.
type Selection struct {
	Offset int `json:"offset"`
	Length int `json:"length"`
}

// Locate finds the element tagged with caret inside the inserted material
// and maps it to buffer coordinates. Nodes are preferred over tokens and
// tokens over trivia; document order breaks ties. Empty elements are
// skipped, so a lower tier or a later action may still win. The second
// result is false when no selection should be made: the marker is absent,
// lies outside every inserted region, or tags only empty elements.
func Locate(formatted *syntax.Tree, comp *Compilation, proj *Projection, markers *syntax.Markers, caret syntax.Marker) (Selection, bool) {
	tagged := markers.In(formatted, caret)
	if len(tagged) == 0 {
		return Selection{}, false
	}

	for i, ca := range comp.Actions {
		if ca.Action.Kind == KindRemove || len(ca.Inserted) == 0 {
			continue
		}
		roots := markers.In(formatted, ca.Action.Marker)
		if len(roots) == 0 {
			continue
		}

		marked := pick(formatted, roots, tagged)
		if marked == nil {
			continue
		}

		entry := proj.entryFor(i)
		if entry < 0 {
			continue
		}

		span := formatted.Span(marked)
		rootStart := formatted.FullSpan(roots[0]).Start
		edit := proj.Entries[entry]
		offset := edit.StartOffset + proj.ShiftBefore(entry) + (span.Start - rootStart)
		return Selection{Offset: offset, Length: span.Len()}, true
	}

	return Selection{}, false
}

// pick returns the best non-empty tagged element below roots: a node if
// any, else a token, else a trivia. tagged is in document order.
func pick(tree *syntax.Tree, roots []syntax.Element, tagged []syntax.Element) syntax.Element {
	var token, trivia syntax.Element
	for _, e := range tagged {
		if !within(tree, roots, e) || tree.Span(e).IsEmpty() {
			continue
		}
		switch e.(type) {
		case *syntax.Node:
			return e
		case *syntax.Token:
			if token == nil {
				token = e
			}
		case *syntax.Trivia:
			if trivia == nil {
				trivia = e
			}
		}
	}
	if token != nil {
		return token
	}
	return trivia
}

func within(tree *syntax.Tree, roots []syntax.Element, e syntax.Element) bool {
	var c syntax.Child
	switch v := e.(type) {
	case *syntax.Trivia:
		c = tree.Owner(v)
	case syntax.Child:
		c = v
	}
	if c == nil {
		return false
	}
	for _, root := range roots {
		if root == syntax.Element(c) {
			return true
		}
		if n, ok := root.(*syntax.Node); ok && tree.IsAncestor(n, c) {
			return true
		}
	}
	return false
}
