package refactor

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/yaklabco/refit/pkg/fix"
	"github.com/yaklabco/refit/pkg/syntax"
)

// ProjectedEdit is a text edit together with the action that produced it.
type ProjectedEdit struct {
	fix.TextEdit

	// Action is the index of the producing action in the compilation.
	Action int

	rank int
}

// Projection is the set of text edits that turns the original document
// into the formatted tree's text.
type Projection struct {
	// Entries are sorted by document position.
	Entries []ProjectedEdit
}

// Edits returns the plain text edits, in document order.
func (p *Projection) Edits() []fix.TextEdit {
	out := make([]fix.TextEdit, len(p.Entries))
	for i, e := range p.Entries {
		out[i] = e.TextEdit
	}
	return out
}

// ShiftBefore returns by how much the edits preceding entry i move text.
func (p *Projection) ShiftBefore(i int) int {
	shift := 0
	for _, e := range p.Entries[:i] {
		shift += e.Delta()
	}
	return shift
}

// entryFor returns the index of the first entry of action i that inserts
// text, or -1.
func (p *Projection) entryFor(action int) int {
	for i, e := range p.Entries {
		if e.Action == action && e.NewText != "" {
			return i
		}
	}
	return -1
}

// insertion ranks break ties between edits that start at one offset.
const (
	rankInsertAfter = iota
	rankInsertBefore
	rankRange
)

// Project computes the text edits of a compiled and formatted transaction.
// Replacements and removals cover the originals' full spans; insertions
// land at the anchor's full-span boundary. The edits are verified to turn
// the original text into formatted's text.
func Project(original *syntax.Tree, comp *Compilation, formatted *syntax.Tree, markers *syntax.Markers) (*Projection, error) {
	var entries []ProjectedEdit

	for i, ca := range comp.Actions {
		a := ca.Action

		text := ""
		if len(ca.Inserted) > 0 {
			var err error
			text, err = insertedText(formatted, ca, markers)
			if err != nil {
				return nil, fmt.Errorf("%w: action %d: %w", ErrProjectionMismatch, i, err)
			}
		}

		first := original.FullSpan(a.Originals[0])
		last := original.FullSpan(a.Originals[len(a.Originals)-1])

		switch a.Kind {
		case KindInsertBefore:
			entries = append(entries, ProjectedEdit{
				TextEdit: fix.TextEdit{StartOffset: first.Start, EndOffset: first.Start, NewText: text},
				Action:   i, rank: rankInsertBefore,
			})
		case KindInsertAfter:
			entries = append(entries, ProjectedEdit{
				TextEdit: fix.TextEdit{StartOffset: first.End, EndOffset: first.End, NewText: text},
				Action:   i, rank: rankInsertAfter,
			})
		case KindRemove:
			for _, orig := range a.Originals {
				span := original.FullSpan(orig)
				entries = append(entries, ProjectedEdit{
					TextEdit: fix.TextEdit{StartOffset: span.Start, EndOffset: span.End},
					Action:   i, rank: rankRange,
				})
			}
		case KindReplace:
			entries = append(entries, ProjectedEdit{
				TextEdit: fix.TextEdit{StartOffset: first.Start, EndOffset: last.End, NewText: text},
				Action:   i, rank: rankRange,
			})
		}
	}

	slices.SortStableFunc(entries, func(a, b ProjectedEdit) int {
		return cmp.Or(
			cmp.Compare(a.StartOffset, b.StartOffset),
			cmp.Compare(a.EndOffset, b.EndOffset),
			cmp.Compare(a.rank, b.rank),
		)
	})

	proj := &Projection{Entries: entries}

	prepared, err := fix.PrepareEdits(proj.Edits(), original.Len())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProjectionMismatch, err)
	}
	if got := string(fix.ApplyEdits([]byte(original.Text()), prepared)); got != formatted.Text() {
		return nil, fmt.Errorf("%w: edits yield %d bytes, tree has %d", ErrProjectionMismatch, len(got), formatted.Len())
	}

	return proj, nil
}

// insertedText returns the text of an action's inserted roots in the
// formatted tree. The roots must be contiguous.
func insertedText(formatted *syntax.Tree, ca CompiledAction, markers *syntax.Markers) (string, error) {
	roots := markers.In(formatted, ca.Action.Marker)
	if len(roots) != len(ca.Inserted) {
		return "", fmt.Errorf("found %d of %d inserted roots", len(roots), len(ca.Inserted))
	}

	var b strings.Builder
	next := formatted.FullSpan(roots[0]).Start
	for _, root := range roots {
		span := formatted.FullSpan(root)
		if span.Start != next {
			return "", fmt.Errorf("inserted roots are not contiguous at %d", span.Start)
		}
		b.WriteString(root.FullText())
		next = span.End
	}
	return b.String(), nil
}
