package refactor

import (
	"fmt"
	"strings"

	"github.com/rivo/uniseg"

	"github.com/yaklabco/refit/pkg/format"
	"github.com/yaklabco/refit/pkg/syntax"
)

// IndentStyle decides the base indent of material spliced into the middle
// of a line.
type IndentStyle int

const (
	// IndentLine uses the indent of the line, as code does.
	IndentLine IndentStyle = iota

	// IndentColumn uses the column where the target starts, as Markdown
	// container content does.
	IndentColumn
)

// CompiledAction is one action as materialized in the compiled tree.
type CompiledAction struct {
	// Action is the source action.
	Action EditAction

	// Inserted holds the clones of the inserts as they sit in the compiled
	// tree. Each is tagged with Action.Marker.
	Inserted []syntax.Child

	// Region tells the formatter how to normalize Inserted.
	Region format.Region
}

// Compilation is the result of compiling one transaction.
type Compilation struct {
	// Original is the snapshot the actions reference.
	Original *syntax.Tree

	// Tree reflects every action.
	Tree *syntax.Tree

	// Actions are the compiled actions, in input order.
	Actions []CompiledAction
}

// Hints returns the formatter hints for the compilation.
func (c *Compilation) Hints(markers *syntax.Markers) format.Hints {
	hints := format.Hints{Markers: markers}
	for _, ca := range c.Actions {
		if len(ca.Inserted) > 0 {
			hints.Regions = append(hints.Regions, ca.Region)
		}
	}
	return hints
}

// Compiler turns edit actions into a new tree.
type Compiler struct {
	// Indent selects how mid-line splices find their base indent.
	Indent IndentStyle
}

// Compile applies actions to tree with a default Compiler.
func Compile(tree *syntax.Tree, actions []EditAction, markers *syntax.Markers) (*Compilation, error) {
	return Compiler{}.Compile(tree, actions, markers)
}

// Compile validates actions, clones their inserts and applies them to tree
// as one transaction. The input tree is not modified.
func (c Compiler) Compile(tree *syntax.Tree, actions []EditAction, markers *syntax.Markers) (*Compilation, error) {
	if len(actions) == 0 {
		return nil, ErrNoActions
	}

	for i, a := range actions {
		if err := validateAction(tree, i, a); err != nil {
			return nil, err
		}
	}
	if err := checkOverlap(tree, actions); err != nil {
		return nil, err
	}

	comp := &Compilation{Original: tree, Actions: make([]CompiledAction, len(actions))}
	for i, a := range actions {
		inserted := make([]syntax.Child, len(a.Inserts))
		for j, ins := range a.Inserts {
			inserted[j] = syntax.Clone(ins, markers)
			markers.Attach(a.Marker, inserted[j])
		}
		comp.Actions[i] = CompiledAction{
			Action:   a,
			Inserted: inserted,
			Region:   c.region(tree, a, inserted),
		}
	}

	var err error
	if len(actions) == 1 && (actions[0].Kind == KindRemove || len(actions[0].Originals) == 1) {
		comp.Tree, err = applySingle(tree, comp.Actions[0], markers)
	} else {
		comp.Tree, err = applyBatch(tree, comp.Actions, markers)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInconsistentReference, err)
	}

	return comp, nil
}

// applySingle substitutes directly on the tree.
func applySingle(tree *syntax.Tree, ca CompiledAction, markers *syntax.Markers) (*syntax.Tree, error) {
	a := ca.Action
	switch a.Kind {
	case KindReplace:
		return tree.ReplaceNode(a.Originals[0], markers, ca.Inserted...)
	case KindInsertBefore:
		return tree.InsertNodesBefore(a.Originals[0], markers, ca.Inserted...)
	case KindInsertAfter:
		return tree.InsertNodesAfter(a.Originals[0], markers, ca.Inserted...)
	default:
		return tree.RemoveNodes(markers, a.Originals...)
	}
}

// applyBatch records every action in an Editor and materializes them at once.
func applyBatch(tree *syntax.Tree, actions []CompiledAction, markers *syntax.Markers) (*syntax.Tree, error) {
	ed := NewEditor(tree, markers)

	for _, ca := range actions {
		a := ca.Action
		switch a.Kind {
		case KindRemove:
			for _, orig := range a.Originals {
				ed.RemoveNode(orig)
			}
		case KindInsertBefore:
			ed.InsertBefore(a.Originals[0], ca.Inserted...)
		case KindInsertAfter:
			ed.InsertAfter(a.Originals[0], ca.Inserted...)
		case KindReplace:
			switch {
			case len(a.Originals) > 1:
				if len(ca.Inserted) > 0 {
					ed.InsertBefore(a.Originals[0], ca.Inserted...)
				}
				for _, orig := range a.Originals {
					ed.RemoveNode(orig)
				}
			case len(ca.Inserted) == 1:
				ed.ReplaceNode(a.Originals[0], ca.Inserted[0])
			default:
				if len(ca.Inserted) > 0 {
					ed.InsertAfter(a.Originals[0], ca.Inserted...)
				}
				ed.RemoveNode(a.Originals[0])
			}
		}
	}

	return ed.GetChangedTree()
}

// region derives where the inserted material lands and which indent it
// needs, from the original tree.
func (c Compiler) region(tree *syntax.Tree, a EditAction, inserted []syntax.Child) format.Region {
	region := format.Region{Roots: inserted}
	if len(inserted) == 0 {
		return region
	}

	first := a.Originals[0]
	last := a.Originals[len(a.Originals)-1]
	region.Indent = c.indentAt(tree, tree.Span(first).Start)

	switch a.Kind {
	case KindInsertBefore:
		at := tree.FullSpan(first).Start
		region.LineStart = tree.AtLineStart(at)
		region.LineEnd = region.LineStart
	case KindInsertAfter:
		at := tree.FullSpan(first).End
		region.LineStart = endsLine(tree, at)
		region.LineEnd = region.LineStart
	default:
		region.LineStart = tree.AtLineStart(tree.FullSpan(first).Start)
		region.LineEnd = endsLine(tree, tree.FullSpan(last).End)
	}

	return region
}

func (c Compiler) indentAt(tree *syntax.Tree, offset int) string {
	prefix := tree.LinePrefix(offset)
	indent := tree.LineIndent(offset)
	if c.Indent == IndentLine || len(indent) == len(prefix) {
		return indent
	}

	// Keep tabs so the column survives, pad everything else by width.
	var b strings.Builder
	state := -1
	for rest := prefix; rest != ""; {
		var cluster string
		var width int
		cluster, rest, width, state = uniseg.FirstGraphemeClusterInString(rest, state)
		if cluster == "\t" {
			b.WriteByte('\t')
			continue
		}
		b.WriteString(strings.Repeat(" ", width))
	}
	return b.String()
}

func endsLine(tree *syntax.Tree, offset int) bool {
	return offset > 0 && offset <= tree.Len() && tree.Text()[offset-1] == '\n'
}
