package refactor_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/refit/pkg/fix"
	"github.com/yaklabco/refit/pkg/refactor"
	"github.com/yaklabco/refit/pkg/syntax"
)

const blockSrc = "f {\n  a\n  b\n}\n"

func TestCompile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		actions func(t *testing.T, tree *syntax.Tree) []refactor.EditAction
		want    string
	}{
		{
			name: "replace",
			actions: func(t *testing.T, tree *syntax.Tree) []refactor.EditAction {
				return []refactor.EditAction{refactor.Replace(stmt(t, tree, "b"), snippet(t, "c d"))}
			},
			want: "f {\n  a\nc d}\n",
		},
		{
			name: "remove",
			actions: func(t *testing.T, tree *syntax.Tree) []refactor.EditAction {
				return []refactor.EditAction{refactor.Remove(stmt(t, tree, "a"))}
			},
			want: "f {\n  b\n}\n",
		},
		{
			name: "insert before",
			actions: func(t *testing.T, tree *syntax.Tree) []refactor.EditAction {
				return []refactor.EditAction{refactor.InsertBefore(stmt(t, tree, "b"), snippet(t, "x\n"))}
			},
			want: "f {\n  a\nx\n  b\n}\n",
		},
		{
			name: "replace several siblings",
			actions: func(t *testing.T, tree *syntax.Tree) []refactor.EditAction {
				olds := []syntax.Child{stmt(t, tree, "a"), stmt(t, tree, "b")}
				return []refactor.EditAction{refactor.ReplaceMany(olds, snippet(t, "z\n"))}
			},
			want: "f {\nz\n}\n",
		},
		{
			name: "replace with several",
			actions: func(t *testing.T, tree *syntax.Tree) []refactor.EditAction {
				return []refactor.EditAction{refactor.Replace(stmt(t, tree, "a"), snippet(t, "p\n"), snippet(t, "q\n"))}
			},
			want: "f {\np\nq\n  b\n}\n",
		},
		{
			name: "batch",
			actions: func(t *testing.T, tree *syntax.Tree) []refactor.EditAction {
				return []refactor.EditAction{
					refactor.Remove(stmt(t, tree, "a")),
					refactor.InsertAfter(stmt(t, tree, "b"), snippet(t, "x\n")),
				}
			},
			want: "f {\n  b\nx\n}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tree := parse(t, blockSrc)
			markers := syntax.NewMarkers()
			actions := tt.actions(t, tree)

			comp, err := refactor.Compile(tree, actions, markers)
			require.NoError(t, err)
			assert.Equal(t, tt.want, comp.Tree.Text())
			assert.Equal(t, blockSrc, tree.Text(), "snapshot must not change")
			assert.Same(t, tree, comp.Original)

			require.Len(t, comp.Actions, len(actions))
			for i, ca := range comp.Actions {
				roots := markers.In(comp.Tree, actions[i].Marker)
				assert.Len(t, roots, len(ca.Inserted))
				for _, ins := range actions[i].Inserts {
					assert.False(t, comp.Tree.Contains(ins), "inserts are cloned")
				}
			}
		})
	}
}

func TestCompile_Region(t *testing.T) {
	t.Parallel()

	tree := parse(t, blockSrc)

	tests := []struct {
		name   string
		action refactor.EditAction
		region refactorRegion
	}{
		{
			name:   "replace whole line",
			action: refactor.Replace(stmt(t, tree, "b"), snippet(t, "x")),
			region: refactorRegion{indent: "  ", lineStart: true, lineEnd: true},
		},
		{
			name:   "insert before line",
			action: refactor.InsertBefore(stmt(t, tree, "a"), snippet(t, "x")),
			region: refactorRegion{indent: "  ", lineStart: true, lineEnd: true},
		},
		{
			name:   "insert after header",
			action: refactor.InsertAfter(stmt(t, tree, "f {"), snippet(t, "x")),
			region: refactorRegion{indent: "", lineStart: true, lineEnd: true},
		},
		{
			name:   "replace mid-line token",
			action: refactor.Replace(statements(tree)[0].(*syntax.Node).Child(1), snippet(t, "x")),
			region: refactorRegion{indent: "", lineStart: false, lineEnd: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			comp, err := refactor.Compile(tree, []refactor.EditAction{tt.action}, syntax.NewMarkers())
			require.NoError(t, err)

			r := comp.Actions[0].Region
			assert.Equal(t, tt.region, refactorRegion{indent: r.Indent, lineStart: r.LineStart, lineEnd: r.LineEnd})
			assert.Len(t, r.Roots, 1)
		})
	}
}

type refactorRegion struct {
	indent    string
	lineStart bool
	lineEnd   bool
}

func TestCompile_IndentColumn(t *testing.T) {
	t.Parallel()

	tree := parse(t, "- é item\n")
	item := statements(tree)[0].(*syntax.Node).Child(2)

	for _, tt := range []struct {
		style refactor.IndentStyle
		want  string
	}{
		{style: refactor.IndentLine, want: ""},
		{style: refactor.IndentColumn, want: "    "},
	} {
		comp, err := refactor.Compiler{Indent: tt.style}.Compile(tree,
			[]refactor.EditAction{refactor.Replace(item, snippet(t, "x"))}, nil)
		require.NoError(t, err)
		assert.Equal(t, tt.want, comp.Actions[0].Region.Indent)
	}
}

func TestCompile_Invalid(t *testing.T) {
	t.Parallel()

	tree := parse(t, blockSrc)
	block := tree.Root().Child(0)
	a, b := stmt(t, tree, "a"), stmt(t, tree, "b")
	brace := block.(*syntax.Node).Child(3)
	eof := tree.Root().LastToken()
	x := snippet(t, "x")

	tests := []struct {
		name    string
		actions []refactor.EditAction
		want    error
	}{
		{name: "empty batch", actions: nil, want: refactor.ErrNoActions},
		{name: "unknown kind", actions: []refactor.EditAction{{Kind: 99, Originals: []syntax.Child{a}}}, want: refactor.ErrInvalidAction},
		{name: "no original", actions: []refactor.EditAction{{Kind: refactor.KindRemove}}, want: refactor.ErrInvalidAction},
		{
			name:    "remove with inserts",
			actions: []refactor.EditAction{{Kind: refactor.KindRemove, Originals: []syntax.Child{a}, Inserts: []syntax.Child{x}}},
			want:    refactor.ErrInvalidAction,
		},
		{name: "insert without material", actions: []refactor.EditAction{refactor.InsertBefore(a)}, want: refactor.ErrInvalidAction},
		{
			name:    "insert with two anchors",
			actions: []refactor.EditAction{{Kind: refactor.KindInsertAfter, Originals: []syntax.Child{a, b}, Inserts: []syntax.Child{x}}},
			want:    refactor.ErrInvalidAction,
		},
		{name: "nil insert", actions: []refactor.EditAction{refactor.Replace(a, nil)}, want: refactor.ErrInvalidAction},
		{name: "eof insert", actions: []refactor.EditAction{refactor.Replace(a, eof)}, want: refactor.ErrInvalidAction},
		{name: "nil original", actions: []refactor.EditAction{refactor.Remove(nil)}, want: refactor.ErrInvalidAction},
		{name: "root", actions: []refactor.EditAction{refactor.Remove(tree.Root())}, want: refactor.ErrInvalidAction},
		{name: "eof original", actions: []refactor.EditAction{refactor.Remove(eof)}, want: refactor.ErrInvalidAction},
		{name: "nested originals", actions: []refactor.EditAction{refactor.Remove(block, a)}, want: refactor.ErrInvalidAction},
		{name: "out of order", actions: []refactor.EditAction{refactor.Remove(b, a)}, want: refactor.ErrInvalidAction},
		{
			name:    "replace gaps",
			actions: []refactor.EditAction{refactor.ReplaceMany([]syntax.Child{a, brace}, x)},
			want:    refactor.ErrInvalidAction,
		},
		{name: "foreign element", actions: []refactor.EditAction{refactor.Remove(x)}, want: refactor.ErrInconsistentReference},
		{
			name:    "same target twice",
			actions: []refactor.EditAction{refactor.Remove(a), refactor.Replace(a, x)},
			want:    refactor.ErrInconsistentReference,
		},
		{
			name:    "nested targets",
			actions: []refactor.EditAction{refactor.InsertAfter(b, x), refactor.Remove(block)},
			want:    refactor.ErrInconsistentReference,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			comp, err := refactor.Compile(tree, tt.actions, syntax.NewMarkers())
			require.ErrorIs(t, err, tt.want)
			assert.Nil(t, comp)
		})
	}
}

func TestCompile_ErrorDetails(t *testing.T) {
	t.Parallel()

	tree := parse(t, blockSrc)
	a := stmt(t, tree, "a")

	_, err := refactor.Compile(tree, []refactor.EditAction{
		refactor.Remove(stmt(t, tree, "b")),
		refactor.InsertBefore(a),
	}, nil)

	var actionErr *refactor.ActionError
	require.ErrorAs(t, err, &actionErr)
	assert.Equal(t, 1, actionErr.Index)
	assert.Equal(t, refactor.KindInsertBefore, actionErr.Kind)
	assert.Contains(t, err.Error(), "insert-before")

	_, err = refactor.Compile(tree, []refactor.EditAction{refactor.Remove(a), refactor.Remove(a)}, nil)
	var overlap *refactor.OverlapError
	require.True(t, errors.As(err, &overlap))
	assert.Equal(t, 0, overlap.First)
	assert.Equal(t, 1, overlap.Second)
}

func TestCompile_RoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		action func(t *testing.T, tree *syntax.Tree) refactor.EditAction
		direct string
	}{
		{
			name: "replace",
			action: func(t *testing.T, tree *syntax.Tree) refactor.EditAction {
				return refactor.Replace(stmt(t, tree, "b"), snippet(t, "c d"))
			},
			direct: "f {\n  a\n  c d\n}\n",
		},
		{
			name: "insert before",
			action: func(t *testing.T, tree *syntax.Tree) refactor.EditAction {
				return refactor.InsertBefore(stmt(t, tree, "a"), snippet(t, "x"))
			},
			direct: "f {\n  x\n  a\n  b\n}\n",
		},
		{
			name: "insert after",
			action: func(t *testing.T, tree *syntax.Tree) refactor.EditAction {
				return refactor.InsertAfter(stmt(t, tree, "b"), snippet(t, "x"))
			},
			direct: "f {\n  a\n  b\n  x\n}\n",
		},
		{
			name: "remove",
			action: func(t *testing.T, tree *syntax.Tree) refactor.EditAction {
				return refactor.Remove(stmt(t, tree, "a"))
			},
			direct: "f {\n  b\n}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := run(t, blockSrc, func(tree *syntax.Tree, _ *syntax.Markers) []refactor.EditAction {
				return []refactor.EditAction{tt.action(t, tree)}
			})

			committed := string(fix.ApplyEdits([]byte(blockSrc), p.proj.Edits()))
			assert.Equal(t, tt.direct, committed)

			reparsed := parse(t, committed)
			assert.Equal(t, texts(statements(p.formatted)), texts(statements(reparsed)))
			assert.Equal(t, p.formatted.Root().ChildCount(), reparsed.Root().ChildCount())
		})
	}
}

func texts(children []syntax.Child) []string {
	out := make([]string, 0, len(children))
	for _, c := range children {
		out = append(out, syntax.TextOf(c))
	}
	return out
}

func TestEditor(t *testing.T) {
	t.Parallel()

	tree := parse(t, blockSrc)
	markers := syntax.NewMarkers()
	a, b := stmt(t, tree, "a"), stmt(t, tree, "b")

	ed := refactor.NewEditor(tree, markers)
	ed.RemoveNode(a)
	ed.ReplaceNode(b, snippet(t, "B\n"))
	ed.InsertBefore(b, snippet(t, "pre\n"))
	next, err := ed.GetChangedTree()
	require.NoError(t, err)
	assert.Equal(t, "f {\npre\nB\n}\n", next.Text())

	ed = refactor.NewEditor(tree, markers)
	ed.RemoveNode(syntax.NewToken("word", "stray"))
	ed.RemoveNode(a)
	_, err = ed.GetChangedTree()
	require.ErrorIs(t, err, refactor.ErrInconsistentReference)
}

func TestKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "remove", refactor.KindRemove.String())
	assert.Equal(t, "insert-after", refactor.KindInsertAfter.String())
	assert.Equal(t, "unknown", refactor.Kind(42).String())
}
