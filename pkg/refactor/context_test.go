package refactor_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/refit/pkg/refactor"
	"github.com/yaklabco/refit/pkg/syntax"
)

func newContext(t *testing.T, src string, req refactor.Request) *refactor.Context {
	t.Helper()

	snap := &refactor.Snapshot{URI: "mem://ctx", Version: 1, Language: "blocks", Tree: parse(t, src)}
	return refactor.NewContext(context.Background(), snap, req)
}

func TestContext_Enclosing(t *testing.T) {
	t.Parallel()

	src := "f {\n  g {\n    x y\n  }\n}\n"

	tests := []struct {
		name string
		req  refactor.Request
		kind syntax.Kind
		want string
	}{
		{name: "statement at caret", req: refactor.Request{Caret: 16}, kind: "stmt", want: "x y"},
		{name: "innermost block", req: refactor.Request{Caret: 16}, kind: "block", want: "g {\n    x y\n  }"},
		{name: "selection widens", req: refactor.Request{Selection: syntax.Span{Start: 6, End: 23}}, kind: "block", want: src[:len(src)-1]},
		{name: "nothing matches", req: refactor.Request{Caret: 0}, kind: "missing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := newContext(t, src, tt.req)
			got := ctx.Enclosing(tt.kind)
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Text())
		})
	}
}

func TestContext_Relative(t *testing.T) {
	t.Parallel()

	ctx := newContext(t, "f {\n  g {\n    x\n  }\n}\n", refactor.Request{})
	inner := syntax.FindAll(ctx.Tree().Root(), syntax.OfKind("block"))[1]

	rel := ctx.Relative(inner)
	assert.Equal(t, "g {\n  x\n}\n", rel.FullText())
	assert.Equal(t, "  g {\n    x\n  }\n", inner.FullText(), "the snapshot is untouched")
}

func TestContext_Target(t *testing.T) {
	t.Parallel()

	ctx := newContext(t, "a b\n", refactor.Request{Caret: 2})
	assert.Equal(t, syntax.Span{Start: 2, End: 2}, ctx.Target())
	assert.Equal(t, "b", ctx.TokenAtCaret().Text())
	assert.Equal(t, "blocks", ctx.Language())
	assert.False(t, ctx.Cancelled())

	ctx = newContext(t, "a b\n", refactor.Request{Caret: 2, Selection: syntax.Span{Start: 0, End: 3}})
	assert.Equal(t, syntax.Span{Start: 0, End: 3}, ctx.Target())
}

func TestContext_Select(t *testing.T) {
	t.Parallel()

	ctx := newContext(t, "a\n", refactor.Request{})
	first, second := syntax.NewToken("word", "x"), syntax.NewToken("word", "y")

	ctx.Select(first)
	ctx.Select(second)
	assert.Equal(t, []syntax.Element{second}, ctx.Markers().Elements(ctx.CaretMarker()))
}

func TestContext_Options(t *testing.T) {
	t.Parallel()

	ctx := newContext(t, "a\n", refactor.Request{Options: map[string]any{
		"count": float64(3),
		"name":  "cond",
		"flag":  true,
		"wrong": "text",
	}})

	assert.Equal(t, 3, ctx.OptionInt("count", 1))
	assert.Equal(t, 1, ctx.OptionInt("wrong", 1))
	assert.Equal(t, "cond", ctx.OptionString("name", "x"))
	assert.Equal(t, "x", ctx.OptionString("missing", "x"))
	assert.True(t, ctx.OptionBool("flag", false))
	assert.False(t, ctx.OptionBool("wrong", false))

	empty := newContext(t, "a\n", refactor.Request{})
	assert.Equal(t, "d", empty.Option("any", "d"))
}
