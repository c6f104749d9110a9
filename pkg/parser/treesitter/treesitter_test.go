package treesitter_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/refit/pkg/parser/treesitter"
	"github.com/yaklabco/refit/pkg/syntax"
)

const goSrc = `package main

// greet says hi.
func greet(name string) string {
	msg := "hi " + name // inline
	return msg
}
`

func TestParse_Go(t *testing.T) {
	t.Parallel()

	tree, err := treesitter.New(treesitter.Go).Parse(context.Background(), []byte(goSrc))
	require.NoError(t, err)
	assert.Equal(t, goSrc, tree.Text())
	assert.Equal(t, syntax.Kind("source_file"), tree.Root().Kind())

	fn := syntax.FindFirst(tree.Root(), syntax.OfKind("function_declaration"))
	require.NotNil(t, fn)
	assert.True(t, strings.HasPrefix(syntax.TextOf(fn), "func greet("))
	assert.Contains(t, syntax.TriviaText(fn.FirstToken().Leading()), "// greet says hi.")

	for _, tok := range tree.Tokens() {
		if tok.IsEOF() {
			continue
		}
		assert.NotEmpty(t, strings.TrimSpace(tok.Text()), "whitespace must be trivia")
		assert.NotEqual(t, syntax.Kind("comment"), tok.Kind())
	}

	lit := syntax.FindFirst(tree.Root(), syntax.OfKind("interpreted_string_literal"))
	require.NotNil(t, lit)
	tok, ok := lit.(*syntax.Token)
	require.True(t, ok, "string literals are single tokens")
	assert.Equal(t, `"hi "`, tok.Text())
	assert.True(t, tok.IsVerbatim())

	bin := syntax.FindFirst(tree.Root(), syntax.OfKind("binary_expression")).(*syntax.Node)
	require.Equal(t, 3, bin.ChildCount())
	assert.Equal(t, "+", syntax.TextOf(bin.Child(1)))
	assert.Equal(t, " // inline\n", syntax.TriviaText(bin.LastToken().Trailing()))
}

func TestParse_Languages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		lang treesitter.Language
		src  string
		root syntax.Kind
		want syntax.Kind
	}{
		{
			name: "python",
			lang: treesitter.Python,
			src:  "def f(x):\n    if x:\n        return 'a'  # yes\n    return 2\n",
			root: "module",
			want: "function_definition",
		},
		{
			name: "javascript",
			lang: treesitter.JavaScript,
			src:  "function f(a, b) {\r\n  return a < b; // cmp\r\n}\r\n",
			root: "program",
			want: "binary_expression",
		},
		{
			name: "go without trailing newline",
			lang: treesitter.Go,
			src:  "package p\n\nvar x = `raw\n  text`",
			root: "source_file",
			want: "raw_string_literal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tree, err := treesitter.New(tt.lang).Parse(context.Background(), []byte(tt.src))
			require.NoError(t, err)
			assert.Equal(t, tt.src, tree.Text())
			assert.Equal(t, tt.root, tree.Root().Kind())
			assert.NotNil(t, syntax.FindFirst(tree.Root(), syntax.OfKind(tt.want)))
		})
	}
}

func TestParse_SyntaxError(t *testing.T) {
	t.Parallel()

	_, err := treesitter.New(treesitter.Go).Parse(context.Background(), []byte("package p\n\nfunc (\n"))
	require.ErrorIs(t, err, treesitter.ErrSyntax)
	assert.Contains(t, err.Error(), "go source at")
}

func TestParse_Concurrent(t *testing.T) {
	t.Parallel()

	p := treesitter.New(treesitter.Go)
	var wg sync.WaitGroup
	for range 8 {
		wg.Go(func() {
			tree, err := p.Parse(context.Background(), []byte(goSrc))
			assert.NoError(t, err)
			if tree != nil {
				assert.Equal(t, goSrc, tree.Text())
			}
		})
	}
	wg.Wait()
}

func TestByName(t *testing.T) {
	t.Parallel()

	for _, lang := range treesitter.Languages() {
		got, ok := treesitter.ByName(lang.Name)
		require.True(t, ok)
		assert.Equal(t, lang.Name, got.Name)
		assert.Equal(t, lang.Name, treesitter.New(got).Language().Name)
	}

	_, ok := treesitter.ByName("cobol")
	assert.False(t, ok)
}
