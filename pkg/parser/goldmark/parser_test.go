package goldmark_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/refit/pkg/parser/goldmark"
	"github.com/yaklabco/refit/pkg/syntax"
)

func parse(t *testing.T, flavor, src string) *syntax.Tree {
	t.Helper()

	tree, err := goldmark.New(flavor).Parse(context.Background(), []byte(src))
	require.NoError(t, err)
	require.Equal(t, src, tree.Text(), "tree must reproduce the source")
	return tree
}

func topKinds(tree *syntax.Tree) []syntax.Kind {
	var kinds []syntax.Kind
	for _, c := range tree.Root().Children() {
		if tok, ok := c.(*syntax.Token); ok && tok.IsEOF() {
			continue
		}
		kinds = append(kinds, c.ElementKind())
	}
	return kinds
}

func tokensOf(c syntax.Child) []string {
	var out []string
	for tok := range syntax.TokensOf(c) {
		out = append(out, string(tok.Kind())+":"+tok.Text())
	}
	return out
}

func TestParse_RoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
	}{
		{name: "empty", src: ""},
		{name: "blank lines", src: "\n\n\n"},
		{name: "no final newline", src: "# Title\n\ntext"},
		{name: "crlf", src: "# Title\r\n\r\n- a\r\n- b\r\n"},
		{name: "nested lists", src: "- a\n  - b\n    - c\n- d\n"},
		{name: "empty list item", src: "-\n- b\n"},
		{name: "nested quotes", src: "> a\n> > b\n> c\n"},
		{name: "lazy continuation", src: "> a\nb\n"},
		{name: "unclosed fence", src: "```\ncode\n"},
		{name: "empty fence", src: "```\n```\n"},
		{name: "fence in list", src: "- item\n\n  ```sh\n  ls\n  ```\n"},
		{name: "link definition", src: "[x]: https://example.com\n\ntext [x]\n"},
		{name: "html comment", src: "<!-- note -->\n\ntext\n"},
		{name: "tabs", src: "-\ta\n\n\tcode\n"},
		{name: "unicode", src: "# Grüße 👋\n\n- é\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			for _, flavor := range []string{goldmark.FlavorCommonMark, goldmark.FlavorGFM} {
				tree := parse(t, flavor, tt.src)
				last := tree.Root().LastToken()
				require.NotNil(t, last)
				assert.True(t, last.IsEOF())
			}
		})
	}
}

func TestParse_Blocks(t *testing.T) {
	t.Parallel()

	src := "# Title\n\nSome text\nmore.\n\n- a\n- b\n\n> quote\n\n```go\nfmt.Println()\n```\n\n---\n\n    indented\n\n<div>\nhi\n</div>\n"
	tree := parse(t, goldmark.FlavorCommonMark, src)

	assert.Equal(t, []syntax.Kind{
		goldmark.KindHeading,
		goldmark.KindParagraph,
		goldmark.KindList,
		goldmark.KindBlockquote,
		goldmark.KindFencedCode,
		goldmark.KindThematicBreak,
		goldmark.KindCodeBlock,
		goldmark.KindHTMLBlock,
	}, topKinds(tree))

	heading := syntax.FindFirst(tree.Root(), syntax.OfKind(goldmark.KindHeading))
	assert.Equal(t, []string{"heading_marker:#", "text:Title"}, tokensOf(heading))

	para := syntax.FindFirst(tree.Root(), syntax.OfKind(goldmark.KindParagraph))
	assert.Equal(t, "Some text\nmore.", syntax.TextOf(para))

	rule := syntax.FindFirst(tree.Root(), syntax.OfKind(goldmark.KindThematicBreak))
	assert.Equal(t, []string{"rule:---"}, tokensOf(rule))

	code := syntax.FindFirst(tree.Root(), syntax.OfKind(goldmark.KindCodeBlock))
	assert.Equal(t, []string{"code:indented"}, tokensOf(code))

	html := syntax.FindFirst(tree.Root(), syntax.OfKind(goldmark.KindHTMLBlock))
	assert.Equal(t, []string{"html:<div>", "html:hi", "html:</div>"}, tokensOf(html))
}

func TestParse_FencedCodeIsVerbatim(t *testing.T) {
	t.Parallel()

	tree := parse(t, goldmark.FlavorCommonMark, "text\n\n~~~~ python\n  x = 1\n\ny = 2\n~~~~\n")
	fence := syntax.FindFirst(tree.Root(), syntax.OfKind(goldmark.KindFencedCode))
	require.NotNil(t, fence)

	assert.Equal(t, []string{"fence:~~~~ python", "code:x = 1", "code:y = 2", "fence:~~~~"}, tokensOf(fence))
	for tok := range syntax.TokensOf(fence) {
		assert.True(t, tok.IsVerbatim(), tok.Text())
	}
	code := fence.(*syntax.Node).Child(1).(*syntax.Token)
	assert.Equal(t, "  ", syntax.TriviaText(code.Leading()))
}

func TestParse_Setext(t *testing.T) {
	t.Parallel()

	tree := parse(t, goldmark.FlavorCommonMark, "Big\nTitle\n=====\n\ntext\n")
	assert.Equal(t, []syntax.Kind{goldmark.KindHeading, goldmark.KindParagraph}, topKinds(tree))

	heading := syntax.FindFirst(tree.Root(), syntax.OfKind(goldmark.KindHeading))
	assert.Equal(t, []string{"text:Big", "text:Title", "setext_marker:====="}, tokensOf(heading))
}

func TestParse_ListMarkersBelongToItems(t *testing.T) {
	t.Parallel()

	tree := parse(t, goldmark.FlavorCommonMark, "1. one\n2. two\n   more\n")
	items := syntax.FindAll(tree.Root(), syntax.OfKind(goldmark.KindListItem))
	require.Len(t, items, 2)

	first := items[0].(*syntax.Node)
	assert.Equal(t, "list_marker:1.", tokensOf(first.Child(0))[0])
	assert.Equal(t, goldmark.KindParagraph, first.Child(1).ElementKind())
	assert.Equal(t, "one", syntax.TextOf(first.Child(1)))

	second := items[1].(*syntax.Node)
	assert.Equal(t, "2. two\n   more", syntax.TextOf(second))
	assert.Equal(t, "two\n   more", syntax.TextOf(second.Child(1)))
	assert.Equal(t, "2. two\n   more\n", tree.Text()[tree.FullSpan(second).Start:tree.FullSpan(second).End])
}

func TestParse_Blockquote(t *testing.T) {
	t.Parallel()

	tree := parse(t, goldmark.FlavorCommonMark, "> a\n>\n> b\n")
	quote := syntax.FindFirst(tree.Root(), syntax.OfKind(goldmark.KindBlockquote)).(*syntax.Node)

	var kinds []syntax.Kind
	for _, c := range quote.Children() {
		kinds = append(kinds, c.ElementKind())
	}
	assert.Equal(t, []syntax.Kind{
		goldmark.TokenQuoteMarker,
		goldmark.KindParagraph,
		goldmark.TokenQuoteMarker,
		goldmark.TokenQuoteMarker,
		goldmark.KindParagraph,
	}, kinds)

	paras := syntax.FindAll(quote, syntax.OfKind(goldmark.KindParagraph))
	require.Len(t, paras, 2)
	assert.Equal(t, "b", syntax.TextOf(paras[1]))
}

func TestParse_GFMTable(t *testing.T) {
	t.Parallel()

	src := "| a | b |\n|---|---|\n| 1 | 2 |\n\nafter\n"

	tree := parse(t, goldmark.FlavorGFM, src)
	assert.Equal(t, []syntax.Kind{goldmark.KindTable, goldmark.KindParagraph}, topKinds(tree))

	table := syntax.FindFirst(tree.Root(), syntax.OfKind(goldmark.KindTable))
	assert.Equal(t, "| a | b |\n|---|---|\n| 1 | 2 |", syntax.TextOf(table))

	plain := parse(t, goldmark.FlavorCommonMark, src)
	assert.Equal(t, []syntax.Kind{goldmark.KindParagraph, goldmark.KindParagraph}, topKinds(plain))
}

func TestParse_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := goldmark.New(goldmark.FlavorGFM).Parse(ctx, []byte("# x\n"))
	require.ErrorIs(t, err, context.Canceled)
}

func TestNew_Flavor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, goldmark.FlavorGFM, goldmark.New(goldmark.FlavorGFM).Flavor())
	assert.Equal(t, goldmark.FlavorCommonMark, goldmark.New("unknown").Flavor())
}

func FuzzParse(f *testing.F) {
	for _, seed := range []string{
		"", "# a\n", "- a\n  - b\n", "> a\n> > b\n", "```\nx\n```\n", "a\n===\n",
		"| a |\n|---|\n", "1) x\n\n    y\n", "<div>\n\n</div>\n", "-\n\n***\n",
	} {
		f.Add(seed)
	}

	p := goldmark.New(goldmark.FlavorGFM)
	f.Fuzz(func(t *testing.T, src string) {
		tree, err := p.Parse(context.Background(), []byte(src))
		require.NoError(t, err)
		require.Equal(t, src, tree.Text())
	})
}
