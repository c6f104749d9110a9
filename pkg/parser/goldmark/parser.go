// Package goldmark builds lossless Markdown trees. goldmark decides the
// block structure; every byte of the source, container markers and blank
// lines included, ends up in the tree.
package goldmark

import (
	"context"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/refit/pkg/syntax"
)

// Markdown flavors.
const (
	FlavorCommonMark = "commonmark"
	FlavorGFM        = "gfm"
)

// Node kinds.
const (
	KindDocument      syntax.Kind = "document"
	KindHeading       syntax.Kind = "heading"
	KindParagraph     syntax.Kind = "paragraph"
	KindList          syntax.Kind = "list"
	KindListItem      syntax.Kind = "list_item"
	KindBlockquote    syntax.Kind = "blockquote"
	KindFencedCode    syntax.Kind = "fenced_code"
	KindCodeBlock     syntax.Kind = "code_block"
	KindThematicBreak syntax.Kind = "thematic_break"
	KindHTMLBlock     syntax.Kind = "html_block"
	KindTable         syntax.Kind = "table"
)

// Token kinds.
const (
	TokenText          syntax.Kind = "text"
	TokenHeadingMarker syntax.Kind = "heading_marker"
	TokenSetextMarker  syntax.Kind = "setext_marker"
	TokenListMarker    syntax.Kind = "list_marker"
	TokenQuoteMarker   syntax.Kind = "quote_marker"
	TokenFence         syntax.Kind = "fence"
	TokenCode          syntax.Kind = "code"
	TokenRule          syntax.Kind = "rule"
	TokenHTML          syntax.Kind = "html"
)

// Parser parses Markdown with goldmark.
type Parser struct {
	flavor string
	md     goldmark.Markdown
}

// New creates a parser for flavor. Unknown flavors fall back to CommonMark.
func New(flavor string) *Parser {
	f := flavorOrDefault(flavor)
	return &Parser{flavor: f, md: newGoldmarkInstance(f)}
}

// Flavor returns the configured flavor.
func (p *Parser) Flavor() string {
	return p.flavor
}

// Parse builds the tree of content.
func (p *Parser) Parse(ctx context.Context, content []byte) (*syntax.Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	src := string(content)
	doc := p.md.Parser().Parse(text.NewReader([]byte(src)))

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	lines := syntax.NewLineIndex(src)
	c := &collector{src: src, lines: lines}
	root := &block{kind: KindDocument, first: 0, last: lines.Count() - 1}
	root.children = c.children(doc)
	normalize(root, 0, lines.Count()-1)

	b := syntax.NewBuilder(src, KindDocument)
	b.Verbatim(TokenFence, TokenCode, TokenHTML)

	e := &emitter{b: b, src: src, lines: lines}
	for _, child := range root.children {
		e.block(child)
	}
	e.until(lines.Count())

	tree, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("build markdown tree: %w", err)
	}
	return tree, nil
}

func flavorOrDefault(flavor string) string {
	switch flavor {
	case FlavorCommonMark, FlavorGFM:
		return flavor
	default:
		return FlavorCommonMark
	}
}

//nolint:ireturn // goldmark.Markdown is an external interface type
func newGoldmarkInstance(flavor string) goldmark.Markdown {
	var opts []goldmark.Option
	if flavor == FlavorGFM {
		opts = append(opts, goldmark.WithExtensions(extension.GFM))
	}
	return goldmark.New(opts...)
}
