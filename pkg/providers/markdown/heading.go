package markdown

import (
	"strings"

	"github.com/yaklabco/refit/pkg/langdetect"
	"github.com/yaklabco/refit/pkg/parser/goldmark"
	"github.com/yaklabco/refit/pkg/refactor"
	"github.com/yaklabco/refit/pkg/syntax"
)

// InsertHeadingBeforeProvider inserts an ATX heading before the block at
// the caret.
type InsertHeadingBeforeProvider struct {
	refactor.BaseProvider
}

// NewInsertHeadingBeforeProvider creates the insert-heading-before provider.
func NewInsertHeadingBeforeProvider() *InsertHeadingBeforeProvider {
	return &InsertHeadingBeforeProvider{
		BaseProvider: refactor.NewBaseProvider("insert-heading-before", "Insert heading before", "heading", 20, langdetect.Markdown),
	}
}

// Accept reports whether the caret is inside a block.
func (p *InsertHeadingBeforeProvider) Accept(ctx *refactor.Context) bool {
	return blockAt(ctx) != nil
}

// Refactor inserts the heading, separated from the block by a blank line,
// and puts the caret on its text. Options: level (default 2) and text.
func (p *InsertHeadingBeforeProvider) Refactor(ctx *refactor.Context) ([]refactor.EditAction, error) {
	anchor := blockAt(ctx)
	if anchor == nil {
		return nil, nil
	}

	eol := ctx.Tree().EOL()
	level := min(max(ctx.OptionInt("level", 2), 1), 6)

	marker := syntax.NewToken(goldmark.TokenHeadingMarker, strings.Repeat("#", level)).
		WithTrailing(syntax.Whitespace(" "))
	title := syntax.NewToken(goldmark.TokenText, ctx.OptionString("text", "Heading"))

	// The anchor keeps its own blank line; the heading gets one on the
	// other side.
	if len(blankLines(anchor.FirstToken().Leading())) > 0 {
		marker = marker.WithLeading(syntax.Newline(eol))
		title = title.WithTrailing(syntax.Newline(eol))
	} else {
		title = title.WithTrailing(syntax.Newline(eol), syntax.Newline(eol))
	}

	ctx.Select(title)
	return []refactor.EditAction{
		refactor.InsertBefore(anchor, syntax.NewNode(goldmark.KindHeading, marker, title)),
	}, nil
}
