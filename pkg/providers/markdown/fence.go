package markdown

import (
	"strings"

	"github.com/yaklabco/refit/pkg/langdetect"
	"github.com/yaklabco/refit/pkg/parser/goldmark"
	"github.com/yaklabco/refit/pkg/refactor"
	"github.com/yaklabco/refit/pkg/syntax"
)

// tokenInfo is the kind of the info string of a new code fence.
const tokenInfo syntax.Kind = "info"

// WrapInCodeFenceProvider turns a paragraph into a fenced code block.
type WrapInCodeFenceProvider struct {
	refactor.BaseProvider
}

// NewWrapInCodeFenceProvider creates the wrap-in-code-fence provider.
func NewWrapInCodeFenceProvider() *WrapInCodeFenceProvider {
	return &WrapInCodeFenceProvider{
		BaseProvider: refactor.NewBaseProvider("wrap-in-code-fence", "Wrap in code fence", "code", 10, langdetect.Markdown),
	}
}

// Accept reports whether the caret is in a paragraph outside blockquotes.
func (p *WrapInCodeFenceProvider) Accept(ctx *refactor.Context) bool {
	para := ctx.Enclosing(goldmark.KindParagraph)
	return para != nil && !inBlockquote(ctx.Tree(), para)
}

// Refactor replaces the paragraph with a fence around its text. The info
// string is the detected language of the text; the caret lands on it.
func (p *WrapInCodeFenceProvider) Refactor(ctx *refactor.Context) ([]refactor.EditAction, error) {
	para := ctx.Enclosing(goldmark.KindParagraph)
	if para == nil {
		return nil, nil
	}

	tree := ctx.Tree()
	eol := tree.EOL()
	text := syntax.TextOf(para)
	rel := relative(tree, para)

	lang := ctx.OptionString("language", "")
	if lang == "" {
		lang = langdetect.Detect([]byte(text))
	}
	fence := fenceFor(text)

	open := syntax.NewToken(goldmark.TokenFence, fence).WithLeading(rel.FirstToken().Leading()...)
	info := syntax.NewToken(tokenInfo, lang).WithTrailing(syntax.Newline(eol))
	body := syntax.WithOuterTrivia(rel, nil, []*syntax.Trivia{syntax.Newline(eol)})
	closing := syntax.NewToken(goldmark.TokenFence, fence).WithTrailing(rel.LastToken().Trailing()...)

	block := syntax.NewNode(goldmark.KindFencedCode, open, info, body, closing)

	ctx.Select(info)
	return []refactor.EditAction{refactor.Replace(para, block)}, nil
}

// fenceFor returns a backtick fence longer than any backtick run in text.
func fenceFor(text string) string {
	longest, run := 0, 0
	for i := range len(text) {
		if text[i] == '`' {
			run++
			longest = max(longest, run)
			continue
		}
		run = 0
	}
	return strings.Repeat("`", max(3, longest+1))
}
