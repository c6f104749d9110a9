package markdown

import (
	"github.com/yaklabco/refit/pkg/langdetect"
	"github.com/yaklabco/refit/pkg/parser/goldmark"
	"github.com/yaklabco/refit/pkg/refactor"
	"github.com/yaklabco/refit/pkg/syntax"
)

// MergeParagraphsProvider joins the paragraph at the caret with the
// paragraph right after it.
type MergeParagraphsProvider struct {
	refactor.BaseProvider
}

// NewMergeParagraphsProvider creates the merge-paragraphs provider.
func NewMergeParagraphsProvider() *MergeParagraphsProvider {
	return &MergeParagraphsProvider{
		BaseProvider: refactor.NewBaseProvider("merge-paragraphs", "Merge with next paragraph", "merge", 40, langdetect.Markdown),
	}
}

// Accept reports whether the paragraph at the caret is directly followed
// by another paragraph.
func (p *MergeParagraphsProvider) Accept(ctx *refactor.Context) bool {
	_, second := paragraphPair(ctx)
	return second != nil
}

// Refactor replaces both paragraphs with one. The caret lands on the first
// word that came from the second paragraph.
func (p *MergeParagraphsProvider) Refactor(ctx *refactor.Context) ([]refactor.EditAction, error) {
	first, second := paragraphPair(ctx)
	if second == nil {
		return nil, nil
	}

	tree := ctx.Tree()
	head, ok := relative(tree, first).(*syntax.Node)
	if !ok {
		return nil, nil
	}
	tail, ok := relative(tree, second).(*syntax.Node)
	if !ok {
		return nil, nil
	}

	head = syntax.WithOuterTrivia(head, head.FirstToken().Leading(), []*syntax.Trivia{syntax.Whitespace(" ")}).(*syntax.Node)
	tail = syntax.WithOuterTrivia(tail, nil, tail.LastToken().Trailing()).(*syntax.Node)

	merged := syntax.NewNode(goldmark.KindParagraph, append(head.Children(), tail.Children()...)...)

	ctx.Select(tail.FirstToken())
	return []refactor.EditAction{refactor.ReplaceMany([]syntax.Child{first, second}, merged)}, nil
}

func paragraphPair(ctx *refactor.Context) (*syntax.Node, *syntax.Node) {
	first := ctx.Enclosing(goldmark.KindParagraph)
	if first == nil {
		return nil, nil
	}
	parent := ctx.Tree().Parent(first)
	i := parent.IndexOf(first)
	if i+1 >= parent.ChildCount() {
		return nil, nil
	}
	second, ok := parent.Child(i + 1).(*syntax.Node)
	if !ok || second.Kind() != goldmark.KindParagraph {
		return nil, nil
	}
	return first, second
}
