package markdown

import (
	"github.com/yaklabco/refit/pkg/langdetect"
	"github.com/yaklabco/refit/pkg/refactor"
	"github.com/yaklabco/refit/pkg/syntax"
)

// SwapWithNextProvider exchanges the block at the caret with the block
// that follows it.
type SwapWithNextProvider struct {
	refactor.BaseProvider
}

// NewSwapWithNextProvider creates the swap-with-next provider.
func NewSwapWithNextProvider() *SwapWithNextProvider {
	return &SwapWithNextProvider{
		BaseProvider: refactor.NewBaseProvider("swap-with-next", "Move block down", "arrow-down", 30, langdetect.Markdown),
	}
}

// Accept reports whether the block at the caret has a next sibling.
func (p *SwapWithNextProvider) Accept(ctx *refactor.Context) bool {
	block := blockAt(ctx)
	return block != nil && nextBlock(ctx.Tree(), block) != nil
}

// Refactor replaces each block with the other one. Both keep the spacing
// of the place they move to. The caret follows the moved block.
func (p *SwapWithNextProvider) Refactor(ctx *refactor.Context) ([]refactor.EditAction, error) {
	tree := ctx.Tree()
	a := blockAt(ctx)
	if a == nil {
		return nil, nil
	}
	b := nextBlock(tree, a)
	if b == nil {
		return nil, nil
	}

	up := syntax.WithOuterTrivia(relative(tree, b), blankLines(a.FirstToken().Leading()), a.LastToken().Trailing())
	down := syntax.WithOuterTrivia(relative(tree, a), blankLines(b.FirstToken().Leading()), b.LastToken().Trailing())

	ctx.Select(down)
	return []refactor.EditAction{
		refactor.Replace(a, up),
		refactor.Replace(b, down),
	}, nil
}
