package markdown

import (
	"github.com/yaklabco/refit/pkg/langdetect"
	"github.com/yaklabco/refit/pkg/refactor"
)

// RemoveBlockProvider removes the block at the caret.
type RemoveBlockProvider struct {
	refactor.BaseProvider
}

// NewRemoveBlockProvider creates the remove-block provider.
func NewRemoveBlockProvider() *RemoveBlockProvider {
	return &RemoveBlockProvider{
		BaseProvider: refactor.NewBaseProvider("remove-block", "Remove block", "trash", 90, langdetect.Markdown),
	}
}

// Accept reports whether the caret is inside a block.
func (p *RemoveBlockProvider) Accept(ctx *refactor.Context) bool {
	return blockAt(ctx) != nil
}

// Refactor removes the block.
func (p *RemoveBlockProvider) Refactor(ctx *refactor.Context) ([]refactor.EditAction, error) {
	block := blockAt(ctx)
	if block == nil {
		return nil, nil
	}
	return []refactor.EditAction{refactor.Remove(block)}, nil
}
