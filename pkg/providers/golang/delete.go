package golang

import (
	"github.com/yaklabco/refit/pkg/langdetect"
	"github.com/yaklabco/refit/pkg/refactor"
)

// DeleteStatementProvider removes the statement at the caret, or every
// statement touched by the selection.
type DeleteStatementProvider struct {
	refactor.BaseProvider
}

// NewDeleteStatementProvider creates the delete-statement provider.
func NewDeleteStatementProvider() *DeleteStatementProvider {
	return &DeleteStatementProvider{
		BaseProvider: refactor.NewBaseProvider(
			"delete-statement",
			"Delete statement",
			"trash",
			90,
			langdetect.Go, langdetect.Python, langdetect.JavaScript,
		),
	}
}

// Accept reports whether the caret is inside a statement.
func (p *DeleteStatementProvider) Accept(ctx *refactor.Context) bool {
	return len(selectedStatements(ctx)) > 0
}

// Refactor removes the selected statements.
func (p *DeleteStatementProvider) Refactor(ctx *refactor.Context) ([]refactor.EditAction, error) {
	stmts := selectedStatements(ctx)
	if len(stmts) == 0 {
		return nil, nil
	}
	return []refactor.EditAction{refactor.Remove(stmts...)}, nil
}
