package golang

import (
	"github.com/yaklabco/refit/pkg/format"
	"github.com/yaklabco/refit/pkg/langdetect"
	"github.com/yaklabco/refit/pkg/refactor"
	"github.com/yaklabco/refit/pkg/syntax"
)

// WrapInIfProvider wraps the selected statements in an if statement.
type WrapInIfProvider struct {
	refactor.BaseProvider
}

// NewWrapInIfProvider creates the wrap-in-if provider.
func NewWrapInIfProvider() *WrapInIfProvider {
	return &WrapInIfProvider{
		BaseProvider: refactor.NewBaseProvider(
			"wrap-in-if",
			"Wrap in if statement",
			"brackets",
			10,
			langdetect.Go,
		),
	}
}

// Accept reports whether there is a statement to wrap.
func (p *WrapInIfProvider) Accept(ctx *refactor.Context) bool {
	return len(selectedStatements(ctx)) > 0
}

// Refactor replaces the statements with `if true { ... }` and puts the
// caret on the condition.
func (p *WrapInIfProvider) Refactor(ctx *refactor.Context) ([]refactor.EditAction, error) {
	stmts := selectedStatements(ctx)
	if len(stmts) == 0 {
		return nil, nil
	}

	tree := ctx.Tree()
	eol := tree.EOL()
	indent := ctx.OptionString("indent", "\t")

	body := []syntax.Child{token("{", "{", syntax.Newline(eol))}
	for _, stmt := range stmts {
		if _, ok := stmt.(*syntax.Token); ok {
			// Separators; the line breaks take their place.
			continue
		}
		moved := format.Reindent(ctx.Relative(stmt), "", indent, tree.AtLineStart(tree.FullSpan(stmt).Start))
		body = append(body, endLine(moved, eol))
	}
	body = append(body, token("}", "}"))

	cond := token("true", ctx.OptionString("condition", "true"), space())
	wrapped := syntax.NewNode("if_statement",
		token("if", "if", space()),
		cond,
		syntax.NewNode("block", body...),
	)

	ctx.Select(cond)
	return []refactor.EditAction{refactor.ReplaceMany(stmts, wrapped)}, nil
}
