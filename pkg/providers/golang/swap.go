package golang

import (
	"github.com/yaklabco/refit/pkg/langdetect"
	"github.com/yaklabco/refit/pkg/refactor"
	"github.com/yaklabco/refit/pkg/syntax"
)

// mirrored maps an operator to the one that keeps the meaning when the
// operands trade places.
var mirrored = map[string]string{
	"<": ">", ">": "<", "<=": ">=", ">=": "<=",
	"==": "==", "!=": "!=", "===": "===", "!==": "!==",
	"+": "+", "*": "*", "&": "&", "|": "|", "^": "^",
	"&&": "&&", "||": "||",
}

// SwapOperandsProvider exchanges the operands of a binary expression.
type SwapOperandsProvider struct {
	refactor.BaseProvider
}

// NewSwapOperandsProvider creates the swap-operands provider.
func NewSwapOperandsProvider() *SwapOperandsProvider {
	return &SwapOperandsProvider{
		BaseProvider: refactor.NewBaseProvider(
			"swap-operands",
			"Swap operands",
			"arrows",
			20,
			langdetect.Go, langdetect.JavaScript,
		),
	}
}

// Accept reports whether the caret is inside a swappable binary expression.
func (p *SwapOperandsProvider) Accept(ctx *refactor.Context) bool {
	return binaryAt(ctx) != nil
}

// Refactor replaces the expression with its operands swapped.
func (p *SwapOperandsProvider) Refactor(ctx *refactor.Context) ([]refactor.EditAction, error) {
	expr := binaryAt(ctx)
	if expr == nil {
		return nil, nil
	}

	rel, ok := ctx.Relative(expr).(*syntax.Node)
	if !ok {
		return nil, nil
	}
	left, right := rel.Child(0), rel.Child(2)
	op := rel.Child(1).(*syntax.Token)

	newOp := op.WithText(mirrored[op.Text()])
	swapped := syntax.NewNode(rel.Kind(),
		syntax.WithOuterTrivia(syntax.Clone(right, nil), left.FirstToken().Leading(), left.LastToken().Trailing()),
		newOp,
		syntax.WithOuterTrivia(syntax.Clone(left, nil), right.FirstToken().Leading(), right.LastToken().Trailing()),
	)

	ctx.Select(newOp)
	return []refactor.EditAction{refactor.Replace(expr, swapped)}, nil
}

// binaryAt returns the innermost binary expression around the caret whose
// operator can be mirrored.
func binaryAt(ctx *refactor.Context) *syntax.Node {
	tree := ctx.Tree()
	target := ctx.Target()

	tok := tree.TokenAt(target.Start)
	if tok == nil {
		return nil
	}
	for _, anc := range tree.Ancestors(tok) {
		if anc.Kind() != "binary_expression" || anc.ChildCount() != 3 || !tree.FullSpan(anc).Covers(target) {
			continue
		}
		op, ok := anc.Child(1).(*syntax.Token)
		if !ok {
			continue
		}
		if _, ok := mirrored[op.Text()]; ok {
			return anc
		}
	}
	return nil
}
