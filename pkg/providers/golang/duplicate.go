package golang

import (
	"github.com/yaklabco/refit/pkg/langdetect"
	"github.com/yaklabco/refit/pkg/refactor"
	"github.com/yaklabco/refit/pkg/syntax"
)

var functionKinds = []syntax.Kind{"function_declaration", "method_declaration"}

// DuplicateFunctionProvider inserts a renamed copy of a function or method
// after it.
type DuplicateFunctionProvider struct {
	refactor.BaseProvider
}

// NewDuplicateFunctionProvider creates the duplicate-function provider.
func NewDuplicateFunctionProvider() *DuplicateFunctionProvider {
	return &DuplicateFunctionProvider{
		BaseProvider: refactor.NewBaseProvider(
			"duplicate-function",
			"Duplicate function",
			"copy",
			30,
			langdetect.Go,
		),
	}
}

// Accept reports whether the caret is inside a named function or method.
func (p *DuplicateFunctionProvider) Accept(ctx *refactor.Context) bool {
	fn := ctx.Enclosing(functionKinds...)
	return fn != nil && nameToken(fn) != nil
}

// Refactor inserts the copy and puts the caret on its name.
func (p *DuplicateFunctionProvider) Refactor(ctx *refactor.Context) ([]refactor.EditAction, error) {
	fn := ctx.Enclosing(functionKinds...)
	if fn == nil {
		return nil, nil
	}
	rel, ok := ctx.Relative(fn).(*syntax.Node)
	if !ok {
		return nil, nil
	}
	name := nameToken(rel)
	if name == nil {
		return nil, nil
	}

	renamed := name.WithText(name.Text() + ctx.OptionString("suffix", "Copy"))
	dup := syntax.MapTokens(rel, nil, func(tok *syntax.Token) *syntax.Token {
		if tok == name {
			return renamed
		}
		return tok
	})

	ctx.Select(renamed)
	return []refactor.EditAction{refactor.InsertAfter(fn, separate(dup, ctx.Tree().EOL()))}, nil
}

// nameToken returns the name of a function or method declaration.
func nameToken(fn *syntax.Node) *syntax.Token {
	want := syntax.Kind("identifier")
	if fn.Kind() == "method_declaration" {
		want = "field_identifier"
	}
	for _, c := range fn.Children() {
		if tok, ok := c.(*syntax.Token); ok && tok.Kind() == want {
			return tok
		}
	}
	return nil
}
