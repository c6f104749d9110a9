package golang

import (
	"slices"
	"strings"

	"github.com/yaklabco/refit/pkg/langdetect"
	"github.com/yaklabco/refit/pkg/refactor"
	"github.com/yaklabco/refit/pkg/syntax"
)

// statementLists are the node kinds whose children are statements.
var statementLists = map[string][]syntax.Kind{
	langdetect.Go: {
		"block", "statement_list",
		"expression_case", "default_case", "type_case", "communication_case",
	},
	langdetect.Python:     {"block", "module"},
	langdetect.JavaScript: {"statement_block", "program", "switch_case", "switch_default"},
}

func isStatement(kind syntax.Kind) bool {
	k := string(kind)
	return strings.HasSuffix(k, "_statement") ||
		strings.HasSuffix(k, "_declaration") ||
		strings.HasSuffix(k, "_definition")
}

// statementAt returns the innermost statement containing offset.
func statementAt(tree *syntax.Tree, lang string, offset int) *syntax.Node {
	tok := tree.TokenAt(offset)
	if tok == nil || tok.IsEOF() {
		return nil
	}
	lists := statementLists[lang]
	for _, anc := range tree.Ancestors(tok) {
		parent := tree.Parent(anc)
		if parent != nil && isStatement(anc.Kind()) && slices.Contains(lists, parent.Kind()) {
			return anc
		}
	}
	return nil
}

// enclosingStatements lists n and the statements around it, innermost first.
func enclosingStatements(tree *syntax.Tree, lang string, n *syntax.Node) []*syntax.Node {
	out := []*syntax.Node{n}
	lists := statementLists[lang]
	for _, anc := range tree.Ancestors(n) {
		parent := tree.Parent(anc)
		if parent != nil && isStatement(anc.Kind()) && slices.Contains(lists, parent.Kind()) {
			out = append(out, anc)
		}
	}
	return out
}

// selectedStatements returns the consecutive siblings covered by the
// target: the statement at the caret, or every child from the statement at
// the selection start to the one at its end. Separators between the
// statements are included.
func selectedStatements(ctx *refactor.Context) []syntax.Child {
	tree := ctx.Tree()
	target := ctx.Target()

	first := statementAt(tree, ctx.Language(), target.Start)
	if first == nil {
		return nil
	}
	if target.IsEmpty() {
		return []syntax.Child{first}
	}
	last := statementAt(tree, ctx.Language(), max(target.Start, target.End-1))
	if last == nil {
		return []syntax.Child{first}
	}

	for _, a := range enclosingStatements(tree, ctx.Language(), first) {
		for _, b := range enclosingStatements(tree, ctx.Language(), last) {
			parent := tree.Parent(a)
			if parent != tree.Parent(b) {
				continue
			}
			from, to := parent.IndexOf(a), parent.IndexOf(b)
			if from > to {
				return nil
			}
			return parent.Children()[from : to+1]
		}
	}
	return nil
}
