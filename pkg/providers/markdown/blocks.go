package markdown

import (
	"strings"

	"github.com/rivo/uniseg"

	"github.com/yaklabco/refit/pkg/format"
	"github.com/yaklabco/refit/pkg/parser/goldmark"
	"github.com/yaklabco/refit/pkg/refactor"
	"github.com/yaklabco/refit/pkg/syntax"
)

var blockKinds = []syntax.Kind{
	goldmark.KindHeading,
	goldmark.KindParagraph,
	goldmark.KindListItem,
	goldmark.KindBlockquote,
	goldmark.KindFencedCode,
	goldmark.KindCodeBlock,
	goldmark.KindThematicBreak,
	goldmark.KindHTMLBlock,
	goldmark.KindTable,
}

// blockAt returns the block at the caret. A block that opens a list item
// or blockquote stands for its container, since it shares the marker line.
func blockAt(ctx *refactor.Context) *syntax.Node {
	n := ctx.Enclosing(blockKinds...)
	if n == nil {
		return nil
	}
	tree := ctx.Tree()
	for {
		parent := tree.Parent(n)
		if parent == nil || (parent.Kind() != goldmark.KindListItem && parent.Kind() != goldmark.KindBlockquote) {
			return n
		}
		if firstBlock(parent) != n {
			return n
		}
		n = parent
	}
}

func firstBlock(n *syntax.Node) *syntax.Node {
	for _, c := range n.Children() {
		if node, ok := c.(*syntax.Node); ok {
			return node
		}
	}
	return nil
}

// nextBlock returns the block after n in its container.
func nextBlock(tree *syntax.Tree, n *syntax.Node) *syntax.Node {
	parent := tree.Parent(n)
	if parent == nil {
		return nil
	}
	for _, c := range parent.Children()[parent.IndexOf(n)+1:] {
		if node, ok := c.(*syntax.Node); ok {
			return node
		}
	}
	return nil
}

func inBlockquote(tree *syntax.Tree, n *syntax.Node) bool {
	for _, anc := range tree.Ancestors(n) {
		if anc.Kind() == goldmark.KindBlockquote {
			return true
		}
	}
	return false
}

// column returns the indent that lines continuing the content at offset
// need: the line prefix itself when it is blank, else that many spaces.
func column(tree *syntax.Tree, offset int) string {
	prefix := tree.LinePrefix(offset)
	if strings.TrimLeft(prefix, " \t") == "" {
		return prefix
	}
	return strings.Repeat(" ", uniseg.StringWidth(prefix))
}

// relative copies n with its content column moved to 0.
func relative(tree *syntax.Tree, n *syntax.Node) syntax.Child {
	full := tree.FullSpan(n)
	return format.Reindent(n, column(tree, tree.Span(n).Start), "", tree.AtLineStart(full.Start))
}

// blankLines keeps only the line breaks of trivia.
func blankLines(trivia []*syntax.Trivia) []*syntax.Trivia {
	var out []*syntax.Trivia
	for _, tr := range trivia {
		if tr.IsNewline() {
			out = append(out, syntax.Newline(tr.Text()))
		}
	}
	return out
}
