package format

import (
	"github.com/yaklabco/refit/pkg/fix"
	"github.com/yaklabco/refit/pkg/syntax"
)

// Reindent returns c with the indent of every non-blank line changed from
// `from` to `to`. Only the part of a line's indent that matches `from` is
// removed. The first line counts only when atLineStart is set, that is
// when c begins a line in its source. Verbatim tokens are left alone.
//
// Providers use it to turn an existing subtree into material relative to
// column 0 (to == "") before splicing it elsewhere.
func Reindent(c syntax.Child, from, to string, atLineStart bool) syntax.Child {
	if from == to {
		return c
	}

	var tokens []*syntax.Token
	for tok := range syntax.TokensOf(c) {
		tokens = append(tokens, tok)
	}
	if len(tokens) == 0 {
		return c
	}

	text, items := flatten(tokens)

	var ops []fix.TextEdit
	for pos := 0; pos < len(text); {
		ln := nextLine(text, pos)
		if !ln.blank() && (pos > 0 || atLineStart) {
			strip := commonPrefix(text[pos:pos+ln.indent], from)
			if strip > 0 || to != "" {
				ops = append(ops, fix.TextEdit{StartOffset: pos, EndOffset: pos + strip, NewText: to})
			}
		}
		pos = ln.next
	}
	if len(ops) == 0 {
		return c
	}

	mapped := rewriteTokens(tokens, items, ops, nil)
	return syntax.MapTokens(c, nil, func(tok *syntax.Token) *syntax.Token {
		return mapped[tok]
	})
}

func commonPrefix(a, b string) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}
