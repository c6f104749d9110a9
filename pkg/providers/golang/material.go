package golang

import (
	"slices"
	"strings"

	"github.com/yaklabco/refit/pkg/syntax"
)

func token(kind, text string, trailing ...*syntax.Trivia) *syntax.Token {
	return syntax.NewToken(syntax.Kind(kind), text).WithTrailing(trailing...)
}

func space() *syntax.Trivia {
	return syntax.Whitespace(" ")
}

// endLine makes sure c ends with a line terminator.
func endLine(c syntax.Child, eol string) syntax.Child {
	last := c.LastToken()
	if last == nil || strings.HasSuffix(c.FullText(), "\n") {
		return c
	}
	return syntax.MapTokens(c, nil, func(tok *syntax.Token) *syntax.Token {
		if tok != last {
			return tok
		}
		return tok.WithTrailing(append(slices.Clone(tok.Trailing()), syntax.Newline(eol))...)
	})
}

// separate makes sure c starts with a blank line.
func separate(c syntax.Child, eol string) syntax.Child {
	first := c.FirstToken()
	if first == nil {
		return c
	}
	if lead := first.Leading(); len(lead) > 0 && lead[0].IsNewline() {
		return c
	}
	return syntax.MapTokens(c, nil, func(tok *syntax.Token) *syntax.Token {
		if tok != first {
			return tok
		}
		return tok.WithLeading(append([]*syntax.Trivia{syntax.Newline(eol)}, tok.Leading()...)...)
	})
}
