package syntax

import (
	"slices"
	"strings"
)

// Token is a lexical token with the trivia surrounding it.
// Tokens are immutable; the With methods return modified copies.
type Token struct {
	kind     Kind
	text     string
	leading  []*Trivia
	trailing []*Trivia
	verbatim bool
}

// NewToken creates a token without trivia.
func NewToken(kind Kind, text string) *Token {
	return &Token{kind: kind, text: text}
}

// Kind returns the token kind.
func (t *Token) Kind() Kind { return t.kind }

// ElementKind implements Child.
func (t *Token) ElementKind() Kind { return t.kind }

// Text returns the token text without trivia.
func (t *Token) Text() string { return t.text }

// Leading returns the leading trivia. The slice must not be modified.
func (t *Token) Leading() []*Trivia { return t.leading }

// Trailing returns the trailing trivia. The slice must not be modified.
func (t *Token) Trailing() []*Trivia { return t.trailing }

// IsVerbatim reports whether the token text must be kept byte for byte by
// formatters, as with raw string literals.
func (t *Token) IsVerbatim() bool { return t.verbatim }

// IsEOF reports whether t terminates a tree.
func (t *Token) IsEOF() bool { return t.kind == KindEOF }

// Width returns the byte length of the token text.
func (t *Token) Width() int { return len(t.text) }

// LeadingWidth returns the byte length of the leading trivia.
func (t *Token) LeadingWidth() int { return triviaWidth(t.leading) }

// TrailingWidth returns the byte length of the trailing trivia.
func (t *Token) TrailingWidth() int { return triviaWidth(t.trailing) }

// FullWidth implements Element.
func (t *Token) FullWidth() int {
	return t.LeadingWidth() + len(t.text) + t.TrailingWidth()
}

// FullText implements Element.
func (t *Token) FullText() string {
	var b strings.Builder
	b.Grow(t.FullWidth())
	t.writeTo(&b)
	return b.String()
}

func (t *Token) writeTo(b *strings.Builder) {
	for _, tr := range t.leading {
		b.WriteString(tr.text)
	}
	b.WriteString(t.text)
	for _, tr := range t.trailing {
		b.WriteString(tr.text)
	}
}

// FirstToken implements Child.
func (t *Token) FirstToken() *Token { return t }

// LastToken implements Child.
func (t *Token) LastToken() *Token { return t }

// WithText returns a copy of t with different text.
func (t *Token) WithText(text string) *Token {
	c := *t
	c.text = text
	return &c
}

// WithKind returns a copy of t with a different kind.
func (t *Token) WithKind(kind Kind) *Token {
	c := *t
	c.kind = kind
	return &c
}

// AsVerbatim returns a copy of t marked verbatim.
func (t *Token) AsVerbatim() *Token {
	c := *t
	c.verbatim = true
	return &c
}

// WithLeading returns a copy of t with the given leading trivia.
func (t *Token) WithLeading(trivia ...*Trivia) *Token {
	c := *t
	c.leading = slices.Clip(slices.Clone(trivia))
	return &c
}

// WithTrailing returns a copy of t with the given trailing trivia.
func (t *Token) WithTrailing(trivia ...*Trivia) *Token {
	c := *t
	c.trailing = slices.Clip(slices.Clone(trivia))
	return &c
}

func (t *Token) element() {}
func (t *Token) child()   {}
