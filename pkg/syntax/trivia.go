package syntax

import "strings"

// TriviaKind classifies incidental text.
type TriviaKind string

const (
	// TriviaWhitespace is a run of spaces, tabs, form feeds or vertical tabs.
	TriviaWhitespace TriviaKind = "whitespace"

	// TriviaNewline is a single "\n" or "\r\n".
	TriviaNewline TriviaKind = "newline"

	// TriviaComment is a comment recognized by the parser adapter.
	TriviaComment TriviaKind = "comment"

	// TriviaSkipped is text the parser adapter did not attribute to any token.
	TriviaSkipped TriviaKind = "skipped"
)

// Trivia is incidental text attached to a token: whitespace, line breaks,
// comments. Trivia values are immutable.
type Trivia struct {
	kind TriviaKind
	text string
}

// NewTrivia creates a trivia of the given kind.
func NewTrivia(kind TriviaKind, text string) *Trivia {
	return &Trivia{kind: kind, text: text}
}

// Whitespace creates whitespace trivia.
func Whitespace(text string) *Trivia {
	return NewTrivia(TriviaWhitespace, text)
}

// Newline creates newline trivia. An empty eol defaults to "\n".
func Newline(eol string) *Trivia {
	if eol == "" {
		eol = "\n"
	}
	return NewTrivia(TriviaNewline, eol)
}

// Comment creates comment trivia.
func Comment(text string) *Trivia {
	return NewTrivia(TriviaComment, text)
}

// Kind returns the trivia kind.
func (t *Trivia) Kind() TriviaKind { return t.kind }

// Text returns the trivia text.
func (t *Trivia) Text() string { return t.text }

// IsWhitespace reports whether t is a whitespace run.
func (t *Trivia) IsWhitespace() bool { return t.kind == TriviaWhitespace }

// IsNewline reports whether t is a line break.
func (t *Trivia) IsNewline() bool { return t.kind == TriviaNewline }

// FullWidth implements Element.
func (t *Trivia) FullWidth() int { return len(t.text) }

// FullText implements Element.
func (t *Trivia) FullText() string { return t.text }

func (t *Trivia) element() {}

// TriviaText concatenates the text of a trivia list.
func TriviaText(list []*Trivia) string {
	switch len(list) {
	case 0:
		return ""
	case 1:
		return list[0].text
	}
	var b strings.Builder
	for _, t := range list {
		b.WriteString(t.text)
	}
	return b.String()
}

func triviaWidth(list []*Trivia) int {
	n := 0
	for _, t := range list {
		n += len(t.text)
	}
	return n
}

func isBlank(b byte) bool {
	return b == ' ' || b == '\t' || b == '\f' || b == '\v'
}
