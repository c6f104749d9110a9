package syntax

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnbalanced is returned by Builder.Build when Open and Close calls do
// not pair up.
var ErrUnbalanced = errors.New("unbalanced node nesting")

type eventKind int

const (
	eventOpen eventKind = iota
	eventClose
	eventToken
)

type event struct {
	kind  eventKind
	node  Kind
	token int
}

type tokenRange struct {
	kind       Kind
	start, end int
}

// Builder turns a parser's view of a document into a lossless tree.
// Parser adapters report nodes and token ranges in document order; every
// byte between tokens becomes trivia, so the resulting tree reproduces the
// source exactly.
type Builder struct {
	src      string
	rootKind Kind
	pos      int
	depth    int
	events   []event
	tokens   []tokenRange
	comments []Span
	verbatim map[Kind]bool
	err      error
}

// NewBuilder creates a builder for src whose root node has kind rootKind.
func NewBuilder(src string, rootKind Kind) *Builder {
	return &Builder{src: src, rootKind: rootKind}
}

// Open starts a node of the given kind.
func (b *Builder) Open(kind Kind) {
	b.depth++
	b.events = append(b.events, event{kind: eventOpen, node: kind})
}

// Close ends the most recently opened node.
func (b *Builder) Close() {
	if b.depth == 0 {
		if b.err == nil {
			b.err = fmt.Errorf("%w: close without open", ErrUnbalanced)
		}
		return
	}
	b.depth--
	b.events = append(b.events, event{kind: eventClose})
}

// Token adds a token covering src[start:end]. Ranges that overlap an
// earlier token are clipped; empty ranges are ignored and reported as false.
func (b *Builder) Token(kind Kind, start, end int) bool {
	start = max(start, b.pos)
	end = min(end, len(b.src))
	if end <= start {
		return false
	}
	b.tokens = append(b.tokens, tokenRange{kind: kind, start: start, end: end})
	b.events = append(b.events, event{kind: eventToken, token: len(b.tokens) - 1})
	b.pos = end
	return true
}

// Comment declares src[start:end] as a comment. Comments become trivia of
// the surrounding tokens.
func (b *Builder) Comment(start, end int) {
	if end > start {
		b.comments = append(b.comments, Span{Start: start, End: end})
	}
}

// Verbatim declares token kinds whose text formatters must not touch.
func (b *Builder) Verbatim(kinds ...Kind) {
	if b.verbatim == nil {
		b.verbatim = make(map[Kind]bool, len(kinds))
	}
	for _, k := range kinds {
		b.verbatim[k] = true
	}
}

// Pos returns the end of the last token added.
func (b *Builder) Pos() int {
	return b.pos
}

// Build assembles the tree. The root receives a trailing EOF token that
// carries whatever follows the last token.
func (b *Builder) Build() (*Tree, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.depth != 0 {
		return nil, fmt.Errorf("%w: %d node(s) left open", ErrUnbalanced, b.depth)
	}

	sort.Slice(b.comments, func(i, j int) bool { return b.comments[i].Start < b.comments[j].Start })

	// Gap i precedes token i; the last gap precedes EOF.
	leading := make([][]*Trivia, len(b.tokens)+1)
	trailing := make([][]*Trivia, len(b.tokens))
	prevEnd := 0
	for i := 0; i <= len(b.tokens); i++ {
		gapEnd := len(b.src)
		if i < len(b.tokens) {
			gapEnd = b.tokens[i].start
		}
		gap := b.scan(prevEnd, gapEnd)
		if i == 0 {
			leading[i] = gap
		} else {
			trailing[i-1], leading[i] = splitGap(gap)
		}
		if i < len(b.tokens) {
			prevEnd = b.tokens[i].end
		}
	}

	type frame struct {
		kind     Kind
		children []Child
	}
	stack := []*frame{{kind: b.rootKind}}

	for _, ev := range b.events {
		top := stack[len(stack)-1]
		switch ev.kind {
		case eventOpen:
			stack = append(stack, &frame{kind: ev.node})
		case eventClose:
			stack = stack[:len(stack)-1]
			if len(top.children) > 0 {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, NewNode(top.kind, top.children...))
			}
		case eventToken:
			r := b.tokens[ev.token]
			top.children = append(top.children, &Token{
				kind:     r.kind,
				text:     b.src[r.start:r.end],
				leading:  leading[ev.token],
				trailing: trailing[ev.token],
				verbatim: b.verbatim[r.kind],
			})
		}
	}

	root := stack[0]
	root.children = append(root.children, &Token{kind: KindEOF, leading: leading[len(b.tokens)]})

	return NewTree(NewNode(root.kind, root.children...)), nil
}

// scan splits src[start:end] into trivia.
func (b *Builder) scan(start, end int) []*Trivia {
	var out []*Trivia
	ci := sort.Search(len(b.comments), func(i int) bool { return b.comments[i].End > start })

	for pos := start; pos < end; {
		for ci < len(b.comments) && b.comments[ci].End <= pos {
			ci++
		}
		if ci < len(b.comments) && b.comments[ci].Start <= pos {
			stop := min(b.comments[ci].End, end)
			out = append(out, Comment(b.src[pos:stop]))
			pos = stop
			continue
		}

		c := b.src[pos]
		switch {
		case c == '\n':
			out = append(out, Newline("\n"))
			pos++
		case c == '\r' && pos+1 < end && b.src[pos+1] == '\n':
			out = append(out, Newline("\r\n"))
			pos += 2
		case isBlank(c):
			stop := pos
			for stop < end && isBlank(b.src[stop]) {
				stop++
			}
			out = append(out, Whitespace(b.src[pos:stop]))
			pos = stop
		default:
			stop := pos
			for stop < end && !isBlank(b.src[stop]) && b.src[stop] != '\n' &&
				!(b.src[stop] == '\r' && stop+1 < end && b.src[stop+1] == '\n') &&
				!(ci < len(b.comments) && b.comments[ci].Start == stop) {
				stop++
			}
			out = append(out, NewTrivia(TriviaSkipped, b.src[pos:stop]))
			pos = stop
		}
	}
	return out
}

// splitGap gives the previous token everything up to and including the
// first line break; the rest leads the next token.
func splitGap(gap []*Trivia) ([]*Trivia, []*Trivia) {
	for i, tr := range gap {
		if tr.IsNewline() {
			return gap[:i+1:i+1], gap[i+1:]
		}
	}
	return gap, nil
}

// Parse builds a tree in which every non-blank run of src is a token.
// It is the fallback for documents without a dedicated parser.
func Parse(src string, rootKind Kind) *Tree {
	b := NewBuilder(src, rootKind)
	for pos := 0; pos < len(src); {
		if isBlank(src[pos]) || src[pos] == '\n' || src[pos] == '\r' {
			pos++
			continue
		}
		stop := pos
		for stop < len(src) && !isBlank(src[stop]) && src[stop] != '\n' && src[stop] != '\r' {
			stop++
		}
		b.Token(KindWord, pos, stop)
		pos = stop
	}
	tree, _ := b.Build()
	return tree
}

// KindWord is the token kind produced by Parse.
const KindWord Kind = "word"
