package goldmark

import (
	"github.com/yaklabco/refit/pkg/syntax"
)

// emitter replays collected blocks into a syntax.Builder line by line.
type emitter struct {
	b     *syntax.Builder
	src   string
	lines *syntax.LineIndex

	// line is the next line to emit; pos is the byte cursor.
	line int
	pos  int

	// quotes is the number of enclosing blockquotes.
	quotes int
}

func (e *emitter) block(n *block) {
	e.until(n.first)
	e.prefix(n.first)

	e.b.Open(n.kind)
	switch n.kind {
	case KindBlockquote:
		e.quotes++
		e.pos = e.quoteMarker(e.pos, e.lines.Line(n.first).NewlineStart)
	case KindListItem:
		e.pos = e.listMarker(e.pos, e.lines.Line(n.first).NewlineStart)
	}

	if n.leaf() {
		for l := n.first; l <= n.last; l++ {
			e.emitLine(l, func(from, to int) { e.leafLine(n, l, from, to) })
		}
	} else {
		for _, child := range n.children {
			e.block(child)
		}
		e.until(n.last + 1)
	}

	if n.kind == KindBlockquote {
		e.quotes--
	}
	e.b.Close()
}

// until emits the lines before line as plain text.
func (e *emitter) until(line int) {
	for e.line < line {
		e.emitLine(e.line, e.words)
	}
}

// prefix consumes the blockquote markers of enclosing quotes when the
// cursor sits at the start of line.
func (e *emitter) prefix(line int) {
	ln := e.lines.Line(line)
	if e.pos > ln.Start {
		return
	}
	e.pos = ln.Start
	for range e.quotes {
		next := e.quoteMarker(e.pos, ln.NewlineStart)
		if next == e.pos {
			break
		}
		e.pos = next
	}
}

func (e *emitter) emitLine(line int, fn func(from, to int)) {
	e.prefix(line)
	ln := e.lines.Line(line)
	fn(e.pos, ln.NewlineStart)
	e.line = line + 1
	e.pos = ln.End
}

func (e *emitter) leafLine(n *block, line, from, to int) {
	switch n.kind {
	case KindFencedCode:
		if line == n.first || (n.closed && line == n.last) {
			e.rest(TokenFence, from, to)
		} else {
			e.rest(TokenCode, from, to)
		}
	case KindCodeBlock:
		e.rest(TokenCode, from, to)
	case KindHTMLBlock:
		e.rest(TokenHTML, from, to)
	case KindThematicBreak:
		e.rest(TokenRule, from, to)
	case KindHeading:
		switch {
		case n.setext && line == n.last:
			e.rest(TokenSetextMarker, from, to)
		case !n.setext && line == n.first:
			e.words(e.headingMarker(from, to), to)
		default:
			e.words(from, to)
		}
	default:
		e.words(from, to)
	}
}

// words emits every non-blank run of src[from:to] as a text token.
func (e *emitter) words(from, to int) {
	for pos := from; pos < to; {
		if isBlank(e.src[pos]) {
			pos++
			continue
		}
		end := pos
		for end < to && !isBlank(e.src[end]) {
			end++
		}
		e.b.Token(TokenText, pos, end)
		pos = end
	}
}

// rest emits src[from:to] without surrounding blanks as one token.
func (e *emitter) rest(kind syntax.Kind, from, to int) {
	from = e.skipBlanks(from, to)
	for to > from && isBlank(e.src[to-1]) {
		to--
	}
	e.b.Token(kind, from, to)
}

func (e *emitter) headingMarker(from, to int) int {
	start := e.skipBlanks(from, to)
	end := start
	for end < to && e.src[end] == '#' {
		end++
	}
	if end > start {
		e.b.Token(TokenHeadingMarker, start, end)
	}
	return end
}

func (e *emitter) quoteMarker(from, to int) int {
	start := e.skipBlanks(from, to)
	if start < to && e.src[start] == '>' {
		e.b.Token(TokenQuoteMarker, start, start+1)
		return start + 1
	}
	return from
}

func (e *emitter) listMarker(from, to int) int {
	start := e.skipBlanks(from, to)
	if start >= to {
		return from
	}

	end := start
	switch c := e.src[start]; {
	case c == '-' || c == '*' || c == '+':
		end++
	case c >= '0' && c <= '9':
		for end < to && e.src[end] >= '0' && e.src[end] <= '9' {
			end++
		}
		if end < to && (e.src[end] == '.' || e.src[end] == ')') {
			end++
		} else {
			return from
		}
	default:
		return from
	}

	e.b.Token(TokenListMarker, start, end)
	return end
}

func (e *emitter) skipBlanks(from, to int) int {
	for from < to && isBlank(e.src[from]) {
		from++
	}
	return from
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t'
}
