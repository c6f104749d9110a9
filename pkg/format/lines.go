package format

import "strings"

// line describes one line of region text starting at some offset.
type line struct {
	// indent is the length of the leading blank run.
	indent int

	// width is the length of the content, excluding the terminator.
	width int

	// contentEnd is the offset where the terminator begins.
	contentEnd int

	// next is the offset of the following line.
	next int

	// terminated is set when the line ends with "\n".
	terminated bool
}

func nextLine(text string, pos int) line {
	ln := line{contentEnd: len(text), next: len(text)}
	if i := strings.IndexByte(text[pos:], '\n'); i >= 0 {
		ln.terminated = true
		ln.contentEnd = pos + i
		ln.next = pos + i + 1
		if ln.contentEnd > pos && text[ln.contentEnd-1] == '\r' {
			ln.contentEnd--
		}
	}
	ln.width = ln.contentEnd - pos
	for ln.indent < ln.width && isBlank(text[pos+ln.indent]) {
		ln.indent++
	}
	return ln
}

func (l line) blank() bool {
	return l.indent == l.width
}

func isBlank(b byte) bool {
	return b == ' ' || b == '\t' || b == '\f' || b == '\v'
}
