package syntax

import "sort"

// Line describes one line of a document.
type Line struct {
	// Start is the byte offset of the first byte of the line.
	Start int

	// NewlineStart is the offset of the line terminator, or End when there is none.
	NewlineStart int

	// End is the offset just past the line terminator.
	End int
}

// LineIndex maps byte offsets to lines. It handles LF and CRLF endings.
type LineIndex struct {
	text  string
	lines []Line
}

// NewLineIndex builds the line table for text.
func NewLineIndex(text string) *LineIndex {
	idx := &LineIndex{text: text}
	lineStart := 0

	for i := 0; i < len(text); i++ {
		if text[i] != '\n' {
			continue
		}
		nl := i
		if i > 0 && text[i-1] == '\r' {
			nl = i - 1
		}
		idx.lines = append(idx.lines, Line{Start: lineStart, NewlineStart: nl, End: i + 1})
		lineStart = i + 1
	}

	// The last line may be empty or lack a terminator.
	idx.lines = append(idx.lines, Line{Start: lineStart, NewlineStart: len(text), End: len(text)})

	return idx
}

// Count returns the number of lines. An empty document has one empty line.
func (x *LineIndex) Count() int {
	return len(x.lines)
}

// Line returns the 0-based i-th line.
func (x *LineIndex) Line(i int) Line {
	return x.lines[i]
}

// LineOf returns the 0-based line containing offset. Offsets past the end
// map to the last line.
func (x *LineIndex) LineOf(offset int) int {
	if offset <= 0 {
		return 0
	}
	i := sort.Search(len(x.lines), func(i int) bool {
		return x.lines[i].End > offset
	})
	if i >= len(x.lines) {
		i = len(x.lines) - 1
	}
	return i
}

// Position converts a byte offset to 1-based line and byte column.
func (x *LineIndex) Position(offset int) (int, int) {
	i := x.LineOf(offset)
	return i + 1, offset - x.lines[i].Start + 1
}

// Offset converts a 1-based line and byte column to an offset.
// The column may point just past the line content (end of line).
func (x *LineIndex) Offset(line, col int) (int, bool) {
	if line < 1 || line > len(x.lines) || col < 1 {
		return 0, false
	}
	l := x.lines[line-1]
	offset := l.Start + col - 1
	if offset > l.NewlineStart {
		return 0, false
	}
	return offset, true
}

// Content returns the text of the 0-based line i without its terminator.
func (x *LineIndex) Content(i int) string {
	l := x.lines[i]
	return x.text[l.Start:l.NewlineStart]
}
