package document

import (
	"cmp"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rivo/uniseg"

	"github.com/yaklabco/refit/pkg/syntax"
)

// ErrPosition is returned for positions outside a document.
var ErrPosition = errors.New("position out of range")

// Position is a 1-based line and column. Columns count user-perceived
// characters, so "é" and "👍" each take one column.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Compare orders positions by line, then column.
func (p Position) Compare(q Position) int {
	return cmp.Or(cmp.Compare(p.Line, q.Line), cmp.Compare(p.Column, q.Column))
}

// ParsePosition parses "line:column" or "line".
func ParsePosition(s string) (Position, error) {
	lineText, colText, hasCol := strings.Cut(strings.TrimSpace(s), ":")
	line, err := strconv.Atoi(lineText)
	if err != nil || line < 1 {
		return Position{}, fmt.Errorf("%w: invalid line in %q", ErrPosition, s)
	}
	pos := Position{Line: line, Column: 1}
	if hasCol {
		col, err := strconv.Atoi(colText)
		if err != nil || col < 1 {
			return Position{}, fmt.Errorf("%w: invalid column in %q", ErrPosition, s)
		}
		pos.Column = col
	}
	return pos, nil
}

// PositionAt converts a byte offset of text to a Position.
func PositionAt(text string, offset int) Position {
	offset = min(max(offset, 0), len(text))
	idx := syntax.NewLineIndex(text)
	line := idx.LineOf(offset)
	start := idx.Line(line).Start
	return Position{Line: line + 1, Column: uniseg.GraphemeClusterCount(text[start:offset]) + 1}
}

// OffsetAt converts a Position to a byte offset of text. The column may
// point just past the end of the line.
func OffsetAt(text string, pos Position) (int, error) {
	idx := syntax.NewLineIndex(text)
	if pos.Line < 1 || pos.Line > idx.Count() || pos.Column < 1 {
		return 0, fmt.Errorf("%w: %s", ErrPosition, pos)
	}

	line := idx.Line(pos.Line - 1)
	offset := line.Start
	rest := text[line.Start:line.NewlineStart]
	state := -1
	for col := 1; col < pos.Column; col++ {
		if rest == "" {
			return 0, fmt.Errorf("%w: %s", ErrPosition, pos)
		}
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		offset += len(cluster)
	}
	return offset, nil
}

// ParseRange parses "line:column-line:column" into its two ends.
func ParseRange(s string) (Position, Position, error) {
	startText, endText, ok := strings.Cut(s, "-")
	if !ok {
		return Position{}, Position{}, fmt.Errorf("%w: range %q needs two positions", ErrPosition, s)
	}
	start, err := ParsePosition(startText)
	if err != nil {
		return Position{}, Position{}, err
	}
	end, err := ParsePosition(endText)
	if err != nil {
		return Position{}, Position{}, err
	}
	return start, end, nil
}
