package document

import (
	"sync"

	"github.com/yaklabco/refit/pkg/fix"
)

// Caret is the selection of a single view. It implements
// refactor.SelectionHost and can follow the edits of a buffer.
type Caret struct {
	mu     sync.Mutex
	offset int
	length int
	set    bool
}

// NewCaret creates a caret at offset with an empty selection.
func NewCaret(offset int) *Caret {
	return &Caret{offset: offset}
}

// Select moves the selection. Only the first occurrence is supported.
func (c *Caret) Select(offset, length, occurrence int) {
	if occurrence > 1 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.offset, c.length, c.set = offset, length, true
}

// Offset returns the start of the selection.
func (c *Caret) Offset() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.offset
}

// Selection returns the current selection and whether Select was called.
func (c *Caret) Selection() (offset, length int, moved bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.offset, c.length, c.set
}

// Follow keeps the caret in place across edits committed to buf. It returns
// a function that stops following.
func (c *Caret) Follow(buf *Buffer) func() {
	return buf.Subscribe(func(ev EditEvent) {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.offset, c.length = shift(c.offset, c.length, ev.Edits)
	})
}

// shift maps a selection through sorted edits. Edits that overlap the
// selection collapse it to the end of their new text.
func shift(offset, length int, edits []fix.TextEdit) (int, int) {
	start, end := offset, offset+length
	delta := 0
	for _, e := range edits {
		switch {
		case e.EndOffset <= start:
			delta += e.Delta()
		case e.StartOffset >= end:
			return start + delta, end - start
		default:
			return e.StartOffset + delta + len(e.NewText), 0
		}
	}
	return start + delta, end - start
}
