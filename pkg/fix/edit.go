// Package fix provides the text edit model used to commit a transaction to a
// document: validation, ordering, conflict detection, application and diffs.
package fix

// TextEdit replaces the bytes [StartOffset, EndOffset) of a document with
// NewText. A zero-length range is an insertion; an empty NewText a deletion.
type TextEdit struct {
	// StartOffset is the byte index where the edit begins (inclusive).
	StartOffset int `json:"start"`

	// EndOffset is the byte index where the edit ends (exclusive).
	EndOffset int `json:"end"`

	// NewText is the replacement text.
	NewText string `json:"new_text"`
}

// Delta returns the change in document length caused by the edit.
func (e TextEdit) Delta() int {
	return len(e.NewText) - (e.EndOffset - e.StartOffset)
}

// IsInsert reports whether the edit removes nothing.
func (e TextEdit) IsInsert() bool {
	return e.EndOffset == e.StartOffset
}

// EditBuilder accumulates text edits for one document, in the order they
// are recorded.
type EditBuilder struct {
	Edits []TextEdit
}

// NewEditBuilder creates a new EditBuilder.
func NewEditBuilder() *EditBuilder {
	return &EditBuilder{
		Edits: make([]TextEdit, 0),
	}
}

// ReplaceRange adds an edit that replaces bytes [start, end) with newText.
func (b *EditBuilder) ReplaceRange(start, end int, newText string) {
	b.Edits = append(b.Edits, TextEdit{
		StartOffset: start,
		EndOffset:   end,
		NewText:     newText,
	})
}

// Insert adds an edit that inserts text at the given offset.
func (b *EditBuilder) Insert(offset int, text string) {
	b.ReplaceRange(offset, offset, text)
}

// Delete adds an edit that deletes bytes [start, end).
func (b *EditBuilder) Delete(start, end int) {
	b.ReplaceRange(start, end, "")
}

// Len returns the number of recorded edits.
func (b *EditBuilder) Len() int {
	return len(b.Edits)
}
