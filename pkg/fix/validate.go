package fix

import (
	"cmp"
	"fmt"
	"slices"
)

// ValidationError describes an invalid edit.
type ValidationError struct {
	Edit    TextEdit
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid edit [%d:%d]: %s", e.Edit.StartOffset, e.Edit.EndOffset, e.Message)
}

// ConflictError describes overlapping edits.
type ConflictError struct {
	Edit1 TextEdit
	Edit2 TextEdit
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("overlapping edits: [%d:%d] and [%d:%d]",
		e.Edit1.StartOffset, e.Edit1.EndOffset,
		e.Edit2.StartOffset, e.Edit2.EndOffset)
}

// ValidateEdits checks that all edits have valid ranges for the given content length.
// Returns nil if all edits are valid, or the first validation error encountered.
func ValidateEdits(edits []TextEdit, contentLen int) error {
	for _, edit := range edits {
		if edit.StartOffset < 0 {
			return &ValidationError{Edit: edit, Message: "start offset is negative"}
		}
		if edit.EndOffset < edit.StartOffset {
			return &ValidationError{Edit: edit, Message: "end offset is before start offset"}
		}
		if edit.EndOffset > contentLen {
			return &ValidationError{
				Edit:    edit,
				Message: fmt.Sprintf("end offset %d exceeds content length %d", edit.EndOffset, contentLen),
			}
		}
	}
	return nil
}

// SortEdits sorts edits by start offset, then by end offset. The sort is
// stable, so insertions at one offset keep the order they were given in.
func SortEdits(edits []TextEdit) {
	slices.SortStableFunc(edits, func(a, b TextEdit) int {
		return cmp.Or(
			cmp.Compare(a.StartOffset, b.StartOffset),
			cmp.Compare(a.EndOffset, b.EndOffset),
		)
	})
}

// DetectConflicts checks for overlapping edits in a sorted slice.
// Returns nil if no conflicts, or the first conflict found.
// Edits must be sorted by SortEdits before calling.
func DetectConflicts(edits []TextEdit) error {
	for i := 1; i < len(edits); i++ {
		prev := edits[i-1]
		curr := edits[i]
		// Overlap if current starts before previous ends.
		if curr.StartOffset < prev.EndOffset {
			return &ConflictError{Edit1: prev, Edit2: curr}
		}
	}
	return nil
}

// PrepareEdits validates, sorts, and checks for conflicts.
// Returns the sorted edits and any error encountered.
func PrepareEdits(edits []TextEdit, contentLen int) ([]TextEdit, error) {
	if len(edits) == 0 {
		return edits, nil
	}

	if err := ValidateEdits(edits, contentLen); err != nil {
		return nil, err
	}

	result := slices.Clone(edits)
	SortEdits(result)

	if err := DetectConflicts(result); err != nil {
		return nil, err
	}

	return result, nil
}
