package fix

// ApplyEdits splices prepared edits into content. Projection uses it to
// check that the edits reproduce the formatted text; documents use it to
// build the text they commit.
//
// The edits must come from PrepareEdits: sorted, in range and
// non-overlapping. Inserts sharing an offset land in slice order.
// content itself is returned when there is nothing to splice.
func ApplyEdits(content []byte, edits []TextEdit) []byte {
	if len(edits) == 0 {
		return content
	}

	size := len(content)
	for _, e := range edits {
		size += e.Delta()
	}

	out := make([]byte, 0, size)
	cursor := 0
	for _, e := range edits {
		out = append(out, content[cursor:e.StartOffset]...)
		out = append(out, e.NewText...)
		cursor = e.EndOffset
	}
	return append(out, content[cursor:]...)
}
