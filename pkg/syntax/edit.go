package syntax

// ReplaceNode returns a tree in which old is substituted by replacement.
// Passing several replacements substitutes one child with a sequence;
// passing none removes old.
func (t *Tree) ReplaceNode(old Child, markers *Markers, replacement ...Child) (*Tree, error) {
	r := NewRewriter()
	r.Replace(old, replacement...)
	return t.Apply(r, markers)
}

// InsertNodesBefore returns a tree with nodes spliced in immediately before
// anchor, keeping every other sibling.
func (t *Tree) InsertNodesBefore(anchor Child, markers *Markers, nodes ...Child) (*Tree, error) {
	r := NewRewriter()
	r.InsertBefore(anchor, nodes...)
	return t.Apply(r, markers)
}

// InsertNodesAfter returns a tree with nodes spliced in immediately after
// anchor, keeping every other sibling.
func (t *Tree) InsertNodesAfter(anchor Child, markers *Markers, nodes ...Child) (*Tree, error) {
	r := NewRewriter()
	r.InsertAfter(anchor, nodes...)
	return t.Apply(r, markers)
}

// RemoveNodes returns a tree without the given children. Their trivia goes
// with them.
func (t *Tree) RemoveNodes(markers *Markers, nodes ...Child) (*Tree, error) {
	r := NewRewriter()
	for _, n := range nodes {
		r.Remove(n)
	}
	return t.Apply(r, markers)
}
