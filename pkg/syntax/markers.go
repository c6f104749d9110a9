package syntax

import (
	"slices"

	"github.com/google/uuid"
)

// Marker is an opaque identity tag attached to tree elements through a
// Markers side-table. Markers are never part of the tree itself.
type Marker uuid.UUID

// NewMarker returns a fresh marker.
func NewMarker() Marker {
	return Marker(uuid.New())
}

// IsZero reports whether m is the zero marker.
func (m Marker) IsZero() bool {
	return m == Marker(uuid.Nil)
}

func (m Marker) String() string {
	return uuid.UUID(m).String()
}

// Markers is a side-table from markers to elements and back. It is valid
// for one transaction and is not safe for concurrent use. A nil *Markers
// ignores writes and finds nothing.
type Markers struct {
	elements map[Marker][]Element
	markers  map[Element][]Marker
}

// NewMarkers creates an empty side-table.
func NewMarkers() *Markers {
	return &Markers{
		elements: make(map[Marker][]Element),
		markers:  make(map[Element][]Marker),
	}
}

// Attach tags e with m.
func (s *Markers) Attach(m Marker, e Element) {
	if s == nil || e == nil {
		return
	}
	if slices.Contains(s.markers[e], m) {
		return
	}
	s.markers[e] = append(s.markers[e], m)
	s.elements[m] = append(s.elements[m], e)
}

// Detach removes m from every element it is attached to.
func (s *Markers) Detach(m Marker) {
	if s == nil {
		return
	}
	for _, e := range s.elements[m] {
		s.markers[e] = slices.DeleteFunc(s.markers[e], func(x Marker) bool { return x == m })
		if len(s.markers[e]) == 0 {
			delete(s.markers, e)
		}
	}
	delete(s.elements, m)
}

// Elements returns every element tagged with m, in attachment order.
func (s *Markers) Elements(m Marker) []Element {
	if s == nil {
		return nil
	}
	return slices.Clone(s.elements[m])
}

// Of returns the markers attached to e.
func (s *Markers) Of(e Element) []Marker {
	if s == nil {
		return nil
	}
	return slices.Clone(s.markers[e])
}

// Has reports whether e is tagged with m.
func (s *Markers) Has(e Element, m Marker) bool {
	if s == nil {
		return false
	}
	return slices.Contains(s.markers[e], m)
}

// Carry copies every marker of from onto to. Rebuilds call it so that a
// marker follows its element into the next tree generation.
func (s *Markers) Carry(from, to Element) {
	if s == nil || from == to {
		return
	}
	for _, m := range s.markers[from] {
		s.Attach(m, to)
	}
}

// Len returns the number of live markers.
func (s *Markers) Len() int {
	if s == nil {
		return 0
	}
	return len(s.elements)
}

// In returns the elements tagged with m that belong to tree, ordered by
// position.
func (s *Markers) In(tree *Tree, m Marker) []Element {
	var out []Element
	for _, e := range s.Elements(m) {
		if tree.Contains(e) {
			out = append(out, e)
		}
	}
	slices.SortStableFunc(out, func(a, b Element) int {
		return tree.FullSpan(a).Start - tree.FullSpan(b).Start
	})
	return out
}
