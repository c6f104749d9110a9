package syntax

import "errors"

// SkipChildren can be returned by a WalkFunc to skip the children of the
// current node without stopping the walk.
var SkipChildren = errors.New("skip children") //nolint:errname // same shape as fs.SkipDir

// WalkFunc is called for every child visited by Walk.
// Return a non-nil error to stop the walk.
type WalkFunc func(c Child) error

// Walk performs a pre-order traversal starting at c.
func Walk(c Child, fn WalkFunc) error {
	if c == nil {
		return nil
	}

	if err := fn(c); err != nil {
		if errors.Is(err, SkipChildren) {
			return nil
		}
		return err
	}

	node, ok := c.(*Node)
	if !ok {
		return nil
	}
	for _, ch := range node.children {
		if err := Walk(ch, fn); err != nil {
			return err
		}
	}
	return nil
}

// errStopWalk terminates a search early.
var errStopWalk = errors.New("stop walk")

// FindFirst returns the first child in pre-order below and including c that
// matches pred.
func FindFirst(c Child, pred func(Child) bool) Child {
	var found Child
	_ = Walk(c, func(ch Child) error {
		if pred(ch) {
			found = ch
			return errStopWalk
		}
		return nil
	})
	return found
}

// FindAll returns every child in pre-order below and including c that
// matches pred.
func FindAll(c Child, pred func(Child) bool) []Child {
	var out []Child
	_ = Walk(c, func(ch Child) error {
		if pred(ch) {
			out = append(out, ch)
		}
		return nil
	})
	return out
}

// OfKind returns a predicate matching children of any of the given kinds.
func OfKind(kinds ...Kind) func(Child) bool {
	return func(c Child) bool {
		k := c.ElementKind()
		for _, want := range kinds {
			if k == want {
				return true
			}
		}
		return false
	}
}
