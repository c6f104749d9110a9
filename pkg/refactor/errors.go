package refactor

import (
	"errors"
	"fmt"
)

var (
	// ErrNoActions is returned by Compile for an empty action list. The
	// engine treats it as a declined refactoring.
	ErrNoActions = errors.New("no edit actions")

	// ErrInvalidAction reports an action that breaks its own invariants.
	ErrInvalidAction = errors.New("invalid edit action")

	// ErrInconsistentReference reports an action that references elements
	// absent from the snapshot, or actions whose targets overlap.
	ErrInconsistentReference = errors.New("inconsistent reference")

	// ErrFormat wraps failures of the formatter.
	ErrFormat = errors.New("format failed")

	// ErrProjectionMismatch reports text edits that would not reproduce the
	// formatted tree.
	ErrProjectionMismatch = errors.New("projection does not reproduce the formatted tree")

	// ErrStaleSnapshot reports a document that changed after the snapshot
	// was taken. Nothing is committed.
	ErrStaleSnapshot = errors.New("stale snapshot")

	// ErrProvider wraps failures of a provider's Refactor.
	ErrProvider = errors.New("provider failed")

	// ErrUnknownProvider is returned for provider ids not in a catalog.
	ErrUnknownProvider = errors.New("unknown provider")
)

// ActionError locates a failure in one action of a batch.
type ActionError struct {
	// Index is the position of the action in the batch.
	Index int

	// Kind is the action kind.
	Kind Kind

	// Element describes the offending element, if any.
	Element string

	// Err is ErrInvalidAction or ErrInconsistentReference, possibly wrapped.
	Err error

	// Reason is a short explanation.
	Reason string
}

func (e *ActionError) Error() string {
	msg := fmt.Sprintf("action %d (%s): %v", e.Index, e.Kind, e.Err)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Element != "" {
		msg += " (" + e.Element + ")"
	}
	return msg
}

func (e *ActionError) Unwrap() error {
	return e.Err
}

// OverlapError reports two actions of one batch that target the same
// element or elements nested in one another.
type OverlapError struct {
	First   int
	Second  int
	Element string
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("actions %d and %d overlap at %s", e.First, e.Second, e.Element)
}

// Is makes an OverlapError match ErrInconsistentReference.
func (e *OverlapError) Is(target error) bool {
	return target == ErrInconsistentReference
}
