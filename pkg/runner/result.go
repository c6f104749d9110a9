package runner

import (
	"time"

	"github.com/yaklabco/refit/pkg/document"
	"github.com/yaklabco/refit/pkg/fix"
	"github.com/yaklabco/refit/pkg/refactor"
)

// TargetOutcome is the result of one target.
type TargetOutcome struct {
	Target Target

	// Outcome is the engine's outcome. It is nil when Error is set.
	Outcome *refactor.Outcome

	// Caret is where the selection landed, if the provider set one.
	Caret *document.Position

	// Error is set if the target could not be applied.
	Error error
}

// Applied reports whether the target changed the document.
func (o TargetOutcome) Applied() bool {
	return o.Error == nil && o.Outcome != nil && !o.Outcome.Declined
}

// FileOutcome collects the targets of one file, in request order.
type FileOutcome struct {
	// Path is the file path that was processed.
	Path string

	// Targets are the outcomes of the file's targets.
	Targets []TargetOutcome

	// Diff compares the file before and after the run. It is nil when
	// nothing changed.
	Diff *fix.Diff

	// Written is set when the file on disk was rewritten.
	Written bool

	// Error is set if the file could not be opened.
	Error error
}

// Stats captures aggregate information about a run.
type Stats struct {
	// Files is the number of distinct files.
	Files int

	// FilesModified is the number of files whose content changed.
	FilesModified int

	// FilesErrored is the number of files that could not be opened.
	FilesErrored int

	// Targets is the number of requested targets.
	Targets int

	// Applied is the number of targets that changed their document.
	Applied int

	// Declined is the number of targets no provider handled.
	Declined int

	// Failed is the number of targets that ended in an error.
	Failed int

	// Edits is the number of committed text edits.
	Edits int
}

// Result is the overall runner result.
type Result struct {
	// Files contains the outcome for each file, in order of first request.
	Files []FileOutcome

	// Stats contains aggregate statistics for the run.
	Stats Stats

	// Duration is the wall time of the run.
	Duration time.Duration
}

// HasFailures reports whether any file or target failed.
func (r *Result) HasFailures() bool {
	if r == nil {
		return false
	}
	return r.Stats.Failed > 0 || r.Stats.FilesErrored > 0
}

// AllDeclined reports whether no target was applied.
func (r *Result) AllDeclined() bool {
	if r == nil {
		return true
	}
	return r.Stats.Applied == 0
}

// Errors returns every file and target error, in order.
func (r *Result) Errors() []error {
	if r == nil {
		return nil
	}
	var errs []error
	for _, f := range r.Files {
		if f.Error != nil {
			errs = append(errs, f.Error)
		}
		for _, t := range f.Targets {
			if t.Error != nil {
				errs = append(errs, t.Error)
			}
		}
	}
	return errs
}

// accumulate updates the result with a file outcome.
func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)
	r.Stats.Files++

	switch {
	case outcome.Error != nil:
		r.Stats.FilesErrored++
	case outcome.Diff != nil:
		r.Stats.FilesModified++
	}

	for _, t := range outcome.Targets {
		r.Stats.Targets++
		switch {
		case t.Error != nil:
			r.Stats.Failed++
		case t.Applied():
			r.Stats.Applied++
			r.Stats.Edits += len(t.Outcome.Edits)
		default:
			r.Stats.Declined++
		}
	}
}
