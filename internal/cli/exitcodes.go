package cli

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/yaklabco/refit/pkg/document"
	"github.com/yaklabco/refit/pkg/fsutil"
	"github.com/yaklabco/refit/pkg/refactor"
	"github.com/yaklabco/refit/pkg/runner"
)

// Exit codes for refit.
const (
	// ExitSuccess indicates every target was applied.
	ExitSuccess = 0

	// ExitDeclined indicates the run completed but nothing was applied.
	ExitDeclined = 1

	// ExitInvalidUsage indicates invalid command-line usage, including
	// unknown providers and positions outside the file.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates a refactoring failed inside the engine.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74

	// ExitStale indicates a file changed while it was being refactored.
	ExitStale = 75
)

var (
	// ErrNothingApplied is returned when every target was declined.
	ErrNothingApplied = errors.New("no refactoring applied")

	// ErrTargetsFailed is returned when at least one target failed.
	ErrTargetsFailed = errors.New("refactoring failed")
)

// exitError attaches an exit code to an error.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

// withExitCode wraps err so that ExitCode reports code for it.
func withExitCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &exitError{code: code, err: err}
}

// ExitCode maps an error returned by the root command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	// Cobra reports unknown subcommands as plain errors.
	if strings.HasPrefix(err.Error(), "unknown command") {
		return ExitInvalidUsage
	}
	return ExitInternalError
}

// ExitCodeFromResult determines the exit code of a run. Failures win over
// declines, and among failures the lowest code wins.
func ExitCodeFromResult(result *runner.Result) int {
	if result == nil {
		return ExitSuccess
	}

	if errs := result.Errors(); len(errs) > 0 {
		code := errorCode(errs[0])
		for _, err := range errs[1:] {
			code = min(code, errorCode(err))
		}
		return code
	}

	if result.Stats.Targets > 0 && result.AllDeclined() {
		return ExitDeclined
	}
	return ExitSuccess
}

// errorCode classifies a single target or file error.
func errorCode(err error) int {
	var pathErr *fs.PathError
	switch {
	case errors.Is(err, refactor.ErrUnknownProvider),
		errors.Is(err, runner.ErrProviderDisabled),
		errors.Is(err, document.ErrPosition):
		return ExitInvalidUsage
	case errors.Is(err, refactor.ErrStaleSnapshot), errors.Is(err, fsutil.ErrModified):
		return ExitStale
	case errors.Is(err, fsutil.ErrNotFound),
		errors.Is(err, fsutil.ErrPermissionDenied),
		errors.Is(err, fsutil.ErrIsDirectory),
		errors.As(err, &pathErr):
		return ExitIOError
	default:
		return ExitInternalError
	}
}

// resultError converts a run result to the error returned by the command.
func resultError(result *runner.Result) error {
	switch code := ExitCodeFromResult(result); code {
	case ExitSuccess:
		return nil
	case ExitDeclined:
		return withExitCode(code, ErrNothingApplied)
	default:
		return withExitCode(code, ErrTargetsFailed)
	}
}
