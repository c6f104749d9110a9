package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/refit/pkg/analysis"
	"github.com/yaklabco/refit/pkg/document"
	"github.com/yaklabco/refit/pkg/fix"
	"github.com/yaklabco/refit/pkg/refactor"
	"github.com/yaklabco/refit/pkg/runner"
)

// Target status values.
const (
	statusApplied  = "applied"
	statusDeclined = "declined"
	statusError    = "error"
)

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version   string                      `json:"version"`
	Files     []JSONFileResult            `json:"files"`
	Providers []analysis.ProviderAnalysis `json:"providers,omitempty"`
	Summary   JSONSummary                 `json:"summary"`
}

// JSONFileResult represents a single file's results.
type JSONFileResult struct {
	Path     string       `json:"path"`
	Targets  []JSONTarget `json:"targets"`
	Modified bool         `json:"modified"`
	Written  bool         `json:"written,omitempty"`
	Diff     string       `json:"diff,omitempty"`
	Error    string       `json:"error,omitempty"`
}

// JSONTarget represents the outcome of one target.
type JSONTarget struct {
	At        document.Position   `json:"at"`
	End       *document.Position  `json:"end,omitempty"`
	Provider  string              `json:"provider,omitempty"`
	Status    string              `json:"status"`
	Actions   int                 `json:"actions,omitempty"`
	Edits     []fix.TextEdit      `json:"edits,omitempty"`
	Selection *refactor.Selection `json:"selection,omitempty"`
	Caret     *document.Position  `json:"caret,omitempty"`
	Version   int64               `json:"version,omitempty"`
	Error     string              `json:"error,omitempty"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	Files         int   `json:"files"`
	FilesModified int   `json:"filesModified"`
	FilesErrored  int   `json:"filesErrored"`
	Targets       int   `json:"targets"`
	Applied       int   `json:"applied"`
	Declined      int   `json:"declined"`
	Failed        int   `json:"failed"`
	Edits         int   `json:"edits"`
	DurationMs    int64 `json:"durationMs"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.Applied, nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: "1.0.0",
		Files:   make([]JSONFileResult, 0),
	}

	if result == nil {
		return output
	}

	stats := result.Stats
	output.Summary = JSONSummary{
		Files:         stats.Files,
		FilesModified: stats.FilesModified,
		FilesErrored:  stats.FilesErrored,
		Targets:       stats.Targets,
		Applied:       stats.Applied,
		Declined:      stats.Declined,
		Failed:        stats.Failed,
		Edits:         stats.Edits,
		DurationMs:    result.Duration.Milliseconds(),
	}

	output.Files = make([]JSONFileResult, 0, len(result.Files))
	for _, file := range result.Files {
		fileResult := JSONFileResult{
			Path:     r.opts.displayPath(file.Path),
			Targets:  make([]JSONTarget, 0, len(file.Targets)),
			Modified: file.Diff != nil,
			Written:  file.Written,
		}
		if file.Error != nil {
			fileResult.Error = file.Error.Error()
		}
		if file.Diff != nil {
			fileResult.Diff = file.Diff.FullString()
		}

		for _, target := range file.Targets {
			fileResult.Targets = append(fileResult.Targets, jsonTarget(target))
		}

		output.Files = append(output.Files, fileResult)
	}

	report := analysis.Analyze(result, analysis.Options{
		IncludeByProvider: true,
		SortBy:            analysis.SortByAlpha,
		WorkingDir:        r.opts.WorkingDir,
	})
	output.Providers = report.ByProvider

	return output
}

func jsonTarget(target runner.TargetOutcome) JSONTarget {
	out := JSONTarget{
		At:       target.Target.At,
		End:      target.Target.End,
		Provider: target.Target.Provider,
	}

	switch {
	case target.Error != nil:
		out.Status = statusError
		out.Error = target.Error.Error()
	case target.Applied():
		out.Status = statusApplied
		out.Provider = target.Outcome.Provider
		out.Actions = target.Outcome.Actions
		out.Edits = target.Outcome.Edits
		out.Selection = target.Outcome.Selection
		out.Caret = target.Caret
		out.Version = target.Outcome.Version
	default:
		out.Status = statusDeclined
		if target.Outcome != nil && target.Outcome.Provider != "" {
			out.Provider = target.Outcome.Provider
		}
	}

	return out
}
