package reporter

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/refit/internal/ui/pretty"
	"github.com/yaklabco/refit/pkg/fix"
	"github.com/yaklabco/refit/pkg/runner"
)

// DiffReporter formats results as unified diffs in git style.
type DiffReporter struct {
	opts   Options
	styles *pretty.Styles
	color  bool
	out    io.Writer
}

// NewDiffReporter creates a new diff reporter.
func NewDiffReporter(opts Options) *DiffReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &DiffReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		color:  colorEnabled,
		out:    opts.Writer,
	}
}

// Report implements Reporter. Failed targets go to the error writer so the
// output stays a valid patch.
func (r *DiffReporter) Report(_ context.Context, result *runner.Result) (int, error) {
	if result == nil {
		return 0, nil
	}

	var filesWithDiffs int
	var totalAdditions, totalDeletions int

	for _, file := range result.Files {
		r.writeErrors(file)

		if file.Diff == nil || !file.Diff.HasChanges() {
			continue
		}

		filesWithDiffs++
		totalAdditions += file.Diff.Additions
		totalDeletions += file.Diff.Deletions
		r.writeDiff(file.Diff)
	}

	if filesWithDiffs > 0 && r.opts.ShowSummary {
		r.writeSummary(filesWithDiffs, totalAdditions, totalDeletions)
	}

	return result.Stats.Applied, nil
}

func (r *DiffReporter) writeErrors(file runner.FileOutcome) {
	if r.opts.ErrorWriter == nil {
		return
	}
	path := r.opts.displayPath(file.Path)
	if file.Error != nil {
		fmt.Fprintf(r.opts.ErrorWriter, "%s: error: %v\n", path, file.Error)
		return
	}
	for _, t := range file.Targets {
		if t.Error != nil {
			fmt.Fprintf(r.opts.ErrorWriter, "%s:%s: error: %v\n", path, t.Target.At, t.Error)
		}
	}
}

// writeDiff outputs a single file's diff with formatting.
func (r *DiffReporter) writeDiff(diff *fix.Diff) {
	displayPath := r.opts.displayPath(diff.Path)

	header := fmt.Sprintf("diff --git a/%s b/%s", displayPath, displayPath)
	fmt.Fprintln(r.out, r.render(r.styles.DiffHeader, header))
	fmt.Fprintln(r.out, r.render(r.styles.DiffRemove, "--- a/"+displayPath))
	fmt.Fprintln(r.out, r.render(r.styles.DiffAdd, "+++ b/"+displayPath))

	// Skip the file headers String() starts with.
	lines := strings.Split(strings.TrimSuffix(diff.String(), "\n"), "\n")
	for _, line := range lines[min(2, len(lines)):] {
		r.writeDiffLine(line)
	}

	fmt.Fprintln(r.out)
}

// writeDiffLine formats a single diff line with color.
func (r *DiffReporter) writeDiffLine(line string) {
	style := r.styles.DiffContext
	switch {
	case strings.HasPrefix(line, "@@"):
		style = r.styles.DiffHunk
	case strings.HasPrefix(line, "+"):
		style = r.styles.DiffAdd
	case strings.HasPrefix(line, "-"):
		style = r.styles.DiffRemove
	}

	fmt.Fprintln(r.out, r.render(style, line))
}

// render styles s when color is on and leaves it untouched otherwise.
func (r *DiffReporter) render(style lipgloss.Style, s string) string {
	if !r.color {
		return s
	}
	return style.Render(s)
}

// writeSummary writes a summary line at the end.
func (r *DiffReporter) writeSummary(files, additions, deletions int) {
	var parts []string

	fileWord := "files"
	if files == 1 {
		fileWord = "file"
	}
	parts = append(parts, fmt.Sprintf("%d %s changed", files, fileWord))

	if additions > 0 {
		word := "insertions"
		if additions == 1 {
			word = "insertion"
		}
		parts = append(parts, r.render(r.styles.DiffAdd, fmt.Sprintf("%d %s(+)", additions, word)))
	}

	if deletions > 0 {
		word := "deletions"
		if deletions == 1 {
			word = "deletion"
		}
		parts = append(parts, r.render(r.styles.DiffRemove, fmt.Sprintf("%d %s(-)", deletions, word)))
	}

	fmt.Fprintln(r.out, strings.Join(parts, ", "))
}
