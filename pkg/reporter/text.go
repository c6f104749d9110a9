package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/refit/internal/ui/pretty"
	"github.com/yaklabco/refit/pkg/runner"
	"github.com/yaklabco/refit/pkg/syntax"
)

// TextReporter formats results as styled terminal output.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	width  int
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		width:  pretty.TerminalWidth(opts.Writer),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Dim.Render("No targets."))
		}
		return 0, nil
	}

	for _, file := range result.Files {
		path := r.opts.displayPath(file.Path)

		if file.Error != nil {
			fmt.Fprintf(r.bw, "%s: %s\n",
				r.styles.FilePath.Render(path),
				r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error)),
			)
			continue
		}

		fmt.Fprintln(r.bw, r.styles.FormatFileHeader(path, len(file.Targets)))

		for i, target := range file.Targets {
			fmt.Fprint(r.bw, r.styles.FormatTarget(path, target))

			// The committed text only matches the caret of the last target.
			if r.opts.ShowContext && i == len(file.Targets)-1 {
				if line, ok := caretLine(file, target); ok {
					fmt.Fprint(r.bw, r.styles.FormatSourceContext(line, target.Caret.Column, r.width))
				}
			}
		}

		fmt.Fprintln(r.bw)
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return result.Stats.Applied, nil
}

// caretLine returns the line of the modified document the caret landed on.
func caretLine(file runner.FileOutcome, target runner.TargetOutcome) (string, bool) {
	if !target.Applied() || target.Caret == nil || file.Diff == nil {
		return "", false
	}
	idx := syntax.NewLineIndex(string(file.Diff.Modified))
	if target.Caret.Line < 1 || target.Caret.Line > idx.Count() {
		return "", false
	}
	return idx.Content(target.Caret.Line - 1), true
}
