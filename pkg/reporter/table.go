package reporter

import (
	"bufio"
	"context"
	"fmt"
	"time"

	"github.com/yaklabco/refit/internal/ui/pretty"
	"github.com/yaklabco/refit/pkg/runner"
)

// TableReporter formats results as a table with one row per target.
type TableReporter struct {
	opts      Options
	styles    *pretty.Styles
	formatter *pretty.TableFormatter
	bw        *bufio.Writer
}

// NewTableReporter creates a new table reporter.
func NewTableReporter(opts Options) *TableReporter {
	styles := pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.Writer))
	return &TableReporter{
		opts:      opts,
		styles:    styles,
		formatter: pretty.NewTableFormatter(styles, pretty.TerminalWidth(opts.Writer)),
		bw:        bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TableReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
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

	display := *result
	display.Files = make([]runner.FileOutcome, len(result.Files))
	for i, file := range result.Files {
		file.Path = r.opts.displayPath(file.Path)
		if file.Error != nil && len(file.Targets) == 0 {
			file.Targets = []runner.TargetOutcome{{Error: file.Error}}
		}
		display.Files[i] = file
	}

	fmt.Fprint(r.bw, r.formatter.FormatTable(&display))

	if r.opts.ShowSummary {
		fmt.Fprintln(r.bw, r.formatter.FormatTableSummary(result.Stats, result.Duration.Round(time.Millisecond).String()))
	}

	return result.Stats.Applied, nil
}
