package pretty

import (
	"strconv"
	"strings"

	"github.com/yaklabco/refit/pkg/runner"
)

const summaryDividerWidth = 40

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "2 applied, 1 declined, 1 failed in 3 files, 2 modified".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	if stats.Targets == 0 {
		return s.Dim.Render("No targets") + "\n"
	}

	var parts []string
	parts = append(parts, s.Applied.Render(strconv.Itoa(stats.Applied)+" applied"))
	if stats.Declined > 0 {
		parts = append(parts, s.Declined.Render(strconv.Itoa(stats.Declined)+" declined"))
	}
	if stats.Failed > 0 {
		parts = append(parts, s.Error.Render(strconv.Itoa(stats.Failed)+" failed"))
	}

	line := strings.Join(parts, ", ") + " in " + pluralize(stats.Files, "file", "files")
	if stats.FilesModified > 0 {
		line += ", " + s.Success.Render(strconv.Itoa(stats.FilesModified)+" modified")
	}
	return line + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	builder.WriteString("  Files:             " + s.SummaryValue.Render(strconv.Itoa(stats.Files)) + "\n")
	if stats.FilesModified > 0 {
		builder.WriteString("  Files modified:    " + s.Success.Render(strconv.Itoa(stats.FilesModified)) + "\n")
	}
	if stats.FilesErrored > 0 {
		builder.WriteString("  Files with errors: " + s.Failure.Render(strconv.Itoa(stats.FilesErrored)) + "\n")
	}

	builder.WriteString("\n")
	builder.WriteString("  Targets:           " + s.SummaryValue.Render(strconv.Itoa(stats.Targets)) + "\n")
	builder.WriteString("    Applied:         " + s.Applied.Render(strconv.Itoa(stats.Applied)) + "\n")
	if stats.Declined > 0 {
		builder.WriteString("    Declined:        " + s.Declined.Render(strconv.Itoa(stats.Declined)) + "\n")
	}
	if stats.Failed > 0 {
		builder.WriteString("    Failed:          " + s.Error.Render(strconv.Itoa(stats.Failed)) + "\n")
	}
	builder.WriteString("  Edits:             " + s.SummaryValue.Render(strconv.Itoa(stats.Edits)) + "\n")

	builder.WriteString("\n")
	switch {
	case stats.Failed > 0 || stats.FilesErrored > 0:
		builder.WriteString(s.Failure.Render("Refactoring failed"))
	case stats.Applied == 0:
		builder.WriteString(s.Declined.Render("Nothing applied"))
	default:
		builder.WriteString(s.Success.Render("Refactoring applied"))
	}
	builder.WriteString("\n")

	return builder.String()
}
