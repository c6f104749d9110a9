package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/refit/pkg/runner"
)

// Table formatting constants.
const (
	tablePadding       = 2
	targetColumnCount  = 4 // FILE, LOC, PROVIDER, RESULT
	minFileWidth       = 20
	minLocWidth        = 7
	minProviderWidth   = 12
	minResultWidth     = 20
	minTitleWidth      = 24
	heavySeparator     = "="
	lightSeparator     = "-"
	providerColumnSize = 5 // ID, TITLE, LANGUAGES, PRIORITY, ENABLED
)

// TableRow represents a single target in the outcome table.
type TableRow struct {
	File     string
	Location string
	Provider string
	Result   string
	Style    lipgloss.Style
}

// ProviderRow represents one provider in the provider listing.
type ProviderRow struct {
	ID        string
	Title     string
	Languages []string
	Priority  int
	Enabled   bool
}

// TableFormatter formats outcomes and providers as styled tables.
type TableFormatter struct {
	styles    *Styles
	termWidth int
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(styles *Styles, termWidth int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = DefaultTermWidth
	}
	return &TableFormatter{
		styles:    styles,
		termWidth: termWidth,
	}
}

// FormatTable formats runner results as a table with one row per target.
func (t *TableFormatter) FormatTable(result *runner.Result) string {
	if result == nil || len(result.Files) == 0 {
		return ""
	}

	groups := t.collectRows(result)
	widths := t.targetWidths(groups)
	total := widths.total()

	var builder strings.Builder

	header := fmt.Sprintf(" %-*s  %-*s  %-*s  %-*s",
		widths.file, "FILE",
		widths.loc, "LOC",
		widths.provider, "PROVIDER",
		widths.result, "RESULT",
	)
	builder.WriteString(t.styles.TableHeader.Render(header) + "\n")
	builder.WriteString(t.separator(total, heavySeparator) + "\n")

	for i, group := range groups {
		if i > 0 {
			builder.WriteString(t.separator(total, lightSeparator) + "\n")
		}
		for _, row := range group {
			content := fmt.Sprintf(" %-*s  %-*s  %-*s  %s",
				widths.file, truncateFilePath(row.File, widths.file),
				widths.loc, truncateString(row.Location, widths.loc),
				widths.provider, truncateString(row.Provider, widths.provider),
				row.Style.Render(truncateString(row.Result, widths.result)),
			)
			builder.WriteString(content + "\n")
		}
	}

	builder.WriteString(t.separator(total, heavySeparator) + "\n")
	return builder.String()
}

// FormatTableSummary formats a summary line for table output.
func (t *TableFormatter) FormatTableSummary(stats runner.Stats, duration string) string {
	parts := []string{pluralize(stats.Files, "file", "files")}

	parts = append(parts, t.styles.Applied.Render(strconv.Itoa(stats.Applied)+" applied"))
	if stats.Declined > 0 {
		parts = append(parts, t.styles.Declined.Render(strconv.Itoa(stats.Declined)+" declined"))
	}
	if stats.Failed > 0 {
		parts = append(parts, t.styles.Error.Render(strconv.Itoa(stats.Failed)+" failed"))
	}
	if stats.Edits > 0 {
		parts = append(parts, pluralize(stats.Edits, "edit", "edits"))
	}
	if duration != "" {
		parts = append(parts, t.styles.Dim.Render(duration))
	}

	return " " + strings.Join(parts, " | ")
}

// FormatProviders formats a provider listing.
func (t *TableFormatter) FormatProviders(rows []ProviderRow) string {
	if len(rows) == 0 {
		return ""
	}

	idWidth, langWidth, titleWidth := len("ID"), len("LANGUAGES"), minTitleWidth
	for _, row := range rows {
		idWidth = max(idWidth, len(row.ID))
		langWidth = max(langWidth, len(strings.Join(row.Languages, ",")))
		titleWidth = max(titleWidth, len(row.Title))
	}
	const prioWidth, enabledWidth = len("PRIORITY"), len("ENABLED")
	total := idWidth + titleWidth + langWidth + prioWidth + enabledWidth + tablePadding*providerColumnSize
	if total > t.termWidth {
		titleWidth = max(minTitleWidth, titleWidth-(total-t.termWidth))
		total = idWidth + titleWidth + langWidth + prioWidth + enabledWidth + tablePadding*providerColumnSize
	}

	var builder strings.Builder
	header := fmt.Sprintf(" %-*s  %-*s  %-*s  %*s  %s",
		idWidth, "ID",
		titleWidth, "TITLE",
		langWidth, "LANGUAGES",
		prioWidth, "PRIORITY",
		"ENABLED",
	)
	builder.WriteString(t.styles.TableHeader.Render(header) + "\n")
	builder.WriteString(t.separator(total, heavySeparator) + "\n")

	for _, row := range rows {
		enabled := t.styles.Applied.Render("yes")
		if !row.Enabled {
			enabled = t.styles.Dim.Render("no")
		}
		id := fmt.Sprintf("%-*s", idWidth, row.ID)
		if !row.Enabled {
			id = t.styles.TableDisabled.Render(id)
		}
		fmt.Fprintf(&builder, " %s  %-*s  %-*s  %*d  %s\n",
			id,
			titleWidth, truncateString(row.Title, titleWidth),
			langWidth, strings.Join(row.Languages, ","),
			prioWidth, row.Priority,
			enabled,
		)
	}

	builder.WriteString(t.separator(total, heavySeparator) + "\n")
	return builder.String()
}

// collectRows collects target rows grouped by file.
func (t *TableFormatter) collectRows(result *runner.Result) [][]TableRow {
	groups := make([][]TableRow, 0, len(result.Files))

	for _, file := range result.Files {
		rows := make([]TableRow, 0, len(file.Targets))
		for _, target := range file.Targets {
			rows = append(rows, t.targetRow(file.Path, target))
		}
		if len(rows) > 0 {
			groups = append(groups, rows)
		}
	}

	return groups
}

func (t *TableFormatter) targetRow(path string, target runner.TargetOutcome) TableRow {
	row := TableRow{
		File:     path,
		Location: target.Target.At.String(),
		Provider: target.Target.Provider,
	}
	if target.Outcome != nil && target.Outcome.Provider != "" {
		row.Provider = target.Outcome.Provider
	}

	switch {
	case target.Error != nil:
		row.Result = target.Error.Error()
		row.Style = t.styles.Error
	case target.Applied():
		row.Result = "applied, " + pluralize(len(target.Outcome.Edits), "edit", "edits")
		row.Style = t.styles.Applied
	default:
		row.Result = "declined"
		row.Style = t.styles.Declined
	}
	if row.Provider == "" {
		row.Provider = "-"
	}
	return row
}

type targetWidths struct {
	file     int
	loc      int
	provider int
	result   int
}

func (w targetWidths) total() int {
	return w.file + w.loc + w.provider + w.result + tablePadding*targetColumnCount
}

// targetWidths determines column widths based on content.
func (t *TableFormatter) targetWidths(groups [][]TableRow) targetWidths {
	widths := targetWidths{
		file:     minFileWidth,
		loc:      minLocWidth,
		provider: minProviderWidth,
		result:   minResultWidth,
	}

	for _, group := range groups {
		for _, row := range group {
			widths.file = max(widths.file, len(row.File))
			widths.loc = max(widths.loc, len(row.Location))
			widths.provider = max(widths.provider, len(row.Provider))
			widths.result = max(widths.result, len(row.Result))
		}
	}

	// Shrink the result column first, then the file column.
	if excess := widths.total() - t.termWidth; excess > 0 {
		widths.result = max(minResultWidth, widths.result-excess)
	}
	if excess := widths.total() - t.termWidth; excess > 0 {
		widths.file = max(minFileWidth, widths.file-excess)
	}

	return widths
}

func (t *TableFormatter) separator(width int, char string) string {
	return t.styles.TableSeparator.Render(strings.Repeat(char, width))
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(str string, maxLen int) string {
	if len(str) <= maxLen {
		return str
	}
	if maxLen <= 3 {
		return str[:maxLen]
	}
	return str[:maxLen-3] + "..."
}

// truncateFilePath truncates a file path, preserving the end (filename) rather than beginning.
func truncateFilePath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}
	if maxLen <= 3 {
		return path[len(path)-maxLen:]
	}
	return "..." + path[len(path)-maxLen+3:]
}
