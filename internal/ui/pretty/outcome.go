package pretty

import (
	"fmt"
	"io"
	"strings"

	"github.com/rivo/uniseg"
	"golang.org/x/term"

	"github.com/yaklabco/refit/pkg/runner"
)

const (
	// contextIndent aligns source context under a target line.
	contextIndent = "        "

	// DefaultTermWidth is used when the terminal width cannot be determined.
	DefaultTermWidth = 100

	ellipsis = "…"
)

// TerminalWidth returns the width of the terminal behind w, or
// DefaultTermWidth if w is not a terminal.
func TerminalWidth(w io.Writer) int {
	if f, ok := w.(interface{ Fd() uintptr }); ok {
		width, _, err := term.GetSize(int(f.Fd()))
		if err == nil && width > 0 {
			return width
		}
	}
	return DefaultTermWidth
}

// FormatTarget formats a single target outcome for terminal output.
func (s *Styles) FormatTarget(path string, t runner.TargetOutcome) string {
	var builder strings.Builder

	location := fmt.Sprintf("%s:%d:%d",
		s.FilePath.Render(path),
		t.Target.At.Line,
		t.Target.At.Column,
	)

	switch {
	case t.Error != nil:
		fmt.Fprintf(&builder, "  %s  %s  %s\n",
			location,
			s.Error.Render("error"),
			s.Message.Render(t.Error.Error()),
		)
	case t.Applied():
		fmt.Fprintf(&builder, "  %s  %s  %s  %s\n",
			location,
			s.Applied.Render("applied"),
			s.Provider.Render(t.Outcome.Provider),
			s.Dim.Render(pluralize(len(t.Outcome.Edits), "edit", "edits")),
		)
	default:
		provider := t.Target.Provider
		if t.Outcome != nil && t.Outcome.Provider != "" {
			provider = t.Outcome.Provider
		}
		msg := "no provider applies"
		if provider != "" {
			msg = s.Provider.Render(provider) + " " + s.Message.Render("does not apply here")
		}
		fmt.Fprintf(&builder, "  %s  %s  %s\n", location, s.Declined.Render("declined"), msg)
	}

	return builder.String()
}

// FormatSourceContext formats a source line with a caret marker under the
// 1-based grapheme column. Lines wider than width are clipped around the
// column; a width of 0 disables clipping.
func (s *Styles) FormatSourceContext(line string, column, width int) string {
	var builder strings.Builder

	clusters := graphemes(line)
	lo, hi := 0, len(clusters)
	room := width - len(contextIndent)
	if width > 0 && room > 0 && len(clusters) > room {
		lo = max(0, min(column-1-room/2, len(clusters)-room))
		hi = lo + room
	}

	visible := strings.Join(clusters[lo:hi], "")
	offset := 0
	if lo > 0 {
		visible = ellipsis + visible
		offset = 1
	}
	if hi < len(clusters) {
		visible += ellipsis
	}

	builder.WriteString(contextIndent + s.SourceLine.Render(visible) + "\n")

	if column > 0 {
		padding := contextIndent + strings.Repeat(" ", column-1-lo+offset)
		builder.WriteString(padding + s.Caret.Render("^") + "\n")
	}

	return builder.String()
}

// FormatFileHeader formats a file header for grouped output.
func (s *Styles) FormatFileHeader(path string, targets int) string {
	header := s.FilePath.Render(path)
	if targets > 0 {
		header += s.Dim.Render(" (" + pluralize(targets, "target", "targets") + ")")
	}
	return header
}

func graphemes(text string) []string {
	var out []string
	state := -1
	for text != "" {
		var cluster string
		cluster, text, _, state = uniseg.FirstGraphemeClusterInString(text, state)
		out = append(out, cluster)
	}
	return out
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}
