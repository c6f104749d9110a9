package cli

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yaklabco/refit/internal/ui/pretty"
)

// helpFlagIndent is the indentation of flag rows.
const helpFlagIndent = "  "

// HelpStyles contains Lipgloss styles for command help formatting.
type HelpStyles struct {
	Command     lipgloss.Style
	Heading     lipgloss.Style
	Subcommand  lipgloss.Style
	Flag        lipgloss.Style
	Type        lipgloss.Style
	Description lipgloss.Style
	Example     lipgloss.Style
	Default     lipgloss.Style
}

// NewHelpStyles derives help styles from the output styles.
func NewHelpStyles(colorEnabled bool) *HelpStyles {
	s := pretty.NewStyles(colorEnabled)
	return &HelpStyles{
		Command:     s.Bold,
		Heading:     s.SummaryTitle,
		Subcommand:  s.Applied,
		Flag:        s.Provider,
		Type:        s.Dim,
		Description: s.Message,
		Example:     s.Dim,
		Default:     s.Dim,
	}
}

// HelpFormatter provides styled help output for Cobra commands.
type HelpFormatter struct {
	styles *HelpStyles
}

// NewHelpFormatter creates a new help formatter with the given color mode.
func NewHelpFormatter(colorMode string, writer io.Writer) *HelpFormatter {
	return &HelpFormatter{styles: NewHelpStyles(pretty.IsColorEnabled(colorMode, writer))}
}

const usageTemplate = `{{ heading "Usage:" }}
{{- if .Runnable}}
  {{ command .UseLine }}
{{- end}}
{{- if .HasAvailableSubCommands}}
  {{ command .CommandPath }} [command]
{{- end}}

{{- if .HasExample}}

{{ heading "Examples:" }}
{{ example .Example }}
{{- end}}

{{- if .HasAvailableSubCommands}}

{{ heading "Commands:" }}
{{- range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{ subcommand (rpad .Name .NamePadding) }} {{ description .Short }}
{{- end}}{{end}}
{{- end}}

{{- if .HasAvailableLocalFlags}}

{{ heading "Flags:" }}
{{ flags .LocalFlags }}
{{- end}}

{{- if .HasAvailableInheritedFlags}}

{{ heading "Global Flags:" }}
{{ flags .InheritedFlags }}
{{- end}}

{{- if .HasAvailableSubCommands}}

Use "{{ command (print .CommandPath " [command] --help") }}" for more information about a command.
{{- end}}
`

const helpTemplate = `{{with (or .Long .Short)}}{{ . | trimRight }}

{{end}}{{ template "usage" . }}`

// funcs returns the template functions.
func (h *HelpFormatter) funcs() template.FuncMap {
	return template.FuncMap{
		"command":     h.styles.Command.Render,
		"heading":     h.styles.Heading.Render,
		"subcommand":  h.styles.Subcommand.Render,
		"description": h.styles.Description.Render,
		"example":     h.styles.Example.Render,
		"flags":       h.FormatFlags,
		"rpad":        rpad,
		"trimRight":   trimTrailingWhitespaces,
	}
}

// flagRow is one rendered flag before alignment.
type flagRow struct {
	names string
	kind  string
	usage string
	def   string
}

// FormatFlags renders a flag set as aligned rows: names and value type,
// then usage and non-zero default.
func (h *HelpFormatter) FormatFlags(fs *pflag.FlagSet) string {
	var rows []flagRow
	width := 0

	fs.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		kind, usage := pflag.UnquoteUsage(f)

		names := "    --" + f.Name
		if f.Shorthand != "" {
			names = "-" + f.Shorthand + ", --" + f.Name
		}
		row := flagRow{names: names, kind: kind, usage: usage}
		if !isZeroDefault(f) {
			row.def = f.DefValue
		}

		width = max(width, len(row.names)+len(row.kind)+1)
		rows = append(rows, row)
	})

	var builder strings.Builder
	for i, row := range rows {
		if i > 0 {
			builder.WriteString("\n")
		}
		plain := len(row.names)
		builder.WriteString(helpFlagIndent)
		builder.WriteString(h.styles.Flag.Render(row.names))
		if row.kind != "" {
			builder.WriteString(" " + h.styles.Type.Render(row.kind))
			plain += 1 + len(row.kind)
		}
		builder.WriteString(strings.Repeat(" ", width-plain+2))
		builder.WriteString(h.styles.Description.Render(row.usage))
		if row.def != "" {
			builder.WriteString(" " + h.styles.Default.Render(fmt.Sprintf("(default %s)", row.def)))
		}
	}
	return builder.String()
}

// isZeroDefault reports whether the flag's default is not worth printing.
func isZeroDefault(f *pflag.Flag) bool {
	switch f.DefValue {
	case "", "false", "0", "[]", "<nil>":
		return true
	}
	return false
}

// ApplyToCommand applies styled help templates to a Cobra command and all subcommands.
func (h *HelpFormatter) ApplyToCommand(cmd *cobra.Command) {
	tmpl := template.Must(template.New("help").Funcs(h.funcs()).Parse(helpTemplate))
	template.Must(tmpl.New("usage").Parse(usageTemplate))

	cmd.SetUsageFunc(func(command *cobra.Command) error {
		if err := tmpl.ExecuteTemplate(command.OutOrStderr(), "usage", command); err != nil {
			return fmt.Errorf("render usage: %w", err)
		}
		return nil
	})

	cmd.SetHelpFunc(func(command *cobra.Command, _ []string) {
		if err := tmpl.ExecuteTemplate(command.OutOrStdout(), "help", command); err != nil {
			command.PrintErrln(err)
		}
	})
}

// rpad adds padding to the right of a string.
func rpad(str string, padding int) string {
	if len(str) >= padding {
		return str
	}
	return str + strings.Repeat(" ", padding-len(str))
}

// trimTrailingWhitespaces removes trailing whitespace from lines.
func trimTrailingWhitespaces(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
