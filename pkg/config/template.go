package config

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
)

// commentWrapWidth is the maximum width for wrapped comments in templates.
const commentWrapWidth = 70

// ProviderInfo describes a provider for template generation. The CLI fills
// it from the provider catalog.
type ProviderInfo struct {
	ID        string
	Title     string
	Priority  int
	Languages []string
}

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Providers are listed in the template's providers section. Without
	// providers the section is a commented example.
	Providers []ProviderInfo
}

const templateHead = `# refit configuration
# See: https://github.com/yaklabco/refit

# Markdown flavor: commonmark or gfm
flavor: gfm

# Number of parallel workers (0 = auto)
jobs: 0

# How inserted code is normalized
format:
  tab_width: 4
  expand_tabs: false
  trim_trailing_whitespace: false

# Backups of rewritten files
backups:
  enabled: false
  mode: sidecar
`

// DefaultTemplate returns the template written by "refit init" when no
// provider list is available.
func DefaultTemplate() []byte {
	return GenerateTemplate(TemplateOptions{})
}

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) []byte {
	var buf bytes.Buffer
	buf.WriteString(templateHead)
	buf.WriteString("\n# Provider-specific configuration\n")

	if len(opts.Providers) == 0 {
		buf.WriteString(`# providers:
#   wrap-in-if:
#     enabled: true
#     priority: 10
#     options:
#       condition: "err != nil"
`)
		return buf.Bytes()
	}

	providers := append([]ProviderInfo(nil), opts.Providers...)
	sort.SliceStable(providers, func(i, j int) bool {
		return providers[i].ID < providers[j].ID
	})

	buf.WriteString("providers:\n")
	for _, p := range providers {
		fmt.Fprintf(&buf, "\n  # %s\n", wrapComment(p.Title, commentWrapWidth))
		if len(p.Languages) > 0 {
			fmt.Fprintf(&buf, "  # Languages: %s\n", strings.Join(p.Languages, ", "))
		}
		fmt.Fprintf(&buf, "  %s:\n", p.ID)
		buf.WriteString("    enabled: true\n")
		fmt.Fprintf(&buf, "    priority: %d\n", p.Priority)
		buf.WriteString("    # options:\n")
		buf.WriteString("    #   key: value\n")
	}

	return buf.Bytes()
}

// wrapComment wraps a comment to fit within maxWidth characters.
func wrapComment(text string, maxWidth int) string {
	if len(text) <= maxWidth {
		return text
	}

	var lines []string
	currentLine := ""

	for _, word := range strings.Fields(text) {
		switch {
		case currentLine == "":
			currentLine = word
		case len(currentLine)+1+len(word) <= maxWidth:
			currentLine += " " + word
		default:
			lines = append(lines, currentLine)
			currentLine = word
		}
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return strings.Join(lines, "\n  # ")
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# refit configuration
# See: https://github.com/yaklabco/refit`
}
