// Package langdetect names the language of a document, so the right parser
// and providers are picked, and guesses the language of code snippets, so
// new Markdown code fences get an info string.
package langdetect

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Language names used throughout refit.
const (
	Go         = "go"
	Python     = "python"
	JavaScript = "javascript"
	Markdown   = "markdown"
	Text       = "text"
)

// Snippet tags that Detect can return besides the document languages.
const (
	langJSON       = "json"
	langYAML       = "yaml"
	langHTML       = "html"
	langSQL        = "sql"
	langRust       = "rust"
	langDockerfile = "dockerfile"
	langBash       = "bash"
)

var enryNames = map[string]string{
	"Go":         Go,
	"Python":     Python,
	"JavaScript": JavaScript,
	"JSX":        JavaScript,
	"Markdown":   Markdown,
}

// DetectFile names the language of a document from its path and content.
// Languages without a parser map to Text.
func DetectFile(path string, content []byte) string {
	lang := enry.GetLanguage(filepath.Base(path), content)
	if name, ok := enryNames[lang]; ok {
		return name
	}
	return Text
}

// Skip reports whether path is vendored, generated or documentation that
// tools conventionally leave alone.
func Skip(path string, content []byte) bool {
	return enry.IsVendor(path) || enry.IsGenerated(path, content)
}

// snippetCandidates bounds the classifier to languages that commonly appear
// in Markdown code fences.
var snippetCandidates = []string{
	"Go", "Python", "Shell", "JavaScript", "TypeScript",
	"Ruby", "Rust", "Java", "C", "C++", "SQL", "JSON",
	"YAML", "HTML", "CSS", "Markdown", "Dockerfile",
}

// Detect guesses the fence tag for a code snippet. It returns Text when no
// guess is confident.
func Detect(content []byte) string {
	if len(bytes.TrimSpace(content)) == 0 {
		return Text
	}

	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return normalize(lang)
	}

	s := snippet{raw: content, text: string(content), trimmed: bytes.TrimSpace(content)}
	for _, p := range patterns {
		if p.match(s) {
			return p.lang
		}
	}

	if lang, safe := enry.GetLanguageByClassifier(content, snippetCandidates); safe && lang != "" {
		return normalize(lang)
	}
	return Text
}

type snippet struct {
	raw     []byte
	text    string
	trimmed []byte
}

// patterns are tried in order; earlier entries are more specific.
var patterns = []struct {
	lang  string
	match func(s snippet) bool
}{
	{Go, func(s snippet) bool { return bytes.HasPrefix(s.trimmed, []byte("package ")) }},
	{Python, isPython},
	{langHTML, func(s snippet) bool {
		lower := bytes.ToLower(s.trimmed)
		return containsAny(string(lower), "<!doctype html", "<html", "<head>", "<body>")
	}},
	{langJSON, func(s snippet) bool {
		return (bytes.HasPrefix(s.trimmed, []byte("{")) || bytes.HasPrefix(s.trimmed, []byte("["))) &&
			bytes.Contains(s.trimmed, []byte(`"`))
	}},
	{langDockerfile, func(s snippet) bool {
		return bytes.HasPrefix(s.trimmed, []byte("FROM ")) ||
			(strings.Contains(s.text, "\nFROM ") && strings.Contains(s.text, "\nRUN ")) ||
			(strings.Contains(s.text, "WORKDIR ") && strings.Contains(s.text, "COPY "))
	}},
	{langSQL, func(s snippet) bool {
		upper := strings.ToUpper(strings.TrimSpace(s.text))
		for _, kw := range []string{"SELECT ", "INSERT ", "UPDATE ", "DELETE ", "CREATE "} {
			if strings.HasPrefix(upper, kw) {
				return true
			}
		}
		return false
	}},
	{langRust, func(s snippet) bool { return containsAny(s.text, "fn main()", "println!", "let mut ") }},
	{JavaScript, func(s snippet) bool { return containsAny(s.text, "=>", "const ", "let ", "console.log") }},
	{langYAML, isYAML},
}

func isPython(s snippet) bool {
	switch {
	case strings.Contains(s.text, "def ") && strings.Contains(s.text, "):"):
		return true
	case strings.Contains(s.text, "__name__"), strings.Contains(s.text, "__main__"):
		return true
	case strings.Contains(s.text, "import ") && !strings.Contains(s.text, "import ("):
		return strings.Contains(s.text, "from ") || strings.HasPrefix(strings.TrimSpace(s.text), "import ")
	}
	return false
}

// isYAML counts "key: value" lines and list items.
func isYAML(s snippet) bool {
	count := 0
	for line := range bytes.SplitSeq(s.raw, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		if bytes.Contains(line, []byte(": ")) && !bytes.ContainsAny(line, "({") && line[0] != '"' {
			count++
		}
		if bytes.HasPrefix(line, []byte("- ")) {
			count++
		}
	}
	return count >= 2
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// normalize converts go-enry names to fence tags.
func normalize(lang string) string {
	if lang == "Shell" {
		return langBash
	}
	return strings.ToLower(lang)
}
