// Package parser picks the tree builder for a document by its language.
package parser

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/yaklabco/refit/pkg/langdetect"
	"github.com/yaklabco/refit/pkg/parser/goldmark"
	"github.com/yaklabco/refit/pkg/parser/treesitter"
	"github.com/yaklabco/refit/pkg/refactor"
	"github.com/yaklabco/refit/pkg/syntax"
)

// KindText is the root kind of documents without a dedicated parser.
const KindText syntax.Kind = "text"

// LanguageParser builds the tree of one language.
type LanguageParser interface {
	Parse(ctx context.Context, content []byte) (*syntax.Tree, error)
}

// Registry maps languages to parsers. It implements refactor.Parser and
// refactor.IndentStyler.
type Registry struct {
	mu      sync.RWMutex
	parsers map[string]LanguageParser
	styles  map[string]refactor.IndentStyle
}

// New creates an empty registry. Every document parses as plain text.
func New() *Registry {
	return &Registry{
		parsers: make(map[string]LanguageParser),
		styles:  make(map[string]refactor.IndentStyle),
	}
}

// NewDefault creates a registry with the bundled parsers. flavor selects
// the Markdown dialect.
func NewDefault(flavor string) *Registry {
	r := New()
	r.Register(langdetect.Markdown, goldmark.New(flavor), refactor.IndentColumn)
	for _, lang := range treesitter.Languages() {
		r.Register(lang.Name, treesitter.New(lang), refactor.IndentLine)
	}
	return r
}

// Register adds or replaces the parser of lang.
func (r *Registry) Register(lang string, p LanguageParser, style refactor.IndentStyle) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.parsers[lang] = p
	r.styles[lang] = style
}

// Languages returns the registered languages, sorted.
func (r *Registry) Languages() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Sorted(maps.Keys(r.parsers))
}

// Language names the language of the document at path.
func (r *Registry) Language(path string, content []byte) string {
	return langdetect.DetectFile(path, content)
}

// Parse builds the tree of the document at path. Languages without a
// parser get a flat tree of words.
func (r *Registry) Parse(ctx context.Context, path string, content []byte) (*syntax.Tree, error) {
	lang := r.Language(path, content)

	r.mu.RLock()
	p, ok := r.parsers[lang]
	r.mu.RUnlock()

	if !ok {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return syntax.Parse(string(content), KindText), nil
	}
	return p.Parse(ctx, content)
}

// IndentStyle returns how spliced material is indented in lang.
func (r *Registry) IndentStyle(lang string) refactor.IndentStyle {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.styles[lang]
}

var (
	_ refactor.Parser       = (*Registry)(nil)
	_ refactor.IndentStyler = (*Registry)(nil)
)
