// Package treesitter builds lossless trees for programming languages from
// tree-sitter concrete syntax trees.
package treesitter

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/yaklabco/refit/pkg/syntax"
)

// ErrSyntax is returned when the source does not parse cleanly.
var ErrSyntax = errors.New("syntax error")

// Language describes a tree-sitter grammar and how its nodes map to tokens.
type Language struct {
	// Name is the language identifier used by the parser registry.
	Name string

	grammar func() *sitter.Language

	// verbatim node types become single tokens formatters must not touch.
	verbatim []string

	// comments are node types carried as trivia.
	comments []string
}

// Supported languages.
var (
	Go = Language{
		Name:     "go",
		grammar:  golang.GetLanguage,
		verbatim: []string{"raw_string_literal", "interpreted_string_literal", "rune_literal"},
		comments: []string{"comment"},
	}
	Python = Language{
		Name:     "python",
		grammar:  python.GetLanguage,
		verbatim: []string{"string", "concatenated_string"},
		comments: []string{"comment"},
	}
	JavaScript = Language{
		Name:     "javascript",
		grammar:  javascript.GetLanguage,
		verbatim: []string{"string", "template_string", "regex"},
		comments: []string{"comment"},
	}
)

// Languages lists every supported language.
func Languages() []Language {
	return []Language{Go, Python, JavaScript}
}

// ByName returns the language called name.
func ByName(name string) (Language, bool) {
	for _, l := range Languages() {
		if l.Name == name {
			return l, true
		}
	}
	return Language{}, false
}

// Parser parses one language. It is safe for concurrent use; every call
// creates its own tree-sitter parser.
type Parser struct {
	lang     Language
	verbatim map[string]bool
	comments map[string]bool
}

// New creates a parser for lang.
func New(lang Language) *Parser {
	p := &Parser{
		lang:     lang,
		verbatim: make(map[string]bool, len(lang.verbatim)),
		comments: make(map[string]bool, len(lang.comments)),
	}
	for _, k := range lang.verbatim {
		p.verbatim[k] = true
	}
	for _, k := range lang.comments {
		p.comments[k] = true
	}
	return p
}

// Language returns the parser's language.
func (p *Parser) Language() Language {
	return p.lang
}

// Parse builds the tree of content.
func (p *Parser) Parse(ctx context.Context, content []byte) (*syntax.Tree, error) {
	ts := sitter.NewParser()
	defer ts.Close()
	ts.SetLanguage(p.lang.grammar())

	raw, err := ts.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", p.lang.Name, err)
	}
	defer raw.Close()

	root := raw.RootNode()
	if root.HasError() {
		return nil, p.syntaxError(root)
	}

	src := string(content)
	b := syntax.NewBuilder(src, syntax.Kind(root.Type()))
	for _, k := range p.lang.verbatim {
		b.Verbatim(syntax.Kind(k))
	}

	for i := range int(root.ChildCount()) {
		p.visit(b, src, root.Child(i))
	}

	tree, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("build %s tree: %w", p.lang.Name, err)
	}
	return tree, nil
}

func (p *Parser) visit(b *syntax.Builder, src string, n *sitter.Node) {
	typ := n.Type()
	start, end := int(n.StartByte()), int(n.EndByte())

	if p.comments[typ] {
		b.Comment(start, end)
		return
	}

	if n.ChildCount() == 0 || p.verbatim[typ] {
		// Grammars emit newlines and indentation as tokens; they are trivia here.
		if strings.TrimSpace(src[start:end]) != "" {
			b.Token(syntax.Kind(typ), start, end)
		}
		return
	}

	b.Open(syntax.Kind(typ))
	for i := range int(n.ChildCount()) {
		p.visit(b, src, n.Child(i))
	}
	b.Close()
}

func (p *Parser) syntaxError(root *sitter.Node) error {
	bad := firstError(root)
	if bad == nil {
		return fmt.Errorf("%w in %s source", ErrSyntax, p.lang.Name)
	}
	pt := bad.StartPoint()
	return fmt.Errorf("%w in %s source at %d:%d", ErrSyntax, p.lang.Name, pt.Row+1, pt.Column+1)
}

func firstError(n *sitter.Node) *sitter.Node {
	if n.Type() == "ERROR" || n.IsMissing() {
		return n
	}
	for i := range int(n.ChildCount()) {
		child := n.Child(i)
		if child.HasError() || child.IsMissing() {
			if bad := firstError(child); bad != nil {
				return bad
			}
		}
	}
	return nil
}
