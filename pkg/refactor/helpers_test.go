package refactor_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yaklabco/refit/pkg/refactor"
	"github.com/yaklabco/refit/pkg/syntax"
)

// parseBlocks reads a toy language: one statement per line, a line ending
// in "{" opens a block that a lone "}" closes, "#" starts a comment.
func parseBlocks(src string) (*syntax.Tree, error) {
	b := syntax.NewBuilder(src, "file")

	for pos := 0; pos < len(src); {
		end := strings.IndexByte(src[pos:], '\n')
		next := len(src)
		if end < 0 {
			end = len(src)
		} else {
			end += pos
			next = end + 1
		}

		type word struct{ start, end int }
		var words []word
		for i := pos; i < end; {
			switch c := src[i]; {
			case c == ' ' || c == '\t' || c == '\r':
				i++
			case c == '#':
				b.Comment(i, end)
				i = end
			default:
				j := i
				for j < end && src[j] != ' ' && src[j] != '\t' && src[j] != '\r' {
					j++
				}
				words = append(words, word{i, j})
				i = j
			}
		}

		switch {
		case len(words) == 0:
		case len(words) == 1 && src[words[0].start:words[0].end] == "}":
			b.Token("brace", words[0].start, words[0].end)
			b.Close()
		default:
			opens := src[words[len(words)-1].start:words[len(words)-1].end] == "{"
			if opens {
				b.Open("block")
			}
			b.Open("stmt")
			for _, w := range words {
				b.Token("word", w.start, w.end)
			}
			b.Close()
		}
		pos = next
	}

	return b.Build()
}

func parse(t *testing.T, src string) *syntax.Tree {
	t.Helper()

	tree, err := parseBlocks(src)
	require.NoError(t, err)
	require.Equal(t, src, tree.Text())
	return tree
}

// snippet returns the first statement of src, as insert material.
func snippet(t *testing.T, src string) syntax.Child {
	t.Helper()

	stmts := statements(parse(t, src))
	require.NotEmpty(t, stmts)
	return stmts[0]
}

func statements(tree *syntax.Tree) []syntax.Child {
	return syntax.FindAll(tree.Root(), syntax.OfKind("stmt"))
}

// stmt returns the statement whose text is text.
func stmt(t *testing.T, tree *syntax.Tree, text string) syntax.Child {
	t.Helper()

	for _, s := range statements(tree) {
		if syntax.TextOf(s) == text {
			return s
		}
	}
	require.FailNow(t, "statement not found", text)
	return nil
}

type blockParser struct{}

func (blockParser) Language(string, []byte) string { return "blocks" }

func (blockParser) Parse(_ context.Context, _ string, content []byte) (*syntax.Tree, error) {
	return parseBlocks(string(content))
}

// funcProvider is a provider assembled from closures.
type funcProvider struct {
	refactor.BaseProvider

	accept  func(*refactor.Context) bool
	actions func(*refactor.Context) ([]refactor.EditAction, error)
}

func newProvider(id string, actions func(*refactor.Context) ([]refactor.EditAction, error)) *funcProvider {
	return &funcProvider{
		BaseProvider: refactor.NewBaseProvider(id, id, "", 0, "blocks"),
		actions:      actions,
	}
}

func (p *funcProvider) Accept(ctx *refactor.Context) bool {
	if p.accept == nil {
		return true
	}
	return p.accept(ctx)
}

func (p *funcProvider) Refactor(ctx *refactor.Context) ([]refactor.EditAction, error) {
	return p.actions(ctx)
}
