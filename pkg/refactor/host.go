package refactor

import (
	"context"

	"github.com/yaklabco/refit/pkg/fix"
	"github.com/yaklabco/refit/pkg/format"
	"github.com/yaklabco/refit/pkg/syntax"
)

// Document is a live, versioned text buffer.
type Document interface {
	// URI identifies the document. Transactions are serialized per URI.
	URI() string

	// Version increases with every committed change.
	Version() int64

	// Content returns the current text.
	Content() string

	// Commit applies edits atomically if the document is still at base and
	// returns the new version. Otherwise it returns ErrStaleSnapshot and
	// changes nothing.
	Commit(ctx context.Context, base int64, edits []fix.TextEdit) (int64, error)
}

// SelectionHost moves the caret or selection of a document view.
type SelectionHost interface {
	Select(offset, length, occurrence int)
}

// Formatter renormalizes the material of a compiled tree.
type Formatter interface {
	Format(ctx context.Context, tree *syntax.Tree, hints format.Hints) (*syntax.Tree, error)
}

// Parser turns document text into a tree.
type Parser interface {
	// Language names the language of a document, as used by providers.
	Language(path string, content []byte) string

	// Parse builds the lossless tree of content.
	Parse(ctx context.Context, path string, content []byte) (*syntax.Tree, error)
}

// IndentStyler is implemented by parsers whose languages indent spliced
// material by column rather than by line.
type IndentStyler interface {
	IndentStyle(language string) IndentStyle
}

// Snapshot is one parsed version of a document. It is read-only and can be
// shared by concurrent readers.
type Snapshot struct {
	URI      string
	Version  int64
	Language string
	Tree     *syntax.Tree
	Indent   IndentStyle
}

// TakeSnapshot reads and parses the current version of doc.
func TakeSnapshot(ctx context.Context, doc Document, parser Parser) (*Snapshot, error) {
	version := doc.Version()
	content := doc.Content()
	if doc.Version() != version {
		return nil, ErrStaleSnapshot
	}

	lang := parser.Language(doc.URI(), []byte(content))
	tree, err := parser.Parse(ctx, doc.URI(), []byte(content))
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		URI:      doc.URI(),
		Version:  version,
		Language: lang,
		Tree:     tree,
	}
	if styler, ok := parser.(IndentStyler); ok {
		snap.Indent = styler.IndentStyle(lang)
	}
	return snap, nil
}
