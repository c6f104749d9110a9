package refactor

import (
	"context"

	"github.com/yaklabco/refit/pkg/format"
	"github.com/yaklabco/refit/pkg/syntax"
)

// Request is what a host asks for: where the caret is and what is selected.
type Request struct {
	// Caret is the byte offset of the caret.
	Caret int

	// Selection is the selected range; empty when nothing is selected.
	Selection syntax.Span

	// Options are provider options, usually from configuration.
	Options map[string]any
}

// Context is handed to providers. It is created per provider invocation
// and carries the transaction's marker table.
type Context struct {
	// Ctx is the context for cancellation of Accept probes.
	Ctx context.Context

	// Snapshot is the document version the provider works on.
	Snapshot *Snapshot

	// Request is the host's request.
	Request Request

	markers *syntax.Markers
	caret   syntax.Marker
}

// NewContext creates a provider context with a fresh marker table.
func NewContext(ctx context.Context, snap *Snapshot, req Request) *Context {
	return &Context{
		Ctx:      ctx,
		Snapshot: snap,
		Request:  req,
		markers:  syntax.NewMarkers(),
		caret:    syntax.NewMarker(),
	}
}

// Tree returns the snapshot tree.
func (c *Context) Tree() *syntax.Tree { return c.Snapshot.Tree }

// Language returns the snapshot language.
func (c *Context) Language() string { return c.Snapshot.Language }

// Caret returns the caret offset.
func (c *Context) Caret() int { return c.Request.Caret }

// Selection returns the selected range.
func (c *Context) Selection() syntax.Span { return c.Request.Selection }

// Markers returns the transaction's marker table.
func (c *Context) Markers() *syntax.Markers { return c.markers }

// CaretMarker returns the marker that places the caret after the commit.
func (c *Context) CaretMarker() syntax.Marker { return c.caret }

// Select asks for the caret to land on e once the transaction commits.
// e must be part of an action's inserts. Only the last call counts.
func (c *Context) Select(e syntax.Element) {
	c.markers.Detach(c.caret)
	c.markers.Attach(c.caret, e)
}

// Cancelled returns true if the context has been cancelled.
func (c *Context) Cancelled() bool {
	select {
	case <-c.Ctx.Done():
		return true
	default:
		return false
	}
}

// TokenAtCaret returns the token under the caret.
func (c *Context) TokenAtCaret() *syntax.Token {
	return c.Tree().TokenAt(c.Request.Caret)
}

// Target returns the range a provider should act on: the selection if
// there is one, else the empty range at the caret.
func (c *Context) Target() syntax.Span {
	if !c.Request.Selection.IsEmpty() {
		return c.Request.Selection
	}
	return syntax.Span{Start: c.Request.Caret, End: c.Request.Caret}
}

// Enclosing returns the innermost node of one of the given kinds that
// contains the target, or nil.
func (c *Context) Enclosing(kinds ...syntax.Kind) *syntax.Node {
	match := syntax.OfKind(kinds...)
	target := c.Target()
	tree := c.Tree()

	tok := tree.TokenAt(target.Start)
	if tok == nil {
		return nil
	}
	for _, anc := range tree.Ancestors(tok) {
		if anc == tree.Root() {
			break
		}
		if match(anc) && tree.FullSpan(anc).Covers(target) {
			return anc
		}
	}
	return nil
}

// Relative returns a copy of c, an element of the snapshot, re-indented to
// column 0 so it can be used as insert material.
func (c *Context) Relative(child syntax.Child) syntax.Child {
	tree := c.Tree()
	full := tree.FullSpan(child)
	indent := tree.LineIndent(tree.Span(child).Start)
	return format.Reindent(child, indent, "", tree.AtLineStart(full.Start))
}

// Option returns a provider option value, or the default if not set.
func (c *Context) Option(key string, defaultValue any) any {
	if c.Request.Options == nil {
		return defaultValue
	}
	if v, ok := c.Request.Options[key]; ok {
		return v
	}
	return defaultValue
}

// OptionInt returns a provider integer option, or the default.
func (c *Context) OptionInt(key string, defaultValue int) int {
	switch val := c.Option(key, defaultValue).(type) {
	case int:
		return val
	case int64:
		return int(val)
	case float64:
		return int(val)
	default:
		return defaultValue
	}
}

// OptionString returns a provider string option, or the default.
func (c *Context) OptionString(key string, defaultValue string) string {
	if s, ok := c.Option(key, defaultValue).(string); ok {
		return s
	}
	return defaultValue
}

// OptionBool returns a provider boolean option, or the default.
func (c *Context) OptionBool(key string, defaultValue bool) bool {
	if b, ok := c.Option(key, defaultValue).(bool); ok {
		return b
	}
	return defaultValue
}
