// Package format renormalizes material that a refactoring spliced into a
// tree. It is a region indenter, not a pretty-printer: only the inserted
// regions are touched, and every marker attached inside them survives.
package format

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yaklabco/refit/pkg/fix"
	"github.com/yaklabco/refit/pkg/syntax"
)

// DefaultTabWidth is the tab stop used when expanding tabs.
const DefaultTabWidth = 4

var (
	// ErrForeignRegion is returned when a region root is not part of the
	// tree being formatted.
	ErrForeignRegion = errors.New("region root not in tree")

	// ErrRegionOverlap is returned when two regions share a root.
	ErrRegionOverlap = errors.New("regions overlap")
)

// Region is a run of consecutive children spliced into a tree. The material
// is authored relative to column 0; Indent is the column it has to move to.
type Region struct {
	// Roots are the spliced children, in document order.
	Roots []syntax.Child

	// Indent is prefixed to every non-blank line of the region.
	Indent string

	// LineStart is set when the region begins a line, so its first line is
	// indented too.
	LineStart bool

	// LineEnd is set when the replaced material ended a line, so the region
	// must end with a line terminator as well.
	LineEnd bool
}

// Hints tells the formatter what to renormalize.
type Hints struct {
	// Regions lists the inserted material.
	Regions []Region

	// Markers is the transaction's side-table. Rebuilt elements inherit the
	// markers of the elements they replace.
	Markers *syntax.Markers
}

// Options controls the Indenter.
type Options struct {
	// TabWidth is the tab stop used by ExpandTabs.
	TabWidth int

	// ExpandTabs converts tabs in region indents and in the leading
	// whitespace of region lines to spaces. The indent and the line's own
	// whitespace expand separately, so material keeps its relative indent.
	ExpandTabs bool

	// TrimTrailingWhitespace removes blanks before line terminators in
	// regions.
	TrimTrailingWhitespace bool
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{TabWidth: DefaultTabWidth}
}

// Indenter is the bundled formatter.
type Indenter struct {
	opts Options
}

// NewIndenter creates an Indenter.
func NewIndenter(opts Options) *Indenter {
	if opts.TabWidth <= 0 {
		opts.TabWidth = DefaultTabWidth
	}
	return &Indenter{opts: opts}
}

// Options returns the indenter's options.
func (f *Indenter) Options() Options {
	return f.opts
}

// Format returns a tree in which every region is indented to its base
// column. Text outside the regions is not modified.
func (f *Indenter) Format(ctx context.Context, tree *syntax.Tree, hints Hints) (*syntax.Tree, error) {
	if len(hints.Regions) == 0 {
		return tree, nil
	}

	eol := tree.EOL()
	seen := make(map[syntax.Child]bool)
	r := syntax.NewRewriter()

	for _, region := range hints.Regions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var tokens []*syntax.Token
		for _, root := range region.Roots {
			if !tree.Contains(root) {
				return nil, fmt.Errorf("%w: %s", ErrForeignRegion, syntax.Describe(root))
			}
			if seen[root] {
				return nil, fmt.Errorf("%w: %s", ErrRegionOverlap, syntax.Describe(root))
			}
			seen[root] = true
			for tok := range syntax.TokensOf(root) {
				tokens = append(tokens, tok)
			}
		}
		if len(tokens) == 0 {
			continue
		}

		text, items := flatten(tokens)
		ops := f.regionOps(text, region, eol)
		mapped := rewriteTokens(tokens, items, ops, hints.Markers)
		if len(mapped) == 0 {
			continue
		}

		for _, root := range region.Roots {
			rebuilt := syntax.MapTokens(root, hints.Markers, func(tok *syntax.Token) *syntax.Token {
				return mapped[tok]
			})
			if rebuilt != root {
				r.Replace(root, rebuilt)
			}
		}
	}

	if r.Empty() {
		return tree, nil
	}
	return tree.Apply(r, hints.Markers)
}

// regionOps computes the text edits, in region coordinates, that move the
// region to its base indent.
func (f *Indenter) regionOps(text string, region Region, eol string) []fix.TextEdit {
	var ops []fix.TextEdit

	prefix := region.Indent
	if f.opts.ExpandTabs {
		prefix = expandTabs(prefix, f.opts.TabWidth)
	}

	for pos := 0; pos < len(text); {
		ln := nextLine(text, pos)

		if ln.blank() {
			if f.opts.TrimTrailingWhitespace && ln.terminated && ln.indent > 0 {
				ops = append(ops, fix.TextEdit{StartOffset: pos, EndOffset: pos + ln.indent})
			}
			pos = ln.next
			continue
		}

		if pos > 0 || region.LineStart {
			edit := fix.TextEdit{StartOffset: pos, EndOffset: pos, NewText: prefix}
			lead := text[pos : pos+ln.indent]
			if f.opts.ExpandTabs && strings.Contains(lead, "\t") {
				edit.EndOffset = pos + ln.indent
				edit.NewText += expandTabs(lead, f.opts.TabWidth)
			}
			if edit.NewText != "" || edit.EndOffset > edit.StartOffset {
				ops = append(ops, edit)
			}
		}

		if f.opts.TrimTrailingWhitespace && ln.terminated {
			end := ln.contentEnd
			for end > pos+ln.indent && isBlank(text[end-1]) {
				end--
			}
			if end < ln.contentEnd {
				ops = append(ops, fix.TextEdit{StartOffset: end, EndOffset: ln.contentEnd})
			}
		}

		pos = ln.next
	}

	if region.LineEnd && !strings.HasSuffix(text, "\n") {
		ops = append(ops, fix.TextEdit{StartOffset: len(text), EndOffset: len(text), NewText: eol})
	}

	return ops
}

func expandTabs(s string, width int) string {
	var b strings.Builder
	col := 0
	for i := range len(s) {
		if s[i] == '\t' {
			n := width - col%width
			b.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		b.WriteByte(s[i])
		col++
	}
	return b.String()
}
