package goldmark

import (
	"strings"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/refit/pkg/syntax"
)

// block is a goldmark block reduced to the lines it occupies.
type block struct {
	kind     syntax.Kind
	first    int
	last     int
	setext   bool
	closed   bool
	children []*block
}

func (b *block) leaf() bool {
	switch b.kind {
	case KindList, KindListItem, KindBlockquote, KindDocument:
		return false
	default:
		return true
	}
}

// collector assigns line ranges to goldmark blocks in document order.
type collector struct {
	src   string
	lines *syntax.LineIndex

	// next is the first line not yet claimed by a leaf block.
	next int
}

func (c *collector) children(n ast.Node) []*block {
	var out []*block
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if b := c.collect(child); b != nil {
			out = append(out, b)
		}
	}
	return out
}

func (c *collector) collect(n ast.Node) *block {
	switch n := n.(type) {
	case *ast.List:
		return c.container(KindList, n)
	case *ast.ListItem:
		b := c.container(KindListItem, n)
		if b == nil {
			line := c.nextContentLine()
			b = &block{kind: KindListItem, first: line, last: line}
			c.claim(line)
		}
		return b
	case *ast.Blockquote:
		return c.container(KindBlockquote, n)
	case *ast.Heading:
		return c.heading(n)
	case *ast.Paragraph, *ast.TextBlock:
		return c.fromLines(KindParagraph, n.Lines())
	case *ast.FencedCodeBlock:
		return c.fenced(n)
	case *ast.CodeBlock:
		return c.fromLines(KindCodeBlock, n.Lines())
	case *ast.HTMLBlock:
		b := c.fromLines(KindHTMLBlock, n.Lines())
		if n.HasClosure() {
			b.last = max(b.last, c.lines.LineOf(segmentEnd(n.ClosureLine)))
			c.claim(b.last)
		}
		return b
	case *ast.ThematicBreak:
		line := c.nextContentLine()
		c.claim(line)
		return &block{kind: KindThematicBreak, first: line, last: line}
	case *east.Table:
		return c.table(n)
	}

	if n.Type() != ast.TypeBlock {
		return nil
	}
	if n.Lines().Len() > 0 {
		return c.fromLines(KindParagraph, n.Lines())
	}
	return c.container(syntax.Kind(strings.ToLower(n.Kind().String())), n)
}

func (c *collector) container(kind syntax.Kind, n ast.Node) *block {
	children := c.children(n)
	if len(children) == 0 {
		return nil
	}
	return &block{
		kind:     kind,
		first:    children[0].first,
		last:     children[len(children)-1].last,
		children: children,
	}
}

func (c *collector) fromLines(kind syntax.Kind, lines *text.Segments) *block {
	if lines.Len() == 0 {
		line := c.nextContentLine()
		c.claim(line)
		return &block{kind: kind, first: line, last: line}
	}
	b := &block{
		kind:  kind,
		first: c.lines.LineOf(lines.At(0).Start),
		last:  c.lines.LineOf(segmentEnd(lines.At(lines.Len() - 1))),
	}
	c.claim(b.last)
	return b
}

func (c *collector) heading(n *ast.Heading) *block {
	b := c.fromLines(KindHeading, n.Lines())
	if n.Lines().Len() == 0 {
		return b
	}

	// Setext headings have no '#' before their text and own the underline.
	start := c.lines.Line(b.first).Start
	if !strings.Contains(c.src[start:n.Lines().At(0).Start], "#") && b.last+1 < c.lines.Count() {
		b.setext = true
		b.last++
		c.claim(b.last)
	}
	return b
}

func (c *collector) fenced(n *ast.FencedCodeBlock) *block {
	b := &block{kind: KindFencedCode}
	lines := n.Lines()
	if lines.Len() > 0 {
		b.first = c.lines.LineOf(lines.At(0).Start) - 1
		b.last = c.lines.LineOf(segmentEnd(lines.At(lines.Len() - 1)))
	} else {
		b.first = c.nextContentLine()
		b.last = b.first
	}
	b.first = max(b.first, 0)

	char, size := fenceOf(c.lines.Content(b.first))
	if size > 0 && b.last+1 < c.lines.Count() && closesFence(c.lines.Content(b.last+1), char, size) {
		b.last++
		b.closed = true
	}
	c.claim(b.last)
	return b
}

func (c *collector) table(n *east.Table) *block {
	lo, hi := -1, -1
	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := node.(*ast.Text); entering && ok {
			if lo < 0 || t.Segment.Start < lo {
				lo = t.Segment.Start
			}
			hi = max(hi, segmentEnd(t.Segment))
		}
		return ast.WalkContinue, nil
	})

	if lo < 0 {
		line := c.nextContentLine()
		c.claim(line + 1)
		return &block{kind: KindTable, first: line, last: min(line+1, c.lines.Count()-1)}
	}

	// The delimiter row has no text of its own.
	b := &block{kind: KindTable, first: c.lines.LineOf(lo), last: c.lines.LineOf(hi)}
	b.last = min(max(b.last, b.first+1), c.lines.Count()-1)
	c.claim(b.last)
	return b
}

// nextContentLine returns the first unclaimed line with content beyond
// blockquote markers.
func (c *collector) nextContentLine() int {
	for line := c.next; line < c.lines.Count(); line++ {
		if strings.TrimLeft(c.lines.Content(line), " \t>") != "" {
			return line
		}
	}
	return min(c.next, c.lines.Count()-1)
}

func (c *collector) claim(line int) {
	c.next = max(c.next, line+1)
}

// segmentEnd is the offset of the last byte of seg.
func segmentEnd(seg text.Segment) int {
	if seg.Stop > seg.Start {
		return seg.Stop - 1
	}
	return seg.Start
}

func fenceOf(line string) (byte, int) {
	line = strings.TrimLeft(line, " \t>")
	if line == "" || (line[0] != '`' && line[0] != '~') {
		return 0, 0
	}
	size := 0
	for size < len(line) && line[size] == line[0] {
		size++
	}
	if size < 3 {
		return 0, 0
	}
	return line[0], size
}

func closesFence(line string, char byte, size int) bool {
	c, n := fenceOf(line)
	if c != char || n < size {
		return false
	}
	return strings.TrimSpace(strings.TrimLeft(line, " \t>")[n:]) == ""
}

// normalize clips child ranges to their parent and drops children that
// would overlap an earlier sibling.
func normalize(b *block, lo, hi int) {
	kept := b.children[:0]
	prev := lo - 1
	for _, child := range b.children {
		child.first = max(child.first, prev+1)
		child.last = min(child.last, hi)
		if child.first > child.last {
			continue
		}
		if len(child.children) > 0 {
			normalize(child, child.first, child.last)
		}
		kept = append(kept, child)
		prev = child.last
	}
	b.children = kept
}
