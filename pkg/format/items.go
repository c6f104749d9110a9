package format

import (
	"sort"
	"strings"

	"github.com/yaklabco/refit/pkg/fix"
	"github.com/yaklabco/refit/pkg/syntax"
)

type slot int

const (
	slotLeading slot = iota
	slotText
	slotTrailing
)

// item is one piece of a flattened token run: a trivia or a token's text.
type item struct {
	tok   int
	slot  slot
	index int
	start int
	text  string

	// verbatim items never receive edits inside their text.
	verbatim bool

	// separable items take inserted blanks as a separate whitespace trivia
	// placed before them.
	separable bool

	edits  []fix.TextEdit
	before string
}

func (it *item) end() int {
	return it.start + len(it.text)
}

// flatten lays the tokens out as one string and returns the pieces.
func flatten(tokens []*syntax.Token) (string, []*item) {
	var b strings.Builder
	var items []*item

	add := func(tok int, s slot, index int, text string, verbatim, separable bool) {
		items = append(items, &item{
			tok: tok, slot: s, index: index, start: b.Len(), text: text,
			verbatim: verbatim, separable: separable,
		})
		b.WriteString(text)
	}

	for i, tok := range tokens {
		for j, tr := range tok.Leading() {
			add(i, slotLeading, j, tr.Text(), false, !tr.IsWhitespace())
		}
		add(i, slotText, 0, tok.Text(), tok.IsVerbatim(), true)
		for j, tr := range tok.Trailing() {
			add(i, slotTrailing, j, tr.Text(), false, !tr.IsWhitespace())
		}
	}

	return b.String(), items
}

// touchesVerbatim reports whether op would change the inside of a verbatim
// token.
func touchesVerbatim(items []*item, op fix.TextEdit) bool {
	for _, it := range items {
		if !it.verbatim || it.start >= it.end() {
			continue
		}
		if op.StartOffset > it.start && op.StartOffset < it.end() {
			return true
		}
		if op.EndOffset > op.StartOffset && op.StartOffset < it.end() && op.EndOffset > it.start {
			return true
		}
	}
	return false
}

// rewriteTokens distributes ops over the items and returns the rebuilt
// tokens keyed by the token they replace. Tokens without edits are absent.
func rewriteTokens(tokens []*syntax.Token, items []*item, ops []fix.TextEdit, markers *syntax.Markers) map[*syntax.Token]*syntax.Token {
	var tail string
	total := 0
	if len(items) > 0 {
		total = items[len(items)-1].end()
	}

	for _, op := range ops {
		if touchesVerbatim(items, op) {
			continue
		}
		if op.StartOffset >= total {
			tail += op.NewText
			continue
		}

		// The item that holds the start; at a boundary the later one wins.
		i := sort.Search(len(items), func(i int) bool { return items[i].end() > op.StartOffset })
		it := items[i]
		insert := op.NewText

		if insert != "" && op.StartOffset == it.start && it.separable && isBlankText(insert) {
			it.before += insert
			insert = ""
		}

		local := fix.TextEdit{
			StartOffset: op.StartOffset - it.start,
			EndOffset:   min(op.EndOffset, it.end()) - it.start,
			NewText:     insert,
		}
		if local.NewText != "" || local.EndOffset > local.StartOffset {
			it.edits = append(it.edits, local)
		}

		for j := i + 1; j < len(items) && items[j].start < op.EndOffset; j++ {
			next := items[j]
			next.edits = append(next.edits, fix.TextEdit{
				EndOffset: min(op.EndOffset, next.end()) - next.start,
			})
		}
	}

	return rebuildTokens(tokens, items, tail, markers)
}

func rebuildTokens(tokens []*syntax.Token, items []*item, tail string, markers *syntax.Markers) map[*syntax.Token]*syntax.Token {
	type parts struct {
		leading  []*syntax.Trivia
		text     string
		trailing []*syntax.Trivia
		changed  bool
	}
	rebuilt := make([]parts, len(tokens))
	for i, tok := range tokens {
		rebuilt[i].text = tok.Text()
	}

	for _, it := range items {
		p := &rebuilt[it.tok]
		tok := tokens[it.tok]

		text := it.text
		if len(it.edits) > 0 {
			text = string(fix.ApplyEdits([]byte(it.text), it.edits))
		}
		if text != it.text || it.before != "" {
			p.changed = true
		}

		var before *syntax.Trivia
		if it.before != "" {
			before = syntax.Whitespace(it.before)
		}

		switch it.slot {
		case slotText:
			if before != nil {
				p.leading = append(p.leading, before)
			}
			p.text = text
		case slotLeading, slotTrailing:
			orig := tok.Leading()
			if it.slot == slotTrailing {
				orig = tok.Trailing()
			}
			list := &p.leading
			if it.slot == slotTrailing {
				list = &p.trailing
			}
			if before != nil {
				*list = append(*list, before)
			}
			tr := orig[it.index]
			switch {
			case text == tr.Text():
				*list = append(*list, tr)
			case text != "":
				cp := syntax.NewTrivia(tr.Kind(), text)
				markers.Carry(tr, cp)
				*list = append(*list, cp)
			}
		}
	}

	if tail != "" && len(tokens) > 0 {
		last := &rebuilt[len(tokens)-1]
		last.trailing = append(last.trailing, triviaFor(tail))
		last.changed = true
	}

	out := make(map[*syntax.Token]*syntax.Token)
	for i, tok := range tokens {
		p := rebuilt[i]
		if !p.changed {
			continue
		}
		out[tok] = tok.WithText(p.text).WithLeading(p.leading...).WithTrailing(p.trailing...)
	}
	return out
}

func triviaFor(text string) *syntax.Trivia {
	if text == "\n" || text == "\r\n" {
		return syntax.Newline(text)
	}
	if isBlankText(text) {
		return syntax.Whitespace(text)
	}
	return syntax.NewTrivia(syntax.TriviaSkipped, text)
}

func isBlankText(s string) bool {
	for i := range len(s) {
		if !isBlank(s[i]) {
			return false
		}
	}
	return true
}
