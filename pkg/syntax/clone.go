package syntax

// Clone deep-copies c so that every node, token and trivia of the copy has
// a fresh identity. Markers on the originals are carried to the copies.
func Clone(c Child, markers *Markers) Child {
	switch v := c.(type) {
	case *Node:
		children := make([]Child, len(v.children))
		for i, ch := range v.children {
			children[i] = Clone(ch, markers)
		}
		n := NewNode(v.kind, children...)
		markers.Carry(v, n)
		return n
	case *Token:
		tok := &Token{
			kind:     v.kind,
			text:     v.text,
			leading:  cloneTrivia(v.leading, markers),
			trailing: cloneTrivia(v.trailing, markers),
			verbatim: v.verbatim,
		}
		markers.Carry(v, tok)
		return tok
	default:
		return c
	}
}

func cloneTrivia(list []*Trivia, markers *Markers) []*Trivia {
	if len(list) == 0 {
		return nil
	}
	out := make([]*Trivia, len(list))
	for i, tr := range list {
		cp := &Trivia{kind: tr.kind, text: tr.text}
		markers.Carry(tr, cp)
		out[i] = cp
	}
	return out
}

// MapTokens rebuilds c with every token passed through fn. Nodes whose
// tokens are all returned unchanged are kept as they are. Markers of
// rebuilt nodes and substituted tokens move to their replacements.
func MapTokens(c Child, markers *Markers, fn func(*Token) *Token) Child {
	switch v := c.(type) {
	case *Token:
		if mapped := fn(v); mapped != nil && mapped != v {
			markers.Carry(v, mapped)
			return mapped
		}
		return v
	case *Node:
		changed := false
		children := make([]Child, len(v.children))
		for i, ch := range v.children {
			children[i] = MapTokens(ch, markers, fn)
			if children[i] != ch {
				changed = true
			}
		}
		if !changed {
			return v
		}
		n := NewNode(v.kind, children...)
		markers.Carry(v, n)
		return n
	default:
		return c
	}
}

// WithOuterTrivia returns c with its first token's leading trivia and its
// last token's trailing trivia replaced.
func WithOuterTrivia(c Child, leading, trailing []*Trivia) Child {
	first, last := c.FirstToken(), c.LastToken()
	if first == nil {
		return c
	}
	return MapTokens(c, nil, func(tok *Token) *Token {
		out := tok
		if tok == first {
			out = out.WithLeading(leading...)
		}
		if tok == last {
			out = out.WithTrailing(trailing...)
		}
		return out
	})
}

// StripOuterTrivia returns c without leading trivia on its first token and
// trailing trivia on its last token.
func StripOuterTrivia(c Child) Child {
	return WithOuterTrivia(c, nil, nil)
}
