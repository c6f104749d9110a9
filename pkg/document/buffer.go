// Package document holds the live documents refactorings are committed to:
// in-memory buffers, files on disk and the caret of a view.
package document

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/yaklabco/refit/pkg/fix"
	"github.com/yaklabco/refit/pkg/refactor"
)

// EditEvent is published once for every committed change.
type EditEvent struct {
	URI     string
	Version int64
	Before  string
	After   string

	// Edits are the committed edits against Before. External replacements
	// are reported as a single edit covering the whole document.
	Edits []fix.TextEdit
}

// Buffer is an in-memory, versioned document. It is safe for concurrent
// use.
type Buffer struct {
	uri string

	mu      sync.RWMutex
	version int64
	content string

	pubMu   sync.Mutex
	subMu   sync.Mutex
	subs    map[int]func(EditEvent)
	nextSub int
}

// NewBuffer creates a buffer at version 1.
func NewBuffer(uri, content string) *Buffer {
	return &Buffer{
		uri:     uri,
		version: 1,
		content: content,
		subs:    make(map[int]func(EditEvent)),
	}
}

// URI returns the document URI.
func (b *Buffer) URI() string { return b.uri }

// Version returns the current version.
func (b *Buffer) Version() int64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.version
}

// Content returns the current text.
func (b *Buffer) Content() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.content
}

// Read returns the version and text as one consistent pair.
func (b *Buffer) Read() (int64, string) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.version, b.content
}

// Commit applies edits as one change if the buffer is still at base.
func (b *Buffer) Commit(ctx context.Context, base int64, edits []fix.TextEdit) (int64, error) {
	return b.commit(ctx, base, edits, nil)
}

// commit applies edits if the buffer is still at base. persist, when set,
// runs with the buffer locked after the version check and before the new
// text becomes visible; an error from it leaves the buffer unchanged.
func (b *Buffer) commit(ctx context.Context, base int64, edits []fix.TextEdit, persist func(next []byte) error) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	b.mu.Lock()
	if b.version != base {
		current := b.version
		b.mu.Unlock()
		return 0, fmt.Errorf("%w: %s: base %d, current %d", refactor.ErrStaleSnapshot, b.uri, base, current)
	}

	prepared, err := fix.PrepareEdits(edits, len(b.content))
	if err != nil {
		b.mu.Unlock()
		return 0, err
	}
	next := fix.ApplyEdits([]byte(b.content), prepared)

	if persist != nil {
		if err := persist(next); err != nil {
			b.mu.Unlock()
			return 0, err
		}
	}

	ev := EditEvent{
		URI:    b.uri,
		Before: b.content,
		After:  string(next),
		Edits:  slices.Clone(prepared),
	}
	b.content = ev.After
	b.version++
	ev.Version = b.version
	b.publish(ev)
	return ev.Version, nil
}

// Replace overwrites the whole text, as an external edit would, and
// returns the new version.
func (b *Buffer) Replace(content string) int64 {
	b.mu.Lock()
	ev := EditEvent{
		URI:    b.uri,
		Before: b.content,
		After:  content,
		Edits:  []fix.TextEdit{{StartOffset: 0, EndOffset: len(b.content), NewText: content}},
	}
	b.content = content
	b.version++
	ev.Version = b.version
	b.publish(ev)
	return ev.Version
}

// Subscribe registers fn for every future EditEvent and returns a function
// that removes it. Events are delivered in commit order from the
// committing goroutine. A subscriber must not commit to the same buffer.
func (b *Buffer) Subscribe(fn func(EditEvent)) func() {
	b.subMu.Lock()
	defer b.subMu.Unlock()

	id := b.nextSub
	b.nextSub++
	b.subs[id] = fn

	return func() {
		b.subMu.Lock()
		defer b.subMu.Unlock()
		delete(b.subs, id)
	}
}

// publish is entered with b.mu held and releases it.
func (b *Buffer) publish(ev EditEvent) {
	b.pubMu.Lock()
	defer b.pubMu.Unlock()
	b.mu.Unlock()

	b.subMu.Lock()
	fns := make([]func(EditEvent), 0, len(b.subs))
	for id := range b.nextSub {
		if fn, ok := b.subs[id]; ok {
			fns = append(fns, fn)
		}
	}
	b.subMu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

var _ refactor.Document = (*Buffer)(nil)
