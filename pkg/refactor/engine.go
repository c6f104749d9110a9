package refactor

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/yaklabco/refit/pkg/fix"
	"github.com/yaklabco/refit/pkg/format"
	"github.com/yaklabco/refit/pkg/syntax"
)

// Outcome describes one transaction.
type Outcome struct {
	// Declined is set when the provider did not accept or produced no
	// actions. Nothing was changed.
	Declined bool

	// Provider is the provider id.
	Provider string

	// Actions is the number of compiled actions.
	Actions int

	// Edits are the committed text edits, in document order.
	Edits []fix.TextEdit

	// Selection is where the caret was placed, if anywhere.
	Selection *Selection

	// Version is the document version after the commit.
	Version int64

	// Tree is the formatted tree; its text equals the committed document.
	Tree *syntax.Tree
}

// Engine runs refactoring transactions. It serializes transactions per
// document and is safe for concurrent use.
type Engine struct {
	formatter Formatter
	jobs      int

	mu    sync.Mutex
	locks map[string]*docLock
}

// docLock serializes the transactions of one document. refs counts the
// transactions holding or waiting on it; the entry is dropped at zero.
type docLock struct {
	sem  *semaphore.Weighted
	refs int
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithFormatter sets the formatter. The default is a format.Indenter with
// default options.
func WithFormatter(f Formatter) EngineOption {
	return func(e *Engine) {
		e.formatter = f
	}
}

// WithJobs bounds the number of concurrent Accept probes in Offer.
func WithJobs(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.jobs = n
		}
	}
}

// NewEngine creates an Engine.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		formatter: format.NewIndenter(format.DefaultOptions()),
		jobs:      runtime.NumCPU(),
		locks:     make(map[string]*docLock),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// acquire waits for exclusive access to uri. The returned func releases it.
func (e *Engine) acquire(ctx context.Context, uri string) (func(), error) {
	e.mu.Lock()
	l, ok := e.locks[uri]
	if !ok {
		l = &docLock{sem: semaphore.NewWeighted(1)}
		e.locks[uri] = l
	}
	l.refs++
	e.mu.Unlock()

	if err := l.sem.Acquire(ctx, 1); err != nil {
		e.unref(uri, l)
		return nil, err
	}
	return func() {
		l.sem.Release(1)
		e.unref(uri, l)
	}, nil
}

func (e *Engine) unref(uri string, l *docLock) {
	e.mu.Lock()
	defer e.mu.Unlock()
	l.refs--
	if l.refs == 0 {
		delete(e.locks, uri)
	}
}

// Apply runs provider p against snap and commits the result to doc.
//
// Waiting for another transaction on the same document honors ctx, and so
// does the provider's Accept. Once compilation starts the transaction runs
// to completion or fails without committing anything.
func (e *Engine) Apply(
	ctx context.Context,
	doc Document,
	snap *Snapshot,
	p Provider,
	req Request,
	host SelectionHost,
) (*Outcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	release, err := e.acquire(ctx, doc.URI())
	if err != nil {
		return nil, err
	}
	defer release()

	outcome := &Outcome{Provider: p.ID()}

	pctx := NewContext(ctx, snap, req)
	if !Supports(p, snap.Language) || !p.Accept(pctx) {
		outcome.Declined = true
		return outcome, nil
	}

	actions, err := p.Refactor(pctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrProvider, p.ID(), err)
	}

	tx, err := e.transact(context.WithoutCancel(ctx), doc, snap, actions, pctx)
	if errors.Is(err, ErrNoActions) {
		outcome.Declined = true
		return outcome, nil
	}
	if err != nil {
		return nil, err
	}

	tx.Provider = p.ID()
	if tx.Selection != nil && host != nil {
		host.Select(tx.Selection.Offset, tx.Selection.Length, 1)
	}
	return tx, nil
}

// transact compiles, formats, projects and commits actions.
func (e *Engine) transact(
	ctx context.Context,
	doc Document,
	snap *Snapshot,
	actions []EditAction,
	pctx *Context,
) (*Outcome, error) {
	markers := pctx.Markers()

	comp, err := Compiler{Indent: snap.Indent}.Compile(snap.Tree, actions, markers)
	if err != nil {
		return nil, err
	}

	formatted, err := e.formatter.Format(ctx, comp.Tree, comp.Hints(markers))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFormat, err)
	}

	proj, err := Project(snap.Tree, comp, formatted, markers)
	if err != nil {
		return nil, err
	}

	if doc.Version() != snap.Version {
		return nil, fmt.Errorf("%w: snapshot %d, document %d", ErrStaleSnapshot, snap.Version, doc.Version())
	}
	edits := proj.Edits()
	version, err := doc.Commit(ctx, snap.Version, edits)
	if err != nil {
		return nil, err
	}

	outcome := &Outcome{
		Actions: len(actions),
		Edits:   edits,
		Version: version,
		Tree:    formatted,
	}
	if sel, ok := Locate(formatted, comp, proj, markers, pctx.CaretMarker()); ok {
		outcome.Selection = &sel
	}
	return outcome, nil
}

// Offer probes every provider's Accept concurrently and returns the
// accepting ones in the given order.
func (e *Engine) Offer(ctx context.Context, snap *Snapshot, req Request, providers []Provider) ([]Provider, error) {
	accepted := make([]bool, len(providers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.jobs)
	for i, p := range providers {
		if !Supports(p, snap.Language) {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			accepted[i] = p.Accept(NewContext(gctx, snap, req))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []Provider
	for i, p := range providers {
		if accepted[i] {
			out = append(out, p)
		}
	}
	return out, nil
}

// ApplyFirst applies the first provider that accepts. It declines when
// none does.
func (e *Engine) ApplyFirst(
	ctx context.Context,
	doc Document,
	snap *Snapshot,
	providers []Provider,
	req Request,
	host SelectionHost,
) (*Outcome, error) {
	offered, err := e.Offer(ctx, snap, req, providers)
	if err != nil {
		return nil, err
	}
	if len(offered) == 0 {
		return &Outcome{Declined: true}, nil
	}
	return e.Apply(ctx, doc, snap, offered[0], req, host)
}
