package refactor_test

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/refit/pkg/document"
	"github.com/yaklabco/refit/pkg/format"
	"github.com/yaklabco/refit/pkg/refactor"
	"github.com/yaklabco/refit/pkg/syntax"
)

func snapshot(t *testing.T, doc refactor.Document) *refactor.Snapshot {
	t.Helper()

	snap, err := refactor.TakeSnapshot(context.Background(), doc, blockParser{})
	require.NoError(t, err)
	return snap
}

func TestEngine_Apply(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		actions   func(ctx *refactor.Context) ([]refactor.EditAction, error)
		want      string
		selection *refactor.Selection
	}{
		{
			name: "replace statement and select new token",
			actions: func(ctx *refactor.Context) ([]refactor.EditAction, error) {
				ins := snippet(t, "c d").(*syntax.Node)
				ctx.Select(ins.LastToken())
				return []refactor.EditAction{refactor.Replace(stmt(t, ctx.Tree(), "b"), ins)}, nil
			},
			want:      "f {\n  a\n  c d\n}\n",
			selection: &refactor.Selection{Offset: 12, Length: 1},
		},
		{
			name: "remove statement",
			actions: func(ctx *refactor.Context) ([]refactor.EditAction, error) {
				return []refactor.EditAction{refactor.Remove(stmt(t, ctx.Tree(), "a"))}, nil
			},
			want: "f {\n  b\n}\n",
		},
		{
			name: "insert before",
			actions: func(ctx *refactor.Context) ([]refactor.EditAction, error) {
				ins := snippet(t, "x")
				ctx.Select(ins)
				return []refactor.EditAction{refactor.InsertBefore(stmt(t, ctx.Tree(), "a"), ins)}, nil
			},
			want:      "f {\n  x\n  a\n  b\n}\n",
			selection: &refactor.Selection{Offset: 6, Length: 1},
		},
		{
			name: "duplicate a block after itself",
			actions: func(ctx *refactor.Context) ([]refactor.EditAction, error) {
				block := ctx.Tree().Root().Child(0)
				return []refactor.EditAction{refactor.InsertAfter(block, ctx.Relative(block))}, nil
			},
			want: "f {\n  a\n  b\n}\nf {\n  a\n  b\n}\n",
		},
		{
			name: "batch of removal and insertion",
			actions: func(ctx *refactor.Context) ([]refactor.EditAction, error) {
				ins := snippet(t, "x")
				ctx.Select(ins)
				return []refactor.EditAction{
					refactor.Remove(stmt(t, ctx.Tree(), "a")),
					refactor.InsertAfter(stmt(t, ctx.Tree(), "b"), ins),
				}, nil
			},
			want:      "f {\n  b\n  x\n}\n",
			selection: &refactor.Selection{Offset: 10, Length: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			buf := document.NewBuffer("mem://blocks", blockSrc)
			host := document.NewCaret(0)

			var events []document.EditEvent
			buf.Subscribe(func(ev document.EditEvent) { events = append(events, ev) })

			out, err := refactor.NewEngine().Apply(ctx, buf, snapshot(t, buf), newProvider("p", tt.actions), refactor.Request{}, host)
			require.NoError(t, err)
			require.False(t, out.Declined)

			assert.Equal(t, tt.want, buf.Content())
			assert.Equal(t, buf.Content(), out.Tree.Text())
			assert.Equal(t, int64(2), out.Version)
			assert.Equal(t, "p", out.Provider)
			require.Len(t, events, 1, "one commit per transaction")
			assert.Equal(t, out.Edits, events[0].Edits)

			assert.Equal(t, tt.selection, out.Selection)
			offset, length, moved := host.Selection()
			assert.Equal(t, tt.selection != nil, moved)
			if tt.selection != nil {
				assert.Equal(t, tt.selection.Offset, offset)
				assert.Equal(t, tt.selection.Length, length)
			}
		})
	}
}

func TestEngine_BatchOrderIndependent(t *testing.T) {
	t.Parallel()

	const src = "a\nb\nc\nd\ne\n"

	batch := func(tree *syntax.Tree) []refactor.EditAction {
		return []refactor.EditAction{
			refactor.Remove(stmt(t, tree, "a")),
			refactor.Replace(stmt(t, tree, "c"), snippet(t, "X")),
			refactor.InsertAfter(stmt(t, tree, "e"), snippet(t, "Y")),
		}
	}

	apply := func(t *testing.T, reverse bool) (string, int) {
		t.Helper()

		buf := document.NewBuffer("mem://batch", src)
		var events int
		buf.Subscribe(func(document.EditEvent) { events++ })

		provider := newProvider("batch", func(ctx *refactor.Context) ([]refactor.EditAction, error) {
			actions := batch(ctx.Tree())
			if reverse {
				slices.Reverse(actions)
			}
			return actions, nil
		})

		out, err := refactor.NewEngine().Apply(context.Background(), buf, snapshot(t, buf), provider, refactor.Request{}, nil)
		require.NoError(t, err)
		require.False(t, out.Declined)
		assert.Equal(t, buf.Content(), out.Tree.Text())
		return buf.Content(), events
	}

	forward, forwardEvents := apply(t, false)
	reversed, reversedEvents := apply(t, true)

	assert.Equal(t, "b\nX\nd\ne\nY\n", forward)
	assert.Equal(t, forward, reversed)
	assert.Equal(t, 1, forwardEvents)
	assert.Equal(t, 1, reversedEvents)
}

func TestEngine_Declines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		provider func() refactor.Provider
	}{
		{
			name: "accept is false",
			provider: func() refactor.Provider {
				p := newProvider("no", func(*refactor.Context) ([]refactor.EditAction, error) {
					panic("refactor must not run")
				})
				p.accept = func(*refactor.Context) bool { return false }
				return p
			},
		},
		{
			name: "no actions",
			provider: func() refactor.Provider {
				return newProvider("empty", func(*refactor.Context) ([]refactor.EditAction, error) { return nil, nil })
			},
		},
		{
			name: "other language",
			provider: func() refactor.Provider {
				p := newProvider("md", func(*refactor.Context) ([]refactor.EditAction, error) {
					panic("refactor must not run")
				})
				p.BaseProvider = refactor.NewBaseProvider("md", "md", "", 0, "markdown")
				return p
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			buf := document.NewBuffer("mem://blocks", blockSrc)
			host := document.NewCaret(3)

			out, err := refactor.NewEngine().Apply(context.Background(), buf, snapshot(t, buf), tt.provider(), refactor.Request{}, host)
			require.NoError(t, err)
			assert.True(t, out.Declined)
			assert.Equal(t, int64(1), buf.Version())
			assert.Equal(t, blockSrc, buf.Content())

			_, _, moved := host.Selection()
			assert.False(t, moved)
		})
	}
}

func TestEngine_FailuresCommitNothing(t *testing.T) {
	t.Parallel()

	failing := formatterFunc(func(context.Context, *syntax.Tree, format.Hints) (*syntax.Tree, error) {
		return nil, errors.New("boom")
	})

	tests := []struct {
		name    string
		opts    []refactor.EngineOption
		actions func(ctx *refactor.Context) ([]refactor.EditAction, error)
		want    error
	}{
		{
			name: "provider error",
			actions: func(*refactor.Context) ([]refactor.EditAction, error) {
				return nil, errors.New("cannot")
			},
			want: refactor.ErrProvider,
		},
		{
			name: "invalid action",
			actions: func(ctx *refactor.Context) ([]refactor.EditAction, error) {
				return []refactor.EditAction{refactor.InsertAfter(stmt(t, ctx.Tree(), "a"))}, nil
			},
			want: refactor.ErrInvalidAction,
		},
		{
			name: "overlapping actions",
			actions: func(ctx *refactor.Context) ([]refactor.EditAction, error) {
				a := stmt(t, ctx.Tree(), "a")
				return []refactor.EditAction{refactor.Remove(a), refactor.Replace(a, snippet(t, "x"))}, nil
			},
			want: refactor.ErrInconsistentReference,
		},
		{
			name: "formatter error",
			opts: []refactor.EngineOption{refactor.WithFormatter(failing)},
			actions: func(ctx *refactor.Context) ([]refactor.EditAction, error) {
				return []refactor.EditAction{refactor.Replace(stmt(t, ctx.Tree(), "a"), snippet(t, "x"))}, nil
			},
			want: refactor.ErrFormat,
		},
		{
			name: "document changed after the snapshot",
			actions: func(ctx *refactor.Context) ([]refactor.EditAction, error) {
				return []refactor.EditAction{refactor.Remove(stmt(t, ctx.Tree(), "a"))}, nil
			},
			want: refactor.ErrStaleSnapshot,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			buf := document.NewBuffer("mem://blocks", blockSrc)
			snap := snapshot(t, buf)
			content := blockSrc
			if errors.Is(tt.want, refactor.ErrStaleSnapshot) {
				content = "edited\n"
				buf.Replace(content)
			}
			version := buf.Version()

			out, err := refactor.NewEngine(tt.opts...).Apply(context.Background(), buf, snap, newProvider("p", tt.actions), refactor.Request{}, nil)
			require.ErrorIs(t, err, tt.want)
			assert.Nil(t, out)
			assert.Equal(t, version, buf.Version())
			assert.Equal(t, content, buf.Content())
		})
	}
}

func TestEngine_SerializesPerDocument(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	engine := refactor.NewEngine()
	buf := document.NewBuffer("mem://one", blockSrc)
	other := document.NewBuffer("mem://two", blockSrc)

	entered := make(chan struct{})
	release := make(chan struct{})
	slow := newProvider("slow", func(pctx *refactor.Context) ([]refactor.EditAction, error) {
		close(entered)
		<-release
		return []refactor.EditAction{refactor.Remove(pctx.Tree().Root().Child(0).(*syntax.Node).Child(1))}, nil
	})
	quick := newProvider("quick", func(pctx *refactor.Context) ([]refactor.EditAction, error) {
		return []refactor.EditAction{refactor.Remove(pctx.Tree().Root().Child(0).(*syntax.Node).Child(2))}, nil
	})

	done := make(chan error, 1)
	go func() {
		_, err := engine.Apply(ctx, buf, snapshot(t, buf), slow, refactor.Request{}, nil)
		done <- err
	}()
	<-entered

	waitCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	_, err := engine.Apply(waitCtx, buf, snapshot(t, buf), quick, refactor.Request{}, nil)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	out, err := engine.Apply(ctx, other, snapshot(t, other), quick, refactor.Request{}, nil)
	require.NoError(t, err, "other documents are not blocked")
	assert.False(t, out.Declined)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, "f {\n  b\n}\n", buf.Content())
}

func TestEngine_ConcurrentTransactionsOnOneSnapshot(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	engine := refactor.NewEngine()
	buf := document.NewBuffer("mem://blocks", blockSrc)
	snap := snapshot(t, buf)

	remove := newProvider("remove", func(pctx *refactor.Context) ([]refactor.EditAction, error) {
		return []refactor.EditAction{refactor.Remove(pctx.Tree().Root().Child(0).(*syntax.Node).Child(1))}, nil
	})

	const n = 8
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Go(func() {
			_, errs[i] = engine.Apply(ctx, buf, snap, remove, refactor.Request{}, nil)
		})
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		require.ErrorIs(t, err, refactor.ErrStaleSnapshot)
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, int64(2), buf.Version())
	assert.Equal(t, "f {\n  b\n}\n", buf.Content())
}

func TestEngine_CancelledBeforeStart(t *testing.T) {
	t.Parallel()

	buf := document.NewBuffer("mem://blocks", blockSrc)
	snap := snapshot(t, buf)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := refactor.NewEngine().Apply(ctx, buf, snap, newProvider("p", nil), refactor.Request{}, nil)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, blockSrc, buf.Content())
}

func TestEngine_OfferAndApplyFirst(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	buf := document.NewBuffer("mem://blocks", blockSrc)
	snap := snapshot(t, buf)

	refuse := newProvider("refuse", nil)
	refuse.accept = func(*refactor.Context) bool { return false }
	markdown := newProvider("markdown", nil)
	markdown.BaseProvider = refactor.NewBaseProvider("markdown", "Markdown", "", 0, "markdown")
	caretOnA := newProvider("remove-at-caret", func(pctx *refactor.Context) ([]refactor.EditAction, error) {
		return []refactor.EditAction{refactor.Remove(pctx.Enclosing("stmt"))}, nil
	})
	caretOnA.accept = func(pctx *refactor.Context) bool { return pctx.Enclosing("stmt") != nil }

	providers := []refactor.Provider{refuse, markdown, caretOnA}
	req := refactor.Request{Caret: 6}
	engine := refactor.NewEngine(refactor.WithJobs(2))

	offered, err := engine.Offer(ctx, snap, req, providers)
	require.NoError(t, err)
	require.Len(t, offered, 1)
	assert.Equal(t, "remove-at-caret", offered[0].ID())

	out, err := engine.ApplyFirst(ctx, buf, snap, providers, req, nil)
	require.NoError(t, err)
	assert.Equal(t, "remove-at-caret", out.Provider)
	assert.Equal(t, "f {\n  b\n}\n", buf.Content())

	out, err = engine.ApplyFirst(ctx, buf, snapshot(t, buf), []refactor.Provider{refuse}, req, nil)
	require.NoError(t, err)
	assert.True(t, out.Declined)
}

func TestTakeSnapshot(t *testing.T) {
	t.Parallel()

	buf := document.NewBuffer("mem://blocks", blockSrc)
	buf.Replace("x\n")

	snap, err := refactor.TakeSnapshot(context.Background(), buf, blockParser{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), snap.Version)
	assert.Equal(t, "blocks", snap.Language)
	assert.Equal(t, "x\n", snap.Tree.Text())
	assert.Equal(t, refactor.IndentLine, snap.Indent)
}

type formatterFunc func(context.Context, *syntax.Tree, format.Hints) (*syntax.Tree, error)

func (f formatterFunc) Format(ctx context.Context, tree *syntax.Tree, hints format.Hints) (*syntax.Tree, error) {
	return f(ctx, tree, hints)
}
