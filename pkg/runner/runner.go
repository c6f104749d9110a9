package runner

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"runtime"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/refit/pkg/config"
	"github.com/yaklabco/refit/pkg/document"
	"github.com/yaklabco/refit/pkg/refactor"
	"github.com/yaklabco/refit/pkg/syntax"
)

// ErrProviderDisabled is returned for targets naming a provider that the
// configuration switched off.
var ErrProviderDisabled = errors.New("provider disabled")

// Runner applies targets to files. Files are processed concurrently; the
// targets of one file run bottom-up, each on a fresh snapshot, so an edit
// never moves the position of a target still waiting.
type Runner struct {
	Engine  *refactor.Engine
	Parser  refactor.Parser
	Catalog *refactor.Catalog
}

// New creates a Runner.
func New(engine *refactor.Engine, parser refactor.Parser, catalog *refactor.Catalog) *Runner {
	return &Runner{Engine: engine, Parser: parser, Catalog: catalog}
}

// Run applies targets and returns one FileOutcome per distinct path, in
// order of first appearance. Target failures are reported in the result;
// the returned error is set only when the run was cancelled.
func (r *Runner) Run(ctx context.Context, targets []Target, opts Options) (*Result, error) {
	started := time.Now()
	cfg := opts.config()

	var paths []string
	byPath := make(map[string][]Target)
	for _, t := range targets {
		if _, ok := byPath[t.Path]; !ok {
			paths = append(paths, t.Path)
		}
		byPath[t.Path] = append(byPath[t.Path], t)
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	outcomes := make([]FileOutcome, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = r.processFile(gctx, path, byPath[path], cfg)
			return nil
		})
	}
	waitErr := g.Wait()

	result := &Result{Files: make([]FileOutcome, 0, len(paths))}
	for i, outcome := range outcomes {
		if outcome.Path == "" {
			outcome = FileOutcome{Path: paths[i], Error: context.Canceled}
		}
		result.accumulate(outcome)
	}
	result.Duration = time.Since(started)

	if waitErr != nil {
		return result, fmt.Errorf("run cancelled: %w", waitErr)
	}
	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("run cancelled: %w", err)
	}
	return result, nil
}

// processFile opens path and applies its targets from the last position to
// the first. Targets at one position keep request order. Outcomes are
// reported in request order.
func (r *Runner) processFile(ctx context.Context, path string, targets []Target, cfg *config.Config) FileOutcome {
	outcome := FileOutcome{Path: path}

	file, err := document.OpenFile(ctx, path, document.FileOptions{
		DryRun: cfg.DryRun,
		Backup: cfg.BackupConfig(),
	})
	if err != nil {
		outcome.Error = err
		for _, t := range targets {
			outcome.Targets = append(outcome.Targets, TargetOutcome{Target: t, Error: err})
		}
		return outcome
	}

	order := make([]int, len(targets))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return targets[b].At.Compare(targets[a].At)
	})

	outcome.Targets = make([]TargetOutcome, len(targets))
	for _, i := range order {
		outcome.Targets[i] = r.apply(ctx, file, targets[i], cfg)
	}

	if file.Changed() {
		outcome.Diff = file.Diff()
		outcome.Written = !cfg.DryRun
	}
	return outcome
}

// apply runs one target against the current version of file.
func (r *Runner) apply(ctx context.Context, file *document.File, t Target, cfg *config.Config) TargetOutcome {
	out := TargetOutcome{Target: t}

	snap, err := refactor.TakeSnapshot(ctx, file, r.Parser)
	if err != nil {
		out.Error = fmt.Errorf("%s: %w", t.Path, err)
		return out
	}
	text := snap.Tree.Text()

	req, err := request(text, t)
	if err != nil {
		out.Error = fmt.Errorf("%s: %w", t.Path, err)
		return out
	}

	provider, err := r.choose(ctx, snap, req, t, cfg)
	if err != nil {
		out.Error = fmt.Errorf("%s: %w", t.Path, err)
		return out
	}
	if provider == nil {
		out.Outcome = &refactor.Outcome{Declined: true}
		return out
	}

	req.Options = providerOptions(cfg, provider.ID(), t.Options)
	caret := document.NewCaret(req.Caret)

	outcome, err := r.Engine.Apply(ctx, file, snap, provider, req, caret)
	if err != nil {
		out.Error = fmt.Errorf("%s: %w", t.Path, err)
		return out
	}
	out.Outcome = outcome

	if offset, _, moved := caret.Selection(); moved {
		pos := document.PositionAt(file.Content(), offset)
		out.Caret = &pos
	}
	return out
}

// choose resolves the target's provider. Without an explicit id it returns
// the first enabled provider that accepts, or nil.
func (r *Runner) choose(
	ctx context.Context,
	snap *refactor.Snapshot,
	req refactor.Request,
	t Target,
	cfg *config.Config,
) (refactor.Provider, error) {
	if t.Provider != "" {
		p, ok := r.Catalog.Get(t.Provider)
		if !ok {
			return nil, fmt.Errorf("%w: %s", refactor.ErrUnknownProvider, t.Provider)
		}
		if !cfg.ProviderEnabled(p.ID()) {
			return nil, fmt.Errorf("%w: %s", ErrProviderDisabled, p.ID())
		}
		return p, nil
	}

	offered, err := r.Engine.Offer(ctx, snap, req, r.candidates(snap.Language, cfg))
	if err != nil {
		return nil, err
	}
	if len(offered) == 0 {
		return nil, nil
	}
	return offered[0], nil
}

// candidates returns the enabled providers of lang in catalog order.
func (r *Runner) candidates(lang string, cfg *config.Config) []refactor.Provider {
	var out []refactor.Provider
	for _, p := range r.Catalog.ForLanguage(lang) {
		if cfg.ProviderEnabled(p.ID()) {
			out = append(out, p)
		}
	}
	return out
}

// Offer lists the enabled providers that accept the target, in catalog
// order. The file is read but never written.
func (r *Runner) Offer(ctx context.Context, t Target, opts Options) ([]refactor.Provider, error) {
	cfg := opts.config()

	file, err := document.OpenFile(ctx, t.Path, document.FileOptions{DryRun: true})
	if err != nil {
		return nil, err
	}
	snap, err := refactor.TakeSnapshot(ctx, file, r.Parser)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", t.Path, err)
	}
	req, err := request(snap.Tree.Text(), t)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", t.Path, err)
	}
	return r.Engine.Offer(ctx, snap, req, r.candidates(snap.Language, cfg))
}

// request converts the target's positions to offsets of text.
func request(text string, t Target) (refactor.Request, error) {
	caret, err := document.OffsetAt(text, t.At)
	if err != nil {
		return refactor.Request{}, err
	}
	req := refactor.Request{Caret: caret}

	if t.End != nil {
		end, err := document.OffsetAt(text, *t.End)
		if err != nil {
			return refactor.Request{}, err
		}
		req.Selection = syntax.Span{Start: min(caret, end), End: max(caret, end)}
	}
	return req, nil
}

// providerOptions layers target options over configured ones.
func providerOptions(cfg *config.Config, id string, override map[string]any) map[string]any {
	configured := cfg.ProviderOptions(id)
	if len(override) == 0 {
		return configured
	}
	opts := make(map[string]any, len(configured)+len(override))
	maps.Copy(opts, configured)
	maps.Copy(opts, override)
	return opts
}
