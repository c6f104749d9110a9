// Package analysis aggregates refactoring runs by provider and by file.
package analysis

import (
	"cmp"
	"path/filepath"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/yaklabco/refit/pkg/runner"
)

// makeRelativePath converts an absolute path to a relative path from workDir.
// If workDir is empty or conversion fails, returns the original path.
func makeRelativePath(absPath, workDir string) string {
	if workDir == "" {
		return absPath
	}
	relPath, err := filepath.Rel(workDir, absPath)
	if err != nil || strings.HasPrefix(relPath, "..") {
		return absPath
	}
	return relPath
}

// analysisContext holds temporary state during analysis.
type analysisContext struct {
	providers     map[string]*ProviderAnalysis
	providerFiles map[string]map[string]bool
	fileProviders map[string]map[string]bool
}

func newAnalysisContext() *analysisContext {
	return &analysisContext{
		providers:     make(map[string]*ProviderAnalysis),
		providerFiles: make(map[string]map[string]bool),
		fileProviders: make(map[string]map[string]bool),
	}
}

// provider returns the analysis entry of id, creating it on first use.
func (ctx *analysisContext) provider(id string) *ProviderAnalysis {
	pa, ok := ctx.providers[id]
	if !ok {
		pa = &ProviderAnalysis{Provider: id}
		ctx.providers[id] = pa
		ctx.providerFiles[id] = make(map[string]bool)
	}
	return pa
}

// count adds one target outcome to c.
func count(c *Counts, t runner.TargetOutcome) {
	c.Targets++
	switch {
	case t.Error != nil:
		c.Failed++
	case t.Applied():
		c.Applied++
		c.Edits += len(t.Outcome.Edits)
	default:
		c.Declined++
	}
}

// providerOf names the provider a target ran with, or "".
func providerOf(t runner.TargetOutcome) string {
	if t.Outcome != nil && t.Outcome.Provider != "" {
		return t.Outcome.Provider
	}
	return t.Target.Provider
}

// Analyze transforms a runner.Result into a Report in a single pass over
// the targets. Targets no provider handled count toward file totals only.
func Analyze(result *runner.Result, opts Options) *Report {
	report := &Report{}
	if result == nil {
		return report
	}

	ctx := newAnalysisContext()
	files := make([]FileAnalysis, 0, len(result.Files))

	for _, file := range result.Files {
		path := makeRelativePath(file.Path, opts.WorkingDir)
		fa := FileAnalysis{Path: path, Modified: file.Diff != nil}
		ctx.fileProviders[path] = make(map[string]bool)

		report.Totals.Files++
		if fa.Modified {
			report.Totals.FilesModified++
		}

		for _, t := range file.Targets {
			count(&report.Totals.Counts, t)
			count(&fa.Counts, t)

			id := providerOf(t)
			if id == "" {
				continue
			}
			count(&ctx.provider(id).Counts, t)
			ctx.providerFiles[id][path] = true
			ctx.fileProviders[path][id] = true
		}
		files = append(files, fa)
	}
	report.Totals.Providers = len(ctx.providers)

	if opts.IncludeByProvider {
		report.ByProvider = ctx.buildByProvider(opts)
	}
	if opts.IncludeByFile {
		for i := range files {
			files[i].Providers = sortedKeys(ctx.fileProviders[files[i].Path])
		}
		sortCounts(files, opts, func(f FileAnalysis) (string, Counts) { return f.Path, f.Counts })
		report.ByFile = files
	}

	return report
}

// buildByProvider constructs the ByProvider slice from accumulated data.
func (ctx *analysisContext) buildByProvider(opts Options) []ProviderAnalysis {
	out := make([]ProviderAnalysis, 0, len(ctx.providers))
	for id, pa := range ctx.providers {
		pa.Files = sortedKeys(ctx.providerFiles[id])
		out = append(out, *pa)
	}
	sortCounts(out, opts, func(p ProviderAnalysis) (string, Counts) { return p.Provider, p.Counts })
	return out
}

func sortedKeys(set map[string]bool) []string {
	keys := lo.Keys(set)
	slices.Sort(keys)
	return keys
}

// sortCounts orders entries by opts.SortBy. Ties are broken by name.
func sortCounts[T any](entries []T, opts Options, key func(T) (string, Counts)) {
	slices.SortFunc(entries, func(left, right T) int {
		leftName, lc := key(left)
		rightName, rc := key(right)

		var result int
		switch opts.SortBy {
		case SortByAlpha:
			// Alphabetical sorting is always ascending (A-Z)
		case SortByFailures:
			result = cmp.Compare(rc.Failed, lc.Failed)
		default: // SortByCount
			result = cmp.Compare(lc.Targets, rc.Targets)
			if opts.SortDesc {
				result = -result
			}
		}
		return cmp.Or(result, cmp.Compare(leftName, rightName))
	})
}
