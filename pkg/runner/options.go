// Package runner applies refactorings to files concurrently.
package runner

import (
	"github.com/yaklabco/refit/pkg/config"
	"github.com/yaklabco/refit/pkg/document"
)

// Target is one refactoring request against a file.
type Target struct {
	// Path is the file to refactor.
	Path string

	// At is the caret position.
	At document.Position

	// End, when set, extends the request to a selection from At to End.
	End *document.Position

	// Provider is the provider id. Empty means the first provider that
	// accepts, in catalog order.
	Provider string

	// Options override the configured options of the provider.
	Options map[string]any
}

// Options controls a run.
type Options struct {
	// Jobs controls the maximum number of files processed concurrently.
	// 0 or negative means "auto" (runtime.NumCPU()).
	Jobs int

	// Config is the resolved configuration for this run. It supplies dry
	// run, backups, provider switches and provider options.
	Config *config.Config
}

func (o Options) config() *config.Config {
	if o.Config == nil {
		return config.NewConfig()
	}
	return o.Config
}
