// Package config defines the configuration types for refit.
// These types are plain data; discovery and layering live in internal/configloader.
package config

import (
	"github.com/yaklabco/refit/pkg/format"
	"github.com/yaklabco/refit/pkg/fsutil"
)

// Flavor specifies the Markdown flavor to use for parsing.
type Flavor string

const (
	FlavorCommonMark Flavor = "commonmark"
	FlavorGFM        Flavor = "gfm"
)

// IsValid reports whether f is a known flavor.
func (f Flavor) IsValid() bool {
	return f == FlavorCommonMark || f == FlavorGFM
}

// OutputFormat specifies how outcomes are printed.
type OutputFormat string

const (
	FormatText  OutputFormat = "text"
	FormatTable OutputFormat = "table"
	FormatJSON  OutputFormat = "json"
	FormatDiff  OutputFormat = "diff"
)

// IsValid reports whether f is a known output format.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatTable, FormatJSON, FormatDiff:
		return true
	default:
		return false
	}
}

// ProviderConfig holds per-provider settings.
type ProviderConfig struct {
	Enabled  *bool          `yaml:"enabled" toml:"enabled"`
	Priority *int           `yaml:"priority" toml:"priority"`
	Options  map[string]any `yaml:"options" toml:"options"`
}

// FormatConfig controls how inserted material is normalized.
type FormatConfig struct {
	TabWidth               int  `yaml:"tab_width" toml:"tab_width"`
	ExpandTabs             bool `yaml:"expand_tabs" toml:"expand_tabs"`
	TrimTrailingWhitespace bool `yaml:"trim_trailing_whitespace" toml:"trim_trailing_whitespace"`
}

// BackupsConfig controls backup behavior when writing files.
type BackupsConfig struct {
	Enabled bool   `yaml:"enabled" toml:"enabled"`
	Mode    string `yaml:"mode" toml:"mode"` // "sidecar" or "none"
}

// Config is the root configuration structure for refit.
type Config struct {
	// Flavor specifies the Markdown flavor ("commonmark" or "gfm").
	Flavor Flavor `yaml:"flavor" toml:"flavor"`

	// Providers contains per-provider configuration keyed by provider ID.
	Providers map[string]ProviderConfig `yaml:"providers" toml:"providers"`

	// Format configures the formatter.
	Format FormatConfig `yaml:"format" toml:"format"`

	// Backups configures backups of rewritten files.
	Backups BackupsConfig `yaml:"backups" toml:"backups"`

	// Jobs is the number of parallel workers; 0 means GOMAXPROCS.
	Jobs int `yaml:"jobs" toml:"jobs"`

	// CLI-level options (not persisted to config files).

	// DryRun computes changes without writing them.
	DryRun bool `yaml:"-" toml:"-"`

	// Output specifies the output format.
	Output OutputFormat `yaml:"-" toml:"-"`

	// NoBackups disables backup creation.
	NoBackups bool `yaml:"-" toml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Flavor:    FlavorGFM,
		Providers: make(map[string]ProviderConfig),
		Format: FormatConfig{
			TabWidth: format.DefaultTabWidth,
		},
		Backups: BackupsConfig{
			Enabled: false,
			Mode:    string(fsutil.BackupModeSidecar),
		},
		Output: FormatText,
		Jobs:   0,
	}
}

// ProviderEnabled reports whether the provider is enabled. Providers
// without configuration are enabled.
func (c *Config) ProviderEnabled(id string) bool {
	pc, ok := c.Providers[id]
	if !ok || pc.Enabled == nil {
		return true
	}
	return *pc.Enabled
}

// ProviderOptions returns the configured options of a provider, or nil.
func (c *Config) ProviderOptions(id string) map[string]any {
	return c.Providers[id].Options
}

// FormatOptions converts the format section to formatter options.
func (c *Config) FormatOptions() format.Options {
	opts := format.Options{
		TabWidth:               c.Format.TabWidth,
		ExpandTabs:             c.Format.ExpandTabs,
		TrimTrailingWhitespace: c.Format.TrimTrailingWhitespace,
	}
	if opts.TabWidth <= 0 {
		opts.TabWidth = format.DefaultTabWidth
	}
	return opts
}

// BackupConfig converts the backups section, honoring NoBackups.
func (c *Config) BackupConfig() fsutil.BackupConfig {
	mode := fsutil.BackupMode(c.Backups.Mode)
	if mode == "" {
		mode = fsutil.BackupModeSidecar
	}
	return fsutil.BackupConfig{
		Enabled: c.Backups.Enabled && !c.NoBackups && !c.DryRun,
		Mode:    mode,
	}
}
