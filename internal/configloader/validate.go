package configloader

import (
	"fmt"
	"strings"

	"github.com/yaklabco/refit/pkg/config"
	"github.com/yaklabco/refit/pkg/fsutil"
	"github.com/yaklabco/refit/pkg/refactor"
)

// maxTabWidth bounds format.tab_width.
const maxTabWidth = 16

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "providers.wrap-in-if").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string

	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)

	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues (e.g., unknown providers).
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

// Validate checks a configuration for errors and warnings. Provider IDs
// are checked against refactor.DefaultCatalog.
func Validate(cfg *config.Config) *ValidationResult {
	return validateWith(cfg, refactor.DefaultCatalog)
}

func validateWith(cfg *config.Config, catalog *refactor.Catalog) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	fail := func(field string, value any, format string, args ...any) {
		result.Errors = append(result.Errors, ValidationError{
			Field:   field,
			Value:   value,
			Message: fmt.Sprintf(format, args...),
		})
	}

	if cfg.Flavor != "" && !cfg.Flavor.IsValid() {
		fail("flavor", cfg.Flavor, "invalid flavor %q; must be one of: commonmark, gfm", cfg.Flavor)
	}
	if cfg.Output != "" && !cfg.Output.IsValid() {
		fail("format", cfg.Output, "invalid format %q; must be one of: text, table, json, diff", cfg.Output)
	}
	if cfg.Jobs < 0 {
		fail("jobs", cfg.Jobs, "jobs must be >= 0 (0 means auto)")
	}
	if cfg.Format.TabWidth < 0 || cfg.Format.TabWidth > maxTabWidth {
		fail("format.tab_width", cfg.Format.TabWidth, "tab width must be between 1 and %d", maxTabWidth)
	}
	if mode := fsutil.BackupMode(cfg.Backups.Mode); mode != "" &&
		mode != fsutil.BackupModeSidecar && mode != fsutil.BackupModeNone {
		fail("backups.mode", cfg.Backups.Mode, "invalid backup mode %q; must be one of: sidecar, none", cfg.Backups.Mode)
	}

	for id := range cfg.Providers {
		if _, ok := catalog.Get(id); !ok {
			result.Warnings = append(result.Warnings, ValidationError{
				Field:   "providers." + id,
				Value:   id,
				Message: fmt.Sprintf("unknown provider %q; it will be ignored", id),
			})
		}
	}

	return result
}

// ValidateWithFile validates configuration and includes file path in errors.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)

	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}

	return result
}
