// Package golang provides refactorings for Go, and the language-neutral
// statement refactorings for Python and JavaScript.
package golang

import "github.com/yaklabco/refit/pkg/refactor"

// RegisterAll registers the package's providers with catalog.
func RegisterAll(catalog *refactor.Catalog) {
	catalog.MustRegister(NewDeleteStatementProvider())
	catalog.MustRegister(NewWrapInIfProvider())
	catalog.MustRegister(NewSwapOperandsProvider())
	catalog.MustRegister(NewDuplicateFunctionProvider())
}

// init registers the providers with the default catalog.
//
//nolint:gochecknoinits // Init is intentional for automatic provider registration
func init() {
	RegisterAll(refactor.DefaultCatalog)
}
