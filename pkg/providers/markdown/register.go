// Package markdown provides block-level refactorings for Markdown
// documents.
package markdown

import "github.com/yaklabco/refit/pkg/refactor"

// RegisterAll registers the package's providers with catalog.
func RegisterAll(catalog *refactor.Catalog) {
	catalog.MustRegister(NewRemoveBlockProvider())
	catalog.MustRegister(NewWrapInCodeFenceProvider())
	catalog.MustRegister(NewInsertHeadingBeforeProvider())
	catalog.MustRegister(NewSwapWithNextProvider())
	catalog.MustRegister(NewMergeParagraphsProvider())
}

// init registers the providers with the default catalog.
//
//nolint:gochecknoinits // Init is intentional for automatic provider registration
func init() {
	RegisterAll(refactor.DefaultCatalog)
}
