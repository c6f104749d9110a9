package refactor

import "slices"

// Provider produces edit actions for one kind of refactoring.
type Provider interface {
	// ID returns the unique identifier (e.g., "wrap-in-if").
	ID() string

	// Title is the label shown by hosts.
	Title() string

	// IconID is an opaque icon name passed through to hosts.
	IconID() string

	// Languages lists the languages the provider handles.
	Languages() []string

	// Priority orders providers in a catalog; lower comes first.
	Priority() int

	// Accept reports whether the provider applies at the context's caret.
	// It must not modify anything.
	Accept(ctx *Context) bool

	// Refactor returns the actions of the transaction. An empty result
	// declines the refactoring.
	Refactor(ctx *Context) ([]EditAction, error)
}

// BaseProvider implements the metadata half of Provider.
// Embed it and implement Accept and Refactor.
type BaseProvider struct {
	id        string
	title     string
	icon      string
	priority  int
	languages []string
}

// NewBaseProvider creates a BaseProvider.
func NewBaseProvider(id, title, icon string, priority int, languages ...string) BaseProvider {
	return BaseProvider{
		id:        id,
		title:     title,
		icon:      icon,
		priority:  priority,
		languages: languages,
	}
}

// ID returns the provider id.
func (p *BaseProvider) ID() string { return p.id }

// Title returns the display label.
func (p *BaseProvider) Title() string { return p.title }

// IconID returns the icon identifier.
func (p *BaseProvider) IconID() string { return p.icon }

// Priority returns the catalog priority.
func (p *BaseProvider) Priority() int { return p.priority }

// Languages returns the supported languages.
func (p *BaseProvider) Languages() []string { return slices.Clone(p.languages) }

// Supports reports whether a provider handles lang.
func Supports(p Provider, lang string) bool {
	return slices.Contains(p.Languages(), lang)
}
