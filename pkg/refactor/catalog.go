package refactor

import (
	"cmp"
	"fmt"
	"slices"
	"sync"

	"github.com/samber/lo"
)

// Catalog is an ordered set of providers. Providers are listed by priority,
// then by registration order.
type Catalog struct {
	mu        sync.RWMutex
	byID      map[string]Provider
	order     []string
	overrides map[string]int
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		byID:      make(map[string]Provider),
		overrides: make(map[string]int),
	}
}

// Register adds a provider. A provider with the same id is replaced and
// keeps its registration slot.
func (c *Catalog) Register(p Provider) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.byID[p.ID()]; !ok {
		c.order = append(c.order, p.ID())
	}
	c.byID[p.ID()] = p
}

// MustRegister adds a provider and panics if the id is already taken.
// Provider packages call it from init.
func (c *Catalog) MustRegister(p Provider) {
	c.mu.Lock()
	_, taken := c.byID[p.ID()]
	c.mu.Unlock()
	if taken {
		panic(fmt.Sprintf("refactor: provider %q registered twice", p.ID()))
	}
	c.Register(p)
}

// SetPriority overrides the priority of a provider.
func (c *Catalog) SetPriority(id string, priority int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.overrides[id] = priority
}

// Priority returns the effective priority of a provider.
func (c *Catalog) Priority(id string) (int, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.byID[id]
	if !ok {
		return 0, false
	}
	if o, ok := c.overrides[id]; ok {
		return o, true
	}
	return p.Priority(), true
}

// Get retrieves a provider by id.
func (c *Catalog) Get(id string) (Provider, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.byID[id]
	return p, ok
}

// Providers returns every provider in catalog order.
func (c *Catalog) Providers() []Provider {
	c.mu.RLock()
	defer c.mu.RUnlock()

	type entry struct {
		p        Provider
		priority int
		slot     int
	}
	entries := make([]entry, 0, len(c.order))
	for slot, id := range c.order {
		p := c.byID[id]
		priority := p.Priority()
		if o, ok := c.overrides[id]; ok {
			priority = o
		}
		entries = append(entries, entry{p: p, priority: priority, slot: slot})
	}

	slices.SortFunc(entries, func(a, b entry) int {
		return cmp.Or(cmp.Compare(a.priority, b.priority), cmp.Compare(a.slot, b.slot))
	})

	out := make([]Provider, len(entries))
	for i, e := range entries {
		out[i] = e.p
	}
	return out
}

// ForLanguage returns the providers that handle lang, in catalog order.
func (c *Catalog) ForLanguage(lang string) []Provider {
	return slices.DeleteFunc(c.Providers(), func(p Provider) bool {
		return !Supports(p, lang)
	})
}

// IDs returns every provider id in catalog order.
func (c *Catalog) IDs() []string {
	return lo.Map(c.Providers(), func(p Provider, _ int) string {
		return p.ID()
	})
}

// DefaultCatalog is the global catalog for built-in providers.
// Providers register themselves during init().
//
//nolint:gochecknoglobals // Global catalog is populated by provider packages
var DefaultCatalog = NewCatalog()
