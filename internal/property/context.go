package property

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

// Context is the aggregate root: the dimension catalog, the condition list and
// the full property set. Dependency edges are wired exactly once during
// construction, before the context is returned to the caller.
type Context struct {
	catalog    *Catalog
	conditions []Condition
	properties []*Property
	byIdentity map[Identity]*Property

	// Conditions skipped in loose mode
	skipped []Condition

	loose      bool
	logger     *slog.Logger
	commands   []ConfigurationCommand
	searchText string
}

// ContextOption configures a Context.
type ContextOption func(*Context)

// WithLooseConditions skips conditions whose source or target is not in the
// property set instead of failing. Launch profile editing uses this mode.
func WithLooseConditions() ContextOption {
	return func(c *Context) {
		c.loose = true
	}
}

// WithLogger sets the logger used for build and command diagnostics.
func WithLogger(logger *slog.Logger) ContextOption {
	return func(c *Context) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewContext builds a context. Construction binds the catalog, resolves every
// condition, rejects cyclic condition graphs, wires each condition into a
// dependency edge (computing initial visibility), initializes every property
// and derives the configuration commands.
//
// Properties must not belong to another context. On error no property has
// been wired or initialized.
func NewContext(catalog *Catalog, conditions []Condition, properties []*Property, opts ...ContextOption) (*Context, error) {
	c := &Context{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	// Bind the dimension catalog
	if catalog == nil {
		catalog = &Catalog{}
	}
	c.catalog = catalog
	c.conditions = make([]Condition, len(conditions))
	copy(c.conditions, conditions)

	// Index properties
	c.properties = make([]*Property, 0, len(properties))
	c.byIdentity = make(map[Identity]*Property, len(properties))
	for i, p := range properties {
		if p == nil {
			return nil, fmt.Errorf("%w: nil property at index %d", ErrInvalidMetadata, i)
		}
		id := p.Identity()
		if _, exists := c.byIdentity[id]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateIdentity, id)
		}
		if p.IsInitialized() {
			return nil, fmt.Errorf("%s: %w", id, ErrAlreadyInitialized)
		}
		if err := validateAgainstCatalog(catalog, p.values); err != nil {
			return nil, fmt.Errorf("%s: %w", id, err)
		}
		c.byIdentity[id] = p
		c.properties = append(c.properties, p)
	}

	// Resolve conditions
	edges := make([]edge, 0, len(c.conditions))
	for _, cond := range c.conditions {
		source, sourceOK := c.byIdentity[cond.Source]
		target, targetOK := c.byIdentity[cond.Target]
		if sourceOK && targetOK {
			edges = append(edges, edge{cond: cond, source: source, target: target})
			continue
		}
		missing := cond.Source
		if sourceOK {
			missing = cond.Target
		}
		if c.loose {
			c.logger.Debug("skipping unresolved condition",
				slog.String("condition", cond.String()),
				slog.String("missing", missing.String()))
			c.skipped = append(c.skipped, cond)
			continue
		}
		return nil, &ConditionError{Condition: cond, Missing: missing, Err: ErrUnresolvedCondition}
	}

	if cycle := findCycle(edges); cycle != nil {
		return nil, &CycleError{Path: cycle}
	}

	// Wire dependency edges
	for _, e := range edges {
		e.source.AddDependentTarget(e.target, e.cond.Value)
	}

	for _, p := range c.properties {
		if err := p.Initialize(c); err != nil {
			return nil, err
		}
	}

	if catalog.HasConfigurableDimensions() {
		c.commands = newConfigurationCommands(c)
	}

	c.logger.Debug("property context built",
		slog.Int("properties", len(c.properties)),
		slog.Int("conditions", len(edges)),
		slog.Int("skipped", len(c.skipped)),
		slog.Int("commands", len(c.commands)),
		slog.Bool("loose", c.loose))

	return c, nil
}

// Catalog returns the dimension catalog.
func (c *Context) Catalog() *Catalog {
	return c.catalog
}

// Conditions returns the conditions supplied at construction.
func (c *Context) Conditions() []Condition {
	out := make([]Condition, len(c.conditions))
	copy(out, c.conditions)
	return out
}

// SkippedConditions returns the conditions ignored in loose mode.
func (c *Context) SkippedConditions() []Condition {
	out := make([]Condition, len(c.skipped))
	copy(out, c.skipped)
	return out
}

// IsLoose reports whether unresolved conditions are tolerated.
func (c *Context) IsLoose() bool {
	return c.loose
}

// Logger returns the context's logger.
func (c *Context) Logger() *slog.Logger {
	return c.logger
}

// Properties returns all properties in construction order.
func (c *Context) Properties() []*Property {
	out := make([]*Property, len(c.properties))
	copy(out, c.properties)
	return out
}

// Len returns the number of properties.
func (c *Context) Len() int {
	return len(c.properties)
}

// Property returns the property with the given identity.
func (c *Context) Property(id Identity) (*Property, bool) {
	p, ok := c.byIdentity[id]
	return p, ok
}

// FindByName returns properties whose name matches (case-insensitive).
func (c *Context) FindByName(name string) []*Property {
	var result []*Property
	for _, p := range c.properties {
		if strings.EqualFold(p.meta.Name, name) {
			result = append(result, p)
		}
	}
	return result
}

// Lookup resolves a reference: either "Page | Category | Name" or a bare
// name that matches exactly one property.
func (c *Context) Lookup(ref string) (*Property, error) {
	if strings.Contains(ref, "|") {
		id, err := ParseIdentity(ref)
		if err != nil {
			return nil, err
		}
		p, ok := c.byIdentity[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrPropertyNotFound, id)
		}
		return p, nil
	}

	matches := c.FindByName(strings.TrimSpace(ref))
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %q", ErrPropertyNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%w: %q matches %d properties", ErrAmbiguousName, ref, len(matches))
	}
}

// HasConfigurableDimensions reports whether any dimension has more than one value.
func (c *Context) HasConfigurableDimensions() bool {
	return c.catalog.HasConfigurableDimensions()
}

// ConfigurationCommands returns one command per configurable dimension
// followed by the single-value command. It is empty when no dimension has
// more than one allowed value.
func (c *Context) ConfigurationCommands() []ConfigurationCommand {
	out := make([]ConfigurationCommand, len(c.commands))
	copy(out, c.commands)
	return out
}

// UpdateSearchState applies searchText to every property and returns the
// number of visible properties.
func (c *Context) UpdateSearchState(searchText string) int {
	c.searchText = searchText
	visible := 0
	for _, p := range c.properties {
		p.UpdateSearchState(searchText)
		if p.IsVisible() {
			visible++
		}
	}
	return visible
}

// SearchText returns the text last passed to UpdateSearchState.
func (c *Context) SearchText() string {
	return c.searchText
}

// VisibleProperties returns the visible properties in construction order.
func (c *Context) VisibleProperties() []*Property {
	var result []*Property
	for _, p := range c.properties {
		if p.IsVisible() {
			result = append(result, p)
		}
	}
	return result
}

// Section groups a page's properties by category.
type Section struct {
	Page       string
	Categories []CategorySection
}

// CategorySection lists a category's properties by priority.
type CategorySection struct {
	Category   string
	Properties []*Property
}

// Sections groups properties by page and category. Properties are ordered by
// priority then name; pages and categories appear in the order of their
// first property. With visibleOnly, hidden properties are left out.
func (c *Context) Sections(visibleOnly bool) []Section {
	props := make([]*Property, 0, len(c.properties))
	for _, p := range c.properties {
		if !visibleOnly || p.IsVisible() {
			props = append(props, p)
		}
	}
	sort.SliceStable(props, func(i, j int) bool {
		a, b := props[i].meta, props[j].meta
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		return a.Name < b.Name
	})

	var sections []Section
	pageIndex := make(map[string]int)
	for _, p := range props {
		pi, ok := pageIndex[p.meta.Page]
		if !ok {
			pi = len(sections)
			pageIndex[p.meta.Page] = pi
			sections = append(sections, Section{Page: p.meta.Page})
		}
		s := &sections[pi]
		ci := -1
		for i, cat := range s.Categories {
			if cat.Category == p.meta.Category {
				ci = i
				break
			}
		}
		if ci < 0 {
			ci = len(s.Categories)
			s.Categories = append(s.Categories, CategorySection{Category: p.meta.Category})
		}
		s.Categories[ci].Properties = append(s.Categories[ci].Properties, p)
	}
	return sections
}

// Clone returns a context sharing the catalog and conditions but holding
// deep copies of every property, independently wired and initialized.
func (c *Context) Clone() *Context {
	props := make([]*Property, len(c.properties))
	for i, p := range c.properties {
		props[i] = p.Clone()
	}

	opts := []ContextOption{WithLogger(c.logger)}
	if c.loose {
		opts = append(opts, WithLooseConditions())
	}

	clone, err := NewContext(c.catalog, c.conditions, props, opts...)
	if err != nil {
		// The source context already passed every check on the same input.
		panic(fmt.Sprintf("property: clone of a valid context failed: %v", err))
	}
	clone.searchText = c.searchText
	return clone
}
