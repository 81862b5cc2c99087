package property

import (
	"fmt"

	"github.com/dshills/propsheet/internal/notify"
)

// Property is a named, configurable property owning an ordered set of values.
//
// Visibility combines two independent signals: search visibility, driven by
// UpdateSearchState, and conditional visibility, driven by dependency edges
// registered with AddDependentTarget. IsVisible is their conjunction. Both
// signals start out visible.
type Property struct {
	meta      *Metadata
	values    []*PropertyValue
	valueSubs []*notify.Subscription

	searchVisible      bool
	conditionalVisible bool

	// Edges where this property is the source
	dependents []*dependency
	// Edges where this property is the target
	dependencies []*dependency

	ctx     *Context
	changes *notify.Notifier
}

// dependency is a one-way edge: target is conditionally visible while
// source holds a value equal to trigger.
type dependency struct {
	source  *Property
	target  *Property
	trigger Value
}

// Dependent describes an outgoing edge registered on a source property.
type Dependent struct {
	Target  *Property
	Trigger Value
}

// Dependency describes an incoming edge on a target property.
type Dependency struct {
	Source  *Property
	Trigger Value
}

// NewProperty creates a property from metadata and initial values.
// The values must share one set of dimension keys and describe distinct
// configuration points. Only action properties may have no values. Values already owned by another property are rejected.
func NewProperty(meta *Metadata, values ...*PropertyValue) (*Property, error) {
	if err := meta.validate(); err != nil {
		return nil, err
	}
	p := &Property{
		meta:               meta,
		searchVisible:      true,
		conditionalVisible: true,
		changes:            notify.New(),
	}
	if err := p.checkValues(values); err != nil {
		return nil, fmt.Errorf("%s: %w", meta.Identity(), err)
	}
	p.attach(values)
	return p, nil
}

// Metadata returns the property's metadata.
func (p *Property) Metadata() *Metadata {
	return p.meta
}

// Identity returns the property's identity.
func (p *Property) Identity() Identity {
	return p.meta.Identity()
}

// Name returns the property's name.
func (p *Property) Name() string {
	return p.meta.Name
}

// Values returns the property's values in order.
func (p *Property) Values() []*PropertyValue {
	out := make([]*PropertyValue, len(p.values))
	copy(out, p.values)
	return out
}

// SetValues replaces the whole value set and raises FieldValues once.
// An empty set is rejected unless the property is an action.
// Listeners move from the old values to the new ones.
func (p *Property) SetValues(values []*PropertyValue) error {
	if err := p.checkValues(values); err != nil {
		return fmt.Errorf("%s: %w", p.Identity(), err)
	}
	p.replaceValues(values)
	return nil
}

// IsVisible reports whether the property is both search-visible and conditionally visible.
func (p *Property) IsVisible() bool {
	return p.searchVisible && p.conditionalVisible
}

// IsSearchVisible reports whether the last search matched the property.
func (p *Property) IsSearchVisible() bool {
	return p.searchVisible
}

// IsConditionalVisible reports whether the property's conditions are satisfied.
func (p *Property) IsConditionalVisible() bool {
	return p.conditionalVisible
}

// AddDependentTarget registers target as conditionally visible while this
// property holds a value equal to trigger, and evaluates target immediately.
// The edge is re-evaluated whenever any of this property's values changes
// its evaluated value. Several edges into one target combine with OR.
func (p *Property) AddDependentTarget(target *Property, trigger Value) {
	if target == nil {
		return
	}
	d := &dependency{source: p, target: target, trigger: trigger}
	p.dependents = append(p.dependents, d)
	target.dependencies = append(target.dependencies, d)
	target.refreshConditionalVisibility()
}

// Dependents returns the outgoing edges registered on this property.
func (p *Property) Dependents() []Dependent {
	out := make([]Dependent, len(p.dependents))
	for i, d := range p.dependents {
		out[i] = Dependent{Target: d.target, Trigger: d.trigger}
	}
	return out
}

// Dependencies returns the incoming edges that gate this property's visibility.
func (p *Property) Dependencies() []Dependency {
	out := make([]Dependency, len(p.dependencies))
	for i, d := range p.dependencies {
		out[i] = Dependency{Source: d.source, Trigger: d.trigger}
	}
	return out
}

// Initialize binds the property into its owning context. It may be called once.
func (p *Property) Initialize(ctx *Context) error {
	if p.ctx != nil {
		return fmt.Errorf("%s: %w", p.Identity(), ErrAlreadyInitialized)
	}
	p.ctx = ctx
	return nil
}

// IsInitialized reports whether Initialize has been called.
func (p *Property) IsInitialized() bool {
	return p.ctx != nil
}

// Context returns the owning context. It panics when called before
// Initialize, which is a programming error.
func (p *Property) Context() *Context {
	if p.ctx == nil {
		panic(fmt.Sprintf("property: Context read before Initialize on %s", p.Identity()))
	}
	return p.ctx
}

// Changes returns the notifier raising FieldValues and FieldIsVisible.
func (p *Property) Changes() *notify.Notifier {
	return p.changes
}

// Clone returns an independent deep copy detached from any context. The copy
// shares the immutable metadata, owns fresh values, keeps the search state
// and has no dependency edges.
func (p *Property) Clone() *Property {
	values := make([]*PropertyValue, len(p.values))
	for i, v := range p.values {
		values[i] = v.Clone()
	}
	c := &Property{
		meta:               p.meta,
		searchVisible:      p.searchVisible,
		conditionalVisible: true,
		changes:            notify.New(),
	}
	c.attach(values)
	return c
}

// IsVariedBy reports whether any value is scoped to the dimension.
func (p *Property) IsVariedBy(dimension string) bool {
	for _, v := range p.values {
		if v.dimensions.Has(dimension) {
			return true
		}
	}
	return false
}

// VariedDimensions returns the dimension names the values are scoped to.
func (p *Property) VariedDimensions() []string {
	if len(p.values) == 0 {
		return nil
	}
	return p.values[0].dimensions.Names()
}

// ValueFor returns the most specific value applying to point, or nil.
func (p *Property) ValueFor(point Dimensions) *PropertyValue {
	var best *PropertyValue
	for _, v := range p.values {
		if !v.dimensions.SubsetOf(point) {
			continue
		}
		if best == nil || len(v.dimensions) > len(best.dimensions) {
			best = v
		}
	}
	return best
}

// String returns the identity.
func (p *Property) String() string {
	return p.Identity().String()
}

// checkValues validates a candidate value set for this property.
func (p *Property) checkValues(values []*PropertyValue) error {
	if len(values) == 0 && !p.meta.IsAction() {
		return ErrNoValues
	}
	for _, v := range values {
		if v != nil && v.parent != nil && v.parent != p {
			return fmt.Errorf("%w: %s", ErrValueOwned, v.parent.Identity())
		}
	}
	if err := validateValues(values); err != nil {
		return err
	}
	if p.ctx != nil {
		return validateAgainstCatalog(p.ctx.catalog, values)
	}
	return nil
}

// replaceValues swaps in a new value set and notifies observers once.
func (p *Property) replaceValues(values []*PropertyValue) {
	old := p.Values()
	p.attach(values)
	p.changes.NotifyChange(p, FieldValues, old, p.Values())
	p.refreshDependents()
}

// attach takes ownership of values and moves value listeners onto them.
func (p *Property) attach(values []*PropertyValue) {
	for _, sub := range p.valueSubs {
		sub.Unsubscribe()
	}
	for _, v := range p.values {
		if v.parent == p {
			v.parent = nil
		}
	}

	p.values = make([]*PropertyValue, len(values))
	copy(p.values, values)
	p.valueSubs = make([]*notify.Subscription, 0, len(values))
	for _, v := range p.values {
		v.parent = p
		p.valueSubs = append(p.valueSubs, v.changes.SubscribeField(FieldEvaluatedValue, p.onEvaluatedValueChanged))
	}
}

func (p *Property) onEvaluatedValueChanged(notify.Change) {
	p.refreshDependents()
}

// refreshDependents re-evaluates every target of an outgoing edge.
func (p *Property) refreshDependents() {
	for _, d := range p.dependents {
		d.target.refreshConditionalVisibility()
	}
}

// holds reports whether any value's evaluated value equals v.
func (p *Property) holds(v Value) bool {
	for _, pv := range p.values {
		if pv.evaluated.Equal(v) {
			return true
		}
	}
	return false
}

// refreshConditionalVisibility recomputes the conditional flag from all incoming edges.
func (p *Property) refreshConditionalVisibility() {
	visible := len(p.dependencies) == 0
	for _, d := range p.dependencies {
		if d.source.holds(d.trigger) {
			visible = true
			break
		}
	}
	p.setVisibility(p.searchVisible, visible)
}

// setVisibility updates both flags and raises FieldIsVisible only when IsVisible flips.
func (p *Property) setVisibility(search, conditional bool) {
	was := p.IsVisible()
	p.searchVisible = search
	p.conditionalVisible = conditional
	if now := p.IsVisible(); now != was {
		p.changes.NotifyChange(p, FieldIsVisible, was, now)
	}
}
