package property

import (
	"errors"
	"sync/atomic"
)

// Builder accumulates dimensions, properties and conditions and produces a
// Context. A Builder is consumed by Build; building twice fails with
// ErrAlreadyBuilt.
//
// Add methods chain. Errors from Add calls are collected and returned
// together by Build.
type Builder struct {
	built atomic.Bool

	dims       []Dimension
	conditions []Condition
	properties []*Property
	opts       []ContextOption
	errs       []error
}

// NewBuilder creates a builder. Options are passed to NewContext.
func NewBuilder(opts ...ContextOption) *Builder {
	return &Builder{opts: opts}
}

// Dimension adds a dimension with its ordered allowed values.
func (b *Builder) Dimension(name string, values ...string) *Builder {
	b.dims = append(b.dims, Dimension{Name: name, Values: values})
	return b
}

// Add creates a property from metadata and initial values.
func (b *Builder) Add(meta *Metadata, values ...*PropertyValue) *Builder {
	p, err := NewProperty(meta, values...)
	if err != nil {
		b.errs = append(b.errs, err)
		return b
	}
	b.properties = append(b.properties, p)
	return b
}

// AddProperty adds an existing, uninitialized property.
func (b *Builder) AddProperty(p *Property) *Builder {
	b.properties = append(b.properties, p)
	return b
}

// Condition declares that target is visible while source's value equals value.
func (b *Builder) Condition(source Identity, value Value, target Identity) *Builder {
	b.conditions = append(b.conditions, Condition{Source: source, Value: value, Target: target})
	return b
}

// Option appends a context option.
func (b *Builder) Option(opt ContextOption) *Builder {
	b.opts = append(b.opts, opt)
	return b
}

// Len returns the number of accumulated properties.
func (b *Builder) Len() int {
	return len(b.properties)
}

// Build creates the context and releases the builder's state.
func (b *Builder) Build() (*Context, error) {
	if !b.built.CompareAndSwap(false, true) {
		return nil, ErrAlreadyBuilt
	}

	dims, conditions, properties, opts, errs := b.dims, b.conditions, b.properties, b.opts, b.errs
	b.dims, b.conditions, b.properties, b.opts, b.errs = nil, nil, nil, nil, nil

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	catalog, err := NewCatalog(dims...)
	if err != nil {
		return nil, err
	}
	return NewContext(catalog, conditions, properties, opts...)
}
