package catalog

import (
	"fmt"

	"github.com/dshills/propsheet/internal/property"
)

// Builder returns a property builder holding every dimension, property and
// condition in the file. Options are passed through to the context.
func (f *File) Builder(opts ...property.ContextOption) (*property.Builder, error) {
	return f.builder(nil, opts)
}

// Build creates a strict property context from the whole catalog.
func (f *File) Build(opts ...property.ContextOption) (*property.Context, error) {
	b, err := f.Builder(opts...)
	if err != nil {
		return nil, err
	}
	return b.Build()
}

// BuildProfile creates the loose-mode context of the named launch profile.
// Only the profile's pages are included; conditions that reach outside them
// are skipped.
func (f *File) BuildProfile(name string, opts ...property.ContextOption) (*property.Context, error) {
	def, ok := f.Profile(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrProfileNotFound, name)
	}
	opts = append(opts[:len(opts):len(opts)], property.WithLooseConditions())
	b, err := f.builder(def, opts)
	if err != nil {
		return nil, err
	}
	return b.Build()
}

func (f *File) builder(profile *ProfileDef, opts []property.ContextOption) (*property.Builder, error) {
	b := property.NewBuilder(opts...)
	for _, d := range f.Dimensions {
		b.Dimension(d.Name, d.Values...)
	}

	for i := range f.Properties {
		def := &f.Properties[i]
		if profile != nil && !profile.Includes(def.Page) {
			continue
		}
		meta, values, err := def.decode()
		if err != nil {
			return nil, fmt.Errorf("%s: property %s: %w", f.Path, def.Identity(), err)
		}
		b.Add(meta, values...)
	}

	for i, c := range f.Conditions {
		value, err := f.conditionValue(c)
		if err != nil {
			return nil, fmt.Errorf("%s: condition %d: %w", f.Path, i, err)
		}
		b.Condition(c.Source.Identity(), value, c.Target.Identity())
	}
	return b, nil
}

// decode converts the definition into metadata and initial values.
func (d *PropertyDef) decode() (*property.Metadata, []*property.PropertyValue, error) {
	kind, err := d.ValueKind()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidDefinition, err)
	}

	meta := &property.Metadata{
		Name:                           d.Name,
		Page:                           d.Page,
		Category:                       d.Category,
		Priority:                       d.Priority,
		Description:                    d.Description,
		SupportsPerConfigurationValues: d.PerConfiguration,
		SearchTerms:                    d.SearchTerms,
	}
	for i, e := range d.Editors {
		spec := property.EditorSpec{Type: e}
		if i == 0 && len(d.EditorOptions) > 0 {
			spec.Options = d.EditorOptions
		}
		meta.Editors = append(meta.Editors, spec)
	}

	supported := make([]property.SupportedValue, 0, len(d.SupportedValues))
	for _, sv := range d.SupportedValues {
		supported = append(supported, property.SupportedValue{DisplayName: sv.Name, Value: sv.Value})
	}

	if len(d.Values) == 0 {
		if d.IsAction() {
			return meta, nil, nil
		}
		zero := property.ZeroValue(kind)
		if kind == property.KindEnum && len(supported) > 0 {
			zero = property.Enum(supported[0].Value)
		}
		return meta, []*property.PropertyValue{property.NewValue(zero, property.WithSupportedValues(supported...))}, nil
	}

	values := make([]*property.PropertyValue, 0, len(d.Values))
	for i, vd := range d.Values {
		v, err := property.ValueOf(kind, vd.Value)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: value %d: %v", ErrInvalidDefinition, i, err)
		}
		opts := []property.ValueOption{
			property.WithDimensions(vd.Dimensions),
			property.WithSupportedValues(supported...),
		}
		if vd.Unevaluated != nil {
			opts = append(opts, property.WithUnevaluated(*vd.Unevaluated))
		}
		values = append(values, property.NewValue(v, opts...))
	}
	return meta, values, nil
}

// conditionValue converts a condition's trigger with the source's kind.
// When the source is not defined in the file the decoded type decides.
func (f *File) conditionValue(c ConditionDef) (property.Value, error) {
	kind := property.KindText
	if src, ok := f.findProperty(c.Source.Identity()); ok {
		k, err := src.ValueKind()
		if err != nil {
			return property.Value{}, fmt.Errorf("%w: %v", ErrInvalidDefinition, err)
		}
		kind = k
	} else if _, isBool := c.Value.(bool); isBool {
		kind = property.KindBool
	}

	v, err := property.ValueOf(kind, c.Value)
	if err != nil {
		return property.Value{}, fmt.Errorf("%w: %v", ErrInvalidDefinition, err)
	}
	return v, nil
}
