package property

import (
	"github.com/dshills/propsheet/internal/notify"
)

// Field names raised through notify.Change.Field.
const (
	FieldEvaluatedValue   = "EvaluatedValue"
	FieldUnevaluatedValue = "UnevaluatedValue"
	FieldSupportedValues  = "SupportedValues"
	FieldValues           = "Values"
	FieldIsVisible        = "IsVisible"
)

// PropertyValue is one value of a property, scoped to zero or more
// configuration dimensions. A PropertyValue belongs to at most one Property;
// use Clone to place equivalent content in another property.
type PropertyValue struct {
	evaluated      Value
	unevaluated    string
	hasUnevaluated bool
	dimensions     Dimensions
	supported      []SupportedValue

	parent  *Property
	changes *notify.Notifier
}

// ValueOption configures a PropertyValue.
type ValueOption func(*PropertyValue)

// WithUnevaluated sets the raw, possibly templated, value (e.g., "$(OutDir)bin").
func WithUnevaluated(raw string) ValueOption {
	return func(v *PropertyValue) {
		v.unevaluated = raw
		v.hasUnevaluated = true
	}
}

// WithDimensions scopes the value to a configuration point.
func WithDimensions(d Dimensions) ValueOption {
	return func(v *PropertyValue) {
		v.dimensions = d.Clone()
	}
}

// WithSupportedValues sets the enumerated choices.
func WithSupportedValues(values ...SupportedValue) ValueOption {
	return func(v *PropertyValue) {
		v.supported = cloneSupported(values)
	}
}

// NewValue creates a detached PropertyValue. Without WithDimensions it
// applies to all configurations.
func NewValue(evaluated Value, opts ...ValueOption) *PropertyValue {
	v := &PropertyValue{
		evaluated:  evaluated,
		dimensions: Dimensions{},
		changes:    notify.New(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// EvaluatedValue returns the effective value.
func (v *PropertyValue) EvaluatedValue() Value {
	return v.evaluated
}

// SetEvaluatedValue sets the effective value and raises FieldEvaluatedValue
// when it changes. Dependent properties are re-evaluated synchronously.
func (v *PropertyValue) SetEvaluatedValue(value Value) {
	if v.evaluated == value {
		return
	}
	old := v.evaluated
	v.evaluated = value
	v.changes.NotifyChange(v, FieldEvaluatedValue, old, value)
}

// UnevaluatedValue returns the raw value, falling back to the evaluated value's text.
func (v *PropertyValue) UnevaluatedValue() string {
	if v.hasUnevaluated {
		return v.unevaluated
	}
	return v.evaluated.String()
}

// HasUnevaluatedValue reports whether a raw value was set explicitly.
func (v *PropertyValue) HasUnevaluatedValue() bool {
	return v.hasUnevaluated
}

// SetUnevaluatedValue sets the raw value and raises FieldUnevaluatedValue.
func (v *PropertyValue) SetUnevaluatedValue(raw string) {
	if v.hasUnevaluated && v.unevaluated == raw {
		return
	}
	old := v.UnevaluatedValue()
	v.unevaluated = raw
	v.hasUnevaluated = true
	v.changes.NotifyChange(v, FieldUnevaluatedValue, old, raw)
}

// Dimensions returns a copy of the configuration point this value applies to.
func (v *PropertyValue) Dimensions() Dimensions {
	return v.dimensions.Clone()
}

// AppliesToAll reports whether the value is not scoped to any dimension.
func (v *PropertyValue) AppliesToAll() bool {
	return len(v.dimensions) == 0
}

// SupportedValues returns a copy of the enumerated choices.
func (v *PropertyValue) SupportedValues() []SupportedValue {
	return cloneSupported(v.supported)
}

// SetSupportedValues replaces the enumerated choices and raises
// FieldSupportedValues. Choices compare by value; a display-name-only edit
// is not a change.
func (v *PropertyValue) SetSupportedValues(values ...SupportedValue) {
	if supportedEqual(v.supported, values) {
		return
	}
	old := v.supported
	v.supported = cloneSupported(values)
	v.changes.NotifyChange(v, FieldSupportedValues, old, v.SupportedValues())
}

// Parent returns the owning property, or nil if detached.
func (v *PropertyValue) Parent() *Property {
	return v.parent
}

// Changes returns the notifier for this value.
func (v *PropertyValue) Changes() *notify.Notifier {
	return v.changes
}

// Clone returns a detached deep copy with its own notifier.
func (v *PropertyValue) Clone() *PropertyValue {
	return v.withDimensions(v.dimensions)
}

// withDimensions returns a detached copy of the content scoped to d.
func (v *PropertyValue) withDimensions(d Dimensions) *PropertyValue {
	return &PropertyValue{
		evaluated:      v.evaluated,
		unevaluated:    v.unevaluated,
		hasUnevaluated: v.hasUnevaluated,
		dimensions:     d.Clone(),
		supported:      cloneSupported(v.supported),
		changes:        notify.New(),
	}
}

// String returns "dimensions: value".
func (v *PropertyValue) String() string {
	return v.dimensions.String() + ": " + v.evaluated.String()
}

func cloneSupported(values []SupportedValue) []SupportedValue {
	if values == nil {
		return nil
	}
	out := make([]SupportedValue, len(values))
	copy(out, values)
	return out
}

func supportedEqual(a, b []SupportedValue) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
