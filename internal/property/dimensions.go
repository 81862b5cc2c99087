package property

import (
	"fmt"
	"sort"
	"strings"
)

// Dimension is a named axis of configuration variance with ordered allowed values.
type Dimension struct {
	Name   string
	Values []string
}

// IsConfigurable reports whether the dimension has more than one allowed value.
func (d Dimension) IsConfigurable() bool {
	return len(d.Values) > 1
}

// Allows reports whether value is an allowed value (case-insensitive).
func (d Dimension) Allows(value string) bool {
	for _, v := range d.Values {
		if strings.EqualFold(v, value) {
			return true
		}
	}
	return false
}

// Catalog is the ordered set of dimensions known to a context.
// A Catalog is immutable once created and may be shared between contexts.
type Catalog struct {
	dims []Dimension
}

// NewCatalog creates a catalog. Dimension names are compared case-insensitively.
func NewCatalog(dims ...Dimension) (*Catalog, error) {
	c := &Catalog{dims: make([]Dimension, 0, len(dims))}
	for _, d := range dims {
		if strings.TrimSpace(d.Name) == "" || len(d.Values) == 0 {
			return nil, fmt.Errorf("%w: %q", ErrEmptyDimension, d.Name)
		}
		if _, exists := c.Lookup(d.Name); exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateDimension, d.Name)
		}
		values := make([]string, len(d.Values))
		copy(values, d.Values)
		c.dims = append(c.dims, Dimension{Name: d.Name, Values: values})
	}
	return c, nil
}

// Dimensions returns the dimensions in catalog order.
func (c *Catalog) Dimensions() []Dimension {
	if c == nil {
		return nil
	}
	result := make([]Dimension, len(c.dims))
	copy(result, c.dims)
	return result
}

// Lookup finds a dimension by name (case-insensitive).
func (c *Catalog) Lookup(name string) (Dimension, bool) {
	if c == nil {
		return Dimension{}, false
	}
	for _, d := range c.dims {
		if strings.EqualFold(d.Name, name) {
			return d, true
		}
	}
	return Dimension{}, false
}

// Len returns the number of dimensions.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.dims)
}

// HasConfigurableDimensions reports whether any dimension has more than one value.
func (c *Catalog) HasConfigurableDimensions() bool {
	if c == nil {
		return false
	}
	for _, d := range c.dims {
		if d.IsConfigurable() {
			return true
		}
	}
	return false
}

// Dimensions maps dimension name to dimension value for one configuration point.
// An empty map applies to all configurations. Names and values compare
// case-insensitively.
type Dimensions map[string]string

// Lookup returns the value for a dimension name.
func (d Dimensions) Lookup(name string) (string, bool) {
	if v, ok := d[name]; ok {
		return v, true
	}
	for k, v := range d {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return "", false
}

// Has reports whether the map carries the dimension.
func (d Dimensions) Has(name string) bool {
	_, ok := d.Lookup(name)
	return ok
}

// Clone returns a copy. The copy is never nil.
func (d Dimensions) Clone() Dimensions {
	out := make(Dimensions, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// With returns a copy with name set to value.
func (d Dimensions) With(name, value string) Dimensions {
	out := d.Without(name)
	out[name] = value
	return out
}

// Without returns a copy with name removed.
func (d Dimensions) Without(name string) Dimensions {
	out := make(Dimensions, len(d))
	for k, v := range d {
		if !strings.EqualFold(k, name) {
			out[k] = v
		}
	}
	return out
}

// Names returns the dimension names in sorted order.
func (d Dimensions) Names() []string {
	names := make([]string, 0, len(d))
	for k := range d {
		names = append(names, k)
	}
	sort.Slice(names, func(i, j int) bool {
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})
	return names
}

// Equal reports whether both maps have the same key set and equal values,
// ignoring case.
func (d Dimensions) Equal(other Dimensions) bool {
	return d.Key() == other.Key()
}

// Key returns a canonical string for the configuration point. Two maps have
// the same key exactly when Equal reports true.
func (d Dimensions) Key() string {
	if len(d) == 0 {
		return ""
	}
	var b strings.Builder
	for _, name := range d.Names() {
		b.WriteString(strings.ToLower(name))
		b.WriteByte('=')
		b.WriteString(strings.ToLower(d[name]))
		b.WriteByte(';')
	}
	return b.String()
}

// keySet returns a canonical string of the dimension names only.
func (d Dimensions) keySet() string {
	names := d.Names()
	for i, n := range names {
		names[i] = strings.ToLower(n)
	}
	return strings.Join(names, ";")
}

// SubsetOf reports whether every entry of d is present in point.
func (d Dimensions) SubsetOf(point Dimensions) bool {
	for k, v := range d {
		pv, ok := point.Lookup(k)
		if !ok || !strings.EqualFold(pv, v) {
			return false
		}
	}
	return true
}

// String returns "Name=Value, ..." in sorted order, or "*" for all configurations.
func (d Dimensions) String() string {
	if len(d) == 0 {
		return "*"
	}
	parts := make([]string, 0, len(d))
	for _, name := range d.Names() {
		parts = append(parts, name+"="+d[name])
	}
	return strings.Join(parts, ", ")
}

// validateValues checks that all values share one dimension key set and
// describe pairwise distinct configuration points.
func validateValues(values []*PropertyValue) error {
	if len(values) == 0 {
		return nil
	}
	keys := values[0].dimensions.keySet()
	seen := make(map[string]bool, len(values))
	for i, v := range values {
		if v == nil {
			return fmt.Errorf("%w: nil value at index %d", ErrInconsistentDimensions, i)
		}
		if ks := v.dimensions.keySet(); ks != keys {
			return fmt.Errorf("%w: value %d is scoped to [%s], want [%s]", ErrInconsistentDimensions, i, ks, keys)
		}
		point := v.dimensions.Key()
		if seen[point] {
			return fmt.Errorf("%w: duplicate configuration point %s", ErrInconsistentDimensions, v.dimensions)
		}
		seen[point] = true
	}
	return nil
}

// validateAgainstCatalog checks that every dimension name and value is known.
func validateAgainstCatalog(c *Catalog, values []*PropertyValue) error {
	for _, v := range values {
		for name, value := range v.dimensions {
			d, ok := c.Lookup(name)
			if !ok {
				return fmt.Errorf("%w: %s", ErrUnknownDimension, name)
			}
			if !d.Allows(value) {
				return fmt.Errorf("%w: %s has no value %q", ErrUnknownDimension, d.Name, value)
			}
		}
	}
	return nil
}
