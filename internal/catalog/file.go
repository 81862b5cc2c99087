// Package catalog loads property catalogs: the dimensions, property
// definitions, conditions and launch profiles that make up a property sheet.
//
// Catalogs are TOML or YAML documents read through a FileSystem. A decoded
// File is turned into a property.Context with Build, or into a loose-mode
// launch profile context with BuildProfile.
package catalog

import (
	"strings"
	"time"

	"github.com/dshills/propsheet/internal/property"
)

// File is a decoded catalog document.
type File struct {
	Dimensions []DimensionDef `toml:"dimensions" yaml:"dimensions"`
	Properties []PropertyDef  `toml:"properties" yaml:"properties"`
	Conditions []ConditionDef `toml:"conditions" yaml:"conditions"`
	Profiles   []ProfileDef   `toml:"profiles" yaml:"profiles"`

	// Path the file was read from, or a pseudo path such as "<embedded>".
	Path string `toml:"-" yaml:"-"`

	// ModTime of the file on disk; zero for embedded and reader input.
	ModTime time.Time `toml:"-" yaml:"-"`
}

// DimensionDef declares a configuration dimension.
type DimensionDef struct {
	Name   string   `toml:"name" yaml:"name"`
	Values []string `toml:"values" yaml:"values"`
}

// PropertyDef declares a property and its initial values.
type PropertyDef struct {
	Page             string              `toml:"page" yaml:"page"`
	Category         string              `toml:"category" yaml:"category"`
	Name             string              `toml:"name" yaml:"name"`
	Priority         int                 `toml:"priority" yaml:"priority"`
	Description      string              `toml:"description" yaml:"description"`
	Editors          []string            `toml:"editors" yaml:"editors"`
	EditorOptions    map[string]string   `toml:"editor_options" yaml:"editor_options"`
	Kind             string              `toml:"kind" yaml:"kind"`
	PerConfiguration bool                `toml:"per_configuration" yaml:"per_configuration"`
	SearchTerms      []string            `toml:"search_terms" yaml:"search_terms"`
	SupportedValues  []SupportedValueDef `toml:"supported_values" yaml:"supported_values"`
	Values           []ValueDef          `toml:"values" yaml:"values"`
}

// Identity returns the property's identity.
func (d *PropertyDef) Identity() property.Identity {
	return property.NewIdentity(d.Page, d.Category, d.Name)
}

// ValueKind returns the declared kind. When kind is omitted it is inferred
// from the first Bool or Enum editor and defaults to text.
func (d *PropertyDef) ValueKind() (property.Kind, error) {
	if d.Kind != "" {
		return property.ParseKind(d.Kind)
	}
	for _, e := range d.Editors {
		switch {
		case strings.EqualFold(e, property.EditorBool):
			return property.KindBool, nil
		case strings.EqualFold(e, property.EditorEnum):
			return property.KindEnum, nil
		}
	}
	return property.KindText, nil
}

// IsAction reports whether the definition is a LinkAction property.
func (d *PropertyDef) IsAction() bool {
	for _, e := range d.Editors {
		if strings.EqualFold(e, property.EditorLinkAction) {
			return true
		}
	}
	return false
}

// SupportedValueDef is one choice of an enumerated property.
type SupportedValueDef struct {
	Name  string `toml:"name" yaml:"name"`
	Value string `toml:"value" yaml:"value"`
}

// ValueDef is one initial value. Dimensions is empty for a value that
// applies to all configurations.
type ValueDef struct {
	Value       any               `toml:"value" yaml:"value"`
	Unevaluated *string           `toml:"unevaluated" yaml:"unevaluated"`
	Dimensions  map[string]string `toml:"dimensions" yaml:"dimensions"`
}

// RefDef references a property by page, category and name.
type RefDef struct {
	Page     string `toml:"page" yaml:"page"`
	Category string `toml:"category" yaml:"category"`
	Name     string `toml:"name" yaml:"name"`
}

// Identity returns the referenced identity.
func (r RefDef) Identity() property.Identity {
	return property.NewIdentity(r.Page, r.Category, r.Name)
}

// ConditionDef makes Target visible while Source holds Value.
type ConditionDef struct {
	Source RefDef `toml:"source" yaml:"source"`
	Value  any    `toml:"value" yaml:"value"`
	Target RefDef `toml:"target" yaml:"target"`
}

// ProfileDef declares a launch profile. Pages restricts the profile to the
// properties of those pages; empty means every page.
type ProfileDef struct {
	Name  string   `toml:"name" yaml:"name"`
	Pages []string `toml:"pages" yaml:"pages"`
}

// Includes reports whether the profile shows the given page.
func (p *ProfileDef) Includes(page string) bool {
	if len(p.Pages) == 0 {
		return true
	}
	for _, name := range p.Pages {
		if strings.EqualFold(name, page) {
			return true
		}
	}
	return false
}

// Profile returns the profile definition with the given name (case-insensitive).
func (f *File) Profile(name string) (*ProfileDef, bool) {
	for i := range f.Profiles {
		if strings.EqualFold(f.Profiles[i].Name, name) {
			return &f.Profiles[i], true
		}
	}
	return nil, false
}

// findProperty returns the definition with the given identity.
func (f *File) findProperty(id property.Identity) (*PropertyDef, bool) {
	for i := range f.Properties {
		if f.Properties[i].Identity() == id {
			return &f.Properties[i], true
		}
	}
	return nil, false
}
