package property

import (
	"fmt"
	"strings"
)

// Identity addresses a property across conditions and lookups.
// Two identities are equal when page, category and name are equal.
type Identity struct {
	Page     string
	Category string
	Name     string
}

// NewIdentity creates an identity.
func NewIdentity(page, category, name string) Identity {
	return Identity{Page: page, Category: category, Name: name}
}

// ParseIdentity parses the "Page | Category | Name" form produced by String.
func ParseIdentity(s string) (Identity, error) {
	parts := strings.Split(s, "|")
	if len(parts) != 3 {
		return Identity{}, fmt.Errorf("%w: %q", ErrInvalidIdentity, s)
	}
	id := NewIdentity(
		strings.TrimSpace(parts[0]),
		strings.TrimSpace(parts[1]),
		strings.TrimSpace(parts[2]),
	)
	if id.Name == "" {
		return Identity{}, fmt.Errorf("%w: %q has no name", ErrInvalidIdentity, s)
	}
	return id, nil
}

// IsZero reports whether the identity is unset.
func (id Identity) IsZero() bool {
	return id == Identity{}
}

// String returns "Page | Category | Name".
func (id Identity) String() string {
	return fmt.Sprintf("%s | %s | %s", id.Page, id.Category, id.Name)
}

// Editor type tags understood by the rendering collaborator.
// The core treats them as opaque identifiers.
const (
	EditorString          = "String"
	EditorMultiLineString = "MultiLineString"
	EditorBool            = "Bool"
	EditorEnum            = "Enum"
	EditorFileBrowse      = "FileBrowse"
	EditorDirectoryBrowse = "DirectoryBrowse"
	EditorLinkAction      = "LinkAction"
	EditorNameValueList   = "NameValueList"
)

// EditorSpec names an editor and carries editor-specific options.
type EditorSpec struct {
	// Type is the editor type tag (e.g., "Bool").
	Type string

	// Options holds editor-specific settings (e.g., a file filter).
	Options map[string]string
}

// Metadata describes a property. It is constructed once when the catalog is
// loaded and must not be modified afterwards.
type Metadata struct {
	// Name is the display name, unique within page and category.
	Name string

	// Page groups properties into top-level pages (e.g., "Build").
	Page string

	// Category groups properties within a page (e.g., "General").
	Category string

	// Priority is the ascending sort key within a category.
	Priority int

	// Description is optional human-readable documentation.
	Description string

	// Editors lists editor specifications in preference order.
	Editors []EditorSpec

	// SupportsPerConfigurationValues allows the property to vary by dimension.
	SupportsPerConfigurationValues bool

	// SearchTerms are extra words matched by search.
	SearchTerms []string
}

// Identity returns the (page, category, name) identity.
func (m *Metadata) Identity() Identity {
	return NewIdentity(m.Page, m.Category, m.Name)
}

// Editor returns the first editor spec accepted by supported.
// A nil supported accepts the first spec.
func (m *Metadata) Editor(supported func(editorType string) bool) (EditorSpec, bool) {
	for _, e := range m.Editors {
		if supported == nil || supported(e.Type) {
			return e, true
		}
	}
	return EditorSpec{}, false
}

// HasEditor reports whether any editor spec has the given type.
func (m *Metadata) HasEditor(editorType string) bool {
	for _, e := range m.Editors {
		if e.Type == editorType {
			return true
		}
	}
	return false
}

// IsAction reports whether the property is a pure action (e.g., a link) that holds no value.
func (m *Metadata) IsAction() bool {
	return m.HasEditor(EditorLinkAction)
}

func (m *Metadata) validate() error {
	if m == nil {
		return fmt.Errorf("%w: nil metadata", ErrInvalidMetadata)
	}
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("%w: empty name on page %q", ErrInvalidMetadata, m.Page)
	}
	return nil
}

// SupportedValue is one choice of an enumerated editor.
type SupportedValue struct {
	DisplayName string
	Value       string
}

// Equal reports whether two supported values carry the same value.
// Display names are ignored.
func (s SupportedValue) Equal(other SupportedValue) bool {
	return s.Value == other.Value
}

// String returns the display name, or the value when the display name is empty.
func (s SupportedValue) String() string {
	if s.DisplayName == "" {
		return s.Value
	}
	return s.DisplayName
}
