package property

import (
	"strings"
)

// UpdateSearchState recomputes search visibility for searchText.
// Empty or whitespace-only text matches every property.
func (p *Property) UpdateSearchState(searchText string) {
	p.setVisibility(p.Matches(searchText), p.conditionalVisible)
}

// Matches reports whether searchText is a case-insensitive substring of the
// property's name, description, search terms, any value's raw or textual
// evaluated value, or any supported value's display name or value. A value
// without explicit raw text is matched by its evaluated text.
func (p *Property) Matches(searchText string) bool {
	if strings.TrimSpace(searchText) == "" {
		return true
	}
	m := matcher{query: strings.ToLower(searchText)}

	if m.match(p.meta.Name) || m.match(p.meta.Description) {
		return true
	}

	for _, v := range p.values {
		if m.match(v.UnevaluatedValue()) {
			return true
		}
		if v.evaluated.IsTextual() && m.match(v.evaluated.text) {
			return true
		}
		for _, sv := range v.supported {
			if m.match(sv.DisplayName) || m.match(sv.Value) {
				return true
			}
		}
	}

	for _, term := range p.meta.SearchTerms {
		if m.match(term) {
			return true
		}
	}

	return false
}

// matcher is a case-insensitive substring matcher.
type matcher struct {
	query string
}

func (m matcher) match(s string) bool {
	return s != "" && strings.Contains(strings.ToLower(s), m.query)
}
