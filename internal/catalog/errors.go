package catalog

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnsupportedFormat is returned for a file extension with no decoder.
	ErrUnsupportedFormat = errors.New("unsupported catalog format")

	// ErrNotAFile is returned when the catalog path names a directory.
	ErrNotAFile = errors.New("catalog path is not a regular file")

	// ErrInvalidDefinition is returned when a decoded definition cannot be
	// turned into a property, value or condition.
	ErrInvalidDefinition = errors.New("invalid catalog definition")

	// ErrProfileNotFound is returned by BuildProfile for an unknown name.
	ErrProfileNotFound = errors.New("profile not defined in catalog")
)

// ParseError locates a decoding failure in a catalog document. Line and
// Column are 1-based and zero when the decoder reports no position. Key is
// the dotted key of an unknown field, when known.
type ParseError struct {
	Path   string
	Line   int
	Column int
	Key    string
	Err    error
}

// Error formats the error as path:line:column: cause.
func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString(e.Path)
	if e.Line > 0 {
		fmt.Fprintf(&b, ":%d", e.Line)
		if e.Column > 0 {
			fmt.Fprintf(&b, ":%d", e.Column)
		}
	}
	b.WriteString(": ")
	if e.Key != "" {
		fmt.Fprintf(&b, "unknown field %q: ", e.Key)
	}
	b.WriteString(e.Err.Error())
	return b.String()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
