package property

import (
	"errors"
	"fmt"
	"strings"
)

// Configuration-graph errors. These are fatal at context construction.
var (
	// ErrDuplicateIdentity indicates two properties share a page/category/name.
	ErrDuplicateIdentity = errors.New("duplicate property identity")

	// ErrUnresolvedCondition indicates a condition names a property that is not in the context.
	ErrUnresolvedCondition = errors.New("unresolved condition identity")

	// ErrConditionCycle indicates the condition graph contains a cycle.
	ErrConditionCycle = errors.New("condition cycle")

	// ErrInconsistentDimensions indicates a property's values disagree on dimension keys
	// or two values describe the same configuration point.
	ErrInconsistentDimensions = errors.New("inconsistent configuration dimensions")

	// ErrUnknownDimension indicates a value is scoped to a dimension or dimension value
	// missing from the catalog.
	ErrUnknownDimension = errors.New("unknown configuration dimension")

	// ErrEmptyDimension indicates a dimension without a name or allowed values.
	ErrEmptyDimension = errors.New("dimension has no name or allowed values")

	// ErrDuplicateDimension indicates two dimensions share a name (case-insensitive).
	ErrDuplicateDimension = errors.New("duplicate dimension")

	// ErrInvalidMetadata indicates missing or unnamed metadata.
	ErrInvalidMetadata = errors.New("invalid property metadata")

	// ErrInvalidIdentity indicates an identity string that cannot be parsed.
	ErrInvalidIdentity = errors.New("invalid property identity")
)

// Protocol-violation errors. These are programming errors and are not retried.
var (
	// ErrAlreadyBuilt indicates Build was called on a consumed builder.
	ErrAlreadyBuilt = errors.New("builder already built")

	// ErrAlreadyInitialized indicates Initialize was called twice.
	ErrAlreadyInitialized = errors.New("property already initialized")

	// ErrNoValues indicates an operation that needs values was applied to an empty set.
	ErrNoValues = errors.New("property has no values")

	// ErrNotSupported indicates a configuration command was invoked on a property
	// that does not support per-configuration values.
	ErrNotSupported = errors.New("property does not support per-configuration values")

	// ErrValueOwned indicates a PropertyValue already belongs to another property.
	ErrValueOwned = errors.New("property value belongs to another property")
)

// Lookup errors.
var (
	// ErrPropertyNotFound indicates no property matches a reference.
	ErrPropertyNotFound = errors.New("property not found")

	// ErrAmbiguousName indicates a bare name matches more than one property.
	ErrAmbiguousName = errors.New("ambiguous property name")
)

// ConditionError describes a condition that could not be wired.
type ConditionError struct {
	// Condition is the offending condition.
	Condition Condition
	// Missing is the identity that failed to resolve (zero for cycles).
	Missing Identity
	// Err is the underlying sentinel error.
	Err error
}

// Error implements the error interface.
func (e *ConditionError) Error() string {
	if !e.Missing.IsZero() {
		return fmt.Sprintf("condition %s: %v: %s", e.Condition, e.Err, e.Missing)
	}
	return fmt.Sprintf("condition %s: %v", e.Condition, e.Err)
}

// Unwrap returns the underlying error.
func (e *ConditionError) Unwrap() error {
	return e.Err
}

// CycleError describes a cycle in the condition graph.
type CycleError struct {
	// Path lists the identities along the cycle; the first is repeated at the end.
	Path []Identity
}

// Error implements the error interface.
func (e *CycleError) Error() string {
	parts := make([]string, len(e.Path))
	for i, id := range e.Path {
		parts[i] = id.String()
	}
	return fmt.Sprintf("%v: %s", ErrConditionCycle, strings.Join(parts, " -> "))
}

// Is implements error matching for CycleError.
func (e *CycleError) Is(target error) bool {
	return target == ErrConditionCycle
}
