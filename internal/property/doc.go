// Package property implements the property sheet data model.
//
// A property sheet is a set of configurable properties (project build,
// packaging and debug settings, for example) whose values can differ per
// configuration point, can be shown or hidden depending on the values of
// other properties, and can be filtered by free-text search.
//
// # Model
//
//	Context ──┬── Catalog      dimensions and their allowed values
//	          ├── []Condition  source == value -> target
//	          └── []*Property ── *Metadata
//	                         └── []*PropertyValue ── Value, Dimensions
//
// A PropertyValue with empty Dimensions applies to all configurations.
// Within one property all values carry the same dimension names and no two
// values describe the same configuration point.
//
// # Visibility
//
// IsVisible is IsSearchVisible AND IsConditionalVisible. Conditions become
// dependency edges when the Context is built: a target is conditionally
// visible while any incoming edge's source holds a value equal to the
// edge's trigger. Edges are re-evaluated synchronously whenever a source
// value changes, and a FieldIsVisible change is raised only when IsVisible
// actually flips.
//
// # Configuration commands
//
// When any dimension has more than one allowed value, the Context offers a
// toggle per such dimension and a single-value command:
//
//	ctx, err := property.NewBuilder().
//	    Dimension("Configuration", "Debug", "Release").
//	    Add(&property.Metadata{Page: "Build", Category: "General", Name: "Optimize code",
//	        SupportsPerConfigurationValues: true}, property.NewValue(property.Bool(false))).
//	    Build()
//	if err != nil {
//	    return err
//	}
//	p, _ := ctx.Lookup("Optimize code")
//	vary := ctx.ConfigurationCommands()[0]
//	_ = vary.Execute(p) // two values: Configuration=Debug and Configuration=Release
//
// Expanding replaces every value with one copy per allowed value. Collapsing
// groups values by their remaining dimensions and keeps the first of each
// group, discarding the others.
//
// All mutation is single-threaded; the package does no locking of its own.
package property
