package property

import (
	"fmt"
	"log/slog"
)

// SingleValueCaption is the caption of the single-value command.
const SingleValueCaption = "Use single value across all configurations"

// ConfigurationCommand changes how a property's values vary across dimensions.
// Execution replaces the property's Values in one step so observers see a
// single FieldValues change.
type ConfigurationCommand interface {
	// Caption returns the label for the command as applied to p.
	Caption(p *Property) string

	// CanExecute reports whether the command applies to p.
	CanExecute(p *Property) bool

	// Execute applies the command to p.
	Execute(p *Property) error
}

// newConfigurationCommands returns a toggle per configurable dimension, in
// catalog order, followed by the single-value command.
func newConfigurationCommands(c *Context) []ConfigurationCommand {
	var commands []ConfigurationCommand
	for _, d := range c.catalog.Dimensions() {
		if d.IsConfigurable() {
			commands = append(commands, &DimensionCommand{dimension: d, logger: c.logger})
		}
	}
	return append(commands, &SingleValueCommand{logger: c.logger})
}

// DimensionCommand toggles whether a property varies by one dimension.
type DimensionCommand struct {
	dimension Dimension
	logger    *slog.Logger
}

// Dimension returns the dimension this command toggles.
func (c *DimensionCommand) Dimension() Dimension {
	return c.dimension
}

// IsVaried reports whether p currently varies by the dimension.
func (c *DimensionCommand) IsVaried(p *Property) bool {
	return p.IsVariedBy(c.dimension.Name)
}

// Caption returns "Vary by X" or "Stop varying by X".
func (c *DimensionCommand) Caption(p *Property) string {
	if c.IsVaried(p) {
		return "Stop varying by " + c.dimension.Name
	}
	return "Vary by " + c.dimension.Name
}

// CanExecute reports whether p supports per-configuration values.
func (c *DimensionCommand) CanExecute(p *Property) bool {
	return p.meta.SupportsPerConfigurationValues
}

// Execute expands p across the dimension when it does not vary by it, and
// collapses it otherwise.
func (c *DimensionCommand) Execute(p *Property) error {
	if !c.CanExecute(p) {
		return fmt.Errorf("%s: %w", p.Identity(), ErrNotSupported)
	}

	varied := c.IsVaried(p)
	var next []*PropertyValue
	if varied {
		var err error
		next, err = collapseDimension(p.values, c.dimension.Name)
		if err != nil {
			return fmt.Errorf("%s: %w", p.Identity(), err)
		}
	} else {
		next = expandDimension(p.values, c.dimension)
	}

	before := len(p.values)
	p.replaceValues(next)
	c.logger.Debug("configuration command executed",
		slog.String("property", p.Identity().String()),
		slog.String("dimension", c.dimension.Name),
		slog.Bool("collapsed", varied),
		slog.Int("before", before),
		slog.Int("after", len(next)))
	return nil
}

// SingleValueCommand collapses a property to one value for all configurations.
type SingleValueCommand struct {
	logger *slog.Logger
}

// Caption returns SingleValueCaption.
func (c *SingleValueCommand) Caption(*Property) string {
	return SingleValueCaption
}

// CanExecute reports whether p holds any value.
func (c *SingleValueCommand) CanExecute(p *Property) bool {
	return len(p.values) > 0
}

// Execute replaces p's values with the first value, unscoped.
func (c *SingleValueCommand) Execute(p *Property) error {
	if len(p.values) == 1 && p.values[0].AppliesToAll() {
		return nil
	}
	next, err := singleValue(p.values)
	if err != nil {
		return fmt.Errorf("%s: %w", p.Identity(), err)
	}
	before := len(p.values)
	p.replaceValues(next)
	c.logger.Debug("configuration command executed",
		slog.String("property", p.Identity().String()),
		slog.String("command", SingleValueCaption),
		slog.Int("before", before))
	return nil
}

// expandDimension returns the cross product of values and the dimension's
// allowed values. Each result keeps its source's content and dimensions and
// adds the dimension entry.
func expandDimension(values []*PropertyValue, dim Dimension) []*PropertyValue {
	out := make([]*PropertyValue, 0, len(values)*len(dim.Values))
	for _, v := range values {
		for _, dv := range dim.Values {
			out = append(out, v.withDimensions(v.dimensions.With(dim.Name, dv)))
		}
	}
	return out
}

// collapseDimension groups values by their dimensions without name and keeps
// the first value of each group. Other values in a group are discarded.
func collapseDimension(values []*PropertyValue, name string) ([]*PropertyValue, error) {
	if len(values) == 0 {
		return nil, ErrNoValues
	}

	type group struct {
		first *PropertyValue
		dims  Dimensions
	}
	var order []string
	groups := make(map[string]group)
	for _, v := range values {
		reduced := v.dimensions.Without(name)
		key := reduced.Key()
		if _, ok := groups[key]; !ok {
			groups[key] = group{first: v, dims: reduced}
			order = append(order, key)
		}
	}

	out := make([]*PropertyValue, 0, len(order))
	for _, key := range order {
		g := groups[key]
		out = append(out, g.first.withDimensions(g.dims))
	}
	return out, nil
}

// singleValue keeps the first value's content with no dimensions.
func singleValue(values []*PropertyValue) ([]*PropertyValue, error) {
	if len(values) == 0 {
		return nil, ErrNoValues
	}
	return []*PropertyValue{values[0].withDimensions(Dimensions{})}, nil
}
