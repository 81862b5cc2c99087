package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dshills/propsheet/internal/profile"
	"github.com/dshills/propsheet/internal/property"
)

func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

// printSections writes properties grouped by page and category.
func printSections(w io.Writer, sections []property.Section) error {
	if len(sections) == 0 {
		_, err := fmt.Fprintln(w, "no properties")
		return err
	}

	tw := newTabWriter(w)
	for i, s := range sections {
		if i > 0 {
			fmt.Fprintln(tw)
		}
		fmt.Fprintf(tw, "== %s ==\n", s.Page)
		for _, c := range s.Categories {
			fmt.Fprintf(tw, "[%s]\n", c.Category)
			for _, p := range c.Properties {
				fmt.Fprintf(tw, "  %s\t%s\t%s\n", p.Name(), formatValues(p), flags(p))
			}
		}
	}
	return tw.Flush()
}

// printMatches writes the visible properties of a search.
func printMatches(w io.Writer, props []*property.Property, n int) error {
	tw := newTabWriter(w)
	for _, p := range props {
		fmt.Fprintf(tw, "%s\t%s\n", p.Identity(), formatValues(p))
	}
	fmt.Fprintf(tw, "%d visible\n", n)
	return tw.Flush()
}

// printValues writes each value of p with its configuration point.
func printValues(w io.Writer, p *property.Property) error {
	tw := newTabWriter(w)
	for _, v := range p.Values() {
		fmt.Fprintf(tw, "  %s:\t%s\n", v.Dimensions(), quote(v.EvaluatedValue()))
	}
	return tw.Flush()
}

// printCommands writes each configuration command's caption for p.
func printCommands(w io.Writer, p *property.Property, cmds []property.ConfigurationCommand) error {
	if len(cmds) == 0 {
		_, err := fmt.Fprintln(w, "no configurable dimensions")
		return err
	}
	tw := newTabWriter(w)
	for _, c := range cmds {
		state := "available"
		if !c.CanExecute(p) {
			state = "unavailable"
		}
		fmt.Fprintf(tw, "%s\t%s\n", c.Caption(p), state)
	}
	return tw.Flush()
}

// printProfiles writes the launch profiles.
func printProfiles(w io.Writer, profiles []*profile.Profile) error {
	tw := newTabWriter(w)
	fmt.Fprintln(tw, "ID\tNAME\tPROPERTIES\tSKIPPED CONDITIONS")
	for _, p := range profiles {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n", p.ID, p.Name, p.Context.Len(), len(p.Context.SkippedConditions()))
	}
	return tw.Flush()
}

func formatValues(p *property.Property) string {
	values := p.Values()
	switch {
	case len(values) == 0:
		return "(action)"
	case len(values) == 1 && values[0].AppliesToAll():
		return quote(values[0].EvaluatedValue())
	}
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, v.Dimensions().String()+": "+quote(v.EvaluatedValue()))
	}
	return strings.Join(parts, "; ")
}

func flags(p *property.Property) string {
	var f []string
	if !p.IsConditionalVisible() {
		f = append(f, "hidden")
	}
	if p.Metadata().SupportsPerConfigurationValues {
		f = append(f, "per-config")
	}
	return strings.Join(f, ",")
}

func quote(v property.Value) string {
	if v.IsTextual() {
		return fmt.Sprintf("%q", v.String())
	}
	return v.String()
}
