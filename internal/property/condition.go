package property

import (
	"fmt"
)

// Condition declares that Target is visible only while Source's evaluated
// value equals Value. Conditions sharing a target combine with OR.
type Condition struct {
	Source Identity
	Value  Value
	Target Identity
}

// String returns "source == value -> target".
func (c Condition) String() string {
	return fmt.Sprintf("[%s] == %q -> [%s]", c.Source, c.Value.String(), c.Target)
}

// edge is a resolved condition.
type edge struct {
	cond   Condition
	source *Property
	target *Property
}

// findCycle returns the identities along the first cycle found in the
// source -> target graph, or nil if the graph is acyclic.
func findCycle(edges []edge) []Identity {
	adj := make(map[*Property][]*Property)
	var nodes []*Property
	seen := make(map[*Property]bool)
	for _, e := range edges {
		adj[e.source] = append(adj[e.source], e.target)
		for _, n := range []*Property{e.source, e.target} {
			if !seen[n] {
				seen[n] = true
				nodes = append(nodes, n)
			}
		}
	}

	const (
		unvisited = iota
		inProgress
		done
	)
	state := make(map[*Property]int, len(nodes))
	var stack []*Property

	var visit func(n *Property) []Identity
	visit = func(n *Property) []Identity {
		state[n] = inProgress
		stack = append(stack, n)
		for _, next := range adj[n] {
			switch state[next] {
			case inProgress:
				// Cycle runs from next's position on the stack back to next.
				var path []Identity
				start := 0
				for i, s := range stack {
					if s == next {
						start = i
						break
					}
				}
				for _, s := range stack[start:] {
					path = append(path, s.Identity())
				}
				return append(path, next.Identity())
			case unvisited:
				if cycle := visit(next); cycle != nil {
					return cycle
				}
			}
		}
		stack = stack[:len(stack)-1]
		state[n] = done
		return nil
	}

	for _, n := range nodes {
		if state[n] == unvisited {
			if cycle := visit(n); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}
