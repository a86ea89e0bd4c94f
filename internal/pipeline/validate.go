package pipeline

import (
	"fmt"
	"slices"

	"github.com/papapumpkin/arrowplan/internal/activity"
	"github.com/papapumpkin/arrowplan/internal/cpm"
	"github.com/papapumpkin/arrowplan/internal/dag"
)

// Validation is the outcome of checking an activity list without
// scheduling it.
type Validation struct {
	Activities int
	// Implicit lists referenced ids with no activity of their own. Under
	// the strict policy they are reported as a problem instead.
	Implicit []int
	// Starts and Ends list the nodes without predecessors and without
	// successors. Both are empty when the network has a cycle.
	Starts []int
	Ends   []int
	// Redundant lists predecessor links already implied through another
	// predecessor of the same activity.
	Redundant []dag.Edge
	Problems  []error
}

// OK reports whether no problems were found.
func (v Validation) OK() bool {
	return len(v.Problems) == 0
}

// Validate checks that deps form a schedulable precedence network: no
// duplicate ids, no self references, no cycles and, under dag.Strict, no
// unresolved predecessors.
func Validate(deps []*activity.Dependency, policy dag.UnresolvedPolicy) Validation {
	v := Validation{Activities: len(deps)}
	for _, d := range deps {
		if d.Activity.Duration < 0 {
			v.Problems = append(v.Problems, fmt.Errorf("%w: activity %d has duration %d", cpm.ErrNegativeDuration, d.Activity.ID, d.Activity.Duration))
		}
	}

	nodes := make([]dag.Node, len(deps))
	for i, d := range deps {
		nodes[i] = dag.Node{ID: d.Activity.ID, Predecessors: d.Predecessors}
	}
	g, err := dag.Build(nodes, policy)
	if err != nil {
		v.Problems = append(v.Problems, err)
		return v
	}
	for _, id := range g.Nodes() {
		if g.Implicit(id) {
			v.Implicit = append(v.Implicit, id)
		}
	}
	if _, err := g.Order(); err != nil {
		v.Problems = append(v.Problems, err)
		return v
	}
	v.Starts = g.Roots()
	v.Ends = g.Leaves()
	v.Redundant = redundantLinks(g)
	return v
}

// redundantLinks finds each edge p -> a where p is also an ancestor of
// another predecessor of a.
func redundantLinks(g *dag.DAG) []dag.Edge {
	var out []dag.Edge
	for _, id := range g.Nodes() {
		preds := g.Predecessors(id)
		if len(preds) < 2 {
			continue
		}
		ancestors := make(map[int][]int, len(preds))
		for _, q := range preds {
			ancestors[q] = g.Ancestors(q)
		}
		for _, p := range preds {
			for _, q := range preds {
				if q != p && slices.Contains(ancestors[q], p) {
					out = append(out, dag.Edge{From: p, To: id})
					break
				}
			}
		}
	}
	return out
}
