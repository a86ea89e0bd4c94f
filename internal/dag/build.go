package dag

import (
	"fmt"
	"slices"
	"strings"
)

// UnresolvedPolicy decides what Build does with predecessor ids that name
// no declared node.
type UnresolvedPolicy int

const (
	// Implicit adds each unresolved id as a node with no predecessors of
	// its own, after all declared nodes, in first-reference order.
	Implicit UnresolvedPolicy = iota
	// Strict fails with ErrUnresolvedReference.
	Strict
)

func (p UnresolvedPolicy) String() string {
	switch p {
	case Implicit:
		return "implicit"
	case Strict:
		return "strict"
	default:
		return fmt.Sprintf("UnresolvedPolicy(%d)", int(p))
	}
}

// ParsePolicy maps a configuration value to a policy.
func ParsePolicy(s string) (UnresolvedPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "implicit":
		return Implicit, nil
	case "strict":
		return Strict, nil
	default:
		return 0, fmt.Errorf("unknown unresolved reference policy %q", s)
	}
}

// Node is a declared node together with the ids it depends on.
type Node struct {
	ID           int
	Predecessors []int
}

// Build constructs a DAG from declared nodes. Node order is preserved.
// Duplicate declarations fail with ErrDuplicateNode. A node listing itself
// as a predecessor is a cycle of length one and fails with a *CycleError.
// Longer cycles are not checked here; call Order.
func Build(nodes []Node, policy UnresolvedPolicy) (*DAG, error) {
	d := New()
	for _, n := range nodes {
		if err := d.AddNode(n.ID); err != nil {
			return nil, err
		}
	}

	var unresolved []int
	for _, n := range nodes {
		for _, p := range n.Predecessors {
			if d.Contains(p) || slices.Contains(unresolved, p) {
				continue
			}
			unresolved = append(unresolved, p)
			if policy == Implicit {
				// Cannot fail: Contains was false.
				_ = d.AddImplicitNode(p)
			}
		}
	}
	if policy == Strict && len(unresolved) > 0 {
		return nil, fmt.Errorf("%w: predecessor ids %s have no activity", ErrUnresolvedReference, formatIDs(unresolved, ", "))
	}

	for _, n := range nodes {
		if slices.Contains(n.Predecessors, n.ID) {
			return nil, &CycleError{Cycle: []int{n.ID, n.ID}, Total: d.Len()}
		}
	}

	for _, n := range nodes {
		for _, p := range n.Predecessors {
			if err := d.AddEdge(p, n.ID); err != nil {
				return nil, err
			}
		}
	}
	return d, nil
}
