// Package dag provides the precedence graph behind scheduling: an
// insertion-ordered directed acyclic graph of integer activity ids with
// dependency ordering, cycle reporting, transitive reduction and
// reachability queries.
//
// Every query that returns several ids returns them in a deterministic
// order derived from insertion order, never from map iteration.
package dag

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ErrCycle is returned when the graph contains a dependency cycle.
var ErrCycle = errors.New("cycle detected")

// ErrNodeNotFound is returned when an operation references a non-existent node.
var ErrNodeNotFound = errors.New("node not found")

// ErrDuplicateNode is returned when adding a node that already exists.
var ErrDuplicateNode = errors.New("duplicate node")

// ErrSelfEdge is returned when an edge would create a self-loop.
var ErrSelfEdge = errors.New("self-referencing edge")

// ErrUnresolvedReference is returned by Build under the Strict policy when
// a predecessor id has no declared node.
var ErrUnresolvedReference = errors.New("unresolved reference")

// CycleError describes a cycle found while ordering the graph.
type CycleError struct {
	// Cycle lists the ids along the cycle, first id repeated at the end.
	// It is empty when the cycle could not be traced.
	Cycle []int
	// Ordered and Total report how far ordering got before it stalled.
	Ordered int
	Total   int
}

func (e *CycleError) Error() string {
	msg := fmt.Sprintf("%s: %d of %d nodes could be ordered", ErrCycle, e.Ordered, e.Total)
	if len(e.Cycle) > 0 {
		msg += " (" + formatIDs(e.Cycle, " → ") + ")"
	}
	return msg
}

// Unwrap lets errors.Is match ErrCycle.
func (e *CycleError) Unwrap() error {
	return ErrCycle
}

// Edge is a precedence arc: From must finish before To starts.
type Edge struct {
	From, To int
}

// DAG is a precedence graph over integer ids. Edges point from a
// predecessor to its successor. Cycles are not rejected on insertion;
// they surface as a *CycleError from Order.
type DAG struct {
	ids      []int
	index    map[int]int
	implicit []bool
	// preds and succs are indexed like ids and hold neighbour ids in the
	// order the edges were added.
	preds [][]int
	succs [][]int
}

// New creates an empty DAG.
func New() *DAG {
	return &DAG{index: make(map[int]int)}
}

// AddNode adds a declared node. Returns ErrDuplicateNode if the id exists.
func (d *DAG) AddNode(id int) error {
	return d.addNode(id, false)
}

// AddImplicitNode adds a node that is referenced but was never declared.
func (d *DAG) AddImplicitNode(id int) error {
	return d.addNode(id, true)
}

func (d *DAG) addNode(id int, implicit bool) error {
	if _, exists := d.index[id]; exists {
		return fmt.Errorf("%w: %d", ErrDuplicateNode, id)
	}
	d.index[id] = len(d.ids)
	d.ids = append(d.ids, id)
	d.implicit = append(d.implicit, implicit)
	d.preds = append(d.preds, nil)
	d.succs = append(d.succs, nil)
	return nil
}

// AddEdge records that from precedes to. Both nodes must already exist.
// Adding an existing edge again is a no-op.
func (d *DAG) AddEdge(from, to int) error {
	if from == to {
		return fmt.Errorf("%w: %d", ErrSelfEdge, from)
	}
	fi, ok := d.index[from]
	if !ok {
		return fmt.Errorf("%w: %d", ErrNodeNotFound, from)
	}
	ti, ok := d.index[to]
	if !ok {
		return fmt.Errorf("%w: %d", ErrNodeNotFound, to)
	}
	if slices.Contains(d.succs[fi], to) {
		return nil
	}
	d.succs[fi] = append(d.succs[fi], to)
	d.preds[ti] = append(d.preds[ti], from)
	return nil
}

// Contains reports whether id is a node of the graph.
func (d *DAG) Contains(id int) bool {
	_, ok := d.index[id]
	return ok
}

// Implicit reports whether id was added as an undeclared reference.
func (d *DAG) Implicit(id int) bool {
	i, ok := d.index[id]
	return ok && d.implicit[i]
}

// Nodes returns all node ids in insertion order.
func (d *DAG) Nodes() []int {
	return slices.Clone(d.ids)
}

// Len returns the number of nodes in the DAG.
func (d *DAG) Len() int {
	return len(d.ids)
}

// Predecessors returns the ids that directly precede id.
func (d *DAG) Predecessors(id int) []int {
	i, ok := d.index[id]
	if !ok {
		return nil
	}
	return slices.Clone(d.preds[i])
}

// Successors returns the ids that directly follow id.
func (d *DAG) Successors(id int) []int {
	i, ok := d.index[id]
	if !ok {
		return nil
	}
	return slices.Clone(d.succs[i])
}

// Edges returns every edge, grouped by source in node order.
func (d *DAG) Edges() []Edge {
	var edges []Edge
	for i, from := range d.ids {
		for _, to := range d.succs[i] {
			edges = append(edges, Edge{From: from, To: to})
		}
	}
	return edges
}

// Roots returns the nodes with no predecessors.
func (d *DAG) Roots() []int {
	var roots []int
	for i, id := range d.ids {
		if len(d.preds[i]) == 0 {
			roots = append(roots, id)
		}
	}
	return roots
}

// Leaves returns the nodes with no successors.
func (d *DAG) Leaves() []int {
	var leaves []int
	for i, id := range d.ids {
		if len(d.succs[i]) == 0 {
			leaves = append(leaves, id)
		}
	}
	return leaves
}

// Order returns every node exactly once, each after all of its
// predecessors. It sweeps the nodes in insertion order repeatedly,
// emitting each node whose predecessors have all been emitted, until a
// sweep emits nothing. A node freed earlier in the same sweep counts as
// emitted, so ties resolve by insertion order within each sweep.
//
// If a sweep stalls with nodes left, the graph has a cycle and Order
// returns a *CycleError and no ordering.
func (d *DAG) Order() ([]int, error) {
	emitted := make([]bool, len(d.ids))
	order := make([]int, 0, len(d.ids))

	for len(order) < len(d.ids) {
		progressed := false
		for i, id := range d.ids {
			if emitted[i] || !d.allEmitted(d.preds[i], emitted) {
				continue
			}
			emitted[i] = true
			order = append(order, id)
			progressed = true
		}
		if !progressed {
			return nil, &CycleError{
				Cycle:   d.DetectCycle(),
				Ordered: len(order),
				Total:   len(d.ids),
			}
		}
	}
	return order, nil
}

func (d *DAG) allEmitted(ids []int, emitted []bool) bool {
	for _, id := range ids {
		if !emitted[d.index[id]] {
			return false
		}
	}
	return true
}

// DetectCycle returns the cycle path if one exists, or nil if the graph is
// acyclic. The first id is repeated at the end of the path.
// Uses DFS with coloring: white (unvisited), gray (in progress), black (done).
func (d *DAG) DetectCycle() []int {
	const (
		white = 0
		gray  = 1
		black = 2
	)

	color := make([]int, len(d.ids))
	parent := make([]int, len(d.ids))

	var dfs func(i int) []int
	dfs = func(i int) []int {
		color[i] = gray
		for _, next := range d.succs[i] {
			ni := d.index[next]
			if color[ni] == gray {
				// Walk parents back from i to next.
				cycle := []int{d.ids[i]}
				for cur := i; cur != ni; {
					cur = parent[cur]
					cycle = append(cycle, d.ids[cur])
				}
				slices.Reverse(cycle)
				return append(cycle, next)
			}
			if color[ni] == white {
				parent[ni] = i
				if cycle := dfs(ni); cycle != nil {
					return cycle
				}
			}
		}
		color[i] = black
		return nil
	}

	for i := range d.ids {
		if color[i] == white {
			if cycle := dfs(i); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}

// HasPath reports whether there is a directed path of one or more edges
// from src to dst.
func (d *DAG) HasPath(src, dst int) bool {
	si, ok := d.index[src]
	if !ok {
		return false
	}
	if _, ok := d.index[dst]; !ok {
		return false
	}
	visited := make([]bool, len(d.ids))
	queue := []int{si}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range d.succs[cur] {
			if next == dst {
				return true
			}
			ni := d.index[next]
			if !visited[ni] {
				visited[ni] = true
				queue = append(queue, ni)
			}
		}
	}
	return false
}

// Ancestors returns every node that transitively precedes id, in node order.
func (d *DAG) Ancestors(id int) []int {
	return d.reach(id, d.preds)
}

// Descendants returns every node that transitively follows id, in node order.
func (d *DAG) Descendants(id int) []int {
	return d.reach(id, d.succs)
}

func (d *DAG) reach(id int, adj [][]int) []int {
	start, ok := d.index[id]
	if !ok {
		return nil
	}
	visited := make([]bool, len(d.ids))
	stack := []int{start}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, next := range adj[cur] {
			ni := d.index[next]
			if !visited[ni] {
				visited[ni] = true
				stack = append(stack, ni)
			}
		}
	}
	var result []int
	for i, v := range visited {
		if v {
			result = append(result, d.ids[i])
		}
	}
	return result
}

func formatIDs(ids []int, sep string) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, sep)
}
