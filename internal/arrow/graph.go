// Package arrow holds the public activity-on-arrow graph: event vertices
// joined by arcs that either carry an activity or are dummies expressing
// precedence only.
package arrow

import (
	"fmt"

	"github.com/papapumpkin/arrowplan/internal/activity"
)

// VertexType classifies an event vertex.
type VertexType int

const (
	Normal VertexType = iota
	GraphStart
	GraphEnd
	Milestone
)

func (t VertexType) String() string {
	switch t {
	case Normal:
		return "normal"
	case GraphStart:
		return "start"
	case GraphEnd:
		return "end"
	case Milestone:
		return "milestone"
	default:
		return fmt.Sprintf("VertexType(%d)", int(t))
	}
}

// Vertex is an event in the arrow graph. Vertices are equal when their
// ids are.
type Vertex struct {
	ID   int
	Type VertexType
	// Milestone is the zero-duration activity a Milestone vertex marks.
	Milestone *activity.Activity
	// Timing is the schedule of the activity that owns the event, nil when
	// none was computed.
	Timing *activity.Timing
}

// Edge is an arc between two vertices. A nil Activity makes it a dummy.
type Edge struct {
	ID       int
	Source   int
	Target   int
	Activity *activity.Activity
	Critical bool
}

// IsDummy reports whether the arc carries no activity.
func (e *Edge) IsDummy() bool {
	return e.Activity == nil
}

func (e *Edge) String() string {
	if e.IsDummy() {
		return fmt.Sprintf("e%d: %d -> %d (dummy)", e.ID, e.Source, e.Target)
	}
	return fmt.Sprintf("e%d: %d -> %d [%s]", e.ID, e.Source, e.Target, e.Activity)
}

// Graph is a set of edges keyed by id plus the vertices they touch.
// Vertices exist only while an edge references them. Iteration follows
// insertion order.
type Graph struct {
	vertices []*Vertex
	vindex   map[int]int
	edges    []*Edge
	eindex   map[int]int
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		vindex: make(map[int]int),
		eindex: make(map[int]int),
	}
}

// AddEdge inserts e between source and target and reports whether it was
// added. An edge whose id is already present is left untouched. Endpoint
// vertices are added on first use; a vertex already present keeps its
// original payload.
func (g *Graph) AddEdge(source, target Vertex, e Edge) bool {
	if _, ok := g.eindex[e.ID]; ok {
		return false
	}
	g.addVertex(source)
	g.addVertex(target)
	e.Source = source.ID
	e.Target = target.ID
	g.eindex[e.ID] = len(g.edges)
	g.edges = append(g.edges, &e)
	return true
}

func (g *Graph) addVertex(v Vertex) {
	if _, ok := g.vindex[v.ID]; ok {
		return
	}
	g.vindex[v.ID] = len(g.vertices)
	g.vertices = append(g.vertices, &v)
}

// RemoveEdge deletes the edge with the given id and any endpoint left
// without edges. Reports whether the edge existed.
func (g *Graph) RemoveEdge(id int) bool {
	e, ok := g.edge(id)
	if !ok {
		return false
	}
	i := g.eindex[id]
	g.edges = append(g.edges[:i], g.edges[i+1:]...)
	g.eindex = make(map[int]int, len(g.edges))
	for j, other := range g.edges {
		g.eindex[other.ID] = j
	}

	for _, vid := range []int{e.Source, e.Target} {
		if g.InDegree(vid)+g.OutDegree(vid) == 0 {
			g.removeVertex(vid)
		}
	}
	return true
}

func (g *Graph) removeVertex(id int) {
	i, ok := g.vindex[id]
	if !ok {
		return
	}
	g.vertices = append(g.vertices[:i], g.vertices[i+1:]...)
	g.vindex = make(map[int]int, len(g.vertices))
	for j, v := range g.vertices {
		g.vindex[v.ID] = j
	}
}

// Vertex returns the vertex with the given id.
func (g *Graph) Vertex(id int) (*Vertex, bool) {
	i, ok := g.vindex[id]
	if !ok {
		return nil, false
	}
	return g.vertices[i], true
}

func (g *Graph) edge(id int) (*Edge, bool) {
	i, ok := g.eindex[id]
	if !ok {
		return nil, false
	}
	return g.edges[i], true
}

// FindEdge returns the edge from source to target, if any.
func (g *Graph) FindEdge(source, target int) (*Edge, bool) {
	for _, e := range g.edges {
		if e.Source == source && e.Target == target {
			return e, true
		}
	}
	return nil, false
}

// Vertices returns all vertices in insertion order.
func (g *Graph) Vertices() []*Vertex {
	out := make([]*Vertex, len(g.vertices))
	copy(out, g.vertices)
	return out
}

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []*Edge {
	out := make([]*Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// OutEdges returns the edges leaving the vertex.
func (g *Graph) OutEdges(id int) []*Edge {
	var out []*Edge
	for _, e := range g.edges {
		if e.Source == id {
			out = append(out, e)
		}
	}
	return out
}

// InEdges returns the edges entering the vertex.
func (g *Graph) InEdges(id int) []*Edge {
	var in []*Edge
	for _, e := range g.edges {
		if e.Target == id {
			in = append(in, e)
		}
	}
	return in
}

// OutDegree returns the number of edges leaving the vertex.
func (g *Graph) OutDegree(id int) int { return len(g.OutEdges(id)) }

// InDegree returns the number of edges entering the vertex.
func (g *Graph) InDegree(id int) int { return len(g.InEdges(id)) }

// VertexCount returns the number of vertices.
func (g *Graph) VertexCount() int { return len(g.vertices) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// DummyCount returns the number of edges without an activity.
func (g *Graph) DummyCount() int {
	n := 0
	for _, e := range g.edges {
		if e.IsDummy() {
			n++
		}
	}
	return n
}

// CriticalEdges returns the critical edges in insertion order.
func (g *Graph) CriticalEdges() []*Edge {
	var out []*Edge
	for _, e := range g.edges {
		if e.Critical {
			out = append(out, e)
		}
	}
	return out
}
