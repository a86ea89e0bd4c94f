package aoa

import (
	"fmt"
	"slices"
)

// role tells which event of an activity a working vertex stands for.
type role uint8

const (
	roleStart role = iota
	roleEnd
)

// vkey identifies a working vertex: the start or end event of an activity.
type vkey struct {
	activity int
	role     role
}

func (k vkey) String() string {
	if k.role == roleStart {
		return fmt.Sprintf("S%d", k.activity)
	}
	return fmt.Sprintf("E%d", k.activity)
}

type wvertex struct {
	key   vkey
	in    []int
	out   []int
	alive bool
}

// wedge is an arc of the working graph. activity is meaningful only when
// hasActivity is set; otherwise the arc is a dummy.
type wedge struct {
	src, tgt    int
	activity    int
	hasActivity bool
	critical    bool
	alive       bool
}

func (e *wedge) dummy() bool { return !e.hasActivity }

// workGraph is the mutable graph the builder rewrites. Vertices and edges
// live in slices and are addressed by handle (their index); removal only
// clears the alive flag, so handles stay valid for the whole build.
type workGraph struct {
	vertices []wvertex
	vindex   map[vkey]int
	edges    []wedge
}

func newWorkGraph() *workGraph {
	return &workGraph{vindex: make(map[vkey]int)}
}

// vertex returns the handle for k, adding the vertex if needed.
func (w *workGraph) vertex(k vkey) int {
	if h, ok := w.vindex[k]; ok {
		return h
	}
	h := len(w.vertices)
	w.vertices = append(w.vertices, wvertex{key: k, alive: true})
	w.vindex[k] = h
	return h
}

func (w *workGraph) addEdge(src, tgt int, activityID int, hasActivity, critical bool) int {
	h := len(w.edges)
	w.edges = append(w.edges, wedge{
		src:         src,
		tgt:         tgt,
		activity:    activityID,
		hasActivity: hasActivity,
		critical:    critical,
		alive:       true,
	})
	w.vertices[src].out = append(w.vertices[src].out, h)
	w.vertices[tgt].in = append(w.vertices[tgt].in, h)
	return h
}

func (w *workGraph) addDummy(src, tgt int, critical bool) int {
	return w.addEdge(src, tgt, 0, false, critical)
}

func (w *workGraph) removeEdge(h int) {
	e := &w.edges[h]
	if !e.alive {
		return
	}
	e.alive = false
	src, tgt := &w.vertices[e.src], &w.vertices[e.tgt]
	src.out = slices.DeleteFunc(src.out, func(x int) bool { return x == h })
	tgt.in = slices.DeleteFunc(tgt.in, func(x int) bool { return x == h })
}

// removeVertex drops a vertex that no longer has edges.
func (w *workGraph) removeVertex(h int) {
	v := &w.vertices[h]
	for _, e := range slices.Clone(v.in) {
		w.removeEdge(e)
	}
	for _, e := range slices.Clone(v.out) {
		w.removeEdge(e)
	}
	v.alive = false
	delete(w.vindex, v.key)
}

// findEdge returns the live edge from src to tgt.
func (w *workGraph) findEdge(src, tgt int) (int, bool) {
	for _, h := range w.vertices[src].out {
		if w.edges[h].tgt == tgt {
			return h, true
		}
	}
	return 0, false
}

func (w *workGraph) inDegree(v int) int  { return len(w.vertices[v].in) }
func (w *workGraph) outDegree(v int) int { return len(w.vertices[v].out) }

// liveEdges lists live edges grouped by source vertex in vertex order,
// each group in insertion order.
func (w *workGraph) liveEdges() []int {
	var out []int
	for vh := range w.vertices {
		if !w.vertices[vh].alive {
			continue
		}
		out = append(out, w.vertices[vh].out...)
	}
	return out
}

func (w *workGraph) dummies() []int {
	var out []int
	for h := range w.edges {
		if w.edges[h].alive && w.edges[h].dummy() {
			out = append(out, h)
		}
	}
	return out
}
