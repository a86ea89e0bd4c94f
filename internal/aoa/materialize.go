package aoa

import "github.com/papapumpkin/arrowplan/internal/arrow"

// materialize copies the working graph into a public arrow graph. Vertex
// ids are handed out in order of first appearance while walking the arcs,
// and arc ids per (source, target) pair, so the output depends only on the
// input order.
func (st *build) materialize() *arrow.Graph {
	w := st.work
	g := arrow.New()

	vertexIDs := make(map[int]int)
	vertexID := func(h int) int {
		id, ok := vertexIDs[h]
		if !ok {
			id = len(vertexIDs)
			vertexIDs[h] = id
		}
		return id
	}
	type pair struct{ src, tgt int }
	edgeIDs := make(map[pair]int)

	for _, h := range w.liveEdges() {
		e := w.edges[h]
		src := st.publicVertex(vertexID(e.src), e.src)
		tgt := st.publicVertex(vertexID(e.tgt), e.tgt)

		key := pair{src.ID, tgt.ID}
		id, ok := edgeIDs[key]
		if !ok {
			id = len(edgeIDs)
			edgeIDs[key] = id
		}

		out := arrow.Edge{ID: id, Critical: e.critical}
		if e.hasActivity {
			out.Activity = st.activityOf(e.activity)
		}
		g.AddEdge(src, tgt, out)
	}

	st.stats.Vertices = g.VertexCount()
	st.stats.Edges = g.EdgeCount()
	st.stats.DummyEdges = g.DummyCount()
	st.stats.CriticalEdges = len(g.CriticalEdges())
	return g
}

// publicVertex classifies working vertex h by its degree: nothing in makes
// a graph start, nothing out a graph end.
func (st *build) publicVertex(id, h int) arrow.Vertex {
	w := st.work
	key := w.vertices[h].key
	v := arrow.Vertex{ID: id, Timing: st.timing(key.activity)}

	switch {
	case w.inDegree(h) == 0:
		v.Type = arrow.GraphStart
	case w.outDegree(h) == 0:
		v.Type = arrow.GraphEnd
	default:
		v.Type = arrow.Normal
		if st.milestones && key.role == roleEnd {
			if d, ok := st.records[key.activity]; ok && d.Activity.Duration == 0 {
				v.Type = arrow.Milestone
				v.Milestone = st.activityOf(key.activity)
			}
		}
	}
	return v
}
