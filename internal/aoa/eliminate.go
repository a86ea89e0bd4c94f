package aoa

import (
	"container/heap"
	"slices"
)

// edgeQueue is a min-heap of edge handles, so candidates come out in the
// order the arcs were created.
type edgeQueue []int

func (q edgeQueue) Len() int           { return len(q) }
func (q edgeQueue) Less(i, j int) bool { return q[i] < q[j] }
func (q edgeQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *edgeQueue) Push(x any)        { *q = append(*q, x.(int)) }
func (q *edgeQueue) Pop() any {
	old := *q
	n := len(old)
	x := old[n-1]
	*q = old[:n-1]
	return x
}

// eliminate merges away dummy arcs that are the only arc leaving their
// source or the only arc entering their target, until none can go. Each
// merge folds one vertex into its neighbour. A merge that would put a
// second arc between an already joined pair of vertices is skipped; the
// arc is parked and retried after the next successful merge, since that
// merge may have changed its surroundings. Returns the number of merges.
func (st *build) eliminate() int {
	w := st.work
	queued := make(map[int]bool)
	q := &edgeQueue{}
	push := func(h int) {
		if !queued[h] {
			queued[h] = true
			heap.Push(q, h)
		}
	}
	for _, h := range w.dummies() {
		push(h)
	}

	merges := 0
	var parked []int
	for q.Len() > 0 {
		h := heap.Pop(q).(int)
		queued[h] = false
		if !w.edges[h].alive || !w.edges[h].dummy() {
			continue
		}

		added, ok := st.tryMerge(h)
		if !ok {
			parked = append(parked, h)
			continue
		}
		merges++
		for _, p := range parked {
			push(p)
		}
		parked = parked[:0]
		for _, a := range added {
			if w.edges[a].dummy() {
				push(a)
			}
		}
	}

	st.stats.Merges += merges
	st.logger.Debug("dummy elimination finished", "merges", merges, "remaining_dummies", len(w.dummies()))
	return merges
}

// tryMerge removes dummy arc h by folding one of its endpoints into the
// other. The source side is tried first: when h is the only arc leaving
// its source, arcs entering the source are rerouted to the target. Failing
// that, when h is the only arc entering its target, arcs leaving the
// target are rerouted from the source. Returns the handles of the rerouted
// arcs and whether a merge happened.
func (st *build) tryMerge(h int) ([]int, bool) {
	w := st.work
	e := w.edges[h]

	if w.outDegree(e.src) == 1 {
		incoming := w.vertices[e.src].in
		if st.wouldParallel(incoming, -1, e.tgt) {
			st.stats.AbortedMerges++
		} else {
			return st.fold(h, e.src, incoming, -1, e.tgt), true
		}
	}

	if w.inDegree(e.tgt) == 1 {
		outgoing := w.vertices[e.tgt].out
		if st.wouldParallel(outgoing, e.src, -1) {
			st.stats.AbortedMerges++
		} else {
			return st.fold(h, e.tgt, outgoing, e.src, -1), true
		}
	}
	return nil, false
}

// wouldParallel reports whether rerouting arcs onto newSrc or newTgt (-1
// keeps an end as is) would duplicate an arc already in the graph or one
// produced earlier by the same reroute.
func (st *build) wouldParallel(arcs []int, newSrc, newTgt int) bool {
	w := st.work
	type pair struct{ src, tgt int }
	planned := make(map[pair]bool, len(arcs))
	for _, h := range arcs {
		p := pair{w.edges[h].src, w.edges[h].tgt}
		if newSrc >= 0 {
			p.src = newSrc
		}
		if newTgt >= 0 {
			p.tgt = newTgt
		}
		if _, exists := w.findEdge(p.src, p.tgt); exists || planned[p] {
			return true
		}
		planned[p] = true
	}
	return false
}

// fold reroutes arcs onto newSrc or newTgt, then drops arc h and the
// vertex it left isolated.
func (st *build) fold(h, vertex int, arcs []int, newSrc, newTgt int) []int {
	w := st.work
	var added []int
	for _, a := range slices.Clone(arcs) {
		old := w.edges[a]
		src, tgt := old.src, old.tgt
		if newSrc >= 0 {
			src = newSrc
		}
		if newTgt >= 0 {
			tgt = newTgt
		}
		w.removeEdge(a)
		added = append(added, w.addEdge(src, tgt, old.activity, old.hasActivity, old.critical))
	}
	w.removeEdge(h)
	w.removeVertex(vertex)
	return added
}
