package aoa

import "slices"

// redirect visits every activity end event as a nexus. A dummy source that
// feeds every dependent of the nexus is rewired to feed the nexus instead,
// replacing one arc per dependent with a single arc upstream. The new arc
// is critical if any arc it replaces was.
func (st *build) redirect() {
	w := st.work
	for nexus := range w.vertices {
		v := &w.vertices[nexus]
		if !v.alive || v.key.role != roleEnd || len(v.out) == 0 {
			continue
		}

		dependents := make([]int, 0, len(v.out))
		for _, h := range v.out {
			dependents = append(dependents, w.edges[h].tgt)
		}

		for _, common := range st.commonSources(dependents) {
			if common == nexus {
				continue
			}
			st.redirectToNexus(nexus, dependents, common)
		}
	}
}

// commonSources returns the sources of dummy arcs that enter every one of
// vertices, in the order they enter the first.
func (st *build) commonSources(vertices []int) []int {
	w := st.work
	var common []int
	for i, v := range vertices {
		var sources []int
		for _, h := range w.vertices[v].in {
			if e := &w.edges[h]; e.dummy() {
				sources = append(sources, e.src)
			}
		}
		if i == 0 {
			common = sources
			continue
		}
		common = slices.DeleteFunc(common, func(c int) bool {
			return !slices.Contains(sources, c)
		})
		if len(common) == 0 {
			return nil
		}
	}
	return common
}

func (st *build) redirectToNexus(nexus int, dependents []int, common int) {
	w := st.work
	critical := false
	for _, h := range slices.Clone(w.vertices[common].out) {
		e := &w.edges[h]
		if !slices.Contains(dependents, e.tgt) {
			continue
		}
		critical = critical || e.critical
		w.removeEdge(h)
	}

	// An arc already joining the two events absorbs the redirected ones.
	if h, ok := w.findEdge(common, nexus); ok {
		w.edges[h].critical = w.edges[h].critical || critical
	} else {
		w.addDummy(common, nexus, critical)
	}
	st.stats.Redirections++
}
