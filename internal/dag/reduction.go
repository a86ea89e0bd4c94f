package dag

// TransitiveReduction returns a copy of the graph without the edges u → v
// for which another path from u to v exists. Reachability between every
// pair of nodes is unchanged. Node order, implicit flags and the order of
// the surviving edges are preserved.
//
// Returns a *CycleError if the graph is not acyclic, since the reduction
// of a cyclic graph is not unique.
func (d *DAG) TransitiveReduction() (*DAG, error) {
	if _, err := d.Order(); err != nil {
		return nil, err
	}

	reduced := New()
	for i, id := range d.ids {
		// Cannot fail: ids are unique in d.
		_ = reduced.addNode(id, d.implicit[i])
	}

	for i, from := range d.ids {
		// Everything reachable from u in one or more steps through a
		// successor. A direct successor found here is implied.
		implied := make(map[int]bool)
		for _, via := range d.succs[i] {
			for _, id := range d.Descendants(via) {
				implied[id] = true
			}
		}
		for _, to := range d.succs[i] {
			if implied[to] {
				continue
			}
			// Cannot fail: both ends exist and the edge is not a self-loop.
			_ = reduced.AddEdge(from, to)
		}
	}
	return reduced, nil
}
