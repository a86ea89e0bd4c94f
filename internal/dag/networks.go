package dag

// Network is an independent sub-network of the precedence graph: its
// nodes share no precedence path with nodes of any other network, so the
// networks can be scheduled and drawn separately.
type Network struct {
	// ID is assigned from 0 in order of each network's earliest node.
	ID int

	// NodeIDs lists the network's nodes in dependency order.
	NodeIDs []int
}

// Networks partitions the graph into independent sub-networks using
// Union-Find. Returns a *CycleError if the graph contains a cycle.
func (d *DAG) Networks() ([]Network, error) {
	if len(d.ids) == 0 {
		return nil, nil
	}

	order, err := d.Order()
	if err != nil {
		return nil, err
	}

	// Insert in dependency order so each component lists its members in
	// that order too.
	uf := NewUnionFind()
	for _, id := range order {
		uf.Add(id)
	}
	for _, e := range d.Edges() {
		uf.Union(e.From, e.To)
	}

	components := uf.Components()
	networks := make([]Network, len(components))
	for i, members := range components {
		networks[i] = Network{ID: i, NodeIDs: members}
	}
	return networks, nil
}
