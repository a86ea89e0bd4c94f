package dag

// UnionFind implements a disjoint-set (union-find) data structure with
// path compression and union by rank over integer ids.
type UnionFind struct {
	parent map[int]int
	rank   map[int]int
	// order records first insertion so Components is deterministic.
	order []int
}

// NewUnionFind creates an empty UnionFind.
func NewUnionFind() *UnionFind {
	return &UnionFind{
		parent: make(map[int]int),
		rank:   make(map[int]int),
	}
}

// Add inserts an element as its own singleton set. If the element
// already exists, this is a no-op.
func (uf *UnionFind) Add(x int) {
	if _, ok := uf.parent[x]; ok {
		return
	}
	uf.parent[x] = x
	uf.rank[x] = 0
	uf.order = append(uf.order, x)
}

// Find returns the representative (root) of the set containing x.
// If x has not been added, it is auto-added as a singleton first.
func (uf *UnionFind) Find(x int) int {
	if _, ok := uf.parent[x]; !ok {
		uf.Add(x)
		return x
	}
	if uf.parent[x] != x {
		uf.parent[x] = uf.Find(uf.parent[x]) // path compression
	}
	return uf.parent[x]
}

// Union merges the sets containing x and y.
func (uf *UnionFind) Union(x, y int) {
	rx := uf.Find(x)
	ry := uf.Find(y)
	if rx == ry {
		return
	}
	switch {
	case uf.rank[rx] < uf.rank[ry]:
		uf.parent[rx] = ry
	case uf.rank[rx] > uf.rank[ry]:
		uf.parent[ry] = rx
	default:
		uf.parent[ry] = rx
		uf.rank[rx]++
	}
}

// Components returns the disjoint sets. Sets are ordered by their first
// inserted member and members keep insertion order.
func (uf *UnionFind) Components() [][]int {
	slot := make(map[int]int)
	var groups [][]int
	for _, x := range uf.order {
		root := uf.Find(x)
		i, ok := slot[root]
		if !ok {
			i = len(groups)
			slot[root] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], x)
	}
	return groups
}
