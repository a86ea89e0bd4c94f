package activity

import "slices"

// Reconcile makes predecessor and successor lists agree. A source may only
// fill in one direction, or fill both inconsistently; each declared edge is
// applied to both ends. Duplicate ids are dropped, first-seen order is kept,
// and ids with no record are left as references. The input is not modified.
func Reconcile(deps []Dependency) []Dependency {
	out := make([]Dependency, len(deps))
	index := make(map[int]int, len(deps))
	for i, d := range deps {
		out[i] = d
		out[i].Predecessors = nil
		out[i].Successors = nil
		index[d.Activity.ID] = i
	}

	addPred := func(i, id int) {
		if !slices.Contains(out[i].Predecessors, id) {
			out[i].Predecessors = append(out[i].Predecessors, id)
		}
	}
	addSucc := func(i, id int) {
		if !slices.Contains(out[i].Successors, id) {
			out[i].Successors = append(out[i].Successors, id)
		}
	}

	for i, d := range deps {
		for _, p := range d.Predecessors {
			addPred(i, p)
			if j, ok := index[p]; ok {
				addSucc(j, d.Activity.ID)
			}
		}
		for _, s := range d.Successors {
			addSucc(i, s)
			if j, ok := index[s]; ok {
				addPred(j, d.Activity.ID)
			}
		}
	}
	return out
}

// Successors derives successor lists from predecessor lists, the way
// sources that only record predecessors need.
func Successors(deps []Dependency) map[int][]int {
	succ := make(map[int][]int, len(deps))
	for _, d := range deps {
		for _, p := range d.Predecessors {
			if !slices.Contains(succ[p], d.Activity.ID) {
				succ[p] = append(succ[p], d.Activity.ID)
			}
		}
	}
	return succ
}
