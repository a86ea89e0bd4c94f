package dag

import (
	"errors"
	"slices"
	"testing"
)

func TestTransitiveReduction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		specs []nodeSpec
		want  []Edge
	}{
		{
			name:  "chain with shortcut",
			specs: []nodeSpec{{1, nil}, {2, []int{1}}, {3, []int{1, 2}}},
			want:  []Edge{{1, 2}, {2, 3}},
		},
		{
			name: "diamond is already reduced",
			specs: []nodeSpec{
				{1, nil},
				{2, []int{1}},
				{3, []int{1}},
				{4, []int{2, 3}},
			},
			want: []Edge{{1, 2}, {1, 3}, {2, 4}, {3, 4}},
		},
		{
			name: "project network drops 2→6",
			specs: []nodeSpec{
				{1, nil},
				{2, []int{1}},
				{3, []int{1}},
				{4, []int{2, 3}},
				{5, []int{4}},
				{6, []int{2, 5}},
			},
			want: []Edge{{1, 2}, {1, 3}, {2, 4}, {3, 4}, {4, 5}, {5, 6}},
		},
		{
			name: "long shortcut",
			specs: []nodeSpec{
				{1, nil},
				{2, []int{1}},
				{3, []int{2}},
				{4, []int{3, 1}},
			},
			want: []Edge{{1, 2}, {2, 3}, {3, 4}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			d := buildDAG(t, tt.specs)
			r, err := d.TransitiveReduction()
			if err != nil {
				t.Fatalf("TransitiveReduction: %v", err)
			}
			if got := r.Edges(); !slices.Equal(got, tt.want) {
				t.Errorf("Edges() = %v, want %v", got, tt.want)
			}
			assertSameReachability(t, d, r)
		})
	}
}

func TestTransitiveReduction_KeepsImplicitNodes(t *testing.T) {
	t.Parallel()
	d := buildDAG(t, []nodeSpec{{1, []int{9}}, {2, []int{1, 9}}})
	r, err := d.TransitiveReduction()
	if err != nil {
		t.Fatalf("TransitiveReduction: %v", err)
	}
	if !r.Implicit(9) {
		t.Error("implicit flag lost")
	}
	if got := r.Edges(); !slices.Equal(got, []Edge{{1, 2}, {9, 1}}) {
		t.Errorf("Edges() = %v", got)
	}
}

func TestTransitiveReduction_Cycle(t *testing.T) {
	t.Parallel()
	d := buildDAG(t, []nodeSpec{{1, []int{2}}, {2, []int{1}}})
	if _, err := d.TransitiveReduction(); !errors.Is(err, ErrCycle) {
		t.Errorf("got %v, want ErrCycle", err)
	}
}

// assertSameReachability checks that every ordered pair reachable in one
// graph is reachable in the other.
func assertSameReachability(t *testing.T, a, b *DAG) {
	t.Helper()
	for _, u := range a.Nodes() {
		for _, v := range a.Nodes() {
			if a.HasPath(u, v) != b.HasPath(u, v) {
				t.Errorf("reachability %d→%d changed: %v vs %v", u, v, a.HasPath(u, v), b.HasPath(u, v))
			}
		}
	}
}
