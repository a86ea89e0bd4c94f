package dag

import (
	"errors"
	"slices"
	"testing"
)

func TestNetworks(t *testing.T) {
	t.Parallel()

	t.Run("empty", func(t *testing.T) {
		t.Parallel()
		networks, err := New().Networks()
		if err != nil || networks != nil {
			t.Errorf("Networks() = %v, %v; want nil, nil", networks, err)
		}
	})

	t.Run("two independent chains", func(t *testing.T) {
		t.Parallel()
		// 3 → 4 and 1 → 2, declared interleaved.
		d := buildDAG(t, []nodeSpec{
			{4, []int{3}},
			{1, nil},
			{3, nil},
			{2, []int{1}},
		})
		networks, err := d.Networks()
		if err != nil {
			t.Fatalf("Networks: %v", err)
		}
		if len(networks) != 2 {
			t.Fatalf("got %d networks, want 2: %v", len(networks), networks)
		}
		if !slices.Equal(networks[0].NodeIDs, []int{1, 2}) {
			t.Errorf("network 0 = %v, want [1 2]", networks[0].NodeIDs)
		}
		if !slices.Equal(networks[1].NodeIDs, []int{3, 4}) {
			t.Errorf("network 1 = %v, want [3 4]", networks[1].NodeIDs)
		}
		for i, n := range networks {
			if n.ID != i {
				t.Errorf("network %d has ID %d", i, n.ID)
			}
		}
	})

	t.Run("joined through a shared successor", func(t *testing.T) {
		t.Parallel()
		d := buildDAG(t, []nodeSpec{{1, nil}, {2, nil}, {3, []int{1, 2}}})
		networks, err := d.Networks()
		if err != nil {
			t.Fatalf("Networks: %v", err)
		}
		if len(networks) != 1 || !slices.Equal(networks[0].NodeIDs, []int{1, 2, 3}) {
			t.Errorf("Networks() = %v, want one network [1 2 3]", networks)
		}
	})

	t.Run("cycle", func(t *testing.T) {
		t.Parallel()
		d := buildDAG(t, []nodeSpec{{1, []int{2}}, {2, []int{1}}})
		if _, err := d.Networks(); !errors.Is(err, ErrCycle) {
			t.Errorf("got %v, want ErrCycle", err)
		}
	})
}

func TestUnionFind(t *testing.T) {
	t.Parallel()
	uf := NewUnionFind()
	for _, x := range []int{5, 1, 3, 2} {
		uf.Add(x)
	}
	uf.Union(1, 2)
	uf.Union(5, 2)

	if uf.Find(5) != uf.Find(1) {
		t.Error("5 and 1 should be connected transitively")
	}
	if uf.Find(3) == uf.Find(1) {
		t.Error("3 should be alone")
	}
	got := uf.Components()
	want := [][]int{{5, 1, 2}, {3}}
	if len(got) != len(want) {
		t.Fatalf("Components() = %v, want %v", got, want)
	}
	for i := range want {
		if !slices.Equal(got[i], want[i]) {
			t.Errorf("component %d = %v, want %v", i, got[i], want[i])
		}
	}
}
