package activity

import (
	"slices"
	"testing"
)

func TestActivityIsCritical(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		slack *int
		want  bool
	}{
		{"no slack supplied", nil, false},
		{"zero slack", Slack(0), true},
		{"positive slack", Slack(3), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			a := Activity{ID: 1, TotalSlack: tt.slack}
			if got := a.IsCritical(); got != tt.want {
				t.Errorf("IsCritical() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTiming(t *testing.T) {
	t.Parallel()

	pinned := Timing{EarliestStart: 15, LatestStart: 15, EarliestFinish: 25, LatestFinish: 25}
	if !pinned.IsCritical() || pinned.Slack() != 0 {
		t.Errorf("%v: critical=%v slack=%d", pinned, pinned.IsCritical(), pinned.Slack())
	}

	loose := Timing{EarliestStart: 5, LatestStart: 12, EarliestFinish: 8, LatestFinish: 15}
	if loose.IsCritical() || loose.Slack() != 7 {
		t.Errorf("%v: critical=%v slack=%d", loose, loose.IsCritical(), loose.Slack())
	}
	if got, want := loose.String(), "(5 | 12) -> (8 | 15)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestDependencyCritical(t *testing.T) {
	t.Parallel()

	d := &Dependency{Activity: Activity{ID: 4, Duration: 10}}
	if d.Critical() {
		t.Error("unscheduled dependency without slack should not be critical")
	}

	d.SetTiming(Timing{EarliestStart: 15, LatestStart: 15, EarliestFinish: 25, LatestFinish: 25})
	if !d.Scheduled || !d.Critical() {
		t.Error("computed zero slack should make the dependency critical")
	}

	// Supplied slack wins over the computed schedule.
	d.Activity.TotalSlack = Slack(2)
	if d.Critical() {
		t.Error("supplied slack should override computed timing")
	}
}

func TestReconcile(t *testing.T) {
	t.Parallel()

	in := []Dependency{
		{Activity: Activity{ID: 1}, Successors: []int{2, 3}},
		{Activity: Activity{ID: 2}, Predecessors: []int{1, 1}},
		{Activity: Activity{ID: 3}, Successors: []int{4}},
		{Activity: Activity{ID: 4}, Predecessors: []int{9}},
	}
	out := Reconcile(in)

	want := []struct {
		preds, succs []int
	}{
		{nil, []int{2, 3}},
		{[]int{1}, nil},
		{[]int{1}, []int{4}},
		{[]int{3, 9}, nil},
	}
	for i, w := range want {
		if !slices.Equal(out[i].Predecessors, w.preds) {
			t.Errorf("%d: Predecessors = %v, want %v", out[i].Activity.ID, out[i].Predecessors, w.preds)
		}
		if !slices.Equal(out[i].Successors, w.succs) {
			t.Errorf("%d: Successors = %v, want %v", out[i].Activity.ID, out[i].Successors, w.succs)
		}
	}

	if len(in[1].Predecessors) != 2 || in[0].Predecessors != nil {
		t.Error("Reconcile modified its input")
	}
}

func TestSuccessors(t *testing.T) {
	t.Parallel()

	succ := Successors([]Dependency{
		{Activity: Activity{ID: 2}, Predecessors: []int{1}},
		{Activity: Activity{ID: 3}, Predecessors: []int{1, 2}},
	})
	if !slices.Equal(succ[1], []int{2, 3}) || !slices.Equal(succ[2], []int{3}) {
		t.Errorf("Successors() = %v", succ)
	}
	if len(succ[3]) != 0 {
		t.Errorf("3 has no successors, got %v", succ[3])
	}
}
