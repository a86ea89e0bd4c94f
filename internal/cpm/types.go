package cpm

import (
	"github.com/papapumpkin/arrowplan/internal/activity"
	"github.com/papapumpkin/arrowplan/internal/dag"
)

// Task is what the calculator needs to know about a caller's record.
type Task interface {
	TaskID() int
	TaskDuration() int
	TaskPredecessors() []int
}

// Observer receives the timing computed for each task passed to Compute.
// It is called once per task, in dependency order, and only when the whole
// computation succeeded.
type Observer interface {
	ObserveTiming(t Task, timing activity.Timing)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(t Task, timing activity.Timing)

// ObserveTiming calls f(t, timing).
func (f ObserverFunc) ObserveTiming(t Task, timing activity.Timing) {
	f(t, timing)
}

// SetTimings writes timing back onto every task that has a
// SetTiming(activity.Timing) method, such as *activity.Dependency.
var SetTimings Observer = ObserverFunc(func(t Task, timing activity.Timing) {
	if s, ok := t.(interface{ SetTiming(activity.Timing) }); ok {
		s.SetTiming(timing)
	}
})

// Result holds the complete critical path analysis.
type Result struct {
	// Order is the dependency order every pass walked.
	Order []int
	// Schedules holds one entry per node, implicit nodes included.
	Schedules map[int]*Schedule
	// CriticalPath lists the critical ids in dependency order.
	CriticalPath []int
	// ProjectFinish is the largest earliest finish.
	ProjectFinish int
	// UnseededSinks lists nodes without successors, other than the
	// terminal node of Order, whose latest finish was never set. Always
	// empty with WithSeedAllSinks.
	UnseededSinks []int
	// Implicit lists referenced ids that had no task of their own.
	Implicit []int
	// Networks partitions the nodes into independent sub-networks.
	Networks []dag.Network
}

// Schedule holds the scheduling info for a single node.
type Schedule struct {
	ID       int
	Duration int
	activity.Timing
	Slack      int
	IsCritical bool
	Implicit   bool
}

// InOrder returns the schedules in dependency order.
func (r *Result) InOrder() []*Schedule {
	out := make([]*Schedule, 0, len(r.Order))
	for _, id := range r.Order {
		out = append(out, r.Schedules[id])
	}
	return out
}

// durationInfo is the per-node working state of one Compute call.
type durationInfo struct {
	preds    []int
	succs    []int
	duration int

	es, ls, ef, lf int
	lfSet          bool
}
