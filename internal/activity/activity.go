// Package activity holds the project data model consumed by the scheduler
// and the arrow graph builder: activities, their precedence relations and
// the timing computed for them.
package activity

import "fmt"

// Activity is a unit of work with a duration in days. TotalSlack is nil
// when the source did not supply it.
type Activity struct {
	ID         int
	Name       string
	Duration   int
	TotalSlack *int
}

// IsCritical reports whether the supplied total slack is zero. An activity
// with no supplied slack is never critical by this test.
func (a Activity) IsCritical() bool {
	return a.TotalSlack != nil && *a.TotalSlack == 0
}

func (a Activity) String() string {
	return fmt.Sprintf("%d (%d)", a.ID, a.Duration)
}

// Slack returns a pointer to v, for building activities in code.
func Slack(v int) *int {
	return &v
}

// Timing holds the critical path values computed for one activity.
type Timing struct {
	EarliestStart  int `json:"earliest_start"`
	LatestStart    int `json:"latest_start"`
	EarliestFinish int `json:"earliest_finish"`
	LatestFinish   int `json:"latest_finish"`
}

// Slack is the amount the start can slip without delaying the project.
func (t Timing) Slack() int {
	return t.LatestStart - t.EarliestStart
}

// IsCritical reports whether both start and finish are pinned.
func (t Timing) IsCritical() bool {
	return t.EarliestFinish == t.LatestFinish && t.EarliestStart == t.LatestStart
}

func (t Timing) String() string {
	return fmt.Sprintf("(%d | %d) -> (%d | %d)", t.EarliestStart, t.LatestStart, t.EarliestFinish, t.LatestFinish)
}

// Dependency is one input record: an activity plus the ids it follows and
// the ids that follow it. Timing is filled in by the scheduler.
type Dependency struct {
	Activity     Activity
	Predecessors []int
	Successors   []int

	Timing    Timing
	Scheduled bool
}

// TaskID, TaskDuration and TaskPredecessors let a *Dependency be scheduled
// directly by the critical path calculator.
func (d *Dependency) TaskID() int             { return d.Activity.ID }
func (d *Dependency) TaskDuration() int       { return d.Activity.Duration }
func (d *Dependency) TaskPredecessors() []int { return d.Predecessors }

// SetTiming records computed timing on the dependency.
func (d *Dependency) SetTiming(t Timing) {
	d.Timing = t
	d.Scheduled = true
}

// Critical prefers the slack supplied with the activity and falls back to
// the computed schedule when none was supplied.
func (d *Dependency) Critical() bool {
	if d.Activity.TotalSlack != nil {
		return d.Activity.IsCritical()
	}
	return d.Scheduled && d.Timing.IsCritical()
}
