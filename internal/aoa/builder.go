// Package aoa converts an activity-on-node precedence network into a
// reduced activity-on-arrow graph.
//
// Every activity becomes an arc between its start and end events and every
// precedence relation a dummy arc from the predecessor's end to the
// successor's start. The builder then drops redundant precedence, pulls
// dummy arcs shared by all dependents of an event upstream onto it, and
// merges away dummy arcs that carry no information, never creating two
// arcs between the same pair of events.
package aoa

import (
	"fmt"
	"log/slog"

	"github.com/papapumpkin/arrowplan/internal/activity"
	"github.com/papapumpkin/arrowplan/internal/arrow"
	"github.com/papapumpkin/arrowplan/internal/cpm"
	"github.com/papapumpkin/arrowplan/internal/dag"
)

// Option configures a Builder.
type Option func(*Builder)

// WithMilestones turns a normal event that ends a declared zero-duration
// activity into a Milestone vertex carrying that activity.
func WithMilestones() Option {
	return func(b *Builder) { b.milestones = true }
}

// WithPolicy sets how predecessor ids without a record are handled.
// The default is dag.Implicit.
func WithPolicy(p dag.UnresolvedPolicy) Option {
	return func(b *Builder) { b.policy = p }
}

// WithSchedule supplies a computed schedule. Implicit nodes, which have no
// record to carry timing, take their timing and criticality from it.
func WithSchedule(r *cpm.Result) Option {
	return func(b *Builder) { b.schedule = r }
}

// WithLogger sets the logger used for phase diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// Builder generates arrow graphs. It holds configuration only; each
// GenerateGraph call owns its working graph, so a Builder may be shared.
type Builder struct {
	milestones bool
	policy     dag.UnresolvedPolicy
	schedule   *cpm.Result
	logger     *slog.Logger
}

// NewBuilder creates a Builder.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		policy: dag.Implicit,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Stats counts the work done by one build.
type Stats struct {
	Activities    int
	ReducedArcs   int
	Redirections  int
	Merges        int
	AbortedMerges int
	Vertices      int
	Edges         int
	DummyEdges    int
	CriticalEdges int
}

// build is the state of one GenerateGraph call.
type build struct {
	*Builder
	records map[int]*activity.Dependency
	work    *workGraph
	stats   Stats
}

// GenerateGraph converts deps into an arrow graph. Criticality of each
// activity comes from Dependency.Critical, so deps should be scheduled
// first unless slack was supplied. Returns an error matching dag.ErrCycle
// for cyclic input and no graph on any error.
func (b *Builder) GenerateGraph(deps []*activity.Dependency) (*arrow.Graph, error) {
	g, _, err := b.generate(deps)
	return g, err
}

// GenerateGraphStats is GenerateGraph that also reports what each phase did.
func (b *Builder) GenerateGraphStats(deps []*activity.Dependency) (*arrow.Graph, Stats, error) {
	return b.generate(deps)
}

func (b *Builder) generate(deps []*activity.Dependency) (*arrow.Graph, Stats, error) {
	st, err := b.prepare(deps)
	if err != nil {
		return nil, Stats{}, err
	}
	st.redirect()
	st.eliminate()
	g := st.materialize()

	b.logger.Debug("arrow graph generated",
		"activities", st.stats.Activities,
		"reduced_arcs", st.stats.ReducedArcs,
		"redirections", st.stats.Redirections,
		"merges", st.stats.Merges,
		"aborted_merges", st.stats.AbortedMerges,
		"vertices", st.stats.Vertices,
		"edges", st.stats.Edges)
	return g, st.stats, nil
}

// prepare builds the precedence graph, reduces it and lays out the working
// graph with one activity arc per node and one dummy arc per remaining
// precedence relation.
func (b *Builder) prepare(deps []*activity.Dependency) (*build, error) {
	nodes := make([]dag.Node, len(deps))
	records := make(map[int]*activity.Dependency, len(deps))
	for i, d := range deps {
		nodes[i] = dag.Node{ID: d.Activity.ID, Predecessors: d.Predecessors}
		records[d.Activity.ID] = d
	}

	prec, err := dag.Build(nodes, b.policy)
	if err != nil {
		return nil, fmt.Errorf("building precedence graph: %w", err)
	}
	reduced, err := prec.TransitiveReduction()
	if err != nil {
		return nil, err
	}

	st := &build{
		Builder: b,
		records: records,
		work:    newWorkGraph(),
	}
	st.stats.Activities = reduced.Len()
	st.stats.ReducedArcs = len(prec.Edges()) - len(reduced.Edges())

	for _, id := range reduced.Nodes() {
		s := st.work.vertex(vkey{id, roleStart})
		e := st.work.vertex(vkey{id, roleEnd})
		st.work.addEdge(s, e, id, true, st.critical(id))
	}
	for _, e := range reduced.Edges() {
		src := st.work.vertex(vkey{e.From, roleEnd})
		tgt := st.work.vertex(vkey{e.To, roleStart})
		st.work.addDummy(src, tgt, st.critical(e.From) && st.critical(e.To))
	}
	return st, nil
}

// critical reports the criticality of an activity or implicit node.
func (st *build) critical(id int) bool {
	if d, ok := st.records[id]; ok {
		return d.Critical()
	}
	if st.schedule != nil {
		if s, ok := st.schedule.Schedules[id]; ok {
			return s.IsCritical
		}
	}
	return false
}

// timing returns the schedule owning an event, nil when none is known.
func (st *build) timing(id int) *activity.Timing {
	if d, ok := st.records[id]; ok && d.Scheduled {
		t := d.Timing
		return &t
	}
	if st.schedule != nil {
		if s, ok := st.schedule.Schedules[id]; ok {
			t := s.Timing
			return &t
		}
	}
	return nil
}

// activityOf returns the activity an arc carries. Implicit nodes get an
// activity with only the id set.
func (st *build) activityOf(id int) *activity.Activity {
	if d, ok := st.records[id]; ok {
		a := d.Activity
		return &a
	}
	return &activity.Activity{ID: id}
}
