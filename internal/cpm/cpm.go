// Package cpm computes critical path schedules: earliest and latest start
// and finish for every activity of a precedence network.
//
// The calculator knows nothing about the caller's record type. Callers
// expose records through Task and receive results through an Observer,
// through the returned Result, or both.
package cpm

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/papapumpkin/arrowplan/internal/activity"
	"github.com/papapumpkin/arrowplan/internal/dag"
)

// ErrNegativeDuration is returned for a task with a duration below zero.
var ErrNegativeDuration = errors.New("negative duration")

// Option configures a Calculator.
type Option func(*Calculator)

// WithPolicy sets how predecessor ids without a task are handled.
// The default is dag.Implicit.
func WithPolicy(p dag.UnresolvedPolicy) Option {
	return func(c *Calculator) { c.policy = p }
}

// WithSeedAllSinks seeds the latest finish of every node without
// successors with the project finish. By default only the terminal node
// of the dependency order is seeded, from its own earliest finish.
func WithSeedAllSinks() Option {
	return func(c *Calculator) { c.seedAllSinks = true }
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Calculator) {
		if l != nil {
			c.logger = l
		}
	}
}

// Calculator runs forward and backward passes over a precedence network.
// It holds configuration only and is safe for concurrent use.
type Calculator struct {
	policy       dag.UnresolvedPolicy
	seedAllSinks bool
	logger       *slog.Logger
}

// New creates a Calculator.
func New(opts ...Option) *Calculator {
	c := &Calculator{
		policy: dag.Implicit,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Tasks converts a slice of any Task implementation for Compute.
func Tasks[T Task](items []T) []Task {
	out := make([]Task, len(items))
	for i, it := range items {
		out[i] = it
	}
	return out
}

// Compute schedules tasks. If obs is non-nil it is called for every task
// once the schedule is complete. On error nothing is observed and the
// result is nil; a cyclic network yields an error matching dag.ErrCycle.
func (c *Calculator) Compute(tasks []Task, obs Observer) (*Result, error) {
	nodes := make([]dag.Node, len(tasks))
	durations := make(map[int]int, len(tasks))
	for i, t := range tasks {
		id := t.TaskID()
		if d := t.TaskDuration(); d < 0 {
			return nil, fmt.Errorf("%w: task %d has duration %d", ErrNegativeDuration, id, d)
		}
		nodes[i] = dag.Node{ID: id, Predecessors: t.TaskPredecessors()}
		durations[id] = t.TaskDuration()
	}

	g, err := dag.Build(nodes, c.policy)
	if err != nil {
		return nil, fmt.Errorf("building precedence graph: %w", err)
	}
	order, err := g.Order()
	if err != nil {
		return nil, err
	}

	info := make(map[int]*durationInfo, len(order))
	for _, id := range order {
		info[id] = &durationInfo{
			preds:    g.Predecessors(id),
			succs:    g.Successors(id),
			duration: durations[id],
		}
	}

	finish := forwardPass(order, info)
	unseeded := c.backwardPass(order, info, finish)

	result := &Result{
		Order:         order,
		Schedules:     make(map[int]*Schedule, len(order)),
		ProjectFinish: finish,
		UnseededSinks: unseeded,
	}
	for _, id := range order {
		di := info[id]
		timing := activity.Timing{
			EarliestStart:  di.es,
			LatestStart:    di.ls,
			EarliestFinish: di.ef,
			LatestFinish:   di.lf,
		}
		s := &Schedule{
			ID:         id,
			Duration:   di.duration,
			Timing:     timing,
			Slack:      timing.Slack(),
			IsCritical: timing.IsCritical(),
			Implicit:   g.Implicit(id),
		}
		result.Schedules[id] = s
		if s.IsCritical {
			result.CriticalPath = append(result.CriticalPath, id)
		}
		if s.Implicit {
			result.Implicit = append(result.Implicit, id)
		}
	}

	// Cannot fail: Order already succeeded on the same graph.
	result.Networks, _ = g.Networks()

	if len(result.Implicit) > 0 {
		c.logger.Warn("predecessors without an activity scheduled as zero-duration nodes", "ids", result.Implicit)
	}
	if len(unseeded) > 0 {
		c.logger.Warn("sinks other than the terminal node have no latest finish", "ids", unseeded, "terminal", order[len(order)-1])
	}
	c.logger.Debug("schedule computed",
		"nodes", len(order),
		"critical", len(result.CriticalPath),
		"finish", finish,
		"networks", len(result.Networks))

	if obs != nil {
		byID := make(map[int]Task, len(tasks))
		for _, t := range tasks {
			byID[t.TaskID()] = t
		}
		for _, id := range order {
			if t, ok := byID[id]; ok {
				obs.ObserveTiming(t, result.Schedules[id].Timing)
			}
		}
	}

	return result, nil
}

// forwardPass sets earliest start and finish and returns the project
// finish, the largest earliest finish.
func forwardPass(order []int, info map[int]*durationInfo) int {
	finish := 0
	for _, id := range order {
		di := info[id]
		es := 0
		for _, p := range di.preds {
			if ef := info[p].ef; ef > es {
				es = ef
			}
		}
		di.es = es
		di.ef = es + di.duration
		if di.ef > finish {
			finish = di.ef
		}
	}
	return finish
}

// backwardPass sets latest finish and start walking the order in reverse.
// The terminal node is seeded from its own earliest finish; other nodes
// take the smallest latest start among their successors. With
// seedAllSinks every node without successors is seeded with the project
// finish instead. Returns the sinks left unseeded.
func (c *Calculator) backwardPass(order []int, info map[int]*durationInfo, finish int) []int {
	var unseeded []int
	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		di := info[id]

		switch {
		case c.seedAllSinks && len(di.succs) == 0:
			di.lf, di.lfSet = finish, true
		case i == len(order)-1:
			di.lf, di.lfSet = di.ef, true
		}

		for _, s := range di.succs {
			ls := info[s].ls
			if !di.lfSet || ls < di.lf {
				di.lf, di.lfSet = ls, true
			}
		}

		if !di.lfSet {
			unseeded = append(unseeded, id)
		}
		di.ls = di.lf - di.duration
	}
	// Collected in reverse; report in dependency order.
	for i, j := 0, len(unseeded)-1; i < j; i, j = i+1, j-1 {
		unseeded[i], unseeded[j] = unseeded[j], unseeded[i]
	}
	return unseeded
}
