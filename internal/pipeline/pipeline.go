// Package pipeline runs arrowplan end to end: read an activity file,
// reconcile its dependencies, compute the critical path schedule, build the
// arrow diagram and write it out.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/papapumpkin/arrowplan/internal/activity"
	"github.com/papapumpkin/arrowplan/internal/aoa"
	"github.com/papapumpkin/arrowplan/internal/arrow"
	"github.com/papapumpkin/arrowplan/internal/cpm"
	"github.com/papapumpkin/arrowplan/internal/ctxlog"
	"github.com/papapumpkin/arrowplan/internal/dag"
	"github.com/papapumpkin/arrowplan/internal/reader"
	"github.com/papapumpkin/arrowplan/internal/telemetry"
	"github.com/papapumpkin/arrowplan/internal/writer"
)

// ErrNoInput is returned when Options names no input file.
var ErrNoInput = errors.New("no input file")

// Options configures a run.
type Options struct {
	Input string
	// InputFormat is detected from the input extension when empty.
	InputFormat reader.Format
	// Output defaults to DefaultOutput(Input, OutputFormat).
	Output string
	// OutputFormat defaults to GraphML.
	OutputFormat writer.Format

	Policy       dag.UnresolvedPolicy
	SeedAllSinks bool
	Milestones   bool

	// Telemetry may be nil.
	Telemetry *telemetry.Emitter
}

// DefaultOutput names the output written next to input.
func DefaultOutput(input string, f writer.Format) string {
	return input + ".out." + string(f)
}

func (o Options) outputFormat() writer.Format {
	if o.OutputFormat == "" {
		return writer.GraphML
	}
	return o.OutputFormat
}

func (o Options) outputPath() string {
	if o.Output != "" {
		return o.Output
	}
	return DefaultOutput(o.Input, o.outputFormat())
}

// Report is everything one run produced.
type Report struct {
	RunID  string
	Output string
	// OutputSize is the size in bytes of the written file.
	OutputSize int64

	Dependencies []*activity.Dependency
	Schedule     *cpm.Result
	Graph        *arrow.Graph
	Stats        aoa.Stats
}

// Load reads path and reconciles the predecessor and successor lists of
// its activities.
func Load(path string, format reader.Format) ([]*activity.Dependency, error) {
	deps, err := reader.Read(path, format)
	if err != nil {
		return nil, err
	}
	deps = activity.Reconcile(deps)
	out := make([]*activity.Dependency, len(deps))
	for i := range deps {
		out[i] = &deps[i]
	}
	return out, nil
}

// Schedule computes the critical path schedule of deps and writes the
// timing back onto each record.
func Schedule(ctx context.Context, deps []*activity.Dependency, opts Options) (*cpm.Result, error) {
	calcOpts := []cpm.Option{cpm.WithPolicy(opts.Policy), cpm.WithLogger(ctxlog.FromContext(ctx))}
	if opts.SeedAllSinks {
		calcOpts = append(calcOpts, cpm.WithSeedAllSinks())
	}
	res, err := cpm.New(calcOpts...).Compute(cpm.Tasks(deps), cpm.SetTimings)
	if err != nil {
		return nil, fmt.Errorf("scheduling: %w", err)
	}
	return res, nil
}

// Plan schedules deps, writing the computed timing back onto them, and
// builds the arrow graph from the result. Nothing is written to disk.
func Plan(ctx context.Context, deps []*activity.Dependency, opts Options) (*Report, error) {
	logger := ctxlog.FromContext(ctx)

	res, err := Schedule(ctx, deps, opts)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	buildOpts := []aoa.Option{aoa.WithPolicy(opts.Policy), aoa.WithSchedule(res), aoa.WithLogger(logger)}
	if opts.Milestones {
		buildOpts = append(buildOpts, aoa.WithMilestones())
	}
	g, stats, err := aoa.NewBuilder(buildOpts...).GenerateGraphStats(deps)
	if err != nil {
		return nil, fmt.Errorf("building arrow graph: %w", err)
	}

	return &Report{
		Dependencies: deps,
		Schedule:     res,
		Graph:        g,
		Stats:        stats,
	}, nil
}

// Run performs one complete read, schedule, build and write cycle,
// recording each stage to opts.Telemetry.
func Run(ctx context.Context, opts Options) (*Report, error) {
	if opts.Input == "" {
		return nil, ErrNoInput
	}
	logger := ctxlog.FromContext(ctx)
	runID := telemetry.NewRunID()
	emit := func(kind string, data any) {
		evt := telemetry.Event{Kind: kind, RunID: runID, Input: opts.Input, Data: data}
		if err := opts.Telemetry.Emit(evt); err != nil {
			logger.Warn("telemetry emit failed", "kind", kind, "error", err)
		}
	}

	emit(telemetry.KindRunStart, map[string]any{
		"output_format": opts.outputFormat(),
		"policy":        opts.Policy.String(),
	})
	rep, err := run(ctx, opts, emit)
	if err != nil {
		emit(telemetry.KindRunFailed, map[string]string{"error": err.Error()})
		return nil, err
	}
	rep.RunID = runID
	return rep, nil
}

func run(ctx context.Context, opts Options, emit func(string, any)) (*Report, error) {
	logger := ctxlog.FromContext(ctx)

	deps, err := Load(opts.Input, opts.InputFormat)
	if err != nil {
		return nil, err
	}
	emit(telemetry.KindReadDone, map[string]int{"activities": len(deps)})
	logger.Debug("activities read", "input", opts.Input, "count", len(deps))

	rep, err := Plan(ctx, deps, opts)
	if err != nil {
		return nil, err
	}
	emit(telemetry.KindScheduleDone, map[string]any{
		"project_finish": rep.Schedule.ProjectFinish,
		"critical_path":  rep.Schedule.CriticalPath,
		"unseeded_sinks": rep.Schedule.UnseededSinks,
		"implicit":       rep.Schedule.Implicit,
	})
	emit(telemetry.KindGraphDone, rep.Stats)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rep.Output = opts.outputPath()
	if err := writer.WriteFile(rep.Output, opts.outputFormat(), rep.Graph); err != nil {
		return nil, err
	}
	if fi, err := os.Stat(rep.Output); err == nil {
		rep.OutputSize = fi.Size()
	}
	emit(telemetry.KindWriteDone, map[string]any{"output": rep.Output, "format": opts.outputFormat(), "bytes": rep.OutputSize})
	logger.Info("arrow graph written",
		"output", rep.Output,
		"vertices", rep.Stats.Vertices,
		"edges", rep.Stats.Edges,
		"dummies", rep.Stats.DummyEdges)
	return rep, nil
}
