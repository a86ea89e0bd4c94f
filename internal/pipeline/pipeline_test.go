package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/papapumpkin/arrowplan/internal/activity"
	"github.com/papapumpkin/arrowplan/internal/arrow"
	"github.com/papapumpkin/arrowplan/internal/cpm"
	"github.com/papapumpkin/arrowplan/internal/dag"
	"github.com/papapumpkin/arrowplan/internal/reader"
	"github.com/papapumpkin/arrowplan/internal/telemetry"
	"github.com/papapumpkin/arrowplan/internal/writer"
)

const projectCSV = `ID,Predecessors,Duration,Total_Slack,Name
1,,0 days,0 days,Start
2,1,15 days,0 days,Requirements
3,1,15 days,0 days,Architecture
4,"2,3",10 days,0 days,Project planning
5,4,5 days,0 days,Management education
6,"2,5",0 days,0 days,SDP review
`

const cyclicCSV = `ID,Predecessors,Duration
1,3,1
2,1,1
3,2,1
`

// writeInput writes content to name inside a fresh temp dir.
func writeInput(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readEvents(t *testing.T, path string) []telemetry.Event {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	events, err := telemetry.ReadEvents(f)
	require.NoError(t, err)
	return events
}

func TestRun(t *testing.T) {
	t.Parallel()

	input := writeInput(t, "plan.csv", projectCSV)
	telemetryPath := filepath.Join(t.TempDir(), "runs.jsonl")
	em, err := telemetry.NewEmitter(telemetryPath)
	require.NoError(t, err)

	rep, err := Run(context.Background(), Options{
		Input:        input,
		OutputFormat: writer.JSON,
		Telemetry:    em,
	})
	require.NoError(t, err)
	require.NoError(t, em.Close())

	assert.Equal(t, input+".out.json", rep.Output)
	assert.Equal(t, 30, rep.Schedule.ProjectFinish)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, rep.Schedule.CriticalPath)
	assert.Equal(t, 7, rep.Stats.Vertices)
	assert.Equal(t, 7, rep.Stats.Edges)
	assert.Equal(t, 1, rep.Stats.DummyEdges)

	// Timing was written back onto the records.
	planning := rep.Dependencies[3]
	assert.True(t, planning.Scheduled)
	assert.Equal(t, activity.Timing{EarliestStart: 15, LatestStart: 15, EarliestFinish: 25, LatestFinish: 25}, planning.Timing)

	data, err := os.ReadFile(rep.Output)
	require.NoError(t, err)
	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Contains(t, doc, "vertices")

	events := readEvents(t, telemetryPath)
	kinds := make([]string, len(events))
	for i, e := range events {
		kinds[i] = e.Kind
		assert.Equal(t, rep.RunID, e.RunID)
		assert.Equal(t, input, e.Input)
	}
	assert.Equal(t, []string{
		telemetry.KindRunStart,
		telemetry.KindReadDone,
		telemetry.KindScheduleDone,
		telemetry.KindGraphDone,
		telemetry.KindWriteDone,
	}, kinds)
}

func TestRun_ExplicitOutput(t *testing.T) {
	t.Parallel()

	input := writeInput(t, "plan.csv", projectCSV)
	out := filepath.Join(t.TempDir(), "diagram.gv")
	rep, err := Run(context.Background(), Options{Input: input, Output: out, OutputFormat: writer.Dot})
	require.NoError(t, err)
	assert.Equal(t, out, rep.Output)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "digraph Arrow {")
}

func TestRun_DefaultsToGraphML(t *testing.T) {
	t.Parallel()

	input := writeInput(t, "plan.csv", projectCSV)
	rep, err := Run(context.Background(), Options{Input: input})
	require.NoError(t, err)
	assert.Equal(t, input+".out.graphml", rep.Output)
	assert.FileExists(t, rep.Output)
}

func TestRun_Failure(t *testing.T) {
	t.Parallel()

	input := writeInput(t, "loop.csv", cyclicCSV)
	telemetryPath := filepath.Join(t.TempDir(), "runs.jsonl")
	em, err := telemetry.NewEmitter(telemetryPath)
	require.NoError(t, err)

	rep, err := Run(context.Background(), Options{Input: input, Telemetry: em})
	require.NoError(t, em.Close())
	assert.Nil(t, rep)
	assert.ErrorIs(t, err, dag.ErrCycle)
	assert.NoFileExists(t, DefaultOutput(input, writer.GraphML))

	events := readEvents(t, telemetryPath)
	require.NotEmpty(t, events)
	assert.Equal(t, telemetry.KindRunFailed, events[len(events)-1].Kind)
}

func TestRun_Errors(t *testing.T) {
	t.Parallel()

	_, err := Run(context.Background(), Options{})
	assert.ErrorIs(t, err, ErrNoInput)

	_, err = Run(context.Background(), Options{Input: writeInput(t, "plan.xlsx", "")})
	assert.ErrorIs(t, err, reader.ErrUnknownFormat)

	_, err = Run(context.Background(), Options{Input: filepath.Join(t.TempDir(), "absent.csv")})
	assert.ErrorIs(t, err, os.ErrNotExist)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Run(ctx, Options{Input: writeInput(t, "plan.csv", projectCSV)})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoad_Reconciles(t *testing.T) {
	t.Parallel()

	input := writeInput(t, "plan.yaml", `
activities:
  - id: 1
    duration: 2
    successors: [2]
  - id: 2
    duration: 3
`)
	deps, err := Load(input, "")
	require.NoError(t, err)
	require.Len(t, deps, 2)
	assert.Equal(t, []int{1}, deps[1].Predecessors)
}

func TestPlan_Options(t *testing.T) {
	t.Parallel()

	deps := func() []*activity.Dependency {
		return []*activity.Dependency{
			{Activity: activity.Activity{ID: 1, Duration: 5}},
			{Activity: activity.Activity{ID: 2, Duration: 3}, Predecessors: []int{1}},
			{Activity: activity.Activity{ID: 3, Duration: 10}, Predecessors: []int{1}},
			{Activity: activity.Activity{ID: 4}, Predecessors: []int{3, 9}},
		}
	}

	rep, err := Plan(context.Background(), deps(), Options{})
	require.NoError(t, err)
	assert.Equal(t, []int{9}, rep.Schedule.Implicit)
	assert.Equal(t, []int{2}, rep.Schedule.UnseededSinks)

	rep, err = Plan(context.Background(), deps(), Options{SeedAllSinks: true, Milestones: true})
	require.NoError(t, err)
	assert.Empty(t, rep.Schedule.UnseededSinks)
	assert.Equal(t, 7, rep.Schedule.Schedules[2].Slack)

	var milestones []int
	for _, v := range rep.Graph.Vertices() {
		if v.Type == arrow.Milestone {
			milestones = append(milestones, v.Milestone.ID)
		}
	}
	assert.Empty(t, milestones, "activity 4 ends the graph so it stays an end event")

	_, err = Plan(context.Background(), deps(), Options{Policy: dag.Strict})
	assert.ErrorIs(t, err, dag.ErrUnresolvedReference)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	dep := func(id, dur int, preds ...int) *activity.Dependency {
		return &activity.Dependency{Activity: activity.Activity{ID: id, Duration: dur}, Predecessors: preds}
	}

	tests := []struct {
		name         string
		deps         []*activity.Dependency
		policy       dag.UnresolvedPolicy
		wantErr      error
		wantImplicit []int
	}{
		{
			name: "valid",
			deps: []*activity.Dependency{dep(1, 1), dep(2, 1, 1)},
		},
		{
			name:         "implicit reference",
			deps:         []*activity.Dependency{dep(1, 1, 7)},
			wantImplicit: []int{7},
		},
		{
			name:    "strict reference",
			deps:    []*activity.Dependency{dep(1, 1, 7)},
			policy:  dag.Strict,
			wantErr: dag.ErrUnresolvedReference,
		},
		{
			name:    "cycle",
			deps:    []*activity.Dependency{dep(1, 1, 2), dep(2, 1, 1)},
			wantErr: dag.ErrCycle,
		},
		{
			name:    "duplicate",
			deps:    []*activity.Dependency{dep(1, 1), dep(1, 2)},
			wantErr: dag.ErrDuplicateNode,
		},
		{
			name:    "negative duration",
			deps:    []*activity.Dependency{dep(1, -4)},
			wantErr: cpm.ErrNegativeDuration,
		},
		{
			name:    "self reference",
			deps:    []*activity.Dependency{dep(1, 1), dep(2, 1, 1, 2)},
			wantErr: dag.ErrCycle,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			v := Validate(tt.deps, tt.policy)
			assert.Equal(t, len(tt.deps), v.Activities)
			assert.Equal(t, tt.wantImplicit, v.Implicit)
			if tt.wantErr == nil {
				assert.True(t, v.OK(), "problems: %v", v.Problems)
				return
			}
			require.False(t, v.OK())
			assert.ErrorIs(t, v.Problems[0], tt.wantErr)
		})
	}
}

func TestValidate_StartsEndsAndRedundantLinks(t *testing.T) {
	t.Parallel()

	deps := []*activity.Dependency{
		{Activity: activity.Activity{ID: 1, Duration: 2}},
		{Activity: activity.Activity{ID: 2, Duration: 3}, Predecessors: []int{1}},
		{Activity: activity.Activity{ID: 3, Duration: 1}, Predecessors: []int{1, 2}},
		{Activity: activity.Activity{ID: 4, Duration: 4}, Predecessors: []int{3}},
		{Activity: activity.Activity{ID: 5, Duration: 1}},
	}
	v := Validate(deps, dag.Implicit)
	require.True(t, v.OK(), "problems: %v", v.Problems)
	assert.Equal(t, []int{1, 5}, v.Starts)
	assert.Equal(t, []int{4, 5}, v.Ends)
	assert.Equal(t, []dag.Edge{{From: 1, To: 3}}, v.Redundant)

	cyclic := Validate([]*activity.Dependency{
		{Activity: activity.Activity{ID: 1}, Predecessors: []int{2}},
		{Activity: activity.Activity{ID: 2}, Predecessors: []int{1}},
	}, dag.Implicit)
	assert.Empty(t, cyclic.Starts)
	assert.Empty(t, cyclic.Ends)
	assert.Empty(t, cyclic.Redundant)
}
