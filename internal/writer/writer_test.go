package writer

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/papapumpkin/arrowplan/internal/activity"
	"github.com/papapumpkin/arrowplan/internal/arrow"
)

// sampleGraph: zero-duration 1 into a milestone, then 2 (critical) and 3
// (slack 12) in parallel, 3 joining through a critical dummy.
func sampleGraph() *arrow.Graph {
	g := arrow.New()
	start := arrow.Vertex{ID: 0, Type: arrow.GraphStart, Timing: &activity.Timing{}}
	mile := arrow.Vertex{ID: 1, Type: arrow.Milestone, Milestone: &activity.Activity{ID: 1, Name: "Kick-off"}}
	end := arrow.Vertex{ID: 2, Type: arrow.GraphEnd, Timing: &activity.Timing{EarliestFinish: 15, LatestFinish: 15}}
	mid := arrow.Vertex{ID: 3, Type: arrow.Normal}

	g.AddEdge(start, mile, arrow.Edge{ID: 0, Activity: &activity.Activity{ID: 1, Name: "Kick-off"}, Critical: true})
	g.AddEdge(mile, end, arrow.Edge{ID: 1, Activity: &activity.Activity{ID: 2, Name: `Say "hi"`, Duration: 15, TotalSlack: activity.Slack(0)}, Critical: true})
	g.AddEdge(mile, mid, arrow.Edge{ID: 2, Activity: &activity.Activity{ID: 3, Name: "Architecture", Duration: 15, TotalSlack: activity.Slack(12)}})
	g.AddEdge(mid, end, arrow.Edge{ID: 3, Critical: true})
	return g
}

func TestWriteDot(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteDot(&buf, sampleGraph()))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "digraph"))
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), "}"))
	assert.Contains(t, out, `rankdir="LR"`)

	lines := strings.Split(out, "\n")
	lineWith := func(marker string) string {
		for _, l := range lines {
			if strings.Contains(l, marker) {
				return l
			}
		}
		t.Fatalf("no line containing %q in\n%s", marker, out)
		return ""
	}

	assert.Contains(t, lineWith(`tooltip="milestone"`), `label="1"`)
	assert.Contains(t, lineWith(`tooltip="start"`), `label=""`)

	zero := lineWith(`id="1"`)
	assert.Contains(t, zero, `style="dotted"`)
	assert.Contains(t, zero, `color="black"`)
	assert.Contains(t, zero, `label="1"`)

	critical := lineWith(`id="2"`)
	assert.Contains(t, critical, `penwidth="2"`)
	assert.Contains(t, critical, `label="2 (15)"`)
	assert.Contains(t, critical, `edgetooltip="Say \"hi\""`)

	slack := lineWith(`id="3"`)
	assert.Contains(t, slack, `color="orange"`)
	assert.Contains(t, slack, `label="3 (15)\n12"`)

	dummy := lineWith(`style="dashed"`)
	assert.Contains(t, dummy, `penwidth="2"`)
	assert.NotContains(t, dummy, "label=")
}

func TestWriteDot_SlackColours(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		slack    *int
		critical bool
		want     string
	}{
		{"zero", activity.Slack(0), false, `color="black"`},
		{"small", activity.Slack(5), false, `color="red"`},
		{"medium", activity.Slack(20), false, `color="orange"`},
		{"large", activity.Slack(40), false, `color="darkgreen"`},
		{"unknown", nil, false, `color="darkgreen"`},
		{"unknown but critical", nil, true, `color="black"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := arrow.New()
			g.AddEdge(arrow.Vertex{ID: 0}, arrow.Vertex{ID: 1}, arrow.Edge{
				ID:       0,
				Activity: &activity.Activity{ID: 9, Duration: 3, TotalSlack: tt.slack},
				Critical: tt.critical,
			})
			var buf bytes.Buffer
			require.NoError(t, WriteDot(&buf, g))
			assert.Contains(t, buf.String(), tt.want)
		})
	}
}

func TestWriteGraphML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteGraphML(&buf, sampleGraph()))
	assert.True(t, strings.HasPrefix(buf.String(), xml.Header))

	var doc graphmlDoc
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "directed", doc.Graph.EdgeDefault)
	require.Len(t, doc.Graph.Nodes, 4)
	require.Len(t, doc.Graph.Edges, 4)

	data := func(d []graphmlData, key string) string {
		for _, x := range d {
			if x.Key == key {
				return x.Value
			}
		}
		return ""
	}

	assert.Equal(t, "n1", doc.Graph.Nodes[1].ID)
	assert.Equal(t, "milestone", data(doc.Graph.Nodes[1].Data, "type"))
	assert.Equal(t, "1", data(doc.Graph.Nodes[1].Data, "milestone"))
	assert.Equal(t, "15", data(doc.Graph.Nodes[2].Data, "earliest_finish"))

	kinds := make(map[string]string)
	for _, e := range doc.Graph.Edges {
		kinds[e.ID] = data(e.Data, "kind")
	}
	assert.Equal(t, map[string]string{
		"e0": KindCriticalActivity,
		"e1": KindCriticalActivity,
		"e2": KindActivity,
		"e3": KindCriticalDummy,
	}, kinds)

	e1 := doc.Graph.Edges[1]
	assert.Equal(t, "n1", e1.Source)
	assert.Equal(t, "n2", e1.Target)
	assert.Equal(t, "2", data(e1.Data, "activity"))
	assert.Equal(t, `Say "hi"`, data(e1.Data, "name"))
}

func TestWriteJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleGraph()))

	var got jsonGraph
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got.Vertices, 4)
	require.Len(t, got.Edges, 4)

	assert.Equal(t, "start", got.Vertices[0].Type)
	require.NotNil(t, got.Vertices[1].Milestone)
	assert.Equal(t, 1, *got.Vertices[1].Milestone)
	require.NotNil(t, got.Vertices[2].Timing)
	assert.Equal(t, 15, got.Vertices[2].Timing.LatestFinish)
	assert.Nil(t, got.Vertices[3].Timing)

	dummy := got.Edges[3]
	assert.Nil(t, dummy.Activity)
	assert.Equal(t, KindCriticalDummy, dummy.Kind)
	assert.True(t, dummy.Critical)

	arc := got.Edges[2]
	require.NotNil(t, arc.Activity)
	assert.Equal(t, 3, arc.Activity.ID)
	require.NotNil(t, arc.Activity.TotalSlack)
	assert.Equal(t, 12, *arc.Activity.TotalSlack)
}

func TestFor(t *testing.T) {
	t.Parallel()

	for _, f := range Formats {
		w, err := For(f)
		require.NoError(t, err, f)
		var buf bytes.Buffer
		require.NoError(t, w.Write(&buf, sampleGraph()), f)
		assert.NotZero(t, buf.Len(), f)
	}

	_, err := For("svg")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]Format{"dot": Dot, "GV": Dot, "graphml": GraphML, " json": JSON} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseFormat("png")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestWriteFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "plan.out.json")
	require.NoError(t, WriteFile(path, JSON, sampleGraph()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))

	err = WriteFile(path, "bmp", sampleGraph())
	assert.ErrorIs(t, err, ErrUnknownFormat)

	err = WriteFile(filepath.Join(t.TempDir(), "missing", "x.dot"), Dot, sampleGraph())
	assert.ErrorIs(t, err, os.ErrNotExist)
}
