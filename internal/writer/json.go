package writer

import (
	"encoding/json"
	"io"

	"github.com/papapumpkin/arrowplan/internal/activity"
	"github.com/papapumpkin/arrowplan/internal/arrow"
)

type jsonGraph struct {
	Vertices []jsonVertex `json:"vertices"`
	Edges    []jsonEdge   `json:"edges"`
}

type jsonVertex struct {
	ID        int              `json:"id"`
	Type      string           `json:"type"`
	Milestone *int             `json:"milestone,omitempty"`
	Timing    *activity.Timing `json:"timing,omitempty"`
}

type jsonEdge struct {
	ID       int           `json:"id"`
	Source   int           `json:"source"`
	Target   int           `json:"target"`
	Kind     string        `json:"kind"`
	Critical bool          `json:"critical"`
	Activity *jsonActivity `json:"activity,omitempty"`
}

type jsonActivity struct {
	ID         int    `json:"id"`
	Name       string `json:"name,omitempty"`
	Duration   int    `json:"duration"`
	TotalSlack *int   `json:"total_slack,omitempty"`
}

// WriteJSON renders g as an indented JSON document with vertex and edge
// lists in graph order.
func WriteJSON(w io.Writer, g *arrow.Graph) error {
	out := jsonGraph{
		Vertices: make([]jsonVertex, 0, g.VertexCount()),
		Edges:    make([]jsonEdge, 0, g.EdgeCount()),
	}
	for _, v := range g.Vertices() {
		jv := jsonVertex{ID: v.ID, Type: v.Type.String(), Timing: v.Timing}
		if v.Milestone != nil {
			id := v.Milestone.ID
			jv.Milestone = &id
		}
		out.Vertices = append(out.Vertices, jv)
	}
	for _, e := range g.Edges() {
		je := jsonEdge{
			ID:       e.ID,
			Source:   e.Source,
			Target:   e.Target,
			Kind:     edgeKind(e),
			Critical: e.Critical,
		}
		if a := e.Activity; a != nil {
			je.Activity = &jsonActivity{ID: a.ID, Name: a.Name, Duration: a.Duration, TotalSlack: a.TotalSlack}
		}
		out.Edges = append(out.Edges, je)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
