package writer

import (
	"fmt"
	"io"
	"strconv"

	"github.com/emicklei/dot"

	"github.com/papapumpkin/arrowplan/internal/arrow"
)

// WriteDot renders g as a left-to-right Graphviz digraph. Activity arcs are
// coloured by total slack: under 1 black and bold, under 10 red, under 25
// orange, anything else dark green. Without supplied slack an arc is drawn
// as zero slack when critical. Zero-duration activities are dotted and
// dummies dashed.
func WriteDot(w io.Writer, g *arrow.Graph) error {
	out := dot.NewGraph(dot.Directed)
	out.Attr("rankdir", "LR")

	nodes := make(map[int]dot.Node, g.VertexCount())
	for _, v := range g.Vertices() {
		n := out.Node(strconv.Itoa(v.ID)).
			Attr("fontsize", "8").
			Attr("fontname", "Sans-Serif").
			Attr("shape", "circle").
			Attr("height", ".4").
			Attr("width", ".4").
			Attr("style", "filled").
			Attr("fillcolor", "#e7e7e7").
			Attr("penwidth", "0").
			Attr("label", vertexLabel(v)).
			Attr("tooltip", v.Type.String())
		nodes[v.ID] = n
	}

	for _, e := range g.Edges() {
		arc := out.Edge(nodes[e.Source], nodes[e.Target]).
			Attr("fontsize", "8").
			Attr("fontname", "Sans-Serif")
		if e.IsDummy() {
			width := "1"
			if e.Critical {
				width = "2"
			}
			arc.Attr("style", "dashed").Attr("penwidth", width)
			continue
		}

		a := e.Activity
		color, style, width := "darkgreen", "solid", "1"
		slack, known := edgeSlack(e)
		switch {
		case a.Duration == 0:
			color, style = "black", "dotted"
		case !known:
		case slack < 1:
			color, width = "black", "2"
		case slack < 10:
			color = "red"
		case slack < 25:
			color = "orange"
		}

		label := strconv.Itoa(a.ID)
		if a.Duration > 0 {
			label += fmt.Sprintf(" (%d)", a.Duration)
			if known && slack > 0 {
				label += fmt.Sprintf("\n%d", slack)
			}
		}
		arc.Attr("id", strconv.Itoa(a.ID)).
			Attr("style", style).
			Attr("edgetooltip", a.Name).
			Attr("labeltooltip", a.Name).
			Attr("penwidth", width).
			Attr("color", color).
			Attr("label", label)
	}

	_, err := io.WriteString(w, out.String())
	return err
}

// edgeSlack returns the supplied total slack, or zero for a critical arc
// without one.
func edgeSlack(e *arrow.Edge) (int, bool) {
	if e.Activity.TotalSlack != nil {
		return *e.Activity.TotalSlack, true
	}
	if e.Critical {
		return 0, true
	}
	return 0, false
}

// vertexLabel names the activity a milestone marks; other events are
// drawn blank.
func vertexLabel(v *arrow.Vertex) string {
	if v.Type == arrow.Milestone && v.Milestone != nil {
		return strconv.Itoa(v.Milestone.ID)
	}
	return ""
}
