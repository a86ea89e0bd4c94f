package writer

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"

	"github.com/papapumpkin/arrowplan/internal/arrow"
)

const graphmlNS = "http://graphml.graphdrawing.org/xmlns"

// Edge kinds written to the "kind" data key.
const (
	KindActivity         = "activity"
	KindCriticalActivity = "critical-activity"
	KindDummy            = "dummy"
	KindCriticalDummy    = "critical-dummy"
)

type graphmlDoc struct {
	XMLName xml.Name     `xml:"graphml"`
	XMLNS   string       `xml:"xmlns,attr"`
	Keys    []graphmlKey `xml:"key"`
	Graph   graphmlGraph `xml:"graph"`
}

type graphmlKey struct {
	ID       string `xml:"id,attr"`
	For      string `xml:"for,attr"`
	AttrName string `xml:"attr.name,attr"`
	AttrType string `xml:"attr.type,attr"`
}

type graphmlGraph struct {
	ID          string        `xml:"id,attr"`
	EdgeDefault string        `xml:"edgedefault,attr"`
	Nodes       []graphmlNode `xml:"node"`
	Edges       []graphmlEdge `xml:"edge"`
}

type graphmlNode struct {
	ID   string        `xml:"id,attr"`
	Data []graphmlData `xml:"data"`
}

type graphmlEdge struct {
	ID     string        `xml:"id,attr"`
	Source string        `xml:"source,attr"`
	Target string        `xml:"target,attr"`
	Data   []graphmlData `xml:"data"`
}

type graphmlData struct {
	Key   string `xml:"key,attr"`
	Value string `xml:",chardata"`
}

var graphmlKeys = []graphmlKey{
	{ID: "type", For: "node", AttrName: "type", AttrType: "string"},
	{ID: "milestone", For: "node", AttrName: "milestone", AttrType: "int"},
	{ID: "earliest_finish", For: "node", AttrName: "earliest_finish", AttrType: "int"},
	{ID: "latest_finish", For: "node", AttrName: "latest_finish", AttrType: "int"},
	{ID: "kind", For: "edge", AttrName: "kind", AttrType: "string"},
	{ID: "activity", For: "edge", AttrName: "activity", AttrType: "int"},
	{ID: "name", For: "edge", AttrName: "name", AttrType: "string"},
	{ID: "duration", For: "edge", AttrName: "duration", AttrType: "int"},
}

// WriteGraphML renders g as a directed GraphML document. Nodes are n<id>,
// edges e<id>; each edge has a kind telling activity from dummy and
// critical from not.
func WriteGraphML(w io.Writer, g *arrow.Graph) error {
	doc := graphmlDoc{
		XMLNS: graphmlNS,
		Keys:  graphmlKeys,
		Graph: graphmlGraph{ID: "G", EdgeDefault: "directed"},
	}

	for _, v := range g.Vertices() {
		n := graphmlNode{
			ID:   nodeID(v.ID),
			Data: []graphmlData{{Key: "type", Value: v.Type.String()}},
		}
		if v.Type == arrow.Milestone && v.Milestone != nil {
			n.Data = append(n.Data, graphmlData{Key: "milestone", Value: strconv.Itoa(v.Milestone.ID)})
		}
		if v.Timing != nil {
			n.Data = append(n.Data,
				graphmlData{Key: "earliest_finish", Value: strconv.Itoa(v.Timing.EarliestFinish)},
				graphmlData{Key: "latest_finish", Value: strconv.Itoa(v.Timing.LatestFinish)})
		}
		doc.Graph.Nodes = append(doc.Graph.Nodes, n)
	}

	for _, e := range g.Edges() {
		ge := graphmlEdge{
			ID:     fmt.Sprintf("e%d", e.ID),
			Source: nodeID(e.Source),
			Target: nodeID(e.Target),
			Data:   []graphmlData{{Key: "kind", Value: edgeKind(e)}},
		}
		if a := e.Activity; a != nil {
			ge.Data = append(ge.Data,
				graphmlData{Key: "activity", Value: strconv.Itoa(a.ID)},
				graphmlData{Key: "duration", Value: strconv.Itoa(a.Duration)})
			if a.Name != "" {
				ge.Data = append(ge.Data, graphmlData{Key: "name", Value: a.Name})
			}
		}
		doc.Graph.Edges = append(doc.Graph.Edges, ge)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding graphml: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func nodeID(id int) string { return fmt.Sprintf("n%d", id) }

func edgeKind(e *arrow.Edge) string {
	switch {
	case e.IsDummy() && e.Critical:
		return KindCriticalDummy
	case e.IsDummy():
		return KindDummy
	case e.Critical:
		return KindCriticalActivity
	default:
		return KindActivity
	}
}
