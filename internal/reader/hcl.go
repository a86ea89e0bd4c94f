package reader

import (
	"fmt"
	"strconv"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/papapumpkin/arrowplan/internal/activity"
)

// hclFile is the root of an HCL activity file. Each activity is a block
// labelled with its id:
//
//	activity "2" {
//	  name         = "Requirements"
//	  duration     = 15
//	  predecessors = [1]
//	}
type hclFile struct {
	Activities []*hclActivity `hcl:"activity,block"`
}

type hclActivity struct {
	ID           string `hcl:"id,label"`
	Name         string `hcl:"name,optional"`
	Duration     int    `hcl:"duration,optional"`
	TotalSlack   *int   `hcl:"total_slack,optional"`
	Predecessors []int  `hcl:"predecessors,optional"`
	Successors   []int  `hcl:"successors,optional"`
}

// ReadHCL parses an HCL activity file. filename is used in diagnostics.
func ReadHCL(filename string, src []byte) ([]activity.Dependency, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing HCL: %w", diags)
	}

	var parsed hclFile
	if diags := gohcl.DecodeBody(file.Body, nil, &parsed); diags.HasErrors() {
		return nil, fmt.Errorf("decoding HCL: %w", diags)
	}

	doc := document{Activities: make([]record, 0, len(parsed.Activities))}
	for _, a := range parsed.Activities {
		id, err := strconv.Atoi(a.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: activity label %q is not an integer id", ErrInvalidRow, a.ID)
		}
		doc.Activities = append(doc.Activities, record{
			ID:           id,
			Name:         a.Name,
			Duration:     a.Duration,
			TotalSlack:   a.TotalSlack,
			Predecessors: a.Predecessors,
			Successors:   a.Successors,
		})
	}
	return doc.dependencies()
}
