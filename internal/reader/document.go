package reader

import (
	"fmt"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/papapumpkin/arrowplan/internal/activity"
)

// record is one activity in a TOML or YAML document.
type record struct {
	ID           int    `toml:"id" yaml:"id"`
	Name         string `toml:"name" yaml:"name"`
	Duration     int    `toml:"duration" yaml:"duration"`
	TotalSlack   *int   `toml:"total_slack" yaml:"total_slack"`
	Predecessors []int  `toml:"predecessors" yaml:"predecessors"`
	Successors   []int  `toml:"successors" yaml:"successors"`
}

// document is the root of a TOML or YAML activity file:
//
//	[[activities]]
//	id = 2
//	name = "Requirements"
//	duration = 15
//	predecessors = [1]
type document struct {
	Activities []record `toml:"activities" yaml:"activities"`
}

// ReadTOML parses a TOML activity document.
func ReadTOML(data []byte) ([]activity.Dependency, error) {
	var doc document
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing TOML: %w", err)
	}
	return doc.dependencies()
}

// ReadYAML parses a YAML activity document.
func ReadYAML(data []byte) ([]activity.Dependency, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	return doc.dependencies()
}

func (doc document) dependencies() ([]activity.Dependency, error) {
	deps := make([]activity.Dependency, 0, len(doc.Activities))
	for i, r := range doc.Activities {
		if r.Duration < 0 {
			return nil, fmt.Errorf("%w: activity %d (entry %d): negative duration %d", ErrInvalidRow, r.ID, i+1, r.Duration)
		}
		deps = append(deps, activity.Dependency{
			Activity: activity.Activity{
				ID:         r.ID,
				Name:       r.Name,
				Duration:   r.Duration,
				TotalSlack: r.TotalSlack,
			},
			Predecessors: r.Predecessors,
			Successors:   r.Successors,
		})
	}
	return deps, nil
}
