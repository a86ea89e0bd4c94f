package reader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/papapumpkin/arrowplan/internal/activity"
)

// CSV column names. Header matching ignores case and surrounding space.
const (
	colID           = "id"
	colPredecessors = "predecessors"
	colDuration     = "duration"
	colTotalSlack   = "total_slack"
	colName         = "name"
)

// ReadCSV parses a project export with the columns ID, Predecessors,
// Duration, Total_Slack and Name. Predecessors is a comma separated id
// list. Duration and Total_Slack accept an optional "days" suffix; a blank
// duration is zero and a blank slack is left unset. Successor lists are
// derived from the predecessor lists.
func ReadCSV(r io.Reader) ([]activity.Dependency, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty file, no header", ErrMissingColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		// Exports from some tools start with a byte order mark.
		h = strings.TrimPrefix(h, "\ufeff")
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range []string{colID, colPredecessors, colDuration} {
		if _, ok := cols[c]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, c)
		}
	}

	field := func(rec []string, col string) string {
		i, ok := cols[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var deps []activity.Dependency
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		id, err := strconv.Atoi(field(rec, colID))
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: id %q", ErrInvalidRow, line, field(rec, colID))
		}
		preds, err := parseIDList(field(rec, colPredecessors))
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: predecessors: %v", ErrInvalidRow, line, err)
		}
		duration, err := parseDays(field(rec, colDuration))
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: duration: %v", ErrInvalidRow, line, err)
		}
		slack, err := parseDays(field(rec, colTotalSlack))
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: total slack: %v", ErrInvalidRow, line, err)
		}

		d := activity.Dependency{
			Activity: activity.Activity{
				ID:         id,
				Name:       field(rec, colName),
				TotalSlack: slack,
			},
			Predecessors: preds,
		}
		if duration != nil {
			d.Activity.Duration = *duration
		}
		deps = append(deps, d)
	}

	succ := activity.Successors(deps)
	for i := range deps {
		deps[i].Successors = succ[deps[i].Activity.ID]
	}
	return deps, nil
}

// parseIDList parses "1, 2,3". An empty string is an empty list.
func parseIDList(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	ids := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("id %q", p)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// parseDays parses "15", "15 days" or "15_days". Blank is nil.
func parseDays(s string) (*int, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, "_", " "))
	if s == "" {
		return nil, nil
	}
	if i := strings.Index(strings.ToLower(s), "day"); i > 0 {
		s = strings.TrimSpace(s[:i])
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("value %q", s)
	}
	return &v, nil
}
