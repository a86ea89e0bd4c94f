// Package reader loads activity lists from CSV, TOML, YAML and HCL files.
package reader

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/papapumpkin/arrowplan/internal/activity"
)

var (
	// ErrUnknownFormat is returned for a format name or file extension no
	// reader handles.
	ErrUnknownFormat = errors.New("unknown input format")
	// ErrMissingColumn is returned when a CSV header lacks a required column.
	ErrMissingColumn = errors.New("missing column")
	// ErrInvalidRow is returned for a record whose fields cannot be parsed.
	ErrInvalidRow = errors.New("invalid row")
)

// Format names an input format.
type Format string

const (
	CSV  Format = "csv"
	TOML Format = "toml"
	YAML Format = "yaml"
	HCL  Format = "hcl"
)

// Formats lists every supported format.
var Formats = []Format{CSV, TOML, YAML, HCL}

// ParseFormat validates a format name. Matching is case-insensitive and
// "yml" is accepted for YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return CSV, nil
	case "toml":
		return TOML, nil
	case "yaml", "yml":
		return YAML, nil
	case "hcl":
		return HCL, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// DetectFormat picks the format from the file extension.
func DetectFormat(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("%w: %s has no extension", ErrUnknownFormat, path)
	}
	return ParseFormat(ext)
}

// Read loads the activities in path. An empty format is detected from the
// file extension.
func Read(path string, format Format) ([]activity.Dependency, error) {
	if format == "" {
		var err error
		if format, err = DetectFormat(path); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var deps []activity.Dependency
	switch format {
	case CSV:
		deps, err = ReadCSV(bytes.NewReader(data))
	case TOML:
		deps, err = ReadTOML(data)
	case YAML:
		deps, err = ReadYAML(data)
	case HCL:
		deps, err = ReadHCL(path, data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return deps, nil
}
