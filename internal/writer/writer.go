// Package writer serializes arrow graphs as Graphviz dot, GraphML or JSON.
package writer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/papapumpkin/arrowplan/internal/arrow"
)

// ErrUnknownFormat is returned for an output format no writer handles.
var ErrUnknownFormat = errors.New("unknown output format")

// Writer renders a graph to w.
type Writer interface {
	Write(w io.Writer, g *arrow.Graph) error
}

// WriterFunc adapts a function to the Writer interface.
type WriterFunc func(w io.Writer, g *arrow.Graph) error

// Write calls f(w, g).
func (f WriterFunc) Write(w io.Writer, g *arrow.Graph) error {
	return f(w, g)
}

// Format names an output format.
type Format string

const (
	Dot     Format = "dot"
	GraphML Format = "graphml"
	JSON    Format = "json"
)

// Formats lists every supported format.
var Formats = []Format{Dot, GraphML, JSON}

// ParseFormat validates a format name. "gv" is accepted for dot.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dot", "gv":
		return Dot, nil
	case "graphml":
		return GraphML, nil
	case "json":
		return JSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// For returns the writer for a format.
func For(f Format) (Writer, error) {
	switch f {
	case Dot:
		return WriterFunc(WriteDot), nil
	case GraphML:
		return WriterFunc(WriteGraphML), nil
	case JSON:
		return WriterFunc(WriteJSON), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

// WriteFile renders g to path in the given format, replacing the file.
func WriteFile(path string, f Format, g *arrow.Graph) (err error) {
	wr, err := For(f)
	if err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()
	if err := wr.Write(file, g); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
