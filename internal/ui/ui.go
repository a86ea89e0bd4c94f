// Package ui provides stderr-based UI output for arrowplan: run progress,
// schedule tables, and graph summaries.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/papapumpkin/arrowplan/internal/ansi"
	"github.com/papapumpkin/arrowplan/internal/aoa"
)

// Printer writes user-facing messages. The zero value writes to whatever
// os.Stderr is at the time of each call.
type Printer struct {
	w io.Writer
}

// New returns a Printer writing to stderr.
func New() *Printer {
	return &Printer{}
}

// NewWriter returns a Printer writing to w.
func NewWriter(w io.Writer) *Printer {
	return &Printer{w: w}
}

func (p *Printer) out() io.Writer {
	if p.w == nil {
		return os.Stderr
	}
	return p.w
}

func (p *Printer) Error(msg string) {
	fmt.Fprintf(p.out(), ansi.Red+ansi.Bold+"error: "+ansi.Reset+"%s\n", msg)
}

func (p *Printer) Warn(msg string) {
	fmt.Fprintf(p.out(), ansi.Yellow+ansi.Bold+"⚠ "+ansi.Reset+"%s\n", msg)
}

func (p *Printer) Info(msg string) {
	fmt.Fprintf(p.out(), ansi.Dim+"%s"+ansi.Reset+"\n", msg)
}

// Written reports a finished graph write of size bytes.
func (p *Printer) Written(path string, size int64, stats aoa.Stats) {
	fmt.Fprintf(p.out(), ansi.Green+ansi.Bold+"✓ wrote %s"+ansi.Reset+ansi.Dim+" (%s, %d events, %d arcs, %d dummy)"+ansi.Reset+"\n",
		path, humanize.Bytes(uint64(max(size, 0))), stats.Vertices, stats.Edges, stats.DummyEdges)
}

// GraphSummary prints what each phase of the arrow graph build did.
func (p *Printer) GraphSummary(stats aoa.Stats) {
	fmt.Fprintln(p.out(), ansi.Bold+"arrow graph:"+ansi.Reset)
	fmt.Fprintf(p.out(), "  activities:     %d\n", stats.Activities)
	fmt.Fprintf(p.out(), "  reduced arcs:   %d\n", stats.ReducedArcs)
	fmt.Fprintf(p.out(), "  redirections:   %d\n", stats.Redirections)
	fmt.Fprintf(p.out(), "  merges:         %d", stats.Merges)
	if stats.AbortedMerges > 0 {
		fmt.Fprintf(p.out(), ansi.Dim+" (%d refused)"+ansi.Reset, stats.AbortedMerges)
	}
	fmt.Fprintln(p.out())
	fmt.Fprintf(p.out(), "  events:         %d\n", stats.Vertices)
	fmt.Fprintf(p.out(), "  arcs:           %d (%d dummy, %d critical)\n", stats.Edges, stats.DummyEdges, stats.CriticalEdges)
}

// ValidateResult reports the outcome of validating an input file.
func (p *Printer) ValidateResult(path string, activities int, errs []error) {
	if len(errs) == 0 {
		fmt.Fprintf(p.out(), ansi.Green+ansi.Bold+"✓ %s"+ansi.Reset+" — %d activities, no errors\n", path, activities)
		return
	}
	fmt.Fprintf(p.out(), ansi.Red+ansi.Bold+"✗ %s"+ansi.Reset+" — %d error(s):\n", path, len(errs))
	for _, e := range errs {
		fmt.Fprintf(p.out(), "  "+ansi.Red+"• "+ansi.Reset+"%s\n", e.Error())
	}
}

// Watching announces that path is being watched for changes.
func (p *Printer) Watching(path string) {
	fmt.Fprintf(p.out(), ansi.Cyan+"◆ watching"+ansi.Reset+" %s "+ansi.Dim+"(ctrl-c to stop)"+ansi.Reset+"\n", path)
}

func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprint(id)
	}
	return strings.Join(parts, " → ")
}
