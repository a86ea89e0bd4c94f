package cmd

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/papapumpkin/arrowplan/internal/config"
	"github.com/papapumpkin/arrowplan/internal/telemetry"
)

var telemetryCmd = &cobra.Command{
	Use:   "telemetry [file]",
	Short: "View JSONL telemetry events of arrowplan runs",
	Long: `Reads and formats a JSONL telemetry file written by gen --telemetry.

Without a file argument, uses the configured telemetry_path.
With --follow (-f), watches the file for new events (like tail -f).
With --run, only events of that run id are shown.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTelemetry,
}

func init() {
	telemetryCmd.Flags().BoolP("follow", "f", false, "follow the file for new events")
	telemetryCmd.Flags().String("run", "", "only show events of this run id")
	rootCmd.AddCommand(telemetryCmd)
}

func runTelemetry(cmd *cobra.Command, args []string) error {
	follow, _ := cmd.Flags().GetBool("follow")
	runID, _ := cmd.Flags().GetString("run")

	path, err := resolveTelemetryPath(args)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("telemetry: open %s: %w", path, err)
	}
	defer f.Close()

	out := cmd.OutOrStdout()
	er := &eventReader{r: bufio.NewReader(f), runID: runID}
	if err := er.drain(out); err != nil {
		return fmt.Errorf("telemetry: read %s: %w", path, err)
	}

	if !follow {
		er.flush(out)
		return nil
	}
	return tailFollow(out, er, path)
}

// resolveTelemetryPath picks the file named on the command line, falling
// back to the configured telemetry_path.
func resolveTelemetryPath(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	cfg, err := config.Load()
	if err != nil {
		return "", fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.TelemetryPath == "" {
		return "", errors.New("telemetry: no file given and telemetry_path is not set")
	}
	return cfg.TelemetryPath, nil
}

// eventReader prints complete JSONL lines as they become available. A line
// still being written is held back until its newline arrives.
type eventReader struct {
	r       *bufio.Reader
	partial string
	runID   string
}

// drain prints every complete line available.
func (er *eventReader) drain(w io.Writer) error {
	for {
		line, err := er.r.ReadString('\n')
		if errors.Is(err, io.EOF) {
			er.partial += line
			return nil
		}
		if err != nil {
			return err
		}
		line, er.partial = er.partial+line, ""
		if line = strings.TrimSpace(line); line != "" {
			printEvent(w, line, er.runID)
		}
	}
}

// flush prints a trailing line that has no newline.
func (er *eventReader) flush(w io.Writer) {
	if line := strings.TrimSpace(er.partial); line != "" {
		printEvent(w, line, er.runID)
	}
	er.partial = ""
}

// tailFollow watches the file for new data using fsnotify and prints new events.
func tailFollow(w io.Writer, er *eventReader, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("telemetry: create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("telemetry: watch %s: %w", path, err)
	}

	for event := range watcher.Events {
		if !event.Has(fsnotify.Write) {
			continue
		}
		if err := er.drain(w); err != nil {
			return fmt.Errorf("telemetry: read %s: %w", path, err)
		}
	}
	return nil
}

// printEvent decodes a JSONL line and prints a human-readable representation.
// Events of other runs are skipped when runID is set.
func printEvent(w io.Writer, line, runID string) {
	var evt telemetry.Event
	if err := json.Unmarshal([]byte(line), &evt); err != nil {
		fmt.Fprintf(w, "??? %s\n", line)
		return
	}
	if runID != "" && evt.RunID != runID {
		return
	}

	ts := evt.Timestamp.Format(time.TimeOnly)
	var parts []string
	parts = append(parts, fmt.Sprintf("[%s]", ts))
	parts = append(parts, evt.Kind)

	if evt.RunID != "" {
		parts = append(parts, fmt.Sprintf("run=%s", shortRunID(evt.RunID)))
	}
	if evt.Input != "" {
		parts = append(parts, fmt.Sprintf("input=%s", evt.Input))
	}
	if evt.Data != nil {
		if m, ok := evt.Data.(map[string]any); ok {
			parts = append(parts, formatDataMap(m))
		} else {
			data, _ := json.Marshal(evt.Data)
			parts = append(parts, string(data))
		}
	}

	fmt.Fprintln(w, strings.Join(parts, " "))
}

// shortRunID trims a uuid to its first group.
func shortRunID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}

// formatDataMap formats a data map as key=value pairs sorted by key.
func formatDataMap(m map[string]any) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%s=%v", k, m[k])
	}
	return b.String()
}
