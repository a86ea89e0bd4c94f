package ctxlog

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestFromContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New("info", "text", &buf)
	ctx := WithLogger(context.Background(), logger)
	if got := FromContext(ctx); got != logger {
		t.Errorf("FromContext() = %p, want %p", got, logger)
	}

	// A bare context still yields a usable logger.
	FromContext(context.Background()).Error("dropped")
	if buf.Len() != 0 {
		t.Errorf("discard logger wrote %q", buf.String())
	}
}

func TestNew_Levels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level     string
		wantDebug bool
		wantInfo  bool
		wantWarn  bool
	}{
		{"debug", true, true, true},
		{"info", false, true, true},
		{"warn", false, false, true},
		{"error", false, false, false},
		{"bogus", false, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			l := New(tt.level, "text", &buf)
			l.Debug("d-line")
			l.Info("i-line")
			l.Warn("w-line")
			out := buf.String()
			for _, c := range []struct {
				line string
				want bool
			}{{"d-line", tt.wantDebug}, {"i-line", tt.wantInfo}, {"w-line", tt.wantWarn}} {
				if got := strings.Contains(out, c.line); got != c.want {
					t.Errorf("level %s: %s logged = %v, want %v", tt.level, c.line, got, c.want)
				}
			}
		})
	}
}

func TestNew_JSONFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	New("info", "json", &buf).Info("computed schedule", "activities", 6)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("unmarshal %q: %v", buf.String(), err)
	}
	if rec["msg"] != "computed schedule" {
		t.Errorf("msg = %v", rec["msg"])
	}
	if rec["activities"] != float64(6) {
		t.Errorf("activities = %v, want 6", rec["activities"])
	}
}
