package telemetry

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewExporter(t *testing.T) {
	tests := []struct {
		protocol string
		endpoint string
		wantErr  bool
	}{
		{"noop", "", false},
		{"", "", false},
		{"http", "https://errors.example.org/report", false},
		{"carrier-pigeon", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.protocol, func(t *testing.T) {
			exp, err := NewExporter(tt.protocol, tt.endpoint)
			if tt.wantErr {
				if err == nil {
					t.Errorf("NewExporter(%q) expected error, got nil", tt.protocol)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewExporter(%q) failed: %v", tt.protocol, err)
			}
			exp.Close()
		})
	}
}

func TestNewReport(t *testing.T) {
	rep := NewReport(999, "ANYTHING")

	if rep.ReportID == "" {
		t.Error("report should carry a generated report ID")
	}
	if rep.Code != 999 || rep.Tag != "ANYTHING" {
		t.Errorf("report = %+v, want code 999 tag ANYTHING", rep)
	}
	if rep.Timestamp.IsZero() {
		t.Error("report timestamp should be set")
	}

	other := NewReport(999, "ANYTHING")
	if other.ReportID == rep.ReportID {
		t.Error("each report should get a unique ID")
	}
}

func TestFileExporter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "telemetry.jsonl")

	exp, err := NewFileExporter(path)
	if err != nil {
		t.Fatalf("NewFileExporter failed: %v", err)
	}

	exp.LogEvent("classify", map[string]interface{}{"code": 420})
	exp.LogReport(Report{
		ReportID:  "r-1",
		Code:      999,
		Tag:       "SOME_NEW_TAG",
		Timestamp: time.Date(2026, 2, 5, 4, 0, 0, 0, time.UTC),
	})
	if err := exp.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening telemetry file: %v", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 JSON lines, got %d", len(lines))
	}

	var event Event
	if err := json.Unmarshal([]byte(lines[0]), &event); err != nil {
		t.Fatalf("unmarshal event line: %v", err)
	}
	if event.Name != "classify" {
		t.Errorf("event name = %q, want classify", event.Name)
	}

	var rep Report
	if err := json.Unmarshal([]byte(lines[1]), &rep); err != nil {
		t.Fatalf("unmarshal report line: %v", err)
	}
	if rep.ReportID != "r-1" || rep.Code != 999 || rep.Tag != "SOME_NEW_TAG" {
		t.Errorf("report = %+v", rep)
	}
}

func TestNoopExporter(t *testing.T) {
	exp := NewNoopExporter()
	exp.LogEvent("classify", map[string]interface{}{"code": 420})
	exp.LogReport(NewReport(999, "ANYTHING"))
	if err := exp.Flush(); err != nil {
		t.Errorf("Flush() = %v, want nil", err)
	}
	if err := exp.Close(); err != nil {
		t.Errorf("Close() = %v, want nil", err)
	}
}

// captureExporter records reports handed to it for inspection.
type captureExporter struct {
	NoopExporter
	reports []Report
}

func (c *captureExporter) LogReport(rep Report) {
	c.reports = append(c.reports, rep)
}

func TestRecorder(t *testing.T) {
	capture := &captureExporter{}
	rec := NewRecorder(capture, "staging-eu")

	rec.Record(999, "ANYTHING")
	rec.Record(400, "SOME_NEW_TAG_123")

	if len(capture.reports) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(capture.reports))
	}

	first := capture.reports[0]
	if first.Code != 999 || first.Tag != "ANYTHING" {
		t.Errorf("first report = %+v", first)
	}
	if first.ClientTag != "staging-eu" {
		t.Errorf("ClientTag = %q, want staging-eu", first.ClientTag)
	}
	if first.ReportID == "" {
		t.Error("report should carry an ID")
	}
	if first.ReportID == capture.reports[1].ReportID {
		t.Error("reports should have distinct IDs")
	}
}

func TestMapCarrier(t *testing.T) {
	carrier := MapCarrier{}
	carrier.Set("traceparent", "00-abc-def-01")

	if got := carrier.Get("traceparent"); got != "00-abc-def-01" {
		t.Errorf("Get() = %q", got)
	}
	if keys := carrier.Keys(); len(keys) != 1 || keys[0] != "traceparent" {
		t.Errorf("Keys() = %v", keys)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("hello", 10); got != "hello" {
		t.Errorf("truncate short = %q", got)
	}
	if got := truncate("hello world", 5); got != "hello..." {
		t.Errorf("truncate long = %q", got)
	}
}
