// Package telemetry exports unknown-error reports and RPC traces.
//
// The durable unknown-error log (package unknownlog) stays on disk with the
// client; this package covers the other half of the workflow the error
// taxonomy depends on: shipping the unrecognized (code, tag) pairs upstream
// so the classification table can grow.
package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Exporter is the interface for telemetry exporters.
type Exporter interface {
	// LogEvent logs an event with the given name and data.
	LogEvent(name string, data map[string]interface{})
	// LogReport logs an unknown-error report.
	LogReport(rep Report)
	// Flush sends any buffered data.
	Flush() error
	// Close closes the exporter.
	Close() error
}

// Report is one unknown-error occurrence prepared for submission.
type Report struct {
	ReportID  string    `json:"report_id"`
	Code      int       `json:"code"`
	Tag       string    `json:"tag"`
	Method    string    `json:"method,omitempty"`
	ClientTag string    `json:"client_tag,omitempty"` // deployment label, not user data
	Timestamp time.Time `json:"timestamp"`
}

// NewReport builds a Report with a fresh report ID.
func NewReport(code int, tag string) Report {
	return Report{
		ReportID:  uuid.NewString(),
		Code:      code,
		Tag:       tag,
		Timestamp: time.Now(),
	}
}

// Event represents a telemetry event.
type Event struct {
	Name      string                 `json:"name"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

// NewExporter creates a new exporter based on protocol.
func NewExporter(protocol, endpoint string) (Exporter, error) {
	switch protocol {
	case "http":
		return NewHTTPExporter(endpoint), nil
	case "file":
		return NewFileExporter(endpoint)
	case "noop", "":
		return NewNoopExporter(), nil
	default:
		return nil, fmt.Errorf("unknown telemetry protocol: %s", protocol)
	}
}

// --- HTTP Exporter ---

// HTTPExporter sends telemetry to an HTTP endpoint.
type HTTPExporter struct {
	endpoint string
	client   *http.Client
	buffer   []interface{}
	mu       sync.Mutex
}

// NewHTTPExporter creates a new HTTP exporter.
func NewHTTPExporter(endpoint string) *HTTPExporter {
	return &HTTPExporter{
		endpoint: endpoint,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		buffer: make([]interface{}, 0, 100),
	}
}

func (e *HTTPExporter) LogEvent(name string, data map[string]interface{}) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.buffer = append(e.buffer, Event{
		Name:      name,
		Timestamp: time.Now(),
		Data:      data,
	})
	if len(e.buffer) >= 100 {
		e.flush()
	}
}

func (e *HTTPExporter) LogReport(rep Report) {
	if rep.Timestamp.IsZero() {
		rep.Timestamp = time.Now()
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.buffer = append(e.buffer, rep)
	if len(e.buffer) >= 100 {
		e.flush()
	}
}

func (e *HTTPExporter) Flush() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.flush()
}

func (e *HTTPExporter) flush() error {
	if len(e.buffer) == 0 {
		return nil
	}

	data, err := json.Marshal(e.buffer)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "POST", e.endpoint, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("telemetry endpoint returned %d", resp.StatusCode)
	}

	e.buffer = e.buffer[:0]
	return nil
}

func (e *HTTPExporter) Close() error {
	return e.Flush()
}

// --- File Exporter ---

// FileExporter writes telemetry to a file.
type FileExporter struct {
	file *os.File
	mu   sync.Mutex
}

// NewFileExporter creates a new file exporter.
func NewFileExporter(path string) (*FileExporter, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open telemetry file: %w", err)
	}
	return &FileExporter{file: file}, nil
}

func (e *FileExporter) LogEvent(name string, data map[string]interface{}) {
	event := Event{
		Name:      name,
		Timestamp: time.Now(),
		Data:      data,
	}
	e.write(event)
}

func (e *FileExporter) LogReport(rep Report) {
	if rep.Timestamp.IsZero() {
		rep.Timestamp = time.Now()
	}
	e.write(rep)
}

func (e *FileExporter) write(v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.file.Write(data)
	e.file.Write([]byte("\n"))
}

func (e *FileExporter) Flush() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.file.Sync()
}

func (e *FileExporter) Close() error {
	e.Flush()
	return e.file.Close()
}

// --- Noop Exporter ---

// NoopExporter discards all telemetry.
type NoopExporter struct{}

// NewNoopExporter creates a new noop exporter.
func NewNoopExporter() *NoopExporter {
	return &NoopExporter{}
}

func (e *NoopExporter) LogEvent(name string, data map[string]interface{}) {}

func (e *NoopExporter) LogReport(rep Report) {}

func (e *NoopExporter) Flush() error { return nil }

func (e *NoopExporter) Close() error { return nil }

// --- Recorder bridge ---

// Recorder adapts an Exporter to the unknown-error Recorder interface, so a
// classifier can report unknowns upstream in addition to the durable file
// log (combine both with unknownlog.Tee).
type Recorder struct {
	exporter  Exporter
	clientTag string
}

// NewRecorder creates a Recorder forwarding to the given exporter. clientTag
// is an optional deployment label attached to every report.
func NewRecorder(exporter Exporter, clientTag string) *Recorder {
	return &Recorder{exporter: exporter, clientTag: clientTag}
}

// Record builds a Report for the unknown pair and hands it to the exporter.
func (r *Recorder) Record(code int, tag string) {
	rep := NewReport(code, tag)
	rep.ClientTag = r.clientTag
	r.exporter.LogReport(rep)
}
