// Package unknownlog persists the (code, tag) pairs of RPC errors the
// classifier does not recognize. The log is an append-only artifact: records
// are never rewritten, truncated or read back by the library itself. Its
// purpose is to collect new server-side errors so they can be reported
// upstream and added to the classification table.
//
// Appends are best-effort by contract: a failing write is counted and
// dropped, never surfaced to the classification path.
package unknownlog

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// DefaultPath is the file used when no path is configured.
const DefaultPath = "unknown_errors.txt"

// Recorder receives unknown (code, tag) pairs. It matches rpcerr.Recorder
// so any implementation here can be attached to a classifier directly.
type Recorder interface {
	Record(code int, tag string)
}

// FileRecorder appends one record per line to a log file. Each record is
// written as a whole under a mutex, so concurrent appends never interleave
// partially; ordering between concurrent appends is unspecified.
type FileRecorder struct {
	mu      sync.Mutex
	file    *os.File
	dropped int
	nowFunc func() time.Time // for testing
}

// Open creates or opens the log file at path for appending.
func Open(path string) (*FileRecorder, error) {
	if path == "" {
		path = DefaultPath
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open unknown error log: %w", err)
	}
	return &FileRecorder{file: file, nowFunc: time.Now}, nil
}

// Record appends one record. The layout is stable: RFC3339 timestamp, code
// and tag, tab-separated. Write failures are swallowed and counted.
func (r *FileRecorder) Record(code int, tag string) {
	line := fmt.Sprintf("%s\t%d\t%s\n", r.nowFunc().UTC().Format(time.RFC3339), code, tag)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.file == nil {
		r.dropped++
		return
	}
	if _, err := r.file.WriteString(line); err != nil {
		r.dropped++
	}
}

// Dropped returns how many records were lost to write failures.
func (r *FileRecorder) Dropped() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropped
}

// Sync flushes the file to stable storage.
func (r *FileRecorder) Sync() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.file == nil {
		return nil
	}
	return r.file.Sync()
}

// Close closes the log file. Records arriving after Close are counted as
// dropped, keeping the recorder safe to leave attached to a classifier.
func (r *FileRecorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// MemoryRecorder stores records in memory. Test support and small tools.
type MemoryRecorder struct {
	mu      sync.Mutex
	records []Record
}

// Record is one logged unknown outcome.
type Record struct {
	Time time.Time
	Code int
	Tag  string
}

// NewMemoryRecorder creates an empty in-memory recorder.
func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{}
}

// Record appends one record.
func (m *MemoryRecorder) Record(code int, tag string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, Record{Time: time.Now(), Code: code, Tag: tag})
}

// Records returns a copy of everything recorded so far.
func (m *MemoryRecorder) Records() []Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Record, len(m.records))
	copy(out, m.records)
	return out
}

// Len returns the number of records.
func (m *MemoryRecorder) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

// Noop discards all records.
type Noop struct{}

// Record discards the record.
func (Noop) Record(code int, tag string) {}

// Tee forwards each record to every recorder in order. Used to combine the
// durable file log with a telemetry exporter.
type Tee []Recorder

// Record forwards the record to every recorder.
func (t Tee) Record(code int, tag string) {
	for _, r := range t {
		if r != nil {
			r.Record(code, tag)
		}
	}
}
