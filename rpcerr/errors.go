package rpcerr

import (
	"encoding/json"
	"fmt"
	"time"
)

// RPCError is the interface for all classified RPC errors in tgkit.
// It extends the standard error interface with the taxonomy fields callers
// match on when deciding how to handle a failure.
type RPCError interface {
	error

	// Category returns the coarse error class of the failure.
	Category() Category

	// Kind returns the specific named error within the category.
	Kind() Kind

	// Tag returns the raw tag string as received from the server.
	Tag() string

	// Value returns the numeric payload carried by the error (wait seconds,
	// datacenter id, file part index) and whether one is present.
	Value() (int, bool)
}

// Error is the concrete implementation of RPCError. Instances are immutable
// once constructed; they are created by Classify and consumed by the caller
// of the failed request.
type Error struct {
	category  Category
	kind      Kind
	tag       string
	message   string
	value     *int
	method    string // RPC method that produced the failure, if known
	timestamp time.Time
}

// Ensure Error implements RPCError and json.Marshaler/Unmarshaler.
var (
	_ RPCError         = (*Error)(nil)
	_ json.Marshaler   = (*Error)(nil)
	_ json.Unmarshaler = (*Error)(nil)
)

// Error returns the error message.
func (e *Error) Error() string {
	if e.message != "" {
		return fmt.Sprintf("[%d %s] %s", int(e.category), e.tag, e.message)
	}
	return fmt.Sprintf("[%d %s]", int(e.category), e.tag)
}

// Category returns the error category.
func (e *Error) Category() Category {
	return e.category
}

// Kind returns the specific error kind.
func (e *Error) Kind() Kind {
	return e.kind
}

// Tag returns the raw tag as received from the server. For a specific kind
// this is the concrete tag (FLOOD_WAIT_30), not the registered template.
func (e *Error) Tag() string {
	return e.tag
}

// Value returns the numeric payload and whether one is attached.
func (e *Error) Value() (int, bool) {
	if e.value == nil {
		return 0, false
	}
	return *e.value, true
}

// Method returns the RPC method that produced the failure, if recorded.
func (e *Error) Method() string {
	return e.method
}

// Timestamp returns when the error was classified.
func (e *Error) Timestamp() time.Time {
	return e.timestamp
}

// IsRetryable returns whether repeating the same request may succeed.
func (e *Error) IsRetryable() bool {
	return e.category.IsRetryable()
}

// errorJSON is the JSON representation of an Error.
type errorJSON struct {
	Code      int    `json:"code"`
	Kind      Kind   `json:"kind"`
	Tag       string `json:"tag"`
	Message   string `json:"message,omitempty"`
	Value     *int   `json:"value,omitempty"`
	Method    string `json:"method,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (e *Error) MarshalJSON() ([]byte, error) {
	j := errorJSON{
		Code:    int(e.category),
		Kind:    e.kind,
		Tag:     e.tag,
		Message: e.message,
		Value:   e.value,
		Method:  e.method,
	}
	if !e.timestamp.IsZero() {
		j.Timestamp = e.timestamp.Format(time.RFC3339Nano)
	}
	return json.Marshal(j)
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *Error) UnmarshalJSON(data []byte) error {
	var j errorJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	e.category, _ = CategoryForCode(j.Code)
	e.kind = j.Kind
	e.tag = j.Tag
	e.message = j.Message
	e.value = j.Value
	e.method = j.Method
	if j.Timestamp != "" {
		if t, err := time.Parse(time.RFC3339Nano, j.Timestamp); err == nil {
			e.timestamp = t
		}
	}
	return nil
}

// Option is a functional option for Classify.
type Option func(*Error)

// WithValue attaches a numeric payload supplied out of band. A value
// embedded in the tag itself is extracted automatically; this option takes
// precedence when both are present.
func WithValue(v int) Option {
	return func(e *Error) {
		e.value = &v
	}
}

// WithMethod records the RPC method that produced the failure.
func WithMethod(method string) Option {
	return func(e *Error) {
		e.method = method
	}
}

// WithMessage overrides the default message derived from the kind's
// registered description.
func WithMessage(message string) Option {
	return func(e *Error) {
		e.message = message
	}
}

// WithTimestamp sets a custom classification timestamp.
func WithTimestamp(t time.Time) Option {
	return func(e *Error) {
		e.timestamp = t
	}
}
