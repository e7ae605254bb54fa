// OpenTelemetry tracing support for RPC call observability.
package telemetry

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/vinayprograms/tgkit/rpcerr"
)

// Tracer wraps OpenTelemetry tracing with RPC-specific helpers.
type Tracer struct {
	tracer trace.Tracer
	debug  bool // When true, include request payload summaries in span attributes
}

var (
	globalTracer *Tracer
	tracerMu     sync.RWMutex
)

// SetGlobalTracer sets the global tracer instance.
func SetGlobalTracer(t *Tracer) {
	tracerMu.Lock()
	defer tracerMu.Unlock()
	globalTracer = t
}

// GetTracer returns the global tracer, or a no-op tracer if not set.
func GetTracer() *Tracer {
	tracerMu.RLock()
	defer tracerMu.RUnlock()
	if globalTracer == nil {
		return &Tracer{tracer: trace.NewNoopTracerProvider().Tracer("")}
	}
	return globalTracer
}

// NewTracer creates a new tracer with the given name.
func NewTracer(name string, debug bool) *Tracer {
	return &Tracer{
		tracer: otel.Tracer(name),
		debug:  debug,
	}
}

// SetDebug enables or disables debug mode (payload summaries in spans).
func (t *Tracer) SetDebug(debug bool) {
	t.debug = debug
}

// Debug returns whether debug mode is enabled.
func (t *Tracer) Debug() bool {
	return t.debug
}

// StartSpan starts a new span with the given name.
func (t *Tracer) StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, name, opts...)
}

// --- RPC Spans ---

// RPCSpanOptions contains options for RPC call spans.
type RPCSpanOptions struct {
	Method  string
	DC      int    // datacenter the call went to, 0 if unknown
	Attempt int    // retry attempt, starting at 1
	Query   string // request summary, only included if debug=true
}

// StartRPCSpan starts a span for an outgoing RPC call.
func (t *Tracer) StartRPCSpan(ctx context.Context, method string) (context.Context, trace.Span) {
	ctx, span := t.tracer.Start(ctx, "rpc."+method, trace.WithSpanKind(trace.SpanKindClient))
	span.SetAttributes(attribute.String("rpc.method", method))
	return ctx, span
}

// EndRPCSpan ends an RPC span. A classified failure is broken out into its
// taxonomy attributes so traces can be filtered by category, kind or tag.
func (t *Tracer) EndRPCSpan(span trace.Span, opts RPCSpanOptions, err error) {
	attrs := []attribute.KeyValue{}
	if opts.DC > 0 {
		attrs = append(attrs, attribute.Int("rpc.dc", opts.DC))
	}
	if opts.Attempt > 0 {
		attrs = append(attrs, attribute.Int("rpc.attempt", opts.Attempt))
	}
	if t.debug && opts.Query != "" {
		attrs = append(attrs, attribute.String("rpc.query", truncate(opts.Query, 2000)))
	}

	if e := rpcerr.As(err); e != nil {
		attrs = append(attrs,
			attribute.Int("rpc.error.code", e.Category().Code()),
			attribute.String("rpc.error.category", e.Category().Name()),
			attribute.String("rpc.error.kind", e.Kind().String()),
			attribute.String("rpc.error.tag", e.Tag()),
			attribute.Bool("rpc.error.retryable", e.IsRetryable()),
		)
		if v, ok := e.Value(); ok {
			attrs = append(attrs, attribute.Int("rpc.error.value", v))
		}
	}

	span.SetAttributes(attrs...)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}

	span.End()
}

// --- Classification Spans ---

// ClassifySpanOptions contains options for classification spans.
type ClassifySpanOptions struct {
	Code    int
	Tag     string
	Unknown bool // the outcome produced an unknown-error record
}

// StartClassifySpan starts a span covering one classification.
func (t *Tracer) StartClassifySpan(ctx context.Context) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "rpcerr.classify", trace.WithSpanKind(trace.SpanKindInternal))
}

// EndClassifySpan ends a classification span with its outcome attributes.
func (t *Tracer) EndClassifySpan(span trace.Span, opts ClassifySpanOptions) {
	span.SetAttributes(
		attribute.Int("classify.code", opts.Code),
		attribute.String("classify.tag", opts.Tag),
		attribute.Bool("classify.unknown", opts.Unknown),
	)
	span.SetStatus(codes.Ok, "")
	span.End()
}

// --- Context Propagation ---

// InjectContext injects trace context into a carrier for cross-process propagation.
func InjectContext(ctx context.Context, carrier propagation.TextMapCarrier) {
	otel.GetTextMapPropagator().Inject(ctx, carrier)
}

// ExtractContext extracts trace context from a carrier.
func ExtractContext(ctx context.Context, carrier propagation.TextMapCarrier) context.Context {
	return otel.GetTextMapPropagator().Extract(ctx, carrier)
}

// MapCarrier is a simple map-based TextMapCarrier for context propagation.
type MapCarrier map[string]string

func (c MapCarrier) Get(key string) string {
	return c[key]
}

func (c MapCarrier) Set(key, value string) {
	c[key] = value
}

func (c MapCarrier) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	return keys
}

// --- Helpers ---

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
