package rpcerr

import (
	"regexp"
	"strconv"
	"time"
)

// Recorder receives the raw (code, tag) pair of every unknown outcome: an
// unrecognized numeric code, or an unrecognized tag within a known category.
// Implementations must be safe for concurrent use and must not fail loudly;
// classification never propagates a recorder problem. Package unknownlog
// provides the file-backed implementation.
type Recorder interface {
	Record(code int, tag string)
}

// Classifier maps raw RPC failure signals to *Error values. The zero value
// classifies without recording unknowns; use NewClassifier to attach a
// Recorder. Classifiers are stateless apart from the recorder reference and
// safe for concurrent use.
type Classifier struct {
	recorder Recorder
}

// ClassifierOption configures a Classifier.
type ClassifierOption func(*Classifier)

// WithRecorder attaches the recorder that unknown (code, tag) pairs are
// reported to.
func WithRecorder(r Recorder) ClassifierOption {
	return func(c *Classifier) {
		c.recorder = r
	}
}

// NewClassifier creates a Classifier.
func NewClassifier(opts ...ClassifierOption) *Classifier {
	c := &Classifier{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// tagValue matches the numeric component of value-carrying tags such as
// FLOOD_WAIT_30 or FILE_PART_3_MISSING.
var tagValue = regexp.MustCompile(`_(\d+)`)

// normalizeTag canonicalizes a raw tag by replacing its numeric component
// with the X placeholder and returns the extracted value, if any.
func normalizeTag(tag string) (canonical string, value int, ok bool) {
	m := tagValue.FindStringSubmatch(tag)
	if m == nil {
		return tag, 0, false
	}
	value, err := strconv.Atoi(m[1])
	if err != nil {
		return tag, 0, false
	}
	return tagValue.ReplaceAllString(tag, "_X"), value, true
}

// Classify maps a raw RPC failure signal to an *Error. It is total: every
// (code, tag) pair, including unknown ones, yields a valid error value.
//
// Resolution order:
//   - code outside the category table: 520 UNKNOWN_ERROR instance, the raw
//     pair is reported to the recorder;
//   - tag outside the category's kind table: the category's generic
//     instance, the raw pair is reported to the recorder;
//   - both known: the specific kind's instance with the payload attached.
//
// The payload is taken from WithValue when given, otherwise extracted from
// the numeric component of the tag itself. Recording is best-effort by
// contract and can never turn into a classification failure.
func (c *Classifier) Classify(code int, tag string, opts ...Option) *Error {
	e := &Error{
		tag:       tag,
		timestamp: time.Now(),
	}

	cat, known := CategoryForCode(code)
	if !known || code <= 0 {
		e.category = CategoryUnknown
		e.kind = KindUnknown
		e.message = KindUnknown.Description()
		c.record(code, tag)
		return apply(e, opts)
	}

	e.category = cat
	table := registry[cat]

	canonical, embedded, hasEmbedded := normalizeTag(tag)
	kind, found := lookupKind(table, canonical, hasEmbedded)
	switch {
	case found:
		e.kind = kind
		e.message = table.kinds[kind]
		if hasEmbedded {
			e.value = &embedded
		}
	case table.matchAny:
		e.kind = table.generic
		e.message = table.generic.Description()
	default:
		e.kind = table.generic
		e.message = table.generic.Description()
		c.record(code, tag)
	}
	return apply(e, opts)
}

// lookupKind resolves a canonical tag within a category table. A tag with no
// embedded value also matches its _X template, covering peers that strip the
// numeric suffix and deliver the payload out of band.
func lookupKind(table *categoryTable, canonical string, hasEmbedded bool) (Kind, bool) {
	if _, ok := table.kinds[Kind(canonical)]; ok {
		return Kind(canonical), true
	}
	if !hasEmbedded {
		templated := Kind(canonical + "_X")
		if _, ok := table.kinds[templated]; ok {
			return templated, true
		}
	}
	return "", false
}

func apply(e *Error, opts []Option) *Error {
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (c *Classifier) record(code int, tag string) {
	if c.recorder == nil {
		return
	}
	c.recorder.Record(code, tag)
}

// defaultClassifier backs the package-level Classify for callers that do not
// need an unknown recorder.
var defaultClassifier = &Classifier{}

// Classify classifies with the package default Classifier, which has no
// unknown recorder attached.
func Classify(code int, tag string, opts ...Option) *Error {
	return defaultClassifier.Classify(code, tag, opts...)
}
