// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package spanrecord decodes finished spans produced outside of this
// process, such as the jobs and steps of a CI workflow run, and turns
// them into [sdktrace.ReadOnlySpan]s which can be handed to a span
// processor.
//
// A record looks like:
//
//	{
//	  "name": "build",
//	  "trace_id": "4bf92f3577b34da6a3ce929d0e0e4736",
//	  "span_id": "00f067aa0ba902b7",
//	  "parent_span_id": "",
//	  "kind": "internal",
//	  "start_time": "2026-01-02T15:04:05Z",
//	  "end_time": "2026-01-02T15:06:00Z",
//	  "attributes": {"ci.job": "build", "ci.attempt": 1},
//	  "events": [{"name": "cache miss", "time": "2026-01-02T15:04:10Z"}],
//	  "links": [{"trace_id": "...", "span_id": "..."}],
//	  "status": {"code": "ok"}
//	}
package spanrecord

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/instrumentation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

// Record is a finished span as data.
type Record struct {
	Name         string         `json:"name" yaml:"name"`
	TraceID      string         `json:"trace_id" yaml:"trace_id"`
	SpanID       string         `json:"span_id" yaml:"span_id"`
	ParentSpanID string         `json:"parent_span_id,omitempty" yaml:"parent_span_id,omitempty"`
	Kind         string         `json:"kind,omitempty" yaml:"kind,omitempty"`
	StartTime    time.Time      `json:"start_time" yaml:"start_time"`
	EndTime      time.Time      `json:"end_time" yaml:"end_time"`
	Attributes   map[string]any `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Events       []Event        `json:"events,omitempty" yaml:"events,omitempty"`
	Links        []Link         `json:"links,omitempty" yaml:"links,omitempty"`
	Status       Status         `json:"status,omitempty" yaml:"status,omitempty"`
}

// Event is a timestamped annotation on a [Record].
type Event struct {
	Name       string         `json:"name" yaml:"name"`
	Time       time.Time      `json:"time" yaml:"time"`
	Attributes map[string]any `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// Link points from a [Record] to another span.
type Link struct {
	TraceID    string         `json:"trace_id" yaml:"trace_id"`
	SpanID     string         `json:"span_id" yaml:"span_id"`
	Attributes map[string]any `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// Status is the outcome of a [Record]. Code is one of "unset", "ok"
// or "error" and defaults to "unset".
type Status struct {
	Code        string `json:"code,omitempty" yaml:"code,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

var (
	ErrMissingName      = errors.New("span name is required")
	ErrMissingStartTime = errors.New("start time is required")
	ErrMissingEndTime   = errors.New("end time is required")
	ErrEndBeforeStart   = errors.New("end time is before start time")
	ErrUnknownKind      = errors.New("unknown span kind")
	ErrUnknownStatus    = errors.New("unknown status code")
)

// InvalidIDError occurs when a trace or span id is not valid hex or
// is all zeros.
type InvalidIDError struct {
	Field string
	Value string
	Cause error
}

// Error implements the error interface.
func (e InvalidIDError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e InvalidIDError) Unwrap() error {
	return e.Cause
}

// InvalidRecordError occurs when the record at Index cannot be
// converted into a span.
type InvalidRecordError struct {
	Index int
	Name  string
	Cause error
}

// Error implements the error interface.
func (e InvalidRecordError) Error() string {
	return fmt.Sprintf("invalid span record %d (%q): %s", e.Index, e.Name, e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e InvalidRecordError) Unwrap() error {
	return e.Cause
}

// Snapshot validates r and converts it into a sampled
// [sdktrace.ReadOnlySpan] carrying the given resource and scope.
func (r Record) Snapshot(res *resource.Resource, scope instrumentation.Scope) (sdktrace.ReadOnlySpan, error) {
	if strings.TrimSpace(r.Name) == "" {
		return nil, ErrMissingName
	}

	traceID, err := parseTraceID("trace_id", r.TraceID)
	if err != nil {
		return nil, err
	}
	spanID, err := parseSpanID("span_id", r.SpanID)
	if err != nil {
		return nil, err
	}

	if r.StartTime.IsZero() {
		return nil, ErrMissingStartTime
	}
	if r.EndTime.IsZero() {
		return nil, ErrMissingEndTime
	}
	if r.EndTime.Before(r.StartTime) {
		return nil, ErrEndBeforeStart
	}

	kind, err := parseKind(r.Kind)
	if err != nil {
		return nil, err
	}
	status, err := r.Status.status()
	if err != nil {
		return nil, err
	}

	stub := tracetest.SpanStub{
		Name: r.Name,
		SpanContext: trace.NewSpanContext(trace.SpanContextConfig{
			TraceID:    traceID,
			SpanID:     spanID,
			TraceFlags: trace.FlagsSampled,
		}),
		SpanKind:             kind,
		StartTime:            r.StartTime,
		EndTime:              r.EndTime,
		Attributes:           attributes(r.Attributes),
		Status:               status,
		Resource:             res,
		InstrumentationScope: scope,
	}

	if strings.TrimSpace(r.ParentSpanID) != "" {
		parentID, err := parseSpanID("parent_span_id", r.ParentSpanID)
		if err != nil {
			return nil, err
		}
		stub.Parent = trace.NewSpanContext(trace.SpanContextConfig{
			TraceID:    traceID,
			SpanID:     parentID,
			TraceFlags: trace.FlagsSampled,
		})
	}

	for _, ev := range r.Events {
		t := ev.Time
		if t.IsZero() {
			t = r.StartTime
		}
		stub.Events = append(stub.Events, sdktrace.Event{
			Name:       ev.Name,
			Time:       t,
			Attributes: attributes(ev.Attributes),
		})
	}

	for _, l := range r.Links {
		linkTraceID, err := parseTraceID("link trace_id", l.TraceID)
		if err != nil {
			return nil, err
		}
		linkSpanID, err := parseSpanID("link span_id", l.SpanID)
		if err != nil {
			return nil, err
		}
		stub.Links = append(stub.Links, sdktrace.Link{
			SpanContext: trace.NewSpanContext(trace.SpanContextConfig{
				TraceID:    linkTraceID,
				SpanID:     linkSpanID,
				TraceFlags: trace.FlagsSampled,
			}),
			Attributes: attributes(l.Attributes),
		})
	}

	return stub.Snapshot(), nil
}

// Snapshots converts every record, in order. Records which fail to
// convert are skipped and reported as [InvalidRecordError]s joined
// into the returned error.
func Snapshots(records []Record, res *resource.Resource, scope instrumentation.Scope) ([]sdktrace.ReadOnlySpan, error) {
	spans := make([]sdktrace.ReadOnlySpan, 0, len(records))
	var errs []error
	for i, r := range records {
		span, err := r.Snapshot(res, scope)
		if err != nil {
			errs = append(errs, InvalidRecordError{Index: i, Name: r.Name, Cause: err})
			continue
		}
		spans = append(spans, span)
	}
	return spans, errors.Join(errs...)
}

func parseTraceID(field, s string) (trace.TraceID, error) {
	id, err := trace.TraceIDFromHex(strings.TrimSpace(s))
	if err != nil {
		return trace.TraceID{}, InvalidIDError{Field: field, Value: s, Cause: err}
	}
	return id, nil
}

func parseSpanID(field, s string) (trace.SpanID, error) {
	id, err := trace.SpanIDFromHex(strings.TrimSpace(s))
	if err != nil {
		return trace.SpanID{}, InvalidIDError{Field: field, Value: s, Cause: err}
	}
	return id, nil
}

func normalize(s, prefix string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.TrimPrefix(s, prefix)
}

func parseKind(s string) (trace.SpanKind, error) {
	switch normalize(s, "span_kind_") {
	case "", "internal", "unspecified":
		return trace.SpanKindInternal, nil
	case "server":
		return trace.SpanKindServer, nil
	case "client":
		return trace.SpanKindClient, nil
	case "producer":
		return trace.SpanKindProducer, nil
	case "consumer":
		return trace.SpanKindConsumer, nil
	default:
		return trace.SpanKindUnspecified, fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

func (s Status) status() (sdktrace.Status, error) {
	switch normalize(s.Code, "status_code_") {
	case "", "unset":
		return sdktrace.Status{Code: codes.Unset}, nil
	case "ok":
		return sdktrace.Status{Code: codes.Ok}, nil
	case "error":
		return sdktrace.Status{Code: codes.Error, Description: s.Description}, nil
	default:
		return sdktrace.Status{}, fmt.Errorf("%w: %q", ErrUnknownStatus, s.Code)
	}
}
