// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package maskslog provides a [slog.Handler] which masks attributes
// by key before they reach the wrapped handler. The CLI uses it to keep
// OTLP headers, which usually carry credentials, out of the logs.
package maskslog

import (
	"context"
	"log/slog"
)

// Masked is the value masked attributes are replaced with.
const Masked = "****"

type options struct {
	attrs   map[string]func(slog.Attr) slog.Attr
	message func(string) string
}

// Option helps configure the [Handler].
type Option interface {
	applyOption(*options)
}

type optionFunc func(*options)

func (f optionFunc) applyOption(o *options) {
	f(o)
}

// Message registers a function for masking record messages.
func Message(f func(string) string) Option {
	return optionFunc(func(o *options) {
		o.message = f
	})
}

// Attr registers a function for masking any attribute with the given key,
// including attributes nested inside groups.
func Attr(key string, f func(slog.Attr) slog.Attr) Option {
	return optionFunc(func(o *options) {
		o.attrs[key] = f
	})
}

// Keys masks every attribute whose key is one of keys with [Redact].
func Keys(keys ...string) Option {
	return optionFunc(func(o *options) {
		for _, k := range keys {
			o.attrs[k] = Redact
		}
	})
}

// Redact replaces the value of a with [Masked], whatever its kind.
func Redact(a slog.Attr) slog.Attr {
	return slog.String(a.Key, Masked)
}

// Handler is a [slog.Handler] which masks attributes before passing
// records on.
type Handler struct {
	next    slog.Handler
	attrs   map[string]func(slog.Attr) slog.Attr
	message func(string) string
}

// NewHandler returns a new [Handler] wrapping h.
func NewHandler(h slog.Handler, opts ...Option) *Handler {
	o := &options{
		attrs: make(map[string]func(slog.Attr) slog.Attr),
	}
	for _, opt := range opts {
		opt.applyOption(o)
	}
	return &Handler{
		next:    h,
		attrs:   o.attrs,
		message: o.message,
	}
}

// Enabled implements the [slog.Handler] interface.
func (h *Handler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return h.next.Enabled(ctx, lvl)
}

// Handle implements the [slog.Handler] interface.
func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	msg := r.Message
	if h.message != nil {
		msg = h.message(msg)
	}

	nr := slog.NewRecord(r.Time, r.Level, msg, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		nr.AddAttrs(h.mask(a))
		return true
	})
	return h.next.Handle(ctx, nr)
}

// WithAttrs implements the [slog.Handler] interface.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	masked := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		masked[i] = h.mask(a)
	}
	return h.with(h.next.WithAttrs(masked))
}

// WithGroup implements the [slog.Handler] interface.
func (h *Handler) WithGroup(name string) slog.Handler {
	return h.with(h.next.WithGroup(name))
}

func (h *Handler) with(next slog.Handler) *Handler {
	return &Handler{
		next:    next,
		attrs:   h.attrs,
		message: h.message,
	}
}

func (h *Handler) mask(a slog.Attr) slog.Attr {
	if f, ok := h.attrs[a.Key]; ok {
		return f(a)
	}

	v := a.Value.Resolve()
	if v.Kind() != slog.KindGroup {
		return a
	}

	group := v.Group()
	masked := make([]any, len(group))
	for i, ga := range group {
		masked[i] = h.mask(ga)
	}
	return slog.Group(a.Key, masked...)
}
