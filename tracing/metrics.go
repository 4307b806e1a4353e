// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package tracing

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "gha_otel_export"

// Metrics records the outcome of [Pipeline.ExportSpans] calls.
// A nil *Metrics records nothing.
type Metrics struct {
	spans         *prometheus.CounterVec
	flushFailures prometheus.Counter
	flushDuration prometheus.Histogram
}

// NewMetrics creates the export metrics and registers them with reg.
// Collectors which reg already knows about are reused.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		spans: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "spans_total",
				Help:      "Total number of spans submitted to the span processor, by result.",
			},
			[]string{"result"},
		),
		flushFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "flush_failures_total",
				Help:      "Total number of failed span processor flushes.",
			},
		),
		flushDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "flush_duration_seconds",
				Help:      "Time spent force flushing the span processor.",
				Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
		),
	}

	var err error
	m.spans, err = register(reg, m.spans)
	if err != nil {
		return nil, err
	}
	m.flushFailures, err = register(reg, m.flushFailures)
	if err != nil {
		return nil, err
	}
	m.flushDuration, err = register(reg, m.flushDuration)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}

	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(C); ok {
			return existing, nil
		}
	}
	return c, err
}

func (m *Metrics) recordSpans(exported, failed int) {
	if m == nil {
		return
	}
	m.spans.WithLabelValues("exported").Add(float64(exported))
	m.spans.WithLabelValues("failed").Add(float64(failed))
}

func (m *Metrics) recordFlush(d time.Duration, err error) {
	if m == nil {
		return
	}
	m.flushDuration.Observe(d.Seconds())
	if err != nil {
		m.flushFailures.Inc()
	}
}
