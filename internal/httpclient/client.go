// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package httpclient provides the http.Client used by the OTLP HTTP
// span exporter, optionally guarded by a circuit breaker and retrying
// failed requests.
package httpclient

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/z5labs/otelexport/internal/slogfield"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sony/gobreaker"
)

type circuitOptions struct {
	maxRequests uint32
	interval    time.Duration
	timeout     time.Duration
	tripCount   uint32
	statusCodes []int
}

func withCircuitOption(f func(*circuitOptions)) Option {
	return func(o *options) {
		if o.co == nil {
			o.co = &circuitOptions{
				maxRequests: 1,
				timeout:     60 * time.Second,
				tripCount:   5,
			}
		}
		f(o.co)
	}
}

// HalfOpenRequests is the number of requests let through while the
// circuit is half open.
func HalfOpenRequests(n uint32) Option {
	return withCircuitOption(func(co *circuitOptions) {
		co.maxRequests = n
	})
}

// OpenStateTimeout is how long the circuit stays open before going half open.
func OpenStateTimeout(d time.Duration) Option {
	return withCircuitOption(func(co *circuitOptions) {
		co.timeout = d
	})
}

// CountResetInterval is the cyclic period of the closed state after
// which failure counts are cleared. Zero never clears them.
func CountResetInterval(d time.Duration) Option {
	return withCircuitOption(func(co *circuitOptions) {
		co.interval = d
	})
}

// TripAfter opens the circuit after n consecutive failures.
func TripAfter(n uint32) Option {
	return withCircuitOption(func(co *circuitOptions) {
		co.tripCount = n
	})
}

// TripOnStatusCodes registers response status codes which count as
// failures for the circuit breaker. The response is still returned
// to the caller.
//
// Default: 429, 500, 502, 503, 504
func TripOnStatusCodes(codes ...int) Option {
	return withCircuitOption(func(co *circuitOptions) {
		co.statusCodes = append(co.statusCodes, codes...)
	})
}

type retryOptions struct {
	maxRetries int
	waitMin    time.Duration
	waitMax    time.Duration
}

func withRetryOption(f func(*retryOptions)) Option {
	return func(o *options) {
		if o.ro == nil {
			o.ro = &retryOptions{
				maxRetries: 2,
				waitMin:    100 * time.Millisecond,
				waitMax:    5 * time.Second,
			}
		}
		f(o.ro)
	}
}

// RetryMaxAttempts is the maximum number of retries after the first attempt.
func RetryMaxAttempts(n int) Option {
	return withRetryOption(func(ro *retryOptions) {
		ro.maxRetries = n
	})
}

// RetryWaitMin is the minimum backoff between attempts.
func RetryWaitMin(d time.Duration) Option {
	return withRetryOption(func(ro *retryOptions) {
		ro.waitMin = d
	})
}

// RetryWaitMax is the maximum backoff between attempts.
func RetryWaitMax(d time.Duration) Option {
	return withRetryOption(func(ro *retryOptions) {
		ro.waitMax = d
	})
}

type options struct {
	timeout time.Duration
	rt      http.RoundTripper

	name       string
	logHandler slog.Handler

	co *circuitOptions
	ro *retryOptions
}

// Option configures the client returned by [New].
type Option func(*options)

// Name identifies the client in logs and in the circuit breaker.
func Name(s string) Option {
	return func(o *options) {
		o.name = s
	}
}

// RoundTripper sets the base transport. Defaults to [http.DefaultTransport].
func RoundTripper(rt http.RoundTripper) Option {
	return func(o *options) {
		o.rt = rt
	}
}

// Timeout provides a global timeout value for the http.Client.
func Timeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// LogHandler sets the handler for request, retry and circuit logs.
// Defaults to discarding them.
func LogHandler(h slog.Handler) Option {
	return func(o *options) {
		o.logHandler = h
	}
}

// New returns an *http.Client. Requests are logged at debug level. The
// circuit breaker is only installed if a circuit option was given and
// retries are only enabled if a retry option was given.
func New(opts ...Option) *http.Client {
	o := &options{
		rt:         http.DefaultTransport,
		logHandler: slog.DiscardHandler,
	}
	for _, opt := range opts {
		opt(o)
	}

	logger := slog.New(o.logHandler)
	if o.name != "" {
		logger = logger.With(slogfield.String("http_client", o.name))
	}

	var rt http.RoundTripper = &logRoundTripper{
		base: o.rt,
		log:  logger,
	}
	if o.co != nil {
		rt = newCircuitRoundTripper(rt, o.name, o.co, logger)
	}

	client := &http.Client{
		Timeout:   o.timeout,
		Transport: rt,
	}
	if o.ro == nil {
		return client
	}

	ro := o.ro
	rc := retryablehttp.Client{
		HTTPClient:   client,
		RetryWaitMin: ro.waitMin,
		RetryWaitMax: ro.waitMax,
		RetryMax:     ro.maxRetries,
		RequestLogHook: func(_ retryablehttp.Logger, req *http.Request, attempt int) {
			if attempt == 0 {
				return
			}
			logger.WarnContext(
				req.Context(),
				"retrying http request",
				slogfield.String("url", req.URL.String()),
				slogfield.Int("request_attempt_count", attempt),
			)
		},
		CheckRetry:   retryablehttp.DefaultRetryPolicy,
		Backoff:      retryablehttp.DefaultBackoff,
		ErrorHandler: retryablehttp.PassthroughErrorHandler,
	}
	return rc.StandardClient()
}

type logRoundTripper struct {
	base http.RoundTripper
	log  *slog.Logger
}

func (rt *logRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	start := time.Now()
	rt.log.DebugContext(
		ctx,
		"request sent",
		slogfield.String("url", req.URL.String()),
	)
	resp, err := rt.base.RoundTrip(req)
	if err != nil {
		rt.log.DebugContext(
			ctx,
			"request failed",
			slogfield.String("url", req.URL.String()),
			slogfield.Error(err),
		)
		return nil, err
	}
	rt.log.DebugContext(
		ctx,
		"response received",
		slogfield.String("url", req.URL.String()),
		slogfield.Int("http_status_code", resp.StatusCode),
		slogfield.Duration("latency", time.Since(start)),
	)
	return resp, nil
}

type statusCodeError struct {
	resp *http.Response
}

func (e statusCodeError) Error() string {
	return "unexpected http status code: " + e.resp.Status
}

type circuitRoundTripper struct {
	base  http.RoundTripper
	cb    *gobreaker.CircuitBreaker
	codes map[int]struct{}
}

func newCircuitRoundTripper(base http.RoundTripper, name string, co *circuitOptions, log *slog.Logger) *circuitRoundTripper {
	if len(co.statusCodes) == 0 {
		co.statusCodes = append(
			co.statusCodes,
			http.StatusTooManyRequests,     // 429
			http.StatusInternalServerError, // 500
			http.StatusBadGateway,          // 502
			http.StatusServiceUnavailable,  // 503
			http.StatusGatewayTimeout,      // 504
		)
	}

	codes := make(map[int]struct{}, len(co.statusCodes))
	for _, code := range co.statusCodes {
		codes[code] = struct{}{}
	}

	return &circuitRoundTripper{
		base:  base,
		codes: codes,
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        name,
			MaxRequests: co.maxRequests,
			Interval:    co.interval,
			Timeout:     co.timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= co.tripCount
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				switch to {
				case gobreaker.StateOpen:
					log.Error("circuit has been opened")
				case gobreaker.StateHalfOpen:
					log.Warn(
						"circuit is now half open and letting some requests through",
						slogfield.Int64("max_requests_allowed_through", int64(co.maxRequests)),
					)
				case gobreaker.StateClosed:
					log.Info("circuit has been closed")
				}
			},
		}),
	}
}

func (rt *circuitRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	v, err := rt.cb.Execute(func() (interface{}, error) {
		resp, err := rt.base.RoundTrip(req)
		if err != nil {
			return nil, err
		}
		if _, ok := rt.codes[resp.StatusCode]; ok {
			return nil, statusCodeError{resp: resp}
		}
		return resp, nil
	})

	var serr statusCodeError
	if errors.As(err, &serr) {
		return serr.resp, nil
	}
	if err != nil {
		return nil, err
	}
	return v.(*http.Response), nil
}
