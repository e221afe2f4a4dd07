// Package telemetry wires Sentry tracing and the process logger.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cloo-solutions/geomed/internal/domain"
	"github.com/getsentry/sentry-go"
)

const (
	serviceName  = "geomed"
	flushTimeout = 5 * time.Second
)

// Transactions for these routes are never sampled.
var untracedRoutes = map[string]bool{
	"GET /health":  true,
	"GET /metrics": true,
}

type Config struct {
	DSN              string
	Environment      string
	Release          string
	TracesSampleRate float64
	Debug            bool
}

// Init starts the Sentry client and returns the flush func to defer.
// An empty DSN disables Sentry and returns a no-op.
func Init(cfg Config) (func(), error) {
	if cfg.DSN == "" {
		return func() {}, nil
	}
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	rate := cfg.TracesSampleRate
	if rate <= 0 {
		rate = 1.0
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		Release:          cfg.Release,
		ServerName:       serviceName,
		Debug:            cfg.Debug,
		EnableTracing:    true,
		TracesSampleRate: rate,
		TracesSampler:    sampler(rate),
		BeforeSend:       dropClientFaults,
	})
	if err != nil {
		return func() {}, fmt.Errorf("failed to initialize sentry: %w", err)
	}

	return func() { sentry.Flush(flushTimeout) }, nil
}

// sampler skips probe routes and keeps child spans with their parent's decision.
func sampler(rate float64) sentry.TracesSampler {
	return func(ctx sentry.SamplingContext) float64 {
		if ctx.Span == nil {
			return rate
		}
		if untracedRoutes[ctx.Span.Name] {
			return 0
		}
		var root sentry.SpanID
		if ctx.Span.ParentSpanID != root {
			if ctx.Span.Sampled.Bool() {
				return 1
			}
			return 0
		}
		return rate
	}
}

func dropClientFaults(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
	if hint != nil && ClientFault(hint.OriginalException) {
		return nil
	}
	return event
}

// ClientFault reports whether err was caused by the request rather than by the
// service or one of its upstreams. Client faults are traced but never captured.
func ClientFault(err error) bool {
	var de *domain.DomainError
	if !errors.As(err, &de) {
		return false
	}
	switch de.Code {
	case domain.ErrCodeValidation, domain.ErrCodeFileFormat, domain.ErrCodeNotFound, domain.ErrCodeAlreadyExists:
		return true
	}
	return false
}

// SpanAttributes are the tags a service span carries. Zero values are skipped.
type SpanAttributes struct {
	SearchID string
	BatchID  string
	Filename string
	Format   string
}

func (a SpanAttributes) apply(span *sentry.Span) {
	tags := map[string]string{
		"search_id": a.SearchID,
		"batch_id":  a.BatchID,
		"format":    a.Format,
	}
	for k, v := range tags {
		if v != "" {
			span.SetTag(k, v)
		}
	}
	if a.Filename != "" {
		span.SetData("filename", a.Filename)
	}
}

// Span is a nil-safe handle on a Sentry span.
type Span struct {
	inner *sentry.Span
}

// StartSpan opens a child of the request transaction, or a fresh transaction
// when ctx carries none (CLI commands, tests).
func StartSpan(ctx context.Context, op string, attrs SpanAttributes) (context.Context, *Span) {
	var span *sentry.Span
	if parent := sentry.SpanFromContext(ctx); parent != nil {
		span = parent.StartChild(op)
	} else {
		span = sentry.StartSpan(ctx, op, sentry.WithTransactionName(op))
	}
	attrs.apply(span)
	return span.Context(), &Span{inner: span}
}

func (s *Span) End() {
	if s != nil && s.inner != nil {
		s.inner.Finish()
	}
}

// SetData attaches a result value, such as a row count, to the span.
func (s *Span) SetData(key string, value any) {
	if s != nil && s.inner != nil {
		s.inner.SetData(key, value)
	}
}

// SetError marks the span failed. Service faults are also captured as exceptions.
func (s *Span) SetError(err error) {
	if s == nil || s.inner == nil || err == nil {
		return
	}
	if ClientFault(err) {
		s.inner.Status = sentry.SpanStatusInvalidArgument
		return
	}
	s.inner.Status = sentry.SpanStatusInternalError
	if hub := sentry.GetHubFromContext(s.inner.Context()); hub != nil {
		hub.CaptureException(err)
	}
}

// AddBreadcrumb records a step on the current hub, or the global one.
func AddBreadcrumb(ctx context.Context, category, message string) {
	crumb := &sentry.Breadcrumb{
		Category:  category,
		Message:   message,
		Level:     sentry.LevelInfo,
		Timestamp: time.Now(),
	}
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.AddBreadcrumb(crumb, nil)
}
