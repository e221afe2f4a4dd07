package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/cloo-solutions/geomed/internal/domain"
	"github.com/cloo-solutions/geomed/internal/metrics"
	"github.com/cloo-solutions/geomed/internal/oracle"
	"github.com/cloo-solutions/geomed/internal/telemetry"
)

// Invoker makes exactly one Oracle call per input and turns the answer into a record.
// It never retries and never persists.
type Invoker struct {
	oracle  oracle.Oracle
	timeout time.Duration
	uuidGen UUIDGenerator
	now     func() time.Time
	metrics *metrics.Metrics
}

// NewInvoker creates an Invoker. A zero timeout leaves the caller's deadline in charge.
func NewInvoker(o oracle.Oracle, timeout time.Duration, m *metrics.Metrics) *Invoker {
	return &Invoker{
		oracle:  o,
		timeout: timeout,
		uuidGen: &DefaultUUIDGenerator{},
		now:     utcNow,
		metrics: m,
	}
}

// NewInvokerWithDeps creates an Invoker with custom id and clock sources (for testing)
func NewInvokerWithDeps(o oracle.Oracle, timeout time.Duration, uuidGen UUIDGenerator, now func() time.Time) *Invoker {
	return &Invoker{
		oracle:  o,
		timeout: timeout,
		uuidGen: uuidGen,
		now:     now,
	}
}

// Invoke returns a fresh SearchRecord or an InferenceError.
func (inv *Invoker) Invoke(ctx context.Context, in domain.ProfessionalInput) (*domain.SearchRecord, error) {
	ctx, span := telemetry.StartSpan(ctx, "oracle.invoke", telemetry.SpanAttributes{})
	defer span.End()

	callCtx := ctx
	if inv.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, inv.timeout)
		defer cancel()
	}

	start := time.Now()
	p, err := inv.oracle.Predict(callCtx, in)
	inv.metrics.ObserveOracleLatency(time.Since(start))

	if err == nil {
		err = checkPrediction(p)
	} else if errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		err = domain.InferenceError(fmt.Sprintf("prediction timed out after %s", inv.timeout), err)
	} else {
		err = domain.InferenceError("prediction failed", err)
	}
	if err != nil {
		inv.metrics.IncrementPrediction("error")
		span.SetError(err)
		return nil, err
	}

	inv.metrics.IncrementPrediction("success")
	return domain.NewSearchRecord(inv.uuidGen.NewString(), in, p, inv.now().UTC()), nil
}

// checkPrediction enforces the Oracle's data contract. Out-of-range confidence is rejected, not clamped.
func checkPrediction(p *domain.Prediction) error {
	switch {
	case p == nil:
		return domain.InferenceError("oracle returned no prediction", nil)
	case p.PredictedCountry == "":
		return domain.InferenceError("oracle response missing predicted_country", nil)
	case p.ConfidenceScore == nil:
		return domain.InferenceError("oracle response missing confidence_score", nil)
	}

	c := *p.ConfidenceScore
	if math.IsNaN(c) || c < domain.MinConfidence || c > domain.MaxConfidence {
		return domain.InferenceError(fmt.Sprintf("oracle confidence_score %v outside [0, 100]", c), nil)
	}
	return nil
}
