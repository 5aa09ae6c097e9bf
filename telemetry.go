package minituna

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Package-level tracer and meter. Without an SDK installed they are no-ops.
var (
	tracer = otel.Tracer("minituna")
	meter  = otel.Meter("minituna")
)

var (
	trialDuration metric.Float64Histogram
	trialTotal    metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the instruments. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		trialDuration, err = meter.Float64Histogram(
			"minituna_trial_duration_seconds",
			metric.WithDescription("Duration of objective evaluations"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		trialTotal, err = meter.Int64Counter(
			"minituna_trials_total",
			metric.WithDescription("Total number of finished trials by state"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})

	return metricsErr
}

// startTrialSpan creates the span covering one trial.
func startTrialSpan(ctx context.Context, study string, trialID int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "Study.runTrial",
		trace.WithAttributes(
			attribute.String("minituna.study", study),
			attribute.Int("minituna.trial_id", trialID),
		),
	)
}

// setTrialSpanResult records the outcome of a trial on its span.
func setTrialSpanResult(span trace.Span, state TrialState, value float64, err error) {
	span.SetAttributes(attribute.String("minituna.trial_state", state.String()))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return
	}

	span.SetAttributes(attribute.Float64("minituna.trial_value", value))
}

// recordTrialMetrics records metrics for a finished trial.
func recordTrialMetrics(ctx context.Context, study string, duration time.Duration, state TrialState) {
	if err := initMetrics(); err != nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("study", study),
		attribute.String("state", state.String()),
	)

	trialDuration.Record(ctx, duration.Seconds(), attrs)
	trialTotal.Add(ctx, 1, attrs)
}
