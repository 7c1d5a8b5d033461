package license

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const MeterName = "license-verifier"

// Metrics holds the OpenTelemetry instruments for license verification.
type Metrics struct {
	VerifyAttempts metric.Int64Counter
	VerifySuccess  metric.Int64Counter
	VerifyFailures metric.Int64Counter
	VerifyDuration metric.Float64Histogram
	KeySize        metric.Int64Histogram
}

// NewMetrics registers the license instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error
	if m.VerifyAttempts, err = meter.Int64Counter(
		"license_verify_attempts_total",
		metric.WithDescription("Number of license key verification attempts"),
	); err != nil {
		return nil, fmt.Errorf("create verify attempts counter: %w", err)
	}
	if m.VerifySuccess, err = meter.Int64Counter(
		"license_verify_success_total",
		metric.WithDescription("Number of successful license verifications"),
	); err != nil {
		return nil, fmt.Errorf("create verify success counter: %w", err)
	}
	if m.VerifyFailures, err = meter.Int64Counter(
		"license_verify_failures_total",
		metric.WithDescription("Number of failed license verifications by reason"),
	); err != nil {
		return nil, fmt.Errorf("create verify failures counter: %w", err)
	}
	if m.VerifyDuration, err = meter.Float64Histogram(
		"license_verify_duration_seconds",
		metric.WithDescription("License verification duration"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("create verify duration histogram: %w", err)
	}
	if m.KeySize, err = meter.Int64Histogram(
		"license_key_size_bytes",
		metric.WithDescription("Size of submitted license keys"),
		metric.WithUnit("By"),
	); err != nil {
		return nil, fmt.Errorf("create key size histogram: %w", err)
	}

	return m, nil
}

// RecordVerification records one verification outcome. reason is empty
// on success.
func (m *Metrics) RecordVerification(ctx context.Context, keyLen int, elapsed time.Duration, reason string) {
	if m == nil {
		return
	}
	m.VerifyAttempts.Add(ctx, 1)
	m.KeySize.Record(ctx, int64(keyLen))
	m.VerifyDuration.Record(ctx, elapsed.Seconds())
	if reason == "" {
		m.VerifySuccess.Add(ctx, 1)
		return
	}
	m.VerifyFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}
