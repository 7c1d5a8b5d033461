// Package services contains the business logic between the HTTP
// transport and the license codec.
package services

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vcsi/pingcastle/internal/license"
)

// License status values reported to callers.
const (
	StatusValid   = "valid"
	StatusExpired = "expired"
	StatusInvalid = "invalid"
	StatusMissing = "missing"
)

// LicenseService validates license keys and reports the status of the
// key the service was configured with.
type LicenseService interface {
	// GetStatus reports on the configured key. It never returns an
	// error; an absent or invalid key is a status, not a failure.
	GetStatus(ctx context.Context) *LicenseStatus

	// Validate verifies an arbitrary key. The returned error is one of
	// the license package sentinels; the caller must not expose which.
	Validate(ctx context.Context, key string) (*LicenseStatus, error)
}

// LicenseStatus is the outward description of a license. Attribute
// fields are only populated when Status is valid or expired.
type LicenseStatus struct {
	Status            string     `json:"status"`
	EndTime           *time.Time `json:"end_time,omitempty"`
	DomainLimitation  *string    `json:"domain_limitation,omitempty"`
	CustomerNotice    *string    `json:"customer_notice,omitempty"`
	Edition           *string    `json:"edition,omitempty"`
	DomainNumberLimit *int       `json:"domain_number_limit,omitempty"`
	CheckedAt         time.Time  `json:"checked_at"`
}

type licenseService struct {
	verifier *license.Verifier
	key      string
	logger   *slog.Logger
	tracer   trace.Tracer
	metrics  *license.Metrics
	now      func() time.Time
}

// NewLicenseService builds the service around a verifier and the key
// from configuration (may be empty). Metrics may be nil.
func NewLicenseService(verifier *license.Verifier, configuredKey string, logger *slog.Logger, tracer trace.Tracer, metrics *license.Metrics) LicenseService {
	return &licenseService{
		verifier: verifier,
		key:      configuredKey,
		logger:   logger,
		tracer:   tracer,
		metrics:  metrics,
		now:      time.Now,
	}
}

func (s *licenseService) GetStatus(ctx context.Context) *LicenseStatus {
	status, _ := s.Validate(ctx, s.key)
	return status
}

func (s *licenseService) Validate(ctx context.Context, key string) (*LicenseStatus, error) {
	ctx, span := s.tracer.Start(ctx, "license.validate")
	defer span.End()

	start := s.now()
	lic, err := s.verifier.Verify(key)
	elapsed := s.now().Sub(start)

	reason := license.FailureReason(err)
	s.metrics.RecordVerification(ctx, len(key), elapsed, reason)

	if err != nil {
		span.SetStatus(codes.Error, reason)
		span.SetAttributes(attribute.String("license.failure_reason", reason))
		// Internal diagnostic only; callers just see pass/fail.
		s.logger.WarnContext(ctx, "license verification failed",
			slog.String("reason", reason),
			slog.Int("key_length", len(key)),
			slog.Duration("elapsed", elapsed),
		)
		status := &LicenseStatus{Status: StatusInvalid, CheckedAt: s.now().UTC()}
		if reason == "missing" {
			status.Status = StatusMissing
		}
		return status, err
	}

	status := s.describe(lic)
	span.SetAttributes(attribute.String("license.status", status.Status))
	s.logger.InfoContext(ctx, "license verified",
		slog.String("status", status.Status),
		slog.Time("end_time", lic.EndTime()),
		slog.Duration("elapsed", elapsed),
	)
	return status, nil
}

func (s *licenseService) describe(lic *license.License) *LicenseStatus {
	now := s.now().UTC()
	status := &LicenseStatus{
		Status:    StatusValid,
		CheckedAt: now,
	}
	if lic.Expired(now) {
		status.Status = StatusExpired
	}

	end := lic.EndTime()
	status.EndTime = &end
	if v, ok := lic.DomainLimitation(); ok {
		status.DomainLimitation = &v
	}
	if v, ok := lic.CustomerNotice(); ok {
		status.CustomerNotice = &v
	}
	if v, ok := lic.Edition(); ok {
		status.Edition = &v
	}
	if v, ok := lic.DomainNumberLimit(); ok {
		status.DomainNumberLimit = &v
	}
	return status
}
