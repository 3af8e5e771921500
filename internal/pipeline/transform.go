package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"github.com/couchcryptid/field-visit-etl/internal/domain"
	"github.com/couchcryptid/field-visit-etl/internal/observability"
)

// MeasurementTransformer implements Transformer using the domain measurement
// functions, with optional rating model enrichment.
type MeasurementTransformer struct {
	resolver domain.RatingModelResolver
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewTransformer creates a MeasurementTransformer. Pass a nil resolver to
// disable rating model enrichment.
func NewTransformer(resolver domain.RatingModelResolver, logger *slog.Logger, metrics *observability.Metrics) *MeasurementTransformer {
	return &MeasurementTransformer{
		resolver: resolver,
		logger:   logger,
		metrics:  metrics,
	}
}

// Transform decodes a raw measurement, builds the record through the grade
// factory, applies gage height, shifts, and metadata, and serializes the
// resulting report row. A shift precondition failure does not fail the
// message; the row is published without shifts.
func (t *MeasurementTransformer) Transform(ctx context.Context, raw domain.RawEvent) (domain.OutputEvent, error) {
	rec, err := domain.ParseRawEvent(raw)
	if err != nil {
		return domain.OutputEvent{}, err
	}

	t.checkGrade(rec)

	m, err := domain.BuildMeasurement(rec)
	if err != nil {
		return domain.OutputEvent{}, err
	}

	t.applyEnrichment(m, rec)
	domain.EnrichWithRatingModel(ctx, m, rec.LocationIdentifier, t.resolver, t.logger)

	return domain.SerializeMeasurement(m)
}

func (t *MeasurementTransformer) checkGrade(rec domain.RawFieldVisitRecord) {
	label := rec.GradeLabel()
	if _, ok := domain.ParseGrade(label); ok {
		return
	}

	reason := "unrecognized"
	if label == "" {
		reason = "missing"
	}
	t.metrics.GradeFallbacks.WithLabelValues(reason).Inc()
	t.logger.Warn("grade defaulted to POOR",
		"identifier", rec.Identifier,
		"grade", label,
		"reason", reason,
	)
}

func (t *MeasurementTransformer) applyEnrichment(m *domain.MeasurementRecord, rec domain.RawFieldVisitRecord) {
	err := domain.EnrichMeasurement(m, rec)
	switch {
	case err == nil && len(rec.ShiftBoundaries) == 0:
		t.metrics.ShiftCalculations.WithLabelValues("skipped").Inc()
	case err == nil:
		t.metrics.ShiftCalculations.WithLabelValues("applied").Inc()
	case errors.Is(err, domain.ErrInvalidState):
		t.metrics.ShiftCalculations.WithLabelValues("failed").Inc()
		t.logger.Warn("shifts not applied",
			"identifier", m.Identifier(),
			"error", err,
		)
	default:
		t.logger.Error("unexpected enrichment error", "identifier", m.Identifier(), "error", err)
	}
}
