package domain

import (
	"context"
	"log/slog"
)

// RatingModelResolver looks up the rating model in effect at a monitoring
// location for a given time.
type RatingModelResolver interface {
	// ResolveRatingModel returns the rating model identifier, or "" when the
	// location has no model covering that time.
	ResolveRatingModel(ctx context.Context, locationIdentifier string, at Timestamp) (string, error)
}

// EnrichWithRatingModel fills in the rating model identifier when the record
// does not carry one. A nil resolver, a missing location, or a failed lookup
// leave the record unchanged (graceful degradation). The return value reports
// whether an identifier was set.
func EnrichWithRatingModel(ctx context.Context, m *MeasurementRecord, locationIdentifier string, resolver RatingModelResolver, logger *slog.Logger) bool {
	if resolver == nil || m.RatingModelIdentifier() != nil || locationIdentifier == "" {
		return false
	}

	id, err := resolver.ResolveRatingModel(ctx, locationIdentifier, m.MeasurementStartDate())
	if err != nil {
		logger.Warn("rating model lookup failed",
			"identifier", m.Identifier(),
			"location", locationIdentifier,
			"error", err,
		)
		return false
	}
	if id == "" {
		logger.Debug("no rating model for measurement",
			"identifier", m.Identifier(),
			"location", locationIdentifier,
		)
		return false
	}

	m.SetRatingModelIdentifier(&id)
	return true
}
