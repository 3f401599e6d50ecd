package validator

import (
	"math"

	"searchconsole-go/pkg/analytics"
	"searchconsole-go/pkg/logger"
)

// worstPosition is the rank assigned when upstream reports no usable
// position for a row.
const worstPosition = 100

// ValidateRows corrects malformed rows defensively rather than rejecting
// them: negative clicks/impressions are clamped to zero, a negative or
// non-finite CTR is recomputed from clicks/impressions, and a
// non-finite or sub-1 position defaults to the worst rank. Upstream
// exports routinely contain transient anomalies, so a bad row must not
// abort an otherwise useful batch.
//
// The input is not mutated; validating already-valid data returns an
// equal copy, so the pass is idempotent.
func ValidateRows(points []analytics.DataPoint) []analytics.DataPoint {
	if points == nil {
		return nil
	}
	log := logger.GetLogger().WithField("component", "validator")

	out := make([]analytics.DataPoint, len(points))
	copy(out, points)

	corrected := 0
	for i := range out {
		p := &out[i]
		changed := false

		if p.Clicks < 0 {
			p.Clicks = 0
			changed = true
		}
		if p.Impressions < 0 {
			p.Impressions = 0
			changed = true
		}
		if p.CTR < 0 || math.IsNaN(p.CTR) {
			if p.Impressions > 0 {
				p.CTR = float64(p.Clicks) / float64(p.Impressions)
			} else {
				p.CTR = 0
			}
			changed = true
		}
		if math.IsNaN(p.Position) || math.IsInf(p.Position, 0) || p.Position < 1 {
			p.Position = worstPosition
			changed = true
		}

		if changed {
			corrected++
		}
	}

	if corrected > 0 {
		log.WithFields(map[string]interface{}{
			"corrected_rows": corrected,
			"total_rows":     len(out),
		}).Debug("Corrected malformed analytics rows")
	}

	return out
}

// ValidateMetrics rejects structurally impossible aggregates. Unlike the
// row-level pass this fails loudly: an invalid aggregate means a logic
// bug upstream of the caller, not noisy provider data.
func ValidateMetrics(m analytics.AggregatedMetrics) error {
	if m.TotalClicks < 0 {
		return &analytics.ValidationError{Reason: "negative total clicks"}
	}
	if m.TotalImpressions < 0 {
		return &analytics.ValidationError{Reason: "negative total impressions"}
	}
	if m.TotalImpressions < m.TotalClicks {
		return &analytics.ValidationError{Reason: "total impressions below total clicks"}
	}
	if math.IsNaN(m.AvgCTR) || m.AvgCTR < 0 || m.AvgCTR > 1 {
		return &analytics.ValidationError{Reason: "average CTR outside [0,1]"}
	}
	if math.IsNaN(m.AvgPosition) || m.AvgPosition < 0 || m.AvgPosition > 100 {
		return &analytics.ValidationError{Reason: "average position outside [0,100]"}
	}
	return nil
}
