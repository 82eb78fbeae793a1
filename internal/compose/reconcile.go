package compose

import (
	"context"
	"log/slog"
	"math"

	"clipforge/internal/engine"
	"clipforge/internal/logging"
)

// FallbackSegmentSeconds is substituted when a segment's duration cannot be
// probed. Reconciliation is best-effort: only the sum needs to be close to the
// rendered length, and the engine's own concatenation is authoritative for the
// actual frame count.
const FallbackSegmentSeconds = 3.0

// reconcile probes every segment's true duration and returns the total visual
// timeline length. Probe failures and non-finite values fall back to the fixed
// estimate instead of aborting.
func reconcile(ctx context.Context, eng engine.Engine, segments []Segment, logger *slog.Logger) float64 {
	total := 0.0
	fallbacks := 0
	for i := range segments {
		duration, err := eng.Duration(ctx, segments[i].Path)
		if err != nil || math.IsNaN(duration) || math.IsInf(duration, 0) || duration <= 0 {
			logger.Warn("duration probe failed, using fallback estimate",
				logging.Int(logging.FieldPartIndex, segments[i].Index),
				logging.Float64("fallback_seconds", FallbackSegmentSeconds),
				logging.Error(err),
			)
			duration = FallbackSegmentSeconds
			fallbacks++
		}
		segments[i].Duration = duration
		total += duration
	}

	if fallbacks >= 2 {
		// Many fallbacks mean the audio trim length may drift from the true
		// rendered length.
		logger.Warn("multiple segments fell back to estimated durations",
			logging.Int("fallback_count", fallbacks),
			logging.Alert("timeline_drift_risk"),
		)
	}

	return total
}
