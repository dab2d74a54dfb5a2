package transcribe

import (
	"fmt"
	"time"

	"github.com/jorujes/transcriberio/internal/format"
)

// Limits holds the provider-side constraints a run must respect.
type Limits struct {
	// MaxUploadMB is the largest file the transcription API accepts.
	MaxUploadMB float64
	// SafeDuration is the longest audio sent as a single request. Kept well
	// under HardDuration because output tokens, not raw duration, are the
	// binding constraint.
	SafeDuration time.Duration
	// HardDuration is the absolute cap a single request may ever reach.
	HardDuration time.Duration
}

// DefaultLimits returns the limits of the OpenAI-compatible audio endpoints.
func DefaultLimits() Limits {
	return Limits{
		MaxUploadMB:  25,
		SafeDuration: 720 * time.Second,
		HardDuration: 1400 * time.Second,
	}
}

// Decision is the preprocessing plan chosen for one input. Reasons lists the
// triggering conditions; a direct run has none.
type Decision struct {
	NeedsCompression bool
	NeedsChunking    bool
	Optimization     string        // the Optimization* label this path will record
	Ceiling          time.Duration // per-segment ceiling the planner will use
	Reasons          []string
}

// Select decides how to preprocess an input of the given size and duration.
// ceiling is the longest segment the planner may emit (see EffectiveCeiling).
// A zero duration means the probe failed; the decision then rests on size
// alone. Select is pure: same inputs, same decision.
func Select(sizeMB float64, duration time.Duration, ceiling time.Duration, lim Limits) Decision {
	dec := Decision{Optimization: OptimizationNone, Ceiling: ceiling}

	oversize := sizeMB > lim.MaxUploadMB
	long := duration > lim.SafeDuration // false when duration is unknown (0)

	if oversize {
		dec.Reasons = append(dec.Reasons, fmt.Sprintf("size %s exceeds upload limit %s",
			format.MB(sizeMB), format.MB(lim.MaxUploadMB)))
	}
	if long {
		dec.Reasons = append(dec.Reasons, fmt.Sprintf("duration %s exceeds safe limit %s",
			format.Minutes(duration), format.Minutes(lim.SafeDuration)))
	}

	switch {
	case !oversize && !long:
		// Fits as-is.

	case !oversize && long:
		dec.NeedsChunking = true
		dec.Optimization = OptimizationChunking

	case oversize && !long:
		dec.NeedsCompression = true
		dec.Optimization = OptimizationCompression

	default:
		// Oversize and long. Chunking alone may already bring each piece
		// under the upload limit; compression is only worth an extra ffmpeg
		// pass when it would not.
		dec.NeedsChunking = true
		if ceiling > 0 && duration > 0 &&
			sizeMB*(ceiling.Seconds()/duration.Seconds()) <= lim.MaxUploadMB {
			dec.Optimization = OptimizationChunking
			dec.Reasons = append(dec.Reasons,
				fmt.Sprintf("segments of %s fit without compression", format.Minutes(ceiling)))
		} else {
			dec.NeedsCompression = true
			dec.Optimization = OptimizationCompressionChunking
		}
	}

	return dec
}
