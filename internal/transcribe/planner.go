package transcribe

import (
	"math"
	"time"
)

// TokenBudget models how much audio one transcription request can cover
// before the model's output token cap truncates the transcript.
type TokenBudget struct {
	MaxOutputTokens int
	WordsPerToken   float64 // average words produced per output token
	WordsPerSecond  float64 // average spoken words per second
	SafetyFactor    float64 // headroom against dense speech
}

// DefaultTokenBudget returns the budget calibrated for the default models.
func DefaultTokenBudget() TokenBudget {
	return TokenBudget{
		MaxOutputTokens: 2048,
		WordsPerToken:   0.75,
		WordsPerSecond:  3.0,
		SafetyFactor:    0.60,
	}
}

// EffectiveCeiling returns the longest segment a single request may cover:
// the token-derived maximum, capped by the provider's hard duration limit.
func (b TokenBudget) EffectiveCeiling(lim Limits) time.Duration {
	words := float64(b.MaxOutputTokens) * b.WordsPerToken
	seconds := words / b.WordsPerSecond * b.SafetyFactor
	ceiling := time.Duration(seconds * float64(time.Second))
	if lim.HardDuration > 0 && ceiling > lim.HardDuration {
		return lim.HardDuration
	}
	return ceiling
}

// Span is one planned segment of the source audio.
type Span struct {
	Index int
	Start time.Duration
	End   time.Duration
}

// Length returns the span's duration.
func (s Span) Length() time.Duration { return s.End - s.Start }

const (
	// segmentOverlap is prepended to every span after the first so words
	// straddling a cut are not lost.
	segmentOverlap = 500 * time.Millisecond
	// overlapMargin: overlap is only applied when segments run close enough
	// to the ceiling that boundary words are actually at risk.
	overlapMargin = 50 * time.Second
	// minSegment: spans shorter than this carry no usable speech.
	minSegment = time.Second
)

// Plan splits total into the fewest equal-length segments not exceeding
// ceiling. Segments near the ceiling get a small leading overlap. Returns nil
// when total fits in a single request or the inputs are degenerate.
func Plan(total, ceiling time.Duration) []Span {
	if total <= 0 || ceiling <= 0 || total <= ceiling {
		return nil
	}

	n := int(math.Ceil(total.Seconds() / ceiling.Seconds()))
	segment := total / time.Duration(n)

	overlap := time.Duration(0)
	if ceiling-segment <= overlapMargin {
		overlap = segmentOverlap
	}

	spans := make([]Span, 0, n)
	for i := 0; i < n; i++ {
		start := time.Duration(i) * segment
		if i > 0 {
			start -= overlap
		}
		end := time.Duration(i+1) * segment
		if i == n-1 {
			end = total
		}
		if end-start < minSegment {
			continue
		}
		spans = append(spans, Span{Index: len(spans), Start: start, End: end})
	}
	return spans
}
