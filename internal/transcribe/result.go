package transcribe

import "time"

// Optimization labels recorded on a Result. They name the preprocessing path
// the pipeline took, so callers and logs can tell why a run was fast or slow.
const (
	OptimizationNone                = "none"
	OptimizationChunking            = "chunking-only"
	OptimizationCompression         = "compression"
	OptimizationCompressionChunking = "compression-then-chunking"
	OptimizationChunkingFallback    = "chunking-required-fallback"
)

// UnitResult is the outcome of transcribing one planned segment.
type UnitResult struct {
	Index int           // position in the plan, 0-based
	Start time.Duration // offset into the source audio
	End   time.Duration
	Text  string
	Err   error // nil on success
}

// OK reports whether the segment produced usable text.
func (u UnitResult) OK() bool { return u.Err == nil }

// Result is the terminal outcome of a transcription run. The pipeline always
// returns one, even on failure; Err carries the fatal cause when Success is
// false.
type Result struct {
	Success      bool
	Text         string
	Language     string
	Model        string
	Duration     time.Duration // source audio duration, 0 when unknown
	SizeMB       float64       // source audio size after preprocessing
	Optimization string        // one of the Optimization* labels
	Units        int           // segments planned (1 for direct runs)
	UnitResults  []UnitResult  // per-segment outcomes, in plan order
	FailedUnits  int           // segments that exhausted retries
	Elapsed      time.Duration // wall-clock time for the whole run
	Err          error         // fatal cause, nil when Success
}
