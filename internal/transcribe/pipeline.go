package transcribe

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jorujes/transcriberio/internal/media"
)

// prober reports the duration of an audio file. Zero means unknown.
type prober interface {
	Duration(ctx context.Context, path string) (time.Duration, error)
}

// preprocessor covers the ffmpeg operations the pipeline needs.
type preprocessor interface {
	ExtractAudio(ctx context.Context, src, dest string) error
	Compress(ctx context.Context, src, dest string) error
	ExtractClip(ctx context.Context, src, dest string, start, end time.Duration) error
}

// videoExtensions are inputs that need an audio extraction pass first.
var videoExtensions = map[string]bool{
	".mp4": true, ".mkv": true, ".webm": true, ".mov": true, ".avi": true,
}

// Service runs the whole transcription pipeline: probe, optimize, split,
// transcribe, assemble. Run always returns a Result; a fatal problem is
// reported through Result.Err, never by panicking.
type Service struct {
	prober prober
	media  preprocessor
	units  UnitTranscriber

	model    string
	language string
	limits   Limits
	budget   TokenBudget

	tempRoot   string
	keepTemp   bool
	newRunID   func() string
	warnW      io.Writer
	onProgress func(stage string, current, total int)
	sizeMB     func(path string) (float64, error)
	now        func() time.Time
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLimits overrides the provider limits.
func WithLimits(lim Limits) ServiceOption {
	return func(s *Service) { s.limits = lim }
}

// WithTokenBudget overrides the output token budget.
func WithTokenBudget(b TokenBudget) ServiceOption {
	return func(s *Service) { s.budget = b }
}

// WithKeepTemp preserves the run's temp directory for inspection.
func WithKeepTemp(keep bool) ServiceOption {
	return func(s *Service) { s.keepTemp = keep }
}

// WithTempRoot places run temp directories under dir instead of os.TempDir.
func WithTempRoot(dir string) ServiceOption {
	return func(s *Service) { s.tempRoot = dir }
}

// WithRunID overrides run ID generation.
func WithRunID(fn func() string) ServiceOption {
	return func(s *Service) { s.newRunID = fn }
}

// WithWarnWriter redirects non-fatal warnings (default os.Stderr).
func WithWarnWriter(w io.Writer) ServiceOption {
	return func(s *Service) { s.warnW = w }
}

// WithProgress sets a callback invoked as pipeline stages advance.
func WithProgress(fn func(stage string, current, total int)) ServiceOption {
	return func(s *Service) { s.onProgress = fn }
}

// WithSizer overrides file size measurement.
func WithSizer(fn func(path string) (float64, error)) ServiceOption {
	return func(s *Service) { s.sizeMB = fn }
}

// NewService builds a pipeline over the given prober, ffmpeg preprocessor,
// and unit transcriber. model and language are recorded on results.
func NewService(p prober, pre preprocessor, units UnitTranscriber, model, language string, opts ...ServiceOption) *Service {
	s := &Service{
		prober:   p,
		media:    pre,
		units:    units,
		model:    model,
		language: language,
		limits:   DefaultLimits(),
		budget:   DefaultTokenBudget(),
		tempRoot: os.TempDir(),
		newRunID: func() string { return uuid.NewString() },
		warnW:    os.Stderr,
		sizeMB:   media.SizeMB,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) warnf(format string, args ...any) {
	fmt.Fprintf(s.warnW, "Warning: "+format+"\n", args...)
}

func (s *Service) progress(stage string, current, total int) {
	if s.onProgress != nil {
		s.onProgress(stage, current, total)
	}
}

// Run transcribes input and returns the outcome. Intermediate files live in
// a per-run temp directory that is removed before Run returns unless the
// service was built with WithKeepTemp.
func (s *Service) Run(ctx context.Context, input string) Result {
	started := s.now()
	res := Result{Model: s.model, Language: s.language, Optimization: OptimizationNone}
	fail := func(err error) Result {
		res.Success = false
		res.Err = err
		res.Elapsed = s.now().Sub(started)
		return res
	}

	if _, err := os.Stat(input); err != nil {
		return fail(fmt.Errorf("%s: %w", input, ErrNoInput))
	}

	workDir := filepath.Join(s.tempRoot, "transcriberio-"+s.newRunID())
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return fail(fmt.Errorf("create temp dir: %w", err))
	}
	if !s.keepTemp {
		defer func() {
			if err := os.RemoveAll(workDir); err != nil {
				s.warnf("failed to cleanup temp dir %s: %v", workDir, err)
			}
		}()
	}

	audio := input
	if videoExtensions[strings.ToLower(filepath.Ext(input))] {
		s.progress("extract", 0, 1)
		audio = filepath.Join(workDir, "audio.mp3")
		if err := s.media.ExtractAudio(ctx, input, audio); err != nil {
			return fail(fmt.Errorf("extract audio: %w", err))
		}
		s.progress("extract", 1, 1)
	}

	sizeMB, err := s.sizeMB(audio)
	if err != nil {
		return fail(fmt.Errorf("%s: %w", audio, ErrNoInput))
	}
	duration, err := s.prober.Duration(ctx, audio)
	if err != nil {
		// An unprobeable file is still worth a transcription attempt;
		// strategy selection falls back to size alone.
		s.warnf("could not determine duration: %v", err)
		duration = 0
	}

	ceiling := s.budget.EffectiveCeiling(s.limits)
	dec := Select(sizeMB, duration, ceiling, s.limits)
	res.Optimization = dec.Optimization

	if dec.NeedsCompression {
		s.progress("compress", 0, 1)
		compressed := filepath.Join(workDir, "compressed.mp3")
		if err := s.media.Compress(ctx, audio, compressed); err != nil {
			s.warnf("compression failed, using original audio: %v", err)
		} else if cs, err := s.sizeMB(compressed); err == nil {
			audio, sizeMB = compressed, cs
		}
		s.progress("compress", 1, 1)

		// Compression alone was supposed to be enough but was not; the
		// only remaining lever is splitting the audio.
		if !dec.NeedsChunking && sizeMB > s.limits.MaxUploadMB {
			dec.NeedsChunking = true
			res.Optimization = OptimizationChunkingFallback
		}
	}

	res.SizeMB = sizeMB
	res.Duration = duration

	spans := Plan(duration, ceiling)
	if !dec.NeedsChunking || len(spans) == 0 {
		if dec.NeedsChunking {
			if duration <= 0 {
				s.warnf("cannot plan segments without a known duration, sending whole file")
			} else {
				s.warnf("audio fits in a single segment, sending whole file")
			}
		}
		s.progress("transcribe", 0, 1)
		unit := UnitResult{Index: 0, End: duration}
		text, err := s.units.Transcribe(ctx, audio)
		if err != nil {
			unit.Err = err
			res.UnitResults = []UnitResult{unit}
			return fail(err)
		}
		s.progress("transcribe", 1, 1)
		unit.Text = text
		res.UnitResults = []UnitResult{unit}
		res.Text = text
		res.Units = 1
		res.Success = true
		res.Elapsed = s.now().Sub(started)
		return res
	}

	exec := NewExecutor(s.units, s.media)
	units := exec.Run(ctx, audio, workDir, spans)
	res.UnitResults = units
	res.Units = len(units)
	for i, u := range units {
		if !u.OK() {
			res.FailedUnits++
			s.warnf("segment %d failed: %v", u.Index, u.Err)
		}
		s.progress("transcribe", i+1, len(units))
	}

	text := Assemble(units)
	if text == "" {
		return fail(ErrAllUnitsFailed)
	}
	res.Text = text
	res.Success = true
	res.Elapsed = s.now().Sub(started)
	return res
}
