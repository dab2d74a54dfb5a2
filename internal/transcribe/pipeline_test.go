package transcribe_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jorujes/transcriberio/internal/media"
	"github.com/jorujes/transcriberio/internal/transcribe"
)

// fixedProber reports one duration for every file.
type fixedProber struct {
	d   time.Duration
	err error
}

func (p fixedProber) Duration(context.Context, string) (time.Duration, error) {
	return p.d, p.err
}

// fakePreprocessor simulates ffmpeg by creating the requested output files.
type fakePreprocessor struct {
	extracted  []string
	compressed []string
	clips      []string
}

func (f *fakePreprocessor) touch(path string) error {
	return os.WriteFile(path, []byte("audio"), 0o644)
}

func (f *fakePreprocessor) ExtractAudio(_ context.Context, _, dest string) error {
	f.extracted = append(f.extracted, dest)
	return f.touch(dest)
}

func (f *fakePreprocessor) Compress(_ context.Context, _, dest string) error {
	f.compressed = append(f.compressed, dest)
	return f.touch(dest)
}

func (f *fakePreprocessor) ExtractClip(_ context.Context, _, dest string, _, _ time.Duration) error {
	f.clips = append(f.clips, dest)
	return f.touch(dest)
}

// ceilingBudget yields an effective ceiling of exactly d (assuming it stays
// under the hard cap).
func ceilingBudget(d time.Duration) transcribe.TokenBudget {
	return transcribe.TokenBudget{
		MaxOutputTokens: int(d.Seconds()),
		WordsPerToken:   1.0,
		WordsPerSecond:  1.0,
		SafetyFactor:    1.0,
	}
}

func writeAudioFile(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("fake audio bytes"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func fixedSizer(sizes map[string]float64, fallback float64) func(string) (float64, error) {
	return func(path string) (float64, error) {
		if mb, ok := sizes[filepath.Base(path)]; ok {
			return mb, nil
		}
		return fallback, nil
	}
}

func newTestService(t *testing.T, p transcribe.TokenBudget, prober fixedProber, pre *fakePreprocessor, units *scriptedTranscriber, extra ...transcribe.ServiceOption) *transcribe.Service {
	t.Helper()
	opts := append([]transcribe.ServiceOption{
		transcribe.WithTokenBudget(p),
		transcribe.WithTempRoot(t.TempDir()),
		transcribe.WithWarnWriter(io.Discard),
	}, extra...)
	return transcribe.NewService(prober, pre, units, "test-model", "en", opts...)
}

func TestServiceDirectRun(t *testing.T) {
	t.Parallel()

	// 5 minutes and 10MB fits every limit: single request, no optimization.
	input := writeAudioFile(t, "talk.mp3")
	units := &scriptedTranscriber{texts: []string{"hello world"}}
	pre := &fakePreprocessor{}

	svc := newTestService(t, ceilingBudget(12*time.Minute), fixedProber{d: 5 * time.Minute}, pre, units,
		transcribe.WithSizer(fixedSizer(nil, 10)))

	res := svc.Run(context.Background(), input)

	if !res.Success {
		t.Fatalf("Run failed: %v", res.Err)
	}
	if res.Text != "hello world" {
		t.Errorf("Text = %q", res.Text)
	}
	if res.Units != 1 || res.FailedUnits != 0 {
		t.Errorf("Units = %d, FailedUnits = %d, want 1 and 0", res.Units, res.FailedUnits)
	}
	if len(res.UnitResults) != 1 || res.UnitResults[0].Text != "hello world" {
		t.Errorf("UnitResults = %+v, want one entry with the transcript", res.UnitResults)
	}
	if res.Optimization != transcribe.OptimizationNone {
		t.Errorf("Optimization = %q, want %q", res.Optimization, transcribe.OptimizationNone)
	}
	if len(pre.compressed) != 0 || len(pre.clips) != 0 {
		t.Error("direct run should not compress or clip")
	}
	if res.Model != "test-model" || res.Language != "en" {
		t.Errorf("Model/Language = %q/%q", res.Model, res.Language)
	}
}

func TestServiceChunkedRun(t *testing.T) {
	t.Parallel()

	// 40 minutes at 15MB: small enough to upload, too long for one request.
	// With a 12-minute ceiling the plan is 4 segments.
	input := writeAudioFile(t, "lecture.mp3")
	units := &scriptedTranscriber{texts: []string{"a", "b", "c", "d"}}
	pre := &fakePreprocessor{}

	svc := newTestService(t, ceilingBudget(12*time.Minute), fixedProber{d: 40 * time.Minute}, pre, units,
		transcribe.WithSizer(fixedSizer(nil, 15)))

	res := svc.Run(context.Background(), input)

	if !res.Success {
		t.Fatalf("Run failed: %v", res.Err)
	}
	if res.Units != 4 || res.FailedUnits != 0 {
		t.Errorf("Units = %d, FailedUnits = %d, want 4 and 0", res.Units, res.FailedUnits)
	}
	if res.Text != "a b c d" {
		t.Errorf("Text = %q, want %q", res.Text, "a b c d")
	}
	if res.Optimization != transcribe.OptimizationChunking {
		t.Errorf("Optimization = %q, want %q", res.Optimization, transcribe.OptimizationChunking)
	}
	if len(pre.compressed) != 0 {
		t.Error("chunking-only run should not compress")
	}
	if len(pre.clips) != 4 {
		t.Errorf("cut %d clips, want 4", len(pre.clips))
	}
}

func TestServiceCompressesOversizedShortInput(t *testing.T) {
	t.Parallel()

	// 3 minutes at 30MB: compression brings it under the limit, then a
	// single direct request.
	input := writeAudioFile(t, "dense.mp3")
	units := &scriptedTranscriber{texts: []string{"compressed text"}}
	pre := &fakePreprocessor{}

	sizes := map[string]float64{
		"dense.mp3":      30,
		"compressed.mp3": 8,
	}
	svc := newTestService(t, ceilingBudget(12*time.Minute), fixedProber{d: 3 * time.Minute}, pre, units,
		transcribe.WithSizer(fixedSizer(sizes, 30)))

	res := svc.Run(context.Background(), input)

	if !res.Success {
		t.Fatalf("Run failed: %v", res.Err)
	}
	if res.Optimization != transcribe.OptimizationCompression {
		t.Errorf("Optimization = %q, want %q", res.Optimization, transcribe.OptimizationCompression)
	}
	if len(pre.compressed) != 1 {
		t.Fatalf("compressed %d times, want 1", len(pre.compressed))
	}
	if res.SizeMB != 8 {
		t.Errorf("SizeMB = %v, want the compressed size 8", res.SizeMB)
	}
	if res.Units != 1 {
		t.Errorf("Units = %d, want 1", res.Units)
	}
}

func TestServiceFallsBackToChunkingWhenCompressionIsNotEnough(t *testing.T) {
	t.Parallel()

	// Short but so dense that even compressed audio stays over the limit;
	// the run falls back to chunking. With duration 10 minutes and a
	// 6-minute ceiling the plan has 2 segments.
	input := writeAudioFile(t, "dense.mp3")
	units := &scriptedTranscriber{texts: []string{"x", "y"}}
	pre := &fakePreprocessor{}

	sizes := map[string]float64{
		"dense.mp3":      80,
		"compressed.mp3": 40,
	}
	svc := newTestService(t, ceilingBudget(6*time.Minute), fixedProber{d: 10 * time.Minute}, pre, units,
		transcribe.WithSizer(fixedSizer(sizes, 80)))

	res := svc.Run(context.Background(), input)

	if !res.Success {
		t.Fatalf("Run failed: %v", res.Err)
	}
	if res.Optimization != transcribe.OptimizationChunkingFallback {
		t.Errorf("Optimization = %q, want %q", res.Optimization, transcribe.OptimizationChunkingFallback)
	}
	if res.Units != 2 {
		t.Errorf("Units = %d, want 2", res.Units)
	}
}

func TestServicePartialFailureStillSucceeds(t *testing.T) {
	t.Parallel()

	// One failed segment out of three: the run succeeds with the surviving
	// text in order.
	input := writeAudioFile(t, "long.mp3")
	units := &scriptedTranscriber{
		texts: []string{"first", "", "third"},
		errs:  []error{nil, errors.New("server error"), nil},
	}
	pre := &fakePreprocessor{}

	svc := newTestService(t, ceilingBudget(10*time.Minute), fixedProber{d: 30 * time.Minute}, pre, units,
		transcribe.WithSizer(fixedSizer(nil, 15)))

	res := svc.Run(context.Background(), input)

	if !res.Success {
		t.Fatalf("Run failed: %v", res.Err)
	}
	if res.Units != 3 || res.FailedUnits != 1 {
		t.Errorf("Units = %d, FailedUnits = %d, want 3 and 1", res.Units, res.FailedUnits)
	}
	if res.Text != "first third" {
		t.Errorf("Text = %q, want %q", res.Text, "first third")
	}
}

func TestServiceResultCarriesUnitResults(t *testing.T) {
	t.Parallel()

	// The per-segment outcomes survive assembly so callers can see which
	// segment failed and why, not just the counts.
	input := writeAudioFile(t, "long.mp3")
	boom := errors.New("server error")
	units := &scriptedTranscriber{
		texts: []string{"first", "", "third"},
		errs:  []error{nil, boom, nil},
	}

	svc := newTestService(t, ceilingBudget(10*time.Minute), fixedProber{d: 30 * time.Minute}, &fakePreprocessor{}, units,
		transcribe.WithSizer(fixedSizer(nil, 15)))

	res := svc.Run(context.Background(), input)

	if !res.Success {
		t.Fatalf("Run failed: %v", res.Err)
	}
	if len(res.UnitResults) != 3 {
		t.Fatalf("UnitResults has %d entries, want 3", len(res.UnitResults))
	}
	for i, u := range res.UnitResults {
		if u.Index != i {
			t.Errorf("UnitResults[%d].Index = %d", i, u.Index)
		}
	}
	if res.UnitResults[0].Text != "first" || res.UnitResults[2].Text != "third" {
		t.Errorf("UnitResults texts = %q, %q", res.UnitResults[0].Text, res.UnitResults[2].Text)
	}
	if !errors.Is(res.UnitResults[1].Err, boom) {
		t.Errorf("UnitResults[1].Err = %v, want the segment failure", res.UnitResults[1].Err)
	}
}

func TestServiceFallbackChunkingShortAudioSendsWholeFile(t *testing.T) {
	t.Parallel()

	// Compression could not get under the upload limit, but the audio is
	// shorter than the ceiling so there is nothing to split: one whole-file
	// attempt, with a warning that names the actual situation.
	input := writeAudioFile(t, "dense.mp3")
	units := &scriptedTranscriber{texts: []string{"whole"}}
	var warnings strings.Builder

	sizes := map[string]float64{
		"dense.mp3":      80,
		"compressed.mp3": 40,
	}
	svc := newTestService(t, ceilingBudget(12*time.Minute), fixedProber{d: 3 * time.Minute}, &fakePreprocessor{}, units,
		transcribe.WithSizer(fixedSizer(sizes, 80)),
		transcribe.WithWarnWriter(&warnings))

	res := svc.Run(context.Background(), input)

	if !res.Success {
		t.Fatalf("Run failed: %v", res.Err)
	}
	if res.Units != 1 {
		t.Errorf("Units = %d, want 1", res.Units)
	}
	if res.Optimization != transcribe.OptimizationChunkingFallback {
		t.Errorf("Optimization = %q, want %q", res.Optimization, transcribe.OptimizationChunkingFallback)
	}
	if !strings.Contains(warnings.String(), "single segment") {
		t.Errorf("warning = %q, want the single-segment message", warnings.String())
	}
	if strings.Contains(warnings.String(), "known duration") {
		t.Errorf("warning %q should not claim the duration is unknown", warnings.String())
	}
}

func TestServiceAllSegmentsFailedIsFatal(t *testing.T) {
	t.Parallel()

	boom := errors.New("server error")
	input := writeAudioFile(t, "long.mp3")
	units := &scriptedTranscriber{errs: []error{boom, boom, boom}}
	pre := &fakePreprocessor{}

	svc := newTestService(t, ceilingBudget(10*time.Minute), fixedProber{d: 30 * time.Minute}, pre, units,
		transcribe.WithSizer(fixedSizer(nil, 15)))

	res := svc.Run(context.Background(), input)

	if res.Success {
		t.Fatal("Run should fail when every segment fails")
	}
	if !errors.Is(res.Err, transcribe.ErrAllUnitsFailed) {
		t.Errorf("Err = %v, want ErrAllUnitsFailed", res.Err)
	}
	if res.FailedUnits != 3 {
		t.Errorf("FailedUnits = %d, want 3", res.FailedUnits)
	}
}

func TestServiceMissingInput(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, ceilingBudget(10*time.Minute), fixedProber{}, &fakePreprocessor{}, &scriptedTranscriber{})

	res := svc.Run(context.Background(), "/nonexistent/audio.mp3")
	if res.Success {
		t.Fatal("Run should fail on missing input")
	}
	if !errors.Is(res.Err, transcribe.ErrNoInput) {
		t.Errorf("Err = %v, want ErrNoInput", res.Err)
	}
}

func TestServiceExtractsAudioFromVideo(t *testing.T) {
	t.Parallel()

	input := writeAudioFile(t, "talk.mp4")
	units := &scriptedTranscriber{texts: []string{"from video"}}
	pre := &fakePreprocessor{}

	svc := newTestService(t, ceilingBudget(12*time.Minute), fixedProber{d: 5 * time.Minute}, pre, units,
		transcribe.WithSizer(fixedSizer(nil, 10)))

	res := svc.Run(context.Background(), input)

	if !res.Success {
		t.Fatalf("Run failed: %v", res.Err)
	}
	if len(pre.extracted) != 1 {
		t.Fatalf("extracted %d times, want 1", len(pre.extracted))
	}
	if filepath.Base(pre.extracted[0]) != "audio.mp3" {
		t.Errorf("extraction target = %q", pre.extracted[0])
	}
}

func TestServiceCleansUpTempDirByDefault(t *testing.T) {
	t.Parallel()

	tempRoot := t.TempDir()
	input := writeAudioFile(t, "talk.mp3")
	units := &scriptedTranscriber{texts: []string{"ok"}}

	svc := transcribe.NewService(fixedProber{d: time.Minute}, &fakePreprocessor{}, units, "m", "",
		transcribe.WithTokenBudget(ceilingBudget(12*time.Minute)),
		transcribe.WithTempRoot(tempRoot),
		transcribe.WithWarnWriter(io.Discard),
		transcribe.WithSizer(fixedSizer(nil, 1)),
		transcribe.WithRunID(func() string { return "runid" }),
	)

	res := svc.Run(context.Background(), input)
	if !res.Success {
		t.Fatalf("Run failed: %v", res.Err)
	}

	if _, err := os.Stat(filepath.Join(tempRoot, "transcriberio-runid")); !os.IsNotExist(err) {
		t.Error("run temp dir should be removed after the run")
	}
}

func TestServiceKeepTempPreservesWorkDir(t *testing.T) {
	t.Parallel()

	tempRoot := t.TempDir()
	input := writeAudioFile(t, "talk.mp3")
	units := &scriptedTranscriber{texts: []string{"ok"}}

	svc := transcribe.NewService(fixedProber{d: time.Minute}, &fakePreprocessor{}, units, "m", "",
		transcribe.WithTokenBudget(ceilingBudget(12*time.Minute)),
		transcribe.WithTempRoot(tempRoot),
		transcribe.WithWarnWriter(io.Discard),
		transcribe.WithSizer(fixedSizer(nil, 1)),
		transcribe.WithRunID(func() string { return "runid" }),
		transcribe.WithKeepTemp(true),
	)

	if res := svc.Run(context.Background(), input); !res.Success {
		t.Fatalf("Run failed: %v", res.Err)
	}

	if _, err := os.Stat(filepath.Join(tempRoot, "transcriberio-runid")); err != nil {
		t.Errorf("run temp dir should survive with keep-temp: %v", err)
	}
}

func TestServiceRunsDirectWithoutMediaTools(t *testing.T) {
	t.Parallel()

	// With no ffmpeg at all the duration is unknown and no preprocessing is
	// possible, but a file within the upload limit still transcribes.
	input := writeAudioFile(t, "talk.mp3")
	units := &scriptedTranscriber{texts: []string{"no tools needed"}}
	var warnings strings.Builder

	svc := transcribe.NewService(media.Unavailable{}, media.Unavailable{}, units, "test-model", "en",
		transcribe.WithTempRoot(t.TempDir()),
		transcribe.WithWarnWriter(&warnings))

	res := svc.Run(context.Background(), input)

	if !res.Success {
		t.Fatalf("Run failed: %v", res.Err)
	}
	if res.Text != "no tools needed" {
		t.Errorf("Text = %q", res.Text)
	}
	if res.Units != 1 {
		t.Errorf("Units = %d, want 1", res.Units)
	}
	if !strings.Contains(warnings.String(), "duration") {
		t.Errorf("expected a duration warning, got %q", warnings.String())
	}
}

func TestServiceUnknownDurationSendsWholeFile(t *testing.T) {
	t.Parallel()

	// Probe failure leaves the duration unknown; a small file still goes
	// out as a single request and the warning is non-fatal.
	input := writeAudioFile(t, "talk.mp3")
	units := &scriptedTranscriber{texts: []string{"ok"}}
	var warnings strings.Builder

	svc := newTestService(t, ceilingBudget(12*time.Minute), fixedProber{err: errors.New("probe broke")}, &fakePreprocessor{}, units,
		transcribe.WithSizer(fixedSizer(nil, 10)),
		transcribe.WithWarnWriter(&warnings))

	res := svc.Run(context.Background(), input)

	if !res.Success {
		t.Fatalf("Run failed: %v", res.Err)
	}
	if res.Duration != 0 {
		t.Errorf("Duration = %v, want 0 (unknown)", res.Duration)
	}
	if !strings.Contains(warnings.String(), "duration") {
		t.Errorf("expected a duration warning, got %q", warnings.String())
	}
}
