package transcribe_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jorujes/transcriberio/internal/transcribe"
)

// scriptedTranscriber returns canned texts/errors keyed by call order.
type scriptedTranscriber struct {
	mu    sync.Mutex
	texts []string
	errs  []error
	paths []string
}

func (s *scriptedTranscriber) Transcribe(_ context.Context, path string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := len(s.paths)
	s.paths = append(s.paths, path)
	if idx < len(s.errs) && s.errs[idx] != nil {
		return "", s.errs[idx]
	}
	if idx < len(s.texts) {
		return s.texts[idx], nil
	}
	return fmt.Sprintf("text %d", idx), nil
}

// recordingClipper records clip requests and optionally fails some.
type recordingClipper struct {
	mu    sync.Mutex
	clips []string
	fail  map[int]error
}

func (r *recordingClipper) ExtractClip(_ context.Context, _, dest string, _, _ time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := len(r.clips)
	r.clips = append(r.clips, dest)
	if err := r.fail[idx]; err != nil {
		return err
	}
	return nil
}

func spansFor(lengths ...time.Duration) []transcribe.Span {
	var spans []transcribe.Span
	var at time.Duration
	for i, l := range lengths {
		spans = append(spans, transcribe.Span{Index: i, Start: at, End: at + l})
		at += l
	}
	return spans
}

func TestExecutorRunsSpansInOrder(t *testing.T) {
	t.Parallel()

	units := &scriptedTranscriber{texts: []string{"one", "two", "three"}}
	clips := &recordingClipper{}
	exec := transcribe.NewExecutor(units, clips)

	spans := spansFor(time.Minute, time.Minute, time.Minute)
	results := exec.Run(context.Background(), "src.mp3", "/tmp/work", spans)

	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	for i, r := range results {
		if r.Index != i {
			t.Errorf("result %d has index %d", i, r.Index)
		}
		if !r.OK() {
			t.Errorf("result %d failed: %v", i, r.Err)
		}
	}
	if results[1].Text != "two" {
		t.Errorf("result 1 text = %q, want %q", results[1].Text, "two")
	}

	// Clip files are namespaced by segment index inside the work dir.
	want := filepath.Join("/tmp/work", "segment_001.mp3")
	if clips.clips[1] != want {
		t.Errorf("clip 1 path = %q, want %q", clips.clips[1], want)
	}
}

func TestExecutorContinuesPastFailedSegment(t *testing.T) {
	t.Parallel()

	boom := errors.New("server error")
	units := &scriptedTranscriber{
		texts: []string{"first", "", "third"},
		errs:  []error{nil, boom, nil},
	}
	exec := transcribe.NewExecutor(units, &recordingClipper{})

	results := exec.Run(context.Background(), "src.mp3", t.TempDir(), spansFor(time.Minute, time.Minute, time.Minute))

	if results[0].Err != nil || results[2].Err != nil {
		t.Fatalf("segments 0 and 2 should succeed: %v, %v", results[0].Err, results[2].Err)
	}
	if !errors.Is(results[1].Err, boom) {
		t.Fatalf("segment 1 error = %v, want %v", results[1].Err, boom)
	}
	if got := transcribe.Assemble(results); got != "first third" {
		t.Errorf("Assemble() = %q, want %q", got, "first third")
	}
}

func TestExecutorRecordsClipFailures(t *testing.T) {
	t.Parallel()

	units := &scriptedTranscriber{}
	clips := &recordingClipper{fail: map[int]error{0: errors.New("no space left")}}
	exec := transcribe.NewExecutor(units, clips)

	results := exec.Run(context.Background(), "src.mp3", t.TempDir(), spansFor(time.Minute))

	if results[0].OK() {
		t.Fatal("segment should fail when its clip cannot be cut")
	}
	if len(units.paths) != 0 {
		t.Error("transcriber should not run when the clip failed")
	}
	if !strings.Contains(results[0].Err.Error(), "segment 0") {
		t.Errorf("error %q should name the segment", results[0].Err)
	}
}

func TestExecutorStopsTranscribingOnCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	units := &scriptedTranscriber{}
	exec := transcribe.NewExecutor(units, &recordingClipper{})

	results := exec.Run(ctx, "src.mp3", t.TempDir(), spansFor(time.Minute, time.Minute))

	if len(results) != 2 {
		t.Fatalf("got %d results, want one per span", len(results))
	}
	for i, r := range results {
		if !errors.Is(r.Err, context.Canceled) {
			t.Errorf("result %d error = %v, want context.Canceled", i, r.Err)
		}
	}
	if len(units.paths) != 0 {
		t.Error("no transcription should run after cancellation")
	}
}
