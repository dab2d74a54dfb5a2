package media

import (
	"context"
	"fmt"
	"time"

	"github.com/jorujes/transcriberio/internal/ffmpeg"
)

// Preprocessor covers the transcode operations the transcription pipeline
// uses. Both the real Transcoder and the degraded Unavailable satisfy it.
type Preprocessor interface {
	ExtractAudio(ctx context.Context, src, dest string) error
	Compress(ctx context.Context, src, dest string) error
	ExtractClip(ctx context.Context, src, dest string, start, end time.Duration) error
}

// Unavailable stands in for the media tools when ffmpeg could not be found.
// Probing reports the duration as unknown and every transcode operation
// fails with install instructions, so audio already within the upload limit
// still reaches the API while anything that needs preprocessing explains
// what is missing.
type Unavailable struct{}

// Compile-time interface implementation checks.
var (
	_ Prober       = Unavailable{}
	_ Preprocessor = Unavailable{}
	_ Preprocessor = (*Transcoder)(nil)
)

func (Unavailable) Duration(context.Context, string) (time.Duration, error) {
	return 0, ffmpeg.ErrProbeNotFound
}

func (Unavailable) ExtractAudio(_ context.Context, _, _ string) error {
	return unavailableErr("extract audio")
}

func (Unavailable) Compress(_ context.Context, _, _ string) error {
	return unavailableErr("compress audio")
}

func (Unavailable) ExtractClip(_ context.Context, _, _ string, _, _ time.Duration) error {
	return unavailableErr("cut segment")
}

func unavailableErr(op string) error {
	return fmt.Errorf("cannot %s: %w\n%s", op, ffmpeg.ErrNotFound, ffmpeg.InstallInstructions())
}
