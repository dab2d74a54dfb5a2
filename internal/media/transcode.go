package media

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jorujes/transcriberio/internal/ffmpeg"
)

// Encoding parameters.
//
// Extraction keeps full quality (the strategy selector may still decide the
// result fits a direct upload); compression targets the smallest speech-legible
// stream; clips use a middle bitrate so chunk boundaries survive re-encoding.
const (
	extractBitrate    = "320k"
	extractSampleRate = "44100"

	compressBitrate    = "64k"
	compressSampleRate = "22050"

	clipBitrate    = "128k"
	clipSampleRate = "22050"
)

// fileStatter retrieves file information.
type fileStatter interface {
	Stat(name string) (os.FileInfo, error)
}

// osFileStatter implements fileStatter using os.Stat.
type osFileStatter struct{}

func (osFileStatter) Stat(name string) (os.FileInfo, error) { return os.Stat(name) }

// Transcoder re-encodes audio through ffmpeg: extracting the audio stream from
// video, compressing for upload, and cutting time-bounded clips.
//
// Every operation returns an error on failure and the caller degrades: a
// failed extraction means processing the original container, a failed
// compression means the chunking stage absorbs the oversized file. Transcode
// failure is never fatal on its own.
type Transcoder struct {
	ffmpegPath string
	exec       *ffmpeg.Executor
	statter    fileStatter
}

// TranscoderOption configures a Transcoder.
type TranscoderOption func(*Transcoder)

// WithExecutor sets the tool executor (for testing).
func WithExecutor(e *ffmpeg.Executor) TranscoderOption {
	return func(t *Transcoder) { t.exec = e }
}

// WithFileStatter sets the file statter (for testing).
func WithFileStatter(s fileStatter) TranscoderOption {
	return func(t *Transcoder) { t.statter = s }
}

// NewTranscoder creates a Transcoder bound to an ffmpeg binary.
func NewTranscoder(ffmpegPath string, opts ...TranscoderOption) (*Transcoder, error) {
	if ffmpegPath == "" {
		return nil, fmt.Errorf("ffmpegPath cannot be empty: %w", ffmpeg.ErrNotFound)
	}

	t := &Transcoder{
		ffmpegPath: ffmpegPath,
		exec:       ffmpeg.NewExecutor(),
		statter:    osFileStatter{},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// ExtractAudio strips the video stream and encodes the audio track to MP3 at
// a high fixed bitrate and standard sample rate.
func (t *Transcoder) ExtractAudio(ctx context.Context, videoPath, destPath string) error {
	args := []string{
		"-y",
		"-i", videoPath,
		"-vn",
		"-acodec", "mp3",
		"-ab", extractBitrate,
		"-ar", extractSampleRate,
		destPath,
	}
	return t.runAndVerify(ctx, args, destPath, "extract audio")
}

// Compress re-encodes to mono, reduced sample rate, and a low fixed bitrate
// to shrink the file for upload. The ffmpeg path streams without loading the
// file into memory.
func (t *Transcoder) Compress(ctx context.Context, audioPath, destPath string) error {
	args := []string{
		"-y",
		"-i", audioPath,
		"-ac", "1",
		"-ar", compressSampleRate,
		"-ab", compressBitrate,
		destPath,
	}
	return t.runAndVerify(ctx, args, destPath, "compress")
}

// ExtractClip cuts the [start, end) range into destPath. Timestamps are reset
// so the clip starts at time 0: the transcription API has no concept of an
// offset clip and rejects streams whose first timestamp is nonzero.
func (t *Transcoder) ExtractClip(ctx context.Context, audioPath, destPath string, start, end time.Duration) error {
	if end <= start {
		return fmt.Errorf("%w: clip end %v <= start %v", ErrTranscodeFailed, end, start)
	}

	args := []string{
		"-y",
		"-i", audioPath,
		"-ss", formatTime(start),
		"-t", formatTime(end - start),
		"-ac", "1",
		"-ar", clipSampleRate,
		"-ab", clipBitrate,
		"-avoid_negative_ts", "make_zero",
		"-reset_timestamps", "1",
		destPath,
	}
	return t.runAndVerify(ctx, args, destPath, "extract clip")
}

// runAndVerify executes ffmpeg and confirms the output file exists. ffmpeg
// occasionally exits zero after writing nothing (bad stream mapping), so the
// stat check is part of success.
func (t *Transcoder) runAndVerify(ctx context.Context, args []string, destPath, op string) error {
	out, err := t.exec.Run(ctx, t.ffmpegPath, args)
	if err != nil {
		return fmt.Errorf("%w: %s: %v\nOutput: %s", ErrTranscodeFailed, op, err, out)
	}
	if _, err := t.statter.Stat(destPath); err != nil {
		return fmt.Errorf("%w: %s completed but %s was not created", ErrTranscodeFailed, op, destPath)
	}
	return nil
}

// formatTime formats a duration for ffmpeg -ss/-t arguments.
func formatTime(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := d.Seconds() - float64(h*3600+m*60)
	return fmt.Sprintf("%02d:%02d:%06.3f", h, m, s)
}
