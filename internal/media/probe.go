// Package media measures and transcodes local audio/video assets through the
// external ffmpeg/ffprobe tools. Tool availability is decided once when the
// prober and transcoder are constructed; per-call fallbacks cover tools that
// exist but fail on a particular file.
package media

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jorujes/transcriberio/internal/ffmpeg"
)

// Prober measures the duration of a media file.
//
// A returned duration of 0 with a nil error means "unknown": callers must not
// treat it as a legitimately empty clip.
type Prober interface {
	Duration(ctx context.Context, path string) (time.Duration, error)
}

// Compile-time interface implementation checks.
var (
	_ Prober = (*ffprobeProber)(nil)
	_ Prober = (*decodeProber)(nil)
)

// SizeMB returns the size of a file in megabytes. It is a direct filesystem
// stat and fails only on I/O error.
func SizeMB(path string) (float64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrFileNotFound, err)
	}
	return BytesToMB(info.Size()), nil
}

// BytesToMB converts a byte count to megabytes.
func BytesToMB(bytes int64) float64 {
	return float64(bytes) / (1024 * 1024)
}

// NewProber selects a prober implementation from the available tools.
// ffprobe reads container metadata without decoding and is preferred; the
// full-decode prober is the slow fallback used when ffprobe is missing, and
// also backs the ffprobe prober per-call when a specific file defeats it.
func NewProber(tools ffmpeg.Tools, exec *ffmpeg.Executor) (Prober, error) {
	if tools.HasFFprobe() {
		var fallback Prober
		if tools.HasFFmpeg() {
			fallback = &decodeProber{exec: exec, ffmpegPath: tools.FFmpeg}
		}
		return &ffprobeProber{exec: exec, ffprobePath: tools.FFprobe, fallback: fallback}, nil
	}
	if tools.HasFFmpeg() {
		return &decodeProber{exec: exec, ffmpegPath: tools.FFmpeg}, nil
	}
	return nil, ffmpeg.ErrProbeNotFound
}

// ffprobeProber reads the container duration without decoding.
type ffprobeProber struct {
	exec        *ffmpeg.Executor
	ffprobePath string
	fallback    Prober
}

func (p *ffprobeProber) Duration(ctx context.Context, path string) (time.Duration, error) {
	args := []string{
		"-v", "quiet",
		"-show_entries", "format=duration",
		"-of", "csv=p=0",
		path,
	}

	out, err := p.exec.RunStdout(ctx, p.ffprobePath, args)
	if err == nil {
		if seconds, parseErr := strconv.ParseFloat(strings.TrimSpace(out), 64); parseErr == nil && seconds > 0 {
			return time.Duration(seconds * float64(time.Second)), nil
		}
	}

	// Some containers carry no duration metadata; decode as a last resort.
	if p.fallback != nil {
		return p.fallback.Duration(ctx, path)
	}
	return 0, fmt.Errorf("%w: ffprobe gave no duration for %s", ErrProbeFailed, path)
}

// decodeProber decodes the entire file to measure its length. Slow and
// IO-heavy; callers must tolerate the added latency.
type decodeProber struct {
	exec       *ffmpeg.Executor
	ffmpegPath string
}

func (p *decodeProber) Duration(ctx context.Context, path string) (time.Duration, error) {
	args := []string{
		"-i", path,
		"-f", "null", "-",
	}

	out, err := p.exec.Run(ctx, p.ffmpegPath, args)
	if err != nil && len(out) == 0 {
		// ffmpeg exits non-zero for several readable files, so only a silent
		// failure is treated as fatal here.
		return 0, fmt.Errorf("%w: %v", ErrProbeFailed, err)
	}

	return parseDurationOutput(out)
}

// Duration and progress patterns in ffmpeg stderr output.
var (
	durationRe = regexp.MustCompile(`Duration:\s*(\d+):(\d+):(\d+)\.(\d+)`)
	timeRe     = regexp.MustCompile(`time=(\d+):(\d+):(\d+)\.(\d+)`)
)

// parseDurationOutput extracts a duration from ffmpeg stderr.
// Looks for "Duration: HH:MM:SS.ms" first, then the last "time=HH:MM:SS.ms"
// progress line (the final decode position).
func parseDurationOutput(output string) (time.Duration, error) {
	if matches := durationRe.FindStringSubmatch(output); matches != nil {
		return parseTimeComponents(matches[1], matches[2], matches[3], matches[4])
	}

	allMatches := timeRe.FindAllStringSubmatch(output, -1)
	if len(allMatches) > 0 {
		matches := allMatches[len(allMatches)-1]
		return parseTimeComponents(matches[1], matches[2], matches[3], matches[4])
	}

	return 0, fmt.Errorf("%w: no duration in ffmpeg output", ErrProbeFailed)
}

// parseTimeComponents converts HH:MM:SS.frac strings to a Duration.
func parseTimeComponents(hours, minutes, seconds, fractional string) (time.Duration, error) {
	h, _ := strconv.Atoi(hours)
	m, _ := strconv.Atoi(minutes)
	s, _ := strconv.Atoi(seconds)

	// Normalize the fractional part to milliseconds. Input may carry 1-6+
	// digits (".4", ".45", ".456789").
	frac, _ := strconv.Atoi(fractional)
	ms := frac
	switch n := len(fractional); {
	case n == 1:
		ms = frac * 100
	case n == 2:
		ms = frac * 10
	case n == 3:
		// Already milliseconds.
	case n > 3:
		for i := n; i > 3; i-- {
			ms /= 10
		}
	}

	return time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second +
		time.Duration(ms)*time.Millisecond, nil
}
