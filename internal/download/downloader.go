// Package download fetches YouTube audio through the yt-dlp command line
// tool, which handles extraction, format selection, and mp3 conversion.
package download

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// EnvYTDLPPath overrides yt-dlp binary discovery.
const EnvYTDLPPath = "YTDLP_PATH"

// Audio quality presets mapped to mp3 bitrates.
const (
	QualityBest   = "best"
	QualityMedium = "medium"
	QualityWorst  = "worst"
)

var qualityBitrates = map[string]string{
	QualityBest:   "320",
	QualityMedium: "192",
	QualityWorst:  "128",
}

// VideoInfo is the metadata yt-dlp reports for a video.
type VideoInfo struct {
	ID         string        `json:"id"`
	Title      string        `json:"title"`
	Uploader   string        `json:"uploader"`
	UploadDate string        `json:"upload_date"` // YYYYMMDD
	ViewCount  int64         `json:"view_count"`
	Duration   time.Duration `json:"-"`
}

// rawInfo matches yt-dlp's -J output; duration arrives as float seconds.
type rawInfo struct {
	VideoInfo
	DurationSeconds float64 `json:"duration"`
}

// runFn executes a command and returns its stdout.
type runFn func(ctx context.Context, name string, args ...string) ([]byte, error)

func defaultRun(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Downloader wraps a resolved yt-dlp binary.
type Downloader struct {
	path string
	run  runFn
}

// DownloaderOption configures a Downloader.
type DownloaderOption func(*Downloader)

// WithRun overrides command execution, for tests.
func WithRun(fn runFn) DownloaderOption {
	return func(d *Downloader) { d.run = fn }
}

// WithPath pins the yt-dlp binary path, skipping discovery.
func WithPath(path string) DownloaderOption {
	return func(d *Downloader) { d.path = path }
}

// NewDownloader locates yt-dlp via YTDLP_PATH or PATH and returns a
// Downloader bound to it.
func NewDownloader(opts ...DownloaderOption) (*Downloader, error) {
	d := &Downloader{run: defaultRun}
	for _, opt := range opts {
		opt(d)
	}
	if d.path != "" {
		return d, nil
	}
	if override := os.Getenv(EnvYTDLPPath); override != "" {
		if _, err := os.Stat(override); err != nil {
			return nil, fmt.Errorf("%s=%s: %w", EnvYTDLPPath, override, ErrNotFound)
		}
		d.path = override
		return d, nil
	}
	path, err := exec.LookPath("yt-dlp")
	if err != nil {
		return nil, ErrNotFound
	}
	d.path = path
	return d, nil
}

// Info fetches the video's metadata without downloading anything.
func (d *Downloader) Info(ctx context.Context, url string) (*VideoInfo, error) {
	if _, err := ExtractVideoID(url); err != nil {
		return nil, err
	}
	out, err := d.run(ctx, d.path, "-J", "--no-playlist", url)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", url, ErrInfoFailed)
	}
	var raw rawInfo
	if err := json.Unmarshal(out, &raw); err != nil {
		return nil, fmt.Errorf("parse video info: %w", err)
	}
	info := raw.VideoInfo
	info.Duration = time.Duration(raw.DurationSeconds * float64(time.Second))
	return &info, nil
}

// Download fetches the video's audio as mp3 into destDir and returns the
// path of the written file. quality is one of the Quality* presets; unknown
// values fall back to QualityBest.
func (d *Downloader) Download(ctx context.Context, url, destDir, quality string) (string, error) {
	id, err := ExtractVideoID(url)
	if err != nil {
		return "", err
	}
	bitrate, ok := qualityBitrates[quality]
	if !ok {
		bitrate = qualityBitrates[QualityBest]
	}

	template := filepath.Join(destDir, "%(id)s.%(ext)s")
	args := []string{
		"-f", "bestaudio/best",
		"-x", "--audio-format", "mp3",
		"--audio-quality", bitrate + "K",
		"--no-playlist",
		"-o", template,
		url,
	}
	if _, err := d.run(ctx, d.path, args...); err != nil {
		return "", fmt.Errorf("%s: %w", url, ErrDownloadFailed)
	}

	dest := filepath.Join(destDir, id+".mp3")
	if _, err := os.Stat(dest); err != nil {
		return "", fmt.Errorf("%s not written: %w", dest, ErrDownloadFailed)
	}
	return dest, nil
}
