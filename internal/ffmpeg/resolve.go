// Package ffmpeg locates and executes the external media tools (ffmpeg,
// ffprobe). Tool availability is resolved once at startup; callers hold the
// resolved paths and degrade to fallback code paths when a tool is absent.
package ffmpeg

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// Environment variables for custom tool paths.
const (
	EnvFFmpegPath  = "FFMPEG_PATH"
	EnvFFprobePath = "FFPROBE_PATH"
)

// envProvider abstracts environment and path lookup operations.
type envProvider interface {
	Getenv(key string) string
	LookPath(file string) (string, error)
}

// osEnvProvider implements envProvider using os and exec packages.
type osEnvProvider struct{}

func (osEnvProvider) Getenv(key string) string            { return os.Getenv(key) }
func (osEnvProvider) LookPath(file string) (string, error) { return exec.LookPath(file) }

// Compile-time interface verification.
var _ envProvider = osEnvProvider{}

// Tools holds the resolved paths of the external media tools. An empty path
// means the tool is unavailable and callers must use their fallback path.
type Tools struct {
	FFmpeg  string
	FFprobe string
}

// HasFFmpeg reports whether ffmpeg was found.
func (t Tools) HasFFmpeg() bool { return t.FFmpeg != "" }

// HasFFprobe reports whether ffprobe was found.
func (t Tools) HasFFprobe() bool { return t.FFprobe != "" }

// Resolver finds the external media tools.
type Resolver struct {
	env envProvider
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithEnvProvider sets the environment provider implementation.
func WithEnvProvider(e envProvider) ResolverOption {
	return func(r *Resolver) { r.env = e }
}

// NewResolver creates a Resolver with the given options.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{env: osEnvProvider{}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve locates ffmpeg and ffprobe. Missing tools are reported as empty
// paths, never as an error: tool absence degrades processing, it does not
// abort it. An error is returned only when an explicit env override points at
// a binary that does not exist, since silently ignoring it would mask a
// misconfiguration.
func (r *Resolver) Resolve() (Tools, error) {
	var tools Tools

	ffmpeg, err := r.resolveTool(EnvFFmpegPath, "ffmpeg")
	if err != nil {
		return Tools{}, err
	}
	tools.FFmpeg = ffmpeg

	ffprobe, err := r.resolveTool(EnvFFprobePath, "ffprobe")
	if err != nil {
		return Tools{}, err
	}
	tools.FFprobe = ffprobe

	return tools, nil
}

// resolveTool checks the env override first, then the system PATH.
func (r *Resolver) resolveTool(envKey, name string) (string, error) {
	if envPath := r.env.Getenv(envKey); envPath != "" {
		if _, err := os.Stat(envPath); err != nil {
			return "", fmt.Errorf("%s is set to %q but binary not found (unset to use PATH lookup)",
				envKey, envPath)
		}
		return envPath, nil
	}

	if path, err := r.env.LookPath(name); err == nil {
		return path, nil
	}

	return "", nil
}

// InstallInstructions returns platform-specific instructions for installing
// ffmpeg, shown when no tool could be found and a fallback also failed.
func InstallInstructions() string {
	switch runtime.GOOS {
	case "darwin":
		return `To install FFmpeg:
  brew install ffmpeg

Or set FFMPEG_PATH / FFPROBE_PATH environment variables to your binaries.`
	case "linux":
		return `To install FFmpeg:
  Ubuntu/Debian: sudo apt install ffmpeg
  Fedora:        sudo dnf install ffmpeg
  Arch:          sudo pacman -S ffmpeg

Or set FFMPEG_PATH / FFPROBE_PATH environment variables to your binaries.`
	case "windows":
		return `To install FFmpeg:
  winget install ffmpeg

Or set FFMPEG_PATH / FFPROBE_PATH environment variables to your binaries.`
	default:
		return `Download FFmpeg from https://ffmpeg.org/download.html
Or set FFMPEG_PATH / FFPROBE_PATH environment variables to your binaries.`
	}
}
