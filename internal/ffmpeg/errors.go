package ffmpeg

import "errors"

// ErrNotFound indicates the ffmpeg binary was not found on this system.
var ErrNotFound = errors.New("ffmpeg not found")

// ErrProbeNotFound indicates the ffprobe binary was not found on this system.
var ErrProbeNotFound = errors.New("ffprobe not found")
