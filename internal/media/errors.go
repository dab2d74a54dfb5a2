package media

import "errors"

// ErrProbeFailed indicates duration could not be determined by any prober.
var ErrProbeFailed = errors.New("could not determine media duration")

// ErrTranscodeFailed indicates ffmpeg failed to produce the requested output.
var ErrTranscodeFailed = errors.New("transcode failed")

// ErrFileNotFound indicates the specified input file does not exist.
var ErrFileNotFound = errors.New("file not found")
