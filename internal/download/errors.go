package download

import "errors"

// ErrInvalidURL indicates the URL is not a recognized YouTube link.
var ErrInvalidURL = errors.New("not a valid YouTube URL")

// ErrNotFound indicates the yt-dlp binary could not be located.
var ErrNotFound = errors.New("yt-dlp not found")

// ErrInfoFailed indicates video metadata could not be fetched.
var ErrInfoFailed = errors.New("failed to fetch video info")

// ErrDownloadFailed indicates the audio download did not complete.
var ErrDownloadFailed = errors.New("download failed")
