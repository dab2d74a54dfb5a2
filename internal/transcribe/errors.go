package transcribe

import "errors"

// ErrNoAPIKey indicates no transcription API key is configured.
var ErrNoAPIKey = errors.New("no API key configured")

// ErrEmptyTranscript indicates the API returned an empty transcript.
var ErrEmptyTranscript = errors.New("empty transcript returned")

// ErrNoInput indicates the input file does not exist or is unreadable.
var ErrNoInput = errors.New("input file not found")

// ErrUnplayable indicates the input could not be probed or decoded at all.
var ErrUnplayable = errors.New("input could not be analyzed")

// ErrAllUnitsFailed indicates every planned segment failed to transcribe.
var ErrAllUnitsFailed = errors.New("all segments failed")
