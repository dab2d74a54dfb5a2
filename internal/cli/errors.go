package cli

import "errors"

// CLI-specific sentinel errors.
// These are validation/usage errors that don't belong to domain packages.

var (
	// ErrFileNotFound indicates the specified input file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrUnsupportedFormat indicates an input file has an unsupported extension.
	ErrUnsupportedFormat = errors.New("unsupported audio format")

	// ErrOutputExists indicates the output file already exists.
	ErrOutputExists = errors.New("output file already exists")

	// ErrUnknownModel indicates a model name no configured provider serves.
	ErrUnknownModel = errors.New("unknown model")

	// ErrUnknownQuality indicates an audio quality preset that does not exist.
	ErrUnknownQuality = errors.New("unknown quality preset")

	// ErrNoSelection indicates the user declined an interactive choice.
	ErrNoSelection = errors.New("no selection made")
)
