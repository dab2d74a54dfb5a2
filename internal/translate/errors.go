package translate

import "errors"

// ErrEmptyInput indicates there is no text to translate.
var ErrEmptyInput = errors.New("nothing to translate")

// ErrAllChunksFailed indicates no chunk could be translated.
var ErrAllChunksFailed = errors.New("all chunks failed to translate")
