package entity

import "errors"

// ErrBadResponse indicates the model's entity JSON could not be parsed.
var ErrBadResponse = errors.New("unparseable entity response")

// ErrReviewAborted indicates the user quit the interactive review.
var ErrReviewAborted = errors.New("review aborted")
