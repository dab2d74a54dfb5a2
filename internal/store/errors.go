package store

import "errors"

// ErrNotFound indicates no entry exists for the given ID.
var ErrNotFound = errors.New("entry not found")

// ErrDuplicateID indicates an entry with the same ID already exists.
var ErrDuplicateID = errors.New("duplicate entry ID")
