package store

import "errors"

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert violates a uniqueness constraint,
// e.g. a second vote in the same election or a taken username.
var ErrDuplicate = errors.New("duplicate")
