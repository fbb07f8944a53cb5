package store

import "errors"

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when an insert or status transition would
// violate a uniqueness or expected-status precondition.
var ErrConflict = errors.New("conflict")
