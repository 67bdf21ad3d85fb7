package domain

import "errors"

// Sentinels are wrapped with detail, e.g. fmt.Errorf("%w: name is required", ErrValidation),
// and matched with errors.Is at the transport edge.
var (
	ErrNotFound      = errors.New("not found")
	ErrValidation    = errors.New("validation failed")
	ErrConflict      = errors.New("conflict")
	ErrHasDependents = errors.New("has dependent records")
)
