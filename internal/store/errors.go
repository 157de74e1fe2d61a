package store

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by Update and Delete when no record has the
// given id.
var ErrNotFound = errors.New("record not found")

// CorruptStateError indicates the state file exists but could not be
// parsed. It is never auto-repaired; the user decides what to do with
// the file.
type CorruptStateError struct {
	Path string
	Err  error
}

func (e *CorruptStateError) Error() string {
	return fmt.Sprintf("state file %s is corrupt: %v", e.Path, e.Err)
}

func (e *CorruptStateError) Unwrap() error { return e.Err }

// ValidationError indicates a rejected field on record creation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s must not be empty", e.Field)
	}
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}
