package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrInvalidValue is returned when a value fails the field type's checks.
	ErrInvalidValue = errors.New("tui: invalid value")
)
