package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoButton is returned when WithButton names a button the form lacks.
	ErrNoButton = errors.New("tui: unknown submit button")
)
