package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrSubmitFailed is returned when submission failed and the user declined
	// to retry.
	ErrSubmitFailed = errors.New("tui: submit failed")
	// ErrNoSteps is returned when the form has no visible step to render.
	ErrNoSteps = errors.New("tui: form has no visible steps")
)
