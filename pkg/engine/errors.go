package engine

import "errors"

var (
	// ErrStepOutOfRange is returned by GoToStep for indices outside the
	// visible steps.
	ErrStepOutOfRange = errors.New("engine: step out of range")
	// ErrStepNotVisited is returned by GoToStep when visited-only navigation
	// is enabled and the target has not been reached yet.
	ErrStepNotVisited = errors.New("engine: step not visited")
	// ErrSubmitInProgress is returned by Submit while a previous submission is
	// still running.
	ErrSubmitInProgress = errors.New("engine: submit in progress")
)
