package engine

import "github.com/goliatone/go-formflow/pkg/model"

// Action is a state transition request consumed by Reduce. The set of actions
// is closed.
type Action interface {
	action()
}

// SetField stores Value under Field and clears that field's error.
type SetField struct {
	Field string
	Value any
}

// SetErrors replaces the error map.
type SetErrors struct {
	Errors model.FormErrors
}

// ClearErrors empties the error map.
type ClearErrors struct{}

// NextStep advances one visible step.
type NextStep struct{}

// PrevStep moves back one visible step, never below zero.
type PrevStep struct{}

// GoToStep jumps to Step. Reduce does not bounds check it.
type GoToStep struct {
	Step int
}

// SetSubmitting toggles the submitting flag.
type SetSubmitting struct {
	Submitting bool
}

// Reset restores the initial state.
type Reset struct{}

// LoadData replaces the stored data, typically from persistence.
type LoadData struct {
	Data model.FormData
}

func (SetField) action()      {}
func (SetErrors) action()     {}
func (ClearErrors) action()   {}
func (NextStep) action()      {}
func (PrevStep) action()      {}
func (GoToStep) action()      {}
func (SetSubmitting) action() {}
func (Reset) action()         {}
func (LoadData) action()      {}
