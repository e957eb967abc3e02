package engine

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/validation"
	"github.com/goliatone/go-formflow/pkg/visibility"
)

// Persistence stores form data between sessions. Implementations swallow
// their own storage errors.
type Persistence interface {
	Load() (model.FormData, bool)
	Save(model.FormData)
	Clear()
}

// StepValidator validates the fields of one step.
type StepValidator interface {
	ValidateStep(step model.Step, data model.FormData) validation.Result
}

// SubmitFunc receives a copy of the collected data on submission.
type SubmitFunc func(ctx context.Context, data model.FormData) error

// StepChangeFunc is notified with the new visible-step index after it changes.
type StepChangeFunc func(step int, data model.FormData)

// StepResult reports the outcome of a validated transition.
type StepResult struct {
	Valid  bool             `json:"valid"`
	Errors model.FormErrors `json:"errors,omitempty"`
	Step   int              `json:"step"`
}

// AdvanceResult reports whether Advance moved forward or submitted.
type AdvanceResult struct {
	StepResult
	Submitted bool `json:"submitted"`
}

// Option configures an Engine.
type Option func(*Engine)

// WithPersistence loads data from p on construction and saves every change.
func WithPersistence(p Persistence) Option {
	return func(e *Engine) {
		e.persistence = p
	}
}

// WithLogger sets the logger used for transitions and failures.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithStepChangeHook registers fn to run whenever the current step changes.
func WithStepChangeHook(fn StepChangeFunc) Option {
	return func(e *Engine) {
		e.onStepChange = fn
	}
}

// WithSubmitValidation validates the last step before Advance submits.
func WithSubmitValidation() Option {
	return func(e *Engine) {
		e.submitValidation = true
	}
}

// WithVisitedOnlyNavigation restricts GoToStep to steps already reached.
func WithVisitedOnlyNavigation() Option {
	return func(e *Engine) {
		e.visitedOnly = true
	}
}

// WithVisibility overrides the conditional evaluator.
func WithVisibility(eval visibility.Evaluator) Option {
	return func(e *Engine) {
		if eval != nil {
			e.visibility = eval
		}
	}
}

// WithValidator overrides the step validator.
func WithValidator(v StepValidator) Option {
	return func(e *Engine) {
		if v != nil {
			e.validator = v
		}
	}
}

// Engine drives a form through its steps. It is safe for concurrent use;
// every transition is applied synchronously under a lock.
type Engine struct {
	form             model.Form
	validator        StepValidator
	visibility       visibility.Evaluator
	persistence      Persistence
	logger           *zap.Logger
	onStepChange     StepChangeFunc
	submitValidation bool
	visitedOnly      bool

	mu    sync.Mutex
	state FormState
}

// New constructs an Engine for form. When persistence is configured the
// stored record is loaded into the initial state.
func New(form model.Form, opts ...Option) *Engine {
	e := &Engine{
		form:       form,
		visibility: visibility.Default,
		logger:     zap.NewNop(),
		state:      InitialState(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(e)
	}
	if e.validator == nil {
		e.validator = validation.New(validation.WithVisibility(e.visibility))
	}
	e.logger = e.logger.With(zap.String("form", form.ID))

	if e.persistence != nil {
		if data, ok := e.persistence.Load(); ok {
			e.state = Reduce(e.state, LoadData{Data: data})
			e.logger.Debug("restored persisted data", zap.Int("fields", len(data)))
		}
	}
	return e
}

// Form returns the definition the engine was built with.
func (e *Engine) Form() model.Form {
	return e.form
}

// State returns a deep copy of the current state.
func (e *Engine) State() FormState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

// VisibleSteps returns the steps whose conditionals pass for the current data.
func (e *Engine) VisibleSteps() []model.Step {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.visibleStepsLocked()
}

// CurrentStep returns the visible step at the current index.
func (e *Engine) CurrentStep() (model.Step, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.currentStepLocked()
}

// VisibleFields returns the visible fields of the current step.
func (e *Engine) VisibleFields() []model.Field {
	e.mu.Lock()
	defer e.mu.Unlock()
	step, ok := e.currentStepLocked()
	if !ok {
		return nil
	}
	return visibility.VisibleFields(step, e.state.Data, e.visibility)
}

// IsLastStep reports whether the current index is the last visible step.
func (e *Engine) IsLastStep() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.isLastStepLocked()
}

// SetField stores value under name and clears its error.
func (e *Engine) SetField(name string, value any) {
	e.mu.Lock()
	e.dispatch(SetField{Field: name, Value: value})
	e.saveLocked()
	e.mu.Unlock()
}

// LoadData replaces the stored data.
func (e *Engine) LoadData(data model.FormData) {
	e.mu.Lock()
	e.dispatch(LoadData{Data: data})
	e.saveLocked()
	e.mu.Unlock()
}

// NextStep validates the current visible step and advances only when it
// passes. The resulting errors replace the previous ones either way.
func (e *Engine) NextStep() StepResult {
	e.mu.Lock()
	before := e.state.CurrentStep
	result := e.validateCurrentLocked()
	e.dispatch(SetErrors{Errors: result.Errors})
	if result.Valid {
		e.dispatch(NextStep{})
	}
	result.Step = e.state.CurrentStep
	hook := e.stepChangeLocked(before)
	e.mu.Unlock()

	if result.Valid {
		e.logger.Debug("advanced", zap.Int("step", result.Step))
	} else {
		e.logger.Debug("step blocked", zap.Int("step", result.Step), zap.Int("errors", len(result.Errors)))
	}
	hook()
	return result
}

// PrevStep moves back one visible step without validating.
func (e *Engine) PrevStep() {
	e.mu.Lock()
	before := e.state.CurrentStep
	e.dispatch(PrevStep{})
	hook := e.stepChangeLocked(before)
	e.mu.Unlock()
	hook()
}

// GoToStep jumps to the visible step at idx.
func (e *Engine) GoToStep(idx int) error {
	e.mu.Lock()
	visible := e.visibleStepsLocked()
	if idx < 0 || idx >= len(visible) {
		e.mu.Unlock()
		return fmt.Errorf("%w: %d of %d", ErrStepOutOfRange, idx, len(visible))
	}
	if e.visitedOnly && !e.state.VisitedSteps.Has(idx) {
		e.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrStepNotVisited, idx)
	}
	before := e.state.CurrentStep
	e.dispatch(GoToStep{Step: idx})
	hook := e.stepChangeLocked(before)
	e.mu.Unlock()
	hook()
	return nil
}

// SetSubmitting toggles the submitting flag.
func (e *Engine) SetSubmitting(submitting bool) {
	e.mu.Lock()
	e.dispatch(SetSubmitting{Submitting: submitting})
	e.mu.Unlock()
}

// Reset restores the initial state and clears the persisted record.
func (e *Engine) Reset() {
	e.mu.Lock()
	before := e.state.CurrentStep
	e.dispatch(Reset{})
	if e.persistence != nil {
		e.persistence.Clear()
	}
	hook := e.stepChangeLocked(before)
	e.mu.Unlock()
	e.logger.Debug("reset")
	hook()
}

// Submit hands a copy of the data to fn. The submitting flag is set for the
// duration of the call and cleared whatever the outcome; the callback error
// is logged and returned. fn runs without holding the engine lock.
func (e *Engine) Submit(ctx context.Context, fn SubmitFunc) error {
	e.mu.Lock()
	if e.state.IsSubmitting {
		e.mu.Unlock()
		return ErrSubmitInProgress
	}
	e.dispatch(SetSubmitting{Submitting: true})
	data := e.state.Data.Clone()
	e.mu.Unlock()

	var err error
	if fn != nil {
		err = fn(ctx, data)
	}

	e.mu.Lock()
	e.dispatch(SetSubmitting{Submitting: false})
	e.mu.Unlock()

	if err != nil {
		e.logger.Error("form submission failed", zap.Error(err))
		return err
	}
	e.logger.Info("form submitted", zap.Int("fields", len(data)))
	return nil
}

// Advance submits on the last visible step and moves forward otherwise.
func (e *Engine) Advance(ctx context.Context, fn SubmitFunc) (AdvanceResult, error) {
	e.mu.Lock()
	last := e.isLastStepLocked()
	if last && e.submitValidation {
		result := e.validateCurrentLocked()
		e.dispatch(SetErrors{Errors: result.Errors})
		result.Step = e.state.CurrentStep
		if !result.Valid {
			e.mu.Unlock()
			return AdvanceResult{StepResult: result}, nil
		}
	}
	e.mu.Unlock()

	if !last {
		return AdvanceResult{StepResult: e.NextStep()}, nil
	}

	current := e.State().CurrentStep
	if err := e.Submit(ctx, fn); err != nil {
		return AdvanceResult{StepResult: StepResult{Valid: true, Step: current}}, err
	}
	return AdvanceResult{StepResult: StepResult{Valid: true, Step: current}, Submitted: true}, nil
}

func (e *Engine) dispatch(action Action) {
	e.state = Reduce(e.state, action)
}

func (e *Engine) visibleStepsLocked() []model.Step {
	return visibility.VisibleSteps(e.form.Steps, e.state.Data, e.visibility)
}

func (e *Engine) currentStepLocked() (model.Step, bool) {
	visible := e.visibleStepsLocked()
	idx := e.state.CurrentStep
	if idx < 0 || idx >= len(visible) {
		return model.Step{}, false
	}
	return visible[idx], true
}

func (e *Engine) isLastStepLocked() bool {
	return e.state.CurrentStep == len(e.visibleStepsLocked())-1
}

// validateCurrentLocked validates the visible step at the current index. An
// index with no visible step passes.
func (e *Engine) validateCurrentLocked() StepResult {
	step, ok := e.currentStepLocked()
	if !ok {
		return StepResult{Valid: true, Errors: model.FormErrors{}}
	}
	result := e.validator.ValidateStep(step, e.state.Data)
	return StepResult{Valid: result.Valid, Errors: result.Errors}
}

func (e *Engine) saveLocked() {
	if e.persistence == nil || len(e.state.Data) == 0 {
		return
	}
	e.persistence.Save(e.state.Data.Clone())
}

// stepChangeLocked returns the hook invocation to run once the lock is
// released, or a no-op when the index did not change.
func (e *Engine) stepChangeLocked(before int) func() {
	after := e.state.CurrentStep
	if e.onStepChange == nil || after == before {
		return func() {}
	}
	fn := e.onStepChange
	data := e.state.Data.Clone()
	return func() { fn(after, data) }
}
