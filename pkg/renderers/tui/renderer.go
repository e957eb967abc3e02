package tui

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/goliatone/go-formflow/pkg/engine"
	"github.com/goliatone/go-formflow/pkg/model"
)

// Renderer walks a user through an engine's steps in the terminal and
// serializes the collected data once the form is submitted.
type Renderer struct {
	driver            PromptDriver
	outputFormat      OutputFormat
	submit            engine.SubmitFunc
	submitTransformer SubmitTransformer
	allowBack         bool
	resolveFile       FileResolver
	pageSize          int
	theme             Theme
	logger            *zap.Logger
}

// New constructs a TUI renderer with defaults (survey driver, JSON output,
// back navigation enabled).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
		allowBack:    true,
		resolveFile:  StatFile,
		logger:       zap.NewNop(),
	}

	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	if !r.outputFormat.Valid() {
		return nil, fmt.Errorf("tui: unsupported output format %q", r.outputFormat)
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(nil, r.theme.PromptPrefix)
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

type navAction int

const (
	navNext navAction = iota
	navBack
	navGoTo
)

// Render prompts every visible step of e until the form is submitted and
// returns the serialized data.
func (r *Renderer) Render(ctx context.Context, e *engine.Engine) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if e == nil {
		return nil, errors.New("tui: engine is nil")
	}
	if len(e.VisibleSteps()) == 0 {
		return nil, ErrNoSteps
	}

	form := e.Form()
	if form.Title != "" {
		r.info(ctx, form.Title)
	}
	if form.Description != "" {
		r.info(ctx, form.Description)
	}

	// only limits prompting to fields that failed validation; nil means all
	var only map[string]bool
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		visible := e.VisibleSteps()
		if len(visible) == 0 {
			return nil, ErrNoSteps
		}
		step, ok := e.CurrentStep()
		if !ok {
			// answers hid the step under the cursor; fall back to the last one
			if err := e.GoToStep(len(visible) - 1); err != nil {
				return nil, err
			}
			continue
		}

		state := e.State()
		if only == nil {
			r.info(ctx, fmt.Sprintf("Step %d of %d: %s", state.CurrentStep+1, len(visible), step.Title))
			if step.Description != "" {
				r.info(ctx, step.Description)
			}
		}

		if err := r.promptStep(ctx, e, step, only); err != nil {
			return nil, err
		}

		action, target, err := r.navigate(ctx, e)
		if err != nil {
			return nil, err
		}

		switch action {
		case navBack:
			e.PrevStep()
			only = nil
		case navGoTo:
			if err := e.GoToStep(target); err != nil {
				r.errorf(ctx, "%v", err)
			}
			only = nil
		case navNext:
			out, done, failed, err := r.advance(ctx, e)
			if err != nil {
				return nil, err
			}
			if done {
				return out, nil
			}
			only = failed
		}
	}
}

// advance moves forward or submits. failed lists the fields that blocked the
// transition; it is nil when the step changed.
func (r *Renderer) advance(ctx context.Context, e *engine.Engine) (out []byte, done bool, failed map[string]bool, err error) {
	for {
		res, submitErr := e.Advance(ctx, r.submit)
		if submitErr == nil {
			if !res.Valid {
				r.showErrors(ctx, e, res.Errors)
				return nil, false, errorFields(res.Errors), nil
			}
			if !res.Submitted {
				return nil, false, nil, nil
			}
			r.logger.Info("form submitted from terminal", zap.String("form", e.Form().ID))
			payload, outErr := r.output(e)
			return payload, outErr == nil, nil, outErr
		}

		r.errorf(ctx, "Submission failed: %v", submitErr)
		retry, err := r.driver.Confirm(ctx, ConfirmConfig{Message: "Retry submission?", Default: true})
		if err != nil {
			return nil, false, nil, err
		}
		if !retry {
			return nil, false, nil, fmt.Errorf("%w: %w", ErrSubmitFailed, submitErr)
		}
	}
}

// navigate shows the step menu and returns the chosen action.
func (r *Renderer) navigate(ctx context.Context, e *engine.Engine) (navAction, int, error) {
	submitText, nextText, backText := e.Form().Captions()
	state := e.State()

	forward := nextText
	if e.IsLastStep() {
		forward = submitText
	}
	labels := []string{forward}
	actions := []navAction{navNext}

	if r.allowBack && state.CurrentStep > 0 {
		labels = append(labels, backText)
		actions = append(actions, navBack)
	}

	visible := e.VisibleSteps()
	var jumps []int
	for _, idx := range state.VisitedSteps.Sorted() {
		if idx != state.CurrentStep && idx < len(visible) {
			jumps = append(jumps, idx)
		}
	}
	if r.allowBack && len(jumps) > 0 {
		labels = append(labels, "Go to step...")
		actions = append(actions, navGoTo)
	}

	if len(labels) == 1 {
		return navNext, 0, nil
	}

	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      "Continue",
		Options:      labels,
		DefaultIndex: 0,
		PageSize:     r.pageSize,
	})
	if err != nil {
		return navNext, 0, err
	}
	if idx < 0 || idx >= len(actions) {
		return navNext, 0, nil
	}
	if actions[idx] != navGoTo {
		return actions[idx], 0, nil
	}

	options := make([]string, len(jumps))
	for i, stepIdx := range jumps {
		options[i] = fmt.Sprintf("%d. %s", stepIdx+1, visible[stepIdx].Title)
	}
	choice, err := r.driver.Select(ctx, SelectConfig{
		Message:      "Go to step",
		Options:      options,
		DefaultIndex: -1,
		PageSize:     r.pageSize,
	})
	if err != nil {
		return navNext, 0, err
	}
	if choice < 0 || choice >= len(jumps) {
		return navGoTo, state.CurrentStep, nil
	}
	return navGoTo, jumps[choice], nil
}

func (r *Renderer) showErrors(ctx context.Context, e *engine.Engine, errs model.FormErrors) {
	compact := errs.Compact()
	names := make([]string, 0, len(compact))
	for name := range compact {
		names = append(names, name)
	}
	order := fieldOrder(e.Form())
	sort.SliceStable(names, func(i, j int) bool {
		return order[names[i]] < order[names[j]]
	})
	for _, name := range names {
		r.errorf(ctx, "%s", compact[name])
	}
}

func (r *Renderer) info(ctx context.Context, msg string) {
	_ = r.driver.Info(ctx, r.theme.InfoPrefix+msg)
}

func (r *Renderer) errorf(ctx context.Context, format string, args ...any) {
	_ = r.driver.Info(ctx, r.theme.ErrorPrefix+fmt.Sprintf(format, args...))
}

func errorFields(errs model.FormErrors) map[string]bool {
	out := make(map[string]bool, len(errs))
	for name, msg := range errs {
		if msg != "" {
			out[name] = true
		}
	}
	return out
}

func fieldOrder(form model.Form) map[string]int {
	order := make(map[string]int)
	for _, step := range form.Steps {
		for _, field := range step.Fields {
			if _, ok := order[field.Name]; !ok {
				order[field.Name] = len(order)
			}
		}
	}
	return order
}
