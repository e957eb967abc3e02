package httpapi

import (
	"github.com/goliatone/go-formflow/pkg/engine"
	"github.com/goliatone/go-formflow/pkg/model"
)

type stepSummary struct {
	Index int    `json:"index"`
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Snapshot is the rendering contract returned by every session endpoint.
type Snapshot struct {
	SessionID    string           `json:"sessionId"`
	FormID       string           `json:"formId"`
	CurrentStep  int              `json:"currentStep"`
	Data         model.FormData   `json:"data"`
	Errors       model.FormErrors `json:"errors"`
	IsSubmitting bool             `json:"isSubmitting"`
	VisitedSteps engine.StepSet   `json:"visitedSteps"`
	VisibleSteps []stepSummary    `json:"visibleSteps"`
	IsLastStep   bool             `json:"isLastStep"`
	Step         *model.Step      `json:"step,omitempty"`
}

func snapshot(sess *session) Snapshot {
	state := sess.engine.State()
	visible := sess.engine.VisibleSteps()

	steps := make([]stepSummary, len(visible))
	for i, step := range visible {
		steps[i] = stepSummary{Index: i, ID: step.ID, Title: step.Title}
	}

	out := Snapshot{
		SessionID:    sess.id,
		FormID:       sess.formID,
		CurrentStep:  state.CurrentStep,
		Data:         state.Data,
		Errors:       state.Errors.Compact(),
		IsSubmitting: state.IsSubmitting,
		VisitedSteps: state.VisitedSteps,
		VisibleSteps: steps,
		IsLastStep:   state.CurrentStep == len(visible)-1,
	}
	if state.CurrentStep >= 0 && state.CurrentStep < len(visible) {
		step := visible[state.CurrentStep]
		step.Fields = sess.engine.VisibleFields()
		out.Step = &step
	}
	return out
}
