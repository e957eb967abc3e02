package engine

import "github.com/goliatone/go-formflow/pkg/model"

// Reduce applies action to state and returns the next state. The input state
// is never mutated.
func Reduce(state FormState, action Action) FormState {
	next := state.Clone()
	if next.Data == nil {
		next.Data = model.FormData{}
	}
	if next.Errors == nil {
		next.Errors = model.FormErrors{}
	}
	if next.VisitedSteps == nil {
		next.VisitedSteps = NewStepSet()
	}

	switch act := action.(type) {
	case SetField:
		next.Data[act.Field] = model.Normalize(act.Value)
		next.Errors[act.Field] = ""
	case SetErrors:
		next.Errors = act.Errors.Clone()
	case ClearErrors:
		next.Errors = model.FormErrors{}
	case NextStep:
		next.CurrentStep++
		next.VisitedSteps.Add(next.CurrentStep)
	case PrevStep:
		next.CurrentStep = max(0, next.CurrentStep-1)
	case GoToStep:
		next.CurrentStep = act.Step
		next.VisitedSteps.Add(act.Step)
	case SetSubmitting:
		next.IsSubmitting = act.Submitting
	case Reset:
		return InitialState()
	case LoadData:
		next.Data = normalizeData(act.Data)
	}
	return next
}

func normalizeData(data model.FormData) model.FormData {
	out := make(model.FormData, len(data))
	for key, value := range data {
		out[key] = model.Normalize(value)
	}
	return out.Clone()
}
