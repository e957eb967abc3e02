package engine_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formflow/pkg/engine"
	"github.com/goliatone/go-formflow/pkg/model"
)

func TestReduce_DoesNotMutateInput(t *testing.T) {
	state := engine.InitialState()
	state.Data["name"] = "Ada"
	before := state.Clone()

	_ = engine.Reduce(state, engine.SetField{Field: "name", Value: "Grace"})
	_ = engine.Reduce(state, engine.NextStep{})
	_ = engine.Reduce(state, engine.SetErrors{Errors: model.FormErrors{"name": "bad"}})

	if diff := cmp.Diff(before, state); diff != "" {
		t.Fatalf("input state mutated (-before +after):\n%s", diff)
	}
}

func TestReduce_SetFieldClearsError(t *testing.T) {
	state := engine.InitialState()
	state = engine.Reduce(state, engine.SetErrors{Errors: model.FormErrors{"name": "Name is required", "email": "bad"}})
	state = engine.Reduce(state, engine.SetField{Field: "name", Value: "Ada"})

	if got := state.Errors["name"]; got != "" {
		t.Fatalf("expected name error cleared, got %q", got)
	}
	if got := state.Errors["email"]; got != "bad" {
		t.Fatalf("other errors must survive, got %q", got)
	}
	if got := state.Data["name"]; got != "Ada" {
		t.Fatalf("expected data stored, got %#v", got)
	}
}

func TestReduce_SetFieldNormalisesValues(t *testing.T) {
	state := engine.Reduce(engine.InitialState(), engine.SetField{Field: "age", Value: 42})
	if got, ok := state.Data["age"].(float64); !ok || got != 42 {
		t.Fatalf("expected float64 42, got %#v", state.Data["age"])
	}
}

func TestReduce_Navigation(t *testing.T) {
	state := engine.InitialState()

	state = engine.Reduce(state, engine.PrevStep{})
	if state.CurrentStep != 0 {
		t.Fatalf("PrevStep must floor at 0, got %d", state.CurrentStep)
	}

	state = engine.Reduce(state, engine.NextStep{})
	state = engine.Reduce(state, engine.NextStep{})
	if state.CurrentStep != 2 {
		t.Fatalf("expected step 2, got %d", state.CurrentStep)
	}
	if diff := cmp.Diff([]int{0, 1, 2}, state.VisitedSteps.Sorted()); diff != "" {
		t.Fatalf("visited mismatch (-want +got):\n%s", diff)
	}

	state = engine.Reduce(state, engine.PrevStep{})
	if state.CurrentStep != 1 || !state.VisitedSteps.Has(2) {
		t.Fatalf("PrevStep must keep visited steps, got %#v", state)
	}

	once := engine.Reduce(state, engine.GoToStep{Step: 5})
	twice := engine.Reduce(once, engine.GoToStep{Step: 5})
	if diff := cmp.Diff(once, twice); diff != "" {
		t.Fatalf("GoToStep should be idempotent (-once +twice):\n%s", diff)
	}
	if once.CurrentStep != 5 || !once.VisitedSteps.Has(5) {
		t.Fatalf("raw GoToStep is unchecked, got %#v", once)
	}
}

func TestReduce_ResetAndLoadData(t *testing.T) {
	state := engine.InitialState()
	state = engine.Reduce(state, engine.SetField{Field: "name", Value: "Ada"})
	state = engine.Reduce(state, engine.NextStep{})
	state = engine.Reduce(state, engine.SetSubmitting{Submitting: true})

	loaded := engine.Reduce(state, engine.LoadData{Data: model.FormData{"email": "a@b.com"}})
	if diff := cmp.Diff(model.FormData{"email": "a@b.com"}, loaded.Data); diff != "" {
		t.Fatalf("LoadData should replace data (-want +got):\n%s", diff)
	}
	if loaded.CurrentStep != 1 || !loaded.IsSubmitting {
		t.Fatalf("LoadData must leave navigation untouched, got %#v", loaded)
	}

	reset := engine.Reduce(loaded, engine.Reset{})
	if diff := cmp.Diff(engine.InitialState(), reset); diff != "" {
		t.Fatalf("Reset mismatch (-want +got):\n%s", diff)
	}
}

func TestStepSet_JSON(t *testing.T) {
	set := engine.NewStepSet(3, 0, 1)
	raw, err := set.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != "[0,1,3]" {
		t.Fatalf("expected sorted array, got %s", raw)
	}

	var decoded engine.StepSet
	if err := decoded.UnmarshalJSON(raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if diff := cmp.Diff(set, decoded); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}
