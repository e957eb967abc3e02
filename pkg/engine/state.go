package engine

import (
	"encoding/json"
	"sort"

	"github.com/goliatone/go-formflow/pkg/model"
)

// StepSet records the visible-step indices a user has reached.
type StepSet map[int]struct{}

// NewStepSet returns a set holding indices.
func NewStepSet(indices ...int) StepSet {
	set := make(StepSet, len(indices))
	for _, idx := range indices {
		set[idx] = struct{}{}
	}
	return set
}

// Add records idx.
func (s StepSet) Add(idx int) {
	s[idx] = struct{}{}
}

// Has reports whether idx was recorded.
func (s StepSet) Has(idx int) bool {
	_, ok := s[idx]
	return ok
}

// Sorted returns the recorded indices in ascending order.
func (s StepSet) Sorted() []int {
	out := make([]int, 0, len(s))
	for idx := range s {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}

// Clone returns a copy of s.
func (s StepSet) Clone() StepSet {
	out := make(StepSet, len(s))
	for idx := range s {
		out[idx] = struct{}{}
	}
	return out
}

// MarshalJSON encodes the set as a sorted array.
func (s StepSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

// UnmarshalJSON decodes an array of indices.
func (s *StepSet) UnmarshalJSON(raw []byte) error {
	var indices []int
	if err := json.Unmarshal(raw, &indices); err != nil {
		return err
	}
	*s = NewStepSet(indices...)
	return nil
}

// FormState is the complete runtime state of a form. CurrentStep indexes the
// visible steps, not the declared ones.
type FormState struct {
	CurrentStep  int              `json:"currentStep"`
	Data         model.FormData   `json:"data"`
	Errors       model.FormErrors `json:"errors"`
	IsSubmitting bool             `json:"isSubmitting"`
	VisitedSteps StepSet          `json:"visitedSteps"`
}

// InitialState is the state of a freshly mounted or reset form.
func InitialState() FormState {
	return FormState{
		CurrentStep:  0,
		Data:         model.FormData{},
		Errors:       model.FormErrors{},
		VisitedSteps: NewStepSet(0),
	}
}

// Clone returns a deep copy of s.
func (s FormState) Clone() FormState {
	out := s
	if s.Data != nil {
		out.Data = s.Data.Clone()
	}
	if s.Errors != nil {
		out.Errors = s.Errors.Clone()
	}
	if s.VisitedSteps != nil {
		out.VisitedSteps = s.VisitedSteps.Clone()
	}
	return out
}
