package visibility_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/visibility"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name     string
		actual   any
		expected any
		op       model.Operator
		want     bool
	}{
		{name: "equals strings", actual: "yes", expected: "yes", want: true},
		{name: "equals explicit", actual: "yes", expected: "no", op: model.OperatorEquals, want: false},
		{name: "equals bools", actual: true, expected: true, want: true},
		{name: "bool vs string", actual: true, expected: "true", want: false},
		{name: "numbers across kinds", actual: float64(3), expected: 3, want: true},
		{name: "number vs string", actual: float64(3), expected: "3", want: false},
		{name: "nil vs nil", actual: nil, expected: nil, want: true},
		{name: "nil vs value", actual: nil, expected: false, want: false},
		{name: "lists never equal", actual: []string{"a"}, expected: []string{"a"}, want: false},
		{name: "not equals", actual: "a", expected: "b", op: model.OperatorNotEquals, want: true},
		{name: "not equals same", actual: "a", expected: "a", op: model.OperatorNotEquals, want: false},
		{name: "not equals missing", actual: nil, expected: "a", op: model.OperatorNotEquals, want: true},
		{name: "includes string list", actual: []string{"dog", "cat"}, expected: "cat", op: model.OperatorIncludes, want: true},
		{name: "includes missing", actual: []string{"dog"}, expected: "cat", op: model.OperatorIncludes, want: false},
		{name: "includes any list", actual: []any{float64(1), "two"}, expected: 1, op: model.OperatorIncludes, want: true},
		{name: "includes int slice", actual: []int{1, 2}, expected: float64(2), op: model.OperatorIncludes, want: true},
		{name: "includes number in normalized list", actual: []string{"1", "2"}, expected: 1, op: model.OperatorIncludes, want: true},
		{name: "includes float in normalized list", actual: []string{"2.5"}, expected: float64(2.5), op: model.OperatorIncludes, want: true},
		{name: "includes bool in normalized list", actual: []string{"true"}, expected: true, op: model.OperatorIncludes, want: true},
		{name: "includes number missing from list", actual: []string{"10"}, expected: 1, op: model.OperatorIncludes, want: false},
		{name: "includes non list", actual: "cat", expected: "cat", op: model.OperatorIncludes, want: false},
		{name: "includes nil", actual: nil, expected: "cat", op: model.OperatorIncludes, want: false},
		{name: "unknown operator falls back to equals", actual: "x", expected: "x", op: model.Operator("greater"), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := visibility.Evaluate(tt.actual, tt.expected, tt.op); got != tt.want {
				t.Fatalf("Evaluate(%#v, %#v, %q) = %v, want %v", tt.actual, tt.expected, tt.op, got, tt.want)
			}
		})
	}
}

func TestVisible_NilRuleAndMissingDependency(t *testing.T) {
	if !visibility.Visible(nil, nil) {
		t.Fatalf("nil rule should be visible")
	}
	rule := &model.ConditionalRule{DependsOn: "hasPet", Value: true}
	if visibility.Visible(rule, model.FormData{}) {
		t.Fatalf("missing dependency should not equal true")
	}
	if !visibility.Visible(rule, model.FormData{"hasPet": true}) {
		t.Fatalf("expected visible when dependency matches")
	}
}

func TestVisibleSteps_PreservesOrder(t *testing.T) {
	steps := []model.Step{
		{ID: "account"},
		{ID: "pet", Conditional: &model.ConditionalRule{DependsOn: "hasPet", Value: true}},
		{ID: "billing", Conditional: &model.ConditionalRule{DependsOn: "plan", Value: "free", Operator: model.OperatorNotEquals}},
		{ID: "review"},
	}

	ids := func(steps []model.Step) []string {
		out := make([]string, 0, len(steps))
		for _, step := range steps {
			out = append(out, step.ID)
		}
		return out
	}

	got := ids(visibility.VisibleSteps(steps, model.FormData{"hasPet": false, "plan": "free"}, nil))
	if diff := cmp.Diff([]string{"account", "review"}, got); diff != "" {
		t.Fatalf("visible steps mismatch (-want +got):\n%s", diff)
	}

	got = ids(visibility.VisibleSteps(steps, model.FormData{"hasPet": true, "plan": "pro"}, nil))
	if diff := cmp.Diff([]string{"account", "pet", "billing", "review"}, got); diff != "" {
		t.Fatalf("visible steps mismatch (-want +got):\n%s", diff)
	}
}

func TestVisibleFields_CustomEvaluator(t *testing.T) {
	step := model.Step{Fields: []model.Field{
		{Name: "a"},
		{Name: "b", Conditional: &model.ConditionalRule{DependsOn: "x", Value: "y"}},
	}}
	hideAll := visibility.EvaluatorFunc(func(rule *model.ConditionalRule, _ model.FormData) bool {
		return rule == nil
	})
	fields := visibility.VisibleFields(step, model.FormData{"x": "y"}, hideAll)
	if len(fields) != 1 || fields[0].Name != "a" {
		t.Fatalf("expected only unconditional field, got %#v", fields)
	}
}
