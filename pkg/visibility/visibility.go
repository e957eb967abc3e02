package visibility

import (
	"reflect"

	"github.com/goliatone/go-formflow/pkg/model"
)

// Evaluator determines whether a conditional rule passes against the current
// form data. Fields and steps without a rule are always visible.
type Evaluator interface {
	Visible(rule *model.ConditionalRule, data model.FormData) bool
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(rule *model.ConditionalRule, data model.FormData) bool

// Visible delegates to the underlying function.
func (fn EvaluatorFunc) Visible(rule *model.ConditionalRule, data model.FormData) bool {
	return fn(rule, data)
}

// Default evaluates rules with Evaluate.
var Default Evaluator = EvaluatorFunc(Visible)

// Visible reports whether rule passes against data. A nil rule passes; a
// missing dependency is compared as nil.
func Visible(rule *model.ConditionalRule, data model.FormData) bool {
	if rule == nil {
		return true
	}
	return Evaluate(data[rule.DependsOn], rule.Value, rule.Operator)
}

// Evaluate compares actual against expected with op. Unknown operators fall
// back to equals.
func Evaluate(actual, expected any, op model.Operator) bool {
	switch op {
	case model.OperatorNotEquals:
		return !strictEqual(actual, expected)
	case model.OperatorIncludes:
		return includes(actual, expected)
	default:
		return strictEqual(actual, expected)
	}
}

// VisibleSteps filters steps whose rule passes, preserving order.
func VisibleSteps(steps []model.Step, data model.FormData, eval Evaluator) []model.Step {
	if eval == nil {
		eval = Default
	}
	out := make([]model.Step, 0, len(steps))
	for _, step := range steps {
		if eval.Visible(step.Conditional, data) {
			out = append(out, step)
		}
	}
	return out
}

// VisibleFields filters the step's fields whose rule passes, preserving order.
func VisibleFields(step model.Step, data model.FormData, eval Evaluator) []model.Field {
	if eval == nil {
		eval = Default
	}
	out := make([]model.Field, 0, len(step.Fields))
	for _, field := range step.Fields {
		if eval.Visible(field.Conditional, data) {
			out = append(out, field)
		}
	}
	return out
}

// strictEqual mirrors identity comparison on scalar values: numbers compare
// numerically across Go kinds, lists and maps never compare equal.
func strictEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if an, ok := number(a); ok {
		bn, ok := number(b)
		return ok && an == bn
	}
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	switch ta.Kind() {
	case reflect.Slice, reflect.Map, reflect.Func:
		return false
	}
	return a == b
}

func includes(list, expected any) bool {
	switch typed := list.(type) {
	case []string:
		want, ok := listElement(expected)
		if !ok {
			return false
		}
		for _, item := range typed {
			if item == want {
				return true
			}
		}
		return false
	case []any:
		for _, item := range typed {
			if strictEqual(item, expected) {
				return true
			}
		}
		return false
	}

	rv := reflect.ValueOf(list)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return false
	}
	for i := 0; i < rv.Len(); i++ {
		if strictEqual(rv.Index(i).Interface(), expected) {
			return true
		}
	}
	return false
}

// listElement renders a scalar operand the way normalized data stores list
// elements, so numeric and boolean operands match string lists.
func listElement(v any) (string, bool) {
	if s, ok := v.(string); ok {
		return s, true
	}
	if n, ok := number(v); ok {
		return model.Stringify(n), true
	}
	if b, ok := v.(bool); ok {
		return model.Stringify(b), true
	}
	return "", false
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
