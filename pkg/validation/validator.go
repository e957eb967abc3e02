package validation

import (
	"regexp"
	"sync"

	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/visibility"
)

// emailPattern matches the loose local@domain.tld shape accepted by the form.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Result is the outcome of validating one step. Errors holds every field that
// failed; Valid is true iff Errors is empty.
type Result struct {
	Errors model.FormErrors `json:"errors"`
	Valid  bool             `json:"valid"`
}

// Option configures a Validator.
type Option func(*Validator)

// WithCustomValidator registers fn under name so ValidationRule.CustomRef can
// refer to it from serialised definitions.
func WithCustomValidator(name string, fn model.CustomFunc) Option {
	return func(v *Validator) {
		if name == "" || fn == nil {
			return
		}
		v.custom[name] = fn
	}
}

// WithDateFormatter overrides how minDate/maxDate bounds are printed.
func WithDateFormatter(fn DateFormatter) Option {
	return func(v *Validator) {
		if fn != nil {
			v.formatDate = fn
		}
	}
}

// WithEmailPattern overrides the email shape check.
func WithEmailPattern(re *regexp.Regexp) Option {
	return func(v *Validator) {
		if re != nil {
			v.email = re
		}
	}
}

// WithVisibility overrides the evaluator used to skip hidden fields.
func WithVisibility(eval visibility.Evaluator) Option {
	return func(v *Validator) {
		if eval != nil {
			v.visibility = eval
		}
	}
}

// Validator checks field values against their rules. It is safe for
// concurrent use.
type Validator struct {
	custom     map[string]model.CustomFunc
	formatDate DateFormatter
	email      *regexp.Regexp
	visibility visibility.Evaluator

	mu       sync.Mutex
	patterns map[string]*regexp.Regexp
}

// New constructs a Validator applying opts over the defaults.
func New(opts ...Option) *Validator {
	v := &Validator{
		custom:     make(map[string]model.CustomFunc),
		formatDate: FormatDate,
		email:      emailPattern,
		visibility: visibility.Default,
		patterns:   make(map[string]*regexp.Regexp),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(v)
	}
	return v
}

var defaultValidator = New()

// ValidateStep validates step with the default validator.
func ValidateStep(step model.Step, data model.FormData) Result {
	return defaultValidator.ValidateStep(step, data)
}

// ValidateStep checks every visible field of step against data. Fields hidden
// by their conditional never produce errors.
func (v *Validator) ValidateStep(step model.Step, data model.FormData) Result {
	errs := make(model.FormErrors)
	for _, field := range step.Fields {
		if msg := v.ValidateField(field, data); msg != "" {
			errs[field.Name] = msg
		}
	}
	return Result{Errors: errs, Valid: len(errs) == 0}
}

// ValidateField returns the message for field, or "" when it passes or is
// hidden. When several constraints fail the last one evaluated wins.
func (v *Validator) ValidateField(field model.Field, data model.FormData) string {
	if !v.visibility.Visible(field.Conditional, data) {
		return ""
	}

	value := data[field.Name]
	label := field.DisplayLabel()

	if model.IsEmpty(value) {
		if field.Required {
			return requiredMessage(label)
		}
		return ""
	}

	rules := field.Validation
	if rules == nil {
		rules = &model.ValidationRule{}
	}

	msg := v.checkType(field, label, value, rules)

	if rules.Pattern != "" && !v.matches(rules.Pattern, model.Stringify(value)) {
		msg = patternMessage(label)
	}
	if n, ok := length(value); ok {
		if rules.MinLength != nil && n < *rules.MinLength {
			msg = minLengthMessage(label, *rules.MinLength)
		}
		if rules.MaxLength != nil && n > *rules.MaxLength {
			msg = maxLengthMessage(label, *rules.MaxLength)
		}
	}
	if n, ok := toNumber(value); ok {
		if rules.Min != nil && n < *rules.Min {
			msg = minMessage(label, *rules.Min)
		}
		if rules.Max != nil && n > *rules.Max {
			msg = maxMessage(label, *rules.Max)
		}
	}
	if custom := v.customFor(rules); custom != nil {
		if customMsg := custom(value); customMsg != "" {
			msg = customMsg
		}
	}

	return msg
}

// checkType applies the constraints specific to the field kind.
func (v *Validator) checkType(field model.Field, label string, value any, rules *model.ValidationRule) string {
	//exhaustive:enforce
	switch field.Type {
	case model.FieldTypeEmail:
		if !v.email.MatchString(model.Stringify(value)) {
			return emailMessage()
		}
	case model.FieldTypeDate:
		return v.checkDate(label, value, rules)
	case model.FieldTypeMultiSelect, model.FieldTypeSearchableSelect, model.FieldTypeCheckbox:
		return checkSelections(label, value, rules)
	case model.FieldTypeFile:
		return checkFiles(label, value, rules)
	case model.FieldTypeText,
		model.FieldTypePassword,
		model.FieldTypeNumber,
		model.FieldTypeSelect,
		model.FieldTypeRadio,
		model.FieldTypeTextArea:
		// generic constraints only
	}
	return ""
}

func (v *Validator) checkDate(label string, value any, rules *model.ValidationRule) string {
	date, ok := ParseDate(value)
	if !ok {
		return ""
	}
	var msg string
	if minDate, ok := ParseDate(rules.MinDate); ok && date.Before(minDate) {
		msg = afterMessage(label, v.formatDate(minDate))
	}
	if maxDate, ok := ParseDate(rules.MaxDate); ok && date.After(maxDate) {
		msg = beforeMessage(label, v.formatDate(maxDate))
	}
	return msg
}

func (v *Validator) customFor(rules *model.ValidationRule) model.CustomFunc {
	if rules.Custom != nil {
		return rules.Custom
	}
	if rules.CustomRef == "" {
		return nil
	}
	return v.custom[rules.CustomRef]
}

// matches reports whether value matches expr. Patterns that fail to compile
// never match.
func (v *Validator) matches(expr, value string) bool {
	v.mu.Lock()
	re, cached := v.patterns[expr]
	if !cached {
		compiled, err := regexp.Compile(expr)
		if err == nil {
			re = compiled
		}
		v.patterns[expr] = re
	}
	v.mu.Unlock()

	if re == nil {
		return false
	}
	return re.MatchString(value)
}
