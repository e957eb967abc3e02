package model

// FieldType is the closed set of input kinds a form field can take. Consumers
// switch over every member; see FieldTypes.
type FieldType string

const (
	FieldTypeText             FieldType = "text"
	FieldTypeEmail            FieldType = "email"
	FieldTypePassword         FieldType = "password"
	FieldTypeNumber           FieldType = "number"
	FieldTypeDate             FieldType = "date"
	FieldTypeSelect           FieldType = "select"
	FieldTypeMultiSelect      FieldType = "multiselect"
	FieldTypeSearchableSelect FieldType = "searchable-select"
	FieldTypeRadio            FieldType = "radio"
	FieldTypeCheckbox         FieldType = "checkbox"
	FieldTypeTextArea         FieldType = "textarea"
	FieldTypeFile             FieldType = "file"
)

var fieldTypes = []FieldType{
	FieldTypeText,
	FieldTypeEmail,
	FieldTypePassword,
	FieldTypeNumber,
	FieldTypeDate,
	FieldTypeSelect,
	FieldTypeMultiSelect,
	FieldTypeSearchableSelect,
	FieldTypeRadio,
	FieldTypeCheckbox,
	FieldTypeTextArea,
	FieldTypeFile,
}

// FieldTypes returns every supported field type in declaration order.
func FieldTypes() []FieldType {
	return append([]FieldType(nil), fieldTypes...)
}

// Valid reports whether t is a member of the enumeration.
func (t FieldType) Valid() bool {
	for _, candidate := range fieldTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// HasOptions reports whether the field kind is driven by an option list.
func (t FieldType) HasOptions() bool {
	switch t {
	case FieldTypeSelect, FieldTypeMultiSelect, FieldTypeSearchableSelect, FieldTypeRadio:
		return true
	default:
		return false
	}
}

// Operator selects the comparison used by a ConditionalRule.
type Operator string

const (
	OperatorEquals    Operator = "equals"
	OperatorNotEquals Operator = "not-equals"
	OperatorIncludes  Operator = "includes"
)

// Known reports whether op is one of the named operators. The empty operator
// is known and means equals.
func (op Operator) Known() bool {
	switch op {
	case "", OperatorEquals, OperatorNotEquals, OperatorIncludes:
		return true
	default:
		return false
	}
}

// Option is a single choice offered by select-like fields.
type Option struct {
	Label    string `json:"label" yaml:"label"`
	Value    string `json:"value" yaml:"value"`
	Group    string `json:"group,omitempty" yaml:"group,omitempty"`
	Disabled bool   `json:"disabled,omitempty" yaml:"disabled,omitempty"`
}

// CustomFunc returns a non-empty message when value is rejected.
type CustomFunc func(value any) string

// ValidationRule groups the optional constraints checked for a field. Every
// constraint is independent; unset pointers and empty strings are skipped.
// MinDate/MaxDate hold ISO dates. CustomRef names a validator registered on
// the validation.Validator; Custom takes precedence when both are set.
type ValidationRule struct {
	Pattern          string     `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	MinLength        *int       `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength        *int       `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Min              *float64   `json:"min,omitempty" yaml:"min,omitempty"`
	Max              *float64   `json:"max,omitempty" yaml:"max,omitempty"`
	MinDate          string     `json:"minDate,omitempty" yaml:"minDate,omitempty"`
	MaxDate          string     `json:"maxDate,omitempty" yaml:"maxDate,omitempty"`
	MinSelections    *int       `json:"minSelections,omitempty" yaml:"minSelections,omitempty"`
	MaxSelections    *int       `json:"maxSelections,omitempty" yaml:"maxSelections,omitempty"`
	MaxFileSize      *int64     `json:"maxFileSize,omitempty" yaml:"maxFileSize,omitempty"`
	MinFileSize      *int64     `json:"minFileSize,omitempty" yaml:"minFileSize,omitempty"`
	AllowedFileTypes []string   `json:"allowedFileTypes,omitempty" yaml:"allowedFileTypes,omitempty"`
	MaxTotalSize     *int64     `json:"maxTotalSize,omitempty" yaml:"maxTotalSize,omitempty"`
	CustomRef        string     `json:"custom,omitempty" yaml:"custom,omitempty"`
	Custom           CustomFunc `json:"-" yaml:"-"`
}

// ConditionalRule gates the visibility of a field or step on the current
// value of another field.
type ConditionalRule struct {
	DependsOn string   `json:"dependsOn" yaml:"dependsOn"`
	Value     any      `json:"value" yaml:"value"`
	Operator  Operator `json:"operator,omitempty" yaml:"operator,omitempty"`
}

// Field is a single named input. Names are unique across the whole form.
type Field struct {
	Name        string           `json:"name" yaml:"name"`
	Label       string           `json:"label" yaml:"label"`
	Type        FieldType        `json:"type" yaml:"type"`
	Placeholder string           `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Help        string           `json:"help,omitempty" yaml:"help,omitempty"`
	Required    bool             `json:"required,omitempty" yaml:"required,omitempty"`
	Options     []Option         `json:"options,omitempty" yaml:"options,omitempty"`
	Accept      string           `json:"accept,omitempty" yaml:"accept,omitempty"`
	MaxFiles    int              `json:"maxFiles,omitempty" yaml:"maxFiles,omitempty"`
	Validation  *ValidationRule  `json:"validation,omitempty" yaml:"validation,omitempty"`
	Conditional *ConditionalRule `json:"conditional,omitempty" yaml:"conditional,omitempty"`
}

// DisplayLabel returns the label used in messages, falling back to the name.
func (f Field) DisplayLabel() string {
	if f.Label != "" {
		return f.Label
	}
	return f.Name
}

// Step is an ordered group of fields shown together.
type Step struct {
	ID          string           `json:"id" yaml:"id"`
	Title       string           `json:"title" yaml:"title"`
	Description string           `json:"description,omitempty" yaml:"description,omitempty"`
	Fields      []Field          `json:"fields" yaml:"fields"`
	Conditional *ConditionalRule `json:"conditional,omitempty" yaml:"conditional,omitempty"`
}

// Form is a complete multi-step form definition.
type Form struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Steps       []Step `json:"steps" yaml:"steps"`
	SubmitText  string `json:"submitText,omitempty" yaml:"submitText,omitempty"`
	NextText    string `json:"nextText,omitempty" yaml:"nextText,omitempty"`
	BackText    string `json:"backText,omitempty" yaml:"backText,omitempty"`
}

// Captions returns the submit/next/back button captions with defaults applied.
func (f Form) Captions() (submit, next, back string) {
	submit, next, back = f.SubmitText, f.NextText, f.BackText
	if submit == "" {
		submit = "Submit"
	}
	if next == "" {
		next = "Next"
	}
	if back == "" {
		back = "Back"
	}
	return submit, next, back
}

// Field looks up a field by name across every step.
func (f Form) Field(name string) (Field, bool) {
	for _, step := range f.Steps {
		for _, field := range step.Fields {
			if field.Name == name {
				return field, true
			}
		}
	}
	return Field{}, false
}

// File describes an uploaded file by metadata only.
type File struct {
	Name string `json:"name" yaml:"name"`
	Size int64  `json:"size" yaml:"size"`
	Type string `json:"type,omitempty" yaml:"type,omitempty"`
}
