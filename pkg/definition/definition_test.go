package definition_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formflow/internal/testsupport"
	"github.com/goliatone/go-formflow/pkg/definition"
	"github.com/goliatone/go-formflow/pkg/model"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestLoadFile_YAML(t *testing.T) {
	form, err := definition.LoadFile(filepath.Join("testdata", "signup.yaml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if form.ID != "signup" || len(form.Steps) != 3 {
		t.Fatalf("unexpected form %#v", form)
	}
	if form.Title != "Create your account" {
		t.Fatalf("markup should be stripped from the title, got %q", form.Title)
	}
	if got := form.Steps[0].Description; got != "Tell us who you are & where to reach you." {
		t.Fatalf("entities should be decoded back to plain text, got %q", got)
	}
	if got := form.Steps[2].Fields[1].Options[1]; got.Label != "Pro" || got.Value != "pro" {
		t.Fatalf("option label should be sanitised, got %#v", got)
	}

	cond := form.Steps[2].Conditional
	if cond == nil || cond.Value != float64(3) {
		t.Fatalf("YAML integers should normalise to float64, got %#v", cond)
	}

	field, ok := form.Field("name")
	if !ok {
		t.Fatalf("expected name field")
	}
	want := &model.ValidationRule{MinLength: intPtr(2)}
	if diff := cmp.Diff(want, field.Validation); diff != "" {
		t.Fatalf("validation mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_JSON(t *testing.T) {
	raw, err := os.ReadFile(filepath.Join("testdata", "survey.json"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	form, err := definition.Parse(raw, "survey.json")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if form.Steps[0].Fields[0].Type != model.FieldTypeMultiSelect {
		t.Fatalf("unexpected field type %q", form.Steps[0].Fields[0].Type)
	}
}

func TestParse_RejectsGarbage(t *testing.T) {
	if _, err := definition.Parse([]byte("   "), "empty.yaml"); err == nil {
		t.Fatalf("expected error for empty document")
	}
	if _, err := definition.Parse([]byte("{ id: [unterminated"), "broken.yaml"); err == nil {
		t.Fatalf("expected error for invalid document")
	}
}

func TestParse_ReturnsLintError(t *testing.T) {
	doc := []byte(`
id: broken
steps:
  - id: one
    fields:
      - name: color
        type: select
      - name: code
        type: text
        validation:
          pattern: "["
`)
	_, err := definition.Parse(doc, "broken.yaml")
	var lintErr *definition.LintError
	if !errors.As(err, &lintErr) {
		t.Fatalf("expected LintError, got %v", err)
	}
	want := []definition.Violation{
		{Location: "steps[one].fields[code].validation.pattern", Message: "invalid pattern: error parsing regexp: missing closing ]: `[`"},
		{Location: "steps[one].fields[color]", Message: "select field requires options"},
	}
	if diff := cmp.Diff(want, lintErr.Violations); diff != "" {
		t.Fatalf("violations mismatch (-want +got):\n%s", diff)
	}
}

func TestLint(t *testing.T) {
	tests := []struct {
		name string
		form model.Form
		want []definition.Violation
	}{
		{
			name: "empty form",
			form: model.Form{},
			want: []definition.Violation{
				{Location: "form", Message: "at least one step is required"},
				{Location: "form", Message: "id is required"},
			},
		},
		{
			name: "duplicates",
			form: model.Form{ID: "f", Steps: []model.Step{
				{ID: "a", Fields: []model.Field{{Name: "x", Type: model.FieldTypeText}}},
				{ID: "a", Fields: []model.Field{{Name: "x", Type: model.FieldTypeText}}},
			}},
			want: []definition.Violation{
				{Location: "steps[a]", Message: `duplicate step id "a"`},
				{Location: "steps[a].fields[x]", Message: `duplicate field name "x" (first declared at steps[a].fields[x])`},
			},
		},
		{
			name: "conditionals",
			form: model.Form{ID: "f", Steps: []model.Step{
				{
					ID:          "a",
					Conditional: &model.ConditionalRule{DependsOn: "ghost"},
					Fields: []model.Field{
						{Name: "x", Type: "slider"},
						{Name: "y", Type: model.FieldTypeText, Conditional: &model.ConditionalRule{DependsOn: "x", Operator: "gt"}},
					},
				},
			}},
			want: []definition.Violation{
				{Location: "steps[a].conditional", Message: `depends on unknown field "ghost"`},
				{Location: "steps[a].fields[x]", Message: `unknown field type "slider"`},
				{Location: "steps[a].fields[y].conditional", Message: `unknown operator "gt"`},
			},
		},
		{
			name: "bounds",
			form: model.Form{ID: "f", Steps: []model.Step{{ID: "a", Fields: []model.Field{{
				Name: "x",
				Type: model.FieldTypeDate,
				Validation: &model.ValidationRule{
					MinLength: intPtr(-1),
					Min:       floatPtr(5),
					Max:       floatPtr(1),
					MinDate:   "2024-05-01",
					MaxDate:   "2024-01-01",
				},
			}}}}},
			want: []definition.Violation{
				{Location: "steps[a].fields[x].validation", Message: "min is greater than max"},
				{Location: "steps[a].fields[x].validation", Message: "minDate is after maxDate"},
				{Location: "steps[a].fields[x].validation", Message: "minLength must not be negative"},
			},
		},
		{
			name: "bad date",
			form: model.Form{ID: "f", Steps: []model.Step{{ID: "a", Fields: []model.Field{{
				Name:       "x",
				Type:       model.FieldTypeDate,
				Validation: &model.ValidationRule{MinDate: "yesterday"},
			}}}}},
			want: []definition.Violation{
				{Location: "steps[a].fields[x].validation.minDate", Message: `invalid date "yesterday"`},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := definition.Lint(tt.form)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("violations mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadFS(t *testing.T) {
	signup, err := os.ReadFile(filepath.Join("testdata", "signup.yaml"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	survey, err := os.ReadFile(filepath.Join("testdata", "survey.json"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}

	fsys := fstest.MapFS{
		"forms/signup.yaml":  {Data: signup},
		"forms/survey.json":  {Data: survey},
		"forms/README.md":    {Data: []byte("ignored")},
		"forms/nested/x.txt": {Data: []byte("ignored")},
	}
	forms, err := definition.LoadFS(fsys)
	if err != nil {
		t.Fatalf("LoadFS: %v", err)
	}
	if _, ok := forms["signup"]; !ok {
		t.Fatalf("expected signup form")
	}
	if _, ok := forms["survey"]; !ok {
		t.Fatalf("expected survey form")
	}

	fsys["forms/copy.yml"] = &fstest.MapFile{Data: signup}
	if _, err := definition.LoadFS(fsys); err == nil {
		t.Fatalf("expected duplicate form id error")
	}

	empty, err := definition.LoadFS(nil)
	if err != nil || len(empty) != 0 {
		t.Fatalf("nil fs should yield an empty set, got %v %v", empty, err)
	}
}

func TestLint_SharedFixturesAreClean(t *testing.T) {
	if got := definition.Lint(testsupport.SampleForm()); len(got) != 0 {
		t.Fatalf("expected no violations, got %v", got)
	}
	survey := testsupport.MustLoadForm(t, filepath.Join("testdata", "survey.json"))
	if got := definition.Lint(survey); len(got) != 0 {
		t.Fatalf("expected no violations, got %v", got)
	}
}
