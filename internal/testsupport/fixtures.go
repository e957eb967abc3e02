// Package testsupport holds fixtures and golden-file helpers shared by the
// formflow test suites.
package testsupport

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formflow/pkg/definition"
	"github.com/goliatone/go-formflow/pkg/model"
)

// SampleForm returns a four step signup form. The "vet" step and the
// "petName" field are only visible while "hasPet" is true.
func SampleForm() model.Form {
	return model.Form{
		ID:    "signup",
		Title: "Sign up",
		Steps: []model.Step{
			{
				ID:    "profile",
				Title: "Profile",
				Fields: []model.Field{
					{Name: "name", Label: "Name", Type: model.FieldTypeText, Required: true},
					{Name: "email", Label: "Email", Type: model.FieldTypeEmail},
				},
			},
			{
				ID:    "pets",
				Title: "Pets",
				Fields: []model.Field{
					{Name: "hasPet", Label: "Has pet", Type: model.FieldTypeCheckbox},
					{
						Name:        "petName",
						Label:       "Pet name",
						Type:        model.FieldTypeText,
						Required:    true,
						Conditional: &model.ConditionalRule{DependsOn: "hasPet", Value: true},
					},
				},
			},
			{
				ID:          "vet",
				Title:       "Vet",
				Conditional: &model.ConditionalRule{DependsOn: "hasPet", Value: true},
				Fields: []model.Field{
					{Name: "vetName", Label: "Vet", Type: model.FieldTypeText},
				},
			},
			{
				ID:    "confirm",
				Title: "Confirm",
				Fields: []model.Field{
					{Name: "terms", Label: "Terms", Type: model.FieldTypeCheckbox, Required: true},
				},
			},
		},
	}
}

// MustLoadForm parses a definition file, failing the test on any error.
func MustLoadForm(t *testing.T, path string) model.Form {
	t.Helper()

	form, err := definition.LoadFile(path)
	if err != nil {
		t.Fatalf("load form: %v", err)
	}
	return form
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}
