// Package definition loads form definitions from JSON or YAML documents,
// sanitises their display text and lints them before use.
package definition

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formflow/pkg/model"
)

// Parse decodes a form definition, trying JSON first and YAML second. The
// result is sanitised and linted; lint failures return a *LintError.
func Parse(data []byte, source string) (model.Form, error) {
	form, err := decode(data, source)
	if err != nil {
		return model.Form{}, err
	}
	form = Sanitize(form)
	if violations := Lint(form); len(violations) > 0 {
		return model.Form{}, &LintError{Source: source, Violations: violations}
	}
	return form, nil
}

// LoadFile reads and parses the definition at path.
func LoadFile(path string) (model.Form, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Form{}, fmt.Errorf("definition: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// LoadFS walks fsys and parses every JSON or YAML file, keyed by form id.
// A nil fsys yields an empty set.
func LoadFS(fsys fs.FS) (map[string]model.Form, error) {
	forms := make(map[string]model.Form)
	if fsys == nil {
		return forms, nil
	}

	sources := make(map[string]string)
	err := fs.WalkDir(fsys, ".", func(p string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isDefinitionFile(p) {
			return nil
		}

		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("definition: read %s: %w", p, err)
		}
		form, err := Parse(data, p)
		if err != nil {
			return err
		}
		if prev, exists := sources[form.ID]; exists {
			return fmt.Errorf("definition: duplicate form %q (files %s, %s)", form.ID, prev, p)
		}
		sources[form.ID] = p
		forms[form.ID] = form
		return nil
	})
	if err != nil {
		return nil, err
	}
	return forms, nil
}

func decode(data []byte, source string) (model.Form, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return model.Form{}, fmt.Errorf("definition: file %s is empty", source)
	}

	var form model.Form
	if err := json.Unmarshal(data, &form); err == nil {
		return normaliseConditionals(form), nil
	}

	form = model.Form{}
	if err := yaml.Unmarshal(data, &form); err == nil {
		return normaliseConditionals(form), nil
	}

	return model.Form{}, fmt.Errorf("definition: parse %s: invalid JSON or YAML", source)
}

// normaliseConditionals brings decoded comparison values into the canonical
// FormData shapes so YAML integers compare like JSON numbers.
func normaliseConditionals(form model.Form) model.Form {
	for i := range form.Steps {
		step := &form.Steps[i]
		if step.Conditional != nil {
			step.Conditional.Value = model.Normalize(step.Conditional.Value)
		}
		for j := range step.Fields {
			if cond := step.Fields[j].Conditional; cond != nil {
				cond.Value = model.Normalize(cond.Value)
			}
		}
	}
	return form
}

func isDefinitionFile(p string) bool {
	switch strings.ToLower(path.Ext(p)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
