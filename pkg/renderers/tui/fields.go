package tui

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goliatone/go-formflow/pkg/engine"
	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/validation"
)

// FileResolver turns a path typed by the user into file metadata.
type FileResolver func(path string) (model.File, error)

// StatFile resolves path on the local filesystem, guessing the MIME type from
// the extension.
func StatFile(path string) (model.File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return model.File{}, err
	}
	if info.IsDir() {
		return model.File{}, fmt.Errorf("%s is a directory", path)
	}
	return model.File{
		Name: filepath.Base(path),
		Size: info.Size(),
		Type: mime.TypeByExtension(strings.ToLower(filepath.Ext(path))),
	}, nil
}

// promptStep asks for every visible field of step in order. Visibility is
// re-evaluated after each answer so conditionals react immediately.
func (r *Renderer) promptStep(ctx context.Context, e *engine.Engine, step model.Step, only map[string]bool) error {
	for _, field := range step.Fields {
		if only != nil && !only[field.Name] {
			continue
		}
		if !fieldVisible(e, field.Name) {
			continue
		}
		state := e.State()
		if msg := state.Errors[field.Name]; msg != "" && only == nil {
			r.errorf(ctx, "%s", msg)
		}
		value, err := r.promptField(ctx, field, state.Data[field.Name])
		if err != nil {
			return err
		}
		e.SetField(field.Name, value)
	}
	return nil
}

func fieldVisible(e *engine.Engine, name string) bool {
	for _, field := range e.VisibleFields() {
		if field.Name == name {
			return true
		}
	}
	return false
}

// promptField dispatches on the field type and returns the value to store.
func (r *Renderer) promptField(ctx context.Context, field model.Field, current any) (any, error) {
	label := field.DisplayLabel()
	if field.Required {
		label += " *"
	}
	help := field.Help
	if help == "" {
		help = field.Placeholder
	}

	//exhaustive:enforce
	switch field.Type {
	case model.FieldTypeText, model.FieldTypeEmail:
		return r.driver.Input(ctx, InputConfig{Message: label, Default: model.Stringify(current), Help: help})
	case model.FieldTypePassword:
		return r.driver.Password(ctx, InputConfig{Message: label, Default: model.Stringify(current), Help: help})
	case model.FieldTypeTextArea:
		return r.driver.TextArea(ctx, TextAreaConfig{Message: label, Default: model.Stringify(current), Help: help})
	case model.FieldTypeDate:
		return r.promptDate(ctx, label, help, current)
	case model.FieldTypeNumber:
		return r.promptNumber(ctx, label, help, current)
	case model.FieldTypeSelect, model.FieldTypeRadio, model.FieldTypeSearchableSelect:
		return r.promptChoice(ctx, field, label, help, current)
	case model.FieldTypeMultiSelect:
		return r.promptMulti(ctx, field, label, help, current)
	case model.FieldTypeCheckbox:
		if len(field.Options) > 0 {
			return r.promptMulti(ctx, field, label, help, current)
		}
		checked, _ := current.(bool)
		return r.driver.Confirm(ctx, ConfirmConfig{Message: label, Default: checked, Help: help})
	case model.FieldTypeFile:
		return r.promptFiles(ctx, field, label, help, current)
	}
	return r.driver.Input(ctx, InputConfig{Message: label, Default: model.Stringify(current), Help: help})
}

func (r *Renderer) promptDate(ctx context.Context, label, help string, current any) (any, error) {
	if help == "" {
		help = "YYYY-MM-DD"
	}
	for {
		input, err := r.driver.Input(ctx, InputConfig{Message: label, Default: model.Stringify(current), Help: help})
		if err != nil {
			return nil, err
		}
		input = strings.TrimSpace(input)
		if input == "" {
			return "", nil
		}
		date, ok := validation.ParseDate(input)
		if !ok {
			r.errorf(ctx, "Enter a date as YYYY-MM-DD")
			continue
		}
		return date.Format(model.DateLayout), nil
	}
}

func (r *Renderer) promptNumber(ctx context.Context, label, help string, current any) (any, error) {
	for {
		input, err := r.driver.Input(ctx, InputConfig{Message: label, Default: model.Stringify(current), Help: help})
		if err != nil {
			return nil, err
		}
		input = strings.TrimSpace(input)
		if input == "" {
			return nil, nil
		}
		n, err := strconv.ParseFloat(input, 64)
		if err != nil {
			r.errorf(ctx, "Enter a number")
			continue
		}
		return n, nil
	}
}

func (r *Renderer) promptChoice(ctx context.Context, field model.Field, label, help string, current any) (any, error) {
	options := enabledOptions(field.Options)
	if len(options) == 0 {
		return r.driver.Input(ctx, InputConfig{Message: label, Default: model.Stringify(current), Help: help})
	}
	selected := model.Stringify(current)
	defaultIdx := -1
	for i, opt := range options {
		if opt.Value == selected {
			defaultIdx = i
			break
		}
	}
	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      label,
		Options:      optionLabels(options),
		DefaultIndex: defaultIdx,
		Help:         help,
		PageSize:     r.pageSize,
	})
	if err != nil {
		return nil, err
	}
	if idx < 0 || idx >= len(options) {
		return current, nil
	}
	return options[idx].Value, nil
}

func (r *Renderer) promptMulti(ctx context.Context, field model.Field, label, help string, current any) (any, error) {
	options := enabledOptions(field.Options)
	selected := make(map[string]bool)
	if list, ok := model.Normalize(current).([]string); ok {
		for _, v := range list {
			selected[v] = true
		}
	}
	var defaults []int
	for i, opt := range options {
		if selected[opt.Value] {
			defaults = append(defaults, i)
		}
	}
	indices, err := r.driver.MultiSelect(ctx, SelectConfig{
		Message:  label,
		Options:  optionLabels(options),
		Defaults: defaults,
		Help:     help,
		PageSize: r.pageSize,
	})
	if err != nil {
		return nil, err
	}
	values := make([]string, 0, len(indices))
	for _, idx := range indices {
		if idx >= 0 && idx < len(options) {
			values = append(values, options[idx].Value)
		}
	}
	return values, nil
}

func (r *Renderer) promptFiles(ctx context.Context, field model.Field, label, help string, current any) (any, error) {
	if help == "" {
		help = "Comma-separated file paths"
		if field.Accept != "" {
			help += " (" + field.Accept + ")"
		}
	}
	existing, _ := model.Normalize(current).([]model.File)
	for {
		input, err := r.driver.Input(ctx, InputConfig{Message: label, Default: model.Stringify(current), Help: help})
		if err != nil {
			return nil, err
		}
		if len(existing) > 0 && input == model.Stringify(current) {
			return existing, nil
		}
		files, err := r.resolveFiles(input)
		if err != nil {
			r.errorf(ctx, "%v", err)
			continue
		}
		if field.MaxFiles > 0 && len(files) > field.MaxFiles {
			r.errorf(ctx, "Select at most %d files", field.MaxFiles)
			continue
		}
		return files, nil
	}
}

func (r *Renderer) resolveFiles(input string) ([]model.File, error) {
	files := []model.File{}
	for _, part := range strings.Split(input, ",") {
		path := strings.TrimSpace(part)
		if path == "" {
			continue
		}
		file, err := r.resolveFile(path)
		if err != nil {
			return nil, fmt.Errorf("cannot use %s: %w", path, err)
		}
		files = append(files, file)
	}
	return files, nil
}

func enabledOptions(options []model.Option) []model.Option {
	out := make([]model.Option, 0, len(options))
	for _, opt := range options {
		if !opt.Disabled {
			out = append(out, opt)
		}
	}
	return out
}

func optionLabels(options []model.Option) []string {
	labels := make([]string, len(options))
	for i, opt := range options {
		label := opt.Label
		if label == "" {
			label = opt.Value
		}
		if opt.Group != "" {
			label = opt.Group + " / " + label
		}
		labels[i] = label
	}
	return labels
}
