package definition

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formflow/pkg/model"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// Sanitize strips markup from every display string of form. Identifiers,
// field names and option values are left as authored.
func Sanitize(form model.Form) model.Form {
	form.Title = sanitizeText(form.Title)
	form.Description = sanitizeText(form.Description)
	form.SubmitText = sanitizeText(form.SubmitText)
	form.NextText = sanitizeText(form.NextText)
	form.BackText = sanitizeText(form.BackText)

	steps := make([]model.Step, len(form.Steps))
	for i, step := range form.Steps {
		step.Title = sanitizeText(step.Title)
		step.Description = sanitizeText(step.Description)

		fields := make([]model.Field, len(step.Fields))
		for j, field := range step.Fields {
			field.Label = sanitizeText(field.Label)
			field.Placeholder = sanitizeText(field.Placeholder)
			field.Help = sanitizeText(field.Help)
			if len(field.Options) > 0 {
				options := make([]model.Option, len(field.Options))
				for k, opt := range field.Options {
					opt.Label = sanitizeText(opt.Label)
					opt.Group = sanitizeText(opt.Group)
					options[k] = opt
				}
				field.Options = options
			}
			fields[j] = field
		}
		step.Fields = fields
		steps[i] = step
	}
	form.Steps = steps
	return form
}

// sanitizeText returns raw as plain text: tags are dropped and entities the
// policy escapes are decoded again.
func sanitizeText(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	cleaned := textSanitizer().Sanitize(trimmed)
	return strings.TrimSpace(html.UnescapeString(cleaned))
}

func textSanitizer() *bluemonday.Policy {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy
}
