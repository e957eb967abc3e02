package tui

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-formflow/pkg/engine"
	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/visibility"
)

const summarySource = `{% autoescape off %}{% if title %}{{ title }}
{% endif %}{% for step in steps %}
{{ step.number }}. {{ step.title }}
{% for row in step.rows %}  {{ row.label }}: {{ row.value }}
{% endfor %}{% endfor %}{% endautoescape %}`

var (
	summaryOnce sync.Once
	summaryTpl  *pongo2.Template
	summaryErr  error
)

func summaryTemplate() (*pongo2.Template, error) {
	summaryOnce.Do(func() {
		summaryTpl, summaryErr = pongo2.FromString(summarySource)
	})
	return summaryTpl, summaryErr
}

func (r *Renderer) output(e *engine.Engine) ([]byte, error) {
	data := e.State().Data
	if r.submitTransformer != nil {
		var err error
		data, err = r.submitTransformer(data)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
	}

	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return []byte(flattenForm(data)), nil
	case OutputFormatPrettyText:
		return Summary(e.Form(), e.VisibleSteps(), data)
	default:
		return json.Marshal(data)
	}
}

// Summary renders a plain-text review of the visible steps and their
// answers. Fields hidden by their conditional are left out.
func Summary(form model.Form, steps []model.Step, data model.FormData) ([]byte, error) {
	tpl, err := summaryTemplate()
	if err != nil {
		return nil, fmt.Errorf("tui: parse summary template: %w", err)
	}

	rendered := make([]pongo2.Context, 0, len(steps))
	for i, step := range steps {
		rows := make([]pongo2.Context, 0, len(step.Fields))
		for _, field := range visibility.VisibleFields(step, data, nil) {
			value, ok := data[field.Name]
			if !ok {
				continue
			}
			rows = append(rows, pongo2.Context{
				"label": field.DisplayLabel(),
				"value": displayValue(field, value),
			})
		}
		rendered = append(rendered, pongo2.Context{
			"number": i + 1,
			"title":  step.Title,
			"rows":   rows,
		})
	}

	out, err := tpl.Execute(pongo2.Context{"title": form.Title, "steps": rendered})
	if err != nil {
		return nil, fmt.Errorf("tui: render summary: %w", err)
	}
	return []byte(out), nil
}

// displayValue shows option labels instead of stored values where possible.
func displayValue(field model.Field, value any) string {
	labels := make(map[string]string, len(field.Options))
	for _, opt := range field.Options {
		labels[opt.Value] = opt.Label
	}
	lookup := func(v string) string {
		if label, ok := labels[v]; ok && label != "" {
			return label
		}
		return v
	}

	switch typed := model.Normalize(value).(type) {
	case bool:
		if typed {
			return "yes"
		}
		return "no"
	case string:
		return lookup(typed)
	case []string:
		out := make([]string, len(typed))
		for i, v := range typed {
			out[i] = lookup(v)
		}
		return model.Stringify(out)
	default:
		return model.Stringify(typed)
	}
}

func flattenForm(data model.FormData) string {
	flattened := url.Values{}
	keys := make([]string, 0, len(data))
	for key := range data {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		flatten(key, data[key], flattened)
	}
	return flattened.Encode()
}

func flatten(prefix string, value any, out url.Values) {
	switch v := model.Normalize(value).(type) {
	case []string:
		for _, val := range v {
			out.Add(prefix+"[]", val)
		}
	case []model.File:
		for _, file := range v {
			out.Add(prefix+"[]", file.Name)
		}
	case nil:
		out.Set(prefix, "")
	default:
		out.Set(prefix, model.Stringify(v))
	}
}
