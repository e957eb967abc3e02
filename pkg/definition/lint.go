package definition

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/validation"
)

// Violation is one problem found in a definition.
type Violation struct {
	Location string `json:"location"`
	Message  string `json:"message"`
}

func (v Violation) String() string {
	return v.Location + " -> " + v.Message
}

// LintError reports every violation found in a definition.
type LintError struct {
	Source     string
	Violations []Violation
}

func (e *LintError) Error() string {
	if e == nil || len(e.Violations) == 0 {
		return "definition: invalid form"
	}
	msg := fmt.Sprintf("definition: %s: %s", e.Source, e.Violations[0])
	if extra := len(e.Violations) - 1; extra > 0 {
		msg += fmt.Sprintf(" (and %d more)", extra)
	}
	return msg
}

// Lint checks form for structural problems that would break navigation or
// validation at runtime. Violations are sorted by location.
func Lint(form model.Form) []Violation {
	l := &linter{names: make(map[string]string)}

	if strings.TrimSpace(form.ID) == "" {
		l.add("form", "id is required")
	}
	if len(form.Steps) == 0 {
		l.add("form", "at least one step is required")
	}

	stepIDs := make(map[string]struct{}, len(form.Steps))
	for i, step := range form.Steps {
		loc := stepLocation(i, step)
		id := strings.TrimSpace(step.ID)
		if id == "" {
			l.add(loc, "step id is required")
		} else if _, dup := stepIDs[id]; dup {
			l.add(loc, fmt.Sprintf("duplicate step id %q", id))
		}
		stepIDs[id] = struct{}{}

		for j, field := range step.Fields {
			floc := fmt.Sprintf("%s.fields[%d]", loc, j)
			name := strings.TrimSpace(field.Name)
			if name == "" {
				l.add(floc, "field name is required")
				continue
			}
			floc = fmt.Sprintf("%s.fields[%s]", loc, name)
			if prev, dup := l.names[name]; dup {
				l.add(floc, fmt.Sprintf("duplicate field name %q (first declared at %s)", name, prev))
				continue
			}
			l.names[name] = floc
		}
	}

	for i, step := range form.Steps {
		loc := stepLocation(i, step)
		l.conditional(loc, step.Conditional)
		for j, field := range step.Fields {
			floc := fmt.Sprintf("%s.fields[%d]", loc, j)
			if name := strings.TrimSpace(field.Name); name != "" {
				floc = fmt.Sprintf("%s.fields[%s]", loc, name)
			}
			l.field(floc, field)
		}
	}

	sort.SliceStable(l.violations, func(i, j int) bool {
		if l.violations[i].Location == l.violations[j].Location {
			return l.violations[i].Message < l.violations[j].Message
		}
		return l.violations[i].Location < l.violations[j].Location
	})
	return l.violations
}

type linter struct {
	names      map[string]string
	violations []Violation
}

func (l *linter) add(location, message string) {
	l.violations = append(l.violations, Violation{Location: location, Message: message})
}

func (l *linter) conditional(loc string, rule *model.ConditionalRule) {
	if rule == nil {
		return
	}
	loc += ".conditional"
	dep := strings.TrimSpace(rule.DependsOn)
	if dep == "" {
		l.add(loc, "dependsOn is required")
	} else if _, ok := l.names[dep]; !ok {
		l.add(loc, fmt.Sprintf("depends on unknown field %q", dep))
	}
	if !rule.Operator.Known() {
		l.add(loc, fmt.Sprintf("unknown operator %q", rule.Operator))
	}
}

func (l *linter) field(loc string, field model.Field) {
	if !field.Type.Valid() {
		l.add(loc, fmt.Sprintf("unknown field type %q", field.Type))
	}
	if field.Type.HasOptions() && len(field.Options) == 0 {
		l.add(loc, fmt.Sprintf("%s field requires options", field.Type))
	}
	if field.MaxFiles < 0 {
		l.add(loc, "maxFiles must not be negative")
	}
	l.conditional(loc, field.Conditional)

	rules := field.Validation
	if rules == nil {
		return
	}
	loc += ".validation"

	if rules.Pattern != "" {
		if _, err := regexp.Compile(rules.Pattern); err != nil {
			l.add(loc+".pattern", fmt.Sprintf("invalid pattern: %v", err))
		}
	}

	minDate, minOK := l.date(loc+".minDate", rules.MinDate)
	maxDate, maxOK := l.date(loc+".maxDate", rules.MaxDate)
	if minOK && maxOK && minDate.After(maxDate) {
		l.add(loc, "minDate is after maxDate")
	}

	lintRange(l, loc, "minLength", "maxLength", rules.MinLength, rules.MaxLength)
	lintRange(l, loc, "minSelections", "maxSelections", rules.MinSelections, rules.MaxSelections)
	lintRange(l, loc, "minFileSize", "maxFileSize", rules.MinFileSize, rules.MaxFileSize)
	if rules.MaxTotalSize != nil && *rules.MaxTotalSize < 0 {
		l.add(loc, "maxTotalSize must not be negative")
	}
	if rules.Min != nil && rules.Max != nil && *rules.Min > *rules.Max {
		l.add(loc, "min is greater than max")
	}
}

func (l *linter) date(loc, raw string) (time.Time, bool) {
	if strings.TrimSpace(raw) == "" {
		return time.Time{}, false
	}
	parsed, ok := validation.ParseDate(raw)
	if !ok {
		l.add(loc, fmt.Sprintf("invalid date %q", raw))
		return time.Time{}, false
	}
	return parsed, true
}

func lintRange[T int | int64](l *linter, loc, minName, maxName string, lo, hi *T) {
	if lo != nil && *lo < 0 {
		l.add(loc, minName+" must not be negative")
	}
	if hi != nil && *hi < 0 {
		l.add(loc, maxName+" must not be negative")
	}
	if lo != nil && hi != nil && *lo > *hi {
		l.add(loc, fmt.Sprintf("%s is greater than %s", minName, maxName))
	}
}

func stepLocation(i int, step model.Step) string {
	if id := strings.TrimSpace(step.ID); id != "" {
		return fmt.Sprintf("steps[%s]", id)
	}
	return fmt.Sprintf("steps[%d]", i)
}
