package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/goliatone/go-formflow/pkg/persist"
	"github.com/goliatone/go-formflow/pkg/renderers/tui"
)

// ValidationError is a single invalid setting.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors collects every invalid setting.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:\n", len(e))
	for i, err := range e {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// Is reports ErrInvalid so callers can match without type assertions.
func (e ValidationErrors) Is(target error) bool {
	return target == ErrInvalid
}

// ValidLogLevels returns the accepted logging levels.
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// ValidLogFormats returns the accepted logging encodings.
func ValidLogFormats() []string {
	return []string{"console", "json"}
}

// ValidBackends returns the accepted persistence backends.
func ValidBackends() []string {
	return []string{persist.BackendMemory, persist.BackendFile, persist.BackendSQLite, persist.BackendBolt}
}

// Validate checks every section and returns all problems found.
func (c *Config) Validate() ValidationErrors {
	var errs ValidationErrors

	if c.Persistence.Enabled {
		backend := strings.ToLower(strings.TrimSpace(c.Persistence.Backend))
		if !slices.Contains(ValidBackends(), backend) {
			errs = append(errs, ValidationError{
				Field:   "persistence.backend",
				Value:   c.Persistence.Backend,
				Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidBackends(), ", ")),
			})
		} else if backend != persist.BackendMemory && strings.TrimSpace(c.Persistence.Path) == "" {
			errs = append(errs, ValidationError{
				Field:   "persistence.path",
				Value:   c.Persistence.Path,
				Message: "is required for the " + backend + " backend",
			})
		}
		if strings.TrimSpace(c.Persistence.Key) == "" {
			errs = append(errs, ValidationError{
				Field:   "persistence.key",
				Value:   c.Persistence.Key,
				Message: "must not be empty",
			})
		}
	}

	if !slices.Contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}
	if !slices.Contains(ValidLogFormats(), strings.ToLower(c.Logging.Format)) {
		errs = append(errs, ValidationError{
			Field:   "logging.format",
			Value:   c.Logging.Format,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogFormats(), ", ")),
		})
	}

	if !tui.OutputFormat(c.TUI.OutputFormat).Valid() {
		errs = append(errs, ValidationError{
			Field:   "tui.output_format",
			Value:   c.TUI.OutputFormat,
			Message: "must be one of: json, form, pretty",
		})
	}
	if c.TUI.PageSize < 1 {
		errs = append(errs, ValidationError{
			Field:   "tui.page_size",
			Value:   c.TUI.PageSize,
			Message: "must be at least 1",
		})
	}

	return errs
}
