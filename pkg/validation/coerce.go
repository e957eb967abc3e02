package validation

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/goliatone/go-formflow/pkg/model"
)

var dateLayouts = []string{
	model.DateLayout,
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
}

// ParseDate interprets value as a date. Strings are parsed as ISO dates or
// timestamps in UTC; time.Time values pass through.
func ParseDate(value any) (time.Time, bool) {
	switch typed := value.(type) {
	case time.Time:
		return typed.UTC(), !typed.IsZero()
	case string:
		raw := strings.TrimSpace(typed)
		if raw == "" {
			return time.Time{}, false
		}
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, raw); err == nil {
				return parsed.UTC(), true
			}
		}
	}
	return time.Time{}, false
}

// toNumber coerces value to a number the way a loose numeric comparison
// would. Values that are not numeric report false and skip range checks.
func toNumber(value any) (float64, bool) {
	switch typed := value.(type) {
	case float64:
		return typed, true
	case bool:
		if typed {
			return 1, true
		}
		return 0, true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		if n, ok := model.Normalize(value).(float64); ok {
			return n, true
		}
		return 0, false
	}
}

// length returns the character count of strings and the element count of
// lists.
func length(value any) (int, bool) {
	switch typed := value.(type) {
	case string:
		return utf8.RuneCountInString(typed), true
	case []string:
		return len(typed), true
	case []model.File:
		return len(typed), true
	case []any:
		return len(typed), true
	default:
		return 0, false
	}
}

func selections(value any) ([]string, bool) {
	switch typed := value.(type) {
	case []string:
		return typed, true
	case []any:
		list, ok := model.Normalize(typed).([]string)
		return list, ok
	default:
		return nil, false
	}
}
