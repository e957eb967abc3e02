package model

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the ISO layout used to store date values.
const DateLayout = "2006-01-02"

// FormData maps field names to their current values. Keys are global across
// steps.
type FormData map[string]any

// Clone returns a copy that does not share lists with d.
func (d FormData) Clone() FormData {
	out := make(FormData, len(d))
	for key, value := range d {
		out[key] = cloneValue(value)
	}
	return out
}

// UnmarshalJSON decodes a JSON object and normalises every value.
func (d *FormData) UnmarshalJSON(raw []byte) error {
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return err
	}
	out := make(FormData, len(decoded))
	for key, value := range decoded {
		out[key] = Normalize(value)
	}
	*d = out
	return nil
}

// FormErrors maps field names to a human readable message. A missing key or
// an empty message means the field has no error.
type FormErrors map[string]string

// Clone returns a copy of e.
func (e FormErrors) Clone() FormErrors {
	out := make(FormErrors, len(e))
	for key, value := range e {
		out[key] = value
	}
	return out
}

// HasErrors reports whether any field carries a non-empty message.
func (e FormErrors) HasErrors() bool {
	for _, msg := range e {
		if msg != "" {
			return true
		}
	}
	return false
}

// Compact returns only the entries with a non-empty message.
func (e FormErrors) Compact() FormErrors {
	out := make(FormErrors)
	for key, msg := range e {
		if msg != "" {
			out[key] = msg
		}
	}
	return out
}

// Normalize converts v into the canonical value shape stored in FormData:
// numbers become float64, string and file lists become []string and []File,
// time.Time becomes an ISO date string and empty lists become []string{}.
// Values outside the canonical set are returned unchanged.
func Normalize(v any) any {
	switch typed := v.(type) {
	case nil:
		return nil
	case string, bool, float64:
		return typed
	case float32:
		return float64(typed)
	case int:
		return float64(typed)
	case int8:
		return float64(typed)
	case int16:
		return float64(typed)
	case int32:
		return float64(typed)
	case int64:
		return float64(typed)
	case uint:
		return float64(typed)
	case uint8:
		return float64(typed)
	case uint16:
		return float64(typed)
	case uint32:
		return float64(typed)
	case uint64:
		return float64(typed)
	case json.Number:
		if f, err := typed.Float64(); err == nil {
			return f
		}
		return typed.String()
	case time.Time:
		return typed.UTC().Format(DateLayout)
	case []string:
		return append([]string{}, typed...)
	case File:
		return []File{typed}
	case []File:
		if len(typed) == 0 {
			return []string{}
		}
		return append([]File(nil), typed...)
	case map[string]any:
		if file, ok := fileFromMap(typed); ok {
			return []File{file}
		}
		return typed
	case []any:
		return normalizeList(typed)
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		items := make([]any, rv.Len())
		for i := range items {
			items[i] = rv.Index(i).Interface()
		}
		return normalizeList(items)
	}
	return v
}

func normalizeList(items []any) any {
	if len(items) == 0 {
		return []string{}
	}

	if files, ok := filesFromList(items); ok {
		return files
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, Stringify(Normalize(item)))
	}
	return out
}

func filesFromList(items []any) ([]File, bool) {
	files := make([]File, 0, len(items))
	for _, item := range items {
		switch typed := item.(type) {
		case File:
			files = append(files, typed)
		case map[string]any:
			file, ok := fileFromMap(typed)
			if !ok {
				return nil, false
			}
			files = append(files, file)
		default:
			return nil, false
		}
	}
	return files, true
}

func fileFromMap(m map[string]any) (File, bool) {
	name, ok := m["name"].(string)
	if !ok {
		return File{}, false
	}
	size, ok := Normalize(m["size"]).(float64)
	if !ok {
		return File{}, false
	}
	file := File{Name: name, Size: int64(size)}
	if mime, ok := m["type"].(string); ok {
		file.Type = mime
	}
	return file, true
}

// Stringify renders a canonical value the way a string comparison or regex
// test should see it. Lists are joined with commas.
func Stringify(v any) string {
	switch typed := v.(type) {
	case nil:
		return ""
	case string:
		return typed
	case bool:
		return strconv.FormatBool(typed)
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case []string:
		return strings.Join(typed, ",")
	case []File:
		names := make([]string, len(typed))
		for i, file := range typed {
			names[i] = file.Name
		}
		return strings.Join(names, ",")
	default:
		return fmt.Sprint(typed)
	}
}

// IsEmpty reports whether v counts as "no value": nil, a whitespace-only
// string or false. Lists are values even when they hold no elements.
func IsEmpty(v any) bool {
	switch typed := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(typed) == ""
	case bool:
		return !typed
	default:
		return false
	}
}

func cloneValue(v any) any {
	switch typed := v.(type) {
	case []string:
		return append([]string{}, typed...)
	case []File:
		return append([]File{}, typed...)
	case []any:
		return append([]any{}, typed...)
	default:
		return v
	}
}
