package validation

import (
	"path"
	"strings"

	"github.com/goliatone/go-formflow/pkg/model"
)

func checkSelections(label string, value any, rules *model.ValidationRule) string {
	selected, ok := selections(value)
	if !ok {
		return ""
	}
	var msg string
	if rules.MinSelections != nil && len(selected) < *rules.MinSelections {
		msg = minSelectionsMessage(label, *rules.MinSelections)
	}
	if rules.MaxSelections != nil && len(selected) > *rules.MaxSelections {
		msg = maxSelectionsMessage(label, *rules.MaxSelections)
	}
	return msg
}

func checkFiles(label string, value any, rules *model.ValidationRule) string {
	files, ok := model.Normalize(value).([]model.File)
	if !ok {
		return ""
	}

	var (
		msg   string
		total int64
	)
	for _, file := range files {
		total += file.Size
		if len(rules.AllowedFileTypes) > 0 && !acceptsType(rules.AllowedFileTypes, file) {
			msg = fileTypeMessage(file.Name)
		}
		if rules.MaxFileSize != nil && file.Size > *rules.MaxFileSize {
			msg = maxFileSizeMessage(file.Name, *rules.MaxFileSize)
		}
		if rules.MinFileSize != nil && file.Size < *rules.MinFileSize {
			msg = minFileSizeMessage(file.Name, *rules.MinFileSize)
		}
	}
	if rules.MaxTotalSize != nil && total > *rules.MaxTotalSize {
		msg = maxTotalSizeMessage(label, *rules.MaxTotalSize)
	}
	return msg
}

// acceptsType matches a file against accept-style entries: exact MIME types,
// "type/*" wildcards and ".ext" suffixes.
func acceptsType(allowed []string, file model.File) bool {
	mime := strings.ToLower(strings.TrimSpace(file.Type))
	ext := strings.ToLower(path.Ext(file.Name))
	for _, entry := range allowed {
		entry = strings.ToLower(strings.TrimSpace(entry))
		switch {
		case entry == "":
			continue
		case strings.HasPrefix(entry, "."):
			if ext == entry {
				return true
			}
		case strings.HasSuffix(entry, "/*"):
			if mime != "" && strings.HasPrefix(mime, strings.TrimSuffix(entry, "*")) {
				return true
			}
		default:
			if mime == entry {
				return true
			}
		}
	}
	return false
}
