package validation

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
)

// DateFormatter renders a date bound inside a validation message.
type DateFormatter func(time.Time) string

// FormatDate renders t as a long date with an ordinal day, for example
// "January 1st, 2024".
func FormatDate(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("%s %s, %d", t.Month(), humanize.Ordinal(t.Day()), t.Year())
}

func requiredMessage(label string) string {
	return label + " is required"
}

func emailMessage() string {
	return "Please enter a valid email address"
}

func afterMessage(label, bound string) string {
	return fmt.Sprintf("%s must be after %s", label, bound)
}

func beforeMessage(label, bound string) string {
	return fmt.Sprintf("%s must be before %s", label, bound)
}

func patternMessage(label string) string {
	return label + " format is invalid"
}

func minLengthMessage(label string, n int) string {
	return fmt.Sprintf("%s must be at least %d characters", label, n)
}

func maxLengthMessage(label string, n int) string {
	return fmt.Sprintf("%s must be no more than %d characters", label, n)
}

func minMessage(label string, n float64) string {
	return fmt.Sprintf("%s must be at least %s", label, formatNumber(n))
}

func maxMessage(label string, n float64) string {
	return fmt.Sprintf("%s must be no more than %s", label, formatNumber(n))
}

func minSelectionsMessage(label string, n int) string {
	return fmt.Sprintf("%s requires at least %d selections", label, n)
}

func maxSelectionsMessage(label string, n int) string {
	return fmt.Sprintf("%s allows at most %d selections", label, n)
}

func fileTypeMessage(name string) string {
	return name + " is not an accepted file type"
}

func maxFileSizeMessage(name string, limit int64) string {
	return fmt.Sprintf("%s exceeds the maximum size of %s", name, humanize.Bytes(uint64(limit)))
}

func minFileSizeMessage(name string, limit int64) string {
	return fmt.Sprintf("%s is smaller than the minimum size of %s", name, humanize.Bytes(uint64(limit)))
}

func maxTotalSizeMessage(label string, limit int64) string {
	return fmt.Sprintf("%s exceeds the maximum total size of %s", label, humanize.Bytes(uint64(limit)))
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
