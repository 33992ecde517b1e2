// Package timetools contains the ISO 8601 instant helpers used by the
// simulation platform components.
package timetools

import (
	"strings"
	"time"
)

var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ToTime parses an ISO 8601 datetime string. Timestamps without an explicit
// offset are interpreted as UTC.
func ToTime(value string) (time.Time, error) {
	var firstErr error
	for _, layout := range layouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

// IsTimestamp reports whether the given string is a parseable ISO 8601
// datetime.
func IsTimestamp(value string) bool {
	_, err := ToTime(value)
	return err == nil
}

// Difference returns the number of seconds from begin to end, or -1 when
// either timestamp cannot be parsed.
func Difference(begin string, end string) int {
	beginTime, err := ToTime(begin)
	if err != nil {
		return -1
	}
	endTime, err := ToTime(end)
	if err != nil {
		return -1
	}
	return int(endTime.Sub(beginTime) / time.Second)
}

// FromTime renders an instant as an ISO 8601 string with a Z suffix for UTC.
func FromTime(t time.Time) string {
	return strings.Replace(t.UTC().Format(time.RFC3339), "+00:00", "Z", 1)
}

// CleanTimestamp returns the current UTC time in a form safe for filenames,
// e.g. "20230123-180000-123".
func CleanTimestamp() string {
	now := time.Now().UTC()
	replacer := strings.NewReplacer("-", "", ":", "", "T", "-", ".", "-")
	return replacer.Replace(now.Format("2006-01-02T15:04:05.000"))
}
