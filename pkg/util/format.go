package util

import (
	"strings"
	"time"
)

// OrDash returns the string if non-empty, otherwise returns "-".
func OrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// FirstOrDash returns the first non-empty string from the provided items.
// If all items are empty, it returns "-".
func FirstOrDash(items ...string) string {
	for _, item := range items {
		if item != "" {
			return item
		}
	}
	return "-"
}

// FormatDuration renders d rounded to a human-friendly precision, e.g.
// "1.5s" or "500ms".
func FormatDuration(d time.Duration) string {
	switch {
	case d <= 0:
		return "0s"
	case d < time.Second:
		return d.Round(time.Millisecond).String()
	default:
		return d.Round(100 * time.Millisecond).String()
	}
}
