package util

import (
	"strconv"
	"strings"
)

// FirstLine returns the first non-empty line of s, trimmed.
// Tools that report one row per device print the selected device first.
func FirstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			return line
		}
	}
	return ""
}

// ParseFloat64 parses the first line of s as a float64.
func ParseFloat64(s string) (float64, error) {
	return strconv.ParseFloat(FirstLine(s), 64)
}

// FormatFloat renders v in its shortest exact form: 72, 72.5, 0.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
