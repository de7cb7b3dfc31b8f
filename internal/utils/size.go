package utils

import (
	"fmt"
	"strings"
)

var fileSizeUnits = []string{"b", "kb", "mb", "gb", "tb"}

// FormatFileSize converts a byte length into a human-readable lower-case unit string.
func FormatFileSize(bytes int64) string {
	if bytes <= 0 {
		return "0b"
	}
	if bytes < 1024 {
		return fmt.Sprintf("%db", bytes)
	}
	scaled := float64(bytes)
	unitIndex := 0
	for scaled >= 1024 && unitIndex < len(fileSizeUnits)-1 {
		scaled /= 1024
		unitIndex++
	}
	if scaled >= 10 {
		return fmt.Sprintf("%.0f%s", scaled, fileSizeUnits[unitIndex])
	}
	return strings.TrimSuffix(fmt.Sprintf("%.1f", scaled), ".0") + fileSizeUnits[unitIndex]
}
