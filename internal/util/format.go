package util

import (
	"fmt"
	"strings"
	"time"
)

// FormatClock formats a second count as HH:MM:SS
func FormatClock(seconds float64) string {
	total := int64(seconds)
	if total < 0 {
		total = 0
	}
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// FormatDuration formats a duration as "2h 15m" style text
func FormatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// ProgressBar renders a fixed-width ASCII progress bar for ratio in [0,1]
func ProgressBar(ratio float64, width int) string {
	if width < 2 {
		width = 2
	}
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	filled := int(ratio * float64(width))
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

// SanitizeIdentifier makes a user identifier safe for use in filenames
func SanitizeIdentifier(id string) string {
	if id == "" {
		return "default"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_")
	return replacer.Replace(id)
}
