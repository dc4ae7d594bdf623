// Package timeutil provides shared time parsing utilities for filter bounds.
package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// FarFuture is the sentinel used when no upper bound is supplied.
var FarFuture = time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC)

// Pre-compiled regexes for bound forms
var (
	relativeRe = regexp.MustCompile(`^(\d+)([mhd])$`)
	bareDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// Layouts tried for absolute bounds, most specific first.
var boundLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseBound parses a time-range bound. Accepted forms:
//
//   - "2023-09-01 12:00:00" or RFC3339        -> that instant
//   - "2023-09-01" as a start bound           -> 00:00:00 that day
//   - "2023-09-01" as an end bound            -> 23:59:59 that day
//   - "2h", "30m", "7d"                       -> that long ago
//   - "" or "now"                             -> current time
//
// A bare date expands to the start or end of the day depending on which
// side of the range it bounds.
func ParseBound(input string, end bool) (time.Time, error) {
	if input == "" || input == "now" {
		return time.Now().UTC(), nil
	}

	if bareDateRe.MatchString(input) {
		d, err := time.Parse("2006-01-02", input)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid date %q: %w", input, err)
		}
		if end {
			return time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, 0, time.UTC), nil
		}
		return d, nil
	}

	for _, layout := range boundLayouts {
		if t, err := time.Parse(layout, input); err == nil {
			return t.UTC(), nil
		}
	}

	// Relative (e.g., "2h", "30m", "7d")
	matches := relativeRe.FindStringSubmatch(input)
	if matches != nil {
		value, _ := strconv.Atoi(matches[1])
		var duration time.Duration
		switch matches[2] {
		case "m":
			duration = time.Duration(value) * time.Minute
		case "h":
			duration = time.Duration(value) * time.Hour
		case "d":
			duration = time.Duration(value) * 24 * time.Hour
		}
		return time.Now().UTC().Add(-duration), nil
	}

	return time.Time{}, fmt.Errorf("invalid time bound: %s - use YYYY-MM-DD[ HH:MM:SS], RFC3339, or relative (2h, 30m, 7d)", input)
}

// FormatDuration formats a duration in a human-readable way.
func FormatDuration(d time.Duration) string {
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		return fmt.Sprintf("%.1fh", d.Hours())
	}
	return fmt.Sprintf("%.1fd", d.Hours()/24)
}

// FormatBytes converts bytes to human-readable format (e.g., "1.5 MB").
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
