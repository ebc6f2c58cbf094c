package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// durationPattern matches hour/minute ISO-8601 durations such as PT5H57M, PT5H or PT45M
var durationPattern = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?$`)

// ParseTimestamp parses an upstream timestamp, keeping its wall clock
func ParseTimestamp(ts string) (time.Time, bool) {
	ts = strings.TrimSpace(ts)
	if ts == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, ts); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatClockTime renders a timestamp as hour:minute.
// Absent input renders empty; unparseable input is returned as-is.
func FormatClockTime(ts string) string {
	return formatTimestamp(ts, CLOCK_LAYOUT)
}

// FormatFullDateTime renders a timestamp with year, month, day, hour and minute.
func FormatFullDateTime(ts string) string {
	return formatTimestamp(ts, DATETIME_LAYOUT)
}

func formatTimestamp(ts, layout string) string {
	if strings.TrimSpace(ts) == "" {
		return ""
	}
	t, ok := ParseTimestamp(ts)
	if !ok {
		return ts
	}
	return t.Format(layout)
}

// DurationMinutes converts a PTxHyM token to minutes. Missing components count as zero.
// ok is false when the token does not match the pattern.
func DurationMinutes(token string) (int, bool) {
	hours, minutes, ok := parseDuration(token)
	if !ok {
		return 0, false
	}
	return hours*60 + minutes, true
}

// FormatDuration renders PT5H57M as "5h 57m". Tokens that do not match are returned unchanged.
func FormatDuration(token string) string {
	hours, minutes, ok := parseDuration(token)
	if !ok {
		return token
	}
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

// FormatLayover renders a wait between two segments the same way as FormatDuration
func FormatLayover(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Round(time.Minute) / time.Minute)
	return fmt.Sprintf("%dh %dm", total/60, total%60)
}

func parseDuration(token string) (int, int, bool) {
	match := durationPattern.FindStringSubmatch(token)
	if match == nil || (match[1] == "" && match[2] == "") {
		return 0, 0, false
	}

	hours, minutes := 0, 0
	if match[1] != "" {
		h, err := strconv.Atoi(match[1])
		if err != nil {
			return 0, 0, false
		}
		hours = h
	}
	if match[2] != "" {
		m, err := strconv.Atoi(match[2])
		if err != nil {
			return 0, 0, false
		}
		minutes = m
	}
	return hours, minutes, true
}

// OrNA returns NOT_AVAILABLE for blank values
func OrNA(value string) string {
	if strings.TrimSpace(value) == "" {
		return NOT_AVAILABLE
	}
	return value
}
