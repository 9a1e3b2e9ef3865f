// Package timeparse normalizes datetime strings into UTC instants.
//
// It accepts absolute forms (date-only, date+time with or without an
// explicit offset) and a small relative grammar: "N units ago" for
// second/minute/hour/day/week/month (a month counts as 30 days),
// compound phrases like "3 months, 1 week and 1 day ago", and the
// literal word "yesterday". Input without an offset is interpreted as
// UTC, never as local time.
package timeparse

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidFormat is returned when an input cannot be parsed.
var ErrInvalidFormat = errors.New("invalid time format")

// absoluteLayouts are tried in order. Layouts without a zone parse as
// UTC, which is exactly the behavior we want.
var absoluteLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

var unitDurations = map[string]time.Duration{
	"second": time.Second,
	"minute": time.Minute,
	"hour":   time.Hour,
	"day":    24 * time.Hour,
	"week":   7 * 24 * time.Hour,
	"month":  30 * 24 * time.Hour,
}

var relativePartRE = regexp.MustCompile(`^(\d+)\s*(second|minute|hour|day|week|month)s?$`)

// Parse converts input into a UTC instant. Relative phrases are
// resolved against now.
func Parse(input string, now time.Time) (time.Time, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty input", ErrInvalidFormat)
	}

	lower := strings.ToLower(s)
	if lower == "yesterday" {
		return now.UTC().AddDate(0, 0, -1), nil
	}
	if strings.HasSuffix(lower, "ago") {
		return parseRelative(lower, now)
	}

	for _, layout := range absoluteLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidFormat, input)
}

// parseRelative handles "N units ago" phrases, including compound ones
// joined by commas and/or "and".
func parseRelative(lower string, now time.Time) (time.Time, error) {
	body := strings.TrimSpace(strings.TrimSuffix(lower, "ago"))
	if body == "" {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidFormat, lower)
	}

	body = strings.ReplaceAll(body, " and ", ",")
	var total time.Duration
	for _, part := range strings.Split(body, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		m := relativePartRE.FindStringSubmatch(part)
		if m == nil {
			return time.Time{}, fmt.Errorf("%w: unrecognized phrase %q", ErrInvalidFormat, part)
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidFormat, part)
		}
		total += time.Duration(n) * unitDurations[m[2]]
	}

	return now.UTC().Add(-total), nil
}
