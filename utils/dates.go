package utils

import (
	"math"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// DateOnly strips the clock from t and pins it to UTC midnight of the same calendar day.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Today is the current calendar day in UTC.
func Today() time.Time {
	return DateOnly(time.Now().UTC())
}

// DaysBetween counts calendar days from -> to (negative when to is earlier).
func DaysBetween(from, to time.Time) int {
	return int(math.Round(DateOnly(to).Sub(DateOnly(from)).Hours() / 24))
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, err
	}
	return DateOnly(t), nil
}

// ParseDateTime accepts RFC3339 (a trailing Z is fine) or a bare YYYY-MM-DD.
func ParseDateTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
		return t.UTC(), nil
	}
	return ParseDate(s)
}
