package series

import (
	"strconv"
	"time"
)

// DateLayout is the ISO 8601 calendar date format used for day-bucket keys.
const DateLayout = "2006-01-02"

const secondsPerDay = 86400

// Today returns now truncated to midnight UTC.
func Today(now time.Time) time.Time {
	return truncateDay(now)
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDayKey converts a day-bucket key into its UTC midnight day.
//
// Two key formats are accepted: ISO calendar dates ("2024-01-03") and
// base-10 epoch seconds ("1704240000"). Any second inside a UTC day maps to
// that day, so "1704240000" and "1704286799" share a bucket.
func ParseDayKey(key string) (time.Time, error) {
	if key == "" {
		return time.Time{}, &MalformedInputError{Key: key, Reason: "empty key"}
	}

	if isDigits(key) {
		secs, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return time.Time{}, &MalformedInputError{Key: key, Reason: "epoch seconds out of range"}
		}
		day := secs / secondsPerDay
		return time.Unix(day*secondsPerDay, 0).UTC(), nil
	}

	d, err := time.Parse(DateLayout, key)
	if err != nil {
		return time.Time{}, &MalformedInputError{Key: key, Reason: "expected YYYY-MM-DD or epoch seconds"}
	}
	return d, nil
}

// FormatDay renders a day as its ISO calendar date key.
func FormatDay(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Normalize parses every key of counts into its day bucket.
//
// Keys that land on the same UTC day are summed. Negative counts are
// rejected as malformed.
func Normalize(counts map[string]int) (map[time.Time]int, error) {
	out := make(map[time.Time]int, len(counts))
	for key, c := range counts {
		if c < 0 {
			return nil, &MalformedInputError{Key: key, Reason: "negative count"}
		}
		day, err := ParseDayKey(key)
		if err != nil {
			return nil, err
		}
		out[day] += c
	}
	return out, nil
}
