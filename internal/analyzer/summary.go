package analyzer

import (
	"math"

	"github.com/blackwell-systems/devstreaks/internal/series"
)

// Preset window sizes.
const (
	WeekDays  = 7
	MonthDays = 30
)

// WindowedSummary summarizes the last windowSize entries of s. A series
// shorter than the window is summarized whole.
func WindowedSummary(s []int, windowSize int) (Summary, error) {
	if windowSize <= 0 {
		return Summary{}, series.ErrInvalidWindow
	}
	return summarize(tail(s, windowSize)), nil
}

// WeeklySummary summarizes the last 7 days.
func WeeklySummary(s []int) Summary {
	return summarize(tail(s, WeekDays))
}

// MonthlySummary summarizes the last 30 days.
func MonthlySummary(s []int) Summary {
	return summarize(tail(s, MonthDays))
}

// ComparePeriodsPercent returns the rounded percentage change in active days
// from previous to current.
//
// When previous has no active days the result is clamped to 100 instead of
// dividing by zero: any activity after an idle period counts as full
// improvement, and idle after idle also reads as 100.
func ComparePeriodsPercent(current, previous []int) int {
	curr := ActiveDays(current)
	prev := ActiveDays(previous)
	if prev == 0 {
		return 100
	}
	return int(math.Round(float64(curr-prev) / float64(prev) * 100))
}

// CompareTrailingWindows compares the last windowSize days of s with the
// windowSize days immediately before them. The earlier window is truncated
// (possibly to nothing) when the series is too short.
func CompareTrailingWindows(s []int, windowSize int) (int, error) {
	if windowSize <= 0 {
		return 0, series.ErrInvalidWindow
	}
	n := len(s)
	currentStart := max(n-windowSize, 0)
	previousStart := max(currentStart-windowSize, 0)
	return ComparePeriodsPercent(s[currentStart:], s[previousStart:currentStart]), nil
}

// ActiveDays counts entries with a positive value.
func ActiveDays(s []int) int {
	n := 0
	for _, v := range s {
		if v > 0 {
			n++
		}
	}
	return n
}

// TotalActivity sums every entry of s.
func TotalActivity(s []int) int {
	total := 0
	for _, v := range s {
		total += v
	}
	return total
}

func summarize(s []int) Summary {
	return Summary{
		ActiveDays: ActiveDays(s),
		Total:      TotalActivity(s),
	}
}

func tail(s []int, n int) []int {
	if n >= len(s) {
		return s
	}
	return s[len(s)-n:]
}
