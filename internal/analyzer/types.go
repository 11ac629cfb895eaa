// Package analyzer derives streak and summary statistics from daily activity
// series. Every function is pure: it reads the series and returns a value.
package analyzer

// NeverActive is returned by DaysSinceLastActivity for a series with no
// positive entry.
const NeverActive = -1

// StreakResult holds the current and longest streak of a series.
type StreakResult struct {
	// Current is the length of the run ending at the most recent active
	// day, tolerating not-yet-recorded trailing days.
	Current int `json:"current"`

	// Longest is the longest run of consecutive active days.
	Longest int `json:"longest"`
}

// Summary aggregates a trailing window of a series.
type Summary struct {
	// ActiveDays is the number of days with a positive count.
	ActiveDays int `json:"active_days"`

	// Total is the sum of all counts in the window.
	Total int `json:"total"`
}
