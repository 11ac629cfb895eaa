package analyzer

import "fmt"

// LongestStreak returns the length of the longest run of strictly positive
// consecutive values. Any zero ends a run.
func LongestStreak(series []int) int {
	longest, current := 0, 0
	for _, v := range series {
		if v <= 0 {
			current = 0
			continue
		}
		current++
		if current > longest {
			longest = current
		}
	}
	return longest
}

// CurrentStreak returns the length of the positive run ending at the most
// recent active day.
//
// Zeros at the very end of the series are skipped first: the last day may
// simply not be recorded yet, and that alone must not read as a broken
// streak. Only trailing zeros are tolerated. Once a positive value is found
// the walk counts backwards and stops at the first zero, so [1,1,1,0] is 3
// while [1,1,0,1] is 1. LongestStreak applies no such tolerance.
func CurrentStreak(series []int) int {
	i := len(series) - 1
	for i >= 0 && series[i] <= 0 {
		i--
	}

	streak := 0
	for ; i >= 0 && series[i] > 0; i-- {
		streak++
	}
	return streak
}

// Streaks computes both streak lengths for series.
func Streaks(series []int) StreakResult {
	return StreakResult{
		Current: CurrentStreak(series),
		Longest: LongestStreak(series),
	}
}

// DaysSinceLastActivity returns how many days before the end of the series
// the last positive entry sits. 0 means the last day is active. A series
// without any positive entry returns NeverActive.
func DaysSinceLastActivity(series []int) int {
	for i := len(series) - 1; i >= 0; i-- {
		if series[i] > 0 {
			return len(series) - 1 - i
		}
	}
	return NeverActive
}

// LastActiveLabel renders a DaysSinceLastActivity value for display.
func LastActiveLabel(days int) string {
	switch {
	case days < 0:
		return "Never"
	case days == 0:
		return "Today"
	case days == 1:
		return "1 day ago"
	default:
		return fmt.Sprintf("%d days ago", days)
	}
}
