package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLongestStreak(t *testing.T) {
	tests := []struct {
		name   string
		series []int
		want   int
	}{
		{"nil", nil, 0},
		{"empty", []int{}, 0},
		{"all zero", []int{0, 0, 0}, 0},
		{"single active", []int{0, 4, 0}, 1},
		{"two runs", []int{1, 1, 0, 1, 1, 1, 0}, 3},
		{"run at end", []int{0, 2, 3, 5}, 3},
		{"no zeros", []int{1, 2, 3, 4}, 4},
		{"scenario", []int{2, 0, 4}, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, LongestStreak(tc.series))
		})
	}
}

func TestCurrentStreak(t *testing.T) {
	tests := []struct {
		name   string
		series []int
		want   int
	}{
		{"nil", nil, 0},
		{"all zero", []int{0, 0, 0, 0}, 0},
		{"today not yet recorded", []int{1, 1, 1, 0}, 3},
		{"internal gap resets", []int{1, 1, 0, 1}, 1},
		{"several trailing zeros", []int{3, 3, 0, 0, 0}, 2},
		{"active today", []int{0, 1, 1}, 2},
		{"whole series", []int{5, 5, 5}, 3},
		{"single zero", []int{0}, 0},
		{"single active", []int{2}, 1},
		{"scenario", []int{2, 0, 4}, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CurrentStreak(tc.series))
		})
	}
}

func TestStreaks_NoZerosMatchLength(t *testing.T) {
	for n := 1; n <= 30; n++ {
		s := make([]int, n)
		for i := range s {
			s[i] = i%4 + 1
		}
		got := Streaks(s)
		assert.Equal(t, StreakResult{Current: n, Longest: n}, got, "n=%d", n)
	}
}

func TestStreaks_Idempotent(t *testing.T) {
	s := []int{0, 3, 1, 0, 2, 2, 2, 0, 0}
	snapshot := append([]int(nil), s...)

	first := Streaks(s)
	second := Streaks(s)

	assert.Equal(t, first, second)
	assert.Equal(t, snapshot, s, "series must not be mutated")
	assert.Equal(t, StreakResult{Current: 3, Longest: 3}, first)
}

func TestDaysSinceLastActivity(t *testing.T) {
	assert.Equal(t, NeverActive, DaysSinceLastActivity(nil))
	assert.Equal(t, NeverActive, DaysSinceLastActivity([]int{0, 0, 0}))
	assert.Equal(t, 0, DaysSinceLastActivity([]int{0, 0, 1}))
	assert.Equal(t, 2, DaysSinceLastActivity([]int{4, 0, 0}))
	assert.Equal(t, 1, DaysSinceLastActivity([]int{1, 1, 1, 0}))
}

func TestLastActiveLabel(t *testing.T) {
	assert.Equal(t, "Never", LastActiveLabel(NeverActive))
	assert.Equal(t, "Today", LastActiveLabel(0))
	assert.Equal(t, "1 day ago", LastActiveLabel(1))
	assert.Equal(t, "12 days ago", LastActiveLabel(12))
}
