// Package series turns sparse per-day activity mappings into gap-free,
// chronologically ordered count series.
package series

import (
	"time"
)

// Window selects the range of days a Series covers.
type Window struct {
	days int
	all  bool
}

// LastDays is the window of n days ending today, inclusive.
func LastDays(n int) Window {
	return Window{days: n}
}

// AllHistory is the window from the earliest recorded day through today.
func AllHistory() Window {
	return Window{all: true}
}

// IsAll reports whether w spans the full available history.
func (w Window) IsAll() bool { return w.all }

// Days is the requested window size; zero for AllHistory.
func (w Window) Days() int { return w.days }

// Record is one day's activity count.
type Record struct {
	Day   time.Time `json:"date"`
	Count int       `json:"count"`
}

// Series is a gap-free run of daily counts. Counts[0] is the day Start and
// every following index is exactly one UTC day later.
type Series struct {
	Start  time.Time `json:"start"`
	Counts []int     `json:"counts"`
}

// Build normalizes counts into a Series over w, anchored at today.
//
// Days missing from counts are filled with zero. Days after today are
// dropped. An empty mapping is not an error: LastDays(n) yields n zeros and
// AllHistory yields an empty series.
func Build(counts map[string]int, w Window, today time.Time) (Series, error) {
	if !w.all && w.days <= 0 {
		return Series{}, ErrInvalidWindow
	}

	days, err := Normalize(counts)
	if err != nil {
		return Series{}, err
	}

	end := truncateDay(today)

	var start time.Time
	if w.all {
		earliest, ok := earliestDay(days, end)
		if !ok {
			return Series{Start: end, Counts: []int{}}, nil
		}
		start = earliest
	} else {
		start = end.AddDate(0, 0, -(w.days - 1))
	}

	var out []int
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		out = append(out, days[d])
	}

	return Series{Start: start, Counts: out}, nil
}

// earliestDay returns the first day in days that is not after end.
func earliestDay(days map[time.Time]int, end time.Time) (time.Time, bool) {
	var earliest time.Time
	found := false
	for d := range days {
		if d.After(end) {
			continue
		}
		if !found || d.Before(earliest) {
			earliest = d
			found = true
		}
	}
	return earliest, found
}

// Len is the number of days in the series.
func (s Series) Len() int { return len(s.Counts) }

// Values returns the ordered counts.
func (s Series) Values() []int { return s.Counts }

// Day returns the calendar day of index i.
func (s Series) Day(i int) time.Time {
	return s.Start.AddDate(0, 0, i)
}

// End returns the last day of the series, or Start when empty.
func (s Series) End() time.Time {
	if len(s.Counts) == 0 {
		return s.Start
	}
	return s.Day(len(s.Counts) - 1)
}

// Tail returns the trailing n days. A shorter series is returned whole.
func (s Series) Tail(n int) Series {
	if n <= 0 {
		return Series{Start: s.End().AddDate(0, 0, 1), Counts: []int{}}
	}
	if n >= len(s.Counts) {
		return s
	}
	offset := len(s.Counts) - n
	return Series{Start: s.Day(offset), Counts: s.Counts[offset:]}
}

// Records expands the series into dated records.
func (s Series) Records() []Record {
	recs := make([]Record, len(s.Counts))
	for i, c := range s.Counts {
		recs[i] = Record{Day: s.Day(i), Count: c}
	}
	return recs
}
