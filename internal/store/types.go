// Package store provides SQLite persistence for devstreaks profiles, the
// fetch cache and streak history.
package store

import "time"

// DefaultProfile is the profile name used when none is given.
const DefaultProfile = "default"

// Profile holds the usernames a user tracks on each platform.
type Profile struct {
	Name      string    `json:"name"`
	GitHub    string    `json:"github"`
	LeetCode  string    `json:"leetcode"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsEmpty reports whether no username is set.
func (p Profile) IsEmpty() bool {
	return p.GitHub == "" && p.LeetCode == ""
}

// StreakSnapshot is one recorded streak reading for a platform user.
type StreakSnapshot struct {
	ID            int64     `json:"id"`
	TakenAt       time.Time `json:"taken_at"`
	Platform      string    `json:"platform"`
	Username      string    `json:"username"`
	CurrentStreak int       `json:"current_streak"`
	LongestStreak int       `json:"longest_streak"`
	Total         int       `json:"total"`
	ActiveDays    int       `json:"active_days"`
	SolvedTotal   *int      `json:"solved_total,omitempty"`
}

// CacheEntryInfo describes a stored cache entry without its payload.
type CacheEntryInfo struct {
	Platform string    `json:"platform"`
	Username string    `json:"username"`
	StoredAt time.Time `json:"stored_at"`
	Days     int       `json:"days"`
}

// SnapshotDiff compares the two most recent snapshots of a user.
type SnapshotDiff struct {
	Previous *StreakSnapshot `json:"previous"`
	Current  *StreakSnapshot `json:"current"`
	Deltas   []MetricDelta   `json:"deltas"`
}

// MetricDelta represents the change in a single metric between snapshots.
type MetricDelta struct {
	Name      string  `json:"name"`
	Previous  float64 `json:"previous"`
	Current   float64 `json:"current"`
	Delta     float64 `json:"delta"`
	Direction string  `json:"direction"` // "improved", "regressed", "unchanged"
}
