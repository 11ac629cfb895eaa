package store

import (
	"database/sql"
	"time"
)

// InsertStreakSnapshot records a streak reading and returns its ID.
func (db *DB) InsertStreakSnapshot(s *StreakSnapshot) (int64, error) {
	if s.TakenAt.IsZero() {
		s.TakenAt = time.Now().UTC()
	}
	var solved sql.NullInt64
	if s.SolvedTotal != nil {
		solved = sql.NullInt64{Int64: int64(*s.SolvedTotal), Valid: true}
	}

	result, err := db.conn.Exec(
		`INSERT INTO streak_snapshots
		(taken_at, platform, username, current_streak, longest_streak, total, active_days, solved_total)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.TakenAt.UTC().Format(time.RFC3339), s.Platform, s.Username,
		s.CurrentStreak, s.LongestStreak, s.Total, s.ActiveDays, solved,
	)
	if err != nil {
		return 0, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	s.ID = id
	return id, nil
}

// GetStreakHistory returns up to n snapshots for a user, most recent first.
func (db *DB) GetStreakHistory(platform, username string, n int) ([]StreakSnapshot, error) {
	if n <= 0 {
		n = 1
	}
	rows, err := db.conn.Query(
		`SELECT id, taken_at, platform, username, current_streak, longest_streak,
		 total, active_days, solved_total
		 FROM streak_snapshots WHERE platform = ? AND username = ?
		 ORDER BY id DESC LIMIT ?`,
		platform, username, n,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var snaps []StreakSnapshot
	for rows.Next() {
		var s StreakSnapshot
		var takenAt string
		var solved sql.NullInt64
		if err := rows.Scan(
			&s.ID, &takenAt, &s.Platform, &s.Username, &s.CurrentStreak,
			&s.LongestStreak, &s.Total, &s.ActiveDays, &solved,
		); err != nil {
			return nil, err
		}
		s.TakenAt, _ = time.Parse(time.RFC3339, takenAt)
		if solved.Valid {
			v := int(solved.Int64)
			s.SolvedTotal = &v
		}
		snaps = append(snaps, s)
	}
	return snaps, rows.Err()
}

// CompareLatest diffs the two most recent snapshots of a user. It returns
// nil when fewer than two snapshots exist.
func (db *DB) CompareLatest(platform, username string) (*SnapshotDiff, error) {
	snaps, err := db.GetStreakHistory(platform, username, 2)
	if err != nil {
		return nil, err
	}
	if len(snaps) < 2 {
		return nil, nil
	}
	cur, prev := snaps[0], snaps[1]

	diff := &SnapshotDiff{Previous: &prev, Current: &cur}
	diff.Deltas = append(diff.Deltas,
		newDelta("current_streak", prev.CurrentStreak, cur.CurrentStreak),
		newDelta("longest_streak", prev.LongestStreak, cur.LongestStreak),
		newDelta("total", prev.Total, cur.Total),
		newDelta("active_days", prev.ActiveDays, cur.ActiveDays),
	)
	if prev.SolvedTotal != nil && cur.SolvedTotal != nil {
		diff.Deltas = append(diff.Deltas, newDelta("solved_total", *prev.SolvedTotal, *cur.SolvedTotal))
	}
	return diff, nil
}

// newDelta builds a delta for a metric where higher is better.
func newDelta(name string, prev, cur int) MetricDelta {
	d := MetricDelta{
		Name:     name,
		Previous: float64(prev),
		Current:  float64(cur),
		Delta:    float64(cur - prev),
	}
	switch {
	case cur > prev:
		d.Direction = "improved"
	case cur < prev:
		d.Direction = "regressed"
	default:
		d.Direction = "unchanged"
	}
	return d
}
