// Package report turns fetched platform activity into the statistics shown
// to the user.
package report

import (
	"fmt"
	"time"

	"github.com/blackwell-systems/devstreaks/internal/analyzer"
	"github.com/blackwell-systems/devstreaks/internal/platform"
	"github.com/blackwell-systems/devstreaks/internal/series"
)

// DefaultHeatmapDays is the length of the heatmap series.
const DefaultHeatmapDays = 90

// Report is the full set of statistics for one platform user.
type Report struct {
	Platform platform.Platform `json:"platform"`
	Username string            `json:"username"`

	Streak analyzer.StreakResult `json:"streak"`

	// DaysSinceLastActivity is analyzer.NeverActive when the user has no
	// recorded activity.
	DaysSinceLastActivity int    `json:"days_since_last_activity"`
	LastActive            string `json:"last_active"`

	// Totals over the whole fetched history.
	Total       int `json:"total"`
	ActiveDays  int `json:"active_days"`
	HistoryDays int `json:"history_days"`

	Weekly         analyzer.Summary `json:"weekly"`
	Monthly        analyzer.Summary `json:"monthly"`
	WeekOverWeek   int              `json:"week_over_week_pct"`
	MonthOverMonth int              `json:"month_over_month_pct"`

	Heatmap series.Series `json:"heatmap"`

	Solved *platform.SolvedStats `json:"solved,omitempty"`

	FetchedAt time.Time `json:"fetched_at"`
	Cached    bool      `json:"cached"`
}

// Build computes a Report from a fetched activity. Streaks, totals and
// summaries use the whole history ending today; the heatmap covers the last
// heatmapDays days.
func Build(a platform.Activity, today time.Time, heatmapDays int) (*Report, error) {
	history, err := series.Build(a.Days, series.AllHistory(), today)
	if err != nil {
		return nil, fmt.Errorf("building %s history for %q: %w", a.Platform, a.Username, err)
	}
	heat, err := series.Build(a.Days, series.LastDays(heatmapDays), today)
	if err != nil {
		return nil, fmt.Errorf("building %s heatmap for %q: %w", a.Platform, a.Username, err)
	}

	counts := history.Values()

	wow, err := analyzer.CompareTrailingWindows(counts, analyzer.WeekDays)
	if err != nil {
		return nil, err
	}
	mom, err := analyzer.CompareTrailingWindows(counts, analyzer.MonthDays)
	if err != nil {
		return nil, err
	}

	since := analyzer.DaysSinceLastActivity(counts)

	return &Report{
		Platform:              a.Platform,
		Username:              a.Username,
		Streak:                analyzer.Streaks(counts),
		DaysSinceLastActivity: since,
		LastActive:            analyzer.LastActiveLabel(since),
		Total:                 analyzer.TotalActivity(counts),
		ActiveDays:            analyzer.ActiveDays(counts),
		HistoryDays:           history.Len(),
		Weekly:                analyzer.WeeklySummary(counts),
		Monthly:               analyzer.MonthlySummary(counts),
		WeekOverWeek:          wow,
		MonthOverMonth:        mom,
		Heatmap:               heat,
		Solved:                a.Solved,
		FetchedAt:             a.FetchedAt,
	}, nil
}
