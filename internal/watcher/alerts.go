package watcher

import (
	"fmt"

	"github.com/blackwell-systems/devstreaks/internal/platform"
)

// Compare detects streak changes between two states. Platforms that failed
// in either state are only reported as fetch failures.
func Compare(prev, curr *State) []Alert {
	var alerts []Alert
	for _, p := range platform.All {
		c, ok := curr.Platforms[p]
		if !ok {
			continue
		}
		pr, had := prev.Platforms[p]

		if c.Err != "" {
			if !had || pr.Err == "" {
				alerts = append(alerts, Alert{
					Level:    LevelWarning,
					Platform: p,
					Title:    fmt.Sprintf("%s fetch failed", p.Title()),
					Message:  c.Err,
					Time:     curr.Timestamp,
				})
			}
			continue
		}
		if !had || pr.Err != "" || pr.Username != c.Username {
			continue
		}

		// Current keeps its last value once activity stops, so a break is
		// seen as the last active day slipping past yesterday.
		switch {
		case pr.Current > 0 && pr.DaysSince <= 1 && c.DaysSince >= 2:
			alerts = append(alerts, Alert{
				Level:    LevelCritical,
				Platform: p,
				Title:    fmt.Sprintf("%s streak broken", p.Title()),
				Message:  fmt.Sprintf("%s's %d-day streak ended", c.Username, pr.Current),
				Time:     curr.Timestamp,
			})
		case c.Current > pr.Current:
			alerts = append(alerts, Alert{
				Level:    LevelInfo,
				Platform: p,
				Title:    fmt.Sprintf("%s streak extended", p.Title()),
				Message:  fmt.Sprintf("%s is on a %d-day streak", c.Username, c.Current),
				Time:     curr.Timestamp,
			})
		}

		if c.Longest > pr.Longest && c.Current == c.Longest {
			alerts = append(alerts, Alert{
				Level:    LevelInfo,
				Platform: p,
				Title:    fmt.Sprintf("New longest %s streak", p.Title()),
				Message:  fmt.Sprintf("%d days, up from %d", c.Longest, pr.Longest),
				Time:     curr.Timestamp,
			})
		}
	}
	return alerts
}

// AtRisk warns about streaks that end today unless there is new activity:
// the last active day was yesterday.
func AtRisk(curr *State) []Alert {
	var alerts []Alert
	for _, p := range platform.All {
		c, ok := curr.Platforms[p]
		if !ok || c.Err != "" {
			continue
		}
		if c.Current > 0 && c.DaysSince == 1 {
			alerts = append(alerts, Alert{
				Level:    LevelWarning,
				Platform: p,
				Title:    fmt.Sprintf("%s streak at risk", p.Title()),
				Message:  fmt.Sprintf("No activity yet today; %d-day streak ends at midnight UTC", c.Current),
				Time:     curr.Timestamp,
			})
		}
	}
	return alerts
}
