// Package watcher polls streaks at a regular interval and raises alerts when
// a streak grows, breaks, or is about to break.
package watcher

import (
	"context"
	"time"

	"github.com/blackwell-systems/devstreaks/internal/platform"
	"github.com/blackwell-systems/devstreaks/internal/report"
)

// Alert levels.
const (
	LevelInfo     = "info"
	LevelWarning  = "warning"
	LevelCritical = "critical"
)

// Alert represents a notable event detected by the watcher.
type Alert struct {
	Level    string
	Platform platform.Platform
	Title    string
	Message  string
	Time     time.Time
}

// PlatformState is the streak reading of one platform at one check.
type PlatformState struct {
	Username  string
	Current   int
	Longest   int
	DaysSince int

	// Err is set when the fetch failed; the other fields are then zero.
	Err string
}

// State captures the streaks of every watched platform at a point in time.
type State struct {
	Timestamp time.Time
	Platforms map[platform.Platform]PlatformState
}

// Source produces reports for a set of usernames. *report.Service
// satisfies it.
type Source interface {
	Dashboard(ctx context.Context, usernames map[platform.Platform]string) *report.Dashboard
}

// Watcher checks streaks at an interval and emits alerts.
type Watcher struct {
	src           Source
	usernames     map[platform.Platform]string
	interval      time.Duration
	previous      *State
	alertFn       func(Alert)
	lastAlertKeys map[string]bool // suppresses repeats of an unchanged alert
	now           func() time.Time
}

// New creates a Watcher for the given usernames.
func New(src Source, usernames map[platform.Platform]string, interval time.Duration, alertFn func(Alert)) *Watcher {
	return &Watcher{
		src:           src,
		usernames:     usernames,
		interval:      interval,
		alertFn:       alertFn,
		lastAlertKeys: make(map[string]bool),
		now:           time.Now,
	}
}

// Run checks immediately and then at every interval, emitting alerts
// through the callback. Blocks until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	w.emit(w.Check(ctx))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.emit(w.Check(ctx))
		}
	}
}

func (w *Watcher) emit(alerts []Alert) {
	if w.alertFn == nil {
		return
	}
	for _, a := range alerts {
		w.alertFn(a)
	}
}

// Previous returns the state recorded by the last Check, or nil.
func (w *Watcher) Previous() *State { return w.previous }

// Check takes a new snapshot, compares it with the previous one and returns
// the alerts that were not already raised by the previous check.
func (w *Watcher) Check(ctx context.Context) []Alert {
	curr := w.Snapshot(ctx)

	var raw []Alert
	if w.previous != nil {
		raw = Compare(w.previous, curr)
	}
	raw = append(raw, AtRisk(curr)...)

	currentKeys := make(map[string]bool, len(raw))
	var alerts []Alert
	for _, a := range raw {
		key := a.Level + ":" + string(a.Platform) + ":" + a.Title + ":" + a.Message
		currentKeys[key] = true
		if !w.lastAlertKeys[key] {
			alerts = append(alerts, a)
		}
	}
	w.lastAlertKeys = currentKeys

	w.previous = curr
	return alerts
}

// Snapshot fetches the current streaks of every watched platform.
func (w *Watcher) Snapshot(ctx context.Context) *State {
	dash := w.src.Dashboard(ctx, w.usernames)

	state := &State{
		Timestamp: w.now(),
		Platforms: make(map[platform.Platform]PlatformState, len(dash.Results)),
	}
	for _, res := range dash.Results {
		ps := PlatformState{Username: res.Username}
		if res.Err != nil {
			ps.Err = res.Error
		} else {
			ps.Current = res.Report.Streak.Current
			ps.Longest = res.Report.Streak.Longest
			ps.DaysSince = res.Report.DaysSinceLastActivity
		}
		state.Platforms[res.Platform] = ps
	}
	return state
}
