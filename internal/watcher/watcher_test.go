package watcher

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/devstreaks/internal/analyzer"
	"github.com/blackwell-systems/devstreaks/internal/platform"
	"github.com/blackwell-systems/devstreaks/internal/report"
)

// scriptedSource returns one dashboard per call, repeating the last.
type scriptedSource struct {
	dashboards []*report.Dashboard
	calls      int
}

func (s *scriptedSource) Dashboard(context.Context, map[platform.Platform]string) *report.Dashboard {
	d := s.dashboards[min(s.calls, len(s.dashboards)-1)]
	s.calls++
	return d
}

func ghResult(current, longest, since int) report.PlatformResult {
	return report.PlatformResult{
		Platform: platform.GitHub,
		Username: "octocat",
		Report: &report.Report{
			Platform:              platform.GitHub,
			Username:              "octocat",
			Streak:                analyzer.StreakResult{Current: current, Longest: longest},
			DaysSinceLastActivity: since,
		},
	}
}

func dash(results ...report.PlatformResult) *report.Dashboard {
	return &report.Dashboard{Results: results}
}

func titles(alerts []Alert) []string {
	out := make([]string, len(alerts))
	for i, a := range alerts {
		out[i] = a.Title
	}
	return out
}

func TestCheck_FirstCheckOnlyReportsRisk(t *testing.T) {
	src := &scriptedSource{dashboards: []*report.Dashboard{dash(ghResult(3, 5, 1))}}
	w := New(src, nil, time.Minute, nil)

	alerts := w.Check(context.Background())
	assert.Equal(t, []string{"GitHub streak at risk"}, titles(alerts))
	require.NotNil(t, w.Previous())
	assert.Equal(t, 3, w.Previous().Platforms[platform.GitHub].Current)
}

func TestCheck_ExtendedAndNewLongest(t *testing.T) {
	src := &scriptedSource{dashboards: []*report.Dashboard{
		dash(ghResult(5, 5, 1)),
		dash(ghResult(6, 6, 0)),
	}}
	w := New(src, nil, time.Minute, nil)
	w.Check(context.Background())

	alerts := w.Check(context.Background())
	assert.Equal(t, []string{"GitHub streak extended", "New longest GitHub streak"}, titles(alerts))
}

type fixedProvider struct {
	days map[string]int
}

func (f *fixedProvider) Platform() platform.Platform { return platform.GitHub }

func (f *fixedProvider) Fetch(_ context.Context, username string) (platform.Activity, error) {
	return platform.Activity{Platform: platform.GitHub, Username: username, Days: f.days}, nil
}

func TestCheck_BrokenAfterMissedDay(t *testing.T) {
	clock := time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC)
	prov := &fixedProvider{days: map[string]int{"2024-01-01": 1, "2024-01-02": 2, "2024-01-03": 1}}
	svc := report.NewService(nil, []platform.Provider{prov},
		report.WithClock(func() time.Time { return clock }))
	w := New(svc, map[platform.Platform]string{platform.GitHub: "octocat"}, time.Minute, nil)

	tests := []struct {
		day        int
		wantTitles []string
	}{
		{3, []string{}},
		{4, []string{"GitHub streak at risk"}},
		{5, []string{"GitHub streak broken"}},
		{6, []string{}},
		{7, []string{}},
	}
	for _, tc := range tests {
		clock = time.Date(2024, 1, tc.day, 12, 0, 0, 0, time.UTC)
		alerts := w.Check(context.Background())
		assert.Equal(t, tc.wantTitles, titles(alerts), "2024-01-%02d", tc.day)

		// The streak value itself never drops once activity stops.
		assert.Equal(t, 3, w.Previous().Platforms[platform.GitHub].Current)
		if tc.day == 5 {
			require.Len(t, alerts, 1)
			assert.Equal(t, LevelCritical, alerts[0].Level)
			assert.Contains(t, alerts[0].Message, "3-day streak")
		}
	}
}

func TestCompare_Broken(t *testing.T) {
	prev := &State{Platforms: map[platform.Platform]PlatformState{
		platform.GitHub: {Username: "octocat", Current: 4, Longest: 9, DaysSince: 1},
	}}
	curr := &State{Platforms: map[platform.Platform]PlatformState{
		platform.GitHub: {Username: "octocat", Current: 4, Longest: 9, DaysSince: 2},
	}}
	alerts := Compare(prev, curr)
	require.Len(t, alerts, 1)
	assert.Equal(t, LevelCritical, alerts[0].Level)
	assert.Contains(t, alerts[0].Message, "4-day streak")

	// Already broken before the previous check: nothing new.
	prev.Platforms[platform.GitHub] = PlatformState{Username: "octocat", Current: 4, Longest: 9, DaysSince: 2}
	curr.Platforms[platform.GitHub] = PlatformState{Username: "octocat", Current: 4, Longest: 9, DaysSince: 3}
	assert.Empty(t, Compare(prev, curr))
}

func TestCheck_DeduplicatesUnchangedAlerts(t *testing.T) {
	src := &scriptedSource{dashboards: []*report.Dashboard{dash(ghResult(2, 2, 1))}}
	w := New(src, nil, time.Minute, nil)

	assert.Len(t, w.Check(context.Background()), 1)
	assert.Empty(t, w.Check(context.Background()))
	assert.Empty(t, w.Check(context.Background()))
}

func TestCheck_FetchFailure(t *testing.T) {
	failed := report.PlatformResult{
		Platform: platform.GitHub,
		Username: "octocat",
		Err:      errors.New("boom"),
		Error:    "boom",
	}
	src := &scriptedSource{dashboards: []*report.Dashboard{
		dash(ghResult(4, 4, 0)),
		dash(failed),
		dash(failed),
		dash(ghResult(4, 4, 2)),
	}}
	w := New(src, nil, time.Minute, nil)
	w.Check(context.Background())

	alerts := w.Check(context.Background())
	require.Len(t, alerts, 1)
	assert.Equal(t, LevelWarning, alerts[0].Level)
	assert.Equal(t, "boom", alerts[0].Message)

	assert.Empty(t, w.Check(context.Background()))

	// Recovery compares against a failed reading, so no broken-streak alert.
	assert.Empty(t, w.Check(context.Background()))
}

func TestCompare_UsernameChange(t *testing.T) {
	prev := &State{Platforms: map[platform.Platform]PlatformState{
		platform.GitHub: {Username: "a", Current: 5, Longest: 5},
	}}
	curr := &State{Platforms: map[platform.Platform]PlatformState{
		platform.GitHub: {Username: "b", Current: 0, Longest: 1},
	}}
	assert.Empty(t, Compare(prev, curr))
}

func TestAtRisk(t *testing.T) {
	state := &State{Platforms: map[platform.Platform]PlatformState{
		platform.GitHub:   {Current: 3, DaysSince: 0},
		platform.LeetCode: {Current: 7, DaysSince: 1},
	}}
	alerts := AtRisk(state)
	require.Len(t, alerts, 1)
	assert.Equal(t, platform.LeetCode, alerts[0].Platform)
	assert.Contains(t, alerts[0].Message, "7-day streak")
}

func TestRun_StopsOnCancel(t *testing.T) {
	src := &scriptedSource{dashboards: []*report.Dashboard{dash(ghResult(1, 1, 1))}}
	var got []Alert
	w := New(src, nil, time.Hour, func(a Alert) { got = append(got, a) })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := w.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, got, 1)
}

func TestWriteAlert(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeAlert(&buf, Alert{Level: LevelInfo, Title: "GitHub streak extended", Message: "6 days"}))
	assert.Equal(t, "[info] GitHub streak extended: 6 days\n", buf.String())
}
