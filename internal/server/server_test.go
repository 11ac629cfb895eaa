package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/devstreaks/internal/cache"
	"github.com/blackwell-systems/devstreaks/internal/platform"
	"github.com/blackwell-systems/devstreaks/internal/platform/github"
	"github.com/blackwell-systems/devstreaks/internal/report"
	"github.com/blackwell-systems/devstreaks/internal/store"
)

var now = time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC)

type fakeProvider struct {
	p    platform.Platform
	days map[string]int
	err  error
}

func (f *fakeProvider) Platform() platform.Platform { return f.p }

func (f *fakeProvider) Fetch(_ context.Context, username string) (platform.Activity, error) {
	if f.err != nil {
		return platform.Activity{}, f.err
	}
	return platform.Activity{Platform: f.p, Username: username, Days: f.days, FetchedAt: now}, nil
}

type fakeGitHub struct {
	fakeProvider
}

func (f *fakeGitHub) Repos(_ context.Context, username string) (github.Repos, error) {
	if username == "ghost" {
		return github.Repos{}, platform.ErrUserNotFound
	}
	return github.Repos{Starred: []github.Repo{{Name: "go", Stars: 120000, Language: "Go"}}}, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

func newTestServer(t *testing.T, providers ...platform.Provider) (*Server, *store.DB) {
	t.Helper()
	db, err := store.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	svc := report.NewService(nil, providers, report.WithClock(func() time.Time { return now }))
	return New(svc, db, nil), db
}

func do(t *testing.T, s *Server, method, target, body string) (int, envelope) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	status, env := do(t, s, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)
}

func TestGetReport(t *testing.T) {
	gh := &fakeGitHub{fakeProvider{p: platform.GitHub, days: map[string]int{"2024-01-01": 2, "2024-01-02": 0, "2024-01-03": 4}}}
	s, _ := newTestServer(t, gh)

	status, env := do(t, s, http.MethodGet, "/api/reports/github/octocat", "")
	require.Equal(t, http.StatusOK, status)
	require.True(t, env.Success)

	var r report.Report
	require.NoError(t, json.Unmarshal(env.Data, &r))
	assert.Equal(t, "octocat", r.Username)
	assert.Equal(t, 1, r.Streak.Current)
	assert.Equal(t, 6, r.Total)
}

func TestGetReport_CacheKeysOutliveRequests(t *testing.T) {
	gh := &fakeProvider{p: platform.GitHub, days: map[string]int{"2024-01-03": 1}}
	lc := &fakeProvider{p: platform.LeetCode, days: map[string]int{"2024-01-03": 1}}
	mem := cache.NewMemoryStore()
	svc := report.NewService(cache.New(mem, time.Hour), []platform.Provider{gh, lc},
		report.WithClock(func() time.Time { return now }))
	db, err := store.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	s := New(svc, db, nil)

	for _, target := range []string{
		"/api/reports/github/alice",
		"/api/reports/github/bobby",
		"/api/reports/github/zzzzz",
		"/api/dashboard?leetcode=carol",
		"/api/dashboard?leetcode=dave1",
	} {
		status, _ := do(t, s, http.MethodGet, target, "")
		require.Equal(t, http.StatusOK, status, target)
	}

	entries := mem.Entries()
	require.Len(t, entries, 5)
	var got []string
	for _, e := range entries {
		assert.Equal(t, e.Key.Username, e.Activity.Username)
		got = append(got, e.Key.String())
	}
	assert.Equal(t, []string{
		"github/alice", "github/bobby", "github/zzzzz",
		"leetcode/carol", "leetcode/dave1",
	}, got)
}

func TestGetReport_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target string
		want   int
	}{
		{"unknown platform", nil, "/api/reports/gitlab/octocat", http.StatusBadRequest},
		{"blank username", nil, "/api/reports/github/%20", http.StatusBadRequest},
		{"not found", platform.ErrUserNotFound, "/api/reports/github/ghost", http.StatusNotFound},
		{"missing token", platform.ErrMissingToken, "/api/reports/github/octocat", http.StatusServiceUnavailable},
		{"upstream", &platform.StatusError{Endpoint: "x", StatusCode: 500}, "/api/reports/github/octocat", http.StatusBadGateway},
		{"malformed", nil, "/api/reports/leetcode/coder", http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gh := &fakeProvider{p: platform.GitHub, err: tc.err}
			lc := &fakeProvider{p: platform.LeetCode, days: map[string]int{"not-a-day": 1}}
			s, _ := newTestServer(t, gh, lc)

			status, env := do(t, s, http.MethodGet, tc.target, "")
			assert.Equal(t, tc.want, status)
			assert.False(t, env.Success)
			assert.NotEmpty(t, env.Message)
		})
	}
}

func TestUnknownRoute(t *testing.T) {
	s, _ := newTestServer(t)
	status, env := do(t, s, http.MethodGet, "/api/nope", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.False(t, env.Success)
}

func TestProfileRoundTrip(t *testing.T) {
	s, _ := newTestServer(t)

	status, env := do(t, s, http.MethodPut, "/api/profile", `{"github":" octocat ","leetcode":"coder"}`)
	require.Equal(t, http.StatusOK, status)
	require.True(t, env.Success)

	status, env = do(t, s, http.MethodGet, "/api/profile", "")
	require.Equal(t, http.StatusOK, status)

	var prof store.Profile
	require.NoError(t, json.Unmarshal(env.Data, &prof))
	assert.Equal(t, "octocat", prof.GitHub)
	assert.Equal(t, "coder", prof.LeetCode)
}

func TestPutProfile_BadBody(t *testing.T) {
	s, _ := newTestServer(t)
	status, env := do(t, s, http.MethodPut, "/api/profile", `{"github":`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.False(t, env.Success)
}

func TestDashboard_FallsBackToProfile(t *testing.T) {
	gh := &fakeProvider{p: platform.GitHub, days: map[string]int{"2024-01-03": 1}}
	lc := &fakeProvider{p: platform.LeetCode, err: platform.ErrUserNotFound}
	s, db := newTestServer(t, gh, lc)

	status, _ := do(t, s, http.MethodGet, "/api/dashboard", "")
	assert.Equal(t, http.StatusBadRequest, status)

	_, err := db.SaveProfile(store.Profile{GitHub: "octocat", LeetCode: "ghost"})
	require.NoError(t, err)

	status, env := do(t, s, http.MethodGet, "/api/dashboard", "")
	require.Equal(t, http.StatusOK, status)

	var d report.Dashboard
	require.NoError(t, json.Unmarshal(env.Data, &d))
	require.Len(t, d.Results, 2)

	ghRes, ok := d.Get(platform.GitHub)
	require.True(t, ok)
	require.NotNil(t, ghRes.Report)
	assert.Equal(t, 1, ghRes.Report.Streak.Current)

	lcRes, ok := d.Get(platform.LeetCode)
	require.True(t, ok)
	assert.Nil(t, lcRes.Report)
	assert.Contains(t, lcRes.Error, "not found")
}

func TestDashboard_QueryOverridesProfile(t *testing.T) {
	gh := &fakeProvider{p: platform.GitHub, days: map[string]int{"2024-01-02": 1}}
	s, db := newTestServer(t, gh)
	_, err := db.SaveProfile(store.Profile{GitHub: "saved"})
	require.NoError(t, err)

	status, env := do(t, s, http.MethodGet, "/api/dashboard?github=query-user", "")
	require.Equal(t, http.StatusOK, status)

	var d report.Dashboard
	require.NoError(t, json.Unmarshal(env.Data, &d))
	require.Len(t, d.Results, 1)
	assert.Equal(t, "query-user", d.Results[0].Username)
}

func TestGetRepos(t *testing.T) {
	gh := &fakeGitHub{fakeProvider{p: platform.GitHub}}
	s, _ := newTestServer(t, gh)

	status, env := do(t, s, http.MethodGet, "/api/repos/octocat", "")
	require.Equal(t, http.StatusOK, status)

	var repos github.Repos
	require.NoError(t, json.Unmarshal(env.Data, &repos))
	require.Len(t, repos.Starred, 1)
	assert.Equal(t, "go", repos.Starred[0].Name)

	status, _ = do(t, s, http.MethodGet, "/api/repos/ghost", "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestGetRepos_Unsupported(t *testing.T) {
	s, _ := newTestServer(t, &fakeProvider{p: platform.GitHub})
	status, _ := do(t, s, http.MethodGet, "/api/repos/octocat", "")
	assert.Equal(t, http.StatusServiceUnavailable, status)
}
