package github

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/blackwell-systems/devstreaks/internal/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// newServer replies to each request with the next body in responses.
func newServer(t *testing.T, responses ...string) (*httptest.Server, *[]capturedRequest) {
	t.Helper()
	var mu sync.Mutex
	var captured []capturedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		var req capturedRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		captured = append(captured, req)
		idx := len(captured) - 1
		if idx >= len(responses) {
			idx = len(responses) - 1
		}
		_, _ = w.Write([]byte(responses[idx]))
	}))
	t.Cleanup(srv.Close)
	return srv, &captured
}

func fixedClock() time.Time {
	return time.Date(2024, 1, 3, 15, 0, 0, 0, time.UTC)
}

const calendarBody = `{"data":{"user":{"contributionsCollection":{"contributionCalendar":{
  "totalContributions": 6,
  "weeks":[
    {"contributionDays":[{"date":"2024-01-01","contributionCount":2},{"date":"2024-01-02","contributionCount":0}]},
    {"contributionDays":[{"date":"2024-01-03","contributionCount":4}]}
  ]}}}}}`

func TestFetch_FlattensCalendar(t *testing.T) {
	srv, captured := newServer(t, calendarBody)
	client := platform.NewGraphQLClient(platform.ClientOptions{Endpoint: srv.URL, Token: "t"})
	p := New(client, WithClock(fixedClock))

	act, err := p.Fetch(context.Background(), "  octocat ")
	require.NoError(t, err)

	assert.Equal(t, platform.GitHub, act.Platform)
	assert.Equal(t, "octocat", act.Username)
	assert.Equal(t, map[string]int{"2024-01-01": 2, "2024-01-02": 0, "2024-01-03": 4}, act.Days)
	assert.Nil(t, act.Solved)

	require.Len(t, *captured, 1)
	req := (*captured)[0]
	assert.Equal(t, "octocat", req.Variables["username"])
	assert.Equal(t, "2024-01-03T23:59:59Z", req.Variables["to"])
	assert.Equal(t, "2023-01-04T00:00:00Z", req.Variables["from"])
	assert.True(t, strings.Contains(req.Query, "contributionCalendar"))
}

func TestFetch_MultipleYearsMerged(t *testing.T) {
	older := `{"data":{"user":{"contributionsCollection":{"contributionCalendar":{"weeks":[
	  {"contributionDays":[{"date":"2022-12-31","contributionCount":1},{"date":"2023-01-03","contributionCount":5}]}]}}}}}`
	srv, captured := newServer(t, older, calendarBody)
	client := platform.NewGraphQLClient(platform.ClientOptions{Endpoint: srv.URL, Token: "t"})
	p := New(client, WithClock(fixedClock), WithHistoryYears(2))

	act, err := p.Fetch(context.Background(), "octocat")
	require.NoError(t, err)

	require.Len(t, *captured, 2)
	assert.Equal(t, "2022-01-04T00:00:00Z", (*captured)[0].Variables["from"])
	assert.Equal(t, "2023-01-03T23:59:59Z", (*captured)[0].Variables["to"])
	assert.Equal(t, "2023-01-04T00:00:00Z", (*captured)[1].Variables["from"])

	assert.Equal(t, 1, act.Days["2022-12-31"])
	assert.Equal(t, 5, act.Days["2023-01-03"])
	assert.Equal(t, 4, act.Days["2024-01-03"])
}

func TestFetch_UserNotFound(t *testing.T) {
	srv, _ := newServer(t, `{"data":{"user":null}}`)
	client := platform.NewGraphQLClient(platform.ClientOptions{Endpoint: srv.URL, Token: "t"})

	_, err := New(client).Fetch(context.Background(), "ghost")
	assert.ErrorIs(t, err, platform.ErrUserNotFound)
}

func TestFetch_UserNotFoundWithErrors(t *testing.T) {
	srv, _ := newServer(t, `{"data":{"user":null},"errors":[{"type":"NOT_FOUND","message":"Could not resolve to a User with the login of 'ghost'."}]}`)
	client := platform.NewGraphQLClient(platform.ClientOptions{Endpoint: srv.URL, Token: "t"})

	_, err := New(client).Fetch(context.Background(), "ghost")
	assert.ErrorIs(t, err, platform.ErrUserNotFound)

	_, err = New(client).Repos(context.Background(), "ghost")
	assert.ErrorIs(t, err, platform.ErrUserNotFound)
}

func TestFetch_MissingToken(t *testing.T) {
	client := platform.NewGraphQLClient(platform.ClientOptions{Endpoint: "http://127.0.0.1:0"})
	_, err := New(client).Fetch(context.Background(), "octocat")
	assert.ErrorIs(t, err, platform.ErrMissingToken)
}

func TestFetch_EmptyUsername(t *testing.T) {
	client := platform.NewGraphQLClient(platform.ClientOptions{Endpoint: "http://127.0.0.1:0", Token: "t"})
	_, err := New(client).Fetch(context.Background(), " ")
	assert.ErrorIs(t, err, platform.ErrEmptyUsername)
}

func TestRepos(t *testing.T) {
	body := `{"data":{"user":{
	  "starredRepositories":{"nodes":[{"id":"1","name":"go","description":"The Go language","stargazerCount":120000,"primaryLanguage":{"name":"Go"},"url":"https://github.com/golang/go"}]},
	  "repositories":{"nodes":[{"id":"2","name":"dotfiles","description":"","stargazerCount":3,"primaryLanguage":null,"url":"https://github.com/octocat/dotfiles"}]}
	}}}`
	srv, captured := newServer(t, body)
	client := platform.NewGraphQLClient(platform.ClientOptions{Endpoint: srv.URL, Token: "t"})

	repos, err := New(client).Repos(context.Background(), "octocat")
	require.NoError(t, err)

	require.Len(t, repos.Starred, 1)
	assert.Equal(t, "Go", repos.Starred[0].Language)
	assert.Equal(t, 120000, repos.Starred[0].Stars)

	require.Len(t, repos.Popular, 1)
	assert.Equal(t, "No description", repos.Popular[0].Description)
	assert.Equal(t, "—", repos.Popular[0].Language)

	assert.EqualValues(t, DefaultRepoCount, (*captured)[0].Variables["first"])
}

func TestYearWindows(t *testing.T) {
	now := fixedClock()
	w := yearWindows(now, 3)
	require.Len(t, w, 3)

	assert.Equal(t, time.Date(2024, 1, 3, 23, 59, 59, 0, time.UTC), w[2].to)
	assert.Equal(t, time.Date(2023, 1, 4, 0, 0, 0, 0, time.UTC), w[2].from)
	assert.Equal(t, time.Date(2021, 1, 4, 0, 0, 0, 0, time.UTC), w[0].from)

	for i, win := range w {
		// Every window starts at midnight and ends on the last second of a day.
		assert.Equal(t, win.from, win.from.Truncate(24*time.Hour), "window %d from", i)
		assert.Equal(t, win.to.Add(time.Second), win.to.Add(time.Second).Truncate(24*time.Hour), "window %d to", i)
		// GitHub rejects spans longer than a year.
		assert.False(t, win.to.After(win.from.AddDate(1, 0, 0)), "window %d span", i)
		if i > 0 {
			assert.Equal(t, w[i-1].to.Add(time.Second), win.from, "window %d adjoins %d", i, i-1)
		}
	}
}

func TestYearWindows_BoundaryDayInOneWindow(t *testing.T) {
	w := yearWindows(time.Date(2024, 1, 3, 0, 0, 1, 0, time.UTC), 2)
	boundary := time.Date(2023, 1, 3, 12, 0, 0, 0, time.UTC)

	var hits int
	for _, win := range w {
		if !boundary.Before(win.from) && !boundary.After(win.to) {
			hits++
		}
	}
	assert.Equal(t, 1, hits)
}
