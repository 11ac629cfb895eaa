// Package github fetches contribution calendars and repositories from the
// GitHub GraphQL API.
package github

import (
	"context"
	"fmt"
	"time"

	"github.com/blackwell-systems/devstreaks/internal/platform"
	"github.com/blackwell-systems/devstreaks/internal/series"
)

// DefaultEndpoint is GitHub's GraphQL API.
const DefaultEndpoint = "https://api.github.com/graphql"

// contributionsCollection accepts at most one year between from and to.
const contributionsQuery = `
query ($username: String!, $from: DateTime!, $to: DateTime!) {
  user(login: $username) {
    contributionsCollection(from: $from, to: $to) {
      contributionCalendar {
        totalContributions
        weeks {
          contributionDays {
            date
            contributionCount
          }
        }
      }
    }
  }
}`

// Provider implements platform.Provider for GitHub.
type Provider struct {
	client *platform.GraphQLClient
	years  int
	now    func() time.Time
}

// Option configures a Provider.
type Option func(*Provider)

// WithHistoryYears sets how many one-year windows, ending today, are fetched.
func WithHistoryYears(n int) Option {
	return func(p *Provider) {
		if n > 0 {
			p.years = n
		}
	}
}

// WithClock overrides the clock used to anchor the history window.
func WithClock(now func() time.Time) Option {
	return func(p *Provider) { p.now = now }
}

// New returns a Provider posting through client. GitHub's GraphQL API
// rejects anonymous requests, so client must carry a token.
func New(client *platform.GraphQLClient, opts ...Option) *Provider {
	p := &Provider{
		client: client,
		years:  1,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Provider) Platform() platform.Platform {
	return platform.GitHub
}

type contributionDay struct {
	Date              string `json:"date"`
	ContributionCount int    `json:"contributionCount"`
}

type contributionsData struct {
	User *struct {
		ContributionsCollection struct {
			ContributionCalendar struct {
				TotalContributions int `json:"totalContributions"`
				Weeks              []struct {
					ContributionDays []contributionDay `json:"contributionDays"`
				} `json:"weeks"`
			} `json:"contributionCalendar"`
		} `json:"contributionsCollection"`
	} `json:"user"`
}

// Fetch returns the per-day contribution counts of username over the
// configured number of years, keyed by ISO date.
func (p *Provider) Fetch(ctx context.Context, username string) (platform.Activity, error) {
	user, err := platform.CleanUsername(username)
	if err != nil {
		return platform.Activity{}, err
	}
	if !p.client.HasToken() {
		return platform.Activity{}, fmt.Errorf("github: %w", platform.ErrMissingToken)
	}

	now := p.now().UTC()
	days := make(map[string]int)

	for _, w := range yearWindows(now, p.years) {
		var data contributionsData
		vars := map[string]any{
			"username": user,
			"from":     w.from.Format(time.RFC3339),
			"to":       w.to.Format(time.RFC3339),
		}
		err = p.client.Do(ctx, contributionsQuery, vars, &data)
		if platform.IsMissingUser(err, data.User == nil) {
			return platform.Activity{}, fmt.Errorf("github: %q: %w", user, platform.ErrUserNotFound)
		}
		if err != nil {
			return platform.Activity{}, fmt.Errorf("github: fetch contributions: %w", err)
		}

		// Windows cover disjoint whole days.
		for _, week := range data.User.ContributionsCollection.ContributionCalendar.Weeks {
			for _, d := range week.ContributionDays {
				days[d.Date] = d.ContributionCount
			}
		}
	}

	return platform.Activity{
		Platform:  platform.GitHub,
		Username:  user,
		Days:      days,
		FetchedAt: now,
	}, nil
}

type window struct {
	from, to time.Time
}

// yearWindows splits the n years ending with today (UTC) into one-year
// windows of whole days, oldest first. No day falls in two windows.
func yearWindows(now time.Time, n int) []window {
	windows := make([]window, n)
	end := series.Today(now).AddDate(0, 0, 1)
	for i := n - 1; i >= 0; i-- {
		start := end.AddDate(-1, 0, 0)
		windows[i] = window{from: start, to: end.Add(-time.Second)}
		end = start
	}
	return windows
}
