// Package leetcode fetches submission calendars and solved-problem counts
// from the LeetCode GraphQL API.
package leetcode

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/blackwell-systems/devstreaks/internal/platform"
)

// DefaultEndpoint is LeetCode's public GraphQL API.
const DefaultEndpoint = "https://leetcode.com/graphql"

const profileQuery = `
query ($username: String!) {
  matchedUser(username: $username) {
    submissionCalendar
    submitStats {
      acSubmissionNum {
        difficulty
        count
      }
    }
  }
}`

// Provider implements platform.Provider for LeetCode.
type Provider struct {
	client *platform.GraphQLClient
	now    func() time.Time
}

// New returns a Provider posting through client. No token is required.
func New(client *platform.GraphQLClient) *Provider {
	return &Provider{client: client, now: time.Now}
}

func (p *Provider) Platform() platform.Platform {
	return platform.LeetCode
}

type profileData struct {
	MatchedUser *struct {
		// SubmissionCalendar is a JSON object encoded as a string, mapping
		// epoch seconds to accepted submissions on that day.
		SubmissionCalendar string `json:"submissionCalendar"`
		SubmitStats        struct {
			ACSubmissionNum []struct {
				Difficulty string `json:"difficulty"`
				Count      int    `json:"count"`
			} `json:"acSubmissionNum"`
		} `json:"submitStats"`
	} `json:"matchedUser"`
}

// Fetch returns username's submission calendar keyed by epoch seconds, plus
// solved counts by difficulty.
func (p *Provider) Fetch(ctx context.Context, username string) (platform.Activity, error) {
	user, err := platform.CleanUsername(username)
	if err != nil {
		return platform.Activity{}, err
	}

	var data profileData
	err = p.client.Do(ctx, profileQuery, map[string]any{"username": user}, &data)
	if platform.IsMissingUser(err, data.MatchedUser == nil) {
		return platform.Activity{}, fmt.Errorf("leetcode: %q: %w", user, platform.ErrUserNotFound)
	}
	if err != nil {
		return platform.Activity{}, fmt.Errorf("leetcode: fetch profile: %w", err)
	}

	days, err := parseCalendar(data.MatchedUser.SubmissionCalendar)
	if err != nil {
		return platform.Activity{}, fmt.Errorf("leetcode: %w", err)
	}

	solved := platform.SolvedStats{}
	for _, s := range data.MatchedUser.SubmitStats.ACSubmissionNum {
		switch s.Difficulty {
		case "Easy":
			solved.Easy = s.Count
		case "Medium":
			solved.Medium = s.Count
		case "Hard":
			solved.Hard = s.Count
		case "All":
			solved.Total = s.Count
		}
	}

	return platform.Activity{
		Platform:  platform.LeetCode,
		Username:  user,
		Days:      days,
		Solved:    &solved,
		FetchedAt: p.now().UTC(),
	}, nil
}

// parseCalendar decodes the string-encoded submission calendar. Keys are
// kept as-is; the series builder normalizes them.
func parseCalendar(raw string) (map[string]int, error) {
	days := make(map[string]int)
	if raw == "" {
		return days, nil
	}
	if err := json.Unmarshal([]byte(raw), &days); err != nil {
		return nil, fmt.Errorf("decode submission calendar: %w", err)
	}
	return days, nil
}
