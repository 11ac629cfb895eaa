// Package platform defines the contract between devstreaks and the remote
// activity sources it reads from.
package platform

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Platform identifies an activity source.
type Platform string

const (
	GitHub   Platform = "github"
	LeetCode Platform = "leetcode"
)

// All lists the supported platforms in display order.
var All = []Platform{GitHub, LeetCode}

// Parse resolves a platform name, case-insensitively.
func Parse(name string) (Platform, error) {
	p := Platform(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range All {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPlatform, name)
}

// Title is the display name of p.
func (p Platform) Title() string {
	switch p {
	case GitHub:
		return "GitHub"
	case LeetCode:
		return "LeetCode"
	default:
		return string(p)
	}
}

var (
	ErrUnknownPlatform = errors.New("unknown platform")
	ErrUserNotFound    = errors.New("user not found")
	ErrEmptyUsername   = errors.New("username is empty")
	ErrMissingToken    = errors.New("missing API token")
)

// SolvedStats counts accepted problems by difficulty. Total is reported by
// the judge and is not required to equal the sum of the other fields.
type SolvedStats struct {
	Easy   int `json:"easy"`
	Medium int `json:"medium"`
	Hard   int `json:"hard"`
	Total  int `json:"total"`
}

// Activity is the raw result of one fetch.
type Activity struct {
	Platform Platform `json:"platform"`
	Username string   `json:"username"`

	// Days maps a day-bucket key (ISO date or epoch seconds) to a count.
	Days map[string]int `json:"days"`

	// Solved is only set by judge platforms.
	Solved *SolvedStats `json:"solved,omitempty"`

	FetchedAt time.Time `json:"fetched_at"`
}

// Provider fetches activity for one platform.
type Provider interface {
	Platform() Platform
	Fetch(ctx context.Context, username string) (Activity, error)
}

// CleanUsername trims surrounding whitespace and rejects empty names.
func CleanUsername(username string) (string, error) {
	u := strings.TrimSpace(username)
	if u == "" {
		return "", ErrEmptyUsername
	}
	return u, nil
}
