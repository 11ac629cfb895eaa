package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/blackwell-systems/devstreaks/internal/cache"
	"github.com/blackwell-systems/devstreaks/internal/platform"
	"github.com/blackwell-systems/devstreaks/internal/platform/github"
	"github.com/blackwell-systems/devstreaks/internal/series"
)

// RepoLister is implemented by providers that can list repositories.
type RepoLister interface {
	Repos(ctx context.Context, username string) (github.Repos, error)
}

// ErrReposUnsupported is returned by Service.Repos when no GitHub provider
// is configured.
var ErrReposUnsupported = errors.New("repository listing is not configured")

// Service fetches activity through a cache and builds reports.
type Service struct {
	providers   map[platform.Platform]platform.Provider
	cache       *cache.Cache
	heatmapDays int
	now         func() time.Time
	logger      *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithHeatmapDays sets the heatmap length.
func WithHeatmapDays(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.heatmapDays = n
		}
	}
}

// WithClock overrides the clock used to determine today.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService returns a Service. A nil cache fetches on every call.
func NewService(c *cache.Cache, providers []platform.Provider, opts ...Option) *Service {
	if c == nil {
		c = cache.New(cache.NewMemoryStore(), 0)
	}
	s := &Service{
		providers:   make(map[platform.Platform]platform.Provider, len(providers)),
		cache:       c,
		heatmapDays: DefaultHeatmapDays,
		now:         time.Now,
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, p := range providers {
		s.providers[p.Platform()] = p
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Cache returns the cache the service fetches through.
func (s *Service) Cache() *cache.Cache { return s.cache }

// Report fetches and analyzes activity for one platform user.
func (s *Service) Report(ctx context.Context, p platform.Platform, username string) (*Report, error) {
	prov, ok := s.providers[p]
	if !ok {
		return nil, fmt.Errorf("%w: %q", platform.ErrUnknownPlatform, p)
	}
	user, err := platform.CleanUsername(username)
	if err != nil {
		return nil, err
	}

	key := cache.NewKey(p, user)
	start := time.Now()
	act, hit, err := s.cache.Fetch(ctx, key, func(ctx context.Context) (platform.Activity, error) {
		return prov.Fetch(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("activity loaded",
		"platform", p, "username", user, "cache_hit", hit,
		"days", len(act.Days), "elapsed", time.Since(start))

	r, err := Build(act, series.Today(s.now()), s.heatmapDays)
	if err != nil {
		return nil, err
	}
	r.Cached = hit
	return r, nil
}

// PlatformResult is one platform's outcome within a Dashboard.
type PlatformResult struct {
	Platform platform.Platform `json:"platform"`
	Username string            `json:"username"`
	Report   *Report           `json:"report,omitempty"`
	Err      error             `json:"-"`
	Error    string            `json:"error,omitempty"`
}

// Dashboard holds the reports of every requested platform.
type Dashboard struct {
	Results []PlatformResult `json:"results"`
}

// Get returns the result for p, if it was requested.
func (d *Dashboard) Get(p platform.Platform) (PlatformResult, bool) {
	for _, r := range d.Results {
		if r.Platform == p {
			return r, true
		}
	}
	return PlatformResult{}, false
}

// Dashboard fetches every platform with a non-blank username concurrently.
// One platform failing does not affect the others; its error is recorded in
// its PlatformResult.
func (s *Service) Dashboard(ctx context.Context, usernames map[platform.Platform]string) *Dashboard {
	var targets []PlatformResult
	for _, p := range platform.All {
		u := usernames[p]
		if _, err := platform.CleanUsername(u); err != nil {
			continue
		}
		targets = append(targets, PlatformResult{Platform: p, Username: u})
	}

	var g errgroup.Group
	for i := range targets {
		res := &targets[i]
		g.Go(func() error {
			r, err := s.Report(ctx, res.Platform, res.Username)
			if err != nil {
				s.logger.Warn("platform fetch failed", "platform", res.Platform, "username", res.Username, "err", err)
				res.Err = err
				res.Error = err.Error()
				return nil
			}
			res.Report = r
			res.Username = r.Username
			return nil
		})
	}
	_ = g.Wait()

	return &Dashboard{Results: targets}
}

// Repos lists a GitHub user's starred and popular repositories.
func (s *Service) Repos(ctx context.Context, username string) (github.Repos, error) {
	lister, ok := s.providers[platform.GitHub].(RepoLister)
	if !ok {
		return github.Repos{}, ErrReposUnsupported
	}
	return lister.Repos(ctx, username)
}
