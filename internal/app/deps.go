package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/blackwell-systems/devstreaks/internal/cache"
	"github.com/blackwell-systems/devstreaks/internal/config"
	"github.com/blackwell-systems/devstreaks/internal/output"
	"github.com/blackwell-systems/devstreaks/internal/platform"
	"github.com/blackwell-systems/devstreaks/internal/platform/github"
	"github.com/blackwell-systems/devstreaks/internal/platform/leetcode"
	"github.com/blackwell-systems/devstreaks/internal/report"
	"github.com/blackwell-systems/devstreaks/internal/store"
)

// loadConfig loads configuration and applies the color preference.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	output.AutoColor(flagNoColor || !cfg.Output.Color)
	return cfg, nil
}

// outputWidth is the configured width, or the terminal's when unset.
func outputWidth(cfg *config.Config) int {
	if cfg.Output.Width > 0 {
		return cfg.Output.Width
	}
	return output.TerminalWidth(os.Stdout, config.FallbackWidth)
}

func openDB() (*store.DB, error) {
	db, err := store.Open(config.DBPath())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return db, nil
}

// newProviders builds the GitHub and LeetCode adapters from cfg.
func newProviders(cfg *config.Config) []platform.Provider {
	base := platform.ClientOptions{
		Timeout:   cfg.HTTP.Timeout,
		RateLimit: cfg.HTTP.RateLimit,
		Burst:     cfg.HTTP.Burst,
	}

	ghOpts := base
	ghOpts.Endpoint = cfg.GitHub.Endpoint
	ghOpts.Token = cfg.GitHub.Token

	lcOpts := base
	lcOpts.Endpoint = cfg.LeetCode.Endpoint
	lcOpts.Headers = map[string]string{"Referer": "https://leetcode.com"}

	return []platform.Provider{
		github.New(platform.NewGraphQLClient(ghOpts), github.WithHistoryYears(cfg.HistoryYears)),
		leetcode.New(platform.NewGraphQLClient(lcOpts)),
	}
}

// newService wires providers and the configured cache backend into a
// report.Service. db backs the cache when cache.backend is "sqlite".
func newService(cfg *config.Config, db *store.DB, opts ...report.Option) *report.Service {
	var backend cache.Store = cache.NewMemoryStore()
	if cfg.Cache.Backend == "sqlite" {
		backend = db
	}
	opts = append([]report.Option{
		report.WithHeatmapDays(cfg.HeatmapDays),
		report.WithLogger(logger),
	}, opts...)
	return report.NewService(cache.New(backend, cfg.Cache.TTL, cache.WithLogger(logger)), newProviders(cfg), opts...)
}

var errNoUsernames = errors.New("no usernames given; pass --github/--leetcode or run 'devstreaks profile set'")

// resolveUsernames fills blank usernames from the default profile.
func resolveUsernames(db *store.DB, gh, lc string) (map[platform.Platform]string, error) {
	gh, lc = strings.TrimSpace(gh), strings.TrimSpace(lc)
	if gh == "" && lc == "" {
		prof, err := db.GetProfile(store.DefaultProfile)
		if err != nil {
			return nil, fmt.Errorf("loading profile: %w", err)
		}
		if prof.IsEmpty() {
			return nil, errNoUsernames
		}
		gh, lc = prof.GitHub, prof.LeetCode
	}
	return map[platform.Platform]string{
		platform.GitHub:   gh,
		platform.LeetCode: lc,
	}, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func closeDB(db *store.DB) {
	if err := db.Close(); err != nil {
		logger.Warn("closing database", "err", err)
	}
}

// indent prefixes every non-empty line with a space to match section output.
func indent(s string) string {
	lines := strings.SplitAfter(s, "\n")
	var sb strings.Builder
	for _, l := range lines {
		if l != "" && l != "\n" {
			sb.WriteString(" ")
		}
		sb.WriteString(l)
	}
	return sb.String()
}
