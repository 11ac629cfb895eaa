package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the top-level devstreaks configuration.
type Config struct {
	GitHub       GitHub   `mapstructure:"github"`
	LeetCode     LeetCode `mapstructure:"leetcode"`
	HistoryYears int      `mapstructure:"history_years"`
	HeatmapDays  int      `mapstructure:"heatmap_days"`
	Cache        Cache    `mapstructure:"cache"`
	HTTP         HTTP     `mapstructure:"http"`
	Server       Server   `mapstructure:"server"`
	Output       Output   `mapstructure:"output"`
}

// GitHub configures the GitHub GraphQL adapter.
type GitHub struct {
	Token    string `mapstructure:"token"`
	Endpoint string `mapstructure:"endpoint"`
}

// LeetCode configures the LeetCode GraphQL adapter.
type LeetCode struct {
	Endpoint string `mapstructure:"endpoint"`
}

// Cache configures the fetch cache.
type Cache struct {
	TTL time.Duration `mapstructure:"ttl"`

	// Backend is "memory" or "sqlite".
	Backend string `mapstructure:"backend"`
}

// HTTP configures outbound requests.
type HTTP struct {
	Timeout   time.Duration `mapstructure:"timeout"`
	RateLimit float64       `mapstructure:"rate_limit"`
	Burst     int           `mapstructure:"burst"`
}

// Server configures the JSON API.
type Server struct {
	Addr string `mapstructure:"addr"`
}

// Output defines output preferences.
type Output struct {
	Color bool `mapstructure:"color"`

	// Width caps the heatmap width; 0 sizes it to the terminal.
	Width int `mapstructure:"width"`
}

// expandPath replaces a leading ~ with the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Load reads configuration from the given path (or the default location)
// and returns a Config with all defaults and environment overrides applied.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("github.token", "")
	v.SetDefault("github.endpoint", DefaultGitHub.Endpoint)
	v.SetDefault("leetcode.endpoint", DefaultLeetCode.Endpoint)
	v.SetDefault("history_years", DefaultHistoryYears)
	v.SetDefault("heatmap_days", DefaultHeatmapDays)
	v.SetDefault("cache.ttl", DefaultCache.TTL)
	v.SetDefault("cache.backend", DefaultCache.Backend)
	v.SetDefault("http.timeout", DefaultHTTP.Timeout)
	v.SetDefault("http.rate_limit", DefaultHTTP.RateLimit)
	v.SetDefault("http.burst", DefaultHTTP.Burst)
	v.SetDefault("server.addr", DefaultServer.Addr)
	v.SetDefault("output.color", DefaultOutput.Color)
	v.SetDefault("output.width", DefaultOutput.Width)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// The token is commonly exported without our prefix.
	if err := v.BindEnv("github.token", EnvPrefix+"_GITHUB_TOKEN", "GITHUB_TOKEN"); err != nil {
		return nil, err
	}

	if cfgFile != "" {
		v.SetConfigFile(expandPath(cfgFile))
	} else {
		v.AddConfigPath(expandPath(DefaultConfigDir))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// A missing config file is not an error.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects settings the rest of the program cannot work with.
func (c *Config) Validate() error {
	if c.HistoryYears <= 0 {
		return fmt.Errorf("history_years must be positive, got %d", c.HistoryYears)
	}
	if c.HeatmapDays <= 0 {
		return fmt.Errorf("heatmap_days must be positive, got %d", c.HeatmapDays)
	}
	if c.Output.Width < 0 {
		return fmt.Errorf("output.width must not be negative, got %d", c.Output.Width)
	}
	switch c.Cache.Backend {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("cache.backend must be \"memory\" or \"sqlite\", got %q", c.Cache.Backend)
	}
	return nil
}

// DBPath returns the full path to the SQLite database.
func DBPath() string {
	return filepath.Join(expandPath(DefaultConfigDir), DefaultDBName)
}

// ConfigDir returns the expanded configuration directory.
func ConfigDir() string {
	return expandPath(DefaultConfigDir)
}
