// Package config provides configuration loading and defaults for devstreaks.
package config

import "time"

// DefaultConfigDir is the default location for devstreaks configuration.
const DefaultConfigDir = "~/.config/devstreaks"

// DefaultDBName is the filename for the SQLite database.
const DefaultDBName = "devstreaks.db"

// DefaultConfigFile is the filename for the YAML config.
const DefaultConfigFile = "config.yaml"

// EnvPrefix prefixes environment overrides, e.g. DEVSTREAKS_GITHUB_TOKEN.
const EnvPrefix = "DEVSTREAKS"

// DefaultHistoryYears is how many years of GitHub history are fetched.
const DefaultHistoryYears = 1

// DefaultHeatmapDays is the number of days shown in heatmaps.
const DefaultHeatmapDays = 90

// DefaultGitHub holds the default GitHub settings.
var DefaultGitHub = GitHub{
	Endpoint: "https://api.github.com/graphql",
}

// DefaultLeetCode holds the default LeetCode settings.
var DefaultLeetCode = LeetCode{
	Endpoint: "https://leetcode.com/graphql",
}

// DefaultCache holds the default cache settings.
var DefaultCache = Cache{
	TTL:     10 * time.Minute,
	Backend: "memory",
}

// DefaultHTTP holds the default outbound HTTP settings.
var DefaultHTTP = HTTP{
	Timeout:   10 * time.Second,
	RateLimit: 2,
	Burst:     4,
}

// DefaultServer holds the default API server settings.
var DefaultServer = Server{
	Addr: ":8080",
}

// DefaultOutput holds the default output preferences.
var DefaultOutput = Output{
	Color: true,
}

// FallbackWidth is the output width used when it is not configured and
// stdout is not a terminal.
const FallbackWidth = 80
