// Package app contains the Cobra command tree for devstreaks.
package app

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var appVersion = "dev"

// SetVersion sets the application version (called from main with ldflags value).
func SetVersion(v string) {
	appVersion = v
	rootCmd.Version = v
}

var (
	flagNoColor bool
	flagJSON    bool
	flagVerbose bool
	flagConfig  string
)

// logger is replaced in PersistentPreRunE once flags are parsed.
var logger = slog.New(slog.DiscardHandler)

var rootCmd = &cobra.Command{
	Use:   "devstreaks",
	Short: "Coding streaks and activity trends for GitHub and LeetCode",
	Long: `devstreaks fetches your daily contribution history from GitHub and your
submission calendar from LeetCode, then reports current and longest streaks,
weekly and monthly summaries, period-over-period trends and activity heatmaps.

Save your usernames once with 'devstreaks profile set', then run 'devstreaks'
with no arguments to see the dashboard.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = newLogger(logLevel(slog.LevelWarn))
		return nil
	},
	RunE: runStreak,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// logLevel is base unless --verbose asks for debug output.
func logLevel(base slog.Level) slog.Level {
	if flagVerbose {
		return slog.LevelDebug
	}
	return base
}

func newLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: ~/.config/devstreaks/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose output")

	rootCmd.Flags().StringVar(&streakGitHub, "github", "", "GitHub username (default: from profile)")
	rootCmd.Flags().StringVar(&streakLeetCode, "leetcode", "", "LeetCode username (default: from profile)")
}
