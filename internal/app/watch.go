package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/devstreaks/internal/output"
	"github.com/blackwell-systems/devstreaks/internal/watcher"
)

var (
	watchInterval time.Duration
	watchQuiet    bool
	watchNotify   bool
	watchGitHub   string
	watchLeetCode string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Monitor streaks and alert when one grows, breaks or is at risk",
	Long: `Check streaks at a regular interval and print an alert when a streak is
extended, reaches a new record, breaks, or is at risk because there has been
no activity yet today. Identical alerts are not repeated until something
changes.

Examples:
  devstreaks watch                    # check every 30 minutes (ctrl-c to stop)
  devstreaks watch --interval 10m     # check more often
  devstreaks watch --notify --quiet   # desktop notifications only`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 30*time.Minute, "Check interval (e.g. 10m, 1h)")
	watchCmd.Flags().BoolVar(&watchQuiet, "quiet", false, "Suppress terminal output")
	watchCmd.Flags().BoolVar(&watchNotify, "notify", false, "Send desktop notifications")
	watchCmd.Flags().StringVar(&watchGitHub, "github", "", "GitHub username (default: from profile)")
	watchCmd.Flags().StringVar(&watchLeetCode, "leetcode", "", "LeetCode username (default: from profile)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if watchInterval < time.Minute {
		return fmt.Errorf("interval must be at least 1m, got %s", watchInterval)
	}
	if watchQuiet && !watchNotify {
		return errors.New("--quiet without --notify would report nothing")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(db)

	usernames, err := resolveUsernames(db, watchGitHub, watchLeetCode)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	alertFn := func(a watcher.Alert) {
		if watchNotify {
			if err := watcher.Notify(a); err != nil {
				logger.Warn("notification failed", "err", err)
			}
		}
		if !watchQuiet {
			printAlert(a)
		}
	}

	if !watchQuiet {
		fmt.Printf("devstreaks watching... (checking every %s)\n", watchInterval)
	}

	w := watcher.New(newService(cfg, db), usernames, watchInterval, alertFn)
	err = w.Run(ctx)
	if errors.Is(err, context.Canceled) {
		if !watchQuiet {
			fmt.Println("\nStopped.")
		}
		return nil
	}
	return err
}

// printAlert formats and prints an alert to the terminal.
func printAlert(a watcher.Alert) {
	fmt.Printf("[%s] %s %s\n", a.Time.Local().Format("15:04:05"), alertIcon(a.Level), a.Title)
	if a.Message != "" {
		fmt.Printf("           %s\n", a.Message)
	}
}

func alertIcon(level string) string {
	switch level {
	case watcher.LevelCritical:
		return output.StyleError.Render("✗")
	case watcher.LevelWarning:
		return output.StyleWarning.Render("!")
	case watcher.LevelInfo:
		return output.StyleSuccess.Render("✓")
	default:
		return " "
	}
}
