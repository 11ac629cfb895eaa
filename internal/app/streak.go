package app

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/devstreaks/internal/analyzer"
	"github.com/blackwell-systems/devstreaks/internal/output"
	"github.com/blackwell-systems/devstreaks/internal/report"
)

var (
	streakGitHub   string
	streakLeetCode string
)

var streakCmd = &cobra.Command{
	Use:   "streak",
	Short: "Show streaks, summaries and trends for every platform",
	Long: `Fetch activity from GitHub and LeetCode and display the current and
longest streak, last activity, weekly and monthly summaries, and week-over-week
and month-over-month trends for each platform.

Usernames default to the saved profile. A platform that fails to load is
reported without hiding the others.`,
	RunE: runStreak,
}

func init() {
	streakCmd.Flags().StringVar(&streakGitHub, "github", "", "GitHub username (default: from profile)")
	streakCmd.Flags().StringVar(&streakLeetCode, "leetcode", "", "LeetCode username (default: from profile)")
	rootCmd.AddCommand(streakCmd)
}

func runStreak(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(db)

	usernames, err := resolveUsernames(db, streakGitHub, streakLeetCode)
	if err != nil {
		return err
	}

	svc := newService(cfg, db)
	dash := svc.Dashboard(cmd.Context(), usernames)

	if flagJSON {
		return printJSON(dash)
	}

	width := outputWidth(cfg)
	for _, res := range dash.Results {
		renderResult(res, width)
	}
	fmt.Println()
	return nil
}

func renderResult(res report.PlatformResult, width int) {
	fmt.Println(output.Section(fmt.Sprintf("%s: %s", res.Platform.Title(), res.Username)))
	fmt.Println()

	if res.Err != nil {
		fmt.Printf(" %s\n", output.StyleError.Render("Could not load activity: "+res.Error))
		return
	}
	renderReport(res.Report, width)
}

func renderReport(r *report.Report, width int) {
	row := func(label, value string) {
		fmt.Printf(" %s %s\n", output.StyleLabel.Render(label), value)
	}

	row("Current streak", output.Flame(r.Streak.Current))
	row("Longest streak", output.StyleValue.Render(fmt.Sprintf("%d days", r.Streak.Longest)))
	row("Last active", r.LastActive)
	row("Total activity", output.StyleValue.Render(fmt.Sprintf("%d", r.Total)))

	consistency := 0.0
	if r.HistoryDays > 0 {
		consistency = float64(r.ActiveDays) / float64(r.HistoryDays) * 100
	}
	row("Active days", fmt.Sprintf("%d of %d  %s", r.ActiveDays, r.HistoryDays, output.ScoreBar(consistency, 20)))
	fmt.Println()

	row("Last 7 days", summaryLine(r.Weekly, r.WeekOverWeek))
	row("Last 30 days", summaryLine(r.Monthly, r.MonthOverMonth))

	if r.Solved != nil {
		fmt.Println()
		row("Problems solved", output.StyleValue.Render(fmt.Sprintf("%d", r.Solved.Total)))
		row("", fmt.Sprintf("%s %d  %s %d  %s %d",
			output.StyleSuccess.Render("Easy"), r.Solved.Easy,
			output.StyleWarning.Render("Medium"), r.Solved.Medium,
			output.StyleError.Render("Hard"), r.Solved.Hard))
	}

	fmt.Println()
	renderHeatmap(r, width)
}

func summaryLine(s analyzer.Summary, changePct int) string {
	return fmt.Sprintf("%d on %d active days  %s", s.Total, s.ActiveDays, output.TrendArrowPercent(float64(changePct), true))
}

func renderHeatmap(r *report.Report, width int) {
	hm := output.Heatmap(r.Heatmap.Start, r.Heatmap.Counts, output.HeatmapColumns(width-2))
	for _, line := range strings.Split(strings.TrimRight(hm, "\n"), "\n") {
		fmt.Printf(" %s\n", line)
	}
	fmt.Printf(" %s\n", output.HeatLegend())
}
