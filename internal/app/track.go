package app

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/devstreaks/internal/output"
	"github.com/blackwell-systems/devstreaks/internal/platform"
	"github.com/blackwell-systems/devstreaks/internal/report"
	"github.com/blackwell-systems/devstreaks/internal/store"
)

var (
	trackHistory  int
	trackGitHub   string
	trackLeetCode string
)

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Snapshot streaks and compare them over time",
	Long: `Fetch activity for every platform, store a streak snapshot, and compare
it with the previous snapshot to show deltas with trend arrows.

With --history N, show the N most recent snapshots instead of comparing.`,
	Args: cobra.NoArgs,
	RunE: runTrack,
}

func init() {
	trackCmd.Flags().IntVar(&trackHistory, "history", 0, "Show the N most recent snapshots per platform")
	trackCmd.Flags().StringVar(&trackGitHub, "github", "", "GitHub username (default: from profile)")
	trackCmd.Flags().StringVar(&trackLeetCode, "leetcode", "", "LeetCode username (default: from profile)")
	rootCmd.AddCommand(trackCmd)
}

// trackResult is the JSON-serializable outcome for one platform.
type trackResult struct {
	Snapshot *store.StreakSnapshot  `json:"snapshot,omitempty"`
	Diff     *store.SnapshotDiff    `json:"diff,omitempty"`
	History  []store.StreakSnapshot `json:"history,omitempty"`
	Error    string                 `json:"error,omitempty"`
}

func runTrack(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(db)

	usernames, err := resolveUsernames(db, trackGitHub, trackLeetCode)
	if err != nil {
		return err
	}

	if trackHistory > 0 {
		return runTrackHistory(db, usernames)
	}

	dash := newService(cfg, db).Dashboard(cmd.Context(), usernames)

	results := make(map[string]trackResult, len(dash.Results))
	for _, res := range dash.Results {
		if res.Err != nil {
			results[string(res.Platform)] = trackResult{Error: res.Error}
			continue
		}
		snap := snapshotFromReport(res.Report)
		if _, err := db.InsertStreakSnapshot(snap); err != nil {
			return fmt.Errorf("inserting snapshot: %w", err)
		}
		diff, err := db.CompareLatest(snap.Platform, snap.Username)
		if err != nil {
			return fmt.Errorf("comparing snapshots: %w", err)
		}
		results[string(res.Platform)] = trackResult{Snapshot: snap, Diff: diff}
	}

	if flagJSON {
		return printJSON(results)
	}

	for _, res := range dash.Results {
		fmt.Println(output.Section(fmt.Sprintf("Track: %s %s", res.Platform.Title(), res.Username)))
		fmt.Println()
		tr := results[string(res.Platform)]
		if tr.Error != "" {
			fmt.Printf(" %s\n", output.StyleError.Render("Could not load activity: "+tr.Error))
			continue
		}
		renderTrackOutput(tr.Snapshot, tr.Diff)
	}
	fmt.Println()
	return nil
}

func snapshotFromReport(r *report.Report) *store.StreakSnapshot {
	s := &store.StreakSnapshot{
		Platform:      string(r.Platform),
		Username:      r.Username,
		CurrentStreak: r.Streak.Current,
		LongestStreak: r.Streak.Longest,
		Total:         r.Total,
		ActiveDays:    r.ActiveDays,
	}
	if r.Solved != nil {
		total := r.Solved.Total
		s.SolvedTotal = &total
	}
	return s
}

func renderTrackOutput(current *store.StreakSnapshot, diff *store.SnapshotDiff) {
	fmt.Printf(" Snapshot #%d taken at %s\n\n", current.ID, current.TakenAt.Local().Format("2006-01-02 15:04:05"))

	if diff == nil {
		fmt.Println(" First snapshot recorded. Run 'devstreaks track' again later to see trends.")
		return
	}

	fmt.Printf(" Comparing against snapshot #%d (%s)\n\n",
		diff.Previous.ID, diff.Previous.TakenAt.Local().Format("2006-01-02 15:04:05"))

	tbl := output.NewTable("Metric", "Previous", "Current", "Delta", "Trend")
	for _, d := range diff.Deltas {
		tbl.AddRow(
			d.Name,
			fmt.Sprintf("%.0f", d.Previous),
			fmt.Sprintf("%.0f", d.Current),
			fmt.Sprintf("%+.0f", d.Delta),
			output.TrendArrow(d.Delta, true),
		)
	}
	fmt.Print(indent(tbl.Render()))
}

// runTrackHistory shows stored snapshots without fetching anything.
func runTrackHistory(db *store.DB, usernames map[platform.Platform]string) error {
	results := make(map[string]trackResult)
	var order []platform.Platform
	for _, p := range platform.All {
		user := strings.TrimSpace(usernames[p])
		if user == "" {
			continue
		}
		snaps, err := db.GetStreakHistory(string(p), user, trackHistory)
		if err != nil {
			return fmt.Errorf("loading %s history: %w", p.Title(), err)
		}
		results[string(p)] = trackResult{History: snaps}
		order = append(order, p)
	}

	if flagJSON {
		return printJSON(results)
	}

	for _, p := range order {
		fmt.Println(output.Section(fmt.Sprintf("History: %s %s", p.Title(), usernames[p])))
		fmt.Println()
		snaps := results[string(p)].History
		if len(snaps) == 0 {
			fmt.Println(" No snapshots yet. Run 'devstreaks track' to record one.")
			continue
		}
		tbl := output.NewTable("#", "Taken", "Current", "Longest", "Total", "Active days")
		for _, s := range snaps {
			tbl.AddRow(
				fmt.Sprintf("%d", s.ID),
				s.TakenAt.Local().Format("2006-01-02 15:04"),
				fmt.Sprintf("%d", s.CurrentStreak),
				fmt.Sprintf("%d", s.LongestStreak),
				fmt.Sprintf("%d", s.Total),
				fmt.Sprintf("%d", s.ActiveDays),
			)
		}
		fmt.Print(indent(tbl.Render()))
	}
	fmt.Println()
	return nil
}
