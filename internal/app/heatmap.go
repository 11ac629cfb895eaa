package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/devstreaks/internal/output"
	"github.com/blackwell-systems/devstreaks/internal/platform"
	"github.com/blackwell-systems/devstreaks/internal/report"
	"github.com/blackwell-systems/devstreaks/internal/series"
)

var heatmapDays int

var heatmapCmd = &cobra.Command{
	Use:   "heatmap <platform> <username>",
	Short: "Draw an activity heatmap for one platform user",
	Long: `Draw the last N days of activity as a grid of seven-day columns, oldest
on the left, shaded by how much activity each day had.

Platform is one of: github, leetcode.`,
	Args:      cobra.ExactArgs(2),
	ValidArgs: platformNames(),
	RunE:      runHeatmap,
}

func init() {
	heatmapCmd.Flags().IntVar(&heatmapDays, "days", 0, "Number of days to draw (default: heatmap_days from config)")
	rootCmd.AddCommand(heatmapCmd)
}

// heatmapOutput is the JSON-serializable output for the heatmap command.
type heatmapOutput struct {
	Platform platform.Platform `json:"platform"`
	Username string            `json:"username"`
	Days     int               `json:"days"`
	Records  []series.Record   `json:"records"`
}

func runHeatmap(cmd *cobra.Command, args []string) error {
	p, err := platform.Parse(args[0])
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("days") && heatmapDays <= 0 {
		return fmt.Errorf("--days must be positive, got %d", heatmapDays)
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(db)

	var opts []report.Option
	if heatmapDays > 0 {
		opts = append(opts, report.WithHeatmapDays(heatmapDays))
	}
	svc := newService(cfg, db, opts...)

	r, err := svc.Report(cmd.Context(), p, args[1])
	if err != nil {
		return fmt.Errorf("loading %s activity: %w", p.Title(), err)
	}

	if flagJSON {
		return printJSON(heatmapOutput{
			Platform: r.Platform,
			Username: r.Username,
			Days:     r.Heatmap.Len(),
			Records:  r.Heatmap.Records(),
		})
	}

	title := fmt.Sprintf("%s: %s, last %d days", p.Title(), r.Username, r.Heatmap.Len())
	fmt.Println(output.Section(title))
	fmt.Println()
	renderHeatmap(r, outputWidth(cfg))
	fmt.Printf("\n %s %s   %s %d\n\n",
		output.StyleLabel.Render("Current streak"), output.Flame(r.Streak.Current),
		output.StyleMuted.Render("Longest"), r.Streak.Longest)
	return nil
}

func platformNames() []string {
	names := make([]string, len(platform.All))
	for i, p := range platform.All {
		names[i] = string(p)
	}
	return names
}
