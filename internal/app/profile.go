package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/devstreaks/internal/output"
	"github.com/blackwell-systems/devstreaks/internal/store"
)

var (
	profileName     string
	profileGitHub   string
	profileLeetCode string
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or update the saved usernames",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the saved usernames",
	Args:  cobra.NoArgs,
	RunE:  runProfileShow,
}

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Save usernames used when none are given on the command line",
	Long: `Save the GitHub and LeetCode usernames that 'devstreaks', 'streak',
'track' and the API dashboard use by default. Only the flags you pass are
changed; pass an empty value to clear one.`,
	Args: cobra.NoArgs,
	RunE: runProfileSet,
}

func init() {
	profileCmd.PersistentFlags().StringVar(&profileName, "name", store.DefaultProfile, "Profile name")
	profileSetCmd.Flags().StringVar(&profileGitHub, "github", "", "GitHub username")
	profileSetCmd.Flags().StringVar(&profileLeetCode, "leetcode", "", "LeetCode username")

	profileCmd.AddCommand(profileShowCmd, profileSetCmd)
	rootCmd.AddCommand(profileCmd)
}

func runProfileShow(cmd *cobra.Command, args []string) error {
	if _, err := loadConfig(); err != nil {
		return err
	}
	db, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(db)

	prof, err := db.GetProfile(profileName)
	if err != nil {
		return fmt.Errorf("loading profile: %w", err)
	}
	if flagJSON {
		return printJSON(prof)
	}
	renderProfile(prof)
	return nil
}

func runProfileSet(cmd *cobra.Command, args []string) error {
	if !cmd.Flags().Changed("github") && !cmd.Flags().Changed("leetcode") {
		return fmt.Errorf("nothing to set; pass --github and/or --leetcode")
	}
	if _, err := loadConfig(); err != nil {
		return err
	}
	db, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(db)

	prof, err := db.GetProfile(profileName)
	if err != nil {
		return fmt.Errorf("loading profile: %w", err)
	}
	if cmd.Flags().Changed("github") {
		prof.GitHub = profileGitHub
	}
	if cmd.Flags().Changed("leetcode") {
		prof.LeetCode = profileLeetCode
	}

	prof, err = db.SaveProfile(prof)
	if err != nil {
		return fmt.Errorf("saving profile: %w", err)
	}
	if flagJSON {
		return printJSON(prof)
	}
	renderProfile(prof)
	return nil
}

func renderProfile(p store.Profile) {
	fmt.Println(output.Section("Profile: " + p.Name))
	fmt.Println()
	show := func(label, v string) {
		if v == "" {
			v = output.StyleMuted.Render("(not set)")
		}
		fmt.Printf(" %s %s\n", output.StyleLabel.Render(label), v)
	}
	show("GitHub", p.GitHub)
	show("LeetCode", p.LeetCode)
	if !p.UpdatedAt.IsZero() {
		show("Updated", p.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
	}
	fmt.Println()
}
