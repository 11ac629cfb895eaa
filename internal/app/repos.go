package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/devstreaks/internal/output"
	"github.com/blackwell-systems/devstreaks/internal/platform"
	"github.com/blackwell-systems/devstreaks/internal/platform/github"
)

var reposCmd = &cobra.Command{
	Use:   "repos [username]",
	Short: "List a GitHub user's starred and most popular repositories",
	Long: `List up to six starred and six most-starred owned repositories of a
GitHub user. The username defaults to the GitHub user in the saved profile.
Requires a GitHub token.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRepos,
}

func init() {
	rootCmd.AddCommand(reposCmd)
}

func runRepos(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(db)

	var user string
	if len(args) == 1 {
		user = args[0]
	} else {
		usernames, err := resolveUsernames(db, "", "")
		if err != nil {
			return err
		}
		user = usernames[platform.GitHub]
	}

	repos, err := newService(cfg, db).Repos(cmd.Context(), user)
	if err != nil {
		return fmt.Errorf("loading repositories: %w", err)
	}
	if flagJSON {
		return printJSON(repos)
	}

	renderRepos("Starred repositories", repos.Starred)
	renderRepos("Popular repositories", repos.Popular)
	fmt.Println()
	return nil
}

func renderRepos(title string, repos []github.Repo) {
	fmt.Println(output.Section(title))
	fmt.Println()
	if len(repos) == 0 {
		fmt.Println(" None.")
		return
	}
	tbl := output.NewTable("Name", "Stars", "Language", "Description")
	for _, r := range repos {
		tbl.AddRow(r.Name, fmt.Sprintf("★ %d", r.Stars), r.Language, truncate(r.Description, 48))
	}
	fmt.Print(indent(tbl.Render()))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
