package app

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/devstreaks/internal/output"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the persistent fetch cache",
	Long: `Fetched activity is cached for cache.ttl (default 10m). With
cache.backend set to "sqlite" the cache survives between runs and these
commands operate on it.`,
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached activity entries",
	Args:  cobra.NoArgs,
	RunE:  runCacheList,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every cached activity entry",
	Args:  cobra.NoArgs,
	RunE:  runCacheClear,
}

func init() {
	cacheCmd.AddCommand(cacheListCmd, cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(db)

	entries, err := db.ListCacheEntries()
	if err != nil {
		return fmt.Errorf("listing cache entries: %w", err)
	}
	if flagJSON {
		return printJSON(entries)
	}

	fmt.Println(output.Section("Cache"))
	fmt.Println()
	if cfg.Cache.Backend != "sqlite" {
		fmt.Printf(" %s\n\n", output.StyleMuted.Render(`cache.backend is "memory"; entries below are from earlier sqlite runs.`))
	}
	if len(entries) == 0 {
		fmt.Println(" No cached entries.")
		fmt.Println()
		return nil
	}

	now := time.Now()
	tbl := output.NewTable("Platform", "Username", "Days", "Age", "Status")
	for _, e := range entries {
		age := now.Sub(e.StoredAt)
		status := output.StyleSuccess.Render("fresh")
		if cfg.Cache.TTL <= 0 || age >= cfg.Cache.TTL {
			status = output.StyleMuted.Render("expired")
		}
		tbl.AddRow(e.Platform, e.Username, fmt.Sprintf("%d", e.Days), age.Truncate(time.Second).String(), status)
	}
	fmt.Print(indent(tbl.Render()))
	fmt.Println()
	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	if _, err := loadConfig(); err != nil {
		return err
	}
	db, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(db)

	if err := db.Clear(); err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}
	if flagJSON {
		return printJSON(map[string]bool{"cleared": true})
	}
	fmt.Println(" Cache cleared.")
	return nil
}
