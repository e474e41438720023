package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"trendlens/internal/config"
	"trendlens/internal/store"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and manage the local cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.NewStore(config.GetCacheDirectory())
		if err != nil {
			return err
		}
		defer st.Close()

		stats, err := st.GetCacheStats()
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Entries:      %d\n", stats.EntryCount)
		fmt.Fprintf(cmd.OutOrStdout(), "Briefs:       %d\n", stats.BriefCount)
		fmt.Fprintf(cmd.OutOrStdout(), "Size:         %d bytes\n", stats.CacheSize)
		if !stats.LastUpdated.IsZero() {
			fmt.Fprintf(cmd.OutOrStdout(), "Last updated: %s\n", stats.LastUpdated.Format(time.RFC3339))
		}
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached data, including the refresh timestamp",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.NewStore(config.GetCacheDirectory())
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.ClearCache(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared.")
		return nil
	},
}

var cacheCleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove expired comment batches",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.NewStore(config.GetCacheDirectory())
		if err != nil {
			return err
		}
		defer st.Close()

		ttl, err := time.ParseDuration(config.Get().Cache.TTL.Comments)
		if err != nil {
			ttl = store.DefaultCommentTTL
		}

		if err := st.CleanupOldCache(ttl); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Expired entries removed.")
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheCleanupCmd)
	rootCmd.AddCommand(cacheCmd)
}
