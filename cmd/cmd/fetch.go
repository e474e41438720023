package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"trendlens/internal/config"
)

var fetchOutput string

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch recent uploads for the configured YouTube channels",
	Long: `Fetch the most recent uploads for every channel under youtube.channels
and print the raw records, or write them to a file for later use with
the brief command's --input flag. Requires a YouTube API key.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg := config.Get()

		if cfg.YouTube.APIKey == "" {
			return fmt.Errorf("youtube.api_key is not configured")
		}
		if len(cfg.YouTube.Channels) == 0 {
			return fmt.Errorf("no channels configured under youtube.channels")
		}

		app, err := buildApp(ctx)
		if err != nil {
			return err
		}
		defer app.Close()

		records, err := app.fetchYouTube(ctx)
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return err
		}

		if fetchOutput != "" {
			if err := os.WriteFile(fetchOutput, out, 0644); err != nil {
				return fmt.Errorf("writing records file: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d influencer records to %s\n", len(records), fetchOutput)
			return nil
		}

		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	fetchCmd.Flags().StringVarP(&fetchOutput, "output", "o", "", "file to write the raw records to")
	rootCmd.AddCommand(fetchCmd)
}
