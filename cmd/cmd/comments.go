package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"trendlens/internal/config"
	"trendlens/internal/fetch"
	"trendlens/internal/sentiment"
	"trendlens/internal/store"
)

var commentsCmd = &cobra.Command{
	Use:   "comments [videoID]",
	Short: "Fetch a video's comments and score their sentiment",
	Long: `Fetch the top-level comments for a YouTube video, serving from the
24-hour comment cache when possible, and print a rule-based sentiment
summary. Requires a YouTube API key.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg := config.Get()
		videoID := args[0]

		if cfg.YouTube.APIKey == "" {
			return fmt.Errorf("youtube.api_key is not configured")
		}

		st, err := store.NewStore(config.GetCacheDirectory())
		if err != nil {
			return err
		}
		defer st.Close()

		commentTTL, err := time.ParseDuration(cfg.Cache.TTL.Comments)
		if err != nil {
			commentTTL = store.DefaultCommentTTL
		}

		fetcher, err := fetch.NewYouTubeFetcher(ctx, cfg.YouTube.APIKey, st, commentTTL)
		if err != nil {
			return err
		}

		comments, err := fetcher.VideoComments(ctx, videoID, cfg.YouTube.MaxComments)
		if err != nil {
			return err
		}

		batch := sentiment.AnalyzeComments(videoID, comments)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Video:     %s\n", videoID)
		fmt.Fprintf(out, "Comments:  %d\n", batch.TotalComments)
		fmt.Fprintf(out, "Positive:  %d\n", batch.PositiveCount)
		fmt.Fprintf(out, "Negative:  %d\n", batch.NegativeCount)
		fmt.Fprintf(out, "Neutral:   %d\n", batch.NeutralCount)
		fmt.Fprintf(out, "Average:   %+.2f\n", batch.AverageScore)
		fmt.Fprintf(out, "Overall:   %s %s\n", batch.Classification, batch.Emoji)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(commentsCmd)
}
