package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"trendlens/internal/alerts"
	"trendlens/internal/config"
)

var alertsInput string

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Scan the tracked content for engagement alerts",
	Long: `Scan every tracked content item against the configured engagement-rate
floor and view-spike threshold, printing one alert per breach. When few
breaches are found, one AI-generated sentiment observation is appended.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		app, err := buildApp(ctx)
		if err != nil {
			return err
		}
		defer app.Close()

		if err := app.loadContent(ctx, alertsInput); err != nil {
			return err
		}

		cfg := config.Get()
		found := app.service.Alerts(ctx, alerts.Thresholds{
			MinEngagementRate: cfg.Alerts.MinEngagementRate,
			ViewSpike:         cfg.Alerts.ViewSpike,
		})

		if len(found) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No alerts.")
			return nil
		}
		for _, alert := range found {
			fmt.Fprintln(cmd.OutOrStdout(), "- "+alert)
		}
		return nil
	},
}

func init() {
	alertsCmd.Flags().StringVar(&alertsInput, "input", "", "JSON file with raw influencer records")
	rootCmd.AddCommand(alertsCmd)
}
