package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var queryInput string

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Ask a free-form question about the tracked content",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		question := strings.Join(args, " ")

		app, err := buildApp(ctx)
		if err != nil {
			return err
		}
		defer app.Close()

		if err := app.loadContent(ctx, queryInput); err != nil {
			return err
		}

		answer, err := app.service.Query(ctx, question)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), answer)
		return nil
	},
}

func init() {
	queryCmd.Flags().StringVar(&queryInput, "input", "", "JSON file with raw influencer records")
	rootCmd.AddCommand(queryCmd)
}
