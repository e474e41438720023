package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"trendlens/internal/render"
)

var (
	briefForce  bool
	briefJSON   bool
	briefInput  string
	briefOutput string
)

var briefCmd = &cobra.Command{
	Use:   "brief",
	Short: "Generate a trend brief from the tracked content",
	Long: `Generate a trend brief. The refresh policy is consulted first: if a
brief was generated within the refresh interval the cached result is
served without calling the AI endpoint. Use --force to bypass the
cooldown.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		app, err := buildApp(ctx)
		if err != nil {
			return err
		}
		defer app.Close()

		if err := app.loadContent(ctx, briefInput); err != nil {
			return err
		}

		b, err := app.service.Generate(ctx, briefForce)
		if err != nil {
			return err
		}

		if err := app.store.SaveBrief(b); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not persist brief: %v\n", err)
		}

		if briefJSON {
			out, err := json.MarshalIndent(b, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		}

		if briefOutput != "" {
			path, err := render.WriteBriefFile(b, briefOutput)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Brief written to %s\n", path)
			return nil
		}

		fmt.Fprint(cmd.OutOrStdout(), render.Markdown(b))
		return nil
	},
}

func init() {
	briefCmd.Flags().BoolVar(&briefForce, "force", false, "regenerate even if the last brief is still fresh")
	briefCmd.Flags().BoolVar(&briefJSON, "json", false, "print the brief as JSON instead of markdown")
	briefCmd.Flags().StringVar(&briefInput, "input", "", "JSON file with raw influencer records")
	briefCmd.Flags().StringVarP(&briefOutput, "output", "o", "", "directory to write the rendered brief into")
	rootCmd.AddCommand(briefCmd)
}
