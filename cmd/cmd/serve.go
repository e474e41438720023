package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"trendlens/internal/alerts"
	"trendlens/internal/config"
	"trendlens/internal/server"
)

var serveInput string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the JSON API server",
	Long: `Serve the brief pipeline over HTTP: GET /api/v1/brief, POST
/api/v1/query, GET /api/v1/alerts, GET /api/v1/status. When
brief.auto_refresh is enabled a background timer regenerates the brief
whenever it goes stale.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg := config.Get()

		app, err := buildApp(ctx)
		if err != nil {
			return err
		}
		defer app.Close()

		if err := app.loadContent(ctx, serveInput); err != nil {
			return err
		}

		if cfg.Brief.AutoRefresh {
			app.controller.StartAutoRefresh(func() {
				if _, err := app.service.Generate(context.Background(), false); err != nil {
					log.Warn().Err(err).Msg("Scheduled refresh failed")
				}
			})
		}

		srv := server.NewServer(server.Options{
			Addr:        cfg.Server.Addr,
			CorsOrigins: cfg.Server.CORSOrigins,
			Thresholds: alerts.Thresholds{
				MinEngagementRate: cfg.Alerts.MinEngagementRate,
				ViewSpike:         cfg.Alerts.ViewSpike,
			},
		}, app.service, app.controller)

		errCh := make(chan error, 1)
		go func() {
			log.Info().Str("addr", cfg.Server.Addr).Msg("API server listening")
			errCh <- srv.ListenAndServe()
		}()

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
		case sig := <-stop:
			log.Info().Str("signal", sig.String()).Msg("Shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveInput, "input", "", "JSON file with raw influencer records")
	rootCmd.AddCommand(serveCmd)
}
