package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"trendlens/internal/brief"
	"trendlens/internal/config"
	"trendlens/internal/fetch"
	"trendlens/internal/llm"
	"trendlens/internal/normalize"
	"trendlens/internal/refresh"
	"trendlens/internal/store"
)

// demoDelay simulates generation latency when running without an API key.
const demoDelay = 800 * time.Millisecond

// app bundles the wired pipeline shared by the subcommands.
type app struct {
	store      *store.Store
	controller *refresh.Controller
	service    *brief.Service
	generator  llm.Generator
}

// buildApp wires the store, refresh controller, generation client, and
// brief service from the loaded configuration.
func buildApp(ctx context.Context) (*app, error) {
	cfg := config.Get()

	st, err := store.NewStore(config.GetCacheDirectory())
	if err != nil {
		return nil, fmt.Errorf("opening cache store: %w", err)
	}

	controller, err := refresh.NewController(st, config.RefreshInterval())
	if err != nil {
		st.Close()
		return nil, err
	}

	generator, err := buildGenerator(ctx)
	if err != nil {
		st.Close()
		return nil, err
	}

	service := brief.NewService(generator, controller, cfg.Brief.Timeframe)

	if prev, err := st.GetLatestBrief(); err != nil {
		log.Warn().Err(err).Msg("Loading persisted brief failed")
	} else if prev != nil {
		log.Debug().Str("briefID", prev.ID).Msg("Restored persisted brief")
		service.RestoreLastBrief(*prev)
	}

	return &app{
		store:      st,
		controller: controller,
		service:    service,
		generator:  generator,
	}, nil
}

func (a *app) Close() {
	a.controller.Stop()
	if err := a.store.Close(); err != nil {
		log.Warn().Err(err).Msg("Closing cache store failed")
	}
}

// buildGenerator picks the live Gemini client when an API key is
// configured, the canned demo client otherwise.
func buildGenerator(ctx context.Context) (llm.Generator, error) {
	apiKey := config.GetGeminiAPIKey()
	if apiKey == "" {
		log.Info().Msg("No Gemini API key configured, running in demo mode")
		return llm.NewCannedClient(demoDelay), nil
	}

	gemini := config.Get().AI.Gemini
	timeout, _ := time.ParseDuration(gemini.Timeout)
	return llm.NewLiveClient(ctx, llm.Options{
		APIKey:      apiKey,
		Model:       config.GetGeminiModel(),
		MinInterval: config.MinRequestInterval(),
		Timeout:     timeout,
		MaxTokens:   gemini.MaxTokens,
		Temperature: gemini.Temperature,
	})
}

// loadContent fills the service's canonical content set. Precedence:
// an explicit input file, then the configured YouTube channels, then
// the built-in demo records.
func (a *app) loadContent(ctx context.Context, inputFile string) error {
	records, err := a.rawRecords(ctx, inputFile)
	if err != nil {
		return err
	}

	sets := normalize.Normalize(records)
	total := 0
	for _, set := range sets {
		total += len(set.Content)
	}
	log.Info().Int("influencers", len(sets)).Int("items", total).Msg("Content loaded")

	a.service.SetContent(sets)
	return nil
}

func (a *app) rawRecords(ctx context.Context, inputFile string) ([]map[string]any, error) {
	if inputFile != "" {
		return readRecordsFile(inputFile)
	}

	cfg := config.Get()
	if cfg.YouTube.APIKey != "" && len(cfg.YouTube.Channels) > 0 {
		return a.fetchYouTube(ctx)
	}

	log.Info().Msg("No input file or YouTube channels configured, using demo content")
	return demoRecords(), nil
}

func (a *app) fetchYouTube(ctx context.Context) ([]map[string]any, error) {
	cfg := config.Get()

	commentTTL, _ := time.ParseDuration(cfg.Cache.TTL.Comments)
	fetcher, err := fetch.NewYouTubeFetcher(ctx, cfg.YouTube.APIKey, a.store, commentTTL)
	if err != nil {
		return nil, err
	}

	return fetcher.FetchChannels(ctx, cfg.YouTube.Channels, int(cfg.YouTube.MaxVideos))
}

// readRecordsFile decodes a JSON file holding raw influencer records,
// in the loosely-typed shape the normalizer tolerates.
func readRecordsFile(path string) ([]map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading input file: %w", err)
	}

	var records []map[string]any
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decoding input file %s: %w", path, err)
	}
	return records, nil
}
