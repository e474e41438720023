// Package brief assembles trend briefs: it runs the full pipeline from
// canonical content through prompt formatting, generation, parsing and
// fallback synthesis, gated by the refresh policy controller.
package brief

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"trendlens/internal/alerts"
	"trendlens/internal/core"
	"trendlens/internal/llm"
	"trendlens/internal/parse"
	"trendlens/internal/prompt"
	"trendlens/internal/refresh"
	"trendlens/internal/synthesis"
)

// ErrNotInitialized is returned when a brief or query is requested
// before any content has been loaded. There is nothing to analyze.
var ErrNotInitialized = errors.New("no influencer content loaded")

// rateLimitedSummary is the visible notice used for narrative fields
// when the generation endpoint reports quota exhaustion. The structured
// sections are still populated from deterministic synthesis so the
// brief stays renderable.
const rateLimitedSummary = "AI analysis is temporarily rate limited. The structured sections below were computed directly from the tracked content and will be replaced by a full AI analysis on the next refresh."

// The notice is carried on every narrative field, not just the
// summary, so a rate-limited brief is distinguishable wherever a
// consumer renders only part of it.
const (
	rateLimitedFinding        = "AI analysis rate limited: the findings below were computed directly from the tracked content"
	rateLimitedRecommendation = "AI analysis rate limited: retry after the quota resets for full narrative recommendations"
)

// Assemble combines a parsed or synthesized analysis with the period
// label and generation timestamp into a final TrendBrief. Pure, no
// I/O. Every array and map field of the result is non-nil.
func Assemble(analysis core.BriefAnalysis, period string, generatedAt time.Time) core.TrendBrief {
	b := core.TrendBrief{
		ID:                        uuid.New().String(),
		Summary:                   analysis.Summary,
		Period:                    period,
		KeyFindings:               analysis.KeyFindings,
		PlatformInsights:          analysis.PlatformInsights,
		ContentAnalysis:           analysis.ContentAnalysis,
		ActionableRecommendations: analysis.ActionableRecommendations,
		BrandCollaborations:       analysis.BrandCollaborations,
		GeneratedAt:               generatedAt,
	}

	if b.KeyFindings == nil {
		b.KeyFindings = []string{}
	}
	if b.PlatformInsights == nil {
		b.PlatformInsights = map[core.Platform]core.PlatformInsight{}
	}
	if b.ActionableRecommendations == nil {
		b.ActionableRecommendations = []string{}
	}
	if b.BrandCollaborations == nil {
		b.BrandCollaborations = []core.BrandCollaboration{}
	}
	ca := &b.ContentAnalysis
	if ca.KeyThemes == nil {
		ca.KeyThemes = []string{}
	}
	if ca.TrendingTopics == nil {
		ca.TrendingTopics = []string{}
	}
	if ca.ContentTypes == nil {
		ca.ContentTypes = map[string]int{"videos": 0, "reels": 0, "stories": 0, "photos": 0}
	}
	if ca.EngagementInsights == nil {
		ca.EngagementInsights = []string{}
	}
	if ca.CompetitorAnalysis == nil {
		ca.CompetitorAnalysis = []string{}
	}
	if ca.Recommendations == nil {
		ca.Recommendations = []string{}
	}

	return b
}

// Service owns the end-to-end brief pipeline for one content set. It
// holds the last assembled brief in memory; persistence of the refresh
// timestamp is delegated to the controller.
type Service struct {
	generator  llm.Generator
	controller *refresh.Controller
	timeframe  string

	mu   sync.Mutex
	sets []core.InfluencerContentSet
	last *core.TrendBrief
}

// NewService wires a generator and refresh controller into a brief
// service. The timeframe is the human period label embedded in prompts
// and briefs, such as "48 hours".
func NewService(generator llm.Generator, controller *refresh.Controller, timeframe string) *Service {
	return &Service{
		generator:  generator,
		controller: controller,
		timeframe:  timeframe,
	}
}

// SetContent replaces the canonical content set the next brief or
// query will analyze.
func (s *Service) SetContent(sets []core.InfluencerContentSet) {
	s.mu.Lock()
	s.sets = sets
	s.mu.Unlock()
}

// RestoreLastBrief seeds the in-memory cache with a previously
// persisted brief, so a fresh window after a restart serves the brief
// that was actually generated rather than a local re-synthesis.
func (s *Service) RestoreLastBrief(b core.TrendBrief) {
	s.mu.Lock()
	s.last = &b
	s.mu.Unlock()
}

func (s *Service) snapshot() ([]core.InfluencerContentSet, *core.TrendBrief) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sets, s.last
}

// Generate produces a trend brief for the loaded content. When the
// last brief is still fresh and force is false the generator is not
// called: the cached brief is returned, or a deterministic local
// analysis when no brief is cached (a restart after a persisted
// timestamp). Generation failures and malformed responses degrade to
// synthesis; the caller always receives a renderable brief.
func (s *Service) Generate(ctx context.Context, force bool) (core.TrendBrief, error) {
	sets, last := s.snapshot()
	if len(sets) == 0 {
		return core.TrendBrief{}, ErrNotInitialized
	}

	if !s.controller.ShouldGenerate(force) {
		if last != nil {
			log.Debug().Str("briefID", last.ID).Msg("Returning cached brief, still fresh")
			return *last, nil
		}
		// Fresh per the persisted timestamp but nothing cached in this
		// process. Serve a local analysis without touching the cooldown.
		gen, _ := s.controller.LastGenerated()
		log.Debug().Time("lastGenerated", gen).Msg("Fresh with no cached brief, synthesizing locally")
		return Assemble(synthesis.Analyze(sets), s.timeframe, gen), nil
	}

	raw, err := s.generator.Generate(ctx, prompt.Format(sets, s.timeframe))
	if err != nil {
		var genErr *llm.GenerationFailedError
		if !errors.As(err, &genErr) {
			return core.TrendBrief{}, fmt.Errorf("generating brief: %w", err)
		}
		log.Warn().Int("status", genErr.StatusCode).Msg("Generation failed, falling back to demo brief")
		raw = llm.DemoBriefJSON
	}

	analysis := s.resolve(raw, sets)
	b := Assemble(analysis, s.timeframe, time.Now())
	if err := s.controller.MarkGenerated(b.GeneratedAt); err != nil {
		log.Warn().Err(err).Msg("Failed to persist generation timestamp")
	}

	s.mu.Lock()
	s.last = &b
	s.mu.Unlock()
	return b, nil
}

// resolve turns raw generator output into a complete analysis,
// synthesizing any section the response did not supply.
func (s *Service) resolve(raw string, sets []core.InfluencerContentSet) core.BriefAnalysis {
	res := parse.Extract(raw)
	switch {
	case res.RateLimited:
		log.Info().Msg("Rate-limited response, synthesizing structured sections")
		analysis := synthesis.Analyze(sets)
		analysis.Summary = rateLimitedSummary
		analysis.KeyFindings = append([]string{rateLimitedFinding}, analysis.KeyFindings...)
		analysis.ActionableRecommendations = append([]string{rateLimitedRecommendation}, analysis.ActionableRecommendations...)
		return analysis
	case res.Parsed:
		return fillDefaults(res.Analysis, sets)
	default:
		log.Warn().Int("rawLen", len(raw)).Msg("Unparseable response, using deterministic synthesis")
		return synthesis.Analyze(sets)
	}
}

// fillDefaults backfills sections the model omitted with their
// deterministic counterparts so the assembled brief is never sparse.
func fillDefaults(analysis core.BriefAnalysis, sets []core.InfluencerContentSet) core.BriefAnalysis {
	local := synthesis.Analyze(sets)

	if analysis.Summary == "" {
		analysis.Summary = local.Summary
	}
	if len(analysis.KeyFindings) == 0 {
		analysis.KeyFindings = local.KeyFindings
	}
	if len(analysis.PlatformInsights) == 0 {
		analysis.PlatformInsights = local.PlatformInsights
	}
	if len(analysis.BrandCollaborations) == 0 {
		analysis.BrandCollaborations = local.BrandCollaborations
	}
	if len(analysis.ActionableRecommendations) == 0 {
		analysis.ActionableRecommendations = local.ActionableRecommendations
	}
	if len(analysis.ContentAnalysis.ContentTypes) == 0 {
		analysis.ContentAnalysis.ContentTypes = local.ContentAnalysis.ContentTypes
	}
	sa := analysis.ContentAnalysis.SentimentAnalysis
	if sa.Positive == 0 && sa.Neutral == 0 && sa.Negative == 0 {
		analysis.ContentAnalysis.SentimentAnalysis = local.ContentAnalysis.SentimentAnalysis
	}
	return analysis
}

// Query answers a free-form question about the loaded content through
// the same generation client. Unlike Generate, a GenerationFailed
// error surfaces to the caller; there is no brief-shaped parsing.
func (s *Service) Query(ctx context.Context, question string) (string, error) {
	sets, _ := s.snapshot()
	if len(sets) == 0 {
		return "", ErrNotInitialized
	}

	answer, err := s.generator.Generate(ctx, prompt.FormatQuery(sets, question))
	if err != nil {
		return "", fmt.Errorf("answering query: %w", err)
	}
	return answer, nil
}

// Alerts scans the loaded content against the given thresholds,
// augmenting with one AI sentiment alert when few breaches are found.
func (s *Service) Alerts(ctx context.Context, th alerts.Thresholds) []string {
	sets, _ := s.snapshot()
	return alerts.ScanWithSentiment(ctx, sets, th, s.generator)
}

// LastBrief returns the most recently assembled brief, if any.
func (s *Service) LastBrief() (core.TrendBrief, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return core.TrendBrief{}, false
	}
	return *s.last, true
}
