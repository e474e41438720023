package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// DefaultModel is the default Gemini model used for trend analysis.
const DefaultModel = "gemini-2.5-flash-preview-05-20"

// DefaultMinInterval is the minimum spacing between two live
// generation requests.
const DefaultMinInterval = 2 * time.Second

// DefaultTimeout bounds a single live generation call.
const DefaultTimeout = 30 * time.Second

// Generator produces raw text for a prompt. Implementations own all
// resilience concerns: callers receive either usable text or a canned
// fallback, never a raw transport error.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GenerationFailedError reports a non-success, non-rate-limit response
// from the generation endpoint.
type GenerationFailedError struct {
	StatusCode int
	Body       string
}

func (e *GenerationFailedError) Error() string {
	return fmt.Sprintf("generation failed with status %d: %s", e.StatusCode, e.Body)
}

// Options configures a LiveClient.
type Options struct {
	APIKey      string
	Model       string
	MinInterval time.Duration // Minimum spacing between requests; DefaultMinInterval when zero
	Timeout     time.Duration // Per-request deadline; DefaultTimeout when zero
	MaxTokens   int32         // Output token cap; model default when zero
	Temperature float32       // Sampling temperature; model default when zero
}

// LiveClient calls the Gemini API. Requests are serialized: a token
// bucket of size one enforces the minimum inter-request interval, and a
// weight-one semaphore guarantees a single in-flight call. A request
// arriving while another is outstanding does not queue; it is satisfied
// immediately from the canned demo path.
type LiveClient struct {
	client    *genai.Client
	modelName string
	limiter   *rate.Limiter
	inflight  *semaphore.Weighted
	timeout   time.Duration
	genConfig *genai.GenerateContentConfig
}

// NewLiveClient creates a generation client backed by the Gemini API.
func NewLiveClient(ctx context.Context, opts Options) (*LiveClient, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required for the live generation client")
	}
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.MinInterval <= 0 {
		opts.MinInterval = DefaultMinInterval
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	gClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &LiveClient{
		client:    gClient,
		modelName: opts.Model,
		limiter:   rate.NewLimiter(rate.Every(opts.MinInterval), 1),
		inflight:  semaphore.NewWeighted(1),
		timeout:   opts.Timeout,
		genConfig: generationConfig(opts),
	}, nil
}

// generationConfig builds the per-request generation settings, or nil
// when every knob is left at the model default.
func generationConfig(opts Options) *genai.GenerateContentConfig {
	if opts.MaxTokens <= 0 && opts.Temperature <= 0 {
		return nil
	}
	cfg := &genai.GenerateContentConfig{}
	if opts.MaxTokens > 0 {
		cfg.MaxOutputTokens = opts.MaxTokens
	}
	if opts.Temperature > 0 {
		temp := opts.Temperature
		cfg.Temperature = &temp
	}
	return cfg
}

// Generate sends the prompt to the Gemini API and returns the raw text.
// Transport failures fall back to the canned demo response; quota
// exhaustion returns the tagged rate-limit notice; any other non-success
// status surfaces as GenerationFailedError.
func (c *LiveClient) Generate(ctx context.Context, prompt string) (string, error) {
	if !c.inflight.TryAcquire(1) {
		log.Warn().Msg("Generation already in flight, serving canned response")
		return DemoResponse(prompt), nil
	}
	defer c.inflight.Release(1)

	if err := c.limiter.Wait(ctx); err != nil {
		return DemoResponse(prompt), nil
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	contents := []*genai.Content{{
		Parts: []*genai.Part{{Text: prompt}},
		Role:  "user",
	}}

	resp, err := c.client.Models.GenerateContent(callCtx, c.modelName, contents, c.genConfig)
	if err != nil {
		code := statusCode(err)
		switch {
		case code == 429:
			log.Warn().Msg("Gemini quota exceeded, returning rate-limit notice")
			return RateLimitNotice, nil
		case code != 0:
			return "", &GenerationFailedError{StatusCode: code, Body: excerpt(err.Error())}
		default:
			log.Warn().Err(err).Msg("Gemini transport failure, serving demo response")
			return DemoResponse(prompt), nil
		}
	}

	text := resp.Text()
	if text == "" {
		log.Warn().Msg("Empty response from model, serving demo response")
		return DemoResponse(prompt), nil
	}

	return text, nil
}

// statusCode unwraps the HTTP status of a Gemini API error, or 0 for
// transport-level failures.
func statusCode(err error) int {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return 0
}

// excerpt bounds an error body for inclusion in a wrapped error.
func excerpt(s string) string {
	const max = 200
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
