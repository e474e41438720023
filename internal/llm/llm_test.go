package llm

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"trendlens/internal/parse"
)

func TestDemoBriefJSON_SchemaValid(t *testing.T) {
	res := parse.Extract(DemoBriefJSON)
	if !res.Parsed {
		t.Fatal("canned demo brief must parse")
	}
	if res.Analysis.Summary == "" {
		t.Error("demo brief summary must not be empty")
	}
	if len(res.Analysis.KeyFindings) < 5 {
		t.Errorf("demo brief should carry 5+ key findings, got %d", len(res.Analysis.KeyFindings))
	}
	if len(res.Analysis.BrandCollaborations) == 0 {
		t.Error("demo brief must include brand collaborations")
	}

	var generic map[string]any
	if err := json.Unmarshal([]byte(DemoBriefJSON), &generic); err != nil {
		t.Fatalf("demo brief is not valid JSON: %v", err)
	}
}

func TestRateLimitNotice_CarriesMarker(t *testing.T) {
	if !strings.Contains(RateLimitNotice, parse.RateLimitMarker) {
		t.Error("rate-limit notice must embed the marker")
	}
	res := parse.Extract(RateLimitNotice)
	if !res.RateLimited {
		t.Error("parser must classify the notice as rate limited")
	}
}

func TestCannedAnswer_SubstringMatch(t *testing.T) {
	tests := []struct {
		question string
		want     string
	}{
		{"How is engagement trending?", "engagement"},
		{"Which brands should we approach?", "brand"},
		{"What hashtags are trending?", "hashtag"},
		{"something completely unrelated", "Configure a Gemini API key"},
	}

	for _, tt := range tests {
		got := CannedAnswer(tt.question)
		if !strings.Contains(strings.ToLower(got), strings.ToLower(tt.want)) {
			t.Errorf("CannedAnswer(%q) = %q, expected it to mention %q", tt.question, got, tt.want)
		}
	}
}

func TestDemoResponse_RoutesByPromptShape(t *testing.T) {
	if got := DemoResponse("analysis prompt with no question marker"); got != DemoBriefJSON {
		t.Error("brief prompts must get the demo brief")
	}

	got := DemoResponse("context...\nQUESTION: How is engagement?\n")
	if got == DemoBriefJSON {
		t.Error("query prompts must get a canned answer, not the demo brief")
	}
	if !strings.Contains(strings.ToLower(got), "engagement") {
		t.Errorf("expected engagement answer, got %q", got)
	}
}

func TestCannedClient_Generate(t *testing.T) {
	client := NewCannedClient(10 * time.Millisecond)

	start := time.Now()
	out, err := client.Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 10*time.Millisecond {
		t.Errorf("expected simulated delay, returned after %v", elapsed)
	}
	if out != DemoBriefJSON {
		t.Error("canned client must serve the demo brief")
	}
}

func TestCannedClient_ContextCancelled(t *testing.T) {
	client := NewCannedClient(time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := client.Generate(ctx, "prompt"); err == nil {
		t.Error("expected context cancellation error")
	}
}

func TestNewLiveClient_RequiresAPIKey(t *testing.T) {
	_, err := NewLiveClient(context.Background(), Options{})
	if err == nil {
		t.Error("expected error when no API key is configured")
	}
}

func TestGenerationFailedError_Message(t *testing.T) {
	err := &GenerationFailedError{StatusCode: 500, Body: "internal"}
	if !strings.Contains(err.Error(), "500") || !strings.Contains(err.Error(), "internal") {
		t.Errorf("error message should carry status and body, got %q", err.Error())
	}
}

func TestExcerpt_Bounds(t *testing.T) {
	long := strings.Repeat("x", 500)
	if got := excerpt(long); len(got) > 210 {
		t.Errorf("excerpt too long: %d bytes", len(got))
	}
	if got := excerpt("short"); got != "short" {
		t.Errorf("short strings must pass through, got %q", got)
	}
}

func TestLiveClient_InFlightShortCircuits(t *testing.T) {
	c := &LiveClient{
		limiter:  rate.NewLimiter(rate.Every(time.Second), 1),
		inflight: semaphore.NewWeighted(1),
		timeout:  time.Second,
	}
	if !c.inflight.TryAcquire(1) {
		t.Fatal("could not mark a request in flight")
	}
	defer c.inflight.Release(1)

	got, err := c.Generate(context.Background(), "brief prompt")
	if err != nil {
		t.Fatalf("overlapping request must not fail: %v", err)
	}
	if got != DemoResponse("brief prompt") {
		t.Error("overlapping request should be served from the demo path")
	}
}

func TestDemoBriefJSON_LabeledAsDemo(t *testing.T) {
	res := parse.Extract(DemoBriefJSON)
	if !strings.Contains(res.Analysis.Summary, "Demo") {
		t.Errorf("demo brief summary must be visibly labeled, got %q", res.Analysis.Summary)
	}
	if len(res.Analysis.KeyFindings) == 0 || !strings.Contains(res.Analysis.KeyFindings[0], "Demo") {
		t.Errorf("demo brief findings should lead with the demo label, got %v", res.Analysis.KeyFindings)
	}
	if len(res.Analysis.ActionableRecommendations) == 0 ||
		!strings.Contains(res.Analysis.ActionableRecommendations[0], "demo") {
		t.Errorf("demo brief recommendations should name demo mode, got %v", res.Analysis.ActionableRecommendations)
	}
}

func TestGenerationConfig(t *testing.T) {
	if cfg := generationConfig(Options{}); cfg != nil {
		t.Errorf("no knobs set should yield a nil config, got %+v", cfg)
	}

	cfg := generationConfig(Options{MaxTokens: 4096, Temperature: 0.4})
	if cfg == nil {
		t.Fatal("expected a config when knobs are set")
	}
	if cfg.MaxOutputTokens != 4096 {
		t.Errorf("maxOutputTokens = %d, want 4096", cfg.MaxOutputTokens)
	}
	if cfg.Temperature == nil || *cfg.Temperature != 0.4 {
		t.Errorf("temperature = %v, want 0.4", cfg.Temperature)
	}

	if cfg := generationConfig(Options{MaxTokens: 1024}); cfg.Temperature != nil {
		t.Error("unset temperature must stay at the model default")
	}
}
