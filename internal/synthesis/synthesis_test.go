package synthesis

import (
	"testing"

	"trendlens/internal/core"
)

func item(title, caption, typ string, likes, comments, views uint64, tags ...string) core.ContentItem {
	if tags == nil {
		tags = []string{}
	}
	return core.ContentItem{
		Platform:       core.PlatformYouTube,
		InfluencerName: "tester",
		Title:          title,
		Caption:        caption,
		Type:           typ,
		Hashtags:       tags,
		Mentions:       []string{},
		Engagement:     core.Engagement{Likes: likes, Comments: comments, Views: views},
	}
}

func TestCountContentTypes(t *testing.T) {
	items := []core.ContentItem{
		item("a", "", "Video", 1, 0, 0),
		item("b", "", "video", 1, 0, 0),
		item("c", "", "Reel", 1, 0, 0),
		item("d", "", "Post", 1, 0, 0),
	}

	counts := CountContentTypes(items)
	want := map[string]int{"videos": 2, "reels": 1, "photos": 1, "stories": 0}
	for key, n := range want {
		if counts[key] != n {
			t.Errorf("counts[%q] = %d, want %d", key, counts[key], n)
		}
	}
}

func TestCountContentTypes_AllKeysPresent(t *testing.T) {
	counts := CountContentTypes(nil)
	for _, key := range []string{"videos", "reels", "stories", "photos"} {
		if _, ok := counts[key]; !ok {
			t.Errorf("missing bucket %q", key)
		}
	}
}

func TestDetectBrandCollaborations_MentionThreshold(t *testing.T) {
	items := []core.ContentItem{
		item("Apple event recap", "", "video", 100, 10, 0),
		item("Samsung Galaxy unboxing", "", "video", 500, 50, 10000),
		item("Why I switched", "samsung one year later", "video", 300, 30, 8000),
		item("", "best samsung accessories", "Post", 200, 20, 0),
	}

	collabs := DetectBrandCollaborations(items)
	if len(collabs) != 1 {
		t.Fatalf("expected exactly one collaboration, got %d: %+v", len(collabs), collabs)
	}

	samsung := collabs[0]
	if samsung.Name != "Samsung" {
		t.Errorf("expected Samsung, got %q", samsung.Name)
	}
	if samsung.ContentCount != 3 {
		t.Errorf("expected contentCount 3, got %d", samsung.ContentCount)
	}
}

func TestDetectBrandCollaborations_ReachDefaults(t *testing.T) {
	// Two mentions: one with views, one without. Reach = 10000 + 1000.
	items := []core.ContentItem{
		item("Nike haul", "", "video", 100, 0, 10000),
		item("more Nike", "", "Post", 100, 0, 0),
	}

	collabs := DetectBrandCollaborations(items)
	if len(collabs) != 1 {
		t.Fatalf("expected one collaboration, got %d", len(collabs))
	}
	if collabs[0].Reach != "11.0K" {
		t.Errorf("expected reach 11.0K, got %q", collabs[0].Reach)
	}
}

func TestDetectBrandCollaborations_TypeUpgrade(t *testing.T) {
	tests := []struct {
		name     string
		likes    uint64
		wantType string
	}{
		{"low engagement stays mention", 100, core.CollabTypeProductMention},
		{"mid engagement upgrades to review", 2000, core.CollabTypeProductReview},
		{"high engagement upgrades to sponsorship", 8000, core.CollabTypeSponsorship},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := []core.ContentItem{
				item("GoPro shot one", "", "video", tt.likes, 0, 0),
				item("GoPro shot two", "", "video", tt.likes, 0, 0),
			}
			collabs := DetectBrandCollaborations(items)
			if len(collabs) != 1 {
				t.Fatalf("expected one collaboration, got %d", len(collabs))
			}
			if collabs[0].Type != tt.wantType {
				t.Errorf("avg engagement %d: got type %q, want %q", tt.likes, collabs[0].Type, tt.wantType)
			}
		})
	}
}

func TestDetectBrandCollaborations_Placeholder(t *testing.T) {
	items := []core.ContentItem{
		item("My morning walk", "no brands here", "Post", 10, 1, 0),
	}

	collabs := DetectBrandCollaborations(items)
	if len(collabs) != 1 {
		t.Fatalf("expected exactly one placeholder, got %d", len(collabs))
	}
	if collabs[0].Type != core.CollabTypeContentOpportunity {
		t.Errorf("placeholder type should be %q, got %q", core.CollabTypeContentOpportunity, collabs[0].Type)
	}
	if collabs[0].ContentCount != 0 {
		t.Errorf("placeholder contentCount should be 0, got %d", collabs[0].ContentCount)
	}
}

func TestAnalyze_SchemaComplete(t *testing.T) {
	sets := []core.InfluencerContentSet{
		{
			Platform:       core.PlatformYouTube,
			InfluencerName: "TechReviewer",
			Content: []core.ContentItem{
				item("Samsung review", "", "video", 5000, 300, 100000, "#samsung", "#tech"),
				item("Samsung tips", "", "video", 2000, 100, 40000, "#samsung"),
			},
		},
	}

	analysis := Analyze(sets)

	if analysis.Summary == "" {
		t.Error("summary must not be empty")
	}
	if len(analysis.KeyFindings) == 0 {
		t.Error("key findings must not be empty")
	}
	if analysis.PlatformInsights == nil {
		t.Error("platform insights must not be nil")
	}
	if _, ok := analysis.PlatformInsights[core.PlatformYouTube]; !ok {
		t.Error("expected a youtube platform insight")
	}
	if analysis.ContentAnalysis.ContentTypes["videos"] != 2 {
		t.Errorf("expected 2 videos, got %d", analysis.ContentAnalysis.ContentTypes["videos"])
	}
	if len(analysis.BrandCollaborations) == 0 {
		t.Error("brand collaborations must never be empty")
	}

	s := analysis.ContentAnalysis.SentimentAnalysis
	if s.Positive+s.Neutral+s.Negative != 100 {
		t.Errorf("synthesized sentiment must sum to 100, got %v", s.Positive+s.Neutral+s.Negative)
	}
}

func TestAnalyze_Deterministic(t *testing.T) {
	sets := []core.InfluencerContentSet{
		{
			Platform:       core.PlatformInstagram,
			InfluencerName: "fitlife",
			Content: []core.ContentItem{
				item("", "Routine with Gymshark gear", "Reel", 900, 40, 0, "#fitness", "#gymshark"),
				item("", "Gymshark drop haul", "Reel", 1100, 60, 0, "#gymshark"),
			},
		},
	}

	first := Analyze(sets)
	second := Analyze(sets)

	if first.Summary != second.Summary {
		t.Error("summary must be deterministic")
	}
	if len(first.BrandCollaborations) != len(second.BrandCollaborations) {
		t.Error("collaborations must be deterministic")
	}
	if first.BrandCollaborations[0].Name != second.BrandCollaborations[0].Name {
		t.Error("collaboration order must be stable")
	}
}

func TestFormatMagnitude(t *testing.T) {
	tests := []struct {
		n    uint64
		want string
	}{
		{999, "999"},
		{1500, "1.5K"},
		{1200000, "1.2M"},
	}
	for _, tt := range tests {
		if got := formatMagnitude(tt.n); got != tt.want {
			t.Errorf("formatMagnitude(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
