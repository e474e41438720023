package normalize

import (
	"reflect"
	"testing"

	"trendlens/internal/core"
)

func sampleBatch() []map[string]any {
	return []map[string]any{
		{
			"platform": "youtube",
			"name":     "TechReviewer",
			"content": []any{
				map[string]any{
					"title":        "Galaxy S25 Review",
					"description":  "Full review #samsung #tech",
					"viewCount":    float64(125000),
					"likesCount":   float64(8400),
					"commentCount": float64(312),
					"publishedAt":  "2026-08-29T10:00:00Z",
					"hashtags":     []any{"#samsung", "#tech"},
				},
			},
		},
		{
			"platform":       "instagram",
			"influencerName": "fitlife",
			"content": []any{
				map[string]any{
					"caption": "Morning routine",
					"likes":   float64(5400),
					"type":    "Reel",
				},
			},
		},
	}
}

func TestNormalize_FieldPrecedence(t *testing.T) {
	sets := Normalize(sampleBatch())
	if len(sets) != 2 {
		t.Fatalf("expected 2 content sets, got %d", len(sets))
	}

	yt := sets[0]
	if yt.Platform != core.PlatformYouTube {
		t.Errorf("expected youtube platform, got %s", yt.Platform)
	}
	if yt.InfluencerName != "TechReviewer" {
		t.Errorf("expected influencer name from 'name' field, got %q", yt.InfluencerName)
	}
	if len(yt.Content) != 1 {
		t.Fatalf("expected 1 item, got %d", len(yt.Content))
	}

	item := yt.Content[0]
	if item.Caption != "Full review #samsung #tech" {
		t.Errorf("expected caption from 'description' fallback, got %q", item.Caption)
	}
	if item.Engagement.Views != 125000 {
		t.Errorf("expected views from 'viewCount', got %d", item.Engagement.Views)
	}
	if item.Engagement.Likes != 8400 {
		t.Errorf("expected likes from 'likesCount', got %d", item.Engagement.Likes)
	}
	if item.Engagement.Comments != 312 {
		t.Errorf("expected comments from 'commentCount', got %d", item.Engagement.Comments)
	}
	if item.Type != "video" {
		t.Errorf("expected default type 'video' for youtube, got %q", item.Type)
	}

	ig := sets[1].Content[0]
	if ig.Caption != "Morning routine" {
		t.Errorf("expected caption preferred over description, got %q", ig.Caption)
	}
	if ig.Type != "Reel" {
		t.Errorf("expected explicit type 'Reel', got %q", ig.Type)
	}
	if ig.Engagement.Comments != 0 {
		t.Errorf("missing comments should default to 0, got %d", ig.Engagement.Comments)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	batch := sampleBatch()
	first := Normalize(batch)
	second := Normalize(batch)

	if !reflect.DeepEqual(first, second) {
		t.Error("normalizing the same batch twice must yield identical results")
	}
}

func TestNormalize_MalformedInput(t *testing.T) {
	batch := []map[string]any{
		{
			"platform": "tiktok",
			"content": []any{
				map[string]any{
					"likes": "not-a-number",
					"views": float64(-5),
				},
				"not-a-map",
				map[string]any{
					"likes": "1200",
				},
			},
		},
		{}, // no fields at all
	}

	sets := Normalize(batch)
	if len(sets) != 2 {
		t.Fatalf("expected 2 sets even for malformed input, got %d", len(sets))
	}

	if sets[0].Platform != core.PlatformOther {
		t.Errorf("unknown platform should map to 'other', got %s", sets[0].Platform)
	}
	if len(sets[0].Content) != 2 {
		t.Fatalf("non-map items should be skipped, expected 2 items, got %d", len(sets[0].Content))
	}
	if sets[0].Content[0].Engagement.Likes != 0 {
		t.Errorf("non-numeric likes should default to 0, got %d", sets[0].Content[0].Engagement.Likes)
	}
	if sets[0].Content[0].Engagement.Views != 0 {
		t.Errorf("negative views should default to 0, got %d", sets[0].Content[0].Engagement.Views)
	}
	if sets[0].Content[1].Engagement.Likes != 1200 {
		t.Errorf("numeric string likes should parse, got %d", sets[0].Content[1].Engagement.Likes)
	}

	if sets[1].Content == nil {
		t.Error("content must be an empty slice, never nil")
	}
}

func TestNormalize_HashtagsPreserveOrder(t *testing.T) {
	batch := []map[string]any{
		{
			"platform": "instagram",
			"name":     "styled",
			"content": []any{
				map[string]any{
					"caption":  "look of the day",
					"hashtags": []any{"#ootd", "#fashion", "#style"},
					"mentions": []string{"@brand", "@photographer"},
				},
			},
		},
	}

	item := Normalize(batch)[0].Content[0]
	wantTags := []string{"#ootd", "#fashion", "#style"}
	if !reflect.DeepEqual(item.Hashtags, wantTags) {
		t.Errorf("hashtags order changed: got %v, want %v", item.Hashtags, wantTags)
	}
	wantMentions := []string{"@brand", "@photographer"}
	if !reflect.DeepEqual(item.Mentions, wantMentions) {
		t.Errorf("mentions order changed: got %v, want %v", item.Mentions, wantMentions)
	}
}
