package fetch

import (
	"reflect"
	"testing"

	ytapi "google.golang.org/api/youtube/v3"

	"trendlens/internal/core"
	"trendlens/internal/normalize"
)

func TestExtractHashtags(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []any
	}{
		{
			name: "basic tags",
			text: "New phone review #tech #smartphone",
			want: []any{"#tech", "#smartphone"},
		},
		{
			name: "case-insensitive dedupe keeps first form",
			text: "#Tech news and more #tech news",
			want: []any{"#Tech"},
		},
		{
			name: "unicode tags",
			text: "Unboxing #日本 edition",
			want: []any{"#日本"},
		},
		{
			name: "no tags",
			text: "plain description without tags",
			want: []any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractHashtags(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("extractHashtags(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtractMentions(t *testing.T) {
	got := extractMentions("Collab with @TechDaily and @tech.daily, thanks @TechDaily!")
	want := []any{"@TechDaily", "@tech.daily"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("extractMentions = %v, want %v", got, want)
	}
}

func TestBuildVideoRecord(t *testing.T) {
	snippet := &ytapi.PlaylistItemSnippet{
		Title:       "Samsung Galaxy review #tech",
		Description: "Full review with @TechDaily #samsung",
		PublishedAt: "2026-08-29T10:00:00Z",
	}
	stats := &ytapi.VideoStatistics{
		ViewCount:    120000,
		LikeCount:    5400,
		CommentCount: 230,
	}

	record := buildVideoRecord("vid-1", snippet, stats)

	if record["id"] != "vid-1" {
		t.Errorf("id = %v, want vid-1", record["id"])
	}
	if record["type"] != "video" {
		t.Errorf("type = %v, want video", record["type"])
	}
	if record["viewCount"] != uint64(120000) {
		t.Errorf("viewCount = %v, want 120000", record["viewCount"])
	}
	tags, ok := record["hashtags"].([]any)
	if !ok || len(tags) != 2 {
		t.Errorf("hashtags = %v, want two tags", record["hashtags"])
	}
}

func TestBuildVideoRecord_NilStats(t *testing.T) {
	record := buildVideoRecord("vid-2", &ytapi.PlaylistItemSnippet{Title: "t"}, nil)

	if _, ok := record["viewCount"]; ok {
		t.Error("viewCount should be absent without statistics")
	}
}

func TestBuildVideoRecord_NormalizesCleanly(t *testing.T) {
	snippet := &ytapi.PlaylistItemSnippet{
		Title:       "Nike running shoes first look",
		Description: "Trying the new drop #nike #running",
		PublishedAt: "2026-08-30T08:30:00Z",
	}
	stats := &ytapi.VideoStatistics{ViewCount: 54000, LikeCount: 3100, CommentCount: 95}

	raw := map[string]any{
		"platform":       "youtube",
		"influencerName": "RunnerVlogs",
		"content":        []any{buildVideoRecord("vid-3", snippet, stats)},
	}

	sets := normalize.Normalize([]map[string]any{raw})
	if len(sets) != 1 || len(sets[0].Content) != 1 {
		t.Fatalf("expected one set with one item, got %+v", sets)
	}

	item := sets[0].Content[0]
	if item.Platform != core.PlatformYouTube {
		t.Errorf("platform = %v, want youtube", item.Platform)
	}
	if item.InfluencerName != "RunnerVlogs" {
		t.Errorf("influencer = %q, want RunnerVlogs", item.InfluencerName)
	}
	if item.Engagement.Views != 54000 || item.Engagement.Likes != 3100 || item.Engagement.Comments != 95 {
		t.Errorf("engagement = %+v, want views/likes/comments mapped", item.Engagement)
	}
	if item.Timestamp != "2026-08-30T08:30:00Z" {
		t.Errorf("timestamp = %q, want the publishedAt value", item.Timestamp)
	}
	if len(item.Hashtags) != 2 {
		t.Errorf("hashtags = %v, want 2 entries", item.Hashtags)
	}
}
