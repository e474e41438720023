package core

import "time"

// Platform identifies the social network a content item came from.
type Platform string

const (
	PlatformYouTube   Platform = "youtube"
	PlatformInstagram Platform = "instagram"
	PlatformOther     Platform = "other"
)

// Engagement holds the interaction counters for a single content item.
// Likes and Comments are always populated; missing source fields are zero.
type Engagement struct {
	Likes    uint64 `json:"likes"`    // Like count (0 when the source omits it)
	Comments uint64 `json:"comments"` // Comment count (0 when the source omits it)
	Views    uint64 `json:"views,omitempty"`  // View count, when the platform reports one
	Shares   uint64 `json:"shares,omitempty"` // Share count, when the platform reports one
}

// Total returns the combined like and comment count for an item.
func (e Engagement) Total() uint64 {
	return e.Likes + e.Comments
}

// ContentItem is the canonical, platform-agnostic representation of one
// post or video. Every downstream stage consumes this shape.
type ContentItem struct {
	Platform       Platform   `json:"platform"`        // Source platform
	InfluencerName string     `json:"influencerName"`  // Display name of the creator
	Title          string     `json:"title,omitempty"` // Video title (empty for caption-only posts)
	Caption        string     `json:"caption,omitempty"` // Post caption or description
	Hashtags       []string   `json:"hashtags"`        // Hashtags in source order
	Mentions       []string   `json:"mentions"`        // @-mentions in source order
	Engagement     Engagement `json:"engagement"`      // Interaction counters
	Timestamp      string     `json:"timestamp"`       // ISO-8601 publish time as reported by the source
	Type           string     `json:"type"`            // Free-form content type ("video", "Reel", "Post", ...)
}

// InfluencerContentSet groups the canonical items for one tracked
// influencer/platform pairing. Assembled fresh per brief request.
type InfluencerContentSet struct {
	Platform       Platform      `json:"platform"`
	InfluencerName string        `json:"influencerName"`
	Content        []ContentItem `json:"content"`
}

// SentimentBreakdown holds the positive/neutral/negative split as
// percentages. The model is asked to make them sum to 100 but the
// parser passes them through without enforcing it.
type SentimentBreakdown struct {
	Positive float64 `json:"positive"`
	Neutral  float64 `json:"neutral"`
	Negative float64 `json:"negative"`
}

// ContentAnalysisResult is the structured content analysis section of a
// trend brief.
type ContentAnalysisResult struct {
	KeyThemes          []string           `json:"keyThemes"`          // Recurring themes across the content set
	TrendingTopics     []string           `json:"trendingTopics"`     // Topics gaining traction in the period
	ContentTypes       map[string]int     `json:"contentTypes"`       // Count per content-type bucket (videos, reels, stories, photos)
	SentimentAnalysis  SentimentBreakdown `json:"sentimentAnalysis"`  // Percentage split of audience sentiment
	EngagementInsights []string           `json:"engagementInsights"` // Observations about engagement patterns
	CompetitorAnalysis []string           `json:"competitorAnalysis"` // Competitive observations
	Recommendations    []string           `json:"recommendations"`    // Content-strategy recommendations
}

// PlatformInsight summarizes activity on a single platform.
type PlatformInsight struct {
	Summary          string   `json:"summary"`
	TopContentTypes  []string `json:"topContentTypes"`
	TrendingHashtags []string `json:"trendingHashtags"`
	EngagementTrends string   `json:"engagementTrends"`
}

// Brand collaboration types, ordered by implied commitment level.
const (
	CollabTypeSponsorship        = "Sponsorship"
	CollabTypeProductReview      = "Product Review"
	CollabTypeUGCCampaign        = "UGC Campaign"
	CollabTypeProductMention     = "Product Mention"
	CollabTypeContentOpportunity = "Content Opportunity"
)

// BrandCollaboration describes a detected or AI-reported brand
// partnership within the content set.
type BrandCollaboration struct {
	Name         string `json:"name"`         // Brand name
	Type         string `json:"type"`         // One of the CollabType constants
	Campaign     string `json:"campaign"`     // Campaign description
	AIInsights   string `json:"aiInsights"`   // Narrative insight about the collaboration
	Engagement   string `json:"engagement"`   // Engagement rate as a percentage string (e.g. "4.2%")
	Reach        string `json:"reach"`        // Estimated reach as a magnitude string (e.g. "1.2M")
	Sentiment    string `json:"sentiment"`    // positive, neutral, or negative
	Platform     string `json:"platform"`     // Platform the collaboration appeared on
	ContentCount int    `json:"contentCount"` // Number of items mentioning the brand
}

// BriefAnalysis is the parser/synthesizer output: a trend brief minus
// the fields the assembler adds (ID, period, generation timestamp).
type BriefAnalysis struct {
	Summary                   string                       `json:"summary"`
	KeyFindings               []string                     `json:"keyFindings"`
	PlatformInsights          map[Platform]PlatformInsight `json:"platformInsights"`
	ContentAnalysis           ContentAnalysisResult        `json:"contentAnalysis"`
	ActionableRecommendations []string                     `json:"actionableRecommendations"`
	BrandCollaborations       []BrandCollaboration         `json:"brandCollaborations"`
}

// TrendBrief is the pipeline's output artifact: the structured analysis
// summarizing influencer content over a period. Every array field is
// non-nil so consumers never need to null-check.
type TrendBrief struct {
	ID                        string                       `json:"id"`
	Summary                   string                       `json:"summary"`
	Period                    string                       `json:"period"` // Human label such as "48 hours"
	KeyFindings               []string                     `json:"keyFindings"`
	PlatformInsights          map[Platform]PlatformInsight `json:"platformInsights"`
	ContentAnalysis           ContentAnalysisResult        `json:"contentAnalysis"`
	ActionableRecommendations []string                     `json:"actionableRecommendations"`
	BrandCollaborations       []BrandCollaboration         `json:"brandCollaborations"`
	GeneratedAt               time.Time                    `json:"generatedAt"`
}

// RefreshState tracks when a brief was last generated. The zero value
// means no brief has ever been generated.
type RefreshState struct {
	LastGeneratedAt time.Time `json:"last_generated_at"`
	HasGenerated    bool      `json:"has_generated"`
}
