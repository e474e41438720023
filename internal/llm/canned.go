package llm

import (
	"context"
	"strings"
	"time"

	"trendlens/internal/parse"
)

// DemoBriefJSON is the schema-valid canned analysis served when no API
// credential is configured or when the live endpoint is unreachable.
// It lets every downstream stage run without network access. The
// narrative fields carry a visible demo label so an assembled demo
// brief is never mistaken for a genuine AI analysis.
const DemoBriefJSON = `{
  "summary": "Demo analysis: tracked influencers kept a steady publishing cadence this period, with short-form video clearly outperforming static posts. Engagement concentrated on tech review content, and two recurring brand relationships stand out.",
  "keyFindings": [
    "Demo brief: produced from canned analysis, not a live AI call",
    "Short-form video drives roughly three times the engagement of static posts",
    "Tech review content is the strongest theme across tracked accounts",
    "Posting consistency correlates with steadier engagement per item",
    "Recurring brand mentions suggest at least one active sponsorship",
    "Comment-to-like ratios indicate an unusually conversational audience"
  ],
  "platformInsights": {
    "youtube": {
      "summary": "Long-form reviews anchor the channel strategy, with consistent mid-week uploads.",
      "topContentTypes": ["videos"],
      "trendingHashtags": ["#tech", "#review", "#unboxing"],
      "engagementTrends": "Views are stable while comment volume is trending upward"
    },
    "instagram": {
      "summary": "Reels dominate reach; static posts serve mainly as campaign anchors.",
      "topContentTypes": ["reels", "photos"],
      "trendingHashtags": ["#lifestyle", "#fitness", "#ootd"],
      "engagementTrends": "Reels earn the bulk of likes; story engagement is flat"
    }
  },
  "contentAnalysis": {
    "keyThemes": ["product reviews", "daily routines", "brand partnerships"],
    "trendingTopics": ["#tech", "#fitness", "#unboxing"],
    "contentTypes": {"videos": 4, "reels": 3, "stories": 1, "photos": 2},
    "sentimentAnalysis": {"positive": 55, "neutral": 32, "negative": 13},
    "engagementInsights": [
      "Video content sustains engagement well beyond the first 24 hours",
      "Posts with three or more hashtags outperform untagged posts"
    ],
    "competitorAnalysis": [
      "Comparable accounts in the niche are shifting budget toward short-form video",
      "Collaboration posts in this niche earn above-average reach"
    ],
    "recommendations": [
      "Prioritize short-form video in the next content cycle",
      "Bundle product mentions into recurring series for sponsor visibility"
    ]
  },
  "actionableRecommendations": [
    "Configure a Gemini API key to replace this demo analysis with live AI generation",
    "Schedule uploads in the mid-week window where engagement peaks",
    "Pitch recurring review series to the brands already being mentioned organically",
    "Cross-post top-performing reels to capture the overlapping audience"
  ],
  "brandCollaborations": [
    {
      "name": "Samsung",
      "type": "Product Review",
      "campaign": "Galaxy device review series",
      "aiInsights": "Repeated organic coverage with strong engagement makes this a natural sponsorship upgrade candidate.",
      "engagement": "4.8%",
      "reach": "1.2M",
      "sentiment": "positive",
      "platform": "youtube",
      "contentCount": 3
    },
    {
      "name": "Gymshark",
      "type": "Product Mention",
      "campaign": "Workout apparel features",
      "aiInsights": "Apparel appears consistently in fitness reels without a disclosed partnership.",
      "engagement": "3.1%",
      "reach": "420K",
      "sentiment": "positive",
      "platform": "instagram",
      "contentCount": 2
    }
  ]
}`

// RateLimitNotice is the canned markdown served when the upstream
// endpoint reports quota exhaustion. The embedded marker routes the
// parser straight to fallback synthesis.
const RateLimitNotice = `## Trend Analysis Temporarily Unavailable ` + parse.RateLimitMarker + `

The AI analysis quota has been exceeded. A data-derived brief has been
generated instead; AI narrative analysis will resume automatically once
the quota resets.

- Engagement counting, content-type breakdowns, and brand detection remain available
- Narrative sections are placeholders until the next successful generation`

// cannedAnswers maps question substrings to best-effort demo answers
// for free-form queries. First match wins.
var cannedAnswers = []struct {
	keyword string
	answer  string
}{
	{"engagement", "Across the tracked accounts, short-form video earns the highest engagement per item, typically 3-5% of reach. Engagement is strongest in the first 24 hours after posting."},
	{"brand", "The most promising brand signals come from products that appear organically in two or more content items; those are the natural candidates for a formal sponsorship conversation."},
	{"sponsor", "Recurring organic mentions are the strongest sponsorship signal in the current data. Brands mentioned three or more times warrant direct outreach."},
	{"hashtag", "The trending hashtags in the tracked content cluster around the dominant content theme; reusing the top three tags consistently correlates with higher reach."},
	{"platform", "YouTube drives the deepest engagement per item while Instagram reels deliver the widest reach; the platforms complement rather than compete with each other."},
	{"post", "Posting cadence matters more than volume in this data set: accounts with a steady schedule hold engagement per item noticeably better than bursty publishers."},
}

const defaultCannedAnswer = "Based on the tracked content, engagement is healthy and concentrated in video formats. Configure a Gemini API key for a detailed AI answer to this question."

// DemoResponse picks the appropriate canned output for a prompt: a
// substring-matched answer for query prompts, the demo brief otherwise.
func DemoResponse(prompt string) string {
	if idx := strings.LastIndex(prompt, "QUESTION:"); idx >= 0 {
		return CannedAnswer(prompt[idx+len("QUESTION:"):])
	}
	return DemoBriefJSON
}

// CannedAnswer returns a best-effort answer keyed by substring match
// against the question text.
func CannedAnswer(question string) string {
	q := strings.ToLower(question)
	for _, c := range cannedAnswers {
		if strings.Contains(q, c.keyword) {
			return c.answer
		}
	}
	return defaultCannedAnswer
}

// CannedClient is the demo-mode generator: it serves canned responses
// after a simulated delay and never touches the network. Selected at
// construction time when no API credential is configured, so the
// pipeline itself never branches on credentials.
type CannedClient struct {
	Delay time.Duration
}

// NewCannedClient creates a demo-mode generator with the given
// simulated latency.
func NewCannedClient(delay time.Duration) *CannedClient {
	return &CannedClient{Delay: delay}
}

// Generate returns the canned response for the prompt after the
// configured delay, honoring context cancellation.
func (c *CannedClient) Generate(ctx context.Context, prompt string) (string, error) {
	if c.Delay > 0 {
		timer := time.NewTimer(c.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-timer.C:
		}
	}
	return DemoResponse(prompt), nil
}
