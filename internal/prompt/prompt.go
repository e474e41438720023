package prompt

import (
	"fmt"
	"strings"

	"trendlens/internal/core"
)

const (
	// MaxItemsPerInfluencer caps how many items of each content set are
	// rendered into the prompt; the newest items (source order) win.
	MaxItemsPerInfluencer = 12

	// MaxContentBytes caps the rendered content block. Whole items are
	// dropped from the end and an omission note is appended, so the
	// prompt never cuts an item mid-line.
	MaxContentBytes = 24000
)

// instructionTemplate asks the model for the exact trend-brief schema.
// The timeframe is the only caller-supplied value; everything else is
// fixed so formatting stays deterministic.
const instructionTemplate = `You are a social media marketing analyst. Analyze the influencer content above, covering the last %s, and respond with ONLY a JSON object in exactly this shape:

{
  "summary": "2-3 sentence overview of the period",
  "keyFindings": ["5-7 specific findings grounded in the data"],
  "platformInsights": {
    "youtube": {"summary": "...", "topContentTypes": ["..."], "trendingHashtags": ["..."], "engagementTrends": "..."},
    "instagram": {"summary": "...", "topContentTypes": ["..."], "trendingHashtags": ["..."], "engagementTrends": "..."}
  },
  "contentAnalysis": {
    "keyThemes": ["..."],
    "trendingTopics": ["..."],
    "contentTypes": {"videos": 0, "reels": 0, "stories": 0, "photos": 0},
    "sentimentAnalysis": {"positive": 0, "neutral": 0, "negative": 0},
    "engagementInsights": ["..."],
    "competitorAnalysis": ["..."],
    "recommendations": ["..."]
  },
  "actionableRecommendations": ["..."],
  "brandCollaborations": [
    {"name": "...", "type": "Sponsorship|Product Review|UGC Campaign|Product Mention", "campaign": "...", "aiInsights": "...", "engagement": "4.2%%", "reach": "1.2M", "sentiment": "positive|neutral|negative", "platform": "...", "contentCount": 0}
  ]
}

Rules:
- The three sentimentAnalysis percentages must sum to 100.
- Populate every array with entries grounded in the content data; do not invent influencers.
- Only include platformInsights keys for platforms present in the data.
- Respond with the JSON object only, no prose before or after it.`

// queryPreamble frames a free-form question against the content set.
const queryPreamble = `You are a social media marketing analyst with access to the influencer content below. Answer the question concisely in plain text, grounding every claim in the data.`

// Format renders the canonical content sets plus the structured-analysis
// instruction into a single prompt. Deterministic for a given input: no
// timestamps or randomness beyond the caller-supplied timeframe label.
func Format(sets []core.InfluencerContentSet, timeframe string) string {
	var b strings.Builder
	b.WriteString("INFLUENCER CONTENT DATA:\n\n")
	b.WriteString(renderContent(sets))
	b.WriteString("\n")
	fmt.Fprintf(&b, instructionTemplate, timeframe)
	return b.String()
}

// FormatQuery renders the content sets as context for a free-form
// question. The QUESTION marker lets demo-mode clients recover the
// question text for canned substring matching.
func FormatQuery(sets []core.InfluencerContentSet, question string) string {
	var b strings.Builder
	b.WriteString(queryPreamble)
	b.WriteString("\n\nINFLUENCER CONTENT DATA:\n\n")
	b.WriteString(renderContent(sets))
	fmt.Fprintf(&b, "\nQUESTION: %s\n", question)
	return b.String()
}

// renderContent produces the bounded content dump grouped by influencer
// and platform.
func renderContent(sets []core.InfluencerContentSet) string {
	var b strings.Builder
	omitted := 0

	for _, set := range sets {
		header := fmt.Sprintf("## %s (%s)\n", set.InfluencerName, set.Platform)

		items := set.Content
		if len(items) > MaxItemsPerInfluencer {
			omitted += len(items) - MaxItemsPerInfluencer
			items = items[:MaxItemsPerInfluencer]
		}

		block := header
		for _, item := range items {
			block += renderItem(item)
		}

		if b.Len()+len(block) > MaxContentBytes {
			// Count everything we can no longer fit.
			omitted += len(items)
			continue
		}
		b.WriteString(block)
	}

	if omitted > 0 {
		fmt.Fprintf(&b, "(%d additional items omitted to fit the analysis window)\n", omitted)
	}

	return b.String()
}

func renderItem(item core.ContentItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "- [%s] %s", item.Type, item.Timestamp)
	if item.Title != "" {
		fmt.Fprintf(&b, " | %s", item.Title)
	}
	if item.Caption != "" {
		fmt.Fprintf(&b, " | %s", item.Caption)
	}
	if len(item.Hashtags) > 0 {
		fmt.Fprintf(&b, " | tags: %s", strings.Join(item.Hashtags, " "))
	}
	fmt.Fprintf(&b, " | likes=%d comments=%d", item.Engagement.Likes, item.Engagement.Comments)
	if item.Engagement.Views > 0 {
		fmt.Fprintf(&b, " views=%d", item.Engagement.Views)
	}
	if item.Engagement.Shares > 0 {
		fmt.Fprintf(&b, " shares=%d", item.Engagement.Shares)
	}
	b.WriteString("\n")
	return b.String()
}
