package synthesis

import (
	"fmt"
	"sort"
	"strings"

	"trendlens/internal/core"
)

// knownBrands is the fixed keyword list scanned for brand co-occurrence.
// Matching is case-insensitive over each item's title, caption, and
// hashtags.
var knownBrands = []string{
	"Nike", "Adidas", "Puma", "Gymshark",
	"Apple", "Samsung", "Sony", "GoPro",
	"Sephora", "Loreal", "Fenty",
	"HelloFresh", "NordVPN", "Squarespace", "Audible",
	"Zara", "Shein", "Fashion Nova",
	"Red Bull", "Monster Energy",
	"Amazon", "Daniel Wellington",
}

// minBrandMentions is the bar a brand must clear before it is reported
// as a collaboration.
const minBrandMentions = 2

// Average-engagement thresholds for upgrading the collaboration type
// and deriving sentiment.
const (
	sponsorshipEngagement = 5000
	reviewEngagement      = 1500
	positiveEngagement    = 2500
	neutralEngagement     = 800
)

// defaultItemReach is counted for a matched item that reports no views.
const defaultItemReach = 1000

// CountContentTypes buckets every item's free-form type string into the
// four canonical counters. All four keys are always present.
func CountContentTypes(items []core.ContentItem) map[string]int {
	counts := map[string]int{"videos": 0, "reels": 0, "stories": 0, "photos": 0}
	for _, item := range items {
		t := strings.ToLower(item.Type)
		switch {
		case strings.Contains(t, "video") || strings.Contains(t, "youtube"):
			counts["videos"]++
		case strings.Contains(t, "reel"):
			counts["reels"]++
		case strings.Contains(t, "story") || strings.Contains(t, "stories"):
			counts["stories"]++
		default:
			counts["photos"]++
		}
	}
	return counts
}

// brandStats accumulates per-brand aggregates during the scan.
type brandStats struct {
	mentions   int
	engagement uint64
	reach      uint64
	platform   core.Platform
}

// DetectBrandCollaborations scans each item's concatenated title,
// caption, and hashtags for the known brand keywords and aggregates
// per-brand mention counts, engagement, and reach. Brands with fewer
// than minBrandMentions mentions are discarded. When nothing clears the
// bar a single placeholder record is returned so consumers always have
// something to render.
func DetectBrandCollaborations(items []core.ContentItem) []core.BrandCollaboration {
	stats := make(map[string]*brandStats)

	for _, item := range items {
		haystack := strings.ToLower(item.Title + " " + item.Caption + " " + strings.Join(item.Hashtags, " "))
		for _, brand := range knownBrands {
			if !strings.Contains(haystack, strings.ToLower(brand)) {
				continue
			}
			s, ok := stats[brand]
			if !ok {
				s = &brandStats{platform: item.Platform}
				stats[brand] = s
			}
			s.mentions++
			s.engagement += item.Engagement.Total()
			if item.Engagement.Views > 0 {
				s.reach += item.Engagement.Views
			} else {
				s.reach += defaultItemReach
			}
		}
	}

	collabs := []core.BrandCollaboration{}
	for brand, s := range stats {
		if s.mentions < minBrandMentions {
			continue
		}
		avg := s.engagement / uint64(s.mentions)
		collabs = append(collabs, core.BrandCollaboration{
			Name:         brand,
			Type:         collabType(avg),
			Campaign:     fmt.Sprintf("Recurring %s coverage (%d mentions)", brand, s.mentions),
			AIInsights:   fmt.Sprintf("%s appears across %d pieces of content with average engagement of %d interactions, suggesting an ongoing relationship rather than incidental coverage.", brand, s.mentions, avg),
			Engagement:   engagementRate(s.engagement, s.reach),
			Reach:        formatMagnitude(s.reach),
			Sentiment:    collabSentiment(avg),
			Platform:     string(s.platform),
			ContentCount: s.mentions,
		})
	}

	if len(collabs) == 0 {
		return []core.BrandCollaboration{{
			Name:         "No collaborations detected",
			Type:         core.CollabTypeContentOpportunity,
			Campaign:     "None identified in the current period",
			AIInsights:   "No brand appeared in two or more content items. This may indicate untapped sponsorship potential for the tracked influencers.",
			Engagement:   "0.0%",
			Reach:        "0",
			Sentiment:    "neutral",
			Platform:     "all",
			ContentCount: 0,
		}}
	}

	sort.Slice(collabs, func(i, j int) bool {
		if collabs[i].ContentCount != collabs[j].ContentCount {
			return collabs[i].ContentCount > collabs[j].ContentCount
		}
		return collabs[i].Name < collabs[j].Name
	})

	return collabs
}

// collabType upgrades the collaboration label as average engagement
// crosses the two fixed thresholds.
func collabType(avgEngagement uint64) string {
	switch {
	case avgEngagement >= sponsorshipEngagement:
		return core.CollabTypeSponsorship
	case avgEngagement >= reviewEngagement:
		return core.CollabTypeProductReview
	default:
		return core.CollabTypeProductMention
	}
}

func collabSentiment(avgEngagement uint64) string {
	switch {
	case avgEngagement >= positiveEngagement:
		return "positive"
	case avgEngagement >= neutralEngagement:
		return "neutral"
	default:
		return "negative"
	}
}

// Analyze reconstructs a complete brief analysis from the canonical
// content alone. It is the fallback for unparsable model output and the
// source of the contentAnalysis/brandCollaborations sections of
// rate-limited briefs. Fully deterministic.
func Analyze(sets []core.InfluencerContentSet) core.BriefAnalysis {
	items := flatten(sets)
	counts := CountContentTypes(items)
	hashtags := topHashtags(items, 5)
	total := totalEngagement(items)
	avg := uint64(0)
	if len(items) > 0 {
		avg = total / uint64(len(items))
	}

	analysis := core.BriefAnalysis{
		Summary: fmt.Sprintf("Tracked %d influencers produced %d content items in the period, averaging %d interactions per item. Analysis derived directly from engagement data.",
			len(sets), len(items), avg),
		KeyFindings:               keyFindings(sets, items, counts, hashtags),
		PlatformInsights:          platformInsights(sets),
		ContentAnalysis:           contentAnalysis(items, counts, hashtags, avg),
		ActionableRecommendations: recommendations(counts, hashtags),
		BrandCollaborations:       DetectBrandCollaborations(items),
	}

	return analysis
}

func flatten(sets []core.InfluencerContentSet) []core.ContentItem {
	var items []core.ContentItem
	for _, set := range sets {
		items = append(items, set.Content...)
	}
	return items
}

func totalEngagement(items []core.ContentItem) uint64 {
	var total uint64
	for _, item := range items {
		total += item.Engagement.Total()
	}
	return total
}

// topHashtags returns the n most frequent hashtags, ties broken
// alphabetically so the output is stable.
func topHashtags(items []core.ContentItem, n int) []string {
	freq := make(map[string]int)
	for _, item := range items {
		for _, tag := range item.Hashtags {
			freq[strings.ToLower(tag)]++
		}
	}

	tags := make([]string, 0, len(freq))
	for tag := range freq {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool {
		if freq[tags[i]] != freq[tags[j]] {
			return freq[tags[i]] > freq[tags[j]]
		}
		return tags[i] < tags[j]
	})

	if len(tags) > n {
		tags = tags[:n]
	}
	return tags
}

func keyFindings(sets []core.InfluencerContentSet, items []core.ContentItem, counts map[string]int, hashtags []string) []string {
	findings := []string{
		fmt.Sprintf("%d content items analyzed across %d influencer accounts", len(items), len(sets)),
	}

	if top, count := dominantType(counts); count > 0 {
		findings = append(findings, fmt.Sprintf("%s dominate the content mix with %d items", top, count))
	}
	if len(hashtags) > 0 {
		findings = append(findings, fmt.Sprintf("Most used hashtags: %s", strings.Join(hashtags, ", ")))
	}
	if best := bestItem(items); best != nil {
		label := best.Title
		if label == "" {
			label = best.Caption
		}
		if len(label) > 60 {
			label = label[:60] + "..."
		}
		findings = append(findings, fmt.Sprintf("Top performing item (%d interactions): %s", best.Engagement.Total(), label))
	}
	for _, set := range sets {
		if len(set.Content) == 0 {
			findings = append(findings, fmt.Sprintf("No recent content found for %s on %s", set.InfluencerName, set.Platform))
			break
		}
	}

	return findings
}

func dominantType(counts map[string]int) (string, int) {
	best, bestCount := "", 0
	for _, t := range []string{"videos", "reels", "stories", "photos"} {
		if counts[t] > bestCount {
			best, bestCount = t, counts[t]
		}
	}
	return best, bestCount
}

func bestItem(items []core.ContentItem) *core.ContentItem {
	var best *core.ContentItem
	for i := range items {
		if best == nil || items[i].Engagement.Total() > best.Engagement.Total() {
			best = &items[i]
		}
	}
	return best
}

func platformInsights(sets []core.InfluencerContentSet) map[core.Platform]core.PlatformInsight {
	insights := make(map[core.Platform]core.PlatformInsight)

	byPlatform := make(map[core.Platform][]core.ContentItem)
	for _, set := range sets {
		byPlatform[set.Platform] = append(byPlatform[set.Platform], set.Content...)
	}

	for platform, items := range byPlatform {
		counts := CountContentTypes(items)
		topTypes := []string{}
		for _, t := range []string{"videos", "reels", "stories", "photos"} {
			if counts[t] > 0 {
				topTypes = append(topTypes, t)
			}
		}
		avg := uint64(0)
		if len(items) > 0 {
			avg = totalEngagement(items) / uint64(len(items))
		}
		insights[platform] = core.PlatformInsight{
			Summary:          fmt.Sprintf("%d items tracked on %s", len(items), platform),
			TopContentTypes:  topTypes,
			TrendingHashtags: topHashtags(items, 3),
			EngagementTrends: fmt.Sprintf("Average of %d interactions per item", avg),
		}
	}

	return insights
}

func contentAnalysis(items []core.ContentItem, counts map[string]int, hashtags []string, avg uint64) core.ContentAnalysisResult {
	themes := make([]string, 0, len(hashtags))
	for _, tag := range hashtags {
		themes = append(themes, strings.TrimPrefix(tag, "#"))
	}

	result := core.ContentAnalysisResult{
		KeyThemes:          themes,
		TrendingTopics:     append([]string{}, hashtags...),
		ContentTypes:       counts,
		SentimentAnalysis:  sentimentFromEngagement(avg),
		EngagementInsights: []string{},
		CompetitorAnalysis: []string{},
		Recommendations:    []string{},
	}

	if best := bestItem(items); best != nil {
		result.EngagementInsights = append(result.EngagementInsights,
			fmt.Sprintf("Peak engagement of %d interactions on a single %s", best.Engagement.Total(), strings.ToLower(best.Type)))
	}
	if avg > 0 {
		result.EngagementInsights = append(result.EngagementInsights,
			fmt.Sprintf("Average engagement of %d interactions per item across the period", avg))
	}

	if top, _ := dominantType(counts); top != "" {
		result.Recommendations = append(result.Recommendations,
			fmt.Sprintf("Continue investing in %s, the current top-performing format", top))
	}

	return result
}

// sentimentFromEngagement maps average engagement onto a fixed
// percentage split. A heuristic stand-in for model-derived sentiment;
// the three buckets always sum to 100.
func sentimentFromEngagement(avg uint64) core.SentimentBreakdown {
	switch {
	case avg >= positiveEngagement:
		return core.SentimentBreakdown{Positive: 60, Neutral: 30, Negative: 10}
	case avg >= neutralEngagement:
		return core.SentimentBreakdown{Positive: 45, Neutral: 40, Negative: 15}
	default:
		return core.SentimentBreakdown{Positive: 35, Neutral: 45, Negative: 20}
	}
}

func recommendations(counts map[string]int, hashtags []string) []string {
	recs := []string{}
	if top, _ := dominantType(counts); top != "" {
		recs = append(recs, fmt.Sprintf("Double down on %s while engagement in that format holds", top))
	}
	if len(hashtags) > 0 {
		recs = append(recs, fmt.Sprintf("Build campaigns around trending tags such as %s", strings.Join(hashtags, ", ")))
	}
	recs = append(recs, "Review posting cadence against the highest-engagement time windows")
	return recs
}

// engagementRate formats engagement over reach as a percentage string.
func engagementRate(engagement, reach uint64) string {
	if reach == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(engagement)/float64(reach)*100)
}

// formatMagnitude renders a count as a compact magnitude string.
func formatMagnitude(n uint64) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	default:
		return fmt.Sprintf("%d", n)
	}
}
