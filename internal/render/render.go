package render

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"trendlens/internal/core"
)

// Markdown renders a trend brief as a markdown document. Sections with
// no content are omitted rather than rendered empty.
func Markdown(b core.TrendBrief) string {
	var md strings.Builder

	md.WriteString(fmt.Sprintf("# Trend Brief - %s\n\n", b.GeneratedAt.Format("2006-01-02")))
	md.WriteString(fmt.Sprintf("*Period: %s | Generated: %s*\n\n", b.Period, b.GeneratedAt.Format("2006-01-02 15:04 MST")))

	if b.Summary != "" {
		md.WriteString("## Summary\n\n")
		md.WriteString(b.Summary + "\n\n")
	}

	if len(b.KeyFindings) > 0 {
		md.WriteString("## Key Findings\n\n")
		for _, finding := range b.KeyFindings {
			md.WriteString("- " + finding + "\n")
		}
		md.WriteString("\n")
	}

	if len(b.PlatformInsights) > 0 {
		md.WriteString("## Platform Insights\n\n")
		platforms := make([]string, 0, len(b.PlatformInsights))
		for platform := range b.PlatformInsights {
			platforms = append(platforms, string(platform))
		}
		sort.Strings(platforms)

		for _, platform := range platforms {
			insight := b.PlatformInsights[core.Platform(platform)]
			md.WriteString(fmt.Sprintf("### %s\n\n", titleCase(platform)))
			if insight.Summary != "" {
				md.WriteString(insight.Summary + "\n\n")
			}
			if len(insight.TopContentTypes) > 0 {
				md.WriteString(fmt.Sprintf("**Top content types:** %s\n\n", strings.Join(insight.TopContentTypes, ", ")))
			}
			if len(insight.TrendingHashtags) > 0 {
				md.WriteString(fmt.Sprintf("**Trending hashtags:** %s\n\n", strings.Join(insight.TrendingHashtags, " ")))
			}
			if insight.EngagementTrends != "" {
				md.WriteString(fmt.Sprintf("**Engagement:** %s\n\n", insight.EngagementTrends))
			}
		}
	}

	md.WriteString(contentAnalysisSection(b.ContentAnalysis))

	if len(b.BrandCollaborations) > 0 {
		md.WriteString("## Brand Collaborations\n\n")
		for _, collab := range b.BrandCollaborations {
			md.WriteString(fmt.Sprintf("### %s (%s)\n\n", collab.Name, collab.Type))
			if collab.Campaign != "" {
				md.WriteString(collab.Campaign + "\n\n")
			}
			md.WriteString(fmt.Sprintf("- Content items: %d\n", collab.ContentCount))
			if collab.Engagement != "" {
				md.WriteString(fmt.Sprintf("- Engagement rate: %s\n", collab.Engagement))
			}
			if collab.Reach != "" {
				md.WriteString(fmt.Sprintf("- Estimated reach: %s\n", collab.Reach))
			}
			if collab.Sentiment != "" {
				md.WriteString(fmt.Sprintf("- Sentiment: %s\n", collab.Sentiment))
			}
			if collab.AIInsights != "" {
				md.WriteString(fmt.Sprintf("\n%s\n", collab.AIInsights))
			}
			md.WriteString("\n")
		}
	}

	if len(b.ActionableRecommendations) > 0 {
		md.WriteString("## Recommendations\n\n")
		for i, rec := range b.ActionableRecommendations {
			md.WriteString(fmt.Sprintf("%d. %s\n", i+1, rec))
		}
		md.WriteString("\n")
	}

	return md.String()
}

func contentAnalysisSection(ca core.ContentAnalysisResult) string {
	var md strings.Builder

	hasTypes := false
	for _, count := range ca.ContentTypes {
		if count > 0 {
			hasTypes = true
			break
		}
	}
	if !hasTypes && len(ca.KeyThemes) == 0 && len(ca.TrendingTopics) == 0 && len(ca.EngagementInsights) == 0 {
		return ""
	}

	md.WriteString("## Content Analysis\n\n")

	if hasTypes {
		md.WriteString("**Content mix:** ")
		parts := make([]string, 0, len(ca.ContentTypes))
		for _, bucket := range []string{"videos", "reels", "photos", "stories"} {
			if count := ca.ContentTypes[bucket]; count > 0 {
				parts = append(parts, fmt.Sprintf("%d %s", count, bucket))
			}
		}
		md.WriteString(strings.Join(parts, ", ") + "\n\n")
	}

	if len(ca.KeyThemes) > 0 {
		md.WriteString(fmt.Sprintf("**Key themes:** %s\n\n", strings.Join(ca.KeyThemes, ", ")))
	}
	if len(ca.TrendingTopics) > 0 {
		md.WriteString(fmt.Sprintf("**Trending topics:** %s\n\n", strings.Join(ca.TrendingTopics, ", ")))
	}

	sentiment := ca.SentimentAnalysis
	if sentiment.Positive != 0 || sentiment.Neutral != 0 || sentiment.Negative != 0 {
		md.WriteString(fmt.Sprintf("**Sentiment:** %.0f%% positive, %.0f%% neutral, %.0f%% negative\n\n",
			sentiment.Positive, sentiment.Neutral, sentiment.Negative))
	}

	if len(ca.EngagementInsights) > 0 {
		for _, insight := range ca.EngagementInsights {
			md.WriteString("- " + insight + "\n")
		}
		md.WriteString("\n")
	}

	return md.String()
}

// WriteBriefFile renders a brief to markdown and writes it to a dated
// file under outputDir, returning the written path.
func WriteBriefFile(b core.TrendBrief, outputDir string) (string, error) {
	if outputDir == "" {
		outputDir = "briefs" // Default output directory
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
	}

	filename := fmt.Sprintf("trend_brief_%s.md", b.GeneratedAt.Format("2006-01-02"))
	filePath := filepath.Join(outputDir, filename)

	if err := os.WriteFile(filePath, []byte(Markdown(b)), 0644); err != nil {
		return "", fmt.Errorf("failed to write brief file %s: %w", filePath, err)
	}

	return filePath, nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
