// Package alerts scans canonical content for engagement anomalies and
// emits one human-readable alert string per threshold breach.
package alerts

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"trendlens/internal/core"
	"trendlens/internal/llm"
	"trendlens/internal/prompt"
)

// sentimentQuestion is sent through the generation client when the
// breach count leaves room for one augmenting sentiment alert.
const sentimentQuestion = "In one or two sentences, flag the most notable audience sentiment risk or opportunity visible in this content. If nothing stands out, say so briefly."

// sentimentAlertCap is the breach count at or above which the AI
// sentiment augmentation is skipped.
const sentimentAlertCap = 3

// Thresholds configures the per-item breach checks.
type Thresholds struct {
	// MinEngagementRate is the (likes+comments)/views floor below
	// which an item counts as underperforming. Zero disables the check.
	MinEngagementRate float64
	// ViewSpike is the view count at or above which an item counts as
	// spiking. Zero disables the check.
	ViewSpike uint64
}

// Scan walks every canonical item and returns one alert string per
// breach. The result is empty, never nil, when nothing breaches.
func Scan(sets []core.InfluencerContentSet, th Thresholds) []string {
	alerts := []string{}

	for _, set := range sets {
		for _, item := range set.Content {
			label := itemLabel(item)

			if th.ViewSpike > 0 && item.Engagement.Views >= th.ViewSpike {
				alerts = append(alerts, fmt.Sprintf(
					"View spike: %s by %s reached %d views (threshold %d)",
					label, set.InfluencerName, item.Engagement.Views, th.ViewSpike))
			}

			if th.MinEngagementRate > 0 && item.Engagement.Views > 0 {
				rate := float64(item.Engagement.Total()) / float64(item.Engagement.Views)
				if rate < th.MinEngagementRate {
					alerts = append(alerts, fmt.Sprintf(
						"Low engagement: %s by %s at %.2f%% engagement rate (floor %.2f%%)",
						label, set.InfluencerName, rate*100, th.MinEngagementRate*100))
				}
			}
		}
	}

	return alerts
}

// ScanWithSentiment runs Scan and, when fewer than three breaches were
// found, appends one AI-generated sentiment alert. Generation failures
// are logged and skipped; the threshold alerts are always returned.
func ScanWithSentiment(ctx context.Context, sets []core.InfluencerContentSet, th Thresholds, generator llm.Generator) []string {
	alerts := Scan(sets, th)
	if len(alerts) >= sentimentAlertCap || generator == nil || len(sets) == 0 {
		return alerts
	}

	answer, err := generator.Generate(ctx, prompt.FormatQuery(sets, sentimentQuestion))
	if err != nil {
		log.Warn().Err(err).Msg("Skipping sentiment alert after generation failure")
		return alerts
	}

	answer = strings.TrimSpace(answer)
	if answer != "" {
		alerts = append(alerts, "Sentiment: "+firstLine(answer))
	}
	return alerts
}

// itemLabel names an item by its title, caption excerpt, or type.
func itemLabel(item core.ContentItem) string {
	if item.Title != "" {
		return fmt.Sprintf("%q", item.Title)
	}
	if item.Caption != "" {
		caption := item.Caption
		if len(caption) > 40 {
			caption = caption[:40] + "..."
		}
		return fmt.Sprintf("%q", caption)
	}
	if item.Type != "" {
		return "a " + item.Type
	}
	return "an item"
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}
