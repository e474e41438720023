// Package sentiment scores audience comments with a rule-based
// lexicon. It complements the AI analysis: comment batches are scored
// locally, without a generation call.
package sentiment

import (
	"strings"
	"time"
)

// Classification is the discrete sentiment category for a batch.
type Classification string

const (
	ClassVeryPositive Classification = "very_positive"
	ClassPositive     Classification = "positive"
	ClassNeutral      Classification = "neutral"
	ClassNegative     Classification = "negative"
	ClassVeryNegative Classification = "very_negative"
	ClassMixed        Classification = "mixed"
)

// Emoji maps classifications to a display emoji.
var Emoji = map[Classification]string{
	ClassVeryPositive: "🚀",
	ClassPositive:     "😊",
	ClassNeutral:      "😐",
	ClassNegative:     "😞",
	ClassVeryNegative: "😱",
	ClassMixed:        "🤔",
}

// CommentScore is the scored result for one comment.
type CommentScore struct {
	Text    string  `json:"text"`
	Overall float64 `json:"overall"` // -1.0 to 1.0
}

// BatchSentiment summarizes a scored comment batch.
type BatchSentiment struct {
	VideoID        string         `json:"video_id"`
	TotalComments  int            `json:"total_comments"`
	PositiveCount  int            `json:"positive_count"`
	NegativeCount  int            `json:"negative_count"`
	NeutralCount   int            `json:"neutral_count"`
	AverageScore   float64        `json:"average_score"`
	Classification Classification `json:"classification"`
	Emoji          string         `json:"emoji"`
	AnalyzedAt     time.Time      `json:"analyzed_at"`
}

// Keyword weights tuned for short social comments.
var positiveKeywords = map[string]float64{
	"love": 0.8, "amazing": 0.9, "awesome": 0.8, "great": 0.7, "best": 0.7,
	"fire": 0.7, "perfect": 0.8, "good": 0.5, "nice": 0.5, "cool": 0.5,
	"beautiful": 0.7, "excellent": 0.9, "brilliant": 0.8, "helpful": 0.6,
	"thanks": 0.5, "thank": 0.5, "underrated": 0.6, "goat": 0.8, "win": 0.6,
	"favorite": 0.7, "obsessed": 0.7, "quality": 0.5, "insane": 0.5,
}

var negativeKeywords = map[string]float64{
	"hate": -0.8, "terrible": -0.9, "awful": -0.9, "worst": -0.8, "bad": -0.5,
	"boring": -0.6, "trash": -0.8, "mid": -0.5, "scam": -0.9, "fake": -0.6,
	"clickbait": -0.7, "disappointed": -0.7, "disappointing": -0.7,
	"overrated": -0.6, "cringe": -0.6, "annoying": -0.6, "waste": -0.6,
	"unsubscribe": -0.7, "dislike": -0.6, "shill": -0.7, "ad": -0.2,
}

// ScoreComment scores a single comment by lexicon lookup, normalized
// to the -1.0..1.0 range.
func ScoreComment(text string) CommentScore {
	words := strings.Fields(strings.ToLower(text))

	var score float64
	var hits int
	for _, word := range words {
		word = strings.Trim(word, ".,!?;:'\"()")
		if weight, ok := positiveKeywords[word]; ok {
			score += weight
			hits++
		}
		if weight, ok := negativeKeywords[word]; ok {
			score += weight
			hits++
		}
	}

	if hits > 0 {
		score /= float64(hits)
	}
	if score > 1 {
		score = 1
	}
	if score < -1 {
		score = -1
	}

	return CommentScore{Text: text, Overall: score}
}

// Per-comment thresholds for counting a comment as positive/negative.
const (
	positiveThreshold = 0.2
	negativeThreshold = -0.2
)

// AnalyzeComments scores a comment batch and aggregates it into a
// batch summary. An empty batch classifies as neutral.
func AnalyzeComments(videoID string, comments []string) BatchSentiment {
	batch := BatchSentiment{
		VideoID:       videoID,
		TotalComments: len(comments),
		AnalyzedAt:    time.Now(),
	}

	var total float64
	for _, comment := range comments {
		scored := ScoreComment(comment)
		total += scored.Overall
		switch {
		case scored.Overall >= positiveThreshold:
			batch.PositiveCount++
		case scored.Overall <= negativeThreshold:
			batch.NegativeCount++
		default:
			batch.NeutralCount++
		}
	}

	if len(comments) > 0 {
		batch.AverageScore = total / float64(len(comments))
	}

	batch.Classification = classify(batch)
	batch.Emoji = Emoji[batch.Classification]
	return batch
}

// classify picks the discrete category for a batch. A batch with
// substantial positive and negative blocks is mixed regardless of the
// average.
func classify(batch BatchSentiment) Classification {
	if batch.TotalComments == 0 {
		return ClassNeutral
	}

	positiveShare := float64(batch.PositiveCount) / float64(batch.TotalComments)
	negativeShare := float64(batch.NegativeCount) / float64(batch.TotalComments)
	if positiveShare >= 0.25 && negativeShare >= 0.25 {
		return ClassMixed
	}

	switch {
	case batch.AverageScore >= 0.5:
		return ClassVeryPositive
	case batch.AverageScore >= 0.1:
		return ClassPositive
	case batch.AverageScore <= -0.5:
		return ClassVeryNegative
	case batch.AverageScore <= -0.1:
		return ClassNegative
	default:
		return ClassNeutral
	}
}
