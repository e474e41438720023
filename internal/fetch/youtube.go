// Package fetch retrieves recent influencer uploads from the YouTube
// Data API and shapes them into raw records for the normalizer. Raw
// comment batches are cached per video id with a 24 hour expiry.
package fetch

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
	ytapi "google.golang.org/api/youtube/v3"
)

// DefaultMaxVideos bounds how many recent uploads are pulled per channel.
const DefaultMaxVideos = 25

// DefaultMaxComments bounds how many top-level comments are pulled per video.
const DefaultMaxComments = 50

var (
	hashtagRe = regexp.MustCompile(`#[\p{L}\p{N}_]+`)
	mentionRe = regexp.MustCompile(`@[A-Za-z0-9._]+`)
)

// CommentCache is the external collaborator holding raw per-video
// comment batches. Satisfied by the sqlite store.
type CommentCache interface {
	GetCachedComments(videoID string, maxAge time.Duration) ([]string, bool, error)
	CacheComments(videoID string, comments []string) error
}

// YouTubeFetcher pulls channel uploads and comments through the
// YouTube Data API v3.
type YouTubeFetcher struct {
	service    *ytapi.Service
	cache      CommentCache
	commentTTL time.Duration
}

// NewYouTubeFetcher creates a fetcher backed by an API key. The cache
// may be nil, in which case comments are fetched uncached.
func NewYouTubeFetcher(ctx context.Context, apiKey string, cache CommentCache, commentTTL time.Duration) (*YouTubeFetcher, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("YouTube API key is required")
	}

	httpClient := &http.Client{
		Timeout: 30 * time.Second,
	}

	service, err := ytapi.NewService(ctx, option.WithAPIKey(apiKey), option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}

	if commentTTL <= 0 {
		commentTTL = 24 * time.Hour
	}

	return &YouTubeFetcher{
		service:    service,
		cache:      cache,
		commentTTL: commentTTL,
	}, nil
}

// channelListCall builds a Channels.List call that accepts either a
// "@username" handle, a raw username, or a "UC..." channel id.
func (f *YouTubeFetcher) channelListCall(part []string, channel string) *ytapi.ChannelsListCall {
	switch {
	case strings.HasPrefix(channel, "@"):
		return f.service.Channels.List(part).ForUsername(channel[1:])
	case len(channel) > 2 && channel[:2] == "UC":
		return f.service.Channels.List(part).Id(channel)
	default:
		return f.service.Channels.List(part).ForUsername(channel)
	}
}

// FetchChannel pulls the most recent uploads for one channel and
// returns a raw influencer record for the normalizer.
func (f *YouTubeFetcher) FetchChannel(ctx context.Context, channel string, maxVideos int) (map[string]any, error) {
	if maxVideos <= 0 {
		maxVideos = DefaultMaxVideos
	}

	log.Info().Str("channel", channel).Int("maxVideos", maxVideos).Msg("Fetching YouTube channel uploads")

	call := f.channelListCall([]string{"snippet", "contentDetails"}, channel)
	response, err := call.MaxResults(1).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get channel from YouTube API: %w", err)
	}
	if len(response.Items) == 0 {
		return nil, fmt.Errorf("channel not found on YouTube: %s", channel)
	}

	info := response.Items[0]
	uploadsPlaylistID := info.ContentDetails.RelatedPlaylists.Uploads
	channelTitle := info.Snippet.Title

	items, err := f.playlistVideos(ctx, uploadsPlaylistID, maxVideos)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("channel", channelTitle).
		Int("videos", len(items)).
		Msg("YouTube channel uploads retrieved")

	return map[string]any{
		"platform":       "youtube",
		"influencerName": channelTitle,
		"content":        items,
	}, nil
}

// FetchChannels pulls uploads for every configured channel. A channel
// that fails is logged and skipped; the batch never fails as a whole
// unless no channel could be fetched.
func (f *YouTubeFetcher) FetchChannels(ctx context.Context, channels []string, maxVideos int) ([]map[string]any, error) {
	records := make([]map[string]any, 0, len(channels))
	for _, channel := range channels {
		record, err := f.FetchChannel(ctx, channel, maxVideos)
		if err != nil {
			log.Warn().Err(err).Str("channel", channel).Msg("Skipping channel after fetch failure")
			continue
		}
		records = append(records, record)
	}

	if len(records) == 0 && len(channels) > 0 {
		return nil, fmt.Errorf("no channel could be fetched out of %d configured", len(channels))
	}
	return records, nil
}

// playlistVideos pages through an uploads playlist and resolves video
// statistics in batched calls.
func (f *YouTubeFetcher) playlistVideos(ctx context.Context, playlistID string, limit int) ([]any, error) {
	items := make([]any, 0, limit)
	var nextPageToken string

	for len(items) < limit {
		pageSize := limit - len(items)
		if pageSize > 50 {
			pageSize = 50
		}

		playlistCall := f.service.PlaylistItems.List([]string{"snippet", "contentDetails"}).
			PlaylistId(playlistID).
			MaxResults(int64(pageSize)).
			Context(ctx)
		if nextPageToken != "" {
			playlistCall = playlistCall.PageToken(nextPageToken)
		}

		playlistResponse, err := playlistCall.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to get videos from playlist: %w", err)
		}
		if len(playlistResponse.Items) == 0 {
			break
		}

		videoIDs := make([]string, 0, len(playlistResponse.Items))
		for _, item := range playlistResponse.Items {
			videoIDs = append(videoIDs, item.ContentDetails.VideoId)
		}

		statsByID, err := f.videoStatistics(ctx, videoIDs)
		if err != nil {
			return nil, err
		}

		for _, item := range playlistResponse.Items {
			stats := statsByID[item.ContentDetails.VideoId]
			items = append(items, buildVideoRecord(item.ContentDetails.VideoId, item.Snippet, stats))
		}

		nextPageToken = playlistResponse.NextPageToken
		if nextPageToken == "" {
			break
		}
	}

	return items, nil
}

// videoStatistics resolves the statistics part for a batch of video ids.
func (f *YouTubeFetcher) videoStatistics(ctx context.Context, videoIDs []string) (map[string]*ytapi.VideoStatistics, error) {
	statsByID := make(map[string]*ytapi.VideoStatistics, len(videoIDs))
	if len(videoIDs) == 0 {
		return statsByID, nil
	}

	videosResponse, err := f.service.Videos.List([]string{"statistics"}).
		Id(videoIDs...).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get video statistics: %w", err)
	}

	for _, video := range videosResponse.Items {
		statsByID[video.Id] = video.Statistics
	}
	return statsByID, nil
}

// buildVideoRecord shapes one upload into the loosely-typed record the
// normalizer consumes. Hashtags and mentions are scraped from the
// title and description text.
func buildVideoRecord(videoID string, snippet *ytapi.PlaylistItemSnippet, stats *ytapi.VideoStatistics) map[string]any {
	record := map[string]any{
		"id":          videoID,
		"title":       snippet.Title,
		"description": snippet.Description,
		"publishedAt": snippet.PublishedAt,
		"type":        "video",
		"hashtags":    extractHashtags(snippet.Title + " " + snippet.Description),
		"mentions":    extractMentions(snippet.Description),
	}

	if stats != nil {
		record["viewCount"] = stats.ViewCount
		record["likeCount"] = stats.LikeCount
		record["commentCount"] = stats.CommentCount
	}

	return record
}

// VideoComments returns the top-level comments for a video, serving
// from the cache when a batch under the TTL exists.
func (f *YouTubeFetcher) VideoComments(ctx context.Context, videoID string, maxComments int64) ([]string, error) {
	if maxComments <= 0 {
		maxComments = DefaultMaxComments
	}

	if f.cache != nil {
		cached, ok, err := f.cache.GetCachedComments(videoID, f.commentTTL)
		if err != nil {
			log.Warn().Err(err).Str("videoID", videoID).Msg("Comment cache read failed")
		} else if ok {
			log.Debug().Str("videoID", videoID).Int("comments", len(cached)).Msg("Serving comments from cache")
			return cached, nil
		}
	}

	response, err := f.service.CommentThreads.List([]string{"snippet"}).
		VideoId(videoID).
		MaxResults(maxComments).
		TextFormat("plainText").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get comments for video %s: %w", videoID, err)
	}

	comments := make([]string, 0, len(response.Items))
	for _, thread := range response.Items {
		if thread.Snippet == nil || thread.Snippet.TopLevelComment == nil || thread.Snippet.TopLevelComment.Snippet == nil {
			continue
		}
		comments = append(comments, thread.Snippet.TopLevelComment.Snippet.TextDisplay)
	}

	if f.cache != nil {
		if err := f.cache.CacheComments(videoID, comments); err != nil {
			log.Warn().Err(err).Str("videoID", videoID).Msg("Comment cache write failed")
		}
	}
	return comments, nil
}

// extractHashtags pulls #tags from free text, deduplicated in order of
// first appearance.
func extractHashtags(text string) []any {
	return dedupe(hashtagRe.FindAllString(text, -1))
}

// extractMentions pulls @mentions from free text, deduplicated in
// order of first appearance.
func extractMentions(text string) []any {
	return dedupe(mentionRe.FindAllString(text, -1))
}

func dedupe(values []string) []any {
	out := make([]any, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		key := strings.ToLower(v)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	return out
}
