package normalize

import (
	"fmt"
	"strconv"
	"strings"

	"trendlens/internal/core"
)

// Field precedence lists for mapping loosely-typed source records onto
// the canonical content-item shape. The first present, non-empty key wins.
var (
	nameKeys     = []string{"influencerName", "influencer_name", "name", "channelTitle", "username", "handle"}
	titleKeys    = []string{"title", "videoTitle"}
	captionKeys  = []string{"caption", "description", "text"}
	typeKeys     = []string{"type", "contentType", "kind"}
	timeKeys     = []string{"timestamp", "publishedAt", "published_at", "takenAt", "date"}
	likesKeys    = []string{"likes", "likesCount", "likeCount", "like_count"}
	commentsKeys = []string{"comments", "commentsCount", "commentCount", "comment_count"}
	viewsKeys    = []string{"views", "viewsCount", "viewCount", "view_count", "plays", "playCount"}
	sharesKeys   = []string{"shares", "sharesCount", "shareCount", "share_count"}
	hashtagKeys  = []string{"hashtags", "tags"}
	mentionKeys  = []string{"mentions", "taggedUsers"}
	contentKeys  = []string{"content", "items", "posts", "videos"}
)

// Normalize converts a heterogeneous batch of influencer records into
// canonical content sets. It never fails: malformed fields fall back to
// zero values, and records without usable content produce an empty set.
// The function is pure; calling it twice on the same input yields
// identical output.
func Normalize(records []map[string]any) []core.InfluencerContentSet {
	sets := make([]core.InfluencerContentSet, 0, len(records))

	for _, record := range records {
		platform := parsePlatform(pickString(record, []string{"platform", "source"}))
		name := pickString(record, nameKeys)

		set := core.InfluencerContentSet{
			Platform:       platform,
			InfluencerName: name,
			Content:        []core.ContentItem{},
		}

		for _, raw := range pickSlice(record, contentKeys) {
			item, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			set.Content = append(set.Content, normalizeItem(item, platform, name))
		}

		sets = append(sets, set)
	}

	return sets
}

// normalizeItem maps one raw platform record onto a ContentItem.
func normalizeItem(raw map[string]any, platform core.Platform, influencer string) core.ContentItem {
	item := core.ContentItem{
		Platform:       platform,
		InfluencerName: influencer,
		Title:          pickString(raw, titleKeys),
		Caption:        pickString(raw, captionKeys),
		Hashtags:       pickStrings(raw, hashtagKeys),
		Mentions:       pickStrings(raw, mentionKeys),
		Timestamp:      pickString(raw, timeKeys),
		Type:           pickString(raw, typeKeys),
		Engagement: core.Engagement{
			Likes:    pickUint(raw, likesKeys),
			Comments: pickUint(raw, commentsKeys),
			Views:    pickUint(raw, viewsKeys),
			Shares:   pickUint(raw, sharesKeys),
		},
	}

	if item.Type == "" {
		item.Type = defaultType(platform)
	}

	return item
}

// defaultType picks a content type when the source record carries none.
func defaultType(platform core.Platform) string {
	switch platform {
	case core.PlatformYouTube:
		return "video"
	case core.PlatformInstagram:
		return "Post"
	default:
		return "post"
	}
}

func parsePlatform(s string) core.Platform {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "youtube", "yt":
		return core.PlatformYouTube
	case "instagram", "ig":
		return core.PlatformInstagram
	default:
		return core.PlatformOther
	}
}

// pickString returns the first non-empty string value among keys.
func pickString(m map[string]any, keys []string) string {
	for _, key := range keys {
		if v, ok := m[key]; ok {
			switch s := v.(type) {
			case string:
				if s != "" {
					return s
				}
			case fmt.Stringer:
				if s.String() != "" {
					return s.String()
				}
			}
		}
	}
	return ""
}

// pickUint returns the first numeric value among keys, coerced to a
// non-negative integer. Non-numeric and negative values count as 0.
func pickUint(m map[string]any, keys []string) uint64 {
	for _, key := range keys {
		v, ok := m[key]
		if !ok {
			continue
		}
		switch n := v.(type) {
		case uint64:
			return n
		case int:
			if n >= 0 {
				return uint64(n)
			}
		case int64:
			if n >= 0 {
				return uint64(n)
			}
		case float64:
			if n >= 0 {
				return uint64(n)
			}
		case string:
			if parsed, err := strconv.ParseUint(strings.TrimSpace(n), 10, 64); err == nil {
				return parsed
			}
		}
	}
	return 0
}

// pickStrings returns the first string-slice value among keys,
// preserving source order. Non-string elements are skipped.
func pickStrings(m map[string]any, keys []string) []string {
	for _, key := range keys {
		v, ok := m[key]
		if !ok {
			continue
		}
		switch list := v.(type) {
		case []string:
			out := make([]string, len(list))
			copy(out, list)
			return out
		case []any:
			out := make([]string, 0, len(list))
			for _, elem := range list {
				if s, ok := elem.(string); ok {
					out = append(out, s)
				}
			}
			return out
		}
	}
	return []string{}
}

// pickSlice returns the first slice value among keys.
func pickSlice(m map[string]any, keys []string) []any {
	for _, key := range keys {
		if v, ok := m[key]; ok {
			if list, ok := v.([]any); ok {
				return list
			}
			// Tolerate pre-typed records from in-process callers.
			if list, ok := v.([]map[string]any); ok {
				out := make([]any, len(list))
				for i, elem := range list {
					out[i] = elem
				}
				return out
			}
		}
	}
	return nil
}
