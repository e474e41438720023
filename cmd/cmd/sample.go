package cmd

// demoRecords returns a small built-in influencer content batch so the
// pipeline can run end to end without any external data source. Field
// naming is deliberately mixed to exercise the normalizer's precedence
// rules.
func demoRecords() []map[string]any {
	return []map[string]any{
		{
			"platform": "youtube",
			"name":     "Techied",
			"content": []any{
				map[string]any{
					"title":       "Samsung Galaxy S26 full review",
					"description": "Two weeks with the Galaxy S26. #samsung #tech",
					"publishedAt": "2026-08-29T14:00:00Z",
					"type":        "video",
					"hashtags":    []any{"#samsung", "#tech"},
					"viewCount":   184000,
					"likeCount":   9200,
					"commentCount": 640,
				},
				map[string]any{
					"title":       "Samsung earbuds vs the competition",
					"description": "Sound test and mic comparison. #samsung #audio",
					"publishedAt": "2026-08-30T10:30:00Z",
					"type":        "video",
					"hashtags":    []any{"#samsung", "#audio"},
					"viewCount":   61000,
					"likeCount":   3100,
					"commentCount": 210,
				},
			},
		},
		{
			"platform":       "instagram",
			"influencerName": "fitwithmaya",
			"content": []any{
				map[string]any{
					"caption":    "Morning run in the new Nike Pegasus. Obsessed. #nike #running",
					"takenAt":    "2026-08-30T07:15:00Z",
					"type":       "Reel",
					"tags":       []any{"#nike", "#running"},
					"plays":      42000,
					"likes":      5100,
					"comments":   180,
				},
				map[string]any{
					"caption":  "Recovery day stack. #wellness",
					"takenAt":  "2026-08-30T19:40:00Z",
					"type":     "Post",
					"tags":     []any{"#wellness"},
					"likes":    2300,
					"comments": 95,
				},
				map[string]any{
					"caption":  "Nike sent the fall drop early, full try-on this week. #nike",
					"takenAt":  "2026-08-31T08:05:00Z",
					"type":     "Story",
					"tags":     []any{"#nike"},
					"likes":    1400,
					"comments": 60,
				},
			},
		},
	}
}
