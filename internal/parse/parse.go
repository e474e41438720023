package parse

import (
	"encoding/json"
	"regexp"
	"strings"

	"trendlens/internal/core"
)

// RateLimitMarker tags the canned markdown notice the generation client
// returns when the upstream endpoint reports quota exhaustion. The
// parser checks for it before attempting any JSON work.
const RateLimitMarker = "[RATE_LIMITED]"

// Result is the tagged outcome of extracting a brief analysis from raw
// model output. Exactly one of Parsed/RateLimited/Malformed applies:
// Malformed is implied when both flags are false.
type Result struct {
	Parsed      bool
	RateLimited bool
	Analysis    core.BriefAnalysis
	Raw         string
}

var trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)

// Extract locates and decodes the first balanced JSON object inside raw
// model output, which may be bare JSON, JSON wrapped in prose or code
// fences, or a rate-limit notice. It never returns an error: callers
// branch on the tagged result and fall back to deterministic synthesis.
func Extract(raw string) Result {
	if strings.Contains(raw, RateLimitMarker) {
		return Result{RateLimited: true, Raw: raw}
	}

	candidate, ok := firstJSONObject(raw)
	if !ok {
		return Result{Raw: raw}
	}

	var analysis core.BriefAnalysis
	if err := json.Unmarshal([]byte(candidate), &analysis); err != nil {
		// Retry once with trailing commas stripped; models emit them often.
		cleaned := trailingCommaRe.ReplaceAllString(candidate, "$1")
		if err := json.Unmarshal([]byte(cleaned), &analysis); err != nil {
			return Result{Raw: raw}
		}
	}

	return Result{Parsed: true, Analysis: analysis, Raw: raw}
}

// firstJSONObject scans for the first balanced {...} substring,
// tracking string literals and escapes so braces inside values do not
// break the balance count. Returns false when no complete object exists
// (including truncated tails).
func firstJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return s[start : i+1], true
				}
			}
		}
	}

	return "", false
}
