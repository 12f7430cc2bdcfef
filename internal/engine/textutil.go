package engine

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/anatolykoptev/go-kit/strutil"
)

// UserAgentBot identifies outbound requests to the transcript service.
const UserAgentBot = "GoStudy/1.0"

var spaceRe = regexp.MustCompile(`\s+`)

// CollapseSpace replaces runs of whitespace (including newlines) with a
// single space and trims the result.
func CollapseSpace(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

// Truncate returns the first n bytes of s.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// TruncateRunes caps s at limit runes, appending suffix if truncated.
// Safe for UTF-8 transcripts (Cyrillic, CJK, emoji).
func TruncateRunes(s string, limit int, suffix string) string {
	return strutil.TruncateWith(s, limit, suffix)
}

// Preview returns at most n runes of s with an ellipsis when truncated.
func Preview(s string, n int) string {
	return strutil.TruncateWith(s, n, "...")
}

// FormatDuration renders a millisecond count as "3m 12s" or "45s".
func FormatDuration(ms int64) string {
	seconds := ms / 1000
	minutes := seconds / 60
	seconds = seconds % 60
	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%ds", seconds)
}

var nonAlnumRe = regexp.MustCompile(`[^a-z0-9\s]`)

// normalizeWords lowercases s and strips everything but letters, digits and
// whitespace. Used to build cache keys and topic phrases.
func normalizeWords(s string) string {
	return CollapseSpace(nonAlnumRe.ReplaceAllString(strings.ToLower(s), ""))
}

// stripWords removes whole-word occurrences of any of words from s.
func stripWords(s string, words []string) string {
	fields := strings.Fields(s)
	kept := fields[:0]
	for _, f := range fields {
		drop := false
		for _, w := range words {
			if f == w {
				drop = true
				break
			}
		}
		if !drop {
			kept = append(kept, f)
		}
	}
	return strings.Join(kept, " ")
}
