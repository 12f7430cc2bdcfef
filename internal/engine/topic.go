package engine

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
)

// Stop-words stripped by the deterministic fallback extractor.
var topicStopWords = []string{
	"i", "want", "to", "learn", "teach", "me", "help",
	"understand", "about", "the", "a", "an", "how", "please",
}

// studyKeywords mark a phrase as already search-shaped; one of them must
// terminate every extracted topic.
var studyKeywords = []string{"tutorial", "course", "guide"}

// Boilerplate prefixes some models prepend despite the prompt.
var topicPrefixRe = regexp.MustCompile(`(?i)^((the )?extracted search keywords?|output|result|keywords?|topic)\s*:?\s*`)

// TopicExtractor turns a free-text learning preference into a concise search
// topic. It never fails: model errors fall back to deterministic keyword
// extraction, and results are cached by normalized preference.
type TopicExtractor struct {
	gen   TextGenerator
	cache *BoundedCache
}

// NewTopicExtractor creates an extractor with its own bounded cache.
func NewTopicExtractor(gen TextGenerator) *TopicExtractor {
	return &TopicExtractor{
		gen:   gen,
		cache: NewBoundedCache("topic", cfg.TopicCacheEntries),
	}
}

// Extract resolves the search topic for preference.
// The same normalized preference issues at most one model call.
func (t *TopicExtractor) Extract(ctx context.Context, preference string) string {
	key := CollapseSpace(strings.ToLower(preference))
	if topic, ok := t.cache.Get(ctx, key); ok {
		return topic
	}

	topic, err := t.fromModel(ctx, preference)
	if err != nil || len(topic) < 3 {
		if err != nil {
			slog.Warn("topic generation failed, using fallback", slog.Any("error", err))
		}
		topic = FallbackTopic(preference)
	}

	t.cache.Set(ctx, key, topic)
	slog.Info("topic resolved", slog.String("topic", topic))
	return topic
}

// fromModel asks the model for a "<technology> tutorial" phrase and cleans
// whatever comes back.
func (t *TopicExtractor) fromModel(ctx context.Context, preference string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.TopicTimeout)
	defer cancel()

	rc := RetryConfig{MaxRetries: 1, InitialWait: DefaultRetryConfig.InitialWait, Linear: true}
	raw, err := generateWithRetry(ctx, t.gen, rc, fmt.Sprintf(topicPrompt, preference), GenerateOpts{
		Temperature: 0.1,
		MaxTokens:   50,
	})
	if err != nil {
		return "", err
	}
	return cleanTopic(raw), nil
}

// cleanTopic post-processes raw model output into a usable search phrase:
// strip boilerplate prefixes and punctuation, collapse whitespace, cap at
// 4 words, and guarantee a trailing study keyword.
func cleanTopic(raw string) string {
	s := topicPrefixRe.ReplaceAllString(strings.TrimSpace(raw), "")
	s = normalizeWords(s)

	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}
	if len(words) > 4 {
		words = words[:4]
	}
	return strings.Join(endWithKeyword(words), " ")
}

// FallbackTopic is the deterministic extractor used when the model is
// unavailable or produced garbage: strip stop-words, keep the first 3
// content words, append "tutorial".
func FallbackTopic(preference string) string {
	cleaned := stripWords(normalizeWords(preference), topicStopWords)

	words := strings.Fields(cleaned)
	if len(words) == 0 {
		return "programming tutorial"
	}
	if len(words) > 3 {
		words = words[:3]
	}
	return strings.Join(endWithKeyword(words), " ")
}

// endWithKeyword guarantees the phrase terminates in a study keyword:
// everything after the first keyword is dropped, and a phrase without one
// gets "tutorial" appended (after trimming to 3 words so the total stays
// within 4).
func endWithKeyword(words []string) []string {
	for i, w := range words {
		for _, k := range studyKeywords {
			if w == k {
				return words[:i+1]
			}
		}
	}
	if len(words) > 3 {
		words = words[:3]
	}
	return append(words, "tutorial")
}
