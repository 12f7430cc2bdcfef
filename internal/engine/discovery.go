package engine

import (
	"context"
	"log/slog"
	"sort"
	"strings"
)

// Curated channels per category. IDs are YouTube channel IDs of creators
// whose beginner material consistently has transcripts.
var qualityChannels = map[Category][]string{
	CatPython: {
		"UCCezIgC97PvUuR4_gbFUs5g", // Corey Schafer
		"UC8butISFwT-Wl7EV0hUK0BQ", // freeCodeCamp
		"UC4JX40jDee_tINbkjycV4Sg", // Tech With Tim
		"UCeVMnSShP_Iviwkknt83cww", // Code With Harry
		"UCWv7vMbMWH4-V0ZXdmDpPBA", // Programming with Mosh
	},
	CatJavaScript: {
		"UC8butISFwT-Wl7EV0hUK0BQ",
		"UC29ju8bIPH5as8OGnQzwJyA",
		"UCW5YeuERMmlnqo4oq8vwUpg",
		"UCWv7vMbMWH4-V0ZXdmDpPBA",
	},
	CatJava: {
		"UC8butISFwT-Wl7EV0hUK0BQ", // freeCodeCamp
		"UCWv7vMbMWH4-V0ZXdmDpPBA", // Programming with Mosh
		"UC59K-uG2A5ogwIrHw4bmlEg", // Telusko
	},
	CatWeb: {
		"UC8butISFwT-Wl7EV0hUK0BQ",
		"UC29ju8bIPH5as8OGnQzwJyA",
		"UCW5YeuERMmlnqo4oq8vwUpg",
	},
}

// Channels that pass the relevance filter unconditionally and their score
// bonus. Tuned empirically; keep values in sync with the allow-list below.
var channelBonus = []struct {
	name  string
	bonus int
}{
	{"freecodecamp", 100},
	{"corey schafer", 90},
	{"programming with mosh", 90},
	{"traversy media", 85},
	{"tech with tim", 85},
}

// relevanceAllowList is the subset of known-quality channels that bypass the
// topic-word relevance check.
var relevanceAllowList = []string{"freecodecamp", "programming with mosh", "traversy media"}

// Noise words stripped from the topic to isolate the main technology term.
var topicNoiseWords = []string{
	"tutorial", "course", "guide", "learn", "learning",
	"complete", "full", "beginner", "advanced", "programming",
}

// Discovery finds candidate videos for a topic by fanning out several search
// strategies, merging, deduplicating and relevance-filtering the results.
type Discovery struct {
	search VideoSearcher
}

// NewDiscovery creates a Discovery backed by the given search collaborator.
func NewDiscovery(search VideoSearcher) *Discovery {
	return &Discovery{search: search}
}

// Discover returns relevance-filtered candidates for topic, deduplicated by
// video ID and sorted by descending score. It never fails: strategies that
// error contribute nothing, and a total failure yields an empty list.
func (d *Discovery) Discover(ctx context.Context, topic string) []Video {
	mainTopic := MainTopic(topic)
	category := DetectCategory(mainTopic)
	slog.Info("discovering videos",
		slog.String("topic", topic),
		slog.String("main_topic", mainTopic),
		slog.String("category", string(category)))

	requests := d.strategyRequests(mainTopic, category)

	// Parallel fan-out, one channel per request so merge order stays
	// deterministic (strategy order, then API order).
	channels := make([]chan []Video, len(requests))
	for i, req := range requests {
		ch := make(chan []Video, 1)
		channels[i] = ch
		go func(req SearchRequest, ch chan []Video) {
			// A panicking strategy must not take the process down; it
			// degrades to an empty contribution like an errored one.
			defer func() {
				if r := recover(); r != nil {
					slog.Error("search strategy panic", slog.String("query", req.Query), slog.Any("panic", r))
					ch <- nil
				}
			}()
			videos, err := d.search.Search(ctx, req)
			if err != nil {
				slog.Warn("search strategy failed", slog.String("query", req.Query), slog.Any("error", err))
				ch <- nil
				return
			}
			ch <- videos
		}(req, ch)
	}

	seen := make(map[string]bool)
	var merged []Video
	for _, ch := range channels {
		for _, v := range <-ch {
			if v.ID == "" || seen[v.ID] {
				continue
			}
			seen[v.ID] = true
			merged = append(merged, v)
		}
	}

	filtered := filterByRelevance(merged, mainTopic)
	slog.Info("relevance filter applied",
		slog.Int("candidates", len(merged)),
		slog.Int("kept", len(filtered)))
	if len(filtered) == 0 {
		return nil
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return Score(filtered[i], mainTopic) > Score(filtered[j], mainTopic)
	})
	return filtered
}

// strategyRequests builds the four search strategies: curated channels,
// general tutorial, full course, and long-form content.
func (d *Discovery) strategyRequests(mainTopic string, category Category) []SearchRequest {
	var reqs []SearchRequest
	for _, channelID := range qualityChannels[category] {
		reqs = append(reqs, SearchRequest{
			Query:      mainTopic + " tutorial",
			ChannelID:  channelID,
			MaxResults: 10,
		})
	}
	reqs = append(reqs,
		SearchRequest{Query: mainTopic + " tutorial", MaxResults: 25},
		SearchRequest{Query: mainTopic + " full course", MaxResults: 20},
		SearchRequest{Query: mainTopic + " complete tutorial", Duration: "long", MaxResults: 20},
	)
	return reqs
}

// MainTopic strips filler words from a search topic, leaving the technology
// term used for relevance checks. Falls back to the input when stripping
// leaves nothing usable.
func MainTopic(topic string) string {
	cleaned := stripWords(strings.ToLower(topic), topicNoiseWords)
	if len(cleaned) >= 3 {
		return cleaned
	}
	return topic
}

// filterByRelevance keeps a video when at least one main-topic word of 3+
// characters appears in its title or description, or its channel is on the
// allow-list.
func filterByRelevance(videos []Video, mainTopic string) []Video {
	topicWords := strings.Fields(strings.ToLower(mainTopic))
	var kept []Video
	for _, v := range videos {
		if isRelevant(v, topicWords) {
			kept = append(kept, v)
		}
	}
	return kept
}

func isRelevant(v Video, topicWords []string) bool {
	title := strings.ToLower(v.Title)
	desc := strings.ToLower(v.Description)
	for _, w := range topicWords {
		if len(w) >= 3 && (strings.Contains(title, w) || strings.Contains(desc, w)) {
			return true
		}
	}

	channel := strings.ToLower(v.Channel)
	for _, allowed := range relevanceAllowList {
		if strings.Contains(channel, allowed) {
			return true
		}
	}
	return false
}

// Score ranks a candidate: channel-quality bonus, main-topic words in the
// title (+50 each) and description (+10 each), plus educational keywords in
// the title. Used for ordering only, never filtering.
func Score(v Video, mainTopic string) int {
	score := 0
	title := strings.ToLower(v.Title)
	desc := strings.ToLower(v.Description)
	channel := strings.ToLower(v.Channel)

	for _, cb := range channelBonus {
		if strings.Contains(channel, cb.name) {
			score += cb.bonus
		}
	}

	for _, w := range strings.Fields(strings.ToLower(mainTopic)) {
		if len(w) > 3 {
			if strings.Contains(title, w) {
				score += 50
			}
			if strings.Contains(desc, w) {
				score += 10
			}
		}
	}

	if strings.Contains(title, "tutorial") {
		score += 20
	}
	if strings.Contains(title, "course") {
		score += 20
	}
	if strings.Contains(title, "full course") {
		score += 30
	}
	if strings.Contains(title, "complete") {
		score += 15
	}
	if strings.Contains(title, "beginner") {
		score += 10
	}
	return score
}
