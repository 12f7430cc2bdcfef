package sources

import (
	"context"
	"fmt"
	"html"
	"regexp"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/anatolykoptev/go_study/internal/engine"
)

const watchURLPrefix = "https://www.youtube.com/watch?v="

var (
	videoIDRe = regexp.MustCompile(`(?:youtube\.com/watch\?(?:.*&)?v=|youtu\.be/)([a-zA-Z0-9_-]{11})`)
	bareIDRe  = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)
)

// ExtractVideoID pulls the 11-character video ID from a watch or short URL.
// A bare ID of the right shape passes through unchanged.
func ExtractVideoID(url string) string {
	if m := videoIDRe.FindStringSubmatch(url); m != nil {
		return m[1]
	}
	if bareIDRe.MatchString(url) {
		return url
	}
	return ""
}

// YouTube implements engine.VideoSearcher on the Data API v3.
type YouTube struct {
	service *youtube.Service
}

func NewYouTube(ctx context.Context, apiKey string) (*YouTube, error) {
	svc, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("youtube service: %w", err)
	}
	return &YouTube{service: svc}, nil
}

// Search runs one Data API search call. Live and upcoming broadcasts are
// dropped: they have no transcripts.
func (y *YouTube) Search(ctx context.Context, req engine.SearchRequest) ([]engine.Video, error) {
	engine.IncrSearchRequests()

	call := y.service.Search.
		List([]string{"snippet"}).
		Q(req.Query).
		Type("video").
		Order("relevance").
		RelevanceLanguage("en").
		MaxResults(int64(req.MaxResults)).
		Context(ctx)
	if req.ChannelID != "" {
		call = call.ChannelId(req.ChannelID)
	}
	if req.Duration != "" {
		call = call.VideoDuration(req.Duration)
	}

	resp, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("youtube search %q: %w", req.Query, err)
	}

	videos := make([]engine.Video, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Id == nil || item.Id.VideoId == "" || item.Snippet == nil {
			continue
		}
		if item.Snippet.LiveBroadcastContent != "" && item.Snippet.LiveBroadcastContent != "none" {
			continue
		}
		videos = append(videos, engine.Video{
			ID:          item.Id.VideoId,
			Title:       html.UnescapeString(item.Snippet.Title),
			Description: item.Snippet.Description,
			Channel:     html.UnescapeString(item.Snippet.ChannelTitle),
			URL:         watchURLPrefix + item.Id.VideoId,
		})
	}
	return videos, nil
}
