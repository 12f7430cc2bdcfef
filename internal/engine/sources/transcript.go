package sources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/anatolykoptev/go_study/internal/engine"
)

// ErrTranscriptUnavailable marks a video that has no usable transcript, as
// opposed to a transport or service failure. Callers skip the video instead
// of retrying.
var ErrTranscriptUnavailable = errors.New("transcript unavailable")

const healthProbeInterval = 30 * time.Second

// TranscriptClient talks to the transcript microservice HTTP API.
// Availability probes are cheap and retried; full fetches are slow,
// single-shot, and cached.
type TranscriptClient struct {
	baseURL string
	probe   *http.Client
	fetch   *http.Client
	cache   *engine.BoundedCache

	mu        sync.Mutex
	lastProbe time.Time
	healthy   bool
}

func NewTranscriptClient(baseURL string) *TranscriptClient {
	return &TranscriptClient{
		baseURL: baseURL,
		probe:   &http.Client{Timeout: 15 * time.Second},
		fetch:   &http.Client{Timeout: 5 * time.Minute},
		cache:   engine.NewBoundedCache("transcript", engine.Cfg.TranscriptCacheEntries),
	}
}

// Health probes GET /health. The result is cached briefly so a burst of
// fetches does not hammer the endpoint.
func (c *TranscriptClient) Health(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if time.Since(c.lastProbe) < healthProbeInterval {
		return c.healthy
	}

	c.lastProbe = time.Now()
	c.healthy = false
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", engine.UserAgentBot)
	resp, err := c.probe.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	c.healthy = resp.StatusCode == http.StatusOK
	return c.healthy
}

// HasTranscript probes GET /check/{id}. A negative answer is authoritative;
// transport failures surface as errors so the checker can skip silently.
func (c *TranscriptClient) HasTranscript(ctx context.Context, videoID string) (bool, error) {
	id := ExtractVideoID(videoID)
	if id == "" {
		return false, fmt.Errorf("invalid video id %q", videoID)
	}

	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/check/"+id, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", engine.UserAgentBot)
		return c.probe.Do(req)
	})
	if err != nil {
		return false, fmt.Errorf("transcript check %s: %w", id, err)
	}
	defer resp.Body.Close()

	var body struct {
		HasTranscripts bool `json:"has_transcripts"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, fmt.Errorf("transcript check %s: decode: %w", id, err)
	}
	return body.HasTranscripts, nil
}

// Fetch retrieves the full transcript for a video URL via
// GET /transcript?video_id=. Fetches are deliberately not retried: a full
// fetch can take minutes and the pipeline has other candidates to try.
func (c *TranscriptClient) Fetch(ctx context.Context, videoURL string) (string, error) {
	id := ExtractVideoID(videoURL)
	if id == "" {
		return "", fmt.Errorf("%w: unrecognized URL %q", ErrTranscriptUnavailable, videoURL)
	}

	key := engine.CacheKey("transcript", id)
	if cached, ok := c.cache.Get(ctx, key); ok {
		return cached, nil
	}

	if !c.Health(ctx) {
		return "", fmt.Errorf("%w: %s: service unhealthy", ErrTranscriptUnavailable, id)
	}

	engine.IncrTranscriptFetches()
	u := c.baseURL + "/transcript?video_id=" + url.QueryEscape(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("transcript fetch %s: %w", id, err)
	}
	req.Header.Set("User-Agent", engine.UserAgentBot)

	resp, err := c.fetch.Do(req)
	if err != nil {
		engine.IncrTranscriptErrors()
		return "", fmt.Errorf("transcript fetch %s: %w", id, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return "", fmt.Errorf("%w: %s", ErrTranscriptUnavailable, id)
	default:
		engine.IncrTranscriptErrors()
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("transcript fetch %s: status %d: %s", id, resp.StatusCode, string(b))
	}

	var body struct {
		Transcript string `json:"transcript"`
		Error      string `json:"error,omitempty"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("transcript fetch %s: decode: %w", id, err)
	}
	if body.Error != "" {
		return "", fmt.Errorf("%w: %s: %s", ErrTranscriptUnavailable, id, body.Error)
	}
	if body.Transcript == "" {
		return "", fmt.Errorf("%w: %s: empty transcript", ErrTranscriptUnavailable, id)
	}

	c.cache.Set(ctx, key, body.Transcript)
	return body.Transcript, nil
}
