package engine

import (
	"net/http"
	"time"
)

// Config holds all engine configuration, injected from main.
type Config struct {
	YouTubeAPIKey        string
	TranscriptServiceURL string
	ModelAPIBase         string
	ModelAPIKey          string
	ModelName            string
	ModelTemperature     float64
	ModelMaxTokens       int

	TargetVideos      int
	MaxAttempts       int
	AttemptDelay      time.Duration
	TopicTimeout      time.Duration
	TranscriptTimeout time.Duration
	GenerateTimeout   time.Duration
	PlanTimeout       time.Duration

	TopicCacheEntries      int
	TranscriptCacheEntries int

	HTTPClient *http.Client
}

var cfg Config

// Cfg exposes the engine configuration for sub-packages (sources, study).
// Always points to the current cfg value.
var Cfg = &cfg

// Init initializes the engine with the given configuration.
// Zero values fall back to the defaults the pipeline was tuned with.
func Init(c Config) {
	if c.TargetVideos <= 0 {
		c.TargetVideos = 5
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 50
	}
	if c.AttemptDelay <= 0 {
		c.AttemptDelay = 2 * time.Second
	}
	if c.TopicTimeout <= 0 {
		c.TopicTimeout = 30 * time.Second
	}
	if c.TranscriptTimeout <= 0 {
		c.TranscriptTimeout = 4 * time.Minute
	}
	if c.GenerateTimeout <= 0 {
		c.GenerateTimeout = 10 * time.Minute
	}
	if c.PlanTimeout <= 0 {
		c.PlanTimeout = 10 * time.Minute
	}
	if c.TopicCacheEntries <= 0 {
		c.TopicCacheEntries = 500
	}
	if c.TranscriptCacheEntries <= 0 {
		c.TranscriptCacheEntries = 200
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: 15 * time.Second}
	}
	cfg = c
	Cfg = &cfg
}
