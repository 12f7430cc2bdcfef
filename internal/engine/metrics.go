package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
)

// Metrics tracks operational counters across the engine.
var metrics struct {
	SearchRequests    atomic.Int64
	ModelCalls        atomic.Int64
	ModelErrors       atomic.Int64
	TranscriptChecks  atomic.Int64
	TranscriptFetches atomic.Int64
	TranscriptErrors  atomic.Int64
	PipelineRuns      atomic.Int64
	VideosProcessed   atomic.Int64
	VideosFailed      atomic.Int64
}

// GetMetrics returns a snapshot of all metrics including cache stats.
func GetMetrics() map[string]int64 {
	hits, misses := CacheStats()
	return map[string]int64{
		"search_requests":    metrics.SearchRequests.Load(),
		"model_calls":        metrics.ModelCalls.Load(),
		"model_errors":       metrics.ModelErrors.Load(),
		"transcript_checks":  metrics.TranscriptChecks.Load(),
		"transcript_fetches": metrics.TranscriptFetches.Load(),
		"transcript_errors":  metrics.TranscriptErrors.Load(),
		"pipeline_runs":      metrics.PipelineRuns.Load(),
		"videos_processed":   metrics.VideosProcessed.Load(),
		"videos_failed":      metrics.VideosFailed.Load(),
		"cache_hits":         hits,
		"cache_misses":       misses,
	}
}

// FormatMetrics returns metrics as a simple text format for the HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	keys := []string{
		"search_requests", "model_calls", "model_errors",
		"transcript_checks", "transcript_fetches", "transcript_errors",
		"pipeline_runs", "videos_processed", "videos_failed",
		"cache_hits", "cache_misses",
	}
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

// Incrementors for the sources/ sub-package.
func IncrSearchRequests()    { metrics.SearchRequests.Add(1) }
func IncrModelCalls()        { metrics.ModelCalls.Add(1) }
func IncrModelErrors()       { metrics.ModelErrors.Add(1) }
func IncrTranscriptChecks()  { metrics.TranscriptChecks.Add(1) }
func IncrTranscriptFetches() { metrics.TranscriptFetches.Add(1) }
func IncrTranscriptErrors()  { metrics.TranscriptErrors.Add(1) }

// TrackOperation logs a warning if an operation takes longer than threshold.
func TrackOperation(ctx context.Context, name string, threshold time.Duration, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	if elapsed > threshold {
		slog.Warn("slow operation", slog.String("op", name), slog.Duration("elapsed", elapsed))
	}
	return err
}
