package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Availability-check pacing. The transcript service sits behind aggressive
// upstream rate limits, so probes are token-bucketed to one per 500ms and
// batches are spaced out further.
const (
	checkBatchSize   = 3
	checkConcurrency = 2
	checkBatchDelay  = 5 * time.Second
	checkProbeEvery  = 500 * time.Millisecond
)

// AvailabilityChecker verifies in throttled batches that candidates have
// fetchable transcripts before the pipeline commits to full transcription.
type AvailabilityChecker struct {
	transcripts TranscriptService
	limiter     *rate.Limiter
	batchDelay  time.Duration
}

// NewAvailabilityChecker creates a checker with the default pacing.
func NewAvailabilityChecker(transcripts TranscriptService) *AvailabilityChecker {
	return &AvailabilityChecker{
		transcripts: transcripts,
		limiter:     rate.NewLimiter(rate.Every(checkProbeEvery), 1),
		batchDelay:  checkBatchDelay,
	}
}

// CheckBatch returns the subset of candidates with an available transcript.
// Probes run in fixed-size batches with bounded concurrency; a failed probe
// silently excludes the video, with no retries at this stage. Relative order
// within the result follows the input.
func (c *AvailabilityChecker) CheckBatch(ctx context.Context, candidates []Video) []Video {
	if len(candidates) == 0 {
		return nil
	}
	slog.Info("checking transcript availability",
		slog.Int("candidates", len(candidates)),
		slog.Int("batch_size", checkBatchSize))

	var verified []Video
	for start := 0; start < len(candidates); start += checkBatchSize {
		if ctx.Err() != nil {
			break
		}
		end := min(start+checkBatchSize, len(candidates))
		batch := candidates[start:end]

		verified = append(verified, c.checkOne(ctx, batch)...)

		if end < len(candidates) {
			select {
			case <-time.After(c.batchDelay):
			case <-ctx.Done():
				return verified
			}
		}
	}

	slog.Info("availability check complete",
		slog.Int("verified", len(verified)),
		slog.Int("candidates", len(candidates)))
	return verified
}

// checkOne probes a single batch concurrently, each probe gated by the
// shared token bucket.
func (c *AvailabilityChecker) checkOne(ctx context.Context, batch []Video) []Video {
	ok := make([]bool, len(batch))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(checkConcurrency)
	for i, v := range batch {
		g.Go(func() error {
			if err := c.limiter.Wait(gctx); err != nil {
				return nil // context cancelled, skip quietly
			}
			IncrTranscriptChecks()
			has, err := c.transcripts.HasTranscript(gctx, v.ID)
			if err != nil {
				slog.Debug("availability probe failed", slog.String("video", v.ID), slog.Any("error", err))
				return nil
			}
			mu.Lock()
			ok[i] = has
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	var verified []Video
	for i, v := range batch {
		if ok[i] {
			verified = append(verified, v)
		}
	}
	return verified
}
