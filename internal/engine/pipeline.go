package engine

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
)

// Terminal statuses for a pipeline run and for individual videos.
const (
	StatusSuccess     = "success"
	StatusNoVideos    = "no_videos_found"
	StatusNoCaptioned = "no_captioned_videos"
	StatusError       = "error"

	// StatusFailed marks a single failed video inside an otherwise live
	// run; StatusError is reserved for run-level failure.
	StatusFailed = "failed"
)

// Timing breaks a run's wall time down by phase, in milliseconds.
type Timing struct {
	TopicMs        int64  `json:"topicMs"`
	SearchMs       int64  `json:"searchMs"`
	CheckMs        int64  `json:"checkMs"`
	ProcessMs      int64  `json:"processMs"`
	PlanMs         int64  `json:"planMs"`
	TotalMs        int64  `json:"totalMs"`
	TotalFormatted string `json:"totalFormatted"`
}

// Stats summarizes the funnel of one run.
type Stats struct {
	Target     int `json:"targetVideos"`
	Candidates int `json:"candidatesFound"`
	Verified   int `json:"captionedVideos"`
	Attempted  int `json:"videosAttempted"`
	Successful int `json:"videosSucceeded"`
}

// Result is the full outcome of one pipeline run. Partial results are
// first-class: a run with some failed videos still reports success as long
// as at least one video produced materials.
type Result struct {
	RunID        string           `json:"runId"`
	Status       string           `json:"status"`
	Preference   string           `json:"preference"`
	Topic        string           `json:"topic,omitempty"`
	Videos       []ProcessedVideo `json:"videos,omitempty"`
	LearningPlan string           `json:"learningPlan,omitempty"`
	Timing       Timing           `json:"timing"`
	Stats        Stats            `json:"stats"`
	Error        string           `json:"error,omitempty"`
	Suggestion   string           `json:"suggestion,omitempty"`

	SavedVideoIDs []int64  `json:"savedVideoIds,omitempty"`
	SaveErrors    []string `json:"saveErrors,omitempty"`
}

// Pipeline wires topic extraction, discovery, availability checking,
// transcript fetching, generation and persistence into one run loop.
type Pipeline struct {
	topics    *TopicExtractor
	discovery *Discovery
	checker   *AvailabilityChecker
	scripts   TranscriptService
	generator *ContentGenerator
	store     Store

	// permit serializes the transcript+generation phase across concurrent
	// runs: the transcript service and the model are both rate-sensitive.
	permit chan struct{}
}

// NewPipeline builds a pipeline from its collaborators. store may be nil,
// in which case results are not persisted.
func NewPipeline(search VideoSearcher, scripts TranscriptService, gen TextGenerator, store Store) *Pipeline {
	return &Pipeline{
		topics:    NewTopicExtractor(gen),
		discovery: NewDiscovery(search),
		checker:   NewAvailabilityChecker(scripts),
		scripts:   scripts,
		generator: NewContentGenerator(gen),
		store:     store,
		permit:    make(chan struct{}, 1),
	}
}

// Run executes the full pipeline for one learning preference. It never
// panics outward and never returns an error: every failure mode maps to a
// Result status so HTTP callers always get a structured body.
func (p *Pipeline) Run(ctx context.Context, preference, userID string) (result *Result) {
	metrics.PipelineRuns.Add(1)
	runID := uuid.NewString()
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			slog.Error("pipeline panic", "run_id", runID, "panic", r, "stack", string(debug.Stack()))
			result = &Result{
				RunID:      runID,
				Status:     StatusError,
				Preference: preference,
				Error:      fmt.Sprintf("internal error: %v", r),
			}
			result.Timing.TotalMs = time.Since(start).Milliseconds()
			result.Timing.TotalFormatted = FormatDuration(result.Timing.TotalMs)
		}
	}()

	result = &Result{RunID: runID, Preference: preference}
	result.Stats.Target = cfg.TargetVideos
	slog.Info("pipeline run started", "run_id", runID, "preference", Preview(preference, 120))

	topic := p.topics.Extract(ctx, preference)
	result.Topic = topic
	result.Timing.TopicMs = time.Since(start).Milliseconds()

	searchStart := time.Now()
	candidates := p.discovery.Discover(ctx, topic)
	result.Timing.SearchMs = time.Since(searchStart).Milliseconds()
	result.Stats.Candidates = len(candidates)
	if len(candidates) == 0 {
		result.Status = StatusNoVideos
		result.Suggestion = "No videos matched the topic. Try a broader phrasing, e.g. \"python tutorial\" instead of a niche framework."
		p.finish(result, start)
		return result
	}
	if len(candidates) > cfg.MaxAttempts {
		candidates = candidates[:cfg.MaxAttempts]
	}

	checkStart := time.Now()
	verified := p.checker.CheckBatch(ctx, candidates)
	result.Timing.CheckMs = time.Since(checkStart).Milliseconds()
	result.Stats.Verified = len(verified)
	if len(verified) == 0 {
		result.Status = StatusNoCaptioned
		result.Suggestion = "Videos were found but none have transcripts. Try a more mainstream topic where captioned tutorials are common."
		p.finish(result, start)
		return result
	}

	processStart := time.Now()
	result.Videos = p.processUntilTarget(ctx, verified, topic, &result.Stats)
	result.Timing.ProcessMs = time.Since(processStart).Milliseconds()

	if result.Stats.Successful == 0 {
		result.Status = StatusError
		result.Error = "every transcript fetch or generation attempt failed"
		result.Suggestion = "The transcript service may be down or rate-limited. Retry in a few minutes."
		p.finish(result, start)
		return result
	}
	result.Status = StatusSuccess

	planStart := time.Now()
	result.LearningPlan = p.buildPlan(ctx, result.Videos, topic)
	result.Timing.PlanMs = time.Since(planStart).Milliseconds()

	p.persist(ctx, userID, topic, preference, result)
	p.finish(result, start)
	return result
}

func (p *Pipeline) finish(result *Result, start time.Time) {
	result.Timing.TotalMs = time.Since(start).Milliseconds()
	result.Timing.TotalFormatted = FormatDuration(result.Timing.TotalMs)
	slog.Info("pipeline run finished",
		"run_id", result.RunID,
		"status", result.Status,
		"successful", result.Stats.Successful,
		"attempted", result.Stats.Attempted,
		"elapsed", result.Timing.TotalFormatted)
}

// processUntilTarget works through verified videos in order until the target
// number of successes is reached or the list is exhausted. One video failing
// never aborts the loop.
func (p *Pipeline) processUntilTarget(ctx context.Context, verified []Video, topic string, stats *Stats) []ProcessedVideo {
	var processed []ProcessedVideo
	for i, v := range verified {
		if stats.Successful >= cfg.TargetVideos {
			break
		}
		if ctx.Err() != nil {
			break
		}
		if i > 0 {
			select {
			case <-time.After(cfg.AttemptDelay):
			case <-ctx.Done():
				return processed
			}
		}

		select {
		case p.permit <- struct{}{}:
		case <-ctx.Done():
			return processed
		}
		pv := p.processOne(ctx, stats.Successful+1, v, topic)
		<-p.permit

		stats.Attempted++
		metrics.VideosProcessed.Add(1)
		if pv.Succeeded() {
			stats.Successful++
		} else {
			metrics.VideosFailed.Add(1)
			slog.Warn("video processing failed",
				"video_id", v.ID, "title", Preview(v.Title, 80), "error", pv.Error)
		}
		processed = append(processed, pv)
	}
	return processed
}

// processOne fetches one transcript and generates materials for it. The
// returned record is complete and never mutated afterwards.
func (p *Pipeline) processOne(ctx context.Context, number int, v Video, topic string) ProcessedVideo {
	start := time.Now()
	fail := func(err error) ProcessedVideo {
		return ProcessedVideo{
			VideoID:   v.ID,
			Title:     v.Title,
			Channel:   v.Channel,
			URL:       v.URL,
			Status:    StatusFailed,
			Error:     err.Error(),
			ElapsedMs: time.Since(start).Milliseconds(),
		}
	}

	fetchCtx, cancel := context.WithTimeout(ctx, cfg.TranscriptTimeout)
	var transcript string
	err := TrackOperation(fetchCtx, "transcript_fetch", time.Minute, func(ctx context.Context) error {
		var ferr error
		transcript, ferr = p.scripts.Fetch(ctx, v.URL)
		return ferr
	})
	cancel()
	if err != nil {
		return fail(fmt.Errorf("transcript fetch: %w", err))
	}

	var materials Materials
	err = TrackOperation(ctx, "generate_materials", 5*time.Minute, func(ctx context.Context) error {
		var gerr error
		materials, gerr = p.generator.Generate(ctx, transcript, v.Title, topic)
		return gerr
	})
	if err != nil {
		return fail(err)
	}

	return ProcessedVideo{
		Number:  number,
		VideoID: v.ID,
		Title:   v.Title,
		Channel: v.Channel,
		URL:     v.URL,
		Transcript: &TranscriptInfo{
			Length:  len(transcript),
			Preview: Preview(transcript, 300),
		},
		Summary: &SummaryInfo{
			Content: materials.Summary,
			Length:  len(materials.Summary),
		},
		Questions:      materials.Questions,
		Flashcards:     materials.Flashcards,
		QuestionsText:  materials.QuestionsText,
		FlashcardsText: materials.FlashcardsText,
		Status:         StatusSuccess,
		ElapsedMs:      time.Since(start).Milliseconds(),
	}
}

// buildPlan degrades to the placeholder instead of failing the run.
func (p *Pipeline) buildPlan(ctx context.Context, videos []ProcessedVideo, topic string) string {
	var summaries []VideoSummary
	for _, v := range videos {
		if v.Succeeded() && v.Summary != nil {
			summaries = append(summaries, VideoSummary{Title: v.Title, Summary: v.Summary.Content})
		}
	}
	plan, err := p.generator.GeneratePlan(ctx, summaries, topic)
	if err != nil {
		slog.Warn("learning plan generation failed", "error", err)
		return PlanPlaceholder
	}
	return plan
}

// persist saves successful videos and the plan. Persistence failures are
// recorded on the result, never fatal.
func (p *Pipeline) persist(ctx context.Context, userID, topic, preference string, result *Result) {
	if p.store == nil || userID == "" {
		return
	}
	for _, v := range result.Videos {
		if !v.Succeeded() {
			continue
		}
		id, err := p.store.SaveVideoWithMaterials(ctx, userID, topic, v)
		if err != nil {
			result.SaveErrors = append(result.SaveErrors, fmt.Sprintf("%s: %v", v.VideoID, err))
			continue
		}
		result.SavedVideoIDs = append(result.SavedVideoIDs, id)
	}
	if result.LearningPlan != "" && result.LearningPlan != PlanPlaceholder {
		if err := p.store.SaveLearningPlan(ctx, userID, topic, result.LearningPlan, preference); err != nil {
			result.SaveErrors = append(result.SaveErrors, fmt.Sprintf("plan: %v", err))
		}
	}
}
