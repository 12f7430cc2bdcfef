package engine

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
)

const (
	// Long transcripts are sampled head+tail: the opening carries the
	// introduction and agenda, the ending carries the recap.
	transcriptMaxChars  = 8000
	transcriptHeadChars = 6000
	transcriptTailChars = 2000

	// Per-summary cap when assembling the plan prompt.
	planSummaryChars = 1000
)

// PlanPlaceholder is returned when a learning plan cannot or should not be
// generated (fewer than two summaries, or generation failed).
const PlanPlaceholder = "Review individual video summaries above."

// VideoSummary is the per-video input to plan generation.
type VideoSummary struct {
	Title   string
	Summary string
}

// ContentGenerator produces study materials and learning plans from
// transcripts via a single combined model call per video.
type ContentGenerator struct {
	gen TextGenerator
}

func NewContentGenerator(gen TextGenerator) *ContentGenerator {
	return &ContentGenerator{gen: gen}
}

// Generate runs one combined model call for a video and parses the delimited
// output into materials. Identical transcripts produce identical prompts, so
// results are as deterministic as the model allows.
func (g *ContentGenerator) Generate(ctx context.Context, transcript, title, topic string) (Materials, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.GenerateTimeout)
	defer cancel()

	sample := sampleTranscript(transcript)
	prompt := fmt.Sprintf(materialsPrompt, title, topic, sample)

	out, err := generateWithRetry(ctx, g.gen, ModelRetryConfig, prompt, GenerateOpts{
		Temperature: cfg.ModelTemperature,
		MaxTokens:   cfg.ModelMaxTokens,
	})
	if err != nil {
		return Materials{}, fmt.Errorf("materials for %q: %w", title, err)
	}

	summary, questions, flashcards := splitSections(out)
	if summary == "" {
		slog.Warn("no summary marker in model output, using raw prefix", "title", title)
		summary = TruncateRunes(strings.TrimSpace(out), 2000, "...")
	}

	return Materials{
		Summary:        summary,
		Questions:      ParseQuestions(questions),
		Flashcards:     ParseFlashcards(flashcards),
		QuestionsText:  questions,
		FlashcardsText: flashcards,
	}, nil
}

// GeneratePlan builds a cross-video learning plan from per-video summaries.
// Fewer than two summaries is not enough material to order or compare, so the
// placeholder is returned without a model call.
func (g *ContentGenerator) GeneratePlan(ctx context.Context, summaries []VideoSummary, topic string) (string, error) {
	if len(summaries) < 2 {
		return PlanPlaceholder, nil
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.PlanTimeout)
	defer cancel()

	var b strings.Builder
	for i, s := range summaries {
		fmt.Fprintf(&b, "%d. %s\n%s\n\n", i+1, s.Title, TruncateRunes(s.Summary, planSummaryChars, "..."))
	}
	prompt := fmt.Sprintf(planPrompt, len(summaries), topic, b.String())

	out, err := generateWithRetry(ctx, g.gen, ModelRetryConfig, prompt, GenerateOpts{
		Temperature: cfg.ModelTemperature,
		MaxTokens:   cfg.ModelMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("learning plan: %w", err)
	}
	if strings.TrimSpace(out) == "" {
		return PlanPlaceholder, nil
	}
	return strings.TrimSpace(out), nil
}

// sampleTranscript keeps short transcripts whole and samples long ones as
// head plus tail with an elision marker between.
func sampleTranscript(s string) string {
	if len(s) <= transcriptMaxChars {
		return s
	}
	head := s[:transcriptHeadChars]
	tail := s[len(s)-transcriptTailChars:]
	return head + "\n...\n" + tail
}

var (
	summaryMarkRe    = regexp.MustCompile(`(?i)SUMMARY\s*:`)
	questionsMarkRe  = regexp.MustCompile(`(?i)QUESTIONS\s*:`)
	flashcardsMarkRe = regexp.MustCompile(`(?i)FLASHCARDS\s*:`)
)

// splitSections slices model output at the SUMMARY/QUESTIONS/FLASHCARDS
// markers. Markers are matched case-insensitively anywhere in the text; a
// missing marker yields an empty section for it.
func splitSections(out string) (summary, questions, flashcards string) {
	sm := summaryMarkRe.FindStringIndex(out)
	qm := questionsMarkRe.FindStringIndex(out)
	fm := flashcardsMarkRe.FindStringIndex(out)

	cut := func(mark []int, ends ...[]int) string {
		if mark == nil {
			return ""
		}
		end := len(out)
		for _, e := range ends {
			if e != nil && e[0] > mark[1] && e[0] < end {
				end = e[0]
			}
		}
		return strings.TrimSpace(out[mark[1]:end])
	}

	summary = cut(sm, qm, fm)
	questions = cut(qm, fm)
	flashcards = cut(fm)
	if sm == nil && qm != nil {
		// No summary marker but structured sections exist: everything before
		// the first structured marker is the summary.
		end := qm[0]
		if fm != nil && fm[0] < end {
			end = fm[0]
		}
		summary = strings.TrimSpace(out[:end])
	}
	return summary, questions, flashcards
}
