package engine

import (
	"context"
	"reflect"
	"strings"
	"testing"
)

const sampleModelOutput = `SUMMARY:
The video walks through Python basics, covering variables, loops and
functions with worked examples.

QUESTIONS:
Q1: What is a variable? A1: A named reference to a value.
Q2: What does a for loop do? A2: Repeats a block over a sequence.

FLASHCARDS:
1. Front: list Back: ordered mutable collection
2. Front: dict Back: key-value mapping`

func TestSplitSections(t *testing.T) {
	summary, questions, flashcards := splitSections(sampleModelOutput)

	if !strings.HasPrefix(summary, "The video walks through Python basics") {
		t.Errorf("summary = %q", summary)
	}
	if !strings.Contains(questions, "Q1:") || strings.Contains(questions, "FLASHCARDS") {
		t.Errorf("questions section wrong: %q", questions)
	}
	if !strings.HasPrefix(flashcards, "1. Front:") {
		t.Errorf("flashcards = %q", flashcards)
	}
}

func TestSplitSectionsLowercaseMarkers(t *testing.T) {
	out := "summary: short recap\nquestions: Q1: A? A1: B.\nflashcards: 1. Front: x Back: y"
	summary, questions, flashcards := splitSections(out)
	if summary != "short recap" {
		t.Errorf("summary = %q", summary)
	}
	if !strings.Contains(questions, "Q1:") {
		t.Errorf("questions = %q", questions)
	}
	if !strings.Contains(flashcards, "Front: x") {
		t.Errorf("flashcards = %q", flashcards)
	}
}

func TestSplitSectionsMissingSummaryMarker(t *testing.T) {
	out := "A recap without a marker.\nQUESTIONS: Q1: A? A1: B.\nFLASHCARDS: 1. Front: x Back: y"
	summary, questions, _ := splitSections(out)
	if summary != "A recap without a marker." {
		t.Errorf("summary = %q", summary)
	}
	if !strings.Contains(questions, "Q1:") {
		t.Errorf("questions = %q", questions)
	}
}

func TestSampleTranscript(t *testing.T) {
	short := strings.Repeat("a", transcriptMaxChars)
	if got := sampleTranscript(short); got != short {
		t.Errorf("short transcript was modified")
	}

	long := strings.Repeat("h", transcriptHeadChars) + strings.Repeat("m", 5000) + strings.Repeat("t", transcriptTailChars)
	got := sampleTranscript(long)
	if !strings.HasPrefix(got, strings.Repeat("h", transcriptHeadChars)) {
		t.Errorf("sampled transcript lost its head")
	}
	if !strings.HasSuffix(got, strings.Repeat("t", transcriptTailChars)) {
		t.Errorf("sampled transcript lost its tail")
	}
	if !strings.Contains(got, "\n...\n") {
		t.Errorf("sampled transcript missing elision marker")
	}
}

func TestGenerateParsesAllSections(t *testing.T) {
	gen := &stubGen{out: sampleModelOutput}
	cg := NewContentGenerator(gen)

	m, err := cg.Generate(context.Background(), "transcript text", "Python Tutorial", "python tutorial")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(m.Summary, "Python basics") {
		t.Errorf("summary = %q", m.Summary)
	}
	if len(m.Questions) != 2 {
		t.Errorf("got %d questions, want 2", len(m.Questions))
	}
	if len(m.Flashcards) != 2 {
		t.Errorf("got %d flashcards, want 2", len(m.Flashcards))
	}
	if !UsableSection(m.QuestionsText) || !UsableSection(m.FlashcardsText) {
		t.Errorf("raw sections should be usable")
	}
}

func TestGenerateDeterministicForSameInput(t *testing.T) {
	gen := &stubGen{out: sampleModelOutput}
	cg := NewContentGenerator(gen)
	ctx := context.Background()

	a, err := cg.Generate(ctx, "same transcript", "Title", "topic tutorial")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := cg.Generate(ctx, "same transcript", "Title", "topic tutorial")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Errorf("same input produced different materials:\n%+v\n%+v", a, b)
	}
}

func TestGeneratePlanRequiresTwoSummaries(t *testing.T) {
	gen := &stubGen{out: "A detailed plan."}
	cg := NewContentGenerator(gen)

	plan, err := cg.GeneratePlan(context.Background(), []VideoSummary{{Title: "One", Summary: "s"}}, "python tutorial")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan != PlanPlaceholder {
		t.Errorf("plan = %q, want placeholder", plan)
	}
	if gen.calls != 0 {
		t.Errorf("model should not be called for a single summary, got %d calls", gen.calls)
	}
}

func TestGeneratePlan(t *testing.T) {
	gen := &stubGen{out: "  1. Watch the basics first.\n2. Then the project video.  "}
	cg := NewContentGenerator(gen)

	summaries := []VideoSummary{
		{Title: "Basics", Summary: "covers syntax"},
		{Title: "Project", Summary: "builds an app"},
	}
	plan, err := cg.GeneratePlan(context.Background(), summaries, "python tutorial")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan != "1. Watch the basics first.\n2. Then the project video." {
		t.Errorf("plan = %q", plan)
	}
	if gen.calls != 1 {
		t.Errorf("expected 1 model call, got %d", gen.calls)
	}
}

func TestGeneratePlanCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	gen := &stubGen{out: "plan"}
	cg := NewContentGenerator(gen)
	summaries := []VideoSummary{{Title: "a", Summary: "x"}, {Title: "b", Summary: "y"}}

	if _, err := cg.GeneratePlan(ctx, summaries, "topic"); err == nil {
		t.Error("expected error for cancelled context")
	}
}
