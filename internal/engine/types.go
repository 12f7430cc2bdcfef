package engine

import "context"

// Video is a candidate search result. Immutable once created.
type Video struct {
	ID          string `json:"videoId"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Channel     string `json:"channel"`
	URL         string `json:"url"`
}

// SearchRequest describes one call against the video search API.
// ChannelID and Duration are optional narrowing filters.
type SearchRequest struct {
	Query      string
	ChannelID  string
	Duration   string // "long" etc., empty = any
	MaxResults int
}

// VideoSearcher is the video search API collaborator.
type VideoSearcher interface {
	Search(ctx context.Context, req SearchRequest) ([]Video, error)
}

// TranscriptService is the transcript microservice collaborator:
// a cheap availability probe plus the slow full fetch.
type TranscriptService interface {
	HasTranscript(ctx context.Context, videoID string) (bool, error)
	Fetch(ctx context.Context, videoURL string) (string, error)
}

// GenerateOpts carries per-call model options.
type GenerateOpts struct {
	Temperature float64
	MaxTokens   int
}

// TextGenerator is the generative-model collaborator.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string, opts GenerateOpts) (string, error)
}

// QuizQuestion is one parsed Q/A pair, numbered as emitted by the model.
type QuizQuestion struct {
	Number   int    `json:"number"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Flashcard is one parsed front/back pair.
type Flashcard struct {
	Number int    `json:"number"`
	Front  string `json:"front"`
	Back   string `json:"back"`
}

// Materials is the parsed output of one combined generation call.
// QuestionsText and FlashcardsText keep the raw sections so callers can
// judge usability (sentinel phrases) independently of parse results.
type Materials struct {
	Summary        string         `json:"summary"`
	Questions      []QuizQuestion `json:"questions"`
	Flashcards     []Flashcard    `json:"flashcards"`
	QuestionsText  string         `json:"-"`
	FlashcardsText string         `json:"-"`
}

// TranscriptInfo is the persisted view of a transcript: length plus a preview,
// never the full text.
type TranscriptInfo struct {
	Length  int    `json:"fullLength"`
	Preview string `json:"preview"`
}

// SummaryInfo pairs summary content with its length.
type SummaryInfo struct {
	Content string `json:"content"`
	Length  int    `json:"length"`
}

// ProcessedVideo is the final outcome of one video's transcript+generation
// attempt. Created once per attempt and never mutated afterwards. A success
// always has a non-empty transcript and summary; a failure always carries a
// non-empty Error and no materials.
type ProcessedVideo struct {
	Number     int             `json:"videoNumber,omitempty"`
	VideoID    string          `json:"videoId"`
	Title      string          `json:"title"`
	Channel    string          `json:"channel,omitempty"`
	URL        string          `json:"url,omitempty"`
	Transcript *TranscriptInfo `json:"transcript,omitempty"`
	Summary    *SummaryInfo    `json:"summary,omitempty"`
	Questions  []QuizQuestion  `json:"questions,omitempty"`
	Flashcards []Flashcard     `json:"flashcards,omitempty"`
	Status     string          `json:"status"`
	Error      string          `json:"error,omitempty"`
	ElapsedMs  int64           `json:"processingTimeMs"`

	// Raw sections, kept for persistence-side usability checks.
	QuestionsText  string `json:"-"`
	FlashcardsText string `json:"-"`
}

// Succeeded reports whether this attempt produced usable materials.
func (p ProcessedVideo) Succeeded() bool { return p.Status == StatusSuccess }

// Store is the persistence collaborator. Implementations must tolerate
// per-item failures; the pipeline records them without aborting.
type Store interface {
	SaveVideoWithMaterials(ctx context.Context, userID, topic string, video ProcessedVideo) (int64, error)
	SaveLearningPlan(ctx context.Context, userID, topic, plan, preference string) error
}
