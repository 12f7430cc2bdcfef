package engine

import (
	"context"
	"errors"
	"testing"
)

// stubSearcher routes each request through a function, so tests control
// per-strategy results.
type stubSearcher struct {
	fn func(req SearchRequest) ([]Video, error)
}

func (s *stubSearcher) Search(_ context.Context, req SearchRequest) ([]Video, error) {
	return s.fn(req)
}

func TestMainTopic(t *testing.T) {
	tests := []struct {
		topic string
		want  string
	}{
		{"python tutorial", "python"},
		{"machine learning full course", "machine"},
		{"complete web development guide", "web development"},
		{"tutorial", "tutorial"}, // stripping leaves nothing usable
		{"Go", "Go"},
	}
	for _, tt := range tests {
		t.Run(tt.topic, func(t *testing.T) {
			if got := MainTopic(tt.topic); got != tt.want {
				t.Errorf("MainTopic(%q) = %q, want %q", tt.topic, got, tt.want)
			}
		})
	}
}

func TestScore(t *testing.T) {
	tests := []struct {
		name  string
		video Video
		topic string
		want  int
	}{
		{
			"known channel plus title word",
			Video{Title: "Python Tutorial for Beginners", Channel: "freeCodeCamp.org"},
			"python",
			100 + 50 + 20 + 10, // channel + title word + "tutorial" + "beginner"
		},
		{
			"full course stacking",
			Video{Title: "Python Full Course", Channel: "Some Channel"},
			"python",
			50 + 20 + 30, // title word + "course" + "full course"
		},
		{
			"description only",
			Video{Title: "Intro", Description: "learn python basics", Channel: "x"},
			"python",
			10,
		},
		{
			"short words ignored",
			Video{Title: "Go tips", Channel: "x"},
			"go",
			0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.video, tt.topic); got != tt.want {
				t.Errorf("Score() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDiscoverDedupFilterOrder(t *testing.T) {
	fcc := Video{ID: "a1", Title: "Python Tutorial for Beginners", Channel: "freeCodeCamp.org"}
	offTopic := Video{ID: "b2", Title: "Cooking pasta at home", Channel: "Kitchen"}
	plain := Video{ID: "c3", Title: "Python course", Channel: "Someone"}
	fullCourse := Video{ID: "d4", Title: "Python Full Course", Channel: "freeCodeCamp.org"}

	searcher := &stubSearcher{fn: func(req SearchRequest) ([]Video, error) {
		if req.ChannelID != "" {
			return nil, nil
		}
		switch req.Query {
		case "python tutorial":
			return []Video{fcc, offTopic, plain}, nil
		case "python full course":
			return []Video{fcc, fullCourse}, nil // fcc duplicated across strategies
		default:
			return nil, nil
		}
	}}

	got := NewDiscovery(searcher).Discover(context.Background(), "python tutorial")

	wantIDs := []string{"d4", "a1", "c3"} // by descending score, off-topic dropped
	if len(got) != len(wantIDs) {
		t.Fatalf("got %d videos, want %d", len(got), len(wantIDs))
	}
	for i, id := range wantIDs {
		if got[i].ID != id {
			t.Errorf("position %d: got %q, want %q", i, got[i].ID, id)
		}
	}
}

func TestDiscoverAllowListedChannelSurvivesFilter(t *testing.T) {
	// No topic word in title or description, but the channel is trusted.
	v := Video{ID: "x1", Title: "Learn to code", Channel: "Traversy Media"}
	searcher := &stubSearcher{fn: func(req SearchRequest) ([]Video, error) {
		if req.ChannelID == "" && req.Query == "kubernetes tutorial" {
			return []Video{v}, nil
		}
		return nil, nil
	}}

	got := NewDiscovery(searcher).Discover(context.Background(), "kubernetes tutorial")
	if len(got) != 1 || got[0].ID != "x1" {
		t.Errorf("allow-listed channel was filtered out: %+v", got)
	}
}

func TestDiscoverContainsPanickingStrategy(t *testing.T) {
	good := Video{ID: "a1", Title: "Python Tutorial", Channel: "Someone"}
	searcher := &stubSearcher{fn: func(req SearchRequest) ([]Video, error) {
		if req.Query == "python full course" {
			panic("broken client")
		}
		if req.ChannelID == "" && req.Query == "python tutorial" {
			return []Video{good}, nil
		}
		return nil, nil
	}}

	got := NewDiscovery(searcher).Discover(context.Background(), "python tutorial")
	if len(got) != 1 || got[0].ID != "a1" {
		t.Errorf("panicking strategy should contribute nothing, got %+v", got)
	}
}

func TestDiscoverToleratesStrategyFailures(t *testing.T) {
	searcher := &stubSearcher{fn: func(req SearchRequest) ([]Video, error) {
		return nil, errors.New("quota exceeded")
	}}
	if got := NewDiscovery(searcher).Discover(context.Background(), "python tutorial"); got != nil {
		t.Errorf("expected nil on total failure, got %d videos", len(got))
	}
}
