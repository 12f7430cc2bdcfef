package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

// stubTranscripts answers availability probes from a fixed map; unknown IDs
// fail with an error, as a flaky service would.
type stubTranscripts struct {
	mu        sync.Mutex
	available map[string]bool
	fetches   []string
	fetchErr  map[string]error
	body      string
}

func (s *stubTranscripts) HasTranscript(_ context.Context, videoID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	has, known := s.available[videoID]
	if !known {
		return false, errors.New("probe failed")
	}
	return has, nil
}

func (s *stubTranscripts) Fetch(_ context.Context, videoURL string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetches = append(s.fetches, videoURL)
	if err := s.fetchErr[videoURL]; err != nil {
		return "", err
	}
	return s.body, nil
}

func (s *stubTranscripts) fetchCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.fetches)
}

// fastChecker removes the production pacing so tests run in milliseconds.
func fastChecker(ts TranscriptService) *AvailabilityChecker {
	return &AvailabilityChecker{
		transcripts: ts,
		limiter:     rate.NewLimiter(rate.Inf, 1),
		batchDelay:  time.Millisecond,
	}
}

func TestCheckBatchKeepsOrderAndDropsFailures(t *testing.T) {
	ts := &stubTranscripts{available: map[string]bool{
		"v1": true,
		// v2 unknown: probe error, silently excluded
		"v3": true,
		"v4": false,
		"v5": true,
	}}
	candidates := []Video{
		{ID: "v1"}, {ID: "v2"}, {ID: "v3"}, {ID: "v4"}, {ID: "v5"},
	}

	got := fastChecker(ts).CheckBatch(context.Background(), candidates)

	wantIDs := []string{"v1", "v3", "v5"}
	if len(got) != len(wantIDs) {
		t.Fatalf("got %d verified, want %d", len(got), len(wantIDs))
	}
	for i, id := range wantIDs {
		if got[i].ID != id {
			t.Errorf("position %d: got %q, want %q", i, got[i].ID, id)
		}
	}
}

func TestCheckBatchEmptyInput(t *testing.T) {
	ts := &stubTranscripts{available: map[string]bool{}}
	if got := fastChecker(ts).CheckBatch(context.Background(), nil); got != nil {
		t.Errorf("expected nil for empty input, got %v", got)
	}
}

func TestCheckBatchStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ts := &stubTranscripts{available: map[string]bool{"v1": true}}
	got := fastChecker(ts).CheckBatch(ctx, []Video{{ID: "v1"}, {ID: "v2"}})
	if len(got) != 0 {
		t.Errorf("expected no verified videos after cancel, got %d", len(got))
	}
}
