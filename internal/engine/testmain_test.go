package engine

import (
	"os"
	"testing"
	"time"
)

func TestMain(m *testing.M) {
	// Millisecond pacing so pipeline tests don't sit in real delays.
	Init(Config{
		TargetVideos:      5,
		MaxAttempts:       50,
		AttemptDelay:      time.Millisecond,
		TopicTimeout:      5 * time.Second,
		TranscriptTimeout: 5 * time.Second,
		GenerateTimeout:   5 * time.Second,
		PlanTimeout:       5 * time.Second,
	})
	os.Exit(m.Run())
}
