package engine

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestTrackOperationPassesThroughResult(t *testing.T) {
	wantErr := errors.New("downstream failure")
	tests := []struct {
		name string
		err  error
	}{
		{"success", nil},
		{"error", wantErr},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			err := TrackOperation(context.Background(), "op", time.Hour, func(ctx context.Context) error {
				called = true
				if ctx == nil {
					t.Error("fn received nil context")
				}
				return tt.err
			})
			if !called {
				t.Fatal("fn was not called")
			}
			if !errors.Is(err, tt.err) {
				t.Errorf("TrackOperation returned %v, want %v", err, tt.err)
			}
		})
	}
}
