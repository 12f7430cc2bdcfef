package engine

import (
	"context"
	"fmt"
	"strings"
)

// stripFences removes markdown code fences from model output.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// generateWithRetry calls the model with the linear-backoff retry contract:
// every failure is retried, and after the budget is spent the last underlying
// error is carried in the returned error.
func generateWithRetry(ctx context.Context, gen TextGenerator, rc RetryConfig, prompt string, opts GenerateOpts) (string, error) {
	out, err := RetryAlways(ctx, rc, func() (string, error) {
		IncrModelCalls()
		raw, err := gen.Generate(ctx, prompt, opts)
		if err != nil {
			IncrModelErrors()
			return "", err
		}
		return stripFences(raw), nil
	})
	if err != nil {
		return "", fmt.Errorf("generation failed after %d attempts: %w", rc.MaxRetries+1, err)
	}
	return out, nil
}
