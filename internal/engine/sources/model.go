package sources

import (
	"context"
	"net/http"
	"time"

	"github.com/anatolykoptev/go-kit/llm"

	"github.com/anatolykoptev/go_study/internal/engine"
)

// Model adapts the OpenAI-compatible chat client to engine.TextGenerator.
type Model struct {
	client *llm.Client
}

// NewModel builds a generator against an OpenAI-compatible endpoint.
// fallbackKeys are rotated through on auth/quota failures.
func NewModel(apiBase, apiKey, model string, fallbackKeys []string, maxTokens int, temperature float64) *Model {
	return &Model{
		client: llm.NewClient(apiBase, apiKey, model,
			llm.WithFallbackKeys(fallbackKeys),
			llm.WithMaxTokens(maxTokens),
			llm.WithTemperature(temperature),
			llm.WithHTTPClient(&http.Client{Timeout: 10 * time.Minute}),
		),
	}
}

func (m *Model) Generate(ctx context.Context, prompt string, opts engine.GenerateOpts) (string, error) {
	return m.client.Complete(ctx, "", prompt,
		llm.WithChatTemperature(opts.Temperature),
		llm.WithChatMaxTokens(opts.MaxTokens),
	)
}
