package encoder

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"search-orchestrator/internal/domain"
)

// OpenAIEncoder implements domain.Embedder against an OpenAI-compatible
// embeddings endpoint.
type OpenAIEncoder struct {
	client *openai.Client
	model  string
}

// NewOpenAIEncoder builds an encoder. baseURL may be empty to use the
// public API.
func NewOpenAIEncoder(apiKey, baseURL, model string) *OpenAIEncoder {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIEncoder{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (e *OpenAIEncoder) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(e.model),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("embeddings endpoint returned no data")
	}
	return resp.Data[0].Embedding, nil
}

func (e *OpenAIEncoder) ModelName() string {
	return e.model
}

var _ domain.Embedder = (*OpenAIEncoder)(nil)
