package domain

import "context"

// Embedder generates a vector embedding for a query. Only needed for
// semantic and hybrid retrieval modes.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	ModelName() string
}
