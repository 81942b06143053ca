package domain

import "context"

// RerankCandidate represents a fused result prepared for cross-encoder
// scoring.
type RerankCandidate struct {
	// ID is the chunk identifier, used to map scores back to results.
	ID string
	// Content is the compact text scored against the query
	// (title + section path + snippet).
	Content string
}

// RerankResult carries the cross-encoder relevance score for one candidate.
type RerankResult struct {
	// ID matches the candidate ID.
	ID string
	// Score is the cross-encoder relevance score.
	Score float64
}

// Reranker scores a small candidate set against the query with a secondary,
// more expensive relevance model. A failure must never fail the overall
// request; callers fall back to the fused order.
type Reranker interface {
	// Rerank returns results sorted by score descending. A rate-limited
	// call is reported as ErrRerankRateLimited so callers can retry.
	Rerank(ctx context.Context, query string, candidates []RerankCandidate) ([]RerankResult, error)

	// ModelName returns the model identifier for logging.
	ModelName() string
}
