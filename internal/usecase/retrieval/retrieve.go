package retrieval

import (
	"context"
	"fmt"

	"search-orchestrator/internal/domain"
)

// DefaultRetrievalLimit bounds the per-source fan-in fetched from the index
// store before fusion. It matches the rerank candidate ceiling.
const DefaultRetrievalLimit = 50

// KeywordRetriever submits a query plus filter predicate to the index
// store's lexical path.
type KeywordRetriever struct {
	Store domain.IndexStore
}

func (r KeywordRetriever) Retrieve(ctx context.Context, query string, predicate domain.FilterPredicate, limit int) ([]domain.SearchResult, error) {
	results, err := r.Store.KeywordSearch(ctx, query, predicate, limit)
	if err != nil {
		return nil, fmt.Errorf("keyword search failed: %w", err)
	}
	return results, nil
}

// VectorRetriever submits a precomputed embedding plus filter predicate to
// the index store's similarity path.
type VectorRetriever struct {
	Store domain.IndexStore
}

func (r VectorRetriever) Retrieve(ctx context.Context, embedding []float32, predicate domain.FilterPredicate, limit int) ([]domain.SearchResult, error) {
	results, err := r.Store.VectorSearch(ctx, embedding, predicate, limit)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}
	return results, nil
}

// AnnotateKeywordRanks records 1-based lexical positions on a ranked list.
// Used for keyword-only responses, where fusion never runs.
func AnnotateKeywordRanks(results []domain.SearchResult) {
	for i := range results {
		rank := i + 1
		results[i].KeywordRank = &rank
	}
}

// AnnotateVectorRanks records 1-based similarity positions on a ranked list.
// Used for semantic-only responses, where fusion never runs.
func AnnotateVectorRanks(results []domain.SearchResult) {
	for i := range results {
		rank := i + 1
		results[i].VectorRank = &rank
	}
}
