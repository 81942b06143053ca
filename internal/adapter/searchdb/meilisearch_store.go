package searchdb

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/meilisearch/meilisearch-go"

	"search-orchestrator/internal/domain"
)

// snippetRunes caps the excerpt length returned to callers.
const snippetRunes = 240

// MeilisearchStore implements domain.IndexStore on a Meilisearch index
// holding one document per chunk: id, title, url, section_path, content,
// docs_version (filterable, faceted).
type MeilisearchStore struct {
	client   meilisearch.ServiceManager
	index    meilisearch.IndexManager
	embedder string
}

// NewMeilisearchStore wraps an existing client. embedderName is the
// index-side embedder used for pure-vector queries.
func NewMeilisearchStore(client meilisearch.ServiceManager, indexName, embedderName string) *MeilisearchStore {
	return &MeilisearchStore{
		client:   client,
		index:    client.Index(indexName),
		embedder: embedderName,
	}
}

func (s *MeilisearchStore) KeywordSearch(ctx context.Context, query string, predicate domain.FilterPredicate, limit int) ([]domain.SearchResult, error) {
	request := &meilisearch.SearchRequest{
		Limit: int64(limit),
	}
	if filter := predicate.String(); filter != "" {
		request.Filter = filter
	}

	result, err := s.index.Search(query, request)
	if err != nil {
		return nil, fmt.Errorf("keyword search: %w", err)
	}
	return s.decodeHits(result, false), nil
}

func (s *MeilisearchStore) VectorSearch(ctx context.Context, embedding []float32, predicate domain.FilterPredicate, limit int) ([]domain.SearchResult, error) {
	// semanticRatio 1.0 makes the hybrid request a pure vector query.
	request := &meilisearch.SearchRequest{
		Limit:            int64(limit),
		Vector:           embedding,
		ShowRankingScore: true,
		Hybrid: &meilisearch.SearchRequestHybrid{
			SemanticRatio: 1.0,
			Embedder:      s.embedder,
		},
	}
	if filter := predicate.String(); filter != "" {
		request.Filter = filter
	}

	result, err := s.index.Search("", request)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	return s.decodeHits(result, true), nil
}

// FacetMax discovers the highest non-zero value of field by sorting on it.
// The field must be declared both filterable and sortable on the index.
func (s *MeilisearchStore) FacetMax(ctx context.Context, field string) (int64, bool, error) {
	request := &meilisearch.SearchRequest{
		Limit:  1,
		Filter: fmt.Sprintf("%s != 0", field),
		Sort:   []string{fmt.Sprintf("%s:desc", field)},
	}

	result, err := s.index.Search("", request)
	if err != nil {
		return 0, false, fmt.Errorf("facet query: %w", err)
	}
	if len(result.Hits) == 0 {
		return 0, false, nil
	}

	max := getInt64(result.Hits[0], field)
	if max == 0 {
		return 0, false, nil
	}
	return max, true, nil
}

func (s *MeilisearchStore) Ping(ctx context.Context) error {
	if _, err := s.client.Health(); err != nil {
		return fmt.Errorf("meilisearch health check failed: %w", err)
	}
	return nil
}

func (s *MeilisearchStore) decodeHits(result *meilisearch.SearchResponse, withScore bool) []domain.SearchResult {
	results := make([]domain.SearchResult, 0, len(result.Hits))
	for _, hit := range result.Hits {
		r := domain.SearchResult{
			ID:          getString(hit, "id"),
			Title:       getString(hit, "title"),
			URL:         getString(hit, "url"),
			SectionPath: getString(hit, "section_path"),
			Snippet:     truncateSnippet(getString(hit, "content")),
			DocsVersion: getInt64(hit, "docs_version"),
		}
		if r.ID == "" {
			continue
		}
		if withScore {
			if raw, ok := hit["_rankingScore"]; ok {
				var score float64
				if err := json.Unmarshal(raw, &score); err == nil {
					r.VectorScore = &score
				}
			}
		}
		results = append(results, r)
	}
	return results
}

func getString(hit meilisearch.Hit, key string) string {
	raw, ok := hit[key]
	if !ok {
		return ""
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return ""
	}
	return v
}

func getInt64(hit meilisearch.Hit, key string) int64 {
	raw, ok := hit[key]
	if !ok {
		return 0
	}
	var v int64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0
	}
	return v
}

func truncateSnippet(content string) string {
	runes := []rune(content)
	if len(runes) <= snippetRunes {
		return content
	}
	return string(runes[:snippetRunes]) + "…"
}

var _ domain.IndexStore = (*MeilisearchStore)(nil)
