package retrieval

import "search-orchestrator/internal/domain"

// Diversify removes near-duplicate results sharing the same canonical URL,
// preserving first-occurrence order, and stops once limit unique items have
// been kept. A negative limit keeps every unique item. Results without a URL
// are never considered duplicates of each other.
func Diversify(items []domain.SearchResult, limit int) []domain.SearchResult {
	if limit == 0 {
		return []domain.SearchResult{}
	}

	seen := make(map[string]struct{}, len(items))
	kept := make([]domain.SearchResult, 0, len(items))
	for _, item := range items {
		if item.URL != "" {
			if _, dup := seen[item.URL]; dup {
				continue
			}
			seen[item.URL] = struct{}{}
		}
		kept = append(kept, item)
		if limit > 0 && len(kept) == limit {
			break
		}
	}
	return kept
}
