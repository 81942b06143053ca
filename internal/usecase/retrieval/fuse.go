package retrieval

import (
	"sort"

	"search-orchestrator/internal/domain"
)

// DefaultRRFK is the rank-smoothing constant for Reciprocal Rank Fusion.
const DefaultRRFK = 60.0

// Fuse merges the keyword and vector rankings into one using Reciprocal
// Rank Fusion: each entry scores the sum of 1/(k+rank) over whichever ranks
// it holds, so an item present in both lists is rewarded for cross-signal
// agreement. Rank-based fusion sidesteps normalizing the incompatible score
// scales of lexical and vector retrieval.
//
// The keyword list is consumed first, so its snippets take precedence when
// both paths produced one. Ties in fused score keep insertion order. A
// negative limit defaults to max(len(keyword), len(vector)); limit 0 yields
// an empty list.
func Fuse(keyword, vector []domain.SearchResult, k float64, limit int) []domain.SearchResult {
	if limit < 0 {
		limit = len(keyword)
		if len(vector) > limit {
			limit = len(vector)
		}
	}
	if limit == 0 {
		return []domain.SearchResult{}
	}

	type entry struct {
		result domain.SearchResult
		order  int
	}
	merged := make(map[string]*entry, len(keyword)+len(vector))
	order := 0

	for i := range keyword {
		r := keyword[i]
		rank := i + 1
		r.KeywordRank = &rank
		merged[r.ID] = &entry{result: r, order: order}
		order++
	}

	for i := range vector {
		v := vector[i]
		rank := i + 1
		if e, exists := merged[v.ID]; exists {
			e.result.VectorRank = &rank
			e.result.VectorScore = v.VectorScore
			if e.result.Snippet == "" {
				e.result.Snippet = v.Snippet
			}
			continue
		}
		v.VectorRank = &rank
		merged[v.ID] = &entry{result: v, order: order}
		order++
	}

	fused := make([]domain.SearchResult, 0, len(merged))
	for _, e := range merged {
		score := 0.0
		if e.result.KeywordRank != nil {
			score += 1.0 / (k + float64(*e.result.KeywordRank))
		}
		if e.result.VectorRank != nil {
			score += 1.0 / (k + float64(*e.result.VectorRank))
		}
		s := score
		e.result.RRFScore = &s
		fused = append(fused, e.result)
	}

	byID := make(map[string]int, len(merged))
	for id, e := range merged {
		byID[id] = e.order
	}
	sort.SliceStable(fused, func(i, j int) bool {
		if *fused[i].RRFScore != *fused[j].RRFScore {
			return *fused[i].RRFScore > *fused[j].RRFScore
		}
		return byID[fused[i].ID] < byID[fused[j].ID]
	})

	if len(fused) > limit {
		fused = fused[:limit]
	}
	return fused
}
