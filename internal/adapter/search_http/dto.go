package search_http

import (
	"search-orchestrator/internal/usecase"
)

// SearchRequest is the JSON body of POST /v1/search. Pointer fields
// distinguish "absent" from zero values so defaults apply correctly.
type SearchRequest struct {
	Query       string  `json:"query"`
	Mode        *string `json:"mode,omitempty"`
	Limit       *int    `json:"limit,omitempty"`
	SectionPath *string `json:"section_path,omitempty"`
	Source      *string `json:"source,omitempty"`
	Version     *string `json:"version,omitempty"`
	Rerank      *bool   `json:"rerank,omitempty"`
}

// SearchResultDTO mirrors domain.SearchResult with every intermediate
// ranking signal exposed.
type SearchResultDTO struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	SectionPath string   `json:"section_path,omitempty"`
	Snippet     string   `json:"snippet,omitempty"`
	KeywordRank *int     `json:"keyword_rank,omitempty"`
	VectorRank  *int     `json:"vector_rank,omitempty"`
	VectorScore *float64 `json:"vector_score,omitempty"`
	RRFScore    *float64 `json:"rrf_score,omitempty"`
	RerankScore *float64 `json:"rerank_score,omitempty"`
	DocsVersion int64    `json:"docs_version,omitempty"`
}

// FiltersDTO echoes the filters applied to both retrieval paths.
type FiltersDTO struct {
	SectionPath  string  `json:"section_path,omitempty"`
	Source       string  `json:"source,omitempty"`
	DocsVersions []int64 `json:"docs_versions,omitempty"`
}

// ResolvedVersionDTO describes how the version selector was resolved.
type ResolvedVersionDTO struct {
	Mode  string `json:"mode"`
	Score *int64 `json:"score,omitempty"`
}

// TimingsDTO carries per-stage wall-clock milliseconds.
type TimingsDTO struct {
	Keyword *int64 `json:"keyword,omitempty"`
	Vector  *int64 `json:"vector,omitempty"`
	RRF     *int64 `json:"rrf,omitempty"`
	Rerank  *int64 `json:"rerank,omitempty"`
	Total   int64  `json:"total"`
}

// SearchResponse is the response envelope of the query operation.
type SearchResponse struct {
	Query                  string              `json:"query"`
	Mode                   string              `json:"mode"`
	Limit                  int                 `json:"limit"`
	Filters                FiltersDTO          `json:"filters"`
	ResolvedVersion        *ResolvedVersionDTO `json:"resolved_version"`
	AppliedFilterPredicate *string             `json:"applied_filter_predicate"`
	TimingsMs              TimingsDTO          `json:"timings_ms"`
	RerankApplied          bool                `json:"rerank_applied"`
	Warnings               []string            `json:"warnings"`
	Results                []SearchResultDTO   `json:"results"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

func toResponse(out *usecase.SearchOutput) SearchResponse {
	results := make([]SearchResultDTO, 0, len(out.Results))
	for _, r := range out.Results {
		results = append(results, SearchResultDTO{
			ID:          r.ID,
			Title:       r.Title,
			URL:         r.URL,
			SectionPath: r.SectionPath,
			Snippet:     r.Snippet,
			KeywordRank: r.KeywordRank,
			VectorRank:  r.VectorRank,
			VectorScore: r.VectorScore,
			RRFScore:    r.RRFScore,
			RerankScore: r.RerankScore,
			DocsVersion: r.DocsVersion,
		})
	}

	var resolved *ResolvedVersionDTO
	if out.ResolvedVersion != nil {
		resolved = &ResolvedVersionDTO{
			Mode:  out.ResolvedVersion.Mode,
			Score: out.ResolvedVersion.Score,
		}
	}

	var predicate *string
	if out.AppliedPredicate != "" {
		predicate = &out.AppliedPredicate
	}

	return SearchResponse{
		Query: out.Query,
		Mode:  string(out.Mode),
		Limit: out.Limit,
		Filters: FiltersDTO{
			SectionPath:  out.Filters.SectionPath,
			Source:       out.Filters.Source,
			DocsVersions: out.Filters.DocsVersions,
		},
		ResolvedVersion:        resolved,
		AppliedFilterPredicate: predicate,
		TimingsMs: TimingsDTO{
			Keyword: out.Timings.Keyword,
			Vector:  out.Timings.Vector,
			RRF:     out.Timings.RRF,
			Rerank:  out.Timings.Rerank,
			Total:   out.Timings.Total,
		},
		RerankApplied: out.RerankApplied,
		Warnings:      out.Warnings,
		Results:       results,
	}
}
