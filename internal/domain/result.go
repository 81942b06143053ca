package domain

// SearchMode selects which retrieval paths run for a query.
type SearchMode string

const (
	ModeKeyword  SearchMode = "keyword"
	ModeSemantic SearchMode = "semantic"
	ModeHybrid   SearchMode = "hybrid"
)

// Valid reports whether the mode is one of the supported retrieval modes.
func (m SearchMode) Valid() bool {
	switch m {
	case ModeKeyword, ModeSemantic, ModeHybrid:
		return true
	}
	return false
}

// SearchResult is one ranked candidate surfaced to the caller, annotated
// with every intermediate ranking signal for explainability.
type SearchResult struct {
	// ID is the stable identifier of the underlying chunk.
	ID string
	// Title, URL and SectionPath are provenance metadata copied from the
	// indexed chunk. URL is the deduplication key.
	Title       string
	URL         string
	SectionPath string
	// Snippet is a truncated excerpt. When a result is produced by both
	// retrieval paths the first non-empty snippet encountered wins; the
	// keyword list is processed first.
	Snippet string
	// KeywordRank is the 1-based position in the lexical ranking, set only
	// if the item appeared there.
	KeywordRank *int
	// VectorRank and VectorScore carry the position and similarity score
	// from the vector ranking.
	VectorRank  *int
	VectorScore *float64
	// RRFScore is the fused score, set whenever fusion ran.
	RRFScore *float64
	// RerankScore is the cross-encoder relevance score, set only when
	// reranking succeeded for this item.
	RerankScore *float64
	// DocsVersion is the numeric corpus version tag of the chunk.
	// Zero denotes an unversioned document.
	DocsVersion int64
}

// ResolvedVersion describes how a version selector was resolved.
type ResolvedVersion struct {
	// Mode is one of "latest", "all" or "exact".
	Mode string
	// Score is the resolved numeric version. Absent for mode "all" and for
	// mode "latest" when the corpus holds no versioned documents.
	Score *int64
}

// StageTimings holds per-stage wall-clock measurements in milliseconds.
// A nil field means the stage did not run for this request.
type StageTimings struct {
	Keyword *int64
	Vector  *int64
	RRF     *int64
	Rerank  *int64
	Total   int64
}
