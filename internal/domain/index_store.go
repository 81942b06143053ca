package domain

import (
	"context"
	"fmt"
	"strings"
)

// FilterPredicate scopes a retrieval call. Each index store backend renders
// it into its native filter language; String returns the canonical filter
// expression echoed back to the caller for debuggability.
type FilterPredicate struct {
	SectionPath string
	Source      string
	// DocsVersions restricts results to chunks whose docs_version equals
	// any of the listed scores. Nil means no version scoping.
	DocsVersions []int64
}

// IsZero reports whether the predicate imposes no constraint at all.
func (p FilterPredicate) IsZero() bool {
	return p.SectionPath == "" && p.Source == "" && p.DocsVersions == nil
}

// String renders the predicate as a filter expression
// (e.g. `source = "docs" AND (docs_version = 30000000 OR docs_version = 0)`).
func (p FilterPredicate) String() string {
	var clauses []string
	if p.SectionPath != "" {
		clauses = append(clauses, fmt.Sprintf("section_path = \"%s\"", escapeFilterValue(p.SectionPath)))
	}
	if p.Source != "" {
		clauses = append(clauses, fmt.Sprintf("source = \"%s\"", escapeFilterValue(p.Source)))
	}
	if len(p.DocsVersions) > 0 {
		alts := make([]string, len(p.DocsVersions))
		for i, v := range p.DocsVersions {
			alts[i] = fmt.Sprintf("docs_version = %d", v)
		}
		if len(alts) == 1 {
			clauses = append(clauses, alts[0])
		} else {
			clauses = append(clauses, "("+strings.Join(alts, " OR ")+")")
		}
	}
	return strings.Join(clauses, " AND ")
}

func escapeFilterValue(value string) string {
	value = strings.ReplaceAll(value, "\\", "\\\\")
	value = strings.ReplaceAll(value, "\"", "\\\"")
	return value
}

// IndexStore is the black-box lexical/vector index the orchestrator
// retrieves from. Implementations must return hits in rank order, best
// first, without mutating the corpus.
type IndexStore interface {
	// KeywordSearch runs lexical retrieval for the query.
	KeywordSearch(ctx context.Context, query string, predicate FilterPredicate, limit int) ([]SearchResult, error)

	// VectorSearch runs similarity retrieval for a precomputed embedding.
	// Hits carry VectorScore when the backend exposes a similarity in [0,1].
	VectorSearch(ctx context.Context, embedding []float32, predicate FilterPredicate, limit int) ([]SearchResult, error)

	// FacetMax returns the maximum non-zero value of a numeric facet field
	// across the corpus. found is false when no document carries a non-zero
	// value.
	FacetMax(ctx context.Context, field string) (max int64, found bool, err error)

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
}
