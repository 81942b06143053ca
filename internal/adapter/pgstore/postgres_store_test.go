package pgstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"search-orchestrator/internal/domain"
)

func TestBuildFilter(t *testing.T) {
	tests := []struct {
		name      string
		predicate domain.FilterPredicate
		wantSQL   string
		wantArgs  int
	}{
		{
			name:      "empty",
			predicate: domain.FilterPredicate{},
			wantSQL:   "",
			wantArgs:  0,
		},
		{
			name:      "section path",
			predicate: domain.FilterPredicate{SectionPath: "guides"},
			wantSQL:   " AND section_path = $2",
			wantArgs:  1,
		},
		{
			name:      "versions only",
			predicate: domain.FilterPredicate{DocsVersions: []int64{30_000_000, 0}},
			wantSQL:   " AND docs_version = ANY($2)",
			wantArgs:  1,
		},
		{
			name: "all clauses numbered in order",
			predicate: domain.FilterPredicate{
				SectionPath:  "guides",
				Source:       "docs",
				DocsVersions: []int64{25_001},
			},
			wantSQL:  " AND section_path = $2 AND source = $3 AND docs_version = ANY($4)",
			wantArgs: 3,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args := buildFilter(tt.predicate, 2)
			assert.Equal(t, tt.wantSQL, sql)
			assert.Len(t, args, tt.wantArgs)
		})
	}
}

func TestBuildFilter_ValuesAreParameters(t *testing.T) {
	// Filter values must travel as bind parameters, never inlined.
	predicate := domain.FilterPredicate{Source: `docs'; DROP TABLE doc_chunks; --`}
	sql, args := buildFilter(predicate, 2)

	assert.NotContains(t, sql, "DROP TABLE")
	require.Len(t, args, 1)
	assert.Equal(t, predicate.Source, args[0])
}
