package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterPredicate_String(t *testing.T) {
	tests := []struct {
		name      string
		predicate FilterPredicate
		want      string
	}{
		{
			name:      "empty",
			predicate: FilterPredicate{},
			want:      "",
		},
		{
			name:      "section path only",
			predicate: FilterPredicate{SectionPath: "guides/indexing"},
			want:      `section_path = "guides/indexing"`,
		},
		{
			name:      "single version",
			predicate: FilterPredicate{DocsVersions: []int64{25_001}},
			want:      "docs_version = 25001",
		},
		{
			name:      "latest plus unversioned",
			predicate: FilterPredicate{DocsVersions: []int64{30_000_000, 0}},
			want:      "(docs_version = 30000000 OR docs_version = 0)",
		},
		{
			name: "all clauses",
			predicate: FilterPredicate{
				SectionPath:  "api",
				Source:       "docs",
				DocsVersions: []int64{30_000_000, 0},
			},
			want: `section_path = "api" AND source = "docs" AND (docs_version = 30000000 OR docs_version = 0)`,
		},
		{
			name:      "quotes escaped",
			predicate: FilterPredicate{Source: `say "hi"`},
			want:      `source = "say \"hi\""`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.predicate.String())
		})
	}
}

func TestFilterPredicate_IsZero(t *testing.T) {
	assert.True(t, FilterPredicate{}.IsZero())
	assert.False(t, FilterPredicate{Source: "docs"}.IsZero())
	assert.False(t, FilterPredicate{DocsVersions: []int64{0}}.IsZero())
}
