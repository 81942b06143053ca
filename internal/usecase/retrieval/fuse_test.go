package retrieval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"search-orchestrator/internal/domain"
)

func result(id, url string) domain.SearchResult {
	return domain.SearchResult{ID: id, Title: "title " + id, URL: url}
}

func TestFuse_OverlapScoresBothSignals(t *testing.T) {
	keyword := []domain.SearchResult{
		result("a", "https://docs.example/a"),
		result("b", "https://docs.example/b"),
	}
	vector := []domain.SearchResult{
		result("c", "https://docs.example/c"),
		result("b", "https://docs.example/b"),
		result("d", "https://docs.example/d"),
	}

	fused := Fuse(keyword, vector, DefaultRRFK, -1)
	require.Len(t, fused, 4)

	// "b" holds keyword rank 2 and vector rank 2, scoring 1/62 + 1/62.
	// Every single-signal entry scores at most 1/61, so "b" wins.
	assert.Equal(t, "b", fused[0].ID)
	require.NotNil(t, fused[0].KeywordRank)
	require.NotNil(t, fused[0].VectorRank)
	assert.Equal(t, 2, *fused[0].KeywordRank)
	assert.Equal(t, 2, *fused[0].VectorRank)
	require.NotNil(t, fused[0].RRFScore)
	assert.InDelta(t, 1.0/62+1.0/62, *fused[0].RRFScore, 1e-12)

	// Tied single-signal entries keep insertion order: keyword list first.
	assert.Equal(t, "a", fused[1].ID)
	assert.Equal(t, "c", fused[2].ID)
	assert.Equal(t, "d", fused[3].ID)
}

func TestFuse_EveryResultCarriesScore(t *testing.T) {
	keyword := []domain.SearchResult{result("a", "u1"), result("b", "u2")}
	vector := []domain.SearchResult{result("c", "u3")}

	fused := Fuse(keyword, vector, DefaultRRFK, -1)
	for _, r := range fused {
		require.NotNil(t, r.RRFScore, "id %s", r.ID)
		assert.Greater(t, *r.RRFScore, 0.0)
		assert.True(t, r.KeywordRank != nil || r.VectorRank != nil)
	}
}

func TestFuse_SnippetPrecedence(t *testing.T) {
	kw := result("a", "u1")
	kw.Snippet = "keyword excerpt"
	vec := result("a", "u1")
	vec.Snippet = "vector excerpt"

	fused := Fuse([]domain.SearchResult{kw}, []domain.SearchResult{vec}, DefaultRRFK, -1)
	require.Len(t, fused, 1)
	assert.Equal(t, "keyword excerpt", fused[0].Snippet)
}

func TestFuse_VectorSnippetFillsEmpty(t *testing.T) {
	kw := result("a", "u1")
	vec := result("a", "u1")
	vec.Snippet = "vector excerpt"

	fused := Fuse([]domain.SearchResult{kw}, []domain.SearchResult{vec}, DefaultRRFK, -1)
	require.Len(t, fused, 1)
	assert.Equal(t, "vector excerpt", fused[0].Snippet)
}

func TestFuse_SmallerKSharpens(t *testing.T) {
	// With a small k the rank-1 single-signal entry overtakes a deep
	// double-signal one; with the default k the double signal wins.
	keyword := []domain.SearchResult{
		result("top", "u1"),
		result("deep", "u2"),
	}
	vector := []domain.SearchResult{
		result("x1", "u3"),
		result("x2", "u4"),
		result("x3", "u5"),
		result("x4", "u6"),
		result("x5", "u7"),
		result("deep", "u2"),
	}

	fusedDefault := Fuse(keyword, vector, DefaultRRFK, -1)
	assert.Equal(t, "deep", fusedDefault[0].ID)

	fusedSharp := Fuse(keyword, vector, 1.0, -1)
	assert.Equal(t, "top", fusedSharp[0].ID)
}

func TestFuse_LimitSemantics(t *testing.T) {
	keyword := []domain.SearchResult{result("a", "u1"), result("b", "u2")}
	vector := []domain.SearchResult{result("c", "u3")}

	assert.Empty(t, Fuse(keyword, vector, DefaultRRFK, 0))
	assert.Len(t, Fuse(keyword, vector, DefaultRRFK, 2), 2)
	// Negative limit keeps max(len(keyword), len(vector)).
	assert.Len(t, Fuse(keyword, vector, DefaultRRFK, -1), 2)
	// Limit beyond the merged size keeps everything.
	assert.Len(t, Fuse(keyword, vector, DefaultRRFK, 10), 3)
}

func TestFuse_EmptyInputs(t *testing.T) {
	assert.Empty(t, Fuse(nil, nil, DefaultRRFK, -1))

	keyword := []domain.SearchResult{result("a", "u1")}
	fused := Fuse(keyword, nil, DefaultRRFK, -1)
	require.Len(t, fused, 1)
	assert.Equal(t, "a", fused[0].ID)
	assert.Nil(t, fused[0].VectorRank)
}
