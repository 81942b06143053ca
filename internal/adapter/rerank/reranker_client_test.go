package rerank

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"search-orchestrator/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func candidates() []domain.RerankCandidate {
	return []domain.RerankCandidate{
		{ID: "chunk-1", Content: "Indexing pipeline overview"},
		{ID: "chunk-2", Content: "Vector search configuration"},
		{ID: "chunk-3", Content: "Keyword ranking rules"},
	}
}

func TestRerank_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/rerank", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req RerankRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test query", req.Query)
		assert.Len(t, req.Candidates, 3)
		assert.Equal(t, "bge-reranker-v2-m3", req.Model)

		resp := RerankResponse{
			Results: []RerankResponseResult{
				{Index: 1, Score: 0.95},
				{Index: 0, Score: 0.85},
				{Index: 2, Score: 0.75},
			},
			Model: "bge-reranker-v2-m3",
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL, "bge-reranker-v2-m3", 30*time.Second, testLogger(), nil)

	results, err := client.Rerank(context.Background(), "test query", candidates())
	require.NoError(t, err)

	require.Len(t, results, 3)
	assert.Equal(t, "chunk-2", results[0].ID)
	assert.Equal(t, 0.95, results[0].Score)
	assert.Equal(t, "chunk-1", results[1].ID)
	assert.Equal(t, "chunk-3", results[2].ID)
}

func TestRerank_EmptyCandidates(t *testing.T) {
	client := NewClient("http://localhost:8001", "bge-reranker-v2-m3", 30*time.Second, testLogger(), nil)

	results, err := client.Rerank(context.Background(), "test query", nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRerank_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(server.URL, "bge-reranker-v2-m3", 30*time.Second, testLogger(), nil)

	_, err := client.Rerank(context.Background(), "test query", candidates())
	assert.ErrorIs(t, err, domain.ErrRerankRateLimited)
}

func TestRerank_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, "bge-reranker-v2-m3", 30*time.Second, testLogger(), nil)

	_, err := client.Rerank(context.Background(), "test query", candidates())
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrRerankRateLimited)
}

func TestRerank_InvalidIndexRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := RerankResponse{Results: []RerankResponseResult{{Index: 7, Score: 0.5}}}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL, "bge-reranker-v2-m3", 30*time.Second, testLogger(), nil)

	_, err := client.Rerank(context.Background(), "test query", candidates())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid result index")
}

func TestRerank_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client := NewClient(server.URL, "bge-reranker-v2-m3", 30*time.Second, testLogger(), nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := client.Rerank(ctx, "test query", candidates())
	assert.Error(t, err)
}
