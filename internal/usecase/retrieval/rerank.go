package retrieval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"search-orchestrator/internal/domain"
)

// maxRerankCandidates bounds cross-encoder inference cost; candidates past
// the cutoff keep their fused order.
const maxRerankCandidates = 50

// Warnings surfaced when reranking is skipped or degrades.
const (
	WarnRerankDisabled      = "rerank_skipped: disabled by query parameter"
	WarnRerankNotConfigured = "rerank_skipped: provider not configured or disabled"
)

// RetryPolicy is the explicit retry schedule applied to rate-limited
// reranker calls. Delay doubles per attempt, capped at MaxDelay.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DefaultRetryPolicy matches the reranker's documented rate-limit behavior:
// three attempts with a doubling backoff capped at two seconds.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   250 * time.Millisecond,
		MaxDelay:    2 * time.Second,
	}
}

func (p RetryPolicy) delay(attempt int) time.Duration {
	d := p.BaseDelay << attempt
	if d > p.MaxDelay {
		d = p.MaxDelay
	}
	return d
}

// RerankOrchestrator applies best-effort cross-encoder reranking to the top
// fused candidates. A nil reranker means no provider is configured; every
// failure path degrades to the fused order with a recorded warning.
type RerankOrchestrator struct {
	reranker domain.Reranker
	timeout  time.Duration
	retry    RetryPolicy
	logger   *slog.Logger
}

// NewRerankOrchestrator constructs the orchestrator. reranker may be nil
// when no provider is configured.
func NewRerankOrchestrator(reranker domain.Reranker, timeout time.Duration, retry RetryPolicy, logger *slog.Logger) *RerankOrchestrator {
	return &RerankOrchestrator{
		reranker: reranker,
		timeout:  timeout,
		retry:    retry,
		logger:   logger,
	}
}

// MaybeRerank re-scores the top candidates when enabled and configured.
// It returns the result list, whether reranking was applied, and any
// warnings. The input order is returned untouched on every failure.
func (o *RerankOrchestrator) MaybeRerank(ctx context.Context, query string, fused []domain.SearchResult, enabled bool) ([]domain.SearchResult, bool, []string) {
	if !enabled {
		return fused, false, []string{WarnRerankDisabled}
	}
	if o.reranker == nil {
		return fused, false, []string{WarnRerankNotConfigured}
	}
	if len(fused) == 0 {
		return fused, false, nil
	}

	head := len(fused)
	if head > maxRerankCandidates {
		head = maxRerankCandidates
	}

	candidates := make([]domain.RerankCandidate, head)
	for i := 0; i < head; i++ {
		candidates[i] = domain.RerankCandidate{
			ID:      fused[i].ID,
			Content: candidateText(fused[i]),
		}
	}

	results, err := o.rerankWithRetry(ctx, query, candidates)
	if err != nil {
		o.logger.Warn("rerank_failed_using_fused_order",
			slog.String("error", err.Error()),
			slog.Int("candidate_count", head))
		return fused, false, []string{fmt.Sprintf("rerank_failed: %v", err)}
	}

	scores := make(map[string]float64, len(results))
	for _, r := range results {
		scores[r.ID] = r.Score
	}

	reranked := make([]domain.SearchResult, head)
	copy(reranked, fused[:head])
	for i := range reranked {
		if score, ok := scores[reranked[i].ID]; ok {
			s := score
			reranked[i].RerankScore = &s
		}
	}
	sort.SliceStable(reranked, func(i, j int) bool {
		return rerankScore(reranked[i]) > rerankScore(reranked[j])
	})

	out := make([]domain.SearchResult, 0, len(fused))
	out = append(out, reranked...)
	out = append(out, fused[head:]...)

	o.logger.Info("rerank_completed",
		slog.Int("candidate_count", head),
		slog.Int("scored_count", len(results)),
		slog.String("model", o.reranker.ModelName()))

	return out, true, nil
}

func (o *RerankOrchestrator) rerankWithRetry(ctx context.Context, query string, candidates []domain.RerankCandidate) ([]domain.RerankResult, error) {
	attempts := o.retry.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			delay := o.retry.delay(attempt - 1)
			o.logger.Warn("rerank_rate_limited_retrying",
				slog.Int("attempt", attempt+1),
				slog.Duration("delay", delay))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, o.timeout)
		results, err := o.reranker.Rerank(callCtx, query, candidates)
		cancel()

		if err == nil {
			return results, nil
		}
		lastErr = err
		if !errors.Is(err, domain.ErrRerankRateLimited) {
			return nil, err
		}
	}
	return nil, lastErr
}

// candidateText builds the compact per-candidate text scored by the
// cross-encoder.
func candidateText(r domain.SearchResult) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{r.Title, r.SectionPath, r.Snippet} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// rerankScore sorts candidates the reranker never scored below every
// scored one.
func rerankScore(r domain.SearchResult) float64 {
	if r.RerankScore == nil {
		return math.Inf(-1)
	}
	return *r.RerankScore
}
