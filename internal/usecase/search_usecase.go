package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"search-orchestrator/internal/domain"
	"search-orchestrator/internal/infra/metrics"
	"search-orchestrator/internal/usecase/retrieval"
	"search-orchestrator/internal/usecase/version"
)

// MaxLimit caps the number of results a caller may request.
const MaxLimit = 50

// SearchInput carries a validated-on-entry query request. Zero values for
// Mode and Version select the documented defaults. Limit is nil when the
// caller omitted it; an explicit zero or negative limit is rejected.
type SearchInput struct {
	Query       string
	Mode        domain.SearchMode
	Limit       *int
	SectionPath string
	Source      string
	Version     string
	Rerank      bool
}

// SearchOutput is the response envelope assembled for the caller.
type SearchOutput struct {
	Query            string
	Mode             domain.SearchMode
	Limit            int
	Filters          domain.FilterPredicate
	ResolvedVersion  *domain.ResolvedVersion
	AppliedPredicate string
	Timings          domain.StageTimings
	RerankApplied    bool
	Warnings         []string
	Results          []domain.SearchResult
}

// SearchUsecase is the top-level query orchestrator: validate, resolve
// version, retrieve, fuse, rerank, diversify, assemble.
type SearchUsecase interface {
	Execute(ctx context.Context, input SearchInput) (*SearchOutput, error)
}

type searchUsecase struct {
	store          domain.IndexStore
	embedder       domain.Embedder
	resolver       *version.Resolver
	reranker       *retrieval.RerankOrchestrator
	retrievalLimit int
	rrfK           float64
	metrics        *metrics.Metrics
	logger         *slog.Logger
}

// NewSearchUsecase wires the orchestrator. retrievalLimit bounds the
// per-source fan-in before fusion; rrfK is the RRF smoothing constant.
func NewSearchUsecase(
	store domain.IndexStore,
	embedder domain.Embedder,
	resolver *version.Resolver,
	reranker *retrieval.RerankOrchestrator,
	retrievalLimit int,
	rrfK float64,
	m *metrics.Metrics,
	logger *slog.Logger,
) SearchUsecase {
	if retrievalLimit <= 0 {
		retrievalLimit = retrieval.DefaultRetrievalLimit
	}
	if rrfK <= 0 {
		rrfK = retrieval.DefaultRRFK
	}
	return &searchUsecase{
		store:          store,
		embedder:       embedder,
		resolver:       resolver,
		reranker:       reranker,
		retrievalLimit: retrievalLimit,
		rrfK:           rrfK,
		metrics:        m,
		logger:         logger,
	}
}

func (u *searchUsecase) Execute(ctx context.Context, input SearchInput) (*SearchOutput, error) {
	started := time.Now()

	input, err := validate(input)
	if err != nil {
		u.countRequest(input.Mode, "invalid")
		return nil, err
	}

	searchID := uuid.New().String()
	u.logger.Info("hybrid_search_started",
		slog.String("search_id", searchID),
		slog.String("query", input.Query),
		slog.String("mode", string(input.Mode)),
		slog.Int("limit", *input.Limit))

	var warnings []string

	// Resolve the version selector into a filter predicate.
	resolution, err := u.resolver.Resolve(ctx, input.Version)
	if err != nil {
		u.countRequest(input.Mode, "invalid")
		return nil, err
	}
	if resolution.Warning != "" {
		warnings = append(warnings, resolution.Warning)
	}

	predicate := domain.FilterPredicate{
		SectionPath:  input.SectionPath,
		Source:       input.Source,
		DocsVersions: resolution.DocsVersions,
	}

	timings := domain.StageTimings{}

	results, rerankApplied, rerankWarnings, err := u.retrieve(ctx, searchID, input, predicate, &timings)
	if err != nil {
		u.countRequest(input.Mode, "upstream_error")
		return nil, err
	}
	warnings = append(warnings, rerankWarnings...)

	// Final diversification guarantees no duplicate URL in the response
	// even after reranking reordered across deduplicated groups.
	results = retrieval.Diversify(results, *input.Limit)

	timings.Total = time.Since(started).Milliseconds()
	u.metrics.ObserveStage("total", time.Since(started).Seconds())
	u.countRequest(input.Mode, "ok")

	u.logger.Info("hybrid_search_completed",
		slog.String("search_id", searchID),
		slog.Int("result_count", len(results)),
		slog.Bool("rerank_applied", rerankApplied),
		slog.Int64("total_ms", timings.Total))

	return &SearchOutput{
		Query:            input.Query,
		Mode:             input.Mode,
		Limit:            *input.Limit,
		Filters:          predicate,
		ResolvedVersion:  resolution.Resolved,
		AppliedPredicate: predicate.String(),
		Timings:          timings,
		RerankApplied:    rerankApplied,
		Warnings:         ensureWarnings(warnings),
		Results:          results,
	}, nil
}

// retrieve fans out to the retrieval paths the mode calls for and, in
// hybrid mode, fuses and reranks.
func (u *searchUsecase) retrieve(
	ctx context.Context,
	searchID string,
	input SearchInput,
	predicate domain.FilterPredicate,
	timings *domain.StageTimings,
) ([]domain.SearchResult, bool, []string, error) {
	keywordRetriever := retrieval.KeywordRetriever{Store: u.store}
	vectorRetriever := retrieval.VectorRetriever{Store: u.store}

	switch input.Mode {
	case domain.ModeKeyword:
		list, elapsed, err := timed(func() ([]domain.SearchResult, error) {
			return keywordRetriever.Retrieve(ctx, input.Query, predicate, u.retrievalLimit)
		})
		if err != nil {
			return nil, false, nil, &domain.UpstreamError{Service: "index store", Err: err}
		}
		timings.Keyword = &elapsed
		u.metrics.ObserveStage("keyword", float64(elapsed)/1000)
		list = retrieval.Diversify(list, u.retrievalLimit)
		retrieval.AnnotateKeywordRanks(list)
		return list, false, nil, nil

	case domain.ModeSemantic:
		embedding, err := u.embedder.Embed(ctx, input.Query)
		if err != nil {
			return nil, false, nil, &domain.UpstreamError{Service: "embedder", Err: err}
		}
		list, elapsed, err := timed(func() ([]domain.SearchResult, error) {
			return vectorRetriever.Retrieve(ctx, embedding, predicate, u.retrievalLimit)
		})
		if err != nil {
			return nil, false, nil, &domain.UpstreamError{Service: "index store", Err: err}
		}
		timings.Vector = &elapsed
		u.metrics.ObserveStage("vector", float64(elapsed)/1000)
		list = retrieval.Diversify(list, u.retrievalLimit)
		retrieval.AnnotateVectorRanks(list)
		return list, false, nil, nil

	default: // hybrid
		embedding, err := u.embedder.Embed(ctx, input.Query)
		if err != nil {
			return nil, false, nil, &domain.UpstreamError{Service: "embedder", Err: err}
		}

		var keywordList, vectorList []domain.SearchResult
		var keywordMs, vectorMs int64

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			list, elapsed, err := timed(func() ([]domain.SearchResult, error) {
				return keywordRetriever.Retrieve(gctx, input.Query, predicate, u.retrievalLimit)
			})
			if err != nil {
				return err
			}
			keywordList, keywordMs = list, elapsed
			return nil
		})
		g.Go(func() error {
			list, elapsed, err := timed(func() ([]domain.SearchResult, error) {
				return vectorRetriever.Retrieve(gctx, embedding, predicate, u.retrievalLimit)
			})
			if err != nil {
				return err
			}
			vectorList, vectorMs = list, elapsed
			return nil
		})
		if err := g.Wait(); err != nil {
			return nil, false, nil, &domain.UpstreamError{Service: "index store", Err: err}
		}
		timings.Keyword = &keywordMs
		timings.Vector = &vectorMs
		u.metrics.ObserveStage("keyword", float64(keywordMs)/1000)
		u.metrics.ObserveStage("vector", float64(vectorMs)/1000)

		rrfStart := time.Now()
		keywordList = retrieval.Diversify(keywordList, u.retrievalLimit)
		vectorList = retrieval.Diversify(vectorList, u.retrievalLimit)
		fused := retrieval.Fuse(keywordList, vectorList, u.rrfK, -1)
		rrfMs := time.Since(rrfStart).Milliseconds()
		timings.RRF = &rrfMs
		u.metrics.ObserveStage("rrf", time.Since(rrfStart).Seconds())

		u.logger.Info("rrf_fusion_completed",
			slog.String("search_id", searchID),
			slog.Int("keyword_count", len(keywordList)),
			slog.Int("vector_count", len(vectorList)),
			slog.Int("fused_count", len(fused)))

		rerankStart := time.Now()
		results, applied, rerankWarnings := u.reranker.MaybeRerank(ctx, input.Query, fused, input.Rerank)
		if applied {
			rerankMs := time.Since(rerankStart).Milliseconds()
			timings.Rerank = &rerankMs
			u.metrics.ObserveStage("rerank", time.Since(rerankStart).Seconds())
		}
		u.countRerankOutcome(applied, rerankWarnings)

		return results, applied, rerankWarnings, nil
	}
}

func (u *searchUsecase) countRequest(mode domain.SearchMode, status string) {
	if u.metrics == nil {
		return
	}
	// Caller-supplied garbage must not mint new label values.
	label := string(mode)
	switch {
	case mode == "":
		label = string(domain.ModeHybrid)
	case !mode.Valid():
		label = "invalid"
	}
	u.metrics.Requests.WithLabelValues(label, status).Inc()
}

func (u *searchUsecase) countRerankOutcome(applied bool, warnings []string) {
	if u.metrics == nil {
		return
	}
	outcome := "applied"
	if !applied {
		outcome = "skipped"
		for _, w := range warnings {
			if strings.HasPrefix(w, "rerank_failed") {
				outcome = "failed"
			}
		}
	}
	u.metrics.RerankOutcomes.WithLabelValues(outcome).Inc()
}

// validate applies defaults and rejects malformed input.
func validate(input SearchInput) (SearchInput, error) {
	if strings.TrimSpace(input.Query) == "" {
		return input, domain.ErrInvalidQuery
	}
	if input.Mode == "" {
		input.Mode = domain.ModeHybrid
	}
	if !input.Mode.Valid() {
		return input, fmt.Errorf("%w: %q", domain.ErrInvalidMode, input.Mode)
	}
	if input.Limit == nil {
		limit := 10
		input.Limit = &limit
	}
	if *input.Limit < 1 || *input.Limit > MaxLimit {
		return input, fmt.Errorf("%w: %d", domain.ErrInvalidLimit, *input.Limit)
	}
	if input.Version == "" {
		input.Version = domain.VersionLatest
	}
	return input, nil
}

func timed(fn func() ([]domain.SearchResult, error)) ([]domain.SearchResult, int64, error) {
	start := time.Now()
	results, err := fn()
	return results, time.Since(start).Milliseconds(), err
}

// ensureWarnings keeps the warnings array present (possibly empty) in the
// response, as it is the only channel for degraded-but-successful outcomes.
func ensureWarnings(warnings []string) []string {
	if warnings == nil {
		return []string{}
	}
	return warnings
}
