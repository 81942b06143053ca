package version

import (
	"context"
	"fmt"
	"log/slog"

	"search-orchestrator/internal/domain"
)

// facetField is the numeric facet carrying the corpus version tag.
const facetField = "docs_version"

// Resolution is the outcome of resolving a version selector: the version
// scores to filter on (nil means unscoped), the descriptor echoed to the
// caller, and an optional degradation warning.
type Resolution struct {
	DocsVersions []int64
	Resolved     *domain.ResolvedVersion
	Warning      string
}

// Resolver turns a logical version selector (latest / all / exact) into a
// concrete filter against the index store. The discovered latest value is
// cached for the process lifetime.
type Resolver struct {
	store  domain.IndexStore
	cache  Cache
	logger *slog.Logger
}

func NewResolver(store domain.IndexStore, cache Cache, logger *slog.Logger) *Resolver {
	return &Resolver{store: store, cache: cache, logger: logger}
}

// Resolve maps the selector to version scores. Selector errors surface as
// domain.ErrInvalidVersion; a failure to reach the index store during
// latest-version discovery is non-fatal and yields an unscoped resolution
// with a warning, so the request can proceed unfiltered.
func (r *Resolver) Resolve(ctx context.Context, selector string) (Resolution, error) {
	switch selector {
	case domain.VersionAll:
		return Resolution{Resolved: &domain.ResolvedVersion{Mode: "all"}}, nil

	case domain.VersionLatest:
		latest, err := r.cache.GetOrCompute(ctx, facetField, func(ctx context.Context) (Latest, error) {
			score, found, err := r.store.FacetMax(ctx, facetField)
			if err != nil {
				return Latest{}, fmt.Errorf("latest version discovery failed: %w", err)
			}
			r.logger.Info("latest_version_resolved",
				slog.Int64("score", score),
				slog.Bool("found", found))
			return Latest{Score: score, Found: found}, nil
		})
		if err != nil {
			r.logger.Warn("version_resolution_degraded", slog.String("error", err.Error()))
			return Resolution{Warning: fmt.Sprintf("version_resolution_failed: %v", err)}, nil
		}
		if !latest.Found {
			// No versioned documents: scope to unversioned only.
			return Resolution{
				DocsVersions: []int64{0},
				Resolved:     &domain.ResolvedVersion{Mode: "latest"},
			}, nil
		}
		score := latest.Score
		return Resolution{
			DocsVersions: []int64{latest.Score, 0},
			Resolved:     &domain.ResolvedVersion{Mode: "latest", Score: &score},
		}, nil

	default:
		score, err := domain.ParseVersionScore(selector)
		if err != nil {
			return Resolution{}, err
		}
		return Resolution{
			DocsVersions: []int64{score},
			Resolved:     &domain.ResolvedVersion{Mode: "exact", Score: &score},
		}, nil
	}
}
