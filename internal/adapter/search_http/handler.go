package search_http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"search-orchestrator/internal/domain"
	"search-orchestrator/internal/usecase"
	"search-orchestrator/internal/usecase/version"
)

// Handler exposes the query operation over HTTP.
type Handler struct {
	searchUsecase usecase.SearchUsecase
	resolver      *version.Resolver
	logger        *slog.Logger
}

func NewHandler(searchUsecase usecase.SearchUsecase, resolver *version.Resolver, logger *slog.Logger) *Handler {
	return &Handler{
		searchUsecase: searchUsecase,
		resolver:      resolver,
		logger:        logger,
	}
}

// Search answers a query.
// (POST /v1/search)
func (h *Handler) Search(ctx echo.Context) error {
	var req SearchRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}

	input := usecase.SearchInput{
		Query:  req.Query,
		Rerank: true,
	}
	if req.Mode != nil {
		input.Mode = domain.SearchMode(*req.Mode)
	}
	input.Limit = req.Limit
	if req.SectionPath != nil {
		input.SectionPath = *req.SectionPath
	}
	if req.Source != nil {
		input.Source = *req.Source
	}
	if req.Version != nil {
		input.Version = *req.Version
	}
	if req.Rerank != nil {
		input.Rerank = *req.Rerank
	}

	return h.execute(ctx, input)
}

// SearchGet answers a query passed as URL parameters.
// (GET /v1/search)
func (h *Handler) SearchGet(ctx echo.Context) error {
	input := usecase.SearchInput{
		Query:       ctx.QueryParam("q"),
		Mode:        domain.SearchMode(ctx.QueryParam("mode")),
		SectionPath: ctx.QueryParam("section_path"),
		Source:      ctx.QueryParam("source"),
		Version:     ctx.QueryParam("version"),
		Rerank:      true,
	}
	if input.Query == "" {
		input.Query = ctx.QueryParam("query")
	}

	if raw := ctx.QueryParam("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: domain.ErrInvalidLimit.Error()})
		}
		input.Limit = &limit
	}
	if raw := ctx.QueryParam("rerank"); raw != "" {
		rerank, err := strconv.ParseBool(raw)
		if err != nil {
			return ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid parameter: rerank must be a boolean"})
		}
		input.Rerank = rerank
	}

	return h.execute(ctx, input)
}

// LatestVersion reports the resolved latest corpus version.
// (GET /v1/versions/latest)
func (h *Handler) LatestVersion(ctx echo.Context) error {
	resolution, err := h.resolver.Resolve(ctx.Request().Context(), domain.VersionLatest)
	if err != nil {
		return h.errorResponse(ctx, err)
	}
	if resolution.Warning != "" {
		return ctx.JSON(http.StatusBadGateway, ErrorResponse{Error: resolution.Warning})
	}
	return ctx.JSON(http.StatusOK, ResolvedVersionDTO{
		Mode:  resolution.Resolved.Mode,
		Score: resolution.Resolved.Score,
	})
}

func (h *Handler) execute(ctx echo.Context, input usecase.SearchInput) error {
	out, err := h.searchUsecase.Execute(ctx.Request().Context(), input)
	if err != nil {
		return h.errorResponse(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toResponse(out))
}

func (h *Handler) errorResponse(ctx echo.Context, err error) error {
	switch {
	case domain.IsValidation(err):
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case isUpstream(err):
		h.logger.Error("upstream_failure", slog.String("error", err.Error()))
		return ctx.JSON(http.StatusBadGateway, ErrorResponse{Error: err.Error()})
	default:
		h.logger.Error("unexpected_failure", slog.String("error", err.Error()))
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}

func isUpstream(err error) bool {
	var upstream *domain.UpstreamError
	return errors.As(err, &upstream)
}
