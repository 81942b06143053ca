package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/meilisearch/meilisearch-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"search-orchestrator/internal/adapter/encoder"
	"search-orchestrator/internal/adapter/pgstore"
	"search-orchestrator/internal/adapter/rerank"
	"search-orchestrator/internal/adapter/search_http"
	"search-orchestrator/internal/adapter/searchdb"
	"search-orchestrator/internal/domain"
	"search-orchestrator/internal/infra"
	"search-orchestrator/internal/infra/config"
	"search-orchestrator/internal/infra/httpclient"
	"search-orchestrator/internal/infra/logger"
	"search-orchestrator/internal/infra/metrics"
	"search-orchestrator/internal/usecase"
	"search-orchestrator/internal/usecase/retrieval"
	"search-orchestrator/internal/usecase/version"
)

func main() {
	// 1. Load Config
	cfg := config.Load()

	// 2. Initialize Logger
	log := logger.New()
	slog.SetDefault(log)

	// 3. Initialize Index Store
	store, cleanup, err := newIndexStore(cfg, log)
	if err != nil {
		log.Error("failed to initialize index store", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	// 4. Initialize Embedder
	embedder := newEmbedder(cfg)

	// 5. Initialize Reranker (optional)
	var reranker domain.Reranker
	if cfg.RerankerURL != "" {
		reranker = rerank.NewClient(
			cfg.RerankerURL,
			cfg.RerankerModel,
			time.Duration(cfg.RerankerTimeout)*time.Second,
			log,
			httpclient.NewPooledClient(time.Duration(cfg.RerankerTimeout)*time.Second),
		)
	} else {
		log.Info("reranker_not_configured")
	}

	// 6. Initialize Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	m := metrics.New(registry)

	// 7. Initialize Usecases
	versionCache, err := version.NewLRUCache(8)
	if err != nil {
		log.Error("failed to initialize version cache", "error", err)
		os.Exit(1)
	}
	resolver := version.NewResolver(store, versionCache, log)
	rerankOrchestrator := retrieval.NewRerankOrchestrator(
		reranker,
		time.Duration(cfg.RerankerTimeout)*time.Second,
		retrieval.DefaultRetryPolicy(),
		log,
	)
	searchUsecase := usecase.NewSearchUsecase(
		store,
		embedder,
		resolver,
		rerankOrchestrator,
		cfg.RetrievalLimit,
		cfg.RRFK,
		m,
		log,
	)

	// 8. Initialize Echo
	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// 9. Register Handlers
	handler := search_http.NewHandler(searchUsecase, resolver, log)
	searchGroup := e.Group("/v1", search_http.RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst))
	searchGroup.POST("/search", handler.Search)
	searchGroup.GET("/search", handler.SearchGet)
	searchGroup.GET("/versions/latest", handler.LatestVersion)

	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	// 10. Health Checks
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/readyz", func(c echo.Context) error {
		if err := store.Ping(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "index store down", "error": err.Error()})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
	})

	// 11. Start Server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		log.Info("starting server", "addr", addr, "backend", cfg.SearchBackend)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			e.Logger.Fatal("shutting down the server")
		}
	}()

	// 12. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		e.Logger.Fatal(err)
	}
}

func newIndexStore(cfg *config.Config, log *slog.Logger) (domain.IndexStore, func(), error) {
	switch cfg.SearchBackend {
	case "postgres":
		dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
			cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)
		pool, err := infra.NewPostgresDB(context.Background(), dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to db: %w", err)
		}
		return pgstore.NewPostgresStore(pool), pool.Close, nil

	case "meilisearch":
		client := meilisearch.New(cfg.MeiliHost, meilisearch.WithAPIKey(cfg.MeiliAPIKey))
		if _, err := client.Health(); err != nil {
			log.Warn("meilisearch_not_ready", "error", err.Error())
		}
		return searchdb.NewMeilisearchStore(client, cfg.MeiliIndex, cfg.MeiliEmbedderName), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown search backend: %s", cfg.SearchBackend)
	}
}

func newEmbedder(cfg *config.Config) domain.Embedder {
	if cfg.EmbeddingProvider == "openai" {
		return encoder.NewOpenAIEncoder(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIEmbeddingModel)
	}
	return encoder.NewOllamaEncoder(cfg.OllamaURL, cfg.EmbeddingModel, httpclient.NewPooledClient(30*time.Second))
}
