// cmd/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"study-material-platform/internal/ai"
	"study-material-platform/internal/chunk"
	"study-material-platform/internal/config"
	"study-material-platform/internal/generate"
	"study-material-platform/internal/ingest"
	"study-material-platform/internal/logger"
	"study-material-platform/internal/qa"
	"study-material-platform/internal/quiz"
	"study-material-platform/internal/retrieval"
	"study-material-platform/internal/sessionstore"
	"study-material-platform/internal/telemetry"
	"study-material-platform/internal/vectorstore"
	"study-material-platform/middleware"
	"study-material-platform/routes"
	"study-material-platform/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.InitLogger(cfg)
	logger.Info("application starting", "gin_mode", cfg.GinMode, "port", cfg.Port)

	shutdownTracer, err := telemetry.InitTracer("study-material-platform")
	if err != nil {
		logger.Warn("failed to initialize tracing", "error", err)
	} else {
		defer shutdownTracer()
	}

	metrics, err := telemetry.InitMetrics()
	if err != nil {
		logger.Warn("failed to initialize metrics", "error", err)
		metrics = nil
	}

	embedder, completer, closeProvider := buildProvider(cfg, metrics)
	defer closeProvider()

	store, err := buildVectorStore(cfg)
	if err != nil {
		log.Fatal("Failed to initialize vector store:", err)
	}

	sessions, err := buildSessionStore(cfg)
	if err != nil {
		log.Fatal("Failed to initialize session store:", err)
	}

	ingestSvc := ingest.NewService(embedder, store, chunk.Config{
		TargetSize: cfg.ChunkSize,
		Overlap:    cfg.ChunkOverlap,
		MinChars:   cfg.MinChunkChars,
	}, cfg.MaxPagesTotal, metrics)

	retrievalSvc := retrieval.NewService(embedder, store, retrieval.Config{
		MaxContextTokens: cfg.MaxContextTokens,
		ResponseReserve:  cfg.ResponseReserve,
	})

	qaSvc := qa.NewService(retrievalSvc, completer, cfg.SimilarityFallbackThreshold)
	generateSvc := generate.NewService(retrievalSvc, completer)
	quizEngine := quiz.NewEngine(generateSvc, sessions, quiz.Config{
		Alpha:        cfg.QLAlpha,
		Gamma:        cfg.QLGamma,
		Epsilon:      cfg.QLEpsilon,
		BlendWeightQ: cfg.BlendWeightQ,
	})

	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error("panic recovered", "error", recovered, "path", c.Request.URL.Path)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "an unexpected error occurred"})
		c.Abort()
	}))
	router.MaxMultipartMemory = cfg.MaxFileSize

	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.RequestSizeLimit(cfg.MaxFileSize))
	router.Use(middleware.CORSMiddleware(cfg.CORSOrigins))
	if metrics != nil {
		router.Use(middleware.MetricsMiddleware(metrics))
	}

	routes.SetupHealthRoutes(router)
	routes.SetupDocumentRoutes(router, ingestSvc)
	routes.SetupChatRoutes(router, qaSvc)
	routes.SetupStudyRoutes(router, generateSvc)
	routes.SetupCompetitiveRoutes(router, quizEngine)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctx, cancel := utils.WithLongTimeout(context.Background())
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}
	logger.Info("server exited")
}

// buildProvider wires either the real Gemini-backed embedder/completer or
// the deterministic fake used for local development and tests, based on
// EMBEDDINGS_PROVIDER and COMPLETION_PROVIDER: the fake is used only when
// neither is "google". A close func is always returned, a no-op for the
// fake provider.
func buildProvider(cfg *config.Config, metrics *telemetry.Metrics) (ai.Embedder, ai.Completer, func()) {
	if cfg.EmbeddingsProvider != "google" && cfg.CompletionProvider != "google" {
		fake := ai.NewFakeProvider(cfg.EmbeddingDim)
		return fake, fake, func() {}
	}

	timeout := time.Duration(cfg.UpstreamTimeoutMS) * time.Millisecond
	gemini, err := ai.NewGeminiProvider(context.Background(), cfg.GeminiAPIKey, cfg.GeminiEmbedModel,
		cfg.GeminiChatModel, cfg.ProviderTier, cfg.EmbeddingDim, timeout, metrics)
	if err != nil {
		log.Fatal("Failed to initialize Gemini provider:", err)
	}
	return gemini, gemini, func() { gemini.Close() }
}

func buildVectorStore(cfg *config.Config) (vectorstore.Store, error) {
	if cfg.VectorStoreKind == "qdrant" {
		return vectorstore.NewQdrantStore(cfg.QdrantURL, cfg.EmbeddingDim)
	}
	return vectorstore.NewMemoryStore(), nil
}

func buildSessionStore(cfg *config.Config) (sessionstore.Store, error) {
	if cfg.SessionStoreKind == "redis" {
		client, err := config.NewRedisClient(cfg)
		if err != nil {
			return nil, err
		}
		return sessionstore.NewRedisStore(client), nil
	}
	return sessionstore.NewMemoryStore(), nil
}
