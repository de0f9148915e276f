// Package main is the entry point for the recommendation API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/nova-ai/movie-recommender/internal/catalog"
	"github.com/nova-ai/movie-recommender/internal/config"
	"github.com/nova-ai/movie-recommender/internal/conversation"
	"github.com/nova-ai/movie-recommender/internal/embed"
	"github.com/nova-ai/movie-recommender/internal/enrich"
	"github.com/nova-ai/movie-recommender/internal/events"
	"github.com/nova-ai/movie-recommender/internal/handler"
	"github.com/nova-ai/movie-recommender/internal/llm"
	"github.com/nova-ai/movie-recommender/internal/middleware"
	"github.com/nova-ai/movie-recommender/internal/recommender"
	"github.com/nova-ai/movie-recommender/internal/service"
	"github.com/nova-ai/movie-recommender/internal/vecindex"
	"github.com/nova-ai/movie-recommender/pkg/logger"
	"github.com/nova-ai/movie-recommender/pkg/tracing"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	logger.SetGlobal(log)

	log.Info("starting API server")

	// Initialize tracing if enabled
	ctx := context.Background()
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "movie-recommender", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing")
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	// Connect event publisher; nil when no NATS URL is configured
	publisher, err := events.Connect(ctx, events.Config{
		URL:   cfg.NATSURL,
		Token: cfg.NATSToken,
	}, log)
	if err != nil {
		log.Error("failed to connect to NATS", zap.Error(err))
		os.Exit(1)
	}
	defer publisher.Close()

	if err := publisher.EnsureStream(ctx); err != nil {
		log.Error("failed to ensure event stream", zap.Error(err))
		os.Exit(1)
	}

	// Load the movie catalog
	store := catalog.NewStore(cfg.MoviesCSVPath)
	if err := store.Load(); err != nil {
		log.Error("failed to load movie catalog", zap.Error(err))
		os.Exit(1)
	}
	log.Info("catalog loaded", zap.Int("movies", store.Count()))

	// Load the vector index and its ID mapping
	index, mapping, err := vecindex.LoadWithMapping(cfg.IndexPath, cfg.IndexMappingPath)
	if err != nil {
		log.Error("failed to load vector index", zap.Error(err))
		os.Exit(1)
	}
	log.Info("vector index loaded",
		zap.Int("vectors", index.Count()),
		zap.Int("dimension", index.Dim()))

	// Initialize embedding provider
	embedder, err := embed.NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.EmbeddingModel, cfg.EmbeddingDimension)
	if err != nil {
		log.Error("failed to create embedding provider", zap.Error(err))
		os.Exit(1)
	}

	// Initialize LLM client for enrichment; the chatbot degrades to raw
	// keyword extraction when no key is configured.
	var llmClient llm.Client
	if cfg.AnthropicAPIKey != "" {
		llmClient, err = llm.NewAnthropicClient(cfg.AnthropicAPIKey)
		if err != nil {
			log.Warn("failed to create Anthropic client, enrichment disabled")
		}
	} else if cfg.OpenAIAPIKey != "" {
		llmClient, err = llm.NewOpenAIClient(cfg.OpenAIAPIKey)
		if err != nil {
			log.Warn("failed to create OpenAI client, enrichment disabled")
		}
	}

	var moodProvider enrich.MoodProvider
	var movieInfoProvider enrich.MovieInfoProvider
	if llmClient != nil {
		provider := enrich.NewLLMProvider(llmClient, "", log)
		moodProvider = provider
		movieInfoProvider = provider
	}

	// Initialize services
	machine := conversation.NewMachine(moodProvider, movieInfoProvider, log)
	engine, err := recommender.NewEngine(store, embedder, index, mapping, recommender.Options{
		TopK:            cfg.TopK,
		CandidatePoolK:  cfg.CandidatePoolK,
		GenreBoost:      cfg.GenreBoost,
		PopularityBoost: cfg.PopularityBoost,
	}, log)
	if err != nil {
		log.Error("failed to create recommendation engine", zap.Error(err))
		os.Exit(1)
	}
	chatSvc := service.NewChatService(machine, engine, publisher, cfg.RecommendTimeout, log)

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(store, index, publisher)
	chatHandler := handler.NewChatHandler(chatSvc, log)
	recommendationHandler := handler.NewRecommendationHandler(engine, log)

	// Create router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(middleware.SecurityHeaders)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"Link", "X-Correlation-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health endpoints (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	// API routes with authentication
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWTSecret))
		r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))

		r.Route("/chat", func(r chi.Router) {
			r.Post("/message", chatHandler.Message)
			r.Post("/reset", chatHandler.Reset)
		})

		r.Post("/recommendations", recommendationHandler.Recommend)
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      r,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("server listening", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}
