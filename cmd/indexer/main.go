// Package main builds the vector index artifacts from the movie dataset.
// It embeds every movie's embedding text, builds the index, and writes the
// paired index and ID-mapping files the API server loads at startup.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/nova-ai/movie-recommender/internal/catalog"
	"github.com/nova-ai/movie-recommender/internal/config"
	"github.com/nova-ai/movie-recommender/internal/embed"
	"github.com/nova-ai/movie-recommender/internal/vecindex"
	"github.com/nova-ai/movie-recommender/pkg/logger"
)

// embedBatchSize keeps each embeddings request comfortably under the API's
// input limits.
const embedBatchSize = 100

func main() {
	cfg := config.Load()

	csvPath := flag.String("csv", cfg.MoviesCSVPath, "path to the movie dataset CSV")
	indexPath := flag.String("index", cfg.IndexPath, "output path for the index file")
	mappingPath := flag.String("mapping", cfg.IndexMappingPath, "output path for the ID mapping file")
	flag.Parse()

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	logger.SetGlobal(log)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, *csvPath, *indexPath, *mappingPath, log); err != nil {
		log.Error("index build failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, csvPath, indexPath, mappingPath string, log *logger.Logger) error {
	start := time.Now()

	store := catalog.NewStore(csvPath)
	if err := store.Load(); err != nil {
		return fmt.Errorf("failed to load movie dataset: %w", err)
	}
	movies, err := store.All()
	if err != nil {
		return err
	}
	log.Info("dataset loaded", zap.Int("movies", len(movies)))

	embedder, err := embed.NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.EmbeddingModel, cfg.EmbeddingDimension)
	if err != nil {
		return err
	}

	vectors := make([][]float32, 0, len(movies))
	movieIDs := make([]int64, 0, len(movies))
	for lo := 0; lo < len(movies); lo += embedBatchSize {
		hi := lo + embedBatchSize
		if hi > len(movies) {
			hi = len(movies)
		}

		texts := make([]string, 0, hi-lo)
		for _, m := range movies[lo:hi] {
			texts = append(texts, m.EmbeddingText)
		}

		batch, err := embedder.EmbedMany(ctx, texts)
		if err != nil {
			return fmt.Errorf("failed to embed batch starting at row %d: %w", lo, err)
		}

		vectors = append(vectors, batch...)
		for _, m := range movies[lo:hi] {
			movieIDs = append(movieIDs, m.ID)
		}
		log.Info("embedded batch", zap.Int("done", hi), zap.Int("total", len(movies)))
	}

	index := vecindex.New(cfg.EmbeddingDimension)
	if err := index.Build(vectors); err != nil {
		return fmt.Errorf("failed to build index: %w", err)
	}

	if err := index.Save(indexPath); err != nil {
		return fmt.Errorf("failed to save index: %w", err)
	}
	if err := vecindex.SaveMapping(mappingPath, movieIDs); err != nil {
		return fmt.Errorf("failed to save mapping: %w", err)
	}

	log.Info("index build complete",
		zap.Int("vectors", index.Count()),
		zap.Int("dimension", index.Dim()),
		zap.String("index", indexPath),
		zap.String("mapping", mappingPath),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}
