// Package embed provides the text embedding provider used for both index
// builds and query-time embedding.
package embed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/nova-ai/movie-recommender/pkg/metrics"
)

// ErrInvalidInput indicates an empty or otherwise unembeddable input.
var ErrInvalidInput = errors.New("text must be a non-empty string")

// Provider generates fixed-dimension embedding vectors for text. Vectors
// must be L2-normalizable floats of the provider's declared dimension.
type Provider interface {
	// EmbedOne embeds a single string.
	EmbedOne(ctx context.Context, text string) ([]float32, error)

	// EmbedMany embeds a batch of strings, one vector per input in order.
	EmbedMany(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension returns the width of returned vectors.
	Dimension() int
}

// OpenAIProvider embeds text through the OpenAI embeddings API.
type OpenAIProvider struct {
	client *openai.Client
	model  string
	dim    int
}

// NewOpenAIProvider creates an embedding provider for the given model.
func NewOpenAIProvider(apiKey, model string, dim int) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}
	return &OpenAIProvider{
		client: openai.NewClient(apiKey),
		model:  model,
		dim:    dim,
	}, nil
}

// Dimension returns the embedding width.
func (p *OpenAIProvider) Dimension() int {
	return p.dim
}

// EmbedOne embeds a single string.
func (p *OpenAIProvider) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrInvalidInput
	}
	vectors, err := p.embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedMany embeds a batch of strings.
func (p *OpenAIProvider) EmbedMany(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, ErrInvalidInput
	}
	for _, t := range texts {
		if t == "" {
			return nil, ErrInvalidInput
		}
	}
	return p.embed(ctx, texts)
}

func (p *OpenAIProvider) embed(ctx context.Context, texts []string) ([][]float32, error) {
	start := time.Now()

	resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: openai.EmbeddingModel(p.model),
	})
	if err != nil {
		metrics.EmbeddingDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	metrics.EmbeddingDuration.WithLabelValues("success").Observe(time.Since(start).Seconds())

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embedding response has %d vectors for %d inputs",
			len(resp.Data), len(texts))
	}

	vectors := make([][]float32, len(resp.Data))
	for i, d := range resp.Data {
		if len(d.Embedding) != p.dim {
			return nil, fmt.Errorf("embedding has width %d, expected %d",
				len(d.Embedding), p.dim)
		}
		vectors[i] = d.Embedding
	}
	return vectors, nil
}
