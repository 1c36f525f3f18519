package openai

import (
	"context"
	"errors"
	"log/slog"

	"github.com/casaseek/casaseek/ai"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// Embedder implements ai.Embedder using OpenAI-compatible embedding APIs.
type Embedder struct {
	embedder embeddings.Embedder
	logger   *slog.Logger
}

// NewEmbedder creates a remote embedder from gateway configuration.
// EmbeddingModel falls back to the completion model host; local
// OpenAI-compatible services accept any token.
func NewEmbedder(cfg ai.BackendConfig, embeddingModel string) (*Embedder, error) {
	if embeddingModel == "" {
		return nil, errors.New("openai: embedding model is required")
	}

	opts := []openai.Option{
		openai.WithEmbeddingModel(embeddingModel),
	}
	if cfg.Host != "" {
		opts = append(opts, openai.WithBaseURL(cfg.Host))
	}
	token := cfg.APIKey
	if token == "" {
		token = "none"
	}
	opts = append(opts, openai.WithToken(token))

	client, err := openai.New(opts...)
	if err != nil {
		return nil, err
	}

	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, err
	}

	return &Embedder{
		embedder: embedder,
		logger:   slog.Default().With("component", "openai-embedder"),
	}, nil
}

// EmbedText generates a vector embedding for a single text string.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.embedder.EmbedDocuments(ctx, []string{text})
	if err != nil {
		e.logger.Error("failed to generate embedding", "err", err)
		return nil, err
	}
	if len(vectors) == 0 {
		e.logger.Warn("embedder returned empty result")
		return []float32{}, nil
	}
	return vectors[0], nil
}

// EmbedTexts generates vector embeddings for multiple text strings in a batch.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	vectors, err := e.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		e.logger.Error("failed to generate embeddings", "count", len(texts), "err", err)
		return nil, err
	}
	return vectors, nil
}
