// Copyright 2025 Casaseek Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package embed

import (
	"context"
	"log/slog"

	"github.com/casaseek/casaseek/ai"
)

// Service exposes the active embedding backend to higher layers. The local
// backend is the default; a remote one takes over when configured. Remote
// failures propagate to the caller so a broken network call fails the
// specific indexing or retrieval operation instead of being papered over.
type Service struct {
	embedder ai.Embedder
	backend  string
	dims     int
	logger   *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithRemote routes embedding through a remote backend with the given name
// and vector width.
func WithRemote(embedder ai.Embedder, name string, dims int) Option {
	return func(s *Service) {
		if embedder == nil {
			return
		}
		s.embedder = embedder
		s.backend = name
		s.dims = dims
	}
}

// NewService creates an embedding service backed by the local embedder
// unless a remote one is configured.
func NewService(opts ...Option) *Service {
	s := &Service{
		embedder: NewLocal(),
		backend:  "local",
		dims:     LocalDimensions,
		logger:   slog.Default().With("component", "embedding"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Backend returns the active backend name.
func (s *Service) Backend() string { return s.backend }

// Dimensions returns the vector width of the active backend.
func (s *Service) Dimensions() int { return s.dims }

// Embed generates a vector for one text.
func (s *Service) Embed(ctx context.Context, text string) ([]float32, error) {
	vector, err := s.embedder.EmbedText(ctx, text)
	if err != nil {
		s.logger.Error("embedding failed", "backend", s.backend, "err", err)
		return nil, err
	}
	return vector, nil
}

// EmbedBatch generates vectors for several texts, in input order.
func (s *Service) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors, err := s.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		s.logger.Error("batch embedding failed", "backend", s.backend, "count", len(texts), "err", err)
		return nil, err
	}
	return vectors, nil
}
