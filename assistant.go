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


// Package casaseek wires the property search assistant: AI gateway,
// query interpretation, two-tier search, ranking, storage and RAG.
package casaseek

import (
	"context"
	"log/slog"

	"github.com/casaseek/casaseek/ai"
	"github.com/casaseek/casaseek/ai/anthropic"
	"github.com/casaseek/casaseek/ai/ollama"
	"github.com/casaseek/casaseek/ai/openai"
	"github.com/casaseek/casaseek/config"
	"github.com/casaseek/casaseek/core"
	"github.com/casaseek/casaseek/currency"
	"github.com/casaseek/casaseek/embed"
	"github.com/casaseek/casaseek/ingestion"
	"github.com/casaseek/casaseek/listing"
	"github.com/casaseek/casaseek/pricing"
	"github.com/casaseek/casaseek/query"
	"github.com/casaseek/casaseek/rag"
	"github.com/casaseek/casaseek/rank"
	"github.com/casaseek/casaseek/search"
	"github.com/casaseek/casaseek/storage"
	badgerstore "github.com/casaseek/casaseek/storage/badger"
	"github.com/casaseek/casaseek/vectorstore"
)

// Assistant is the assembled search assistant.
type Assistant struct {
	backend      *badgerstore.Backend
	repository   storage.ListingRepository
	store        *vectorstore.Store
	gateway      *ai.Gateway
	embedder     *embed.Service
	pipeline     *ingestion.Pipeline
	orchestrator *search.Orchestrator
	retriever    *rag.Retriever
	contexts     *rag.ContextBuilder
	logger       *slog.Logger
}

// AssistantOption configures an Assistant.
type AssistantOption func(*assistantOptions)

type assistantOptions struct {
	sources    []listing.Source
	completers []ai.Completer
}

// WithSources sets the listing sources the orchestrator searches.
// Without sources the assistant serves only seeded/stored data via a
// repository-backed static source.
func WithSources(sources ...listing.Source) AssistantOption {
	return func(o *assistantOptions) {
		o.sources = sources
	}
}

// WithCompleters overrides the gateway backend chain, bypassing the
// configured backends. Used by tests.
func WithCompleters(completers ...ai.Completer) AssistantOption {
	return func(o *assistantOptions) {
		o.completers = completers
	}
}

// NewAssistant assembles the assistant from configuration.
func NewAssistant(cfg config.Config, opts ...AssistantOption) (*Assistant, error) {
	options := &assistantOptions{}
	for _, opt := range opts {
		opt(options)
	}

	gateway, err := buildGateway(cfg, options.completers)
	if err != nil {
		return nil, err
	}

	embedder, err := buildEmbedder(cfg)
	if err != nil {
		return nil, err
	}

	backend, err := badgerstore.OpenBackend(cfg.Storage.ListingsPath, cfg.Storage.InMemory)
	if err != nil {
		return nil, err
	}
	repository := badgerstore.NewListingRepository(backend)

	snapshotPath := cfg.Storage.VectorSnapshotPath
	if cfg.Storage.InMemory {
		snapshotPath = ""
	}
	store, err := vectorstore.NewStore(snapshotPath)
	if err != nil {
		repository.Close()
		backend.Close()
		return nil, err
	}

	pipeline, err := ingestion.NewPipeline(repository, store, embedder)
	if err != nil {
		repository.Close()
		backend.Close()
		return nil, err
	}

	sources := options.sources
	if len(sources) == 0 {
		sources = []listing.Source{newRepositorySource(repository)}
	}

	converter := currency.NewConverter(cfg.Rates())
	prices := pricing.NewBuilder(converter, pricing.WithTolerances(cfg.Tolerances()))

	orchestrator, err := search.NewOrchestrator(
		sources,
		query.NewAIInterpreter(gateway),
		prices,
		rank.NewRanker(gateway),
		search.WithGateway(gateway),
		search.WithPolicy(listing.NewPolicy(cfg.AccessMethods())),
		search.WithIngestor(pipeline),
		search.WithRadii(cfg.Search.StrictRadiusKm, cfg.Search.NearMissRadiusKm),
	)
	if err != nil {
		pipeline.Release()
		repository.Close()
		backend.Close()
		return nil, err
	}

	return &Assistant{
		backend:      backend,
		repository:   repository,
		store:        store,
		gateway:      gateway,
		embedder:     embedder,
		pipeline:     pipeline,
		orchestrator: orchestrator,
		retriever:    rag.NewRetriever(store, embedder),
		contexts:     rag.NewContextBuilder(cfg.Search.RAGTokenBudget),
		logger:       slog.Default(),
	}, nil
}

// Close releases pools and storage.
func (a *Assistant) Close() error {
	a.pipeline.Release()

	if err := a.repository.Close(); err != nil {
		a.logger.Error("error closing listing repository", "err", err)
		return err
	}
	if err := a.backend.Close(); err != nil {
		a.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// Search runs one search and records a conversation turn for RAG.
func (a *Assistant) Search(ctx context.Context, queryText string, userLocation *core.Coordinates) (*core.SearchResult, error) {
	result, err := a.orchestrator.Search(ctx, queryText, userLocation)
	if err != nil {
		return nil, err
	}
	a.pipeline.IngestConversation("user", queryText)
	return result, nil
}

// Results returns the store of recent search results.
func (a *Assistant) Results() *search.ResultStore {
	return a.orchestrator.Results()
}

// Context assembles the budgeted RAG context for a query.
func (a *Assistant) Context(ctx context.Context, queryText string) (string, error) {
	retrieved, err := a.retriever.Retrieve(ctx, queryText)
	if err != nil {
		return "", err
	}
	return a.contexts.Build(retrieved), nil
}

// Gateway exposes the AI failover chain for status and backend pinning.
func (a *Assistant) Gateway() *ai.Gateway {
	return a.gateway
}

// Store exposes the vector store for seeding and stats.
func (a *Assistant) Store() *vectorstore.Store {
	return a.store
}

// Repository exposes the listing repository for seeding.
func (a *Assistant) Repository() storage.ListingRepository {
	return a.repository
}

// Embedder reports the active embedding backend.
func (a *Assistant) Embedder() *embed.Service {
	return a.embedder
}

// Reindex rebuilds the listings collection from the repository, returning
// the number of listings re-embedded.
func (a *Assistant) Reindex(ctx context.Context) (int, error) {
	return a.pipeline.Reindex(ctx)
}

func buildGateway(cfg config.Config, completers []ai.Completer) (*ai.Gateway, error) {
	aiCfg := cfg.AIGatewayConfig()
	if len(completers) > 0 {
		return ai.NewGateway(completers, aiCfg)
	}

	if err := aiCfg.Validate(); err != nil {
		return nil, err
	}

	// Priority order: primary cloud, local, secondary cloud.
	var backends []ai.Completer
	if aiCfg.OpenAI.Enabled {
		c, err := openai.NewCompleter(aiCfg.OpenAI)
		if err != nil {
			return nil, err
		}
		backends = append(backends, c)
	}
	if aiCfg.Ollama.Enabled {
		c, err := ollama.NewCompleter(aiCfg.Ollama)
		if err != nil {
			return nil, err
		}
		backends = append(backends, c)
	}
	if aiCfg.Anthropic.Enabled {
		c, err := anthropic.NewCompleter(aiCfg.Anthropic)
		if err != nil {
			return nil, err
		}
		backends = append(backends, c)
	}
	return ai.NewGateway(backends, aiCfg)
}

func buildEmbedder(cfg config.Config) (*embed.Service, error) {
	if !cfg.AI.EmbeddingsEnabled {
		return embed.NewService(), nil
	}

	remote, err := openai.NewEmbedder(ai.BackendConfig(cfg.AI.OpenAI), cfg.AI.EmbeddingModel)
	if err != nil {
		return nil, err
	}
	return embed.NewService(embed.WithRemote(remote, "openai", cfg.AI.EmbeddingDims)), nil
}

// repositorySource serves previously stored listings, most recent first.
// It backs the assistant when no live sources are configured.
type repositorySource struct {
	repository storage.ListingRepository
}

func newRepositorySource(repository storage.ListingRepository) *repositorySource {
	return &repositorySource{repository: repository}
}

func (s *repositorySource) Name() string { return "repository" }

func (s *repositorySource) Search(ctx context.Context, req listing.Request) ([]core.Listing, error) {
	var matches []core.Listing
	err := s.repository.AllListings(ctx, func(l *core.Listing) error {
		if !req.PriceRange.Contains(l.Price.Amount) {
			return nil
		}
		if req.PropertyType != "" && l.PropertyType != "" && l.PropertyType != req.PropertyType {
			return nil
		}
		matches = append(matches, *l)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return matches, nil
}
