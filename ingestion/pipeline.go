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


// Package ingestion persists search results and feeds the vector store.
// Listings returned by a search are written to the repository synchronously
// and embedded into the listings collection in the background; conversation
// turns are likewise embedded into the conversations collection. Indexing
// errors are logged and never fail the search that triggered them.
package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"

	"github.com/casaseek/casaseek/core"
	"github.com/casaseek/casaseek/embed"
	"github.com/casaseek/casaseek/rag"
	"github.com/casaseek/casaseek/storage"
	"github.com/casaseek/casaseek/vectorstore"
	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
)

// Pipeline indexes listings and conversation turns.
type Pipeline struct {
	repository storage.ListingRepository
	store      *vectorstore.Store
	embedder   *embed.Service
	indexPool  *ants.Pool
	logger     *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for background indexing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.indexPool != nil {
			p.indexPool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.indexPool = pool
		return nil
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates an ingestion pipeline.
func NewPipeline(
	repository storage.ListingRepository,
	store *vectorstore.Store,
	embedder *embed.Service,
	opts ...Option,
) (*Pipeline, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if store == nil {
		return nil, ErrStoreRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		repository: repository,
		store:      store,
		embedder:   embedder,
		indexPool:  pool,
		logger:     slog.Default().With("component", "ingestion"),
	}
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}
	return p, nil
}

// IngestListings persists listings and schedules background embedding into
// the listings collection. The persistence error is returned; indexing
// errors are only logged.
func (p *Pipeline) IngestListings(ctx context.Context, listings []core.Listing) error {
	if len(listings) == 0 {
		return nil
	}

	records := make([]*core.Listing, len(listings))
	for i := range listings {
		l := listings[i]
		records[i] = &l
	}
	if err := p.repository.UpsertListings(ctx, records...); err != nil {
		return err
	}

	batch := make([]core.Listing, len(listings))
	copy(batch, listings)
	err := p.indexPool.Submit(func() {
		if err := p.indexListings(context.Background(), batch); err != nil {
			p.logger.Error("error indexing listings", "count", len(batch), "err", err)
		}
	})
	if err != nil {
		p.logger.Error("error scheduling listing indexing", "err", err)
	}
	return nil
}

// IngestConversation schedules a conversation turn for embedding into the
// conversations collection.
func (p *Pipeline) IngestConversation(role, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}

	id := uuid.NewString()
	err := p.indexPool.Submit(func() {
		vector, err := p.embedder.Embed(context.Background(), text)
		if err != nil {
			p.logger.Error("error embedding conversation turn", "err", err)
			return
		}
		doc := vectorstore.Document{
			ID:        id,
			Content:   fmt.Sprintf("%s: %s", role, text),
			Metadata:  map[string]string{"role": role},
			Embedding: vector,
		}
		if err := p.store.AddDocuments(rag.CollectionConversations, []vectorstore.Document{doc}); err != nil {
			p.logger.Error("error storing conversation turn", "err", err)
		}
	})
	if err != nil {
		p.logger.Error("error scheduling conversation indexing", "err", err)
	}
}

// Reindex rebuilds the listings collection from the repository. It runs
// synchronously and is meant for the admin reindex command.
func (p *Pipeline) Reindex(ctx context.Context) (int, error) {
	if err := p.store.ClearCollection(rag.CollectionListings); err != nil {
		return 0, err
	}

	count := 0
	err := p.repository.AllListings(ctx, func(l *core.Listing) error {
		if err := p.indexListings(ctx, []core.Listing{*l}); err != nil {
			return err
		}
		count++
		return nil
	})
	return count, err
}

// indexListings embeds listings and upserts them into the listings
// collection.
func (p *Pipeline) indexListings(ctx context.Context, listings []core.Listing) error {
	texts := make([]string, len(listings))
	for i, l := range listings {
		texts[i] = listingText(l)
	}

	vectors, err := p.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return err
	}

	docs := make([]vectorstore.Document, len(listings))
	for i, l := range listings {
		docs[i] = vectorstore.Document{
			ID:      fmt.Sprintf("%d", l.ContentID()),
			Content: texts[i],
			Metadata: map[string]string{
				"site": l.Site,
				"url":  l.URL,
			},
			Embedding: vectors[i],
		}
	}
	return p.store.AddDocuments(rag.CollectionListings, docs)
}

// listingText renders a listing as the text that gets embedded.
func listingText(l core.Listing) string {
	var b strings.Builder
	b.WriteString(l.Title)
	if l.PropertyType != "" {
		fmt.Fprintf(&b, " %s", l.PropertyType)
	}
	if l.ListingType != core.ListingUnknown {
		fmt.Fprintf(&b, " for %s", l.ListingType)
	}
	if l.Location != "" {
		fmt.Fprintf(&b, " in %s", l.Location)
	}
	if l.Price.Amount > 0 {
		fmt.Fprintf(&b, " %.0f %s", l.Price.Amount, l.Price.Currency)
	}
	if l.Description != "" {
		fmt.Fprintf(&b, " %s", l.Description)
	}
	return b.String()
}

// Release frees the worker pool. The pipeline should not be used afterwards.
func (p *Pipeline) Release() {
	if p.indexPool != nil {
		p.indexPool.Release()
	}
}
