package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"

	"github.com/casaseek/casaseek"
	"github.com/casaseek/casaseek/config"
	"github.com/casaseek/casaseek/core"
	"github.com/casaseek/casaseek/rag"
	"github.com/casaseek/casaseek/vectorstore"
	"github.com/google/uuid"
)

// knowledge holds the built-in market notes used when no file is given.
var knowledge = []string{
	"IMT (property transfer tax) in Portugal is progressive and depends on the purchase price, property type and whether it will be a primary residence.",
	"Rural land (terreno rústico) usually cannot be built on without a change of land classification approved by the municipality.",
	"Urban building land (terreno urbano) carries a viability document (PIP) or an existing construction permit in most municipal registries.",
	"A caderneta predial is the tax registry document for a Portuguese property; buyers should check it matches the land registry (certidão permanente).",
	"Typical long-term rental deposits in Portugal are two months of rent, with one month paid in advance.",
	"The energy certificate (certificado energético) is mandatory when selling or renting a property.",
	"T0, T1, T2 notation counts bedrooms: a T2 apartment has two bedrooms.",
	"Stamp duty (imposto do selo) of 0.8% of the purchase price is due on completion, in addition to IMT.",
	"Golden Visa investment through residential property purchase ended in October 2023; commercial and interior-region routes changed as well.",
	"Coastal municipalities in the Algarve apply stricter licensing for short-term rentals (alojamento local) than inland ones.",
}

// fixtures are the built-in listings used when no file is given.
var fixtures = []core.Listing{
	{ID: "seed-1", Site: "fixtures", Title: "Terreno rústico com 5000 m2 perto de Évora", Price: core.Price{Amount: 27500, Currency: "EUR"}, PropertyType: core.PropertyLand, ListingType: core.ListingSale, Location: "Évora", AreaSqm: ptrF(5000)},
	{ID: "seed-2", Site: "fixtures", Title: "Apartamento T2 renovado no centro de Faro", Price: core.Price{Amount: 185000, Currency: "EUR"}, PropertyType: core.PropertyApartment, ListingType: core.ListingSale, Location: "Faro", Beds: ptrI(2), AreaSqm: ptrF(78)},
	{ID: "seed-3", Site: "fixtures", Title: "Moradia V3 com quintal em Beja", Price: core.Price{Amount: 145000, Currency: "EUR"}, PropertyType: core.PropertyHouse, ListingType: core.ListingSale, Location: "Beja", Beds: ptrI(3), AreaSqm: ptrF(140)},
	{ID: "seed-4", Site: "fixtures", Title: "Quarto para arrendar em Lisboa, Arroios", Price: core.Price{Amount: 450, Currency: "EUR"}, PropertyType: core.PropertyRoom, ListingType: core.ListingRent, Location: "Lisboa"},
	{ID: "seed-5", Site: "fixtures", Title: "Loja comercial na baixa do Porto", Price: core.Price{Amount: 320000, Currency: "EUR"}, PropertyType: core.PropertyCommercial, ListingType: core.ListingSale, Location: "Porto", AreaSqm: ptrF(95)},
	{ID: "seed-6", Site: "fixtures", Title: "Terreno urbano com projeto aprovado, Setúbal", Price: core.Price{Amount: 89000, Currency: "EUR"}, PropertyType: core.PropertyLand, ListingType: core.ListingSale, Location: "Setúbal", AreaSqm: ptrF(620)},
}

var (
	configPath    = flag.String("config", "", "path to YAML configuration file")
	listingsFile  = flag.String("listings", "", "JSON file with listing fixtures")
	knowledgeFile = flag.String("knowledge", "", "JSON file with knowledge documents")
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
	flag.Parse()
}

func loadListings(path string) ([]core.Listing, error) {
	if path == "" {
		return fixtures, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var listings []core.Listing
	if err := json.Unmarshal(data, &listings); err != nil {
		return nil, err
	}
	return listings, nil
}

func loadKnowledge(path string) ([]string, error) {
	if path == "" {
		return knowledge, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var docs []string
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func seedKnowledge(ctx context.Context, assistant *casaseek.Assistant, docs []string) error {
	embeddings, err := assistant.Embedder().EmbedBatch(ctx, docs)
	if err != nil {
		return err
	}

	documents := make([]vectorstore.Document, len(docs))
	for i, text := range docs {
		documents[i] = vectorstore.Document{
			ID:        uuid.NewString(),
			Content:   text,
			Metadata:  map[string]string{"source": "seed"},
			Embedding: embeddings[i],
		}
	}
	return assistant.Store().AddDocuments(rag.CollectionKnowledge, documents)
}

func main() {
	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			panic(err)
		}
	}

	assistant, err := casaseek.NewAssistant(cfg)
	if err != nil {
		panic(err)
	}
	defer assistant.Close()

	ctx := context.Background()

	listings, err := loadListings(*listingsFile)
	if err != nil {
		panic(err)
	}
	refs := make([]*core.Listing, len(listings))
	for i := range listings {
		refs[i] = &listings[i]
	}
	if err := assistant.Repository().UpsertListings(ctx, refs...); err != nil {
		panic(err)
	}

	count, err := assistant.Reindex(ctx)
	if err != nil {
		panic(err)
	}
	slog.Info("seeded listings", "count", count)

	docs, err := loadKnowledge(*knowledgeFile)
	if err != nil {
		panic(err)
	}
	if err := seedKnowledge(ctx, assistant, docs); err != nil {
		panic(err)
	}
	slog.Info("seeded knowledge documents", "count", len(docs))
}

func ptrI(v int) *int         { return &v }
func ptrF(v float64) *float64 { return &v }
