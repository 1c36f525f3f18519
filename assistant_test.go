package casaseek

import (
	"context"
	"testing"

	"github.com/casaseek/casaseek/ai/mock"
	"github.com/casaseek/casaseek/config"
	"github.com/casaseek/casaseek/core"
	"github.com/casaseek/casaseek/listing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAssistant(t *testing.T, opts ...AssistantOption) *Assistant {
	t.Helper()

	cfg := config.Default()
	cfg.Storage.InMemory = true
	cfg.Sites = map[string]string{
		"fixtures":  "API",
		"idealista": "BYOC",
	}

	opts = append(opts, WithCompleters(mock.NewMockCompleter("mock", "")))
	assistant, err := NewAssistant(cfg, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { assistant.Close() })
	return assistant
}

func TestAssistantSearch(t *testing.T) {
	source := listing.NewStaticSource("fixtures", []core.Listing{
		{ID: "1", Site: "fixtures", Title: "Terreno em Beja", Price: core.Price{Amount: 25000, Currency: "EUR"}, PropertyType: core.PropertyLand},
		{ID: "2", Site: "fixtures", Title: "Apartamento T2", Price: core.Price{Amount: 150000, Currency: "EUR"}, PropertyType: core.PropertyApartment},
	})
	assistant := newTestAssistant(t, WithSources(source))
	ctx := context.Background()

	result, err := assistant.Search(ctx, "land under 30000", nil)
	require.NoError(t, err)

	assert.Equal(t, core.MatchExact, result.MatchType)
	require.Len(t, result.Listings, 1)
	assert.Equal(t, "Terreno em Beja", result.Listings[0].Title)
	assert.Equal(t, []string{"idealista"}, result.BlockedSites)

	// The result is retained for follow-up picks.
	picked, err := assistant.Results().Pick(result.SearchID, 0)
	require.NoError(t, err)
	assert.Equal(t, result.Listings[0].Title, picked[0].Title)
}

func TestAssistantRepositorySource(t *testing.T) {
	assistant := newTestAssistant(t)
	ctx := context.Background()

	stored := core.Listing{ID: "1", Site: "fixtures", Title: "Moradia em Évora", Price: core.Price{Amount: 95000, Currency: "EUR"}, PropertyType: core.PropertyHouse}
	require.NoError(t, assistant.Repository().UpsertListings(ctx, &stored))

	result, err := assistant.Search(ctx, "house under 100000", nil)
	require.NoError(t, err)
	require.Len(t, result.Listings, 1)
	assert.Equal(t, "Moradia em Évora", result.Listings[0].Title)
}

func TestAssistantReindex(t *testing.T) {
	assistant := newTestAssistant(t)
	ctx := context.Background()

	listings := []*core.Listing{
		{ID: "1", Site: "fixtures", Title: "Casa A", Price: core.Price{Amount: 80000, Currency: "EUR"}},
		{ID: "2", Site: "fixtures", Title: "Casa B", Price: core.Price{Amount: 90000, Currency: "EUR"}},
	}
	require.NoError(t, assistant.Repository().UpsertListings(ctx, listings...))

	count, err := assistant.Reindex(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestAssistantContext(t *testing.T) {
	assistant := newTestAssistant(t)
	ctx := context.Background()

	// Nothing indexed yet: context is empty but the call succeeds.
	text, err := assistant.Context(ctx, "land near Lisbon")
	require.NoError(t, err)
	assert.Empty(t, text)

	assert.Equal(t, "local", assistant.Embedder().Backend())
}
