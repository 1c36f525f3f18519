package listing

import (
	"context"
	"testing"

	"github.com/casaseek/casaseek/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func TestStaticSourceSearch(t *testing.T) {
	ctx := context.Background()
	source := NewStaticSource("fixtures", []core.Listing{
		{ID: "cheap", Site: "fixtures", Title: "Terreno", Price: core.Price{Amount: 25000, Currency: "EUR"}, PropertyType: core.PropertyLand},
		{ID: "mid", Site: "fixtures", Title: "Apartamento", Price: core.Price{Amount: 150000, Currency: "EUR"}, PropertyType: core.PropertyApartment},
		{ID: "dear", Site: "fixtures", Title: "Moradia", Price: core.Price{Amount: 450000, Currency: "EUR"}, PropertyType: core.PropertyHouse},
	})

	t.Run("filters by price range", func(t *testing.T) {
		results, err := source.Search(ctx, Request{
			PriceRange: core.PriceRange{Max: floatPtr(30000), Currency: "EUR"},
		})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "cheap", results[0].ID)
	})

	t.Run("filters by property type", func(t *testing.T) {
		results, err := source.Search(ctx, Request{
			PriceRange:   core.PriceRange{Currency: "EUR"},
			PropertyType: core.PropertyApartment,
		})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "mid", results[0].ID)
	})

	t.Run("open range returns everything", func(t *testing.T) {
		results, err := source.Search(ctx, Request{PriceRange: core.PriceRange{Currency: "EUR"}})
		require.NoError(t, err)
		assert.Len(t, results, 3)
	})

	t.Run("cancelled context aborts", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := source.Search(cancelled, Request{})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestPolicy(t *testing.T) {
	policy := NewPolicy(map[string]AccessMethod{
		"idealista":    AccessBYOC,
		"imovirtual":   AccessSitemap,
		"casa-sapo":    AccessPublicHTML,
		"olx":          AccessNone,
		"customsearch": AccessAPI,
	})

	t.Run("method lookup", func(t *testing.T) {
		m, ok := policy.Method("imovirtual")
		assert.True(t, ok)
		assert.Equal(t, AccessSitemap, m)

		_, ok = policy.Method("unknown")
		assert.False(t, ok)
	})

	t.Run("blocked sites sorted", func(t *testing.T) {
		assert.Equal(t, []string{"idealista", "olx"}, policy.Blocked())
	})
}
