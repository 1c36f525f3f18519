package rank

import (
	"testing"

	"github.com/casaseek/casaseek/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVerdicts(t *testing.T) {
	t.Run("plain array", func(t *testing.T) {
		verdicts, err := parseVerdicts(`[{"id":"s/a","relevant":true,"score":80,"reasoning":"good fit"}]`)
		require.NoError(t, err)
		require.Len(t, verdicts, 1)
		assert.Equal(t, "s/a", idText(verdicts[0].ID))
	})

	t.Run("fenced array", func(t *testing.T) {
		verdicts, err := parseVerdicts("```json\n[{\"id\":\"s/a\",\"score\":70}]\n```")
		require.NoError(t, err)
		assert.Len(t, verdicts, 1)
	})

	t.Run("array surrounded by prose", func(t *testing.T) {
		verdicts, err := parseVerdicts(`Here are the rankings: [{"id":"s/a","score":70}] hope this helps!`)
		require.NoError(t, err)
		assert.Len(t, verdicts, 1)
	})

	t.Run("no array", func(t *testing.T) {
		_, err := parseVerdicts("I could not rank these listings.")
		assert.ErrorIs(t, err, ErrMalformedResponse)
	})

	t.Run("broken json", func(t *testing.T) {
		_, err := parseVerdicts(`[{"id":"s/a","score":}]`)
		assert.ErrorIs(t, err, ErrMalformedResponse)
	})
}

func TestMapVerdicts(t *testing.T) {
	listings := []core.Listing{
		{ID: "a", Site: "s", Title: "A"},
		{ID: "b", Site: "s", Title: "B"},
		{ID: "c", Site: "s", Title: "C"},
	}

	t.Run("aliases accepted", func(t *testing.T) {
		relevant := false
		verdicts := []rawVerdict{
			{ID: "s/a", IsRelevant: &relevant, RelevanceScore: intPtr(20), Reason: "wrong type"},
		}
		results := mapVerdicts(listings[:1], verdicts)
		require.Len(t, results, 1)
		assert.False(t, results[0].Relevant)
		assert.Equal(t, 20, results[0].Score)
		assert.Equal(t, "wrong type", results[0].Reasoning)
	})

	t.Run("missing listings get safe default", func(t *testing.T) {
		verdicts := []rawVerdict{
			{ID: "s/a", Score: intPtr(90), Reasoning: "great"},
		}
		results := mapVerdicts(listings, verdicts)
		require.Len(t, results, 3)

		assert.Equal(t, 90, results[0].Score)
		for _, res := range results[1:] {
			assert.True(t, res.Relevant)
			assert.Equal(t, defaultScore, res.Score)
			assert.Equal(t, defaultReasoning, res.Reasoning)
		}
	})

	t.Run("bare source id tolerated while unambiguous", func(t *testing.T) {
		verdicts := []rawVerdict{{ID: "a", Score: intPtr(75)}}
		results := mapVerdicts(listings[:1], verdicts)
		assert.Equal(t, 75, results[0].Score)
	})

	t.Run("numeric ids tolerated", func(t *testing.T) {
		numbered := []core.Listing{{ID: "1", Site: "s", Title: "One"}}
		verdicts := []rawVerdict{{ID: float64(1), Score: intPtr(75)}}
		results := mapVerdicts(numbered, verdicts)
		assert.Equal(t, 75, results[0].Score)
	})

	t.Run("colliding bare ids never share a verdict", func(t *testing.T) {
		colliding := []core.Listing{
			{ID: "1", Site: "idealista", Title: "Terreno"},
			{ID: "1", Site: "olx", Title: "Apartamento"},
		}
		irrelevant := false
		verdicts := []rawVerdict{
			{ID: "idealista/1", Relevant: &irrelevant, Score: intPtr(10), Reasoning: "wrong type"},
			{ID: "1", Relevant: &irrelevant, Score: intPtr(10)},
		}
		results := mapVerdicts(colliding, verdicts)
		require.Len(t, results, 2)

		// The addressed listing takes its verdict; the other falls back to
		// the safe default rather than inheriting the rejection.
		assert.False(t, results[0].Relevant)
		assert.True(t, results[1].Relevant)
		assert.Equal(t, defaultScore, results[1].Score)
	})

	t.Run("scores clamp to 0..100", func(t *testing.T) {
		verdicts := []rawVerdict{{ID: "s/a", Score: intPtr(150)}}
		results := mapVerdicts(listings[:1], verdicts)
		assert.Equal(t, 100, results[0].Score)
	})

	t.Run("every listing exactly once", func(t *testing.T) {
		results := mapVerdicts(listings, nil)
		require.Len(t, results, 3)
		seen := map[string]int{}
		for _, res := range results {
			seen[res.ListingID]++
		}
		assert.Equal(t, map[string]int{"s/a": 1, "s/b": 1, "s/c": 1}, seen)
	})
}

func intPtr(v int) *int { return &v }
