package vectorstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "store.json")
	s, err := NewStore(path)
	require.NoError(t, err)
	return s, path
}

func TestAddDocuments(t *testing.T) {
	t.Run("adds and counts", func(t *testing.T) {
		s, _ := newTestStore(t)
		err := s.AddDocuments("knowledge", []Document{
			{ID: "a", Content: "first"},
			{ID: "b", Content: "second"},
		})
		require.NoError(t, err)
		assert.Equal(t, map[string]int{"knowledge": 2}, s.Stats())
	})

	t.Run("same id replaces instead of duplicating", func(t *testing.T) {
		s, _ := newTestStore(t)
		require.NoError(t, s.AddDocuments("knowledge", []Document{{ID: "a", Content: "v1"}}))
		require.NoError(t, s.AddDocuments("knowledge", []Document{{ID: "a", Content: "v2"}}))

		assert.Equal(t, 1, s.Stats()["knowledge"])
		results := s.SearchByKeywords("knowledge", "v2", 10)
		require.Len(t, results, 1)
		assert.Equal(t, "v2", results[0].Document.Content)
	})

	t.Run("rejects empty collection name", func(t *testing.T) {
		s, _ := newTestStore(t)
		assert.ErrorIs(t, s.AddDocuments("", nil), ErrEmptyCollectionName)
	})

	t.Run("rejects empty document id", func(t *testing.T) {
		s, _ := newTestStore(t)
		err := s.AddDocuments("knowledge", []Document{{Content: "orphan"}})
		assert.ErrorIs(t, err, ErrEmptyDocumentID)
	})
}

func TestSnapshotRoundTrip(t *testing.T) {
	s, path := newTestStore(t)
	require.NoError(t, s.AddDocuments("listings", []Document{
		{ID: "l1", Content: "apartamento", Embedding: []float32{1, 0}},
	}))

	// Mutations persist immediately.
	_, err := os.Stat(path)
	require.NoError(t, err)

	reloaded, err := NewStore(path)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.Stats()["listings"])

	results := reloaded.Search("listings", []float32{1, 0}, 1, 0)
	require.Len(t, results, 1)
	assert.Equal(t, "l1", results[0].Document.ID)
}

func TestSearch(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.AddDocuments("listings", []Document{
		{ID: "aligned", Embedding: []float32{1, 0, 0}},
		{ID: "diagonal", Embedding: []float32{1, 1, 0}},
		{ID: "orthogonal", Embedding: []float32{0, 0, 1}},
	}))

	t.Run("sorted descending by similarity", func(t *testing.T) {
		results := s.Search("listings", []float32{1, 0, 0}, 10, -1)
		require.Len(t, results, 3)
		assert.Equal(t, "aligned", results[0].Document.ID)
		assert.InDelta(t, 1.0, results[0].Score, 1e-9)
		assert.Equal(t, "diagonal", results[1].Document.ID)
		assert.Equal(t, "orthogonal", results[2].Document.ID)
	})

	t.Run("min score filters", func(t *testing.T) {
		results := s.Search("listings", []float32{1, 0, 0}, 10, 0.5)
		assert.Len(t, results, 2)
	})

	t.Run("topK limits", func(t *testing.T) {
		results := s.Search("listings", []float32{1, 0, 0}, 1, -1)
		assert.Len(t, results, 1)
	})

	t.Run("unknown collection empty", func(t *testing.T) {
		assert.Empty(t, s.Search("nope", []float32{1}, 10, -1))
	})
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"zero magnitude", []float32{0, 0}, []float32{1, 1}, 0},
		{"dimension mismatch", []float32{1, 0}, []float32{1, 0, 0}, 0},
		{"empty", nil, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CosineSimilarity(tt.a, tt.b), 1e-9)
		})
	}

	t.Run("bounded", func(t *testing.T) {
		a := []float32{0.3, -0.7, 2.1, 0.4}
		b := []float32{-1.2, 0.8, 0.5, 3.3}
		score := CosineSimilarity(a, b)
		assert.GreaterOrEqual(t, score, -1.0)
		assert.LessOrEqual(t, score, 1.0)
	})
}

func TestSearchByKeywords(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.AddDocuments("knowledge", []Document{
		{ID: "faro", Content: "Faro is a coastal city in the Algarve"},
		{ID: "porto", Content: "Porto is famous for wine"},
	}))

	results := s.SearchByKeywords("knowledge", "coastal algarve city", 10)
	require.Len(t, results, 1)
	assert.Equal(t, "faro", results[0].Document.ID)

	assert.Empty(t, s.SearchByKeywords("knowledge", "", 10))
}

func TestDeleteAndClear(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.AddDocuments("listings", []Document{
		{ID: "a", Content: "a"},
		{ID: "b", Content: "b"},
	}))

	require.NoError(t, s.DeleteDocuments("listings", []string{"a", "missing"}))
	assert.Equal(t, 1, s.Stats()["listings"])

	require.NoError(t, s.ClearCollection("listings"))
	assert.Zero(t, s.Stats()["listings"])
}

func TestMemoryOnlyStore(t *testing.T) {
	s, err := NewStore("")
	require.NoError(t, err)
	require.NoError(t, s.AddDocuments("knowledge", []Document{{ID: "a", Content: "x"}}))
	assert.Equal(t, 1, s.Stats()["knowledge"])
}
