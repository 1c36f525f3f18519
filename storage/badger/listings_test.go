package badger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/casaseek/casaseek/core"
	"github.com/casaseek/casaseek/storage"
)

func newTestRepo(t *testing.T) (storage.ListingRepository, func()) {
	t.Helper()
	repo, backend, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	return repo, func() {
		repo.Close()
		backend.Close()
	}
}

func sampleListing(id string, seen time.Time) *core.Listing {
	return &core.Listing{
		ID:       id,
		Site:     "fixtures",
		Title:    "Listing " + id,
		Price:    core.Price{Amount: 100000, Currency: "EUR"},
		LastSeen: seen,
	}
}

func TestListingUpsertAndGet(t *testing.T) {
	repo, cleanup := newTestRepo(t)
	defer cleanup()
	ctx := context.Background()

	l := sampleListing("a1", time.Now().UTC())
	if err := repo.UpsertListings(ctx, l); err != nil {
		t.Fatalf("Failed to upsert listing: %v", err)
	}

	retrieved, err := repo.GetListing(ctx, l.ContentID())
	if err != nil {
		t.Fatalf("Failed to get listing: %v", err)
	}
	if retrieved.Title != l.Title {
		t.Fatalf("Expected title %q, got %q", l.Title, retrieved.Title)
	}
}

func TestListingUpsertReplaces(t *testing.T) {
	repo, cleanup := newTestRepo(t)
	defer cleanup()
	ctx := context.Background()

	first := sampleListing("a1", time.Now().UTC().Add(-time.Hour))
	if err := repo.UpsertListings(ctx, first); err != nil {
		t.Fatalf("Failed to upsert: %v", err)
	}

	second := sampleListing("a1", time.Now().UTC())
	second.Title = "Updated title"
	if err := repo.UpsertListings(ctx, second); err != nil {
		t.Fatalf("Failed to re-upsert: %v", err)
	}

	retrieved, err := repo.GetListing(ctx, first.ContentID())
	if err != nil {
		t.Fatalf("Failed to get listing: %v", err)
	}
	if retrieved.Title != "Updated title" {
		t.Fatalf("Expected replacement, got %q", retrieved.Title)
	}

	// The old index entry must be gone: only one record total.
	count := 0
	err = repo.AllListings(ctx, func(*core.Listing) error {
		count++
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to iterate: %v", err)
	}
	if count != 1 {
		t.Fatalf("Expected 1 listing after re-upsert, got %d", count)
	}
}

func TestListingGetMissing(t *testing.T) {
	repo, cleanup := newTestRepo(t)
	defer cleanup()

	_, err := repo.GetListing(context.Background(), core.ID(42))
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestListingRecent(t *testing.T) {
	repo, cleanup := newTestRepo(t)
	defer cleanup()
	ctx := context.Background()

	now := time.Now().UTC()
	listings := []*core.Listing{
		sampleListing("old", now.Add(-2*time.Hour)),
		sampleListing("mid", now.Add(-time.Hour)),
		sampleListing("new", now),
	}
	if err := repo.UpsertListings(ctx, listings...); err != nil {
		t.Fatalf("Failed to upsert: %v", err)
	}

	recent, err := repo.GetRecentListings(ctx, 2)
	if err != nil {
		t.Fatalf("Failed to get recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("Expected 2 listings, got %d", len(recent))
	}
	if recent[0].ID != "new" || recent[1].ID != "mid" {
		t.Fatalf("Expected [new mid], got [%s %s]", recent[0].ID, recent[1].ID)
	}
}

func TestListingDelete(t *testing.T) {
	repo, cleanup := newTestRepo(t)
	defer cleanup()
	ctx := context.Background()

	l := sampleListing("a1", time.Now().UTC())
	if err := repo.UpsertListings(ctx, l); err != nil {
		t.Fatalf("Failed to upsert: %v", err)
	}

	if err := repo.DeleteListings(ctx, l.ContentID()); err != nil {
		t.Fatalf("Failed to delete: %v", err)
	}

	if _, err := repo.GetListing(ctx, l.ContentID()); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound after delete, got %v", err)
	}

	if err := repo.DeleteListings(ctx, l.ContentID()); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound deleting twice, got %v", err)
	}
}

func TestListingValidation(t *testing.T) {
	repo, cleanup := newTestRepo(t)
	defer cleanup()

	bad := &core.Listing{Site: "fixtures", Title: "No ID"}
	if err := repo.UpsertListings(context.Background(), bad); !errors.Is(err, core.ErrEmptyListingID) {
		t.Fatalf("Expected validation error, got %v", err)
	}
}
