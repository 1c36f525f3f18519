// Package storage defines the persistence contracts for listings. The
// badger subpackage provides the BadgerDB implementation.
package storage

import (
	"context"

	"github.com/casaseek/casaseek/core"
)

// ListingRepository persists normalized listings keyed by their content ID.
// Implementations must be thread-safe and support concurrent access.
type ListingRepository interface {
	// UpsertListings stores listings, replacing any existing record with the
	// same content ID. Sets LastSeen to now when unset.
	UpsertListings(ctx context.Context, listings ...*core.Listing) error

	// GetListing retrieves one listing by content ID.
	// Returns ErrNotFound if it does not exist.
	GetListing(ctx context.Context, id core.ID) (*core.Listing, error)

	// GetListings retrieves multiple listings by content ID.
	// Missing records are skipped, not errors.
	GetListings(ctx context.Context, ids ...core.ID) ([]*core.Listing, error)

	// GetRecentListings returns up to limit listings ordered by LastSeen
	// descending.
	GetRecentListings(ctx context.Context, limit int) ([]*core.Listing, error)

	// AllListings streams every stored listing to fn. A non-nil error from fn
	// stops the iteration and is returned.
	AllListings(ctx context.Context, fn func(*core.Listing) error) error

	// DeleteListings removes listings by content ID.
	// Returns ErrNotFound if any record does not exist.
	DeleteListings(ctx context.Context, ids ...core.ID) error

	// Close releases repository resources.
	Close() error
}
