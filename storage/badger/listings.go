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


// Package badger implements the storage contracts on BadgerDB.
package badger

import (
	"bytes"
	"context"
	"time"

	"github.com/casaseek/casaseek/core"
	"github.com/casaseek/casaseek/storage"
	"github.com/dgraph-io/badger/v4"
)

// ListingRepository implements storage.ListingRepository for BadgerDB.
type ListingRepository struct {
	backend *Backend
}

var _ storage.ListingRepository = (*ListingRepository)(nil)

// NewListingRepository creates a listing repository over the backend.
func NewListingRepository(backend *Backend) *ListingRepository {
	return &ListingRepository{backend: backend}
}

// Close implements storage.ListingRepository. The backend is shared and
// closed by its owner.
func (r *ListingRepository) Close() error {
	return nil
}

// UpsertListings stores listings keyed by content ID, replacing existing
// records and maintaining the last-seen index.
func (r *ListingRepository) UpsertListings(ctx context.Context, listings ...*core.Listing) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, l := range listings {
			if err := core.ValidateListing(l); err != nil {
				return err
			}
			if l.LastSeen.IsZero() {
				l.LastSeen = time.Now().UTC()
			}

			id := l.ContentID()
			key := makeListingKey(id)

			// Clean up the old index entry when the record is replaced.
			old, err := r.readListing(tx, key)
			if err != nil {
				return err
			}
			if old != nil && !old.LastSeen.Equal(l.LastSeen) {
				if err := tx.Delete(makeListingSeenKey(old.LastSeen, id)); err != nil {
					return err
				}
			}

			value, err := storage.MarshalListing(l)
			if err != nil {
				return err
			}
			if err := tx.Set(key, value); err != nil {
				return err
			}
			if err := tx.Set(makeListingSeenKey(l.LastSeen, id), nil); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetListing retrieves one listing by content ID.
func (r *ListingRepository) GetListing(ctx context.Context, id core.ID) (*core.Listing, error) {
	var result *core.Listing
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = r.readListing(tx, makeListingKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetListings retrieves multiple listings by content ID, skipping missing
// records.
func (r *ListingRepository) GetListings(ctx context.Context, ids ...core.ID) ([]*core.Listing, error) {
	var result []*core.Listing
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			l, err := r.readListing(tx, makeListingKey(id))
			if err != nil {
				return err
			}
			if l != nil {
				result = append(result, l)
			}
		}
		return nil
	}, false)
	return result, err
}

// GetRecentListings returns up to limit listings ordered by LastSeen
// descending, via the last-seen index.
func (r *ListingRepository) GetRecentListings(ctx context.Context, limit int) ([]*core.Listing, error) {
	var ids []core.ID
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := []byte(listingSeenPrefix + ":")
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = prefix
		iter := tx.NewIterator(opts)
		defer iter.Close()

		// Seek past the highest possible index key, then walk backwards.
		seek := append(append([]byte{}, prefix...), bytes.Repeat([]byte{0xff}, 16)...)
		for iter.Seek(seek); iter.Valid() && len(ids) < limit; iter.Next() {
			if id, ok := idFromSeenKey(iter.Item().Key()); ok {
				ids = append(ids, id)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return r.GetListings(ctx, ids...)
}

// AllListings streams every stored listing to fn.
func (r *ListingRepository) AllListings(ctx context.Context, fn func(*core.Listing) error) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(listingPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()

			// Skip last-seen index keys, which share the record prefix.
			if bytes.HasPrefix(item.Key(), []byte(listingSeenPrefix+":")) {
				continue
			}
			if err := ctx.Err(); err != nil {
				return err
			}

			var l *core.Listing
			err := item.Value(func(val []byte) error {
				var err error
				l, err = storage.UnmarshalListing(val)
				return err
			})
			if err != nil {
				return err
			}
			if err := fn(l); err != nil {
				return err
			}
		}
		return nil
	}, false)
}

// DeleteListings removes listings and their index entries by content ID.
func (r *ListingRepository) DeleteListings(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeListingKey(id)
			l, err := r.readListing(tx, key)
			if err != nil {
				return err
			}
			if l == nil {
				return storage.ErrNotFound
			}
			if err := tx.Delete(makeListingSeenKey(l.LastSeen, id)); err != nil {
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// readListing returns nil without error when the key does not exist.
func (r *ListingRepository) readListing(tx *badger.Txn, key []byte) (*core.Listing, error) {
	item, err := tx.Get(key)
	if err == badger.ErrKeyNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var l *core.Listing
	err = item.Value(func(val []byte) error {
		var err error
		l, err = storage.UnmarshalListing(val)
		return err
	})
	return l, err
}
