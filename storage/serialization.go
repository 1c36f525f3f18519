package storage

import (
	"encoding/json"
	"fmt"

	"github.com/casaseek/casaseek/core"
)

// MarshalListing encodes a listing for storage.
func MarshalListing(l *core.Listing) ([]byte, error) {
	data, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return data, nil
}

// UnmarshalListing decodes a stored listing.
func UnmarshalListing(data []byte) (*core.Listing, error) {
	var l core.Listing
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &l, nil
}
