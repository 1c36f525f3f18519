package badger

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/casaseek/casaseek/core"
)

// Key prefixes for different data types
const (
	listingPrefix     = "lstrec"
	listingSeenPrefix = "lstrecs"
)

// makeListingKey generates a key for a listing by content ID.
func makeListingKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", listingPrefix, id))
}

// makeListingSeenKey generates a composite key for the last-seen index.
// Format: prefix:timestamp:id
func makeListingSeenKey(seen time.Time, id core.ID) []byte {
	prefix := listingSeenPrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 16 // 8 bytes for timestamp + 8 bytes for ID
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(seen.UnixMicro()))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// idFromSeenKey recovers the listing ID from a last-seen index key.
func idFromSeenKey(key []byte) (core.ID, bool) {
	prefixSize := len(listingSeenPrefix) + 1
	if len(key) != prefixSize+16 {
		return 0, false
	}
	return core.ID(binary.BigEndian.Uint64(key[prefixSize+8:])), true
}
