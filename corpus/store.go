// Package corpus holds the precomputed target fingerprints the search runs
// against: 256 shards, one per leading byte, each a flat sequence of sorted
// fixed-width fingerprints. The corpus is immutable once loaded and is read
// concurrently by every lane without synchronization.
package corpus

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/0Regardless0/Regardless-CUDA-ETH/fingerprint"
)

// NumShards is the number of corpus partitions, one per leading-byte value.
const NumShards = 256

var (
	// ErrShardFileMissing is returned when one of the 256 shard files does
	// not exist. Partial corpora are never searched.
	ErrShardFileMissing = errors.New("corpus: shard file missing")

	// ErrAlreadyLoaded is returned when a shard index is loaded twice.
	ErrAlreadyLoaded = errors.New("corpus: shard already loaded")
)

// ErrMalformedShard indicates shard bytes whose length is not a whole number
// of fingerprint records.
type ErrMalformedShard struct {
	Index int
	Size  int
}

func (e *ErrMalformedShard) Error() string {
	return fmt.Sprintf("corpus: shard %#02x has %d bytes, not a multiple of %d", e.Index, e.Size, fingerprint.Size)
}

// Store is the in-memory corpus: an arena of 256 independently sized shard
// buffers addressed by leading byte, plus a bitmap of the shards that hold
// at least one entry.
//
// Load establishes each shard exactly once; after that the store is
// read-only and safe for unsynchronized concurrent lookups.
type Store struct {
	shards    [NumShards][]byte
	counts    [NumShards]int
	populated *roaring.Bitmap

	closers []io.Closer
}

// NewStore creates an empty corpus store.
func NewStore() *Store {
	return &Store{populated: roaring.New()}
}

// Load ingests one shard's raw bytes: a flat concatenation of fixed-width
// fingerprints, sorted ascending by the producer, all sharing the leading
// byte shardIndex.
//
// The store verifies only the record width. Sortedness and leading-byte
// homogeneity are the producer's contract and are NOT re-validated: bytes
// that violate them silently cause missed or incorrect matches, never a
// crash. The data slice is retained as-is; callers must not mutate it.
func (s *Store) Load(shardIndex int, data []byte) error {
	if shardIndex < 0 || shardIndex >= NumShards {
		return fmt.Errorf("corpus: shard index %d out of range", shardIndex)
	}
	if s.shards[shardIndex] != nil {
		return fmt.Errorf("%w: %#02x", ErrAlreadyLoaded, shardIndex)
	}
	if len(data)%fingerprint.Size != 0 {
		return &ErrMalformedShard{Index: shardIndex, Size: len(data)}
	}

	if data == nil {
		data = []byte{}
	}
	s.shards[shardIndex] = data
	s.counts[shardIndex] = len(data) / fingerprint.Size
	if s.counts[shardIndex] > 0 {
		s.populated.Add(uint32(shardIndex))
	}
	return nil
}

// Complete reports whether all 256 shards have been loaded.
func (s *Store) Complete() bool {
	for i := range s.shards {
		if s.shards[i] == nil {
			return false
		}
	}
	return true
}

// ShardLen returns the number of fingerprints in shard i.
func (s *Store) ShardLen(i int) int {
	return s.counts[i]
}

// NumFingerprints returns the total number of entries across all shards.
func (s *Store) NumFingerprints() int {
	total := 0
	for _, n := range s.counts {
		total += n
	}
	return total
}

// PopulatedShards returns how many shards hold at least one entry.
func (s *Store) PopulatedShards() int {
	return int(s.populated.GetCardinality())
}

// entry returns the pos-th fingerprint of shard i without copying.
func (s *Store) entry(i, pos int) []byte {
	off := pos * fingerprint.Size
	return s.shards[i][off : off+fingerprint.Size]
}

// Entry copies out the pos-th fingerprint of shard i. It is a test and
// diagnostics accessor, not part of the hot path.
func (s *Store) Entry(i, pos int) (fingerprint.Fingerprint, error) {
	if pos < 0 || pos >= s.counts[i] {
		return fingerprint.Fingerprint{}, fmt.Errorf("corpus: entry %d out of range for shard %#02x", pos, i)
	}
	return fingerprint.FromBytes(s.entry(i, pos))
}

// Contains reports whether fp is present in the corpus, and at which
// position within its shard.
//
// The shard is selected by fp's leading byte. An unpopulated shard answers
// in O(1) via the populated bitmap; otherwise a binary search bisects the
// shard with full-width lexicographic comparison. With duplicate entries the
// returned position is whichever equal record the bisection lands on first;
// callers only use the fingerprint value, so any one is acceptable.
func (s *Store) Contains(fp fingerprint.Fingerprint) (int, bool) {
	shard := int(fp.LeadingByte())
	if !s.populated.Contains(uint32(shard)) {
		return 0, false
	}

	lo, hi := 0, s.counts[shard]-1
	for lo <= hi {
		mid := int(uint(lo+hi) >> 1)
		switch bytes.Compare(fp[:], s.entry(shard, mid)) {
		case 0:
			return mid, true
		case -1:
			hi = mid - 1
		default:
			lo = mid + 1
		}
	}
	return 0, false
}

// retain attaches a closer whose lifetime matches the store's.
func (s *Store) retain(c io.Closer) {
	s.closers = append(s.closers, c)
}

// Close releases every resource backing the shard buffers (mmap handles,
// memory reservations). The store must not be searched after Close.
func (s *Store) Close() error {
	var firstErr error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.closers = nil
	for i := range s.shards {
		s.shards[i] = nil
		s.counts[i] = 0
	}
	s.populated.Clear()
	return firstErr
}
