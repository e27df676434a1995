// Package collector implements the shared result buffer one search iteration
// appends into.
//
// All lanes of an iteration append concurrently. Slot allocation is a single
// atomic increment, which is the only point where lanes contend: each accepted
// record gets a unique slot, the count after the iteration barrier equals the
// number of accepted records, and no append can overwrite another's slot.
package collector

import (
	"fmt"
	"sync/atomic"

	"github.com/0Regardless0/Regardless-CUDA-ETH/fingerprint"
)

// Collector is a bounded, concurrently appendable record buffer.
//
// Capacity is structural: it is sized to the lane count at construction, and
// one lane appends at most once per iteration, so the bound cannot be
// exceeded by a correct driver. Append still fail-stops on overrun rather
// than writing out of bounds.
type Collector struct {
	count   atomic.Int64
	records []fingerprint.MatchRecord
}

// New creates a collector with room for capacity records. It panics if
// capacity is not positive.
func New(capacity int) *Collector {
	if capacity <= 0 {
		panic(fmt.Sprintf("collector: capacity must be positive, got %d", capacity))
	}
	return &Collector{
		records: make([]fingerprint.MatchRecord, capacity),
	}
}

// Capacity returns the maximum number of records one iteration can accept.
func (c *Collector) Capacity() int {
	return len(c.records)
}

// Reset clears the collector for a new iteration. It must only be called
// while no lane is appending, i.e. at the Idle state between iterations.
func (c *Collector) Reset() {
	c.count.Store(0)
}

// Append records a match and returns the slot it was accepted into.
// Safe for concurrent use by all lanes of an iteration.
func (c *Collector) Append(rec fingerprint.MatchRecord) int {
	slot := c.count.Add(1) - 1
	if slot >= int64(len(c.records)) {
		// Unreachable when capacity >= lane count; guards the slice write.
		panic(fmt.Sprintf("collector: overflow, slot %d capacity %d", slot, len(c.records)))
	}
	c.records[slot] = rec
	return int(slot)
}

// Count returns the number of records accepted since the last Reset. It is
// only meaningful after the iteration barrier: reading it while lanes are
// still appending yields an undercount.
func (c *Collector) Count() int {
	return int(c.count.Load())
}

// Records returns the accepted records in slot order. The returned slice
// aliases the collector's buffer and is invalidated by the next Reset; it
// must only be read between iterations.
func (c *Collector) Records() []fingerprint.MatchRecord {
	return c.records[:c.Count()]
}
