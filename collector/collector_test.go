package collector

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0Regardless0/Regardless-CUDA-ETH/fingerprint"
)

func record(n uint64) fingerprint.MatchRecord {
	var rec fingerprint.MatchRecord
	for i := 0; i < 8; i++ {
		rec.Key[i] = byte(n >> (8 * i))
		rec.Fingerprint[i] = byte(n >> (8 * i))
	}
	return rec
}

func TestAppendSequential(t *testing.T) {
	c := New(4)

	assert.Equal(t, 0, c.Append(record(1)))
	assert.Equal(t, 1, c.Append(record(2)))
	assert.Equal(t, 2, c.Count())
	assert.Equal(t, record(1), c.Records()[0])
	assert.Equal(t, record(2), c.Records()[1])
}

func TestResetIdempotent(t *testing.T) {
	c := New(4)
	c.Append(record(1))

	c.Reset()
	assert.Equal(t, 0, c.Count())
	assert.Empty(t, c.Records())

	c.Reset()
	assert.Equal(t, 0, c.Count())
}

func TestConcurrentAppends(t *testing.T) {
	const lanes = 512

	c := New(lanes)

	var wg sync.WaitGroup
	for lane := uint64(0); lane < lanes; lane++ {
		wg.Add(1)
		go func(lane uint64) {
			defer wg.Done()
			c.Append(record(lane))
		}(lane)
	}
	wg.Wait()

	// Exact count, every slot populated, no record lost or duplicated.
	require.Equal(t, lanes, c.Count())

	seen := make(map[fingerprint.MatchRecord]bool, lanes)
	for _, rec := range c.Records() {
		require.False(t, seen[rec], "record %v appended to two slots", rec)
		seen[rec] = true
	}
	assert.Len(t, seen, lanes)
}

func TestConcurrentPartialAppends(t *testing.T) {
	// Only every third lane observes a match.
	const lanes = 300

	c := New(lanes)

	var wg sync.WaitGroup
	for lane := uint64(0); lane < lanes; lane++ {
		wg.Add(1)
		go func(lane uint64) {
			defer wg.Done()
			if lane%3 == 0 {
				c.Append(record(lane))
			}
		}(lane)
	}
	wg.Wait()

	assert.Equal(t, lanes/3, c.Count())
	assert.Len(t, c.Records(), lanes/3)
}

func TestCapacityInvariant(t *testing.T) {
	// Lane sizing must never exceed collector capacity. The engine allocates
	// one slot per lane, so equality holds by construction.
	const lanes = 1024
	c := New(lanes)
	assert.LessOrEqual(t, lanes, c.Capacity())
}

func TestOverflowPanics(t *testing.T) {
	c := New(1)
	c.Append(record(1))
	assert.Panics(t, func() { c.Append(record(2)) })
}

func TestNewRejectsZeroCapacity(t *testing.T) {
	assert.Panics(t, func() { New(0) })
}
