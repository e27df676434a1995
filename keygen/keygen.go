// Package keygen produces candidate keys for the search loop.
//
// Generation is counter-based: each (seed, lane) pair owns an independent
// pseudo-random stream, so lanes never share state and every candidate can be
// reproduced exactly from the iteration seed and the lane id. This is what
// makes hits replayable and the generator testable.
package keygen

import (
	"encoding/binary"

	"github.com/0Regardless0/Regardless-CUDA-ETH/fingerprint"
)

// splitmix64 advances *state and returns the next output of the stream.
// The constants are Vigna's splitmix64 finalizer.
func splitmix64(state *uint64) uint64 {
	*state += 0x9e3779b97f4a7c15
	z := *state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// Generate derives the candidate key for one lane. It is a pure function of
// (seed, laneID): identical inputs always produce the identical key.
//
// The stream is keyed by seed+laneID. Distinct lanes within an iteration and
// distinct iteration seeds therefore start from distinct stream states.
func Generate(seed, laneID uint64) fingerprint.CandidateKey {
	var key fingerprint.CandidateKey

	state := seed + laneID
	for i := 0; i < fingerprint.KeySize; i += 8 {
		binary.BigEndian.PutUint64(key[i:], splitmix64(&state))
	}

	return key
}

// IterationSeed derives the seed for one iteration from the run's base seed.
// Distinct iteration indices under the same base yield pairwise distinct
// seeds: the finalizer is a bijection on uint64, so collisions would require
// base^mix(iteration) to collide, which it cannot for distinct iterations.
func IterationSeed(base, iteration uint64) uint64 {
	state := iteration
	return base ^ splitmix64(&state)
}

// Project maps a candidate key to its in-loop search fingerprint by taking a
// fixed window of the key's leading bytes.
//
// This is intentionally NOT the cryptographic address derivation. It exists
// only to keep the per-candidate cost of the hot loop flat; a positive match
// against the corpus proves nothing until a verifier re-derives the true
// fingerprint from the key.
func Project(key fingerprint.CandidateKey) fingerprint.Fingerprint {
	var f fingerprint.Fingerprint
	copy(f[:], key[:fingerprint.Size])
	return f
}
