// Package fingerprint defines the fixed-width value types the search engine
// operates on: 32-byte candidate keys and the 20-byte fingerprints derived
// from them.
package fingerprint

import (
	"bytes"
	"encoding/hex"
	"fmt"
)

const (
	// Size is the width of a Fingerprint in bytes.
	Size = 20

	// KeySize is the width of a CandidateKey in bytes.
	KeySize = 32
)

// Fingerprint is a fixed-width derived identifier. It is the unit of
// comparison and storage in the corpus. Ordering is lexicographic over the
// raw bytes.
type Fingerprint [Size]byte

// CandidateKey is a raw 256-bit value from which a Fingerprint is derived.
// Candidate keys are transient: one is produced per lane per iteration and
// discarded unless it yields a hit.
type CandidateKey [KeySize]byte

// LeadingByte returns the first byte of the fingerprint. It selects the
// corpus shard the fingerprint belongs to.
func (f Fingerprint) LeadingByte() byte {
	return f[0]
}

// Compare returns -1, 0 or 1 comparing f against other lexicographically.
func (f Fingerprint) Compare(other Fingerprint) int {
	return bytes.Compare(f[:], other[:])
}

// String returns the lowercase hex encoding of the fingerprint.
func (f Fingerprint) String() string {
	return hex.EncodeToString(f[:])
}

// String returns the lowercase hex encoding of the candidate key.
func (k CandidateKey) String() string {
	return hex.EncodeToString(k[:])
}

// FromBytes copies b into a Fingerprint. It returns an error if b is not
// exactly Size bytes long.
func FromBytes(b []byte) (Fingerprint, error) {
	var f Fingerprint
	if len(b) != Size {
		return f, fmt.Errorf("fingerprint must be %d bytes, got %d", Size, len(b))
	}
	copy(f[:], b)
	return f, nil
}

// FromHex decodes a hex string (with or without a 0x prefix) into a
// Fingerprint.
func FromHex(s string) (Fingerprint, error) {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("invalid fingerprint hex: %w", err)
	}
	return FromBytes(b)
}

// MatchRecord pairs a candidate key with the fingerprint the matcher found
// for it. A MatchRecord is a *candidate* hit: the in-loop projection that
// produced the fingerprint is not cryptographic, so every record must be
// re-derived by a verifier before it is trusted.
type MatchRecord struct {
	Key         CandidateKey
	Fingerprint Fingerprint
}
