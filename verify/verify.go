// Package verify performs the true cryptographic derivation for reported
// candidates. The search loop's fingerprint projection is a cheap stand-in,
// so nothing it reports may be trusted or persisted until this package has
// re-derived the candidate's real fingerprint.
package verify

import (
	"errors"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"golang.org/x/crypto/sha3"

	"github.com/0Regardless0/Regardless-CUDA-ETH/fingerprint"
)

// ErrInvalidKey is returned for candidate keys that are not valid secp256k1
// scalars (zero, or not less than the group order).
var ErrInvalidKey = errors.New("verify: candidate key is not a valid scalar")

// Verifier derives the true fingerprint for a candidate key.
type Verifier interface {
	Derive(key fingerprint.CandidateKey) (fingerprint.Fingerprint, error)
}

// Secp256k1 derives Ethereum-style fingerprints: the key is a secp256k1
// scalar, and the fingerprint is the last 20 bytes of the Keccak-256 digest
// of the uncompressed public point (minus its format byte).
type Secp256k1 struct{}

// NewSecp256k1 creates the standard verifier.
func NewSecp256k1() *Secp256k1 {
	return &Secp256k1{}
}

// Derive computes the canonical fingerprint for key.
func (v *Secp256k1) Derive(key fingerprint.CandidateKey) (fingerprint.Fingerprint, error) {
	var scalar secp256k1.ModNScalar
	if overflow := scalar.SetBytes((*[32]byte)(&key)); overflow != 0 {
		return fingerprint.Fingerprint{}, ErrInvalidKey
	}
	if scalar.IsZero() {
		return fingerprint.Fingerprint{}, ErrInvalidKey
	}

	priv := secp256k1.NewPrivateKey(&scalar)
	pub := priv.PubKey().SerializeUncompressed()

	h := sha3.NewLegacyKeccak256()
	h.Write(pub[1:]) // drop the 0x04 format byte
	digest := h.Sum(nil)

	return fingerprint.FromBytes(digest[12:])
}
