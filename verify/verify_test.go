package verify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0Regardless0/Regardless-CUDA-ETH/fingerprint"
)

func TestDeriveKnownVectors(t *testing.T) {
	// Addresses of the small private keys 1..3 are well-known constants.
	vectors := map[byte]string{
		1: "7e5f4552091a69125d5dfcb7b8c2659029395bdf",
		2: "2b5ad5c4795c026514f8317c7a215e218dccd6cf",
		3: "6813eb9362372eef6200f3b1dbc3f819671cba69",
	}

	v := NewSecp256k1()
	for k, want := range vectors {
		var key fingerprint.CandidateKey
		key[31] = k

		got, err := v.Derive(key)
		require.NoError(t, err)
		assert.Equal(t, want, got.String(), "key %d", k)
	}
}

func TestDeriveDeterministic(t *testing.T) {
	var key fingerprint.CandidateKey
	key[0] = 0x12
	key[31] = 0x34

	v := NewSecp256k1()
	a, err := v.Derive(key)
	require.NoError(t, err)
	b, err := v.Derive(key)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestDeriveRejectsZero(t *testing.T) {
	v := NewSecp256k1()
	_, err := v.Derive(fingerprint.CandidateKey{})
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestDeriveRejectsOverflow(t *testing.T) {
	var key fingerprint.CandidateKey
	for i := range key {
		key[i] = 0xff
	}

	v := NewSecp256k1()
	_, err := v.Derive(key)
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestDeriveDiffersFromProjection(t *testing.T) {
	// The true derivation must not coincide with the in-loop byte-window
	// projection for ordinary keys.
	var key fingerprint.CandidateKey
	key[31] = 1

	v := NewSecp256k1()
	fp, err := v.Derive(key)
	require.NoError(t, err)

	var window fingerprint.Fingerprint
	copy(window[:], key[:fingerprint.Size])
	assert.NotEqual(t, window, fp)
}
