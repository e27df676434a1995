// Package cudaeth is a massively parallel brute-force search over the
// 256-bit key space, matching candidate keys against a precomputed corpus of
// 20-byte fingerprints.
//
// The corpus is partitioned into 256 sorted shards by leading byte and held
// resident for the life of the process. Each iteration dispatches a fixed
// grid of lanes; every lane derives one deterministic pseudo-random
// candidate, projects it to a cheap search fingerprint and binary-searches
// its shard. Hits are collected with a single atomic append, verified with
// the real secp256k1/Keccak derivation after the iteration barrier, and only
// confirmed matches are persisted.
//
// Basic usage:
//
//	h, err := cudaeth.Open(ctx, blobstore.NewLocalStore("corpus/"),
//	    cudaeth.WithBaseSeed(seed),
//	    cudaeth.WithMatchLog("matches.log"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer h.Close()
//
//	err = h.Run(ctx) // loops until ctx is canceled
package cudaeth
