// Package blobstore abstracts where corpus shard bytes come from.
//
// The search engine only ever reads shards: a corpus is produced offline,
// uploaded somewhere durable, and loaded once at startup. Implementations
// exist for the local filesystem (memory-mapped), MinIO/S3-compatible object
// storage and AWS S3, plus an in-memory store for tests.
package blobstore

import (
	"context"
	"os"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations return an error satisfying errors.Is(err, ErrNotFound).
var ErrNotFound = os.ErrNotExist

// BlobStore opens immutable blobs by name.
type BlobStore interface {
	// Open opens a blob for reading.
	Open(ctx context.Context, name string) (Blob, error)
}

// Blob is a read-only handle to one blob.
//
// Bytes returns the complete contents. Local implementations back it with a
// memory mapping, so the slice is zero-copy and remains valid only until
// Close; remote implementations fetch the object on first call.
type Blob interface {
	Bytes(ctx context.Context) ([]byte, error)
	// Size returns the blob size in bytes.
	Size() int64
	// Close releases the handle and invalidates any slice returned by Bytes.
	Close() error
}
