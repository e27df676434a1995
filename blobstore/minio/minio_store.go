// Package minio provides a blobstore.BlobStore backed by MinIO or any
// S3-compatible object storage. Corpus shards are produced offline and
// distributed through a bucket; search nodes pull them down at startup.
package minio

import (
	"context"
	"io"
	"path"

	"github.com/minio/minio-go/v7"

	"github.com/0Regardless0/Regardless-CUDA-ETH/blobstore"
)

// Store implements blobstore.BlobStore for MinIO and S3-compatible storage.
type Store struct {
	client *minio.Client
	bucket string
	prefix string
}

// NewStore creates a MinIO blob store. rootPrefix is prepended to all keys
// (e.g. "corpus/mainnet/").
func NewStore(client *minio.Client, bucket, rootPrefix string) *Store {
	return &Store{client: client, bucket: bucket, prefix: rootPrefix}
}

func (s *Store) key(name string) string {
	return path.Join(s.prefix, name)
}

// Open opens an existing blob for reading.
func (s *Store) Open(ctx context.Context, name string) (blobstore.Blob, error) {
	key := s.key(name)

	info, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.Code == "NotFound" {
			return nil, blobstore.ErrNotFound
		}
		return nil, err
	}

	return &minioBlob{
		client: s.client,
		bucket: s.bucket,
		key:    key,
		size:   info.Size,
	}, nil
}

type minioBlob struct {
	client *minio.Client
	bucket string
	key    string
	size   int64
	data   []byte
}

// Bytes fetches the full object on first call and caches it for the life of
// the blob. Shards are loaded exactly once, so the cache exists only to make
// repeated calls harmless.
func (b *minioBlob) Bytes(ctx context.Context) ([]byte, error) {
	if b.data != nil {
		return b.data, nil
	}

	obj, err := b.client.GetObject(ctx, b.bucket, b.key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	data := make([]byte, b.size)
	if _, err := io.ReadFull(obj, data); err != nil {
		return nil, err
	}

	b.data = data
	return b.data, nil
}

func (b *minioBlob) Size() int64 {
	return b.size
}

func (b *minioBlob) Close() error {
	b.data = nil
	return nil
}
