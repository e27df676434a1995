package corpus

import (
	"context"
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/sync/errgroup"

	"github.com/0Regardless0/Regardless-CUDA-ETH/blobstore"
	"github.com/0Regardless0/Regardless-CUDA-ETH/resource"
)

// ShardName returns the blob name of shard i, e.g. "4a.bin".
func ShardName(i int) string {
	return fmt.Sprintf("%02x.bin", i)
}

// shardZstName is the zstd-compressed variant of a shard blob.
func shardZstName(i int) string {
	return ShardName(i) + ".zst"
}

type shardBytes struct {
	data    []byte
	blob    blobstore.Blob // nil when data was decompressed into the heap
	release int64          // managed bytes to return on close
}

// releaseCloser returns a memory reservation when the store closes.
type releaseCloser struct {
	rc    *resource.Controller
	bytes int64
}

func (r *releaseCloser) Close() error {
	r.rc.ReleaseMemory(r.bytes)
	return nil
}

// Load builds a complete corpus store from the given blob store.
//
// Every shard i in [0,255] must exist as "%02x.bin" or, zstd-compressed, as
// "%02x.bin.zst"; a single missing shard aborts the load with an error
// wrapping ErrShardFileMissing and nothing is searched. Shards fetch
// concurrently under the controller's load slots, and every resident byte is
// reserved against the controller's memory limit until the store is closed.
func Load(ctx context.Context, store blobstore.BlobStore, rc *resource.Controller) (*Store, error) {
	shards := make([]shardBytes, NumShards)

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < NumShards; i++ {
		g.Go(func() error {
			if err := rc.AcquireLoad(ctx); err != nil {
				return err
			}
			defer rc.ReleaseLoad()

			sb, err := fetchShard(ctx, store, rc, i)
			if err != nil {
				return err
			}
			shards[i] = sb
			return nil
		})
	}

	err := g.Wait()

	s := NewStore()
	for i := range shards {
		if shards[i].blob != nil {
			s.retain(shards[i].blob)
		}
		if shards[i].release > 0 {
			s.retain(&releaseCloser{rc: rc, bytes: shards[i].release})
		}
	}
	if err != nil {
		_ = s.Close()
		return nil, err
	}

	for i := range shards {
		if err := s.Load(i, shards[i].data); err != nil {
			_ = s.Close()
			return nil, err
		}
	}
	return s, nil
}

func fetchShard(ctx context.Context, store blobstore.BlobStore, rc *resource.Controller, i int) (shardBytes, error) {
	compressed := false

	blob, err := store.Open(ctx, ShardName(i))
	if errors.Is(err, blobstore.ErrNotFound) {
		blob, err = store.Open(ctx, shardZstName(i))
		compressed = true
	}
	if errors.Is(err, blobstore.ErrNotFound) {
		return shardBytes{}, fmt.Errorf("%w: %s", ErrShardFileMissing, ShardName(i))
	}
	if err != nil {
		return shardBytes{}, fmt.Errorf("corpus: open shard %s: %w", ShardName(i), err)
	}

	if err := rc.WaitLoadBytes(ctx, int(blob.Size())); err != nil {
		_ = blob.Close()
		return shardBytes{}, err
	}

	raw, err := blob.Bytes(ctx)
	if err != nil {
		_ = blob.Close()
		return shardBytes{}, fmt.Errorf("corpus: read shard %s: %w", ShardName(i), err)
	}

	if !compressed {
		if err := rc.AcquireMemory(ctx, int64(len(raw))); err != nil {
			_ = blob.Close()
			return shardBytes{}, err
		}
		// Mapped bytes stay owned by the blob; it closes with the store.
		return shardBytes{data: raw, blob: blob, release: int64(len(raw))}, nil
	}

	data, err := decompress(raw)
	_ = blob.Close()
	if err != nil {
		return shardBytes{}, fmt.Errorf("corpus: decompress shard %s: %w", shardZstName(i), err)
	}
	if err := rc.AcquireMemory(ctx, int64(len(data))); err != nil {
		return shardBytes{}, err
	}
	return shardBytes{data: data, release: int64(len(data))}, nil
}

func decompress(raw []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return dec.DecodeAll(raw, nil)
}
