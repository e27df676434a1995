package cudaeth

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0Regardless0/Regardless-CUDA-ETH/blobstore"
	"github.com/0Regardless0/Regardless-CUDA-ETH/corpus"
	"github.com/0Regardless0/Regardless-CUDA-ETH/fingerprint"
	"github.com/0Regardless0/Regardless-CUDA-ETH/keygen"
)

// fullMemoryCorpus stores an empty blob for every shard, plus the given
// fingerprints in their home shards.
func fullMemoryCorpus(fps ...fingerprint.Fingerprint) *blobstore.MemoryStore {
	shards := make(map[int][]byte)
	for _, f := range fps {
		i := int(f.LeadingByte())
		shards[i] = append(shards[i], f[:]...)
	}

	ms := blobstore.NewMemoryStore()
	for i := 0; i < corpus.NumShards; i++ {
		ms.Put(corpus.ShardName(i), shards[i])
	}
	return ms
}

type projectionVerifier struct{}

func (projectionVerifier) Derive(key fingerprint.CandidateKey) (fingerprint.Fingerprint, error) {
	return keygen.Project(key), nil
}

func TestOpenAndRunBounded(t *testing.T) {
	h, err := Open(context.Background(), fullMemoryCorpus(),
		WithLanes(1, 64),
		WithMaxIterations(2),
	)
	require.NoError(t, err)
	defer h.Close()

	require.NoError(t, h.Run(context.Background()))
	assert.Equal(t, uint64(2), h.Stats().Iterations)
	assert.Equal(t, uint64(128), h.Stats().Candidates)
}

func TestOpenMissingShardTranslates(t *testing.T) {
	ms := blobstore.NewMemoryStore()
	for i := 0; i < corpus.NumShards-1; i++ {
		ms.Put(corpus.ShardName(i), nil)
	}

	_, err := Open(context.Background(), ms)
	assert.ErrorIs(t, err, ErrShardFileMissing)
}

func TestOpenMalformedShardTranslates(t *testing.T) {
	ms := fullMemoryCorpus()
	ms.Put(corpus.ShardName(0x05), make([]byte, 3))

	_, err := Open(context.Background(), ms)
	assert.ErrorIs(t, err, ErrMalformedShard)
}

func TestMatchLogPersistsConfirmedMatches(t *testing.T) {
	const base, lane = uint64(2024), uint64(10)

	seed := keygen.IterationSeed(base, 0)
	target := keygen.Project(keygen.Generate(seed, lane))

	logPath := filepath.Join(t.TempDir(), "matches.log")

	h, err := Open(context.Background(), fullMemoryCorpus(target),
		WithLanes(1, 32),
		WithBaseSeed(base),
		WithMaxIterations(1),
		WithMatchLog(logPath),
		WithVerifier(projectionVerifier{}),
	)
	require.NoError(t, err)

	require.NoError(t, h.Run(context.Background()))
	require.NoError(t, h.Close())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), target.String())
}

func TestCloseIdempotent(t *testing.T) {
	h, err := Open(context.Background(), fullMemoryCorpus(), WithLanes(1, 16))
	require.NoError(t, err)

	require.NoError(t, h.Close())
	require.NoError(t, h.Close())
}
