package cudaeth

import (
	"errors"
	"fmt"

	"github.com/0Regardless0/Regardless-CUDA-ETH/corpus"
)

var (
	// ErrShardFileMissing is returned when any of the 256 corpus shard files
	// is absent. A partial corpus is never searched.
	ErrShardFileMissing = errors.New("corpus shard file missing")

	// ErrMalformedShard is returned when a shard file is not a whole number
	// of fingerprint records.
	ErrMalformedShard = errors.New("malformed corpus shard")
)

func translateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, corpus.ErrShardFileMissing) {
		return fmt.Errorf("%w: %w", ErrShardFileMissing, err)
	}
	var malformed *corpus.ErrMalformedShard
	if errors.As(err, &malformed) {
		return fmt.Errorf("%w: %w", ErrMalformedShard, err)
	}

	return err
}
