package cudaeth

import (
	"context"

	"github.com/0Regardless0/Regardless-CUDA-ETH/blobstore"
	"github.com/0Regardless0/Regardless-CUDA-ETH/corpus"
	"github.com/0Regardless0/Regardless-CUDA-ETH/engine"
	"github.com/0Regardless0/Regardless-CUDA-ETH/resource"
	"github.com/0Regardless0/Regardless-CUDA-ETH/sink"
)

// Hunter is a fully assembled search instance: loaded corpus, engine and
// match log. Construct with Open, release with Close.
type Hunter struct {
	engine    *engine.Engine
	matchLog  *sink.FileSink // nil unless WithMatchLog
	rc        *resource.Controller
	ownedSink bool
}

func (c *config) open(ctx context.Context, store blobstore.BlobStore) (*Hunter, error) {
	corp, err := corpus.Load(ctx, store, c.rc)
	if err != nil {
		return nil, translateError(err)
	}

	engOpts := c.engineOptions()

	h := &Hunter{rc: c.rc}
	if c.matchLogPath != "" {
		fs, err := sink.NewFileSink(c.matchLogPath)
		if err != nil {
			_ = corp.Close()
			return nil, err
		}
		h.matchLog = fs
		h.ownedSink = true
		engOpts = append(engOpts, engine.WithSink(fs))
	}

	eng, err := engine.New(corp, engOpts...)
	if err != nil {
		if h.matchLog != nil {
			_ = h.matchLog.Close()
		}
		_ = corp.Close()
		return nil, translateError(err)
	}
	h.engine = eng
	return h, nil
}

// Open loads the full 256-shard corpus from store and assembles a
// ready-to-run Hunter. Loading fails, and nothing is searched, if any shard
// is missing or malformed.
func Open(ctx context.Context, store blobstore.BlobStore, opts ...Option) (*Hunter, error) {
	c := defaultConfig()
	for _, opt := range opts {
		opt(c)
	}
	return c.open(ctx, store)
}

// Engine exposes the underlying engine for iteration-level control.
func (h *Hunter) Engine() *engine.Engine {
	return h.engine
}

// Run executes the search loop until ctx is canceled or the configured
// iteration bound is reached.
func (h *Hunter) Run(ctx context.Context) error {
	return h.engine.Run(ctx)
}

// Stats returns cumulative run counters.
func (h *Hunter) Stats() engine.Stats {
	return h.engine.Stats()
}

// Close releases the corpus, the engine and the match log. Idempotent.
func (h *Hunter) Close() error {
	if h == nil {
		return nil
	}
	var firstErr error
	if h.engine != nil {
		if err := h.engine.Close(); err != nil {
			firstErr = err
		}
	}
	if h.ownedSink && h.matchLog != nil {
		if err := h.matchLog.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		h.matchLog = nil
	}
	return firstErr
}
