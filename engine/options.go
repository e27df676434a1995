package engine

import (
	"github.com/0Regardless0/Regardless-CUDA-ETH/sink"
	"github.com/0Regardless0/Regardless-CUDA-ETH/verify"
)

// Reference lane sizing: 256 blocks of 256 threads, 65536 lanes per
// iteration. A throughput knob, not a correctness parameter.
const (
	DefaultBlocks          = 256
	DefaultThreadsPerBlock = 256
)

// Option configures an Engine.
type Option func(*Engine)

// WithLanes sets the grid sizing: lanes per iteration = blocks *
// threadsPerBlock.
func WithLanes(blocks, threadsPerBlock int) Option {
	return func(e *Engine) {
		e.blocks = blocks
		e.threadsPerBlock = threadsPerBlock
	}
}

// WithBaseSeed sets the run's base seed. Per-iteration seeds derive from it
// and never repeat within a run.
func WithBaseSeed(seed uint64) Option {
	return func(e *Engine) {
		e.baseSeed = seed
	}
}

// WithWorkers sets how many goroutines execute the lanes of one iteration.
// Defaults to GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		e.workers = n
	}
}

// WithVerbose enables rate-limited per-iteration diagnostics.
func WithVerbose(verbose bool) Option {
	return func(e *Engine) {
		e.verbose = verbose
	}
}

// WithMaxIterations bounds Run to n iterations. 0 means unbounded, which is
// the production mode: the loop has no terminal state and only external
// cancellation ends it.
func WithMaxIterations(n uint64) Option {
	return func(e *Engine) {
		e.maxIterations = n
	}
}

// WithLogger sets the engine logger.
func WithLogger(l Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithVerifier overrides the cryptographic verifier applied to reported
// candidates.
func WithVerifier(v verify.Verifier) Option {
	return func(e *Engine) {
		if v != nil {
			e.verifier = v
		}
	}
}

// WithSink sets where confirmed matches are persisted.
func WithSink(s sink.Sink) Option {
	return func(e *Engine) {
		if s != nil {
			e.sink = s
		}
	}
}
