package cudaeth

import (
	"github.com/0Regardless0/Regardless-CUDA-ETH/engine"
	"github.com/0Regardless0/Regardless-CUDA-ETH/resource"
	"github.com/0Regardless0/Regardless-CUDA-ETH/sink"
	"github.com/0Regardless0/Regardless-CUDA-ETH/verify"
)

type config struct {
	rc           *resource.Controller
	matchLogPath string

	blocks          int
	threadsPerBlock int
	baseSeed        uint64
	workers         int
	verbose         bool
	maxIterations   uint64
	logger          engine.Logger
	verifier        verify.Verifier
	sink            sink.Sink
}

func defaultConfig() *config {
	return &config{
		rc: resource.NewController(resource.Config{
			MaxConcurrentLoads: 8,
		}),
		blocks:          engine.DefaultBlocks,
		threadsPerBlock: engine.DefaultThreadsPerBlock,
	}
}

func (c *config) engineOptions() []engine.Option {
	opts := []engine.Option{
		engine.WithLanes(c.blocks, c.threadsPerBlock),
		engine.WithBaseSeed(c.baseSeed),
		engine.WithVerbose(c.verbose),
		engine.WithMaxIterations(c.maxIterations),
	}
	if c.workers > 0 {
		opts = append(opts, engine.WithWorkers(c.workers))
	}
	if c.logger != nil {
		opts = append(opts, engine.WithLogger(c.logger))
	}
	if c.verifier != nil {
		opts = append(opts, engine.WithVerifier(c.verifier))
	}
	if c.sink != nil {
		opts = append(opts, engine.WithSink(c.sink))
	}
	return opts
}

// Option configures Open.
type Option func(*config)

// WithResourceController sets the controller that accounts corpus memory and
// throttles shard loads.
func WithResourceController(rc *resource.Controller) Option {
	return func(c *config) {
		if rc != nil {
			c.rc = rc
		}
	}
}

// WithLanes sets the lane grid: lanes per iteration = blocks *
// threadsPerBlock.
func WithLanes(blocks, threadsPerBlock int) Option {
	return func(c *config) {
		c.blocks = blocks
		c.threadsPerBlock = threadsPerBlock
	}
}

// WithBaseSeed sets the run's base seed.
func WithBaseSeed(seed uint64) Option {
	return func(c *config) {
		c.baseSeed = seed
	}
}

// WithWorkers sets the goroutine count executing each iteration's lanes.
func WithWorkers(n int) Option {
	return func(c *config) {
		c.workers = n
	}
}

// WithVerbose enables per-iteration diagnostics.
func WithVerbose(verbose bool) Option {
	return func(c *config) {
		c.verbose = verbose
	}
}

// WithMaxIterations bounds the run; 0 means loop until canceled.
func WithMaxIterations(n uint64) Option {
	return func(c *config) {
		c.maxIterations = n
	}
}

// WithLogger sets the logger. A *zap.SugaredLogger satisfies engine.Logger.
func WithLogger(l engine.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithMatchLog persists confirmed matches to an append-only log at path.
// The Hunter owns the file and closes it with Close.
func WithMatchLog(path string) Option {
	return func(c *config) {
		c.matchLogPath = path
	}
}

// WithVerifier overrides the cryptographic verifier.
func WithVerifier(v verify.Verifier) Option {
	return func(c *config) {
		c.verifier = v
	}
}

// WithSink sets a custom persistence sink. Ignored when WithMatchLog is also
// given.
func WithSink(s sink.Sink) Option {
	return func(c *config) {
		c.sink = s
	}
}
