// Package engine drives the search: per iteration it fans all lanes out over
// a worker pool, each lane deriving one candidate key, projecting it and
// probing the corpus, then synchronizes, verifies whatever was reported and
// hands confirmed matches to the sink.
package engine

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/0Regardless0/Regardless-CUDA-ETH/collector"
	"github.com/0Regardless0/Regardless-CUDA-ETH/corpus"
	"github.com/0Regardless0/Regardless-CUDA-ETH/fingerprint"
	"github.com/0Regardless0/Regardless-CUDA-ETH/keygen"
	"github.com/0Regardless0/Regardless-CUDA-ETH/sink"
	"github.com/0Regardless0/Regardless-CUDA-ETH/verify"
)

// Logger is the minimal logging surface the engine needs. A
// *zap.SugaredLogger satisfies it directly.
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Infof(string, ...interface{})  {}
func (noopLogger) Errorf(string, ...interface{}) {}

// Stats are cumulative run counters, totals since New.
type Stats struct {
	Iterations uint64
	Candidates uint64
	Reported   uint64
	Confirmed  uint64
}

// Engine owns everything one search run needs: the resident corpus, the
// per-iteration result collector, the lane sizing and the verification and
// persistence collaborators. Construct once, Close once.
type Engine struct {
	store *corpus.Store
	coll  *collector.Collector

	blocks          int
	threadsPerBlock int
	lanes           uint64

	baseSeed uint64
	workers  int

	verbose  bool
	diagRate *rate.Limiter

	maxIterations uint64

	logger   Logger
	verifier verify.Verifier
	sink     sink.Sink

	iterations atomic.Uint64
	candidates atomic.Uint64
	reported   atomic.Uint64
	confirmed  atomic.Uint64

	closed atomic.Bool
}

// New creates an engine over a fully loaded corpus store. The engine takes
// ownership of the store and releases it on Close.
func New(store *corpus.Store, opts ...Option) (*Engine, error) {
	if store == nil {
		return nil, fmt.Errorf("engine: corpus store is required")
	}
	if !store.Complete() {
		return nil, fmt.Errorf("engine: incomplete corpus: %w", corpus.ErrShardFileMissing)
	}

	e := &Engine{
		store:           store,
		blocks:          DefaultBlocks,
		threadsPerBlock: DefaultThreadsPerBlock,
		workers:         runtime.GOMAXPROCS(0),
		diagRate:        rate.NewLimiter(rate.Every(time.Second), 1),
		logger:          noopLogger{},
		verifier:        verify.NewSecp256k1(),
		sink:            sink.Discard{},
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.blocks <= 0 || e.threadsPerBlock <= 0 {
		return nil, fmt.Errorf("engine: lane sizing must be positive, got %dx%d", e.blocks, e.threadsPerBlock)
	}
	if e.workers <= 0 {
		e.workers = 1
	}

	e.lanes = uint64(e.blocks) * uint64(e.threadsPerBlock)

	// One collector slot per lane: the structural bound that makes append
	// overflow impossible.
	e.coll = collector.New(e.blocks * e.threadsPerBlock)

	return e, nil
}

// Lanes returns the fixed number of lanes dispatched per iteration.
func (e *Engine) Lanes() uint64 {
	return e.lanes
}

// Stats returns a snapshot of the cumulative run counters.
func (e *Engine) Stats() Stats {
	return Stats{
		Iterations: e.iterations.Load(),
		Candidates: e.candidates.Load(),
		Reported:   e.reported.Load(),
		Confirmed:  e.confirmed.Load(),
	}
}

// RunIteration executes one full generate, project, match, collect pass.
//
// All lanes run logically in parallel with no cross-lane ordering; the only
// synchronization is the end-of-pass barrier, after which the collector may
// be read. The returned records are detached from the collector and stay
// valid across later iterations.
func (e *Engine) RunIteration(ctx context.Context, iteration uint64) ([]fingerprint.MatchRecord, error) {
	if e.closed.Load() {
		return nil, fmt.Errorf("engine: closed")
	}

	e.coll.Reset()
	seed := keygen.IterationSeed(e.baseSeed, iteration)

	var g errgroup.Group
	for w := 0; w < e.workers; w++ {
		first := uint64(w)
		g.Go(func() error {
			stride := uint64(e.workers)
			for lane := first; lane < e.lanes; lane += stride {
				key := keygen.Generate(seed, lane)
				fp := keygen.Project(key)
				if _, ok := e.store.Contains(fp); ok {
					e.coll.Append(fingerprint.MatchRecord{Key: key, Fingerprint: fp})
				}
			}
			return nil
		})
	}

	// Barrier: no collector read happens before every lane has finished.
	if err := g.Wait(); err != nil {
		return nil, err
	}

	e.iterations.Add(1)
	e.candidates.Add(e.lanes)
	e.reported.Add(uint64(e.coll.Count()))

	records := make([]fingerprint.MatchRecord, e.coll.Count())
	copy(records, e.coll.Records())
	return records, nil
}

// VerifyRecords re-derives the true fingerprint for each reported record and
// returns the confirmed pairs: those whose derived fingerprint is actually
// present in the corpus. Invalid scalars are logged and dropped.
func (e *Engine) VerifyRecords(records []fingerprint.MatchRecord) []fingerprint.MatchRecord {
	confirmed := make([]fingerprint.MatchRecord, 0, len(records))
	for _, rec := range records {
		derived, err := e.verifier.Derive(rec.Key)
		if err != nil {
			e.logger.Errorf("discarding reported candidate %s: %v", rec.Key, err)
			continue
		}
		if _, ok := e.store.Contains(derived); ok {
			confirmed = append(confirmed, fingerprint.MatchRecord{Key: rec.Key, Fingerprint: derived})
		}
	}
	return confirmed
}

// Run loops iterations until ctx is canceled or the configured iteration
// bound is reached. Cancellation is honored between iterations only; a pass
// in flight always completes its barrier first.
func (e *Engine) Run(ctx context.Context) error {
	start := time.Now()

	for iteration := uint64(0); ; iteration++ {
		// Idle state: the one safe shutdown point.
		if err := ctx.Err(); err != nil {
			return err
		}
		if e.maxIterations > 0 && iteration >= e.maxIterations {
			return nil
		}

		records, err := e.RunIteration(ctx, iteration)
		if err != nil {
			return err
		}

		for _, match := range e.VerifyRecords(records) {
			e.confirmed.Add(1)
			e.logger.Infof("confirmed match: key=%s fingerprint=%s", match.Key, match.Fingerprint)
			if err := e.sink.Write(match.Key, match.Fingerprint); err != nil {
				return fmt.Errorf("engine: persist match: %w", err)
			}
		}

		if e.verbose && e.diagRate.Allow() {
			stats := e.Stats()
			elapsed := time.Since(start).Seconds()
			e.logger.Infof("iteration %d: %d candidates tested, %d reported, %d confirmed, %.0f keys/s",
				iteration, stats.Candidates, stats.Reported, stats.Confirmed,
				float64(stats.Candidates)/elapsed)
		}
	}
}

// Close releases the corpus and everything resident with it. Idempotent.
func (e *Engine) Close() error {
	if e.closed.Swap(true) {
		return nil
	}
	return e.store.Close()
}
