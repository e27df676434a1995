// Command cudaeth runs the brute-force fingerprint search against a local
// corpus directory.
package main

import (
	"context"
	cryptorand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	cudaeth "github.com/0Regardless0/Regardless-CUDA-ETH"
	"github.com/0Regardless0/Regardless-CUDA-ETH/blobstore"
	"github.com/0Regardless0/Regardless-CUDA-ETH/resource"
)

var (
	corpusDir       string
	matchLog        string
	baseSeed        uint64
	blocks          int
	threadsPerBlock int
	workers         int
	iterations      uint64
	memoryLimit     int64
	verbose         bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "cudaeth",
	Short: "Brute-force search of the 256-bit key space against a fingerprint corpus",
	Long: `cudaeth loads a 256-shard fingerprint corpus and loops search
iterations until interrupted. Candidate hits are re-verified with the real
secp256k1/Keccak derivation; only confirmed matches are printed and appended
to the match log.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: run,
}

func init() {
	rootCmd.Flags().StringVar(&corpusDir, "corpus-dir", "corpus", "directory holding the 256 shard files (00.bin .. ff.bin)")
	rootCmd.Flags().StringVar(&matchLog, "out", "matches.log", "append-only log of confirmed matches")
	rootCmd.Flags().Uint64Var(&baseSeed, "seed", 0, "base seed for candidate generation (0 = derive from current time)")
	rootCmd.Flags().IntVar(&blocks, "blocks", 0, "lane grid blocks (0 = default sizing)")
	rootCmd.Flags().IntVar(&threadsPerBlock, "threads-per-block", 0, "lane grid threads per block (0 = default sizing)")
	rootCmd.Flags().IntVar(&workers, "workers", 0, "worker goroutines per iteration (0 = GOMAXPROCS)")
	rootCmd.Flags().Uint64Var(&iterations, "iterations", 0, "stop after this many iterations (0 = run until interrupted)")
	rootCmd.Flags().Int64Var(&memoryLimit, "memory-limit", 0, "hard cap in bytes for resident corpus memory (0 = unlimited)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "per-iteration diagnostic output")
}

func run(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sugar := logger.Sugar()

	if baseSeed == 0 {
		baseSeed = randomSeed()
	}

	opts := []cudaeth.Option{
		cudaeth.WithBaseSeed(baseSeed),
		cudaeth.WithMatchLog(matchLog),
		cudaeth.WithLogger(sugar),
		cudaeth.WithVerbose(verbose),
		cudaeth.WithMaxIterations(iterations),
		cudaeth.WithResourceController(resource.NewController(resource.Config{
			MemoryLimitBytes:   memoryLimit,
			MaxConcurrentLoads: 8,
		})),
	}
	if blocks > 0 && threadsPerBlock > 0 {
		opts = append(opts, cudaeth.WithLanes(blocks, threadsPerBlock))
	}
	if workers > 0 {
		opts = append(opts, cudaeth.WithWorkers(workers))
	}

	h, err := cudaeth.Open(ctx, blobstore.NewLocalStore(corpusDir), opts...)
	if err != nil {
		return fmt.Errorf("startup: %w", err)
	}
	defer h.Close()

	sugar.Infof("corpus loaded, %d lanes per iteration, seed %#x", h.Engine().Lanes(), baseSeed)

	err = h.Run(ctx)
	if errors.Is(err, context.Canceled) {
		stats := h.Stats()
		sugar.Infof("interrupted after %d iterations, %d candidates, %d confirmed",
			stats.Iterations, stats.Candidates, stats.Confirmed)
		return nil
	}
	return err
}

// randomSeed draws a base seed from the system entropy pool, falling back to
// the clock if that fails.
func randomSeed() uint64 {
	var b [8]byte
	if _, err := cryptorand.Read(b[:]); err != nil {
		return uint64(time.Now().UnixNano())
	}
	return binary.BigEndian.Uint64(b[:])
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}
