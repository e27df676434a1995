// Package sink persists confirmed matches. Only pairs that survived
// verification reach a sink; the engine never writes raw candidate hits.
package sink

import (
	"fmt"
	"os"
	"sync"

	"github.com/0Regardless0/Regardless-CUDA-ETH/fingerprint"
)

// Sink receives verified (key, fingerprint) pairs.
type Sink interface {
	// Write records one confirmed match.
	Write(key fingerprint.CandidateKey, fp fingerprint.Fingerprint) error
}

// FileSink appends one "hex(key) hex(fingerprint)" line per confirmed match
// to a local file. Safe for concurrent use.
type FileSink struct {
	mu sync.Mutex
	f  *os.File
}

// NewFileSink opens (or creates) the append-only match log at path.
func NewFileSink(path string) (*FileSink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("sink: open %s: %w", path, err)
	}
	return &FileSink{f: f}, nil
}

// Write appends one confirmed match. Matches are rare and each one matters,
// so every line is synced to disk before Write returns.
func (s *FileSink) Write(key fingerprint.CandidateKey, fp fingerprint.Fingerprint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := fmt.Fprintf(s.f, "%s %s\n", key, fp); err != nil {
		return err
	}
	return s.f.Sync()
}

// Close closes the underlying file.
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.f.Close()
}

// Discard is a Sink that drops everything. Useful for dry runs and tests.
type Discard struct{}

func (Discard) Write(fingerprint.CandidateKey, fingerprint.Fingerprint) error { return nil }
