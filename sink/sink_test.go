package sink

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0Regardless0/Regardless-CUDA-ETH/fingerprint"
)

func TestFileSinkAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matches.log")

	s, err := NewFileSink(path)
	require.NoError(t, err)

	var key fingerprint.CandidateKey
	key[31] = 1
	var fp fingerprint.Fingerprint
	fp[0] = 0x4a

	require.NoError(t, s.Write(key, fp))
	require.NoError(t, s.Write(key, fp))
	require.NoError(t, s.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)

	fields := strings.Fields(lines[0])
	require.Len(t, fields, 2)
	assert.Equal(t, key.String(), fields[0])
	assert.Equal(t, fp.String(), fields[1])
}

func TestFileSinkReopenAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matches.log")

	var key fingerprint.CandidateKey
	var fp fingerprint.Fingerprint

	s, err := NewFileSink(path)
	require.NoError(t, err)
	require.NoError(t, s.Write(key, fp))
	require.NoError(t, s.Close())

	s, err = NewFileSink(path)
	require.NoError(t, err)
	require.NoError(t, s.Write(key, fp))
	require.NoError(t, s.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(string(data)), "\n"), 2)
}

func TestDiscard(t *testing.T) {
	var d Discard
	assert.NoError(t, d.Write(fingerprint.CandidateKey{}, fingerprint.Fingerprint{}))
}
