package blobstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStoreOpen(t *testing.T) {
	dir := t.TempDir()
	content := []byte{0x4a, 0x00, 0x01}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "4a.bin"), content, 0o644))

	s := NewLocalStore(dir)
	b, err := s.Open(context.Background(), "4a.bin")
	require.NoError(t, err)
	defer b.Close()

	data, err := b.Bytes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, content, data)
	assert.Equal(t, int64(len(content)), b.Size())
}

func TestLocalStoreMissing(t *testing.T) {
	s := NewLocalStore(t.TempDir())
	_, err := s.Open(context.Background(), "ff.bin")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	s.Put("00.bin", []byte{1, 2, 3})

	b, err := s.Open(context.Background(), "00.bin")
	require.NoError(t, err)
	defer b.Close()

	data, err := b.Bytes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, data)

	_, err = s.Open(context.Background(), "01.bin")
	assert.True(t, errors.Is(err, ErrNotFound))
}
