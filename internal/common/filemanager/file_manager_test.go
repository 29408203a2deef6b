package filemanager

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aleister1102/holidaysync/internal/common/errorwrapper"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileManager_WriteAndRead(t *testing.T) {
	fm := NewFileManager(zerolog.Nop())
	path := filepath.Join(t.TempDir(), "nested", "dir", "gbr.json")

	require.NoError(t, fm.WriteFile(path, []byte(`{"a":1}`), DefaultFileWriteOptions()))

	data, err := fm.ReadFile(path, DefaultFileReadOptions())
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "atomic write must not leave temp files behind")
}

func TestFileManager_NonAtomicOverwrite(t *testing.T) {
	fm := NewFileManager(zerolog.Nop())
	path := filepath.Join(t.TempDir(), "out.json")
	opts := DefaultFileWriteOptions()
	opts.Atomic = false

	require.NoError(t, fm.WriteFile(path, []byte("first version"), opts))
	require.NoError(t, fm.WriteFile(path, []byte("v2"), opts))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "v2", string(data))
}

func TestFileManager_ReadMissingFile(t *testing.T) {
	fm := NewFileManager(zerolog.Nop())

	_, err := fm.ReadFile(filepath.Join(t.TempDir(), "missing.json"), DefaultFileReadOptions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errorwrapper.ErrNotFound))
}

func TestFileManager_ReadRejectsDirectoryAndOversize(t *testing.T) {
	fm := NewFileManager(zerolog.Nop())
	dir := t.TempDir()

	_, err := fm.ReadFile(dir, DefaultFileReadOptions())
	var vErr *errorwrapper.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "path", vErr.Field)

	path := filepath.Join(dir, "big.json")
	require.NoError(t, os.WriteFile(path, []byte("0123456789"), 0644))
	opts := DefaultFileReadOptions()
	opts.MaxSize = 4
	_, err = fm.ReadFile(path, opts)
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "file_size", vErr.Field)
}

func TestFileManager_EnsureDirectoryOnFile(t *testing.T) {
	fm := NewFileManager(zerolog.Nop())
	path := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	err := fm.EnsureDirectory(path, 0755)
	require.Error(t, err)
}
