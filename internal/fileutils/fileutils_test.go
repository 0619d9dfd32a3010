package fileutils_test

import (
	"os"
	"path/filepath"
	"testing"

	"fjacquet/fin-insights/internal/fileutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileExists(t *testing.T) {
	tmpDir := t.TempDir()

	testFile := filepath.Join(tmpDir, "test.txt")
	require.NoError(t, os.WriteFile(testFile, []byte("test"), 0600))

	assert.True(t, fileutils.FileExists(testFile))
	assert.False(t, fileutils.FileExists(filepath.Join(tmpDir, "nonexistent.txt")))
	// directories are not files
	assert.False(t, fileutils.FileExists(tmpDir))
}

func TestDirectoryExists(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.txt")
	require.NoError(t, os.WriteFile(testFile, []byte("test"), 0600))

	assert.True(t, fileutils.DirectoryExists(tmpDir))
	assert.False(t, fileutils.DirectoryExists(testFile))
	assert.False(t, fileutils.DirectoryExists(filepath.Join(tmpDir, "missing")))
}

func TestEnsureDirectoryExists(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	require.NoError(t, fileutils.EnsureDirectoryExists(dir, 0750))
	assert.True(t, fileutils.DirectoryExists(dir))
	// idempotent
	require.NoError(t, fileutils.EnsureDirectoryExists(dir, 0750))
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ledger.yaml")

	require.NoError(t, fileutils.WriteFileAtomic(path, []byte("first"), 0600))
	require.NoError(t, fileutils.WriteFileAtomic(path, []byte("second"), 0600))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files are cleaned up")
}

func TestWriteFileAtomic_MissingDirectory(t *testing.T) {
	err := fileutils.WriteFileAtomic(filepath.Join(t.TempDir(), "missing", "x"), []byte("x"), 0600)
	assert.ErrorContains(t, err, "failed to create temporary file")
}

func TestFirstExisting(t *testing.T) {
	dir := t.TempDir()
	present := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(present, nil, 0600))

	got, ok := fileutils.FirstExisting("", filepath.Join(dir, "nope.yaml"), present)
	assert.True(t, ok)
	assert.Equal(t, present, got)

	_, ok = fileutils.FirstExisting(filepath.Join(dir, "nope.yaml"))
	assert.False(t, ok)
}
