package fsutil_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropsrv/drop/internal/fsutil"
)

func TestPathExists(t *testing.T) {
	dir := t.TempDir()

	ok, err := fsutil.PathExists(dir)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = fsutil.PathExists(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIsDir(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	ok, err := fsutil.IsDir(dir)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = fsutil.IsDir(file)
	require.NoError(t, err)
	assert.False(t, ok)
}
