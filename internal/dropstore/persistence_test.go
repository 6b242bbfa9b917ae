package dropstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersistenceEnsureDirectoryCreates(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "drop")

	p, err := newPersistence(dir)
	require.NoError(t, err)
	require.NotNil(t, p)
}

func TestPersistenceEnsureDirectoryNoopIfExists(t *testing.T) {
	dir := t.TempDir()

	_, err := newPersistence(dir)
	require.NoError(t, err)
}

func TestPersistenceEnsureDirectoryFatalIfFile(t *testing.T) {
	base := t.TempDir()
	file := filepath.Join(base, "notadir")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	_, err := newPersistence(file)
	assert.Error(t, err)
}

func TestPersistenceWriteReadRemove(t *testing.T) {
	dir := t.TempDir()
	p, err := newPersistence(dir)
	require.NoError(t, err)

	hash := "abcd1234"
	require.NoError(t, p.write(hash, []byte("eiei")))

	data, err := p.read(hash)
	require.NoError(t, err)
	assert.Equal(t, []byte("eiei"), data)

	require.NoError(t, p.remove(hash))

	_, err = p.read(hash)
	assert.Error(t, err)
}

func TestPersistenceReadMissingFails(t *testing.T) {
	dir := t.TempDir()
	p, err := newPersistence(dir)
	require.NoError(t, err)

	_, err = p.read("deadbeef")
	assert.Error(t, err)
}

func TestPersistenceRemoveMissingFails(t *testing.T) {
	dir := t.TempDir()
	p, err := newPersistence(dir)
	require.NoError(t, err)

	err = p.remove("deadbeef")
	assert.Error(t, err)
}

func TestPersistenceRejectsNameWithSeparator(t *testing.T) {
	dir := t.TempDir()
	p, err := newPersistence(dir)
	require.NoError(t, err)

	err = p.write("../escape", []byte("x"))
	assert.ErrorIs(t, err, ErrInvalidName)

	err = p.write("a/b", []byte("x"))
	assert.ErrorIs(t, err, ErrInvalidName)
}
