package tokenstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "token")

	store, err := NewFileStore(path)
	require.NoError(t, err)

	_, err = store.Read(ctx)
	assert.ErrorIs(t, err, ErrNotFound, "fresh store should report a missing token")

	require.NoError(t, store.Write(ctx, "abc"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	got, err := store.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc", got)

	require.NoError(t, store.Write(ctx, "def"))
	got, err = store.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "def", got, "writes are last-write-wins")

	require.NoError(t, store.Delete(ctx))
	_, err = store.Read(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, store.Delete(ctx), "deleting a missing token is not an error")
}

func TestFileStoreRejectsInsecurePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(path, []byte("abc\n"), 0644))

	store, err := NewFileStore(path)
	require.NoError(t, err)

	_, err = store.Read(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "insecure permissions")
}

func TestFileStoreEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(path, []byte("  \n"), 0600))

	store, err := NewFileStore(path)
	require.NoError(t, err)

	_, err = store.Read(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStoreCanceledContext(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "token"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, store.Write(ctx, "abc"), context.Canceled)
	_, err = store.Read(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewFileStoreRequiresPath(t *testing.T) {
	_, err := NewFileStore("")
	assert.Error(t, err)
}

func TestSessionPathPrefersRuntimeDir(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "/run/user/1000")
	assert.Equal(t, filepath.Join("/run/user/1000", "duslar", "token"), SessionPath())
}
