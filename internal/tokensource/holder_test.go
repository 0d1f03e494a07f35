package tokensource

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rockrashit19/Duslar/internal/tokenstore"
)

// failingStore accepts reads but fails every write.
type failingStore struct {
	tokenstore.TokenStore
}

func (failingStore) Write(context.Context, string) error { return errors.New("disk full") }

func TestHolderInitialValue(t *testing.T) {
	ctx := context.Background()

	empty, err := NewHolder(ctx, tokenstore.NewMemoryStore(""))
	require.NoError(t, err)
	_, ok := empty.Get()
	assert.False(t, ok, "missing entry means no token")

	seeded, err := NewHolder(ctx, tokenstore.NewMemoryStore("T0"))
	require.NoError(t, err)
	token, ok := seeded.Get()
	assert.True(t, ok)
	assert.Equal(t, "T0", token)
}

func TestHolderPersistence(t *testing.T) {
	ctx := context.Background()
	store := tokenstore.NewMemoryStore("")

	holder, err := NewHolder(ctx, store)
	require.NoError(t, err)

	require.NoError(t, holder.Set(ctx, "T1"))
	persisted, err := store.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "T1", persisted)

	// A new process sees the persisted value.
	reloaded, err := NewHolder(ctx, store)
	require.NoError(t, err)
	token, ok := reloaded.Get()
	assert.True(t, ok)
	assert.Equal(t, "T1", token)

	require.NoError(t, holder.Clear(ctx))
	_, ok = holder.Get()
	assert.False(t, ok)
	_, err = store.Read(ctx)
	assert.ErrorIs(t, err, tokenstore.ErrNotFound)
}

func TestHolderSetEmptyClears(t *testing.T) {
	ctx := context.Background()
	holder, err := NewHolder(ctx, tokenstore.NewMemoryStore("T0"))
	require.NoError(t, err)

	require.NoError(t, holder.Set(ctx, ""))
	_, ok := holder.Get()
	assert.False(t, ok)
}

func TestHolderPersistFailureKeepsMemoryValue(t *testing.T) {
	ctx := context.Background()
	holder, err := NewHolder(ctx, failingStore{tokenstore.NewMemoryStore("")})
	require.NoError(t, err)

	err = holder.Set(ctx, "T1")
	assert.Error(t, err)

	token, ok := holder.Get()
	assert.True(t, ok)
	assert.Equal(t, "T1", token)
}

func TestHolderReadOnlyStore(t *testing.T) {
	ctx := context.Background()
	t.Setenv("DUSLAR_TEST_TOKEN", "seed")

	store, err := tokenstore.NewEnvStore("DUSLAR_TEST_TOKEN")
	require.NoError(t, err)
	holder, err := NewHolder(ctx, store)
	require.NoError(t, err)
	token, _ := holder.Get()
	assert.Equal(t, "seed", token)

	require.NoError(t, holder.Set(ctx, "T1"))
	token, _ = holder.Get()
	assert.Equal(t, "T1", token)

	require.NoError(t, holder.Clear(ctx))
	_, ok := holder.Get()
	assert.False(t, ok)
}

func TestHolderToken(t *testing.T) {
	ctx := context.Background()
	holder, err := NewHolder(ctx, tokenstore.NewMemoryStore(""))
	require.NoError(t, err)

	_, err = holder.Token()
	assert.ErrorIs(t, err, ErrNoToken)

	require.NoError(t, holder.Set(ctx, "T1"))
	tok, err := holder.Token()
	require.NoError(t, err)
	assert.Equal(t, "T1", tok.AccessToken)
	assert.Equal(t, "Bearer", tok.Type())
}

func TestNewHolderRequiresStore(t *testing.T) {
	_, err := NewHolder(context.Background(), nil)
	assert.Error(t, err)
}
