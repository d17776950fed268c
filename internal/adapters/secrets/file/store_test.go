package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/magicpin/internal/domain"
)

func TestGetMissingTokenReturnsErrNoToken(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir())

	_, err := store.Get(context.Background())
	require.ErrorIs(t, err, domain.ErrNoToken)
}

func TestSetAndGetRoundTrip(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir())
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "ya29.token"))

	token, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ya29.token", token)
}

func TestSetCreatesRootDirectory(t *testing.T) {
	t.Parallel()

	root := filepath.Join(t.TempDir(), "nested", "secrets")
	store := NewStore(root)

	require.NoError(t, store.Set(context.Background(), "ya29.token"))

	info, err := os.Stat(filepath.Join(root, "gmailToken"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestDeleteRemovesToken(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir())
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "ya29.token"))
	require.NoError(t, store.Delete(ctx))

	_, err := store.Get(ctx)
	require.ErrorIs(t, err, domain.ErrNoToken)
}

func TestDeleteMissingTokenIsNoop(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir())

	require.NoError(t, store.Delete(context.Background()))
}

func TestCanceledContextRejected(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Get(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
