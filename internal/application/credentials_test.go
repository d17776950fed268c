package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/magicpin/internal/domain"
)

func TestCredentialServiceSilentReturnsCachedToken(t *testing.T) {
	t.Parallel()

	tokens := &inMemoryTokenStore{token: "cached-token"}
	state := newInMemoryStateRepo("alice@example.com")
	svc := NewCredentialService(tokens, state, &stubAuthorizer{})

	cred, err := svc.Acquire(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, "cached-token", cred.Token)
	assert.Equal(t, domain.AccountID("alice@example.com"), cred.AccountID)
}

func TestCredentialServiceSilentFailsWithoutToken(t *testing.T) {
	t.Parallel()

	tokens := &inMemoryTokenStore{}
	state := newInMemoryStateRepo("")
	authorizer := &stubAuthorizer{token: "never-used"}
	svc := NewCredentialService(tokens, state, authorizer)

	_, err := svc.Acquire(context.Background(), false)
	require.ErrorIs(t, err, domain.ErrNoToken)
	assert.Zero(t, authorizer.calls, "silent acquisition must never prompt")
}

func TestCredentialServiceInteractiveOverwritesCache(t *testing.T) {
	t.Parallel()

	tokens := &inMemoryTokenStore{token: "stale-token"}
	state := newInMemoryStateRepo("alice@example.com")
	svc := NewCredentialService(tokens, state, &stubAuthorizer{token: "fresh-token"})

	cred, err := svc.Acquire(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, "fresh-token", cred.Token)
	assert.Equal(t, "fresh-token", tokens.token, "minted token must be persisted")
}

func TestCredentialServiceInteractiveFailsWhenPersistFails(t *testing.T) {
	t.Parallel()

	setErr := errors.New("disk full")
	tokens := &inMemoryTokenStore{setErr: setErr}
	state := newInMemoryStateRepo("")
	svc := NewCredentialService(tokens, state, &stubAuthorizer{token: "fresh-token"})

	_, err := svc.Acquire(context.Background(), true)
	require.ErrorIs(t, err, setErr)
}

func TestCredentialServiceInteractivePropagatesAuthorizerError(t *testing.T) {
	t.Parallel()

	authErr := errors.New("user cancelled")
	svc := NewCredentialService(&inMemoryTokenStore{}, newInMemoryStateRepo(""), &stubAuthorizer{err: authErr})

	_, err := svc.Acquire(context.Background(), true)
	require.ErrorIs(t, err, authErr)
}
