// Package chain composes two token stores: a primary backend tried first and
// a fallback used when the primary is unavailable. A clean miss on the
// primary (no stored token) still consults the fallback, so a token written
// before the keychain became usable stays reachable.
package chain

import (
	"context"
	"errors"
	"fmt"

	filestore "github.com/bnema/magicpin/internal/adapters/secrets/file"
	keyringstore "github.com/bnema/magicpin/internal/adapters/secrets/keyring"
	"github.com/bnema/magicpin/internal/domain"
	"github.com/bnema/magicpin/internal/ports"
)

type Store struct {
	primary  ports.TokenStore
	fallback ports.TokenStore
}

var _ ports.TokenStore = (*Store)(nil)

var (
	errNilPrimaryStore  = errors.New("primary token store is nil")
	errNilFallbackStore = errors.New("fallback token store is nil")
)

func NewStore(primary ports.TokenStore, fallback ports.TokenStore) (*Store, error) {
	if primary == nil {
		return nil, errNilPrimaryStore
	}
	if fallback == nil {
		return nil, errNilFallbackStore
	}

	return &Store{primary: primary, fallback: fallback}, nil
}

func NewKeyringFirstWithFileFallback(fileRoot string) (*Store, error) {
	return NewStore(keyringstore.NewStore(), filestore.NewStore(fileRoot))
}

func (s *Store) Get(ctx context.Context) (string, error) {
	token, err := s.primary.Get(ctx)
	if err == nil {
		return token, nil
	}
	if shouldSkipFallback(err) {
		return "", err
	}

	fallbackToken, fallbackErr := s.fallback.Get(ctx)
	if fallbackErr == nil {
		return fallbackToken, nil
	}
	// A clean miss on the fallback means no token exists anywhere, even if
	// the primary backend itself was unavailable.
	if errors.Is(fallbackErr, domain.ErrNoToken) {
		return "", fmt.Errorf("%w (primary backend: %w)", domain.ErrNoToken, err)
	}

	return "", fmt.Errorf("primary backend get failed: %w; fallback backend get failed: %w", err, fallbackErr)
}

func (s *Store) Set(ctx context.Context, token string) error {
	err := s.primary.Set(ctx, token)
	if err == nil {
		return nil
	}
	if shouldSkipFallback(err) {
		return err
	}

	fallbackErr := s.fallback.Set(ctx, token)
	if fallbackErr == nil {
		return nil
	}

	return fmt.Errorf("primary backend set failed: %w; fallback backend set failed: %w", err, fallbackErr)
}

func (s *Store) Delete(ctx context.Context) error {
	err := s.primary.Delete(ctx)
	if err == nil {
		// Clear both backends so a stale fallback copy cannot resurface.
		return s.fallback.Delete(ctx)
	}
	if shouldSkipFallback(err) {
		return err
	}

	fallbackErr := s.fallback.Delete(ctx)
	if fallbackErr == nil {
		return nil
	}

	return fmt.Errorf("primary backend delete failed: %w; fallback backend delete failed: %w", err, fallbackErr)
}

func shouldSkipFallback(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
