// Package keyring stores the bearer token in the operating system keychain.
package keyring

import (
	"context"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/bnema/magicpin/internal/domain"
	"github.com/bnema/magicpin/internal/ports"
)

const (
	defaultService = "magicpin"
	defaultKey     = "gmailToken"
)

type Store struct {
	service string
	key     string
}

var _ ports.TokenStore = (*Store)(nil)

func NewStore() *Store {
	return &Store{service: defaultService, key: defaultKey}
}

func (s *Store) Get(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	value, err := keyring.Get(s.service, s.key)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", domain.ErrNoToken
		}
		return "", fmt.Errorf("read keyring secret: %w", err)
	}

	return value, nil
}

func (s *Store) Set(ctx context.Context, token string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := keyring.Set(s.service, s.key, token); err != nil {
		return fmt.Errorf("write keyring secret: %w", err)
	}

	return nil
}

func (s *Store) Delete(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := keyring.Delete(s.service, s.key)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("delete keyring secret: %w", err)
	}

	return nil
}
