// Package file stores the bearer token in a mode-0600 file. It serves as a
// fallback for hosts without a usable keychain.
package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bnema/magicpin/internal/domain"
	"github.com/bnema/magicpin/internal/ports"
)

const (
	storeDirMode   = 0o700
	secretFileMode = 0o600
	tokenFileName  = "gmailToken"
)

type Store struct {
	root string
	mu   sync.RWMutex
}

var _ ports.TokenStore = (*Store)(nil)

func NewStore(root string) *Store {
	return &Store{root: filepath.Clean(root)}
}

func (s *Store) Get(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.tokenPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", domain.ErrNoToken
		}
		return "", fmt.Errorf("read file secret: %w", err)
	}

	return string(data), nil
}

func (s *Store) Set(ctx context.Context, token string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.root, storeDirMode); err != nil {
		return fmt.Errorf("create file secret directory: %w", err)
	}

	if err := os.WriteFile(s.tokenPath(), []byte(token), secretFileMode); err != nil {
		return fmt.Errorf("write file secret: %w", err)
	}

	return nil
}

func (s *Store) Delete(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.tokenPath())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete file secret: %w", err)
	}

	return nil
}

func (s *Store) tokenPath() string {
	return filepath.Join(s.root, tokenFileName)
}
