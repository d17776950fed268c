package ports

import "context"

// TokenStore holds the single process-wide bearer token. Get returns
// domain.ErrNoToken when nothing is stored.
type TokenStore interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, token string) error
	Delete(ctx context.Context) error
}
