package application

import (
	"context"
	"fmt"

	"github.com/bnema/magicpin/internal/domain"
	"github.com/bnema/magicpin/internal/ports"
)

// CredentialSource yields the process-wide bearer credential. Non-interactive
// acquisition never prompts; interactive acquisition always does and
// overwrites the cached token on success.
type CredentialSource interface {
	Acquire(ctx context.Context, interactive bool) (domain.Credential, error)
}

type CredentialService struct {
	tokens     ports.TokenStore
	state      ports.StateRepository
	authorizer ports.Authorizer
}

var _ CredentialSource = (*CredentialService)(nil)

func NewCredentialService(tokens ports.TokenStore, state ports.StateRepository, authorizer ports.Authorizer) *CredentialService {
	return &CredentialService{
		tokens:     tokens,
		state:      state,
		authorizer: authorizer,
	}
}

func (s *CredentialService) Acquire(ctx context.Context, interactive bool) (domain.Credential, error) {
	if !interactive {
		return s.acquireSilent(ctx)
	}

	token, err := s.authorizer.Authorize(ctx)
	if err != nil {
		return domain.Credential{}, fmt.Errorf("interactive authorization: %w", err)
	}

	// The token is persisted before it is returned so a crash after minting
	// cannot lose it.
	if err := s.tokens.Set(ctx, token); err != nil {
		return domain.Credential{}, fmt.Errorf("persist minted token: %w", err)
	}

	return s.withAccount(ctx, token)
}

// acquireSilent is the non-interactive path. Outside a browser platform
// there is no silent minting primitive, so the cache read is the whole
// silent path; a miss is domain.ErrNoToken.
func (s *CredentialService) acquireSilent(ctx context.Context) (domain.Credential, error) {
	token, err := s.tokens.Get(ctx)
	if err != nil {
		return domain.Credential{}, fmt.Errorf("read cached token: %w", err)
	}
	if token == "" {
		return domain.Credential{}, domain.ErrNoToken
	}

	return s.withAccount(ctx, token)
}

func (s *CredentialService) withAccount(ctx context.Context, token string) (domain.Credential, error) {
	account, err := s.state.ActiveAccount(ctx)
	if err != nil {
		return domain.Credential{}, fmt.Errorf("read active account: %w", err)
	}

	return domain.Credential{Token: token, AccountID: account}, nil
}
