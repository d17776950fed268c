package application

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/bnema/magicpin/internal/domain"
	"github.com/bnema/magicpin/internal/ports"
)

// Switcher drives the interactive account-switch handshake:
// authorization, identity resolution, then an atomic swap of the active
// account context. Nothing is mutated until a token has been minted.
type Switcher struct {
	authorizer  ports.Authorizer
	identity    ports.IdentityClient
	tokens      ports.TokenStore
	state       ports.StateRepository
	transcripts ports.TranscriptRepository
	poller      *SnippetPoller
	log         *logrus.Logger
}

func NewSwitcher(
	authorizer ports.Authorizer,
	identity ports.IdentityClient,
	tokens ports.TokenStore,
	state ports.StateRepository,
	transcripts ports.TranscriptRepository,
	poller *SnippetPoller,
	log *logrus.Logger,
) *Switcher {
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Switcher{
		authorizer:  authorizer,
		identity:    identity,
		tokens:      tokens,
		state:       state,
		transcripts: transcripts,
		poller:      poller,
		log:         log,
	}
}

// Switch runs the full handshake and returns the committed account together
// with its reloaded (possibly empty) transcript. A cancelled or failed
// authorization leaves every piece of state untouched.
func (s *Switcher) Switch(ctx context.Context) (domain.AccountID, []domain.Turn, error) {
	token, err := s.authorizer.Authorize(ctx)
	if err != nil {
		return "", nil, fmt.Errorf("interactive authorization: %w", err)
	}
	if token == "" {
		return "", nil, domain.ErrNoToken
	}

	// The token is committed first. If identity resolution fails below, the
	// token stays persisted while the account context is left unchanged;
	// that inconsistency window matches the upstream contract.
	if err := s.tokens.Set(ctx, token); err != nil {
		return "", nil, fmt.Errorf("persist switched token: %w", err)
	}

	email, err := s.identity.ResolveEmail(ctx, token)
	if err != nil {
		return "", nil, fmt.Errorf("resolve token identity: %w", err)
	}
	next := domain.AccountID(email)

	previous, err := s.state.ActiveAccount(ctx)
	if err != nil {
		return "", nil, fmt.Errorf("read active account: %w", err)
	}

	if previous != "" && previous != next {
		if err := s.transcripts.Clear(ctx, previous); err != nil {
			return "", nil, fmt.Errorf("clear previous account transcript: %w", err)
		}
	}

	if err := s.state.SetActiveAccount(ctx, next); err != nil {
		return "", nil, fmt.Errorf("commit active account: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"previous": previous,
		"account":  next,
	}).Info("account switched")

	if s.poller != nil {
		s.poller.Poll(ctx)
	}

	turns, err := s.transcripts.Load(ctx, next)
	if err != nil {
		return next, nil, fmt.Errorf("reload transcript: %w", err)
	}

	return next, turns, nil
}
