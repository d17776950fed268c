package application

import (
	"context"
	"fmt"

	"github.com/bnema/magicpin/internal/domain"
	"github.com/bnema/magicpin/internal/ports"
)

// TranscriptService binds the per-account conversation log to the active
// account context. At most one log is active at a time; appends without a
// bound identity are dropped, not buffered.
type TranscriptService struct {
	repo  ports.TranscriptRepository
	state ports.StateRepository
}

func NewTranscriptService(repo ports.TranscriptRepository, state ports.StateRepository) *TranscriptService {
	return &TranscriptService{repo: repo, state: state}
}

// Append records a turn under the active account. It is a no-op when no
// account is bound.
func (s *TranscriptService) Append(ctx context.Context, sender domain.Sender, text string) error {
	account, err := s.state.ActiveAccount(ctx)
	if err != nil {
		return fmt.Errorf("read active account: %w", err)
	}
	if account == "" {
		return nil
	}

	if err := s.repo.Append(ctx, account, domain.Turn{Sender: sender, Text: text}); err != nil {
		return fmt.Errorf("append transcript turn: %w", err)
	}

	return nil
}

// Load returns at most the last domain.MaxTranscriptTurns turns for the
// given account; a never-seen account yields an empty sequence.
func (s *TranscriptService) Load(ctx context.Context, id domain.AccountID) ([]domain.Turn, error) {
	turns, err := s.repo.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load transcript: %w", err)
	}

	return turns, nil
}

// Clear removes the entire persisted log for an account.
func (s *TranscriptService) Clear(ctx context.Context, id domain.AccountID) error {
	if err := s.repo.Clear(ctx, id); err != nil {
		return fmt.Errorf("clear transcript: %w", err)
	}

	return nil
}

// Context returns the trailing n turns of the active account's transcript,
// oldest first. Without an active account the context is empty.
func (s *TranscriptService) Context(ctx context.Context, n int) ([]domain.Turn, error) {
	account, err := s.state.ActiveAccount(ctx)
	if err != nil {
		return nil, fmt.Errorf("read active account: %w", err)
	}
	if account == "" {
		return nil, nil
	}

	turns, err := s.Load(ctx, account)
	if err != nil {
		return nil, err
	}
	if len(turns) > n {
		turns = turns[len(turns)-n:]
	}

	return turns, nil
}
