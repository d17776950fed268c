package ports

import (
	"context"

	"github.com/bnema/magicpin/internal/domain"
)

// TranscriptRepository stores the bounded per-account conversation log.
// Append enforces the cap: after the write, only the newest
// domain.MaxTranscriptTurns turns remain.
type TranscriptRepository interface {
	Append(ctx context.Context, id domain.AccountID, turn domain.Turn) error
	Load(ctx context.Context, id domain.AccountID) ([]domain.Turn, error)
	Clear(ctx context.Context, id domain.AccountID) error
}
