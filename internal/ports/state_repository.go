package ports

import (
	"context"

	"github.com/bnema/magicpin/internal/domain"
)

// StateRepository persists the account context and the last subject
// snapshot. The active account is the only consistency-sensitive record:
// callers capture it once per operation and fence their writes on it.
type StateRepository interface {
	ActiveAccount(ctx context.Context) (domain.AccountID, error)
	SetActiveAccount(ctx context.Context, id domain.AccountID) error
	Snapshot(ctx context.Context, id domain.AccountID) (domain.SubjectSnapshot, error)
	SaveSnapshot(ctx context.Context, snapshot domain.SubjectSnapshot) error
}
