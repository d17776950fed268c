package ports

import (
	"context"

	"github.com/bnema/magicpin/internal/domain"
)

// MailClient is the narrow contract over the upstream mail API.
type MailClient interface {
	ListRecentMessageIDs(ctx context.Context, token string, max int) ([]string, error)
	Subject(ctx context.Context, token string, messageID string) (string, error)
}

// CourseworkClient is the narrow contract over the upstream coursework API.
type CourseworkClient interface {
	ListActiveCourses(ctx context.Context, token string) ([]domain.Course, error)
	ListCourseWork(ctx context.Context, token string, courseID string) ([]domain.AssignmentRecord, error)
}

// IdentityClient resolves the identity that owns a bearer token.
type IdentityClient interface {
	ResolveEmail(ctx context.Context, token string) (string, error)
}

// ModelClient forwards a prompt to the inference proxy. Any upstream failure
// surfaces as *domain.ModelError.
type ModelClient interface {
	Converse(ctx context.Context, prompt string) (string, error)
}

// Authorizer runs an interactive authorization handshake and returns the
// minted bearer token.
type Authorizer interface {
	Authorize(ctx context.Context) (string, error)
}

// SubjectListener receives the snapshot published after every poll cycle,
// changed or not. Implementations must tolerate repeated identical
// notifications.
type SubjectListener interface {
	SubjectsRefreshed(ctx context.Context, snapshot domain.SubjectSnapshot)
}

// SubjectListenerFunc adapts a function to SubjectListener.
type SubjectListenerFunc func(ctx context.Context, snapshot domain.SubjectSnapshot)

func (f SubjectListenerFunc) SubjectsRefreshed(ctx context.Context, snapshot domain.SubjectSnapshot) {
	f(ctx, snapshot)
}
