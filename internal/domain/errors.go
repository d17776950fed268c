package domain

import "errors"

var (
	// ErrNoToken means no cached credential exists and none could be minted
	// without user interaction.
	ErrNoToken = errors.New("no authentication token")

	// ErrNoAuth is the single fatal precondition of an aggregation run.
	ErrNoAuth = errors.New("no credential for aggregation")

	// ErrNoActiveAccount means an account-scoped operation ran with no
	// account bound; transcript appends in that state are dropped.
	ErrNoActiveAccount = errors.New("no active account")
)

// ModelError carries an upstream inference failure. The message text is
// passed through verbatim, whether it came from a non-2xx status, a
// transport failure, or an error field in a 200 body.
type ModelError struct {
	Message string
}

func (e *ModelError) Error() string {
	return e.Message
}
