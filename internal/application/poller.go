package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/bnema/magicpin/internal/domain"
	"github.com/bnema/magicpin/internal/ports"
)

// SnippetPoller refreshes the recent-subject snapshot for the active
// account. Polling is best-effort: every failure is logged and swallowed so
// a background cycle can never surface an error to the user.
type SnippetPoller struct {
	creds     CredentialSource
	mail      ports.MailClient
	state     ports.StateRepository
	listeners []ports.SubjectListener
	log       *logrus.Logger
}

func NewSnippetPoller(creds CredentialSource, mail ports.MailClient, state ports.StateRepository, log *logrus.Logger) *SnippetPoller {
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &SnippetPoller{
		creds: creds,
		mail:  mail,
		state: state,
		log:   log,
	}
}

// Subscribe registers a listener for refreshed snapshots. Listeners are
// notified after every completed cycle, changed or not, and must be
// idempotent to repeated identical notifications.
func (p *SnippetPoller) Subscribe(listener ports.SubjectListener) {
	p.listeners = append(p.listeners, listener)
}

// Poll runs one refresh cycle. The previous snapshot stays visible whenever
// any step fails.
func (p *SnippetPoller) Poll(ctx context.Context) {
	cred, err := p.creds.Acquire(ctx, false)
	if err != nil {
		p.log.WithError(err).Warn("snippet refresh skipped: no credential")
		return
	}

	// The account captured here fences the whole cycle: a switch committed
	// while requests are in flight must not let stale subjects land under
	// the new identity.
	account := cred.AccountID

	ids, err := p.mail.ListRecentMessageIDs(ctx, cred.Token, domain.MaxSnapshotSubjects)
	if err != nil {
		p.log.WithError(err).Warn("snippet refresh skipped: list messages")
		return
	}

	subjects := make([]string, 0, len(ids))
	for _, id := range ids {
		subject, err := p.mail.Subject(ctx, cred.Token, id)
		if err != nil {
			p.log.WithError(err).WithField("message_id", id).Warn("snippet refresh skipped: fetch subject")
			return
		}
		if subject == "" {
			subject = domain.NoSubjectPlaceholder
		}
		subjects = append(subjects, subject)
	}

	snapshot := domain.SubjectSnapshot{AccountID: account, Subjects: subjects}

	previous, err := p.state.Snapshot(ctx, account)
	if err != nil {
		p.log.WithError(err).Warn("snippet refresh: read previous snapshot")
	} else {
		p.log.WithFields(logrus.Fields{
			"account": account,
			"changed": !snapshot.Equal(previous),
		}).Debug("snippet refresh completed")
	}

	current, err := p.state.ActiveAccount(ctx)
	if err != nil {
		p.log.WithError(err).Warn("snippet refresh skipped: read active account")
		return
	}
	if current != account {
		p.log.WithFields(logrus.Fields{
			"issued_for": account,
			"active":     current,
		}).Warn("snippet refresh discarded: account switched mid-flight")
		return
	}

	// Persisted unconditionally: an unchanged snapshot is rewritten with the
	// same values and listeners are still notified.
	if err := p.state.SaveSnapshot(ctx, snapshot); err != nil {
		p.log.WithError(err).Warn("snippet refresh skipped: save snapshot")
		return
	}

	for _, listener := range p.listeners {
		listener.SubjectsRefreshed(ctx, snapshot)
	}
}
