package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/bnema/magicpin/internal/domain"
	"github.com/bnema/magicpin/internal/ports"
)

// InsightListener reacts to a refreshed snapshot by asking the model for
// insights over the latest subjects and recording the reply as a bot turn.
// Like the poll itself it is best-effort; a failed inference is logged only.
type InsightListener struct {
	model       ports.ModelClient
	transcripts *TranscriptService
	log         *logrus.Logger
}

var _ ports.SubjectListener = (*InsightListener)(nil)

func NewInsightListener(model ports.ModelClient, transcripts *TranscriptService, log *logrus.Logger) *InsightListener {
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &InsightListener{
		model:       model,
		transcripts: transcripts,
		log:         log,
	}
}

func (l *InsightListener) SubjectsRefreshed(ctx context.Context, snapshot domain.SubjectSnapshot) {
	if len(snapshot.Subjects) == 0 {
		return
	}

	text, err := l.model.Converse(ctx, SnapshotInsightPrompt(snapshot.Subjects))
	if err != nil {
		l.log.WithError(err).Warn("snapshot insight request failed")
		return
	}

	if err := l.transcripts.Append(ctx, domain.SenderBot, text); err != nil {
		l.log.WithError(err).Warn("record snapshot insight")
	}
}

// SnapshotInsightPrompt asks for recommended actions over the most recent
// email subjects.
func SnapshotInsightPrompt(subjects []string) string {
	if len(subjects) > domain.MaxSnapshotSubjects {
		subjects = subjects[:domain.MaxSnapshotSubjects]
	}

	lines := make([]string, 0, len(subjects))
	for i, subject := range subjects {
		lines = append(lines, fmt.Sprintf("Email %d: %q", i+1, subject))
	}

	return "You are a helpful assistant. Here are the user's last three email subjects:\n" +
		strings.Join(lines, "\n") +
		"\n\nPlease provide insights, recommended actions, or next steps based on these emails."
}
