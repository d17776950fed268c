package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/magicpin/internal/domain"
)

func TestSnapshotInsightPrompt(t *testing.T) {
	t.Parallel()

	prompt := SnapshotInsightPrompt([]string{"A", "B", "C", "D"})
	assert.Contains(t, prompt, `Email 1: "A"`)
	assert.Contains(t, prompt, `Email 3: "C"`)
	assert.NotContains(t, prompt, "Email 4", "prompt keeps only the last three subjects")
}

func TestInsightListenerRecordsBotTurn(t *testing.T) {
	t.Parallel()

	state := newInMemoryStateRepo("alice@example.com")
	transcripts := newInMemoryTranscriptRepo()
	model := &stubModelClient{reply: "read the invoice email first"}

	listener := NewInsightListener(model, NewTranscriptService(transcripts, state), testLogger())
	listener.SubjectsRefreshed(context.Background(), domain.SubjectSnapshot{
		AccountID: "alice@example.com",
		Subjects:  []string{"Invoice", "Newsletter"},
	})

	log := transcripts.logs["alice@example.com"]
	require.Len(t, log, 1)
	assert.Equal(t, domain.SenderBot, log[0].Sender)
	assert.Equal(t, "read the invoice email first", log[0].Text)
}

func TestInsightListenerIgnoresEmptySnapshot(t *testing.T) {
	t.Parallel()

	state := newInMemoryStateRepo("alice@example.com")
	transcripts := newInMemoryTranscriptRepo()
	model := &stubModelClient{reply: "unused"}

	listener := NewInsightListener(model, NewTranscriptService(transcripts, state), testLogger())
	listener.SubjectsRefreshed(context.Background(), domain.SubjectSnapshot{AccountID: "alice@example.com"})

	assert.Empty(t, transcripts.logs)
}

func TestInsightListenerSwallowsModelFailure(t *testing.T) {
	t.Parallel()

	state := newInMemoryStateRepo("alice@example.com")
	transcripts := newInMemoryTranscriptRepo()
	model := &stubModelClient{err: &domain.ModelError{Message: "down"}}

	listener := NewInsightListener(model, NewTranscriptService(transcripts, state), testLogger())
	listener.SubjectsRefreshed(context.Background(), domain.SubjectSnapshot{
		AccountID: "alice@example.com",
		Subjects:  []string{"A"},
	})

	assert.Empty(t, transcripts.logs)
}
