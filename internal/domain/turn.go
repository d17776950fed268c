package domain

type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

const (
	// MaxTranscriptTurns bounds a per-account transcript; oldest turns are
	// evicted first once the cap is exceeded.
	MaxTranscriptTurns = 100

	// ContextTurns is how many trailing turns are replayed into a chat prompt.
	ContextTurns = 10
)

// Turn is one message in a per-account conversation transcript.
type Turn struct {
	Sender Sender
	Text   string
}
