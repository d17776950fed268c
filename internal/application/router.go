package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/bnema/magicpin/internal/domain"
	"github.com/bnema/magicpin/internal/ports"
)

// assignmentKeywords classifies interactive input: any case-insensitive
// substring match routes to the assignment path.
var assignmentKeywords = []string{
	"assignment", "assignments", "hw", "homework", "check my", "my assignments",
	"classroom", "due", "coursework", "projects", "tasks",
}

// SummaryRenderer formats an aggregation result for presentation.
type SummaryRenderer func(records []domain.AssignmentRecord) string

// Router classifies interactive input into an assignment query or freeform
// chat and dispatches to the aggregator or the model bridge.
type Router struct {
	transcripts *TranscriptService
	aggregator  *Aggregator
	model       ports.ModelClient
	render      SummaryRenderer
	log         *logrus.Logger
}

func NewRouter(transcripts *TranscriptService, aggregator *Aggregator, model ports.ModelClient, render SummaryRenderer, log *logrus.Logger) *Router {
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Router{
		transcripts: transcripts,
		aggregator:  aggregator,
		model:       model,
		render:      render,
		log:         log,
	}
}

// IsAssignmentCommand reports whether the input routes to the assignment path.
func IsAssignmentCommand(input string) bool {
	lower := strings.ToLower(input)
	for _, keyword := range assignmentKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// Handle processes one interactive input and returns the bot reply. Upstream
// failures come back as a "Bot Error: ..." reply, never as a fatal error;
// the caller can retry immediately.
func (r *Router) Handle(ctx context.Context, input string) (string, error) {
	if IsAssignmentCommand(input) {
		return r.handleAssignments(ctx, input)
	}
	return r.handleChat(ctx, input)
}

func (r *Router) handleAssignments(ctx context.Context, input string) (string, error) {
	if err := r.transcripts.Append(ctx, domain.SenderUser, input); err != nil {
		return "", err
	}

	records, err := r.aggregator.Aggregate(ctx)
	if err != nil {
		reply := "Bot Error: " + err.Error()
		if appendErr := r.transcripts.Append(ctx, domain.SenderBot, "Error fetching assignments: "+err.Error()); appendErr != nil {
			return "", appendErr
		}
		return reply, nil
	}

	summary := r.render(records)
	if err := r.transcripts.Append(ctx, domain.SenderBot, summary); err != nil {
		return "", err
	}

	return summary, nil
}

func (r *Router) handleChat(ctx context.Context, input string) (string, error) {
	if err := r.transcripts.Append(ctx, domain.SenderUser, input); err != nil {
		return "", err
	}

	turns, err := r.transcripts.Context(ctx, domain.ContextTurns)
	if err != nil {
		return "", err
	}

	prompt := buildChatPrompt(turns, input)

	text, err := r.model.Converse(ctx, prompt)
	if err != nil {
		r.log.WithError(err).Warn("chat request failed")
		return "Bot Error: " + err.Error(), nil
	}

	if err := r.transcripts.Append(ctx, domain.SenderBot, text); err != nil {
		return "", err
	}

	return text, nil
}

// buildChatPrompt replays the trailing transcript as "<sender>: <text>"
// lines followed by a "Bot:" cue. When nothing is recorded yet (no active
// account), the raw input stands in so the model still sees the message.
func buildChatPrompt(turns []domain.Turn, input string) string {
	if len(turns) == 0 {
		turns = []domain.Turn{{Sender: domain.SenderUser, Text: input}}
	}

	var b strings.Builder
	for _, turn := range turns {
		fmt.Fprintf(&b, "%s: %s\n", turn.Sender, turn.Text)
	}
	b.WriteString("Bot:")

	return b.String()
}
