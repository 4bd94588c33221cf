package advice

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/PBASC-Fred/fredai-action-server/action/contract"
)

const (
	actionName     = "action_financial_advice"
	promptTemplate = "As a financial advisor, please provide helpful advice for: %s"
	fallbackText   = "I apologize, but I'm having trouble accessing my financial knowledge right now. Please try again in a moment."
)

// Generator produces advisory text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Action answers a financial question with generated advice. Any failure of
// the generator degrades to a fixed fallback message; the turn never surfaces
// an error to the dialogue engine.
type Action struct {
	generator Generator
}

func New(generator Generator) *Action {
	return &Action{generator: generator}
}

func (a *Action) Name() string {
	return actionName
}

func (a *Action) Run(ctx context.Context, snap contractx.Snapshot) ([]contractx.Message, []contractx.Event, error) {
	// An empty user message is valid: the template then asks for generic advice.
	prompt := fmt.Sprintf(promptTemplate, snap.MessageText)

	text, err := a.generator.Generate(ctx, prompt)
	if err != nil {
		log.Warn().Err(err).Str("action", actionName).Msg("text generation failed, using fallback")
		return []contractx.Message{{Text: fallbackText}}, nil, nil
	}
	// The outgoing message must never be empty, whatever the generator says.
	if strings.TrimSpace(text) == "" {
		log.Warn().Str("action", actionName).Msg("generator returned empty text, using fallback")
		return []contractx.Message{{Text: fallbackText}}, nil, nil
	}

	return []contractx.Message{{Text: text}}, nil, nil
}
