package imagine

import (
	"context"
	"encoding/base64"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/PBASC-Fred/fredai-action-server/action/contract"
)

const (
	actionName   = "action_generate_image"
	triggerToken = "/imagine"
	usageText    = "Please provide a prompt for image generation. Use '/imagine [your prompt]'"
	captionText  = "Here's your generated image:"
	fallbackText = "I apologize, but I'm having trouble generating images right now. Please try again in a moment."
)

// Generator renders an image for a prompt and returns the raw raster bytes.
type Generator interface {
	Generate(ctx context.Context, prompt string) ([]byte, error)
}

// Action turns "/imagine <prompt>" into one message carrying a caption and the
// generated image as a data URI. A message with no prompt short-circuits to a
// usage hint without touching the generator; every generator failure degrades
// to a fixed fallback message.
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
	prompt := strings.TrimSpace(strings.ReplaceAll(snap.MessageText, triggerToken, ""))
	if prompt == "" {
		return []contractx.Message{{Text: usageText}}, nil, nil
	}

	raw, err := a.generator.Generate(ctx, prompt)
	if err != nil {
		log.Warn().Err(err).Str("action", actionName).Msg("image generation failed, using fallback")
		return []contractx.Message{{Text: fallbackText}}, nil, nil
	}

	dataURI := "data:image/png;base64," + base64.StdEncoding.EncodeToString(raw)
	return []contractx.Message{{Text: captionText, Image: dataURI}}, nil, nil
}
