package suggest

import (
	"bytes"
	"context"
	"html/template"

	"github.com/rs/zerolog/log"

	contractx "github.com/PBASC-Fred/fredai-action-server/action/contract"
	mailerx "github.com/PBASC-Fred/fredai-action-server/pkg/mailer"
)

const (
	actionName   = "action_submit_suggestion"
	subjectText  = "New Service Suggestion for PBASC"
	confirmText  = "Thank you for your suggestion! It has been sent to our team for review."
	fallbackText = "Thank you for your suggestion! I've noted it down for our team."
)

// html/template escapes the suggestion text when it is interpolated.
var bodyTemplate = template.Must(template.New("suggestion").Parse(`<html><body>
<h2 style="color: #014B7B;">New Service Suggestion</h2>
<p style="font-size: 16px;">A new suggestion has been submitted via the PBASC chatbot:</p>
<p style="font-size: 16px; color: #4CAF50;">&quot;{{.Suggestion}}&quot;</p>
</body></html>`))

// Transport submits one notification envelope per call.
type Transport interface {
	Send(ctx context.Context, env mailerx.Envelope) error
}

// Action forwards the user's suggestion to the team mailbox. Transport failure
// is answered with a softer acknowledgement instead of a technical error; the
// suggestion is lost in that case, which is an accepted trade-off for never
// blocking the conversation.
type Action struct {
	transport Transport
	from      string
	to        string
}

func New(transport Transport, from, to string) *Action {
	return &Action{transport: transport, from: from, to: to}
}

func (a *Action) Name() string {
	return actionName
}

func (a *Action) Run(ctx context.Context, snap contractx.Snapshot) ([]contractx.Message, []contractx.Event, error) {
	var body bytes.Buffer
	if err := bodyTemplate.Execute(&body, struct{ Suggestion string }{snap.MessageText}); err != nil {
		log.Error().Err(err).Str("action", actionName).Msg("render suggestion body failed, using fallback")
		return []contractx.Message{{Text: fallbackText}}, nil, nil
	}

	env := mailerx.Envelope{
		From:     a.from,
		To:       a.to,
		Subject:  subjectText,
		HTMLBody: body.String(),
	}

	if err := a.transport.Send(ctx, env); err != nil {
		log.Warn().Err(err).Str("action", actionName).Msg("suggestion submission failed, using fallback")
		return []contractx.Message{{Text: fallbackText}}, nil, nil
	}

	return []contractx.Message{{Text: confirmText}}, nil, nil
}
