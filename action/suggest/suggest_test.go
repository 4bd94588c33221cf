package suggest

import (
	"context"
	"errors"
	"strings"
	"testing"

	contractx "github.com/PBASC-Fred/fredai-action-server/action/contract"
	mailerx "github.com/PBASC-Fred/fredai-action-server/pkg/mailer"
)

type fakeTransport struct {
	err       error
	envelopes []mailerx.Envelope
}

func (f *fakeTransport) Send(_ context.Context, env mailerx.Envelope) error {
	f.envelopes = append(f.envelopes, env)
	return f.err
}

func TestRunSuccessEmitsConfirmation(t *testing.T) {
	t.Parallel()

	fake := &fakeTransport{}
	a := New(fake, "bot@example.com", "team@example.com")

	messages, _, err := a.Run(context.Background(), contractx.Snapshot{MessageText: "add gift wrapping"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(messages) != 1 || messages[0].Text != confirmText {
		t.Fatalf("unexpected messages: %#v", messages)
	}

	if len(fake.envelopes) != 1 {
		t.Fatalf("expected exactly 1 submission, got %d", len(fake.envelopes))
	}
	env := fake.envelopes[0]
	if env.From != "bot@example.com" || env.To != "team@example.com" {
		t.Fatalf("unexpected addresses: %#v", env)
	}
	if env.Subject != subjectText {
		t.Fatalf("unexpected subject: %q", env.Subject)
	}
	if !strings.Contains(env.HTMLBody, "add gift wrapping") {
		t.Fatalf("body does not embed the suggestion: %q", env.HTMLBody)
	}
}

func TestRunEscapesSuggestionHTML(t *testing.T) {
	t.Parallel()

	fake := &fakeTransport{}
	a := New(fake, "bot@example.com", "team@example.com")

	_, _, err := a.Run(context.Background(), contractx.Snapshot{MessageText: `<script>alert("x")</script>`})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	body := fake.envelopes[0].HTMLBody
	if strings.Contains(body, "<script>") {
		t.Fatalf("suggestion was embedded unescaped: %q", body)
	}
	if !strings.Contains(body, "&lt;script&gt;") {
		t.Fatalf("suggestion was not escaped: %q", body)
	}
}

func TestRunTransportFailureEmitsSoftFallback(t *testing.T) {
	t.Parallel()

	fake := &fakeTransport{err: errors.New("535 authentication failed")}
	a := New(fake, "bot@example.com", "team@example.com")

	messages, _, err := a.Run(context.Background(), contractx.Snapshot{MessageText: "add gift wrapping"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(messages) != 1 || messages[0].Text != fallbackText {
		t.Fatalf("unexpected messages: %#v", messages)
	}
	if strings.Contains(messages[0].Text, "authentication") {
		t.Fatalf("fallback must not reveal the technical failure: %q", messages[0].Text)
	}
	if len(fake.envelopes) != 1 {
		t.Fatalf("expected exactly 1 submission attempt, got %d", len(fake.envelopes))
	}
}

func TestRunMissingCredentialsDegradesLikeRuntimeFailure(t *testing.T) {
	t.Parallel()

	fake := &fakeTransport{err: mailerx.ErrMissingCredentials}
	a := New(fake, "", "team@example.com")

	messages, _, err := a.Run(context.Background(), contractx.Snapshot{MessageText: "add gift wrapping"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if messages[0].Text != fallbackText {
		t.Fatalf("message = %q, want exact fallback", messages[0].Text)
	}
}
