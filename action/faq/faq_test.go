package faq

import (
	"context"
	"strings"
	"testing"

	contractx "github.com/PBASC-Fred/fredai-action-server/action/contract"
)

func TestRunAlwaysEmitsOneNonEmptyMessage(t *testing.T) {
	t.Parallel()

	a := New()
	if a.Name() != "action_get_faq" {
		t.Fatalf("unexpected name: %s", a.Name())
	}

	messages, events, err := a.Run(context.Background(), contractx.Snapshot{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(messages))
	}
	if strings.TrimSpace(messages[0].Text) == "" {
		t.Fatal("expected non-empty FAQ text")
	}
	if !strings.Contains(messages[0].Text, "frequently asked questions") {
		t.Fatalf("unexpected FAQ content: %q", messages[0].Text)
	}
	if len(events) != 0 {
		t.Fatalf("expected no events, got %#v", events)
	}
}
