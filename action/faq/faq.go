package faq

import (
	"context"
	_ "embed"
	"strings"

	contractx "github.com/PBASC-Fred/fredai-action-server/action/contract"
)

const actionName = "action_get_faq"

//go:embed content/faq.txt
var faqRaw string

// Action replies with the embedded FAQ text. It makes no external call and
// cannot fail.
type Action struct{}

func New() *Action {
	return &Action{}
}

func (a *Action) Name() string {
	return actionName
}

func (a *Action) Run(_ context.Context, _ contractx.Snapshot) ([]contractx.Message, []contractx.Event, error) {
	return []contractx.Message{{Text: strings.TrimSpace(faqRaw)}}, nil, nil
}
