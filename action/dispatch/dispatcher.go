package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/PBASC-Fred/fredai-action-server/action/contract"
)

// Dispatcher resolves an action name to a registered Action and invokes it.
// The registry is fixed at construction; dispatch is a map lookup.
type Dispatcher struct {
	actions map[string]contractx.Action
}

func New(actions ...contractx.Action) (*Dispatcher, error) {
	registry := make(map[string]contractx.Action, len(actions))
	for _, a := range actions {
		if a == nil {
			return nil, errors.New("nil action passed to dispatcher")
		}
		name := strings.TrimSpace(a.Name())
		if name == "" {
			return nil, errors.New("action with empty name passed to dispatcher")
		}
		if _, ok := registry[name]; ok {
			return nil, fmt.Errorf("%w: %s", contractx.ErrDuplicateAction, name)
		}
		registry[name] = a
	}
	return &Dispatcher{actions: registry}, nil
}

func MustNew(actions ...contractx.Action) *Dispatcher {
	d, err := New(actions...)
	if err != nil {
		panic(err)
	}
	return d
}

// Invoke runs the action registered under name and returns its output
// unmodified. Failure handling belongs to the actions themselves; the only
// error Invoke introduces is ErrUnknownAction, which is an operator-facing
// configuration fault, never rendered to the end user.
func (d *Dispatcher) Invoke(ctx context.Context, name string, snap contractx.Snapshot) ([]contractx.Message, []contractx.Event, error) {
	a, ok := d.actions[name]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", contractx.ErrUnknownAction, name)
	}

	log.Debug().Str("action", name).Str("sender_id", snap.SenderID).Msg("invoking action")
	return a.Run(ctx, snap)
}

// Names returns the registered action names in sorted order.
func (d *Dispatcher) Names() []string {
	names := make([]string, 0, len(d.actions))
	for name := range d.actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
