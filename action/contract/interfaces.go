package contract

import "context"

// Action is a named unit of work invoked once per conversation turn.
//
// Implementations are stateless across invocations apart from configuration
// captured at construction, and must be safe for concurrent use. Expected
// external failures (unreachable service, bad credentials, malformed payloads)
// are absorbed inside Run and replaced with a fixed fallback Message; Run
// returns a non-nil error only for faults the operator has to see.
type Action interface {
	Name() string
	Run(ctx context.Context, snap Snapshot) ([]Message, []Event, error)
}
