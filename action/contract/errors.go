package contract

import "errors"

var (
	ErrUnknownAction   = errors.New("no action registered for name")
	ErrDuplicateAction = errors.New("action name registered twice")
)
