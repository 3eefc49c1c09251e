package order

import (
	"errors"
	"fmt"
)

// Workflow error taxonomy. Every error returned by the transition engine for an
// expected business condition wraps exactly one of these sentinels.
var (
	// ErrStaleStateConflict: the order is no longer in the state the caller acted on.
	// The caller should re-read the order; it is never retried automatically.
	ErrStaleStateConflict = errors.New("stale state conflict")

	// ErrForbiddenTransition: the role (or this particular actor) may not perform the edge.
	ErrForbiddenTransition = errors.New("forbidden transition")

	// ErrOrderTerminal: the order is Completed or Rejected.
	ErrOrderTerminal = errors.New("order is terminal")

	// ErrInvalidReconciliationInput: the collected cash amount is missing or unusable.
	ErrInvalidReconciliationInput = errors.New("invalid reconciliation input")

	// ErrInvalidTransitionInput: other payload validation failures (reason, driver id).
	ErrInvalidTransitionInput = errors.New("invalid transition input")
)

// TransitionError describes a refused transition request.
type TransitionError struct {
	// Kind is one of the sentinels above.
	Kind   error
	Status Status
	Event  Event
	Role   Role
	Detail string
}

func (e *TransitionError) Error() string {
	msg := fmt.Sprintf("%s: %s by %s in %s", e.Kind, e.Event, e.Role, e.Status)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *TransitionError) Unwrap() error {
	return e.Kind
}

func NewStaleStateConflictError(current Status, event Event, role Role, detail string) *TransitionError {
	return &TransitionError{Kind: ErrStaleStateConflict, Status: current, Event: event, Role: role, Detail: detail}
}

func NewForbiddenTransitionError(current Status, event Event, role Role, detail string) *TransitionError {
	return &TransitionError{Kind: ErrForbiddenTransition, Status: current, Event: event, Role: role, Detail: detail}
}

func NewOrderTerminalError(current Status, event Event, role Role) *TransitionError {
	return &TransitionError{Kind: ErrOrderTerminal, Status: current, Event: event, Role: role}
}

func NewInvalidReconciliationInputError(current Status, event Event, role Role, cause error) *TransitionError {
	return &TransitionError{Kind: ErrInvalidReconciliationInput, Status: current, Event: event, Role: role, Detail: causeText(cause)}
}

func NewInvalidTransitionInputError(current Status, event Event, role Role, cause error) *TransitionError {
	return &TransitionError{Kind: ErrInvalidTransitionInput, Status: current, Event: event, Role: role, Detail: causeText(cause)}
}

func causeText(cause error) string {
	if cause == nil {
		return ""
	}
	return cause.Error()
}
