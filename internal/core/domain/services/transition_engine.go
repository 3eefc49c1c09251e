package services

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"ordering/internal/core/domain/model/driver"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/pkg/errs"
)

// TransitionRequest is what an actor asks the engine to do with one order.
type TransitionRequest struct {
	Event   order.Event
	Role    order.Role
	ActorID string

	// ExpectedStatus is the state the actor saw when acting. Unknown means the caller
	// did not say; the engine then assumes the state the event starts from.
	ExpectedStatus order.Status

	// Reason is required by reject and release-driver.
	Reason string
	// DriverID is required by assign-driver.
	DriverID string
	// Collected is the cash amount as typed by the actor, e.g. "18.50".
	Collected string
}

// TransitionEngine applies the transition table to an order.
//
// Apply checks, in this order:
//  1. the order is not terminal (ErrOrderTerminal), unless the caller named a live
//     expected state: that caller lost a race and gets ErrStaleStateConflict from step 3
//  2. the event exists and the role may request it at all (ErrForbiddenTransition)
//  3. the order is still in the expected state (ErrStaleStateConflict)
//  4. the (state, event, role) row exists (ErrForbiddenTransition)
//  5. the row's guard passes
//
// On success the entry is recorded on the order in memory. Persisting it with a
// compare-and-swap on the previous state and version is the caller's job; a lost
// swap is ErrStaleStateConflict as well.
//
// Example usage:
//
//	engine := services.NewTransitionEngine()
//	entry, err := engine.Apply(o, services.TransitionRequest{
//	    Event:   order.EventConfirm,
//	    Role:    order.RoleCoordinator,
//	    ActorID: "C1",
//	}, nil, time.Now())
type TransitionEngine struct {
	reconciler CashReconciler
}

func NewTransitionEngine() TransitionEngine {
	return TransitionEngine{reconciler: NewCashReconciler()}
}

// NewTransitionEngineWithReconciler returns an engine using a custom cash tolerance.
func NewTransitionEngineWithReconciler(reconciler CashReconciler) TransitionEngine {
	return TransitionEngine{reconciler: reconciler}
}

// Apply validates req against o and records the resulting history entry.
// drv is the driver named by an assign-driver request, or nil.
func (e TransitionEngine) Apply(
	o *order.Order,
	req TransitionRequest,
	drv *driver.Driver,
	now time.Time,
) (order.HistoryEntry, error) {
	if err := o.Validate(); err != nil {
		return order.HistoryEntry{}, err
	}
	if strings.TrimSpace(req.ActorID) == "" {
		return order.HistoryEntry{}, errs.NewValueIsRequiredError("actorId")
	}

	current := o.Status()
	lostRace := req.ExpectedStatus != order.Unknown && !req.ExpectedStatus.IsTerminal()
	if current.IsTerminal() && !lostRace {
		return order.HistoryEntry{}, order.NewOrderTerminalError(current, req.Event, req.Role)
	}

	if err := req.Event.Validate(); err != nil {
		return order.HistoryEntry{}, order.NewForbiddenTransitionError(current, req.Event, req.Role, "unknown event")
	}
	if !rolesByEvent[req.Event][req.Role] {
		return order.HistoryEntry{}, order.NewForbiddenTransitionError(current, req.Event, req.Role,
			fmt.Sprintf("%s may not request %s", req.Role, req.Event))
	}

	if expected := e.expectedStatus(current, req); expected != current {
		return order.HistoryEntry{}, order.NewStaleStateConflictError(current, req.Event, req.Role,
			fmt.Sprintf("expected %s", expected))
	}

	r, ok := lookupRule(current, req.Event, req.Role)
	if !ok {
		return order.HistoryEntry{}, order.NewForbiddenTransitionError(current, req.Event, req.Role, "no such edge")
	}

	result, err := r.guard(guardInput{order: o, req: req, driver: drv, reconciler: e.reconciler})
	if err != nil {
		return order.HistoryEntry{}, err
	}

	return o.Record(order.HistoryEntry{
		From:      current,
		To:        r.to,
		Event:     req.Event,
		ActorRole: req.Role,
		ActorID:   strings.TrimSpace(req.ActorID),
		At:        now.UTC(),
		Metadata:  maps.Clone(result.metadata),
	}, result.change)
}

// expectedStatus resolves the state the caller acted on. Without an explicit value it is
// the current state when the event can start there, otherwise the event's first source.
func (e TransitionEngine) expectedStatus(current order.Status, req TransitionRequest) order.Status {
	if req.ExpectedStatus != order.Unknown {
		return req.ExpectedStatus
	}
	sources := fromByEvent[req.Event]
	if len(sources) == 0 || slices.Contains(sources, current) {
		return current
	}
	return sources[0]
}
