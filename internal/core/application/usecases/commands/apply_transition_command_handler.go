package commands

import (
	"context"
	"errors"
	"time"

	"ordering/internal/core/domain/model/driver"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/domain/services"
	"ordering/internal/pkg/errs"
)

// ApplyTransitionCommandHandler is the single write path of the workflow. It loads the
// order, lets the transition engine validate and record the edge, and commits with a
// compare-and-swap on the state and version it loaded.
//
// Errors:
//   - errs.ObjectNotFoundError for an unknown order
//   - *order.TransitionError for refused transitions, including a lost compare-and-swap
//   - anything else is an infrastructure failure
//
// Example:
//
//	handler := NewApplyTransitionCommandHandler(uowFactory, services.NewTransitionEngine(), notifier)
//	snapshot, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, order.ErrStaleStateConflict) {
//	    // re-read the order and let the actor decide again
//	}
type ApplyTransitionCommandHandler struct {
	uowFactory UoWFactory
	engine     services.TransitionEngine
	notifier   *TransitionNotifier
	now        func() time.Time
}

func NewApplyTransitionCommandHandler(
	uowFactory UoWFactory,
	engine services.TransitionEngine,
	notifier *TransitionNotifier,
) ApplyTransitionCommandHandler {
	return ApplyTransitionCommandHandler{
		uowFactory: uowFactory,
		engine:     engine,
		notifier:   notifier,
		now:        time.Now,
	}
}

// Handle applies the transition and returns the committed snapshot.
// Conflicts are never retried here; the actor has to look at the order again.
func (h *ApplyTransitionCommandHandler) Handle(ctx context.Context, cmd ApplyTransitionCommand) (order.Snapshot, error) {
	if err := cmd.Validate(); err != nil {
		return order.Snapshot{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return order.Snapshot{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return order.Snapshot{}, err
	}
	loadedStatus, loadedVersion := o.Status(), o.Version()

	drv, err := h.lookupDriver(ctx, uow, cmd)
	if err != nil {
		return order.Snapshot{}, err
	}

	entry, err := h.engine.Apply(o, cmd.request(), drv, h.now())
	if err != nil {
		return order.Snapshot{}, err
	}

	committed, err := orderRepo.CommitIfState(ctx, loadedStatus, loadedVersion, o)
	if err != nil {
		return order.Snapshot{}, err
	}
	if !committed {
		return order.Snapshot{}, order.NewStaleStateConflictError(
			loadedStatus, cmd.Event(), cmd.Role(), "order was changed by another actor")
	}

	if err = uow.Commit(ctx); err != nil {
		return order.Snapshot{}, err
	}

	snapshot := o.Snapshot()
	h.notifier.Notify(ctx, snapshot, entry)
	return snapshot, nil
}

// lookupDriver loads the driver named by an assign-driver request. An unknown id is
// not an error here; the engine refuses the assignment.
func (h *ApplyTransitionCommandHandler) lookupDriver(ctx context.Context, uow UoW, cmd ApplyTransitionCommand) (*driver.Driver, error) {
	if cmd.Event() != order.EventAssignDriver || cmd.DriverID() == "" {
		return nil, nil
	}

	drv, err := uow.DriverRepository().Get(ctx, cmd.DriverID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return drv, nil
}
