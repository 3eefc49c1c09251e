package commands

import (
	"context"
	"time"

	"ordering/internal/core/domain/model/order"
)

// CreateOrderCommandHandler places a new order in PENDING and announces its initial
// history entry like any other transition.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory, notifier)
//	snapshot, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("order creation failed: %w", err)
//	}
//	// snapshot.Status == order.Pending
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   *TransitionNotifier
	now        func() time.Time
}

// NewCreateOrderCommandHandler creates a handler for order intake.
func NewCreateOrderCommandHandler(uowFactory OrderUoWFactory, notifier *TransitionNotifier) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		now:        time.Now,
	}
}

// Handle persists the order and returns its snapshot.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (order.Snapshot, error) {
	if err := cmd.Validate(); err != nil {
		return order.Snapshot{}, err
	}

	o, err := order.NewOrder(cmd.OrderID(), cmd.Total(), cmd.PaymentMethod(), cmd.Fulfillment(), h.now().UTC())
	if err != nil {
		return order.Snapshot{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return order.Snapshot{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return order.Snapshot{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return order.Snapshot{}, err
	}

	snapshot := o.Snapshot()
	h.notifier.Notify(ctx, snapshot, o.LastEntry())
	return snapshot, nil
}
