package ports

import (
	"context"

	"ordering/internal/core/domain/model/order"
)

// TransitionListener is notified after a history entry was committed. The initial
// "place" entry of a new order is delivered the same way.
//
// Listeners run after the transaction; an error is logged by the caller and never
// undoes the transition.
type TransitionListener interface {
	OnTransition(ctx context.Context, snapshot order.Snapshot, entry order.HistoryEntry) error
}
