package ports

import (
	"context"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
)

// OrderRepository is the Order Record Store: durable keyed storage of one record per
// order with its append-only history.
type OrderRepository interface {
	// Add persists a newly placed order with its initial history entry.
	// Returns an error if an order with the same id already exists.
	Add(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order with its complete history.
	// Returns errs.ObjectNotFoundError when the id is unknown.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// CommitIfState persists the aggregate only if the stored order is still in
	// expectedStatus at expectedVersion, appending the history entries recorded since.
	// It reports false, with no error, when another writer got there first.
	//
	// Example:
	//   ok, err := repo.CommitIfState(ctx, order.Pending, 1, o)
	//   if err == nil && !ok {
	//       // somebody else moved the order; report a stale state conflict
	//   }
	CommitIfState(ctx context.Context, expectedStatus order.Status, expectedVersion int, aggregate *order.Order) (bool, error)

	// ListByStatus returns snapshots, without history, of every order in one of statuses.
	// An empty statuses list returns every order.
	ListByStatus(ctx context.Context, statuses ...order.Status) ([]order.Snapshot, error)
}
