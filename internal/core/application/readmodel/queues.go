// Package readmodel keeps the per-role work queues dashboards poll. It is a
// projection of committed transitions and is never consulted by the transition
// engine; a stale queue only shows an order that a transition will then refuse.
package readmodel

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"
	"sync"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/pkg/errs"
)

// roleStates lists which states appear in each role's queue.
var roleStates = map[order.Role][]order.Status{
	order.RoleCoordinator: {order.Pending, order.Ready, order.Delivered},
	order.RoleKitchen:     {order.Confirmed, order.Preparing},
	order.RoleDriver:      {order.Ready, order.OutForDelivery},
}

// States returns the queue states of role.
func States(role order.Role) []order.Status {
	return slices.Clone(roleStates[role])
}

// SnapshotSource is where Rebuild reads the authoritative state from.
type SnapshotSource interface {
	ListByStatus(ctx context.Context, statuses ...order.Status) ([]order.Snapshot, error)
}

type entry struct {
	snapshot order.Snapshot
	seq      uint64
}

// Queues is the in-process projection. It implements ports.TransitionListener.
type Queues struct {
	mu      sync.RWMutex
	orders  map[kernel.UUID]entry
	removed map[kernel.UUID]uint64
	seq     uint64

	// lastRebuildSeq is where the previous rebuild started. Tombstones survive one
	// full rebuild interval so late notifications still find them.
	lastRebuildSeq uint64

	rebuildMu sync.Mutex
	logger    *slog.Logger
}

func NewQueues(logger *slog.Logger) *Queues {
	return &Queues{
		orders:  make(map[kernel.UUID]entry),
		removed: make(map[kernel.UUID]uint64),
		logger:  logger.With("component", "read_model"),
	}
}

// OnTransition applies a committed snapshot. Older versions than the one held are
// ignored, so out-of-order deliveries cannot move an order backwards.
func (q *Queues) OnTransition(_ context.Context, snapshot order.Snapshot, _ order.HistoryEntry) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.seq++
	q.apply(snapshot.WithoutHistory(), q.seq)
	return nil
}

func (q *Queues) apply(snapshot order.Snapshot, seq uint64) {
	// A terminal order never comes back; anything arriving after its tombstone is older.
	if _, gone := q.removed[snapshot.ID]; gone {
		return
	}
	if current, ok := q.orders[snapshot.ID]; ok && current.snapshot.Version >= snapshot.Version {
		return
	}
	if snapshot.Status.IsTerminal() {
		delete(q.orders, snapshot.ID)
		q.removed[snapshot.ID] = seq
		return
	}
	q.orders[snapshot.ID] = entry{snapshot: snapshot, seq: seq}
}

// Rebuild replaces the projection with the non-terminal orders of source. Updates
// delivered while the source is being read win over what the source returned.
func (q *Queues) Rebuild(ctx context.Context, source SnapshotSource) error {
	q.rebuildMu.Lock()
	defer q.rebuildMu.Unlock()

	q.mu.RLock()
	startSeq := q.seq
	q.mu.RUnlock()

	snapshots, err := source.ListByStatus(ctx, activeStatuses()...)
	if err != nil {
		return fmt.Errorf("read model rebuild: %w", err)
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	rebuilt := make(map[kernel.UUID]entry, len(snapshots))
	for _, s := range snapshots {
		if _, gone := q.removed[s.ID]; gone {
			continue
		}
		rebuilt[s.ID] = entry{snapshot: s.WithoutHistory(), seq: startSeq}
	}
	for id, current := range q.orders {
		if current.seq <= startSeq {
			continue
		}
		if fresh, ok := rebuilt[id]; !ok || fresh.snapshot.Version < current.snapshot.Version {
			rebuilt[id] = current
		}
	}
	for id, removedAt := range q.removed {
		if removedAt <= q.lastRebuildSeq {
			delete(q.removed, id)
		}
	}
	q.lastRebuildSeq = startSeq

	q.orders = rebuilt
	q.logger.InfoContext(ctx, "read model rebuilt", "orders", len(rebuilt))
	return nil
}

// ListByState returns the orders of role's queue that are in one of states, oldest
// first. Without states the whole queue is returned. The driver queue only offers
// delivery orders in READY.
func (q *Queues) ListByState(role order.Role, states ...order.Status) ([]order.Snapshot, error) {
	if err := role.Validate(); err != nil {
		return nil, err
	}
	visible := roleStates[role]
	if len(states) == 0 {
		states = visible
	}
	for _, s := range states {
		if !slices.Contains(visible, s) {
			return nil, errs.NewValueIsInvalidErrorWithCause("state",
				fmt.Errorf("%s is not part of the %s queue", s, role))
		}
	}

	q.mu.RLock()
	result := make([]order.Snapshot, 0)
	for _, e := range q.orders {
		s := e.snapshot
		if !slices.Contains(states, s.Status) {
			continue
		}
		if role == order.RoleDriver && s.Status == order.Ready && s.Fulfillment != order.Delivery {
			continue
		}
		result = append(result, s)
	}
	q.mu.RUnlock()

	sortOldestFirst(result)
	return result, nil
}

// Queue is what one actor sees: the role queue, with OUT_FOR_DELIVERY narrowed to
// the orders assigned to actorID when role is the driver.
func (q *Queues) Queue(role order.Role, actorID string) ([]order.Snapshot, error) {
	snapshots, err := q.ListByState(role)
	if err != nil {
		return nil, err
	}
	if role != order.RoleDriver {
		return snapshots, nil
	}

	actorID = strings.TrimSpace(actorID)
	if actorID == "" {
		return nil, errs.NewValueIsRequiredError("actorId")
	}
	return slices.DeleteFunc(snapshots, func(s order.Snapshot) bool {
		return s.Status == order.OutForDelivery && !s.IsAssignedTo(actorID)
	}), nil
}

// Len returns the number of orders held.
func (q *Queues) Len() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.orders)
}

func activeStatuses() []order.Status {
	return slices.DeleteFunc(order.AllStatuses(), order.Status.IsTerminal)
}

func sortOldestFirst(snapshots []order.Snapshot) {
	sort.Slice(snapshots, func(i, j int) bool {
		if !snapshots[i].CreatedAt.Equal(snapshots[j].CreatedAt) {
			return snapshots[i].CreatedAt.Before(snapshots[j].CreatedAt)
		}
		return snapshots[i].ID.String() < snapshots[j].ID.String()
	})
}
