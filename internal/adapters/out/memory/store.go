// Package memory is an in-process implementation of the order record store and the
// driver registry. It backs STORAGE=memory deployments and the workflow tests that
// need real concurrency without a database.
//
// Each order record has its own mutex, so commits on different orders never wait on
// each other; the store-wide lock only guards the maps.
package memory

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"

	"ordering/internal/core/domain/model/driver"
	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/pkg/errs"
)

type orderRecord struct {
	mu       sync.Mutex
	snapshot order.Snapshot
}

type driverRecord struct {
	id     string
	name   string
	active bool
}

// Store holds orders and drivers. The zero value is not usable; call NewStore.
type Store struct {
	mu      sync.RWMutex
	orders  map[kernel.UUID]*orderRecord
	drivers map[string]driverRecord
}

func NewStore() *Store {
	return &Store{
		orders:  make(map[kernel.UUID]*orderRecord),
		drivers: make(map[string]driverRecord),
	}
}

// OrderRepository returns the store's order view. It implements ports.OrderRepository.
func (s *Store) OrderRepository() *OrderRepository {
	return &OrderRepository{store: s}
}

// DriverRepository returns the store's driver view. It implements ports.DriverRepository.
func (s *Store) DriverRepository() *DriverRepository {
	return &DriverRepository{store: s}
}

func (s *Store) record(id kernel.UUID) (*orderRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.orders[id]
	return rec, ok
}

// OrderRepository is the in-memory order record store.
type OrderRepository struct {
	store *Store
}

func (r *OrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := aggregate.Validate(); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.orders[aggregate.ID()]; exists {
		return errs.NewValueIsInvalidErrorWithCause("orderId",
			fmt.Errorf("order %s already exists", aggregate.ID()))
	}
	r.store.orders[aggregate.ID()] = &orderRecord{snapshot: aggregate.Snapshot()}
	return nil
}

func (r *OrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := id.Validate(); err != nil {
		return nil, err
	}

	rec, ok := r.store.record(id)
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id.String())
	}

	rec.mu.Lock()
	snapshot := rec.snapshot
	rec.mu.Unlock()

	return order.RestoreOrder(snapshot)
}

// CommitIfState swaps the stored record for the aggregate when status and version
// still match. The check and the write happen under the record's lock.
func (r *OrderRepository) CommitIfState(
	ctx context.Context,
	expectedStatus order.Status,
	expectedVersion int,
	aggregate *order.Order,
) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if err := aggregate.Validate(); err != nil {
		return false, err
	}

	rec, ok := r.store.record(aggregate.ID())
	if !ok {
		return false, errs.NewObjectNotFoundError("order", aggregate.ID().String())
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	if rec.snapshot.Status != expectedStatus || rec.snapshot.Version != expectedVersion {
		return false, nil
	}
	if aggregate.Version() <= expectedVersion {
		return false, errors.New("aggregate has no new history entries")
	}
	rec.snapshot = aggregate.Snapshot()
	return true, nil
}

func (r *OrderRepository) ListByStatus(ctx context.Context, statuses ...order.Status) ([]order.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	records := make([]*orderRecord, 0, len(r.store.orders))
	for _, rec := range r.store.orders {
		records = append(records, rec)
	}
	r.store.mu.RUnlock()

	result := make([]order.Snapshot, 0, len(records))
	for _, rec := range records {
		rec.mu.Lock()
		snapshot := rec.snapshot.WithoutHistory()
		rec.mu.Unlock()

		if len(statuses) == 0 || slices.Contains(statuses, snapshot.Status) {
			result = append(result, snapshot)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID.String() < result[j].ID.String()
	})
	return result, nil
}

// DriverRepository is the in-memory driver registry.
type DriverRepository struct {
	store *Store
}

func (r *DriverRepository) Add(ctx context.Context, d *driver.Driver) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := d.Validate(); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.drivers[d.ID()]; exists {
		return errs.NewValueIsInvalidErrorWithCause("driverId", fmt.Errorf("driver %s already exists", d.ID()))
	}
	r.store.drivers[d.ID()] = driverRecord{id: d.ID(), name: d.Name(), active: d.IsActive()}
	return nil
}

func (r *DriverRepository) Update(ctx context.Context, d *driver.Driver) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := d.Validate(); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.drivers[d.ID()]; !exists {
		return errs.NewObjectNotFoundError("driver", d.ID())
	}
	r.store.drivers[d.ID()] = driverRecord{id: d.ID(), name: d.Name(), active: d.IsActive()}
	return nil
}

func (r *DriverRepository) Get(ctx context.Context, id string) (*driver.Driver, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	rec, ok := r.store.drivers[id]
	r.store.mu.RUnlock()

	if !ok {
		return nil, errs.NewObjectNotFoundError("driver", id)
	}
	return driver.RestoreDriver(rec.id, rec.name, rec.active)
}

func (r *DriverRepository) GetAllActive(ctx context.Context) ([]*driver.Driver, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	records := make([]driverRecord, 0, len(r.store.drivers))
	for _, rec := range r.store.drivers {
		if rec.active {
			records = append(records, rec)
		}
	}
	r.store.mu.RUnlock()

	sort.Slice(records, func(i, j int) bool { return records[i].id < records[j].id })

	drivers := make([]*driver.Driver, 0, len(records))
	for _, rec := range records {
		d, err := driver.RestoreDriver(rec.id, rec.name, rec.active)
		if err != nil {
			return nil, err
		}
		drivers = append(drivers, d)
	}
	return drivers, nil
}
