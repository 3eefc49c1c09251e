package memory

import (
	"context"
	"errors"

	"ordering/internal/core/ports"
)

// ErrInvalidTransaction is returned by Commit and Rollback without an active Begin.
var ErrInvalidTransaction = errors.New("invalid transaction")

// UnitOfWorkFactory hands out units of work over one Store.
type UnitOfWorkFactory struct {
	store *Store
}

func NewUnitOfWorkFactory(store *Store) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{store: store}
}

func (f *UnitOfWorkFactory) Create() ports.UnitOfWork {
	return &UnitOfWork{store: f.store}
}

// UnitOfWork gives handlers the same Begin/Commit/Rollback shape as the database
// backend. Writes are applied when the repository call returns; the order record's
// compare-and-swap is the only atomicity the workflow relies on. Rollback does not
// undo applied writes.
type UnitOfWork struct {
	store  *Store
	active bool
}

func (u *UnitOfWork) Begin(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	u.active = true
	return nil
}

func (u *UnitOfWork) Commit(_ context.Context) error {
	if !u.active {
		return ErrInvalidTransaction
	}
	u.active = false
	return nil
}

func (u *UnitOfWork) Rollback(_ context.Context) error {
	if !u.active {
		return ErrInvalidTransaction
	}
	u.active = false
	return nil
}

func (u *UnitOfWork) OrderRepository() ports.OrderRepository {
	return u.store.OrderRepository()
}

func (u *UnitOfWork) DriverRepository() ports.DriverRepository {
	return u.store.DriverRepository()
}
