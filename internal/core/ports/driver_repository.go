package ports

import (
	"context"

	"ordering/internal/core/domain/model/driver"
)

// DriverRepository stores the drivers the coordinator can assign.
type DriverRepository interface {
	// Add registers a new driver. The id must not be taken.
	Add(ctx context.Context, d *driver.Driver) error

	// Update persists the active flag and name of an existing driver.
	Update(ctx context.Context, d *driver.Driver) error

	// Get returns errs.ObjectNotFoundError when the id is unknown.
	Get(ctx context.Context, id string) (*driver.Driver, error)

	// GetAllActive lists drivers that can receive assignments, ordered by id.
	GetAllActive(ctx context.Context) ([]*driver.Driver, error)
}
