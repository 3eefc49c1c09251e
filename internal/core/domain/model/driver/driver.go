package driver

import (
	"errors"
	"strings"

	"ordering/internal/pkg/errs"
	"ordering/internal/pkg/guard"
)

// Domain errors for driver operations.
var (
	// ErrIDIsRequired is returned when creating a driver without an id.
	ErrIDIsRequired = errs.NewValueIsRequiredError("driverId")
	// ErrNameIsRequired is returned when creating a driver without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrDriverIsNotConstructed is returned when using an improperly initialized Driver.
	ErrDriverIsNotConstructed = errors.New("Driver must be created via NewDriver or RestoreDriver constructor")
)

// Driver is a member of the restaurant's delivery staff that the coordinator can
// assign to Ready delivery orders.
//
// Business rules:
//   - a driver has a non-blank id, chosen by the restaurant (e.g. "D1"), and a name
//   - only active drivers can receive new assignments
//   - deactivating a driver does not touch orders already assigned to them
//
// Example usage:
//
//	d, err := driver.NewDriver("D1", "Ana")
//	if err != nil {
//	    return err
//	}
//	d.Deactivate()
type Driver struct {
	id     string
	name   string
	active bool
	guard  guard.ConstructorGuard
}

// NewDriver registers an active driver. Surrounding whitespace is trimmed.
func NewDriver(id string, name string) (*Driver, error) {
	id = strings.TrimSpace(id)
	name = strings.TrimSpace(name)

	var errList []error
	if id == "" {
		errList = append(errList, ErrIDIsRequired)
	}
	if name == "" {
		errList = append(errList, ErrNameIsRequired)
	}
	if len(errList) > 0 {
		return nil, errors.Join(errList...)
	}

	return &Driver{
		id:     id,
		name:   name,
		active: true,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// RestoreDriver rebuilds a driver read from storage.
func RestoreDriver(id string, name string, active bool) (*Driver, error) {
	d, err := NewDriver(id, name)
	if err != nil {
		return nil, err
	}
	d.active = active
	return d, nil
}

func (d *Driver) Validate() error {
	if d == nil {
		return ErrDriverIsNotConstructed
	}
	return d.guard.Validate(ErrDriverIsNotConstructed)
}

func (d *Driver) ID() string {
	return d.id
}

func (d *Driver) Name() string {
	return d.name
}

// IsActive reports whether the driver can receive new assignments.
func (d *Driver) IsActive() bool {
	return d.active
}

func (d *Driver) Deactivate() {
	d.active = false
}

func (d *Driver) Activate() {
	d.active = true
}

// Equals compares drivers by id.
func (d *Driver) Equals(other *Driver) bool {
	if d == nil || other == nil {
		return false
	}
	return d.id == other.id
}
