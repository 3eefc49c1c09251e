package commands

import (
	"errors"
	"strings"

	"ordering/internal/pkg/guard"
)

var ErrDeactivateDriverCommandIsNotConstructed = errors.New(
	"DeactivateDriverCommand must be created via NewDeactivateDriverCommand constructor",
)

// DeactivateDriverCommand takes a driver off the assignable list. Orders already
// assigned to the driver are left alone; the coordinator releases them explicitly.
type DeactivateDriverCommand struct { //nolint:recvcheck //using for validation
	driverID string

	guard guard.ConstructorGuard
}

func NewDeactivateDriverCommand(driverID string) (DeactivateDriverCommand, error) {
	driverID = strings.TrimSpace(driverID)
	if driverID == "" {
		return DeactivateDriverCommand{}, ErrDriverIDIsRequired
	}

	return DeactivateDriverCommand{
		driverID: driverID,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c DeactivateDriverCommand) Validate() error {
	return c.guard.Validate(ErrDeactivateDriverCommandIsNotConstructed)
}

func (c DeactivateDriverCommand) DriverID() string {
	return c.driverID
}
