package commands

import (
	"errors"
	"strings"

	"ordering/internal/pkg/guard"
)

var (
	ErrRegisterDriverCommandIsNotConstructed = errors.New(
		"RegisterDriverCommand must be created via NewRegisterDriverCommand constructor",
	)
	ErrDriverIDIsRequired = errors.New("driver id is required")
	ErrNameIsRequired     = errors.New("name is required")
)

// RegisterDriverCommand adds a driver to the registry the coordinator assigns from.
//
// Example:
//
//	cmd, err := NewRegisterDriverCommand("D1", "Ana")
//	if err != nil {
//	    return fmt.Errorf("invalid driver data: %w", err)
//	}
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to register driver: %w", err)
//	}
type RegisterDriverCommand struct { //nolint:recvcheck //using for validation
	driverID string
	name     string

	guard guard.ConstructorGuard
}

func NewRegisterDriverCommand(driverID string, name string) (RegisterDriverCommand, error) {
	command := RegisterDriverCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setDriverID(driverID),
		command.setName(name),
	); err != nil {
		return RegisterDriverCommand{}, err
	}

	return command, nil
}

func (c RegisterDriverCommand) Validate() error {
	return c.guard.Validate(ErrRegisterDriverCommandIsNotConstructed)
}

func (c RegisterDriverCommand) DriverID() string {
	return c.driverID
}

func (c RegisterDriverCommand) Name() string {
	return c.name
}

func (c *RegisterDriverCommand) setDriverID(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrDriverIDIsRequired
	}
	c.driverID = id
	return nil
}

func (c *RegisterDriverCommand) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameIsRequired
	}
	c.name = name
	return nil
}
