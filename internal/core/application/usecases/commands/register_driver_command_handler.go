package commands

import (
	"context"

	"ordering/internal/core/domain/model/driver"
)

// RegisterDriverCommandHandler stores a new active driver.
type RegisterDriverCommandHandler struct {
	uowFactory DriverUoWFactory
}

func NewRegisterDriverCommandHandler(uowFactory DriverUoWFactory) RegisterDriverCommandHandler {
	return RegisterDriverCommandHandler{
		uowFactory: uowFactory,
	}
}

func (h *RegisterDriverCommandHandler) Handle(ctx context.Context, cmd RegisterDriverCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	d, err := driver.NewDriver(cmd.DriverID(), cmd.Name())
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.DriverRepository().Add(ctx, d); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
