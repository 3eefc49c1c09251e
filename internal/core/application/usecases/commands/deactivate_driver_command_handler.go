package commands

import (
	"context"
)

// DeactivateDriverCommandHandler marks a driver inactive. Deactivating an inactive
// driver succeeds without a write.
type DeactivateDriverCommandHandler struct {
	uowFactory DriverUoWFactory
}

func NewDeactivateDriverCommandHandler(uowFactory DriverUoWFactory) DeactivateDriverCommandHandler {
	return DeactivateDriverCommandHandler{
		uowFactory: uowFactory,
	}
}

func (h *DeactivateDriverCommandHandler) Handle(ctx context.Context, cmd DeactivateDriverCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	driverRepo := uow.DriverRepository()
	d, err := driverRepo.Get(ctx, cmd.DriverID())
	if err != nil {
		return err
	}

	if !d.IsActive() {
		return nil
	}

	d.Deactivate()
	if err = driverRepo.Update(ctx, d); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
