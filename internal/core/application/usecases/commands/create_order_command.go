package commands

import (
	"errors"
	"fmt"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/pkg/errs"
	"ordering/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand is the hand-off from the ordering flow: a placed order with its
// total and payment method fixed, entering the workflow in PENDING.
//
// Example:
//
//	total, _ := kernel.MoneyFromString("20.00")
//	cmd, err := NewCreateOrderCommand(kernel.NewUUID(), total, order.CashOnDelivery, order.Delivery)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//	snapshot, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID       kernel.UUID
	total         kernel.Money
	paymentMethod order.PaymentMethod
	fulfillment   order.Fulfillment

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates the order id, a positive total, the payment method
// and the fulfillment type.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	total kernel.Money,
	paymentMethod order.PaymentMethod,
	fulfillment order.Fulfillment,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setTotal(total),
		cmd.setPaymentMethod(paymentMethod),
		cmd.setFulfillment(fulfillment),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c CreateOrderCommand) Total() kernel.Money {
	return c.total
}

func (c CreateOrderCommand) PaymentMethod() order.PaymentMethod {
	return c.paymentMethod
}

func (c CreateOrderCommand) Fulfillment() order.Fulfillment {
	return c.fulfillment
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setTotal(total kernel.Money) error {
	if !total.IsPositive() {
		return errs.NewValueIsInvalidErrorWithCause("total", fmt.Errorf("%s is not greater than 0", total))
	}
	c.total = total
	return nil
}

func (c *CreateOrderCommand) setPaymentMethod(p order.PaymentMethod) error {
	if err := p.Validate(); err != nil {
		return err
	}
	c.paymentMethod = p
	return nil
}

func (c *CreateOrderCommand) setFulfillment(f order.Fulfillment) error {
	if err := f.Validate(); err != nil {
		return err
	}
	c.fulfillment = f
	return nil
}
