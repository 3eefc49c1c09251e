package commands

import (
	"errors"
	"strings"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/domain/services"
	"ordering/internal/pkg/errs"
	"ordering/internal/pkg/guard"
)

var ErrApplyTransitionCommandIsNotConstructed = errors.New(
	"ApplyTransitionCommand must be created via NewApplyTransitionCommand constructor",
)

// TransitionPayload holds the optional, event-specific part of a transition request.
type TransitionPayload struct {
	// ExpectedStatus is the state the actor saw; Unknown when not supplied.
	ExpectedStatus order.Status
	Reason         string
	DriverID       string
	Collected      string
}

// ApplyTransitionCommand asks the workflow to move one order along one edge.
// Whether the edge exists and may be taken is decided by the transition engine,
// not by the constructor: an unknown event is still a valid command that will be
// refused as a forbidden transition.
//
// Example:
//
//	cmd, err := NewApplyTransitionCommand(orderID, order.EventAssignDriver,
//	    order.RoleCoordinator, "C1", TransitionPayload{DriverID: "D1"})
//	if err != nil {
//	    return err
//	}
//	snapshot, err := handler.Handle(ctx, cmd)
type ApplyTransitionCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	event   order.Event
	role    order.Role
	actorID string
	payload TransitionPayload

	guard guard.ConstructorGuard
}

func NewApplyTransitionCommand(
	orderID kernel.UUID,
	event order.Event,
	role order.Role,
	actorID string,
	payload TransitionPayload,
) (ApplyTransitionCommand, error) {
	cmd := ApplyTransitionCommand{
		payload: payload,
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setEvent(event),
		cmd.setRole(role),
		cmd.setActorID(actorID),
		cmd.validateExpectedStatus(payload.ExpectedStatus),
	); err != nil {
		return ApplyTransitionCommand{}, err
	}

	return cmd, nil
}

func (c ApplyTransitionCommand) Validate() error {
	return c.guard.Validate(ErrApplyTransitionCommandIsNotConstructed)
}

func (c ApplyTransitionCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c ApplyTransitionCommand) Event() order.Event {
	return c.event
}

func (c ApplyTransitionCommand) Role() order.Role {
	return c.role
}

func (c ApplyTransitionCommand) ActorID() string {
	return c.actorID
}

func (c ApplyTransitionCommand) Payload() TransitionPayload {
	return c.payload
}

// DriverID is the trimmed driver id named by an assign-driver request.
func (c ApplyTransitionCommand) DriverID() string {
	return strings.TrimSpace(c.payload.DriverID)
}

func (c ApplyTransitionCommand) request() services.TransitionRequest {
	return services.TransitionRequest{
		Event:          c.event,
		Role:           c.role,
		ActorID:        c.actorID,
		ExpectedStatus: c.payload.ExpectedStatus,
		Reason:         c.payload.Reason,
		DriverID:       c.payload.DriverID,
		Collected:      c.payload.Collected,
	}
}

func (c *ApplyTransitionCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *ApplyTransitionCommand) setEvent(event order.Event) error {
	if strings.TrimSpace(string(event)) == "" {
		return errs.NewValueIsRequiredError("event")
	}
	c.event = event
	return nil
}

func (c *ApplyTransitionCommand) setRole(role order.Role) error {
	if err := role.Validate(); err != nil {
		return err
	}
	c.role = role
	return nil
}

func (c *ApplyTransitionCommand) setActorID(actorID string) error {
	actorID = strings.TrimSpace(actorID)
	if actorID == "" {
		return errs.NewValueIsRequiredError("actorId")
	}
	c.actorID = actorID
	return nil
}

func (c *ApplyTransitionCommand) validateExpectedStatus(status order.Status) error {
	if status == order.Unknown {
		return nil
	}
	return status.Validate()
}
