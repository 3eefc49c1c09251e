// Package gateways exposes the workflow to each role. A gateway only offers the
// events its role may request, builds the transition command and returns the
// engine's result unchanged; it never reads or writes order state itself.
package gateways

import (
	"context"

	"ordering/internal/core/application/usecases/commands"
	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
)

// Transitioner is the single write path, implemented by
// commands.ApplyTransitionCommandHandler.
type Transitioner interface {
	Handle(ctx context.Context, cmd commands.ApplyTransitionCommand) (order.Snapshot, error)
}

// Action identifies who acts on which order, and the state they saw.
type Action struct {
	OrderID kernel.UUID
	ActorID string
	// ExpectedStatus is optional; Unknown lets the engine assume the event's source state.
	ExpectedStatus order.Status
}

type gateway struct {
	role         order.Role
	transitioner Transitioner
}

func (g gateway) apply(ctx context.Context, event order.Event, a Action, payload commands.TransitionPayload) (order.Snapshot, error) {
	payload.ExpectedStatus = a.ExpectedStatus
	cmd, err := commands.NewApplyTransitionCommand(a.OrderID, event, g.role, a.ActorID, payload)
	if err != nil {
		return order.Snapshot{}, err
	}
	return g.transitioner.Handle(ctx, cmd)
}

// Coordinator accepts, routes and settles orders.
type Coordinator struct {
	gateway
}

func NewCoordinator(transitioner Transitioner) Coordinator {
	return Coordinator{gateway{role: order.RoleCoordinator, transitioner: transitioner}}
}

func (c Coordinator) Confirm(ctx context.Context, a Action) (order.Snapshot, error) {
	return c.apply(ctx, order.EventConfirm, a, commands.TransitionPayload{})
}

func (c Coordinator) Reject(ctx context.Context, a Action, reason string) (order.Snapshot, error) {
	return c.apply(ctx, order.EventReject, a, commands.TransitionPayload{Reason: reason})
}

func (c Coordinator) SendToKitchen(ctx context.Context, a Action) (order.Snapshot, error) {
	return c.apply(ctx, order.EventSendToKitchen, a, commands.TransitionPayload{})
}

func (c Coordinator) AssignDriver(ctx context.Context, a Action, driverID string) (order.Snapshot, error) {
	return c.apply(ctx, order.EventAssignDriver, a, commands.TransitionPayload{DriverID: driverID})
}

func (c Coordinator) ReleaseDriver(ctx context.Context, a Action, reason string) (order.Snapshot, error) {
	return c.apply(ctx, order.EventReleaseDriver, a, commands.TransitionPayload{Reason: reason})
}

// HandOver gives a pickup order to the customer. collected is optional.
func (c Coordinator) HandOver(ctx context.Context, a Action, collected string) (order.Snapshot, error) {
	return c.apply(ctx, order.EventHandOver, a, commands.TransitionPayload{Collected: collected})
}

// VerifyCash settles a delivered order. An empty collected falls back to the amount
// recorded at delivery.
func (c Coordinator) VerifyCash(ctx context.Context, a Action, collected string) (order.Snapshot, error) {
	return c.apply(ctx, order.EventVerifyCash, a, commands.TransitionPayload{Collected: collected})
}

// Kitchen reports food as ready.
type Kitchen struct {
	gateway
}

func NewKitchen(transitioner Transitioner) Kitchen {
	return Kitchen{gateway{role: order.RoleKitchen, transitioner: transitioner}}
}

func (k Kitchen) MarkReady(ctx context.Context, a Action) (order.Snapshot, error) {
	return k.apply(ctx, order.EventMarkReady, a, commands.TransitionPayload{})
}

// Driver acts on orders assigned to Action.ActorID.
type Driver struct {
	gateway
}

func NewDriver(transitioner Transitioner) Driver {
	return Driver{gateway{role: order.RoleDriver, transitioner: transitioner}}
}

func (d Driver) StartDelivery(ctx context.Context, a Action) (order.Snapshot, error) {
	return d.apply(ctx, order.EventStartDelivery, a, commands.TransitionPayload{})
}

func (d Driver) CompleteDelivery(ctx context.Context, a Action, collected string) (order.Snapshot, error) {
	return d.apply(ctx, order.EventCompleteDelivery, a, commands.TransitionPayload{Collected: collected})
}
