package gateways_test

import (
	"context"
	"testing"

	"ordering/internal/core/application/gateways"
	"ordering/internal/core/application/usecases/commands"
	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTransitioner struct{ mock.Mock }

func (m *MockTransitioner) Handle(ctx context.Context, cmd commands.ApplyTransitionCommand) (order.Snapshot, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(order.Snapshot), args.Error(1)
}

func commandFor(event order.Event, role order.Role, payload commands.TransitionPayload) any {
	return mock.MatchedBy(func(cmd commands.ApplyTransitionCommand) bool {
		return cmd.Event() == event && cmd.Role() == role && cmd.ActorID() == "A1" && cmd.Payload() == payload
	})
}

func TestGateways_BuildCommandsForTheirRole(t *testing.T) {
	ctx := context.Background()
	action := gateways.Action{OrderID: kernel.NewUUID(), ActorID: "A1"}
	expected := gateways.Action{OrderID: action.OrderID, ActorID: "A1", ExpectedStatus: order.Delivered}

	tests := []struct {
		name    string
		event   order.Event
		role    order.Role
		payload commands.TransitionPayload
		call    func(tr gateways.Transitioner) (order.Snapshot, error)
	}{
		{"confirm", order.EventConfirm, order.RoleCoordinator, commands.TransitionPayload{},
			func(tr gateways.Transitioner) (order.Snapshot, error) {
				return gateways.NewCoordinator(tr).Confirm(ctx, action)
			}},
		{"reject", order.EventReject, order.RoleCoordinator, commands.TransitionPayload{Reason: "out of stock"},
			func(tr gateways.Transitioner) (order.Snapshot, error) {
				return gateways.NewCoordinator(tr).Reject(ctx, action, "out of stock")
			}},
		{"send to kitchen", order.EventSendToKitchen, order.RoleCoordinator, commands.TransitionPayload{},
			func(tr gateways.Transitioner) (order.Snapshot, error) {
				return gateways.NewCoordinator(tr).SendToKitchen(ctx, action)
			}},
		{"assign driver", order.EventAssignDriver, order.RoleCoordinator, commands.TransitionPayload{DriverID: "D1"},
			func(tr gateways.Transitioner) (order.Snapshot, error) {
				return gateways.NewCoordinator(tr).AssignDriver(ctx, action, "D1")
			}},
		{"release driver", order.EventReleaseDriver, order.RoleCoordinator, commands.TransitionPayload{Reason: "flat tyre"},
			func(tr gateways.Transitioner) (order.Snapshot, error) {
				return gateways.NewCoordinator(tr).ReleaseDriver(ctx, action, "flat tyre")
			}},
		{"hand over", order.EventHandOver, order.RoleCoordinator, commands.TransitionPayload{Collected: "20.00"},
			func(tr gateways.Transitioner) (order.Snapshot, error) {
				return gateways.NewCoordinator(tr).HandOver(ctx, action, "20.00")
			}},
		{"verify cash", order.EventVerifyCash, order.RoleCoordinator,
			commands.TransitionPayload{ExpectedStatus: order.Delivered, Collected: "18.50"},
			func(tr gateways.Transitioner) (order.Snapshot, error) {
				return gateways.NewCoordinator(tr).VerifyCash(ctx, expected, "18.50")
			}},
		{"mark ready", order.EventMarkReady, order.RoleKitchen, commands.TransitionPayload{},
			func(tr gateways.Transitioner) (order.Snapshot, error) {
				return gateways.NewKitchen(tr).MarkReady(ctx, action)
			}},
		{"start delivery", order.EventStartDelivery, order.RoleDriver, commands.TransitionPayload{},
			func(tr gateways.Transitioner) (order.Snapshot, error) {
				return gateways.NewDriver(tr).StartDelivery(ctx, action)
			}},
		{"complete delivery", order.EventCompleteDelivery, order.RoleDriver, commands.TransitionPayload{Collected: "20.00"},
			func(tr gateways.Transitioner) (order.Snapshot, error) {
				return gateways.NewDriver(tr).CompleteDelivery(ctx, action, "20.00")
			}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := &MockTransitioner{}
			snapshot := order.Snapshot{ID: action.OrderID, Status: order.Confirmed}
			tr.On("Handle", ctx, commandFor(tt.event, tt.role, tt.payload)).Return(snapshot, nil).Once()

			result, err := tt.call(tr)

			require.NoError(t, err)
			assert.Equal(t, snapshot, result)
			tr.AssertExpectations(t)
		})
	}
}

func TestGateways_ReturnEngineErrorsUnchanged(t *testing.T) {
	ctx := context.Background()
	tr := &MockTransitioner{}
	refused := order.NewForbiddenTransitionError(order.OutForDelivery, order.EventCompleteDelivery, order.RoleDriver,
		"caller is not the assigned driver")
	tr.On("Handle", ctx, mock.Anything).Return(order.Snapshot{}, refused).Once()

	_, err := gateways.NewDriver(tr).CompleteDelivery(ctx, gateways.Action{OrderID: kernel.NewUUID(), ActorID: "D2"}, "")

	assert.Same(t, refused, err)
	require.ErrorIs(t, err, order.ErrForbiddenTransition)
}

func TestGateways_InvalidActionNeverReachesTheEngine(t *testing.T) {
	tr := &MockTransitioner{}

	_, err := gateways.NewKitchen(tr).MarkReady(context.Background(), gateways.Action{OrderID: kernel.NewUUID(), ActorID: " "})

	require.ErrorIs(t, err, errs.ErrValueIsRequired)
	tr.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}
