package queries_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"ordering/internal/core/application/readmodel"
	"ordering/internal/core/application/usecases/queries"
	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockQueueReader struct{ mock.Mock }

func (m *MockQueueReader) Queue(role order.Role, actorID string) ([]order.Snapshot, error) {
	args := m.Called(role, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Snapshot), args.Error(1)
}

func TestNewGetRoleQueueQuery(t *testing.T) {
	tests := []struct {
		name    string
		role    order.Role
		actorID string
		wantErr error
	}{
		{"coordinator", order.RoleCoordinator, "", nil},
		{"kitchen", order.RoleKitchen, "K1", nil},
		{"driver", order.RoleDriver, " D1 ", nil},
		{"driver without id", order.RoleDriver, "  ", errs.ErrValueIsRequired},
		{"system", order.RoleSystem, "x", errs.ErrValueIsInvalid},
		{"unknown", order.Role("cashier"), "x", errs.ErrValueIsInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, err := queries.NewGetRoleQueueQuery(tt.role, tt.actorID)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.NoError(t, query.Validate())
			assert.Equal(t, tt.role, query.Role())
		})
	}
}

func TestGetRoleQueueQueryHandler_DelegatesToReader(t *testing.T) {
	reader := &MockQueueReader{}
	expected := []order.Snapshot{{ID: kernel.NewUUID(), Status: order.Ready}}
	reader.On("Queue", order.RoleDriver, "D1").Return(expected, nil).Once()
	handler := queries.NewGetRoleQueueQueryHandler(reader)

	query, err := queries.NewGetRoleQueueQuery(order.RoleDriver, " D1 ")
	require.NoError(t, err)
	result, err := handler.Handle(context.Background(), query)

	require.NoError(t, err)
	assert.Equal(t, expected, result)
	reader.AssertExpectations(t)
}

func TestGetRoleQueueQueryHandler_ReaderError(t *testing.T) {
	reader := &MockQueueReader{}
	reader.On("Queue", order.RoleKitchen, "").Return(nil, errors.New("boom")).Once()
	handler := queries.NewGetRoleQueueQueryHandler(reader)

	query, _ := queries.NewGetRoleQueueQuery(order.RoleKitchen, "")
	_, err := handler.Handle(context.Background(), query)

	require.EqualError(t, err, "boom")
}

func TestGetRoleQueueQueryHandler_WithReadModel(t *testing.T) {
	ctx := context.Background()
	queues := readmodel.NewQueues(slog.New(slog.DiscardHandler))
	driverID := "D1"
	mine := order.Snapshot{
		ID: kernel.NewUUID(), Status: order.OutForDelivery, Fulfillment: order.Delivery,
		AssignedDriverID: &driverID, Version: 5, CreatedAt: time.Now(),
	}
	other := "D2"
	theirs := order.Snapshot{
		ID: kernel.NewUUID(), Status: order.OutForDelivery, Fulfillment: order.Delivery,
		AssignedDriverID: &other, Version: 5, CreatedAt: time.Now(),
	}
	require.NoError(t, queues.OnTransition(ctx, mine, order.HistoryEntry{}))
	require.NoError(t, queues.OnTransition(ctx, theirs, order.HistoryEntry{}))
	handler := queries.NewGetRoleQueueQueryHandler(queues)

	query, _ := queries.NewGetRoleQueueQuery(order.RoleDriver, "D1")
	result, err := handler.Handle(ctx, query)

	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, mine.ID, result[0].ID)
}
