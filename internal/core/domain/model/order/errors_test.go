package order_test

import (
	"errors"
	"fmt"
	"testing"

	"ordering/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransitionError(t *testing.T) {
	t.Run("should format kind, event, role, status and detail", func(t *testing.T) {
		err := order.NewForbiddenTransitionError(order.Pending, order.EventMarkReady, order.RoleKitchen, "no such edge")

		assert.Equal(t, "forbidden transition: mark-ready by kitchen in PENDING: no such edge", err.Error())
	})

	t.Run("should omit empty detail", func(t *testing.T) {
		err := order.NewOrderTerminalError(order.Rejected, order.EventConfirm, order.RoleCoordinator)

		assert.Equal(t, "order is terminal: confirm by coordinator in REJECTED", err.Error())
	})

	t.Run("should unwrap to its kind through wrapping", func(t *testing.T) {
		cases := map[error]*order.TransitionError{
			order.ErrStaleStateConflict:         order.NewStaleStateConflictError(order.Ready, order.EventAssignDriver, order.RoleCoordinator, ""),
			order.ErrForbiddenTransition:        order.NewForbiddenTransitionError(order.Ready, order.EventAssignDriver, order.RoleKitchen, ""),
			order.ErrOrderTerminal:              order.NewOrderTerminalError(order.Completed, order.EventVerifyCash, order.RoleCoordinator),
			order.ErrInvalidReconciliationInput: order.NewInvalidReconciliationInputError(order.Delivered, order.EventVerifyCash, order.RoleCoordinator, errors.New("abc")),
			order.ErrInvalidTransitionInput:     order.NewInvalidTransitionInputError(order.Pending, order.EventReject, order.RoleCoordinator, nil),
		}

		for kind, err := range cases {
			wrapped := fmt.Errorf("applying transition: %w", err)

			require.ErrorIs(t, wrapped, kind)

			var te *order.TransitionError
			require.ErrorAs(t, wrapped, &te)
			assert.Equal(t, kind, te.Kind)
		}
	})

	t.Run("kinds are distinct", func(t *testing.T) {
		err := order.NewStaleStateConflictError(order.Ready, order.EventAssignDriver, order.RoleCoordinator, "")

		assert.NotErrorIs(t, err, order.ErrForbiddenTransition)
		assert.NotErrorIs(t, err, order.ErrOrderTerminal)
	})
}
