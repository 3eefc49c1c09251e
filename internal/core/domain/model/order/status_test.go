package order_test

import (
	"fmt"
	"testing"

	"ordering/internal/core/domain/model/order"
	"ordering/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_Validate(t *testing.T) {
	t.Run("should validate every lifecycle status", func(t *testing.T) {
		for _, status := range order.AllStatuses() {
			t.Run(fmt.Sprintf("should validate %s", status), func(t *testing.T) {
				require.NoError(t, status.Validate())
			})
		}
	})

	t.Run("should reject Unknown status", func(t *testing.T) {
		err := order.Unknown.Validate()

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Contains(t, err.Error(), "0 is not a valid status")
	})

	t.Run("should reject out of range status", func(t *testing.T) {
		err := order.Status(42).Validate()

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Contains(t, err.Error(), "42 is not a valid status")
	})
}

func TestStatus_StringAndParse(t *testing.T) {
	t.Run("should round trip every status name", func(t *testing.T) {
		for _, status := range order.AllStatuses() {
			parsed, err := order.ParseStatus(status.String())

			require.NoError(t, err)
			assert.Equal(t, status, parsed)
		}
	})

	t.Run("should use upper snake case names", func(t *testing.T) {
		assert.Equal(t, "OUT_FOR_DELIVERY", order.OutForDelivery.String())
		assert.Equal(t, "PENDING", order.Pending.String())
		assert.Equal(t, "UNKNOWN", order.Status(99).String())
	})

	t.Run("should not parse UNKNOWN or lower case names", func(t *testing.T) {
		for _, name := range []string{"UNKNOWN", "pending", ""} {
			_, err := order.ParseStatus(name)
			require.ErrorIs(t, err, errs.ErrValueIsInvalid, name)
		}
	})
}

func TestStatus_IsTerminal(t *testing.T) {
	terminal := map[order.Status]bool{
		order.Completed: true,
		order.Rejected:  true,
	}

	for _, status := range order.AllStatuses() {
		assert.Equal(t, terminal[status], status.IsTerminal(), status.String())
	}
}

func TestStatus_ValidateCanHaveDriver(t *testing.T) {
	t.Run("delivery orders need a driver exactly while OutForDelivery or Delivered", func(t *testing.T) {
		needsDriver := map[order.Status]bool{
			order.OutForDelivery: true,
			order.Delivered:      true,
		}

		for _, status := range order.AllStatuses() {
			withDriver := status.ValidateCanHaveDriver(order.Delivery, true)
			withoutDriver := status.ValidateCanHaveDriver(order.Delivery, false)

			if needsDriver[status] {
				require.NoError(t, withDriver, status.String())
				require.ErrorIs(t, withoutDriver, errs.ErrValueIsInvalid, status.String())
			} else {
				require.ErrorIs(t, withDriver, errs.ErrValueIsInvalid, status.String())
				require.NoError(t, withoutDriver, status.String())
			}
		}
	})

	t.Run("pickup orders never have a driver", func(t *testing.T) {
		for _, status := range order.AllStatuses() {
			require.NoError(t, status.ValidateCanHaveDriver(order.Pickup, false))

			err := status.ValidateCanHaveDriver(order.Pickup, true)
			require.ErrorIs(t, err, errs.ErrValueIsInvalid)
			assert.Contains(t, err.Error(), "pickup order")
		}
	})
}

func TestStatus_Text(t *testing.T) {
	t.Run("should marshal the wire name", func(t *testing.T) {
		text, err := order.Ready.MarshalText()

		require.NoError(t, err)
		assert.Equal(t, "READY", string(text))
	})

	t.Run("should marshal Unknown as empty", func(t *testing.T) {
		text, err := order.Unknown.MarshalText()

		require.NoError(t, err)
		assert.Empty(t, text)
	})

	t.Run("should fail on out of range values", func(t *testing.T) {
		_, err := order.Status(17).MarshalText()
		require.Error(t, err)
	})

	t.Run("should unmarshal wire names and empty text", func(t *testing.T) {
		var status order.Status

		require.NoError(t, status.UnmarshalText([]byte("DELIVERED")))
		assert.Equal(t, order.Delivered, status)

		require.NoError(t, status.UnmarshalText(nil))
		assert.Equal(t, order.Unknown, status)

		require.Error(t, status.UnmarshalText([]byte("LOST")))
	})
}

func TestEventAndRole(t *testing.T) {
	t.Run("place cannot be requested", func(t *testing.T) {
		require.ErrorIs(t, order.EventPlace.Validate(), errs.ErrValueIsInvalid)
	})

	t.Run("every requestable event validates", func(t *testing.T) {
		for _, event := range order.AllEvents() {
			require.NoError(t, event.Validate(), event.String())
		}
	})

	t.Run("system is not an actor role", func(t *testing.T) {
		_, err := order.ParseRole("system")
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)

		role, err := order.ParseRole("kitchen")
		require.NoError(t, err)
		assert.Equal(t, order.RoleKitchen, role)
	})
}

func TestPaymentAndFulfillment(t *testing.T) {
	require.NoError(t, order.CashOnDelivery.Validate())
	require.NoError(t, order.Prepaid.Validate())
	require.ErrorIs(t, order.PaymentMethod("CARD").Validate(), errs.ErrValueIsInvalid)

	assert.True(t, order.CashOnDelivery.IsCash())
	assert.False(t, order.Prepaid.IsCash())

	require.NoError(t, order.Delivery.Validate())
	require.NoError(t, order.Pickup.Validate())
	require.ErrorIs(t, order.Fulfillment("DRONE").Validate(), errs.ErrValueIsInvalid)
}
